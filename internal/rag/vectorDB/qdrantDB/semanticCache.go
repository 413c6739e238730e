package qdrantDB

import (
	"context"
	"time"

	"github.com/akolanti/studyrag/internal/config"
	"github.com/qdrant/go-client/qdrant"
)

var breadthCacheName = config.BreadthCacheCollection

func initCacheCollection(ctx context.Context, client *qdrant.Client) {
	loggr := logger.WithTrace(ctx)
	exists, err := client.CollectionExists(ctx, breadthCacheName)
	if err != nil || exists {
		if err != nil {
			loggr.Error("Breadth cache lookup failed", "error", err)
		}
		return
	}
	err = client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: breadthCacheName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(config.EmbeddingOutputDimensionality),
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		loggr.Error("Breadth cache collection creation failed", "error", err)
	}
}

func (db *ClientHolder) GetCachedBreadth(ctx context.Context, topicVector []float32) (float64, bool, error) {
	loggr := logger.WithTrace(ctx)

	searchResult, err := db.QObj.Query(ctx, &qdrant.QueryPoints{
		CollectionName: breadthCacheName,
		Query:          qdrant.NewQuery(topicVector...),
		Limit:          qdrant.PtrOf(uint64(1)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil || len(searchResult) == 0 {
		return 0, false, err
	}

	if searchResult[0].Score < config.CacheSimilarityCutoff {
		return 0, false, nil
	}

	loggr.Debug("breadth cache hit", "semantic similarity score", searchResult[0].Score)
	return searchResult[0].Payload["breadth"].GetDoubleValue(), true, nil
}

func (db *ClientHolder) SaveBreadth(ctx context.Context, id string, topicVector []float32, breadth float64) error {
	loggr := logger.WithTrace(ctx)

	_, err := db.QObj.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: breadthCacheName,
		Points: []*qdrant.PointStruct{
			{
				Id:      qdrant.NewID(id),
				Vectors: qdrant.NewVectors(topicVector...),
				Payload: qdrant.NewValueMap(map[string]any{
					"breadth":   breadth,
					"timestamp": time.Now().Unix(),
				}),
			},
		},
	})
	if err != nil {
		loggr.Error("Saving breadth to cache failed", "error", err)
	}
	return err
}
