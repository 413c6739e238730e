package qdrantDB

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/akolanti/studyrag/internal/config"
	"github.com/akolanti/studyrag/internal/domain/ragErrors"
	"github.com/akolanti/studyrag/internal/rag/vectorDB"
	"github.com/akolanti/studyrag/pkg/logger_i"
	"github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var logger = logger_i.NewLogger("Qdrant")
var quadrantInstance *qdrant.Client
var once sync.Once

const upsertBatchSize = 256

// pointClient is the part of *qdrant.Client the store calls.
type pointClient interface {
	HealthCheck(ctx context.Context) (*qdrant.HealthCheckReply, error)
	ListCollections(ctx context.Context) ([]string, error)
	CollectionExists(ctx context.Context, collectionName string) (bool, error)
	CreateCollection(ctx context.Context, request *qdrant.CreateCollection) error
	DeleteCollection(ctx context.Context, collectionName string) error
	Upsert(ctx context.Context, request *qdrant.UpsertPoints) (*qdrant.UpdateResult, error)
	Query(ctx context.Context, request *qdrant.QueryPoints) ([]*qdrant.ScoredPoint, error)
}

type ClientHolder struct {
	QObj pointClient
}

func GetQuadrantClient(ctx context.Context, settings config.Settings) *ClientHolder {

	once.Do(func() {
		logger = logger_i.NewLogger("Qdrant")
		res := newClient(ctx, settings)
		if res != nil {
			quadrantInstance = res
			initCacheCollection(ctx, quadrantInstance)
			go closeQdrant(ctx, quadrantInstance)
		}
	})

	if quadrantInstance == nil {
		return nil
	}
	return &ClientHolder{
		QObj: quadrantInstance,
	}
}

func newClient(ctx context.Context, settings config.Settings) *qdrant.Client {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:     settings.QdrantHost,
		Port:     settings.QdrantPort,
		APIKey:   settings.QdrantAPIKey,
		UseTLS:   config.QdrantUseTLS,
		PoolSize: uint(config.QdrantPoolSize),
	})
	if err != nil {
		logger.Error("could not instantiate: ", "error:", err)
		return nil
	}

	pingCtx, cancel := context.WithTimeout(ctx, config.QdrantConnectionTimeout)
	defer cancel()
	if _, err = client.HealthCheck(pingCtx); err != nil {
		logger.Error("qdrant is unreachable", "error:", err)
		_ = client.Close()
		return nil
	}
	return client
}

func closeQdrant(ctx context.Context, qi *qdrant.Client) {
	<-ctx.Done()
	logger.Info("Shutting down Qdrant")
	err := qi.Close()
	if err != nil {
		logger.Error("could not close Qdrant: ", "error:", err)
	}
	logger.Info("Closed Qdrant")
}

// EnsurePartition has nothing to create in Qdrant: a partition is a collection-name prefix.
// It verifies the store is reachable so ingestion fails early.
func (db *ClientHolder) EnsurePartition(ctx context.Context, p vectorDB.Partition) error {
	if _, err := db.QObj.HealthCheck(ctx); err != nil {
		return ragErrors.New(ragErrors.KindVectorStoreConnection, "ensure partition "+p.Path(), err)
	}
	return nil
}

func (db *ClientHolder) ListCollections(ctx context.Context, p vectorDB.Partition) ([]string, error) {
	all, err := db.QObj.ListCollections(ctx)
	if err != nil {
		return nil, mapError("list collections", err)
	}
	prefix := p.CollectionName("")
	var names []string
	for _, name := range all {
		if strings.HasPrefix(name, prefix) {
			names = append(names, strings.TrimPrefix(name, prefix))
		}
	}
	return names, nil
}

func (db *ClientHolder) CreateCollection(ctx context.Context, p vectorDB.Partition, name string, records []vectorDB.Record) error {
	if len(records) == 0 {
		return ragErrors.New(ragErrors.KindInvalidArgument, "create collection", errors.New("no records"))
	}
	collectionName := p.CollectionName(name)

	exists, err := db.QObj.CollectionExists(ctx, collectionName)
	if err != nil {
		return mapError("collection exists", err)
	}
	if exists {
		return ragErrors.New(ragErrors.KindCollectionExists, "create collection", fmt.Errorf("%s", collectionName))
	}

	// lower score is closer: Euclid distance is returned as the score
	err = db.QObj.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(len(records[0].Vector)),
			Distance: qdrant.Distance_Euclid,
		}),
	})
	if err != nil {
		return mapError("create collection", err)
	}

	// a collection exists only once fully written: a retry must not open a partial one
	for i := 0; i < len(records); i += upsertBatchSize {
		end := min(i+upsertBatchSize, len(records))
		if err := db.upsert(ctx, collectionName, records[i:end]); err != nil {
			db.dropPartial(ctx, collectionName, err)
			return err
		}
	}
	return nil
}

func (db *ClientHolder) dropPartial(ctx context.Context, collectionName string, cause error) {
	log := logger.WithTrace(ctx).With("collection", collectionName)
	dropCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), config.QdrantConnectionTimeout)
	defer cancel()
	if err := db.QObj.DeleteCollection(dropCtx, collectionName); err != nil {
		log.Error("could not drop partially written collection", "cause", cause, "error", err)
		return
	}
	log.Warn("dropped partially written collection", "cause", cause)
}

func (db *ClientHolder) upsert(ctx context.Context, collectionName string, records []vectorDB.Record) error {
	qdrantPoints := make([]*qdrant.PointStruct, len(records))
	for i, r := range records {
		qdrantPoints[i] = &qdrant.PointStruct{
			Id:      qdrant.NewID(r.Id),
			Vectors: qdrant.NewVectors(r.Vector...),
			Payload: qdrant.NewValueMap(r.Payload),
		}
	}

	_, err := db.QObj.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collectionName,
		Points:         qdrantPoints,
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return mapError("qdrant upsert", err)
	}
	return nil
}

func (db *ClientHolder) Search(ctx context.Context, p vectorDB.Partition, name string, vector []float32, limit int) ([]vectorDB.Hit, error) {
	log := logger.WithTrace(ctx)
	result, err := db.QObj.Query(ctx, &qdrant.QueryPoints{
		CollectionName: p.CollectionName(name),
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		log.Error("Error querying Qdrant: ", "error:", err)
		return nil, mapError("search "+name, err)
	}

	hits := make([]vectorDB.Hit, 0, len(result))
	for _, point := range result {
		payload := make(map[string]string, len(point.Payload))
		for k, v := range point.Payload {
			payload[k] = v.GetStringValue()
		}
		hits = append(hits, vectorDB.Hit{
			Id:      point.GetId().GetUuid(),
			Score:   point.GetScore(),
			Payload: payload,
		})
	}
	log.Debug("Found matches", "count", len(hits))
	return hits, nil
}

func mapError(op string, err error) error {
	if s, ok := status.FromError(err); ok {
		switch s.Code() {
		case codes.NotFound:
			return ragErrors.New(ragErrors.KindCollectionMissing, op, err)
		case codes.AlreadyExists:
			return ragErrors.New(ragErrors.KindCollectionExists, op, err)
		case codes.Unavailable, codes.DeadlineExceeded:
			return ragErrors.New(ragErrors.KindVectorStoreConnection, op, err)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
