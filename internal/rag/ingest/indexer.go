package ingest

import (
	"context"
	"fmt"

	"github.com/akolanti/studyrag/internal/config"
	"github.com/akolanti/studyrag/internal/domain/commonModels"
	"github.com/akolanti/studyrag/internal/domain/ragErrors"
	"github.com/akolanti/studyrag/internal/rag/embedding"
	"github.com/akolanti/studyrag/pkg/logger_i"
)

var indexLogger = logger_i.NewLogger("Embedding Indexer")

// IndexChunks embeds chunk texts in batches. Output index i belongs to input index i.
// Any embedding failure aborts the call; nothing is retried here.
func IndexChunks(ctx context.Context, embedder embedding.Embedder, chunks []commonModels.DocChunk) ([][]float32, error) {
	log := indexLogger.WithTrace(ctx)
	vectors := make([][]float32, 0, len(chunks))
	batchSize := config.EmbeddingBatchSize

	for i := 0; i < len(chunks); i += batchSize {
		end := i + batchSize
		if end > len(chunks) {
			end = len(chunks)
		}

		texts := make([]string, 0, end-i)
		for _, c := range chunks[i:end] {
			texts = append(texts, c.Chunk)
		}

		log.Debug("Starting embedding call", "batch start", i, "batch length", len(texts))
		batch, err := embedder.BatchEmbedding(ctx, texts)
		if err != nil {
			return nil, ragErrors.New(ragErrors.KindEmbeddingService, "index chunks", err)
		}
		if len(batch) != len(texts) {
			return nil, ragErrors.New(ragErrors.KindEmbeddingService, "index chunks",
				fmt.Errorf("mismatch: sent %d texts but got %d vectors", len(texts), len(batch)))
		}
		vectors = append(vectors, batch...)
	}

	if err := checkDimensions(vectors); err != nil {
		return nil, err
	}
	return vectors, nil
}

// checkDimensions enforces one dimensionality per document.
func checkDimensions(vectors [][]float32) error {
	if len(vectors) == 0 {
		return nil
	}
	dim := len(vectors[0])
	for i, v := range vectors {
		if len(v) == 0 || len(v) != dim {
			return ragErrors.New(ragErrors.KindEmbeddingService, "index chunks",
				fmt.Errorf("vector %d has dimension %d, expected %d", i, len(v), dim))
		}
	}
	return nil
}
