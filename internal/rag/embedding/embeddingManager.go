package embedding

import "context"

// Embedder is the embedding service contract. BatchEmbedding preserves input order.
type Embedder interface {
	GetEmbedding(ctx context.Context, query string) ([]float32, error)
	BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error)
}
