package rag

import (
	"context"
	"time"

	"github.com/akolanti/studyrag/internal/config"
	"github.com/akolanti/studyrag/internal/domain/commonModels"
	"github.com/akolanti/studyrag/internal/domain/ragErrors"
	"github.com/akolanti/studyrag/internal/metrics"
	"github.com/akolanti/studyrag/internal/rag/vectorDB"
)

func placeholder() []commonModels.ContentResult {
	metrics.IncrementPlaceholderResults()
	return []commonModels.ContentResult{{Text: config.ContentPlaceholder, Score: 0}}
}

// QueryContent returns the topK nearest content chunks, closest first. A document that has
// not been processed yet answers with a single placeholder result instead of an error.
func (s *service) QueryContent(ctx context.Context, q ContentQuery) ([]commonModels.ContentResult, error) {
	log := s.logger.WithTrace(ctx).With("classroomId", q.ClassroomId, "documentId", q.DocumentId)
	defer s.audit(ctx, q.ClassroomId, q.Username, q.DocumentId, q.QueryText)

	topK := q.TopK
	if topK <= 0 {
		topK = config.DefaultTopK
	}
	partition := vectorDB.Partition{ClassroomId: q.ClassroomId, DocumentId: q.DocumentId}

	if !s.partitions.HasCollection(ctx, partition, vectorDB.ContentCollection) {
		log.Warn("content not available yet, returning placeholder")
		return placeholder(), nil
	}

	start := time.Now()
	vector, err := s.embedder.GetEmbedding(ctx, q.QueryText)
	metrics.CaptureExecutionMetrics("embedding", time.Since(start))
	if err != nil {
		return nil, ragErrors.New(ragErrors.KindEmbeddingService, "embed query", err)
	}

	start = time.Now()
	hits, err := s.partitions.Store().Search(ctx, partition, vectorDB.ContentCollection, vector, topK)
	metrics.CaptureExecutionMetrics("vector_search", time.Since(start))
	if ragErrors.IsNotReady(err) {
		log.Warn("content collection vanished during query, returning placeholder", "error", err)
		return placeholder(), nil
	}
	if err != nil {
		return nil, err
	}

	results := make([]commonModels.ContentResult, 0, len(hits))
	for _, h := range hits {
		results = append(results, commonModels.ContentResult{
			Text:  h.Payload[vectorDB.FieldText],
			Score: h.Score,
		})
	}
	log.Debug("content query answered", "results", len(results))
	return results, nil
}
