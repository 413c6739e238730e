package rag

import (
	"context"
	"errors"
	"math"
	"regexp"
	"strconv"
	"time"

	"github.com/akolanti/studyrag/internal/adapter/utils"
	"github.com/akolanti/studyrag/internal/config"
	"github.com/akolanti/studyrag/internal/domain/commonModels"
	"github.com/akolanti/studyrag/internal/domain/ragErrors"
	"github.com/akolanti/studyrag/internal/metrics"
	"github.com/akolanti/studyrag/internal/rag/llm"
	"github.com/akolanti/studyrag/internal/rag/vectorDB"
)

const breadthSystemPrompt = `Rate how broad a study topic is on a scale from 0.2 to 1.0.
0.2 means a single narrow fact or definition, 1.0 means an entire subject area.
Reply with the number only.`

const flashcardQueryPrefix = "[flashcards] "

var firstNumber = regexp.MustCompile(`[-+]?\d*\.?\d+`)

// ParseBreadth reads the first number in a reply and clamps it to the breadth range.
func ParseBreadth(reply string) (float64, bool) {
	match := firstNumber.FindString(reply)
	if match == "" {
		return config.BreadthFallback, false
	}
	v, err := strconv.ParseFloat(match, 64)
	if err != nil || math.IsNaN(v) {
		return config.BreadthFallback, false
	}
	return ClampBreadth(v), true
}

func ClampBreadth(b float64) float64 {
	return math.Min(math.Max(b, config.BreadthMin), config.BreadthMax)
}

// ResultCount scales maxResults by breadth, never below the minimum flashcard count and
// never above maxResults.
func ResultCount(breadth float64, maxResults int) int {
	n := int(math.Round(breadth * float64(maxResults)))
	n = max(n, config.MinFlashcardResults)
	return min(n, maxResults)
}

// QueryFlashcards returns the flashcards nearest to topic, sized by the topic's breadth.
// A partition without flashcards is reported as CollectionMissing.
func (s *service) QueryFlashcards(ctx context.Context, q FlashcardQuery) ([]commonModels.FlashcardResult, error) {
	log := s.logger.WithTrace(ctx).With("classroomId", q.ClassroomId, "documentId", q.DocumentId)
	maxResults := q.MaxResults
	if maxResults <= 0 {
		maxResults = config.DefaultMaxResults
	}
	partition := vectorDB.Partition{ClassroomId: q.ClassroomId, DocumentId: q.DocumentId}
	defer s.audit(ctx, q.ClassroomId, q.Username, q.DocumentId, flashcardQueryPrefix+q.Topic)

	if !s.partitions.HasCollection(ctx, partition, vectorDB.FlashcardCollection) {
		return nil, ragErrors.New(ragErrors.KindCollectionMissing, "query flashcards",
			errors.New(partition.Path()+" has no flashcards"))
	}

	start := time.Now()
	vector, err := s.embedder.GetEmbedding(ctx, q.Topic)
	metrics.CaptureExecutionMetrics("embedding", time.Since(start))
	if err != nil {
		return nil, ragErrors.New(ragErrors.KindEmbeddingService, "embed topic", err)
	}

	breadth := s.topicBreadth(ctx, q.Topic, vector)
	count := ResultCount(breadth, maxResults)
	log.Debug("flashcard result size", "breadth", breadth, "count", count)

	start = time.Now()
	hits, err := s.partitions.Store().Search(ctx, partition, vectorDB.FlashcardCollection, vector, count)
	metrics.CaptureExecutionMetrics("vector_search", time.Since(start))
	if err != nil {
		return nil, err
	}

	results := make([]commonModels.FlashcardResult, 0, len(hits))
	for _, h := range hits {
		results = append(results, commonModels.FlashcardResult{
			Question: h.Payload[vectorDB.FieldQuestion],
			Answer:   h.Payload[vectorDB.FieldAnswer],
			Score:    h.Score,
		})
	}
	return results, nil
}

// topicBreadth never fails: any cache, service or parse problem yields the fallback.
func (s *service) topicBreadth(ctx context.Context, topic string, vector []float32) float64 {
	log := s.logger.WithTrace(ctx)

	if s.cache != nil {
		if b, found, err := s.cache.GetCachedBreadth(ctx, vector); err == nil && found {
			metrics.ObserveBreadth("cache", b)
			return ClampBreadth(b)
		}
	}

	start := time.Now()
	reply, err := s.llmProvider.Complete(ctx, breadthSystemPrompt, topic, llm.CompletionOptions{
		Temperature: llm.WithTemperature(config.BreadthTemperature),
	})
	metrics.CaptureExecutionMetrics("llm_breadth", time.Since(start))
	if err != nil {
		log.Warn("breadth evaluation failed, using fallback", "error", err)
		metrics.ObserveBreadth("fallback", config.BreadthFallback)
		return config.BreadthFallback
	}

	breadth, ok := ParseBreadth(reply)
	if !ok {
		log.Warn("unparseable breadth reply, using fallback", "reply", reply)
		metrics.ObserveBreadth("fallback", breadth)
		return breadth
	}
	metrics.ObserveBreadth("llm", breadth)

	if s.cache != nil {
		go func() {
			if err := s.cache.SaveBreadth(context.WithoutCancel(ctx), utils.GetNewUUID(), vector, breadth); err != nil {
				log.Error("Failed to save breadth to cache", "error", err)
			}
		}()
	}
	return breadth
}
