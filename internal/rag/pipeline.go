package rag

import (
	"context"
	"errors"
	"time"

	"github.com/akolanti/studyrag/internal/domain/ragErrors"
	"github.com/akolanti/studyrag/internal/metrics"
	"github.com/akolanti/studyrag/internal/rag/ingest"
	"github.com/akolanti/studyrag/internal/rag/segment"
	"github.com/akolanti/studyrag/internal/rag/vectorDB"
)

// ProcessDocument segments, chunks, embeds and stores a document, then synthesizes its
// flashcards. Parse, embedding and storage failures abort the call; flashcard generation
// failures only reduce the flashcard count.
func (s *service) ProcessDocument(ctx context.Context, rawText string, classroomId string, documentId string) (IngestResult, error) {
	log := s.logger.WithTrace(ctx).With("classroomId", classroomId, "documentId", documentId)
	var result IngestResult
	if classroomId == "" || documentId == "" {
		return result, ragErrors.New(ragErrors.KindInvalidArgument, "process document", errors.New("classroom and document ids are required"))
	}
	partition := vectorDB.Partition{ClassroomId: classroomId, DocumentId: documentId}

	sections, err := segment.Sections(rawText)
	if err != nil {
		return result, err
	}
	texts := s.chunker.Split(sections)
	if len(texts) == 0 {
		return result, ragErrors.New(ragErrors.KindParse, "chunk document", errors.New("document produced no chunks"))
	}
	chunks := ingest.PrepareChunks(texts)
	result.ChunkCount = len(chunks)
	log.Info("document chunked", "sections", len(sections), "chunks", len(chunks))

	if err := s.partitions.EnsurePartition(ctx, partition); err != nil {
		return result, err
	}

	start := time.Now()
	vectors, err := ingest.IndexChunks(ctx, s.embedder, chunks)
	metrics.CaptureExecutionMetrics("embedding", time.Since(start))
	if err != nil {
		return result, err
	}

	records := make([]vectorDB.Record, len(chunks))
	for i, c := range chunks {
		records[i] = vectorDB.Record{
			Id:     c.ChunkId,
			Vector: vectors[i],
			Payload: map[string]any{
				vectorDB.FieldText:     c.Chunk,
				vectorDB.FieldPosition: c.Position,
			},
		}
	}

	start = time.Now()
	result.ContentCreated, err = s.partitions.CreateOrOpen(ctx, partition, vectorDB.ContentCollection, records)
	metrics.CaptureExecutionMetrics("vector_store_write", time.Since(start))
	if err != nil {
		return result, err
	}

	if s.partitions.HasCollection(ctx, partition, vectorDB.FlashcardCollection) {
		log.Info("flashcards already stored for partition, skipping synthesis")
		return result, nil
	}
	result.FlashcardCount, err = s.synthesizer.Synthesize(ctx, texts, partition)
	return result, err
}
