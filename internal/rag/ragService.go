package rag

import (
	"context"
	"os"
	"time"

	"github.com/akolanti/studyrag/internal/domain/commonModels"
	"github.com/akolanti/studyrag/internal/domain/jobModel"
	"github.com/akolanti/studyrag/internal/metrics"
	"github.com/akolanti/studyrag/internal/rag/embedding"
	"github.com/akolanti/studyrag/internal/rag/ingest"
	"github.com/akolanti/studyrag/internal/rag/llm"
	"github.com/akolanti/studyrag/internal/rag/vectorDB"
	"github.com/akolanti/studyrag/pkg/logger_i"
)

/*
ARCHITECTURE NOTE: OPAQUE INTERFACE PATTERN
---------------------------------------------------------

1. Service (Interface):
  - This is the PUBLIC contract used by the worker, the HTTP handlers and the MCP tools.
  - It keeps callers decoupled from the vector store, the embedder and the LLM.

2. service (Private Struct):
  - This is the PRIVATE implementation.
  - It holds the state (partition manager, LLM and embedding clients, audit log).

3. Dependency Injection (NewService):
  - The constructor links the private struct to the public interface, so tests swap in
    the in-memory store and function-field mocks without touching callers.
*/

// Service is the ingestion and retrieval pipeline.
type Service interface {
	// IngestDocument runs a queued ingest job: extract, then ProcessDocument.
	IngestDocument(ctx context.Context, job jobModel.Job) jobModel.Job
	ProcessDocument(ctx context.Context, rawText string, classroomId string, documentId string) (IngestResult, error)
	QueryContent(ctx context.Context, q ContentQuery) ([]commonModels.ContentResult, error)
	QueryFlashcards(ctx context.Context, q FlashcardQuery) ([]commonModels.FlashcardResult, error)
}

type ContentQuery struct {
	ClassroomId string
	DocumentId  string
	Username    string
	QueryText   string
	TopK        int
}

type FlashcardQuery struct {
	ClassroomId string
	DocumentId  string
	Username    string
	Topic       string
	MaxResults  int
}

type IngestResult struct {
	ChunkCount     int
	FlashcardCount int
	ContentCreated bool
}

type ServiceConfig struct {
	Store       vectorDB.DataProcessor
	Locker      vectorDB.PartitionLocker
	Cache       vectorDB.BreadthCache // optional
	LLMProvider llm.Provider
	Embedder    embedding.Embedder
	AuditLog    commonModels.QueryAuditLog
	Chunker     ingest.Chunker
	// BatchDelay overrides the pause between flashcard batches; zero keeps the default.
	BatchDelay time.Duration
}

type service struct {
	partitions  *vectorDB.Manager
	cache       vectorDB.BreadthCache
	llmProvider llm.Provider
	embedder    embedding.Embedder
	auditLog    commonModels.QueryAuditLog
	chunker     ingest.Chunker
	synthesizer *flashcardSynthesizer
	logger      *logger_i.Logger
}

// NewService constructor
func NewService(cfg ServiceConfig) Service {
	chunker := cfg.Chunker
	if chunker.Size == 0 {
		chunker = ingest.DefaultChunker()
	}
	partitions := vectorDB.NewManager(cfg.Store, cfg.Locker)
	return &service{
		partitions:  partitions,
		cache:       cfg.Cache,
		llmProvider: cfg.LLMProvider,
		embedder:    cfg.Embedder,
		auditLog:    cfg.AuditLog,
		chunker:     chunker,
		synthesizer: newFlashcardSynthesizer(partitions, cfg.LLMProvider, cfg.Embedder, cfg.BatchDelay),
		logger:      logger_i.NewLogger("RAG Service"),
	}
}

func (s *service) IngestDocument(ctx context.Context, job jobModel.Job) jobModel.Job {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("document_ingestion", time.Since(start)) }()
	log := s.logger.WithTrace(ctx).With("JobId", job.Id)

	defer func() {
		if err := os.Remove(job.JobPayload.IngestURL); err != nil && !os.IsNotExist(err) {
			log.Warn("could not remove uploaded file", "path", job.JobPayload.IngestURL, "error", err)
		}
	}()

	job = logOutput(job, jobModel.ExtractionCall, log)
	rawText, err := ingest.ExtractText(job.JobPayload.IngestURL)
	if err != nil {
		return s.jobError(ctx, job, err, "EXTRACTION_FAILURE")
	}

	result, err := s.ProcessDocument(ctx, rawText, job.JobPayload.ClassroomId, job.JobPayload.DocumentId)
	if err != nil {
		return s.jobError(ctx, job, err, "INGESTION_FAILURE")
	}

	job.JobPayload.ChunkCount = result.ChunkCount
	job.JobPayload.FlashcardCount = result.FlashcardCount
	job.JobPayload.ContentCreated = result.ContentCreated
	job.CurrentStep = jobModel.Complete
	return job
}
