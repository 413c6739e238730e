// Package bootstrap assembles the pipeline from Settings for the HTTP server and the MCP server.
package bootstrap

import (
	"context"
	"errors"

	"github.com/akolanti/studyrag/internal/config"
	"github.com/akolanti/studyrag/internal/customHttpClient"
	"github.com/akolanti/studyrag/internal/data/store"
	"github.com/akolanti/studyrag/internal/domain/commonModels"
	"github.com/akolanti/studyrag/internal/domain/jobModel"
	"github.com/akolanti/studyrag/internal/rag"
	"github.com/akolanti/studyrag/internal/rag/embedding"
	"github.com/akolanti/studyrag/internal/rag/embedding/googleEmbedding"
	"github.com/akolanti/studyrag/internal/rag/embedding/openaiEmbedding"
	"github.com/akolanti/studyrag/internal/rag/ingest"
	"github.com/akolanti/studyrag/internal/rag/llm"
	"github.com/akolanti/studyrag/internal/rag/llm/gemini"
	"github.com/akolanti/studyrag/internal/rag/llm/openaiLLM"
	"github.com/akolanti/studyrag/internal/rag/vectorDB"
	"github.com/akolanti/studyrag/internal/rag/vectorDB/memoryDB"
	"github.com/akolanti/studyrag/internal/rag/vectorDB/qdrantDB"
	"github.com/akolanti/studyrag/pkg/logger_i"
)

var logger = logger_i.NewLogger("bootstrap")

// RagService builds the pipeline. Redis-backed pieces fall back to local ones when Redis is
// offline; a missing model provider is fatal. Clients close when ctx is cancelled.
func RagService(ctx context.Context, settings config.Settings) (rag.Service, error) {
	vectors, cache := vectorBackend(ctx, settings)

	provider, embedder := modelProviders(ctx, settings)
	if provider == nil || embedder == nil {
		logger.Debug("Available services", "LLMProvider", provider != nil, "EmbeddingService", embedder != nil)
		return nil, errors.New("model provider " + settings.LLMProvider + " failed to initialize")
	}

	return rag.NewService(rag.ServiceConfig{
		Store:       vectors,
		Locker:      partitionLocker(ctx, settings),
		Cache:       cache,
		LLMProvider: provider,
		Embedder:    embedder,
		AuditLog:    auditLog(ctx, settings),
		Chunker:     ingest.DefaultChunker(),
	}), nil
}

func vectorBackend(ctx context.Context, settings config.Settings) (vectorDB.DataProcessor, vectorDB.BreadthCache) {
	if settings.VectorBackend == config.VectorBackendQdrant {
		if q := qdrantDB.GetQuadrantClient(ctx, settings); q != nil {
			return q, q
		}
		logger.Error("Qdrant is offline, partitions are kept in memory for this process")
	}
	m := memoryDB.NewStorage()
	return m, m
}

func modelProviders(ctx context.Context, settings config.Settings) (llm.Provider, embedding.Embedder) {
	httpClient := customHttpClient.GetPooledClient()
	if settings.LLMProvider == config.LLMProviderOpenAI {
		return openaiLLM.NewOpenAIClient(settings.OpenAIAPIKey, settings.OpenAIModel, httpClient),
			openaiEmbedding.NewOpenAIEmbedder(settings.OpenAIAPIKey, settings.EmbeddingModel, httpClient)
	}
	return gemini.GetGeminiClient(ctx, settings.GoogleAPIKey, settings.GeminiModel, httpClient),
		googleEmbedding.GetGoogleEmbeddingClient(ctx, settings.EmbeddingModel, settings.GoogleAPIKey, httpClient)
}

func partitionLocker(ctx context.Context, settings config.Settings) vectorDB.PartitionLocker {
	if l := store.GetRedisPartitionLock(ctx, settings); l != nil {
		return l
	}
	logger.Warn("Redis lock store offline, partition locks are process-local")
	return store.InitInMemoryPartitionLock()
}

func auditLog(ctx context.Context, settings config.Settings) commonModels.QueryAuditLog {
	if a := store.GetRedisAuditLog(ctx, settings); a != nil {
		return a
	}
	logger.Warn("Redis audit store offline, writing audit log files", "dir", settings.AuditLogDir)
	return store.NewFileAuditLog(settings.AuditLogDir)
}

// JobStore returns the Redis job store, or an in-memory one when Redis is offline.
func JobStore(ctx context.Context, settings config.Settings) jobModel.JobStore {
	if s := store.GetRedisJobStore(ctx, settings); s != nil {
		return s
	}
	logger.Error("Redis job store is offline, job state is kept in memory")
	return store.InitInMemoryJobStore()
}
