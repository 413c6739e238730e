package config

import (
	"log/slog"
	"time"
)

const (
	IS_PROD                     = false
	LOG_LEVEL_PROD              = slog.LevelInfo
	TRACE_ID_KEY                = "traceId"
	RATE_LIMIT_PER_SECOND       = 2
	BURST_RATE_LIMIT_PER_SECOND = 5

	//breadth cache hit threshold (cosine)
	CacheSimilarityCutoff = 0.97

	EmbeddingOutputDimensionality int32 = 1536

	RequestsPerNewWorkerCount int64 = 10
	MaxWorkerCount            int64 = 10
	MinWorkerCount            int64 = 1
	IdleWorkerTimeout               = 1 * time.Minute
	IngestJobTimeout                = 15 * time.Minute
	QueryTimeout                    = 30 * time.Second

	//serverTimeouts
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = 45 * time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//server listening port
	ServerListenAddr = ":3000"

	//job requests buffer limit
	BufferLimit = 100

	//upload
	MaxUploadSize  = 32 << 20 //32mb
	UploadDirName  = "temporary_data"
	AuditLogDirDef = "audit_logs"

	//vectorDB
	VectorBackendQdrant     = "qdrant"
	VectorBackendMemory     = "memory"
	QdrantHost              = "localhost"
	QdrantGrpcPort          = 6334
	QdrantUseTLS            = false
	QdrantPoolSize          = 1 //2-5 is preferred for prod according to documentation
	QdrantConnectionTimeout = 30 * time.Second
	BreadthCacheCollection  = "breadth-cache"

	//partition lock
	PartitionLockTTL       = 2 * time.Minute
	PartitionLockRetryWait = 100 * time.Millisecond

	//llm
	LLMProviderGemini = "gemini"
	LLMProviderOpenAI = "openai"
	GeminiModelName   = "gemini-2.5-flash-lite-preview-09-2025"
	OpenAIModelName   = "gpt-4o-mini"

	//embeddings
	GoogleEmbeddingModel = "gemini-embedding-001"
	OpenAIEmbeddingModel = "text-embedding-3-small"
	EmbeddingBatchSize   = 100

	//chunking
	DefaultChunkSize    = 512
	DefaultChunkOverlap = 50
	SentenceSnapRatio   = 0.7

	//flashcards
	FlashcardGroupSize        = 5
	FlashcardBatchConcurrency = 3
	FlashcardBatchDelay       = 1500 * time.Millisecond
	FlashcardsPerGroup        = 5
	FlashcardTemperature      float32 = 0.7
	BreadthTemperature        float32 = 0

	//adaptive retrieval
	BreadthMin          = 0.2
	BreadthMax          = 1.0
	BreadthFallback     = 0.5
	MinFlashcardResults = 5
	DefaultMaxResults   = 25
	DefaultTopK         = 4

	ContentPlaceholder = "content not yet processed"

	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	//redis
	redisHost = "127.0.0.1"
	redisPort = "6379"
	RedisAddr = redisHost + ":" + redisPort

	//redis has 16 DB we can use
	RedisJobStore   = 0
	RedisLockStore  = 1
	RedisAuditStore = 2

	//redis timeouts
	RedisJobStoreTTL = 24 * time.Hour
)
