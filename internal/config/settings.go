package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Settings are the values that differ between deployments. Everything else lives in the const block.
type Settings struct {
	ListenAddr    string
	AuthToken     string
	NoAuthBypass  bool
	RedisAddr     string
	RedisPassword string

	VectorBackend string
	QdrantHost    string
	QdrantPort    int
	QdrantAPIKey  string

	LLMProvider     string
	GoogleAPIKey    string
	OpenAIAPIKey    string
	GeminiModel     string
	OpenAIModel     string
	EmbeddingModel  string
	AuditLogDir     string
	UploadDirectory string
}

// Load reads an optional .env file and then the process environment.
func Load() Settings {
	_ = godotenv.Load()

	s := Settings{
		ListenAddr:      getEnv("LISTEN_ADDR", ServerListenAddr),
		AuthToken:       os.Getenv("AUTH_TOKEN"),
		NoAuthBypass:    getBool("NO_AUTH_BYPASS", false),
		RedisAddr:       getEnv("REDIS_ADDR", RedisAddr),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		VectorBackend:   getEnv("VECTOR_BACKEND", VectorBackendQdrant),
		QdrantHost:      getEnv("QDRANT_HOST", QdrantHost),
		QdrantPort:      getInt("QDRANT_PORT", QdrantGrpcPort),
		QdrantAPIKey:    os.Getenv("QDRANT_API_KEY"),
		LLMProvider:     getEnv("LLM_PROVIDER", LLMProviderGemini),
		GoogleAPIKey:    os.Getenv("GOOGLE_API_KEY"),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		GeminiModel:     getEnv("GEMINI_MODEL", GeminiModelName),
		OpenAIModel:     getEnv("OPENAI_MODEL", OpenAIModelName),
		AuditLogDir:     getEnv("AUDIT_LOG_DIR", AuditLogDirDef),
		UploadDirectory: getEnv("UPLOAD_DIR", UploadDirName),
	}
	if s.LLMProvider == LLMProviderOpenAI {
		s.EmbeddingModel = getEnv("EMBEDDING_MODEL", OpenAIEmbeddingModel)
	} else {
		s.EmbeddingModel = getEnv("EMBEDDING_MODEL", GoogleEmbeddingModel)
	}
	return s
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}
