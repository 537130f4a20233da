package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type ServerConfig struct {
	Env  string
	Port string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	MaxConns int32
	MinConns int32
}

// DSN builds the PostgreSQL connection string for pgxpool.
func (d DBConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

// GatewayConfig points at the model gateway used for generation and
// embedding. GenerationRPS of zero disables client-side rate limiting.
type GatewayConfig struct {
	URL             string
	GenerationModel string
	EmbeddingModel  string
	Timeout         time.Duration
	GenerationRPS   float64
}

type RerankerConfig struct {
	URL     string
	Model   string
	Timeout time.Duration
	Enabled bool
}

// RetrievalConfig carries the pipeline tunables surfaced as environment
// variables.
type RetrievalConfig struct {
	ExpansionFanout       int
	SearchLimit           int
	TopK                  int
	PreviewChars          int
	MaxConcurrentSearches int
	SearchTimeout         time.Duration
	AnswerMaxTokens       int
	ExpansionCacheSize    int
}

type Config struct {
	Server    ServerConfig
	DB        DBConfig
	Gateway   GatewayConfig
	Reranker  RerankerConfig
	Retrieval RetrievalConfig
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Env:  getEnv("ENV", "development"),
			Port: getEnv("PORT", "9020"),
		},
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "docqa-db"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "docqa_user"),
			Password: getSecret("DB_PASSWORD", "DB_PASSWORD_FILE", "docqa_password"),
			Name:     getEnv("DB_NAME", "docqa_db"),
			MaxConns: int32(getEnvInt("DB_MAX_CONNS", 10)),
			MinConns: int32(getEnvInt("DB_MIN_CONNS", 2)),
		},
		Gateway: GatewayConfig{
			URL:             getEnv("OLLAMA_URL", "http://ollama:11434"),
			GenerationModel: getEnv("GENERATION_MODEL", "gemma3:4b"),
			EmbeddingModel:  getEnv("EMBEDDING_MODEL", "embeddinggemma"),
			Timeout:         getEnvDuration("OLLAMA_TIMEOUT_SECONDS", 120),
			GenerationRPS:   getEnvFloat64("GENERATION_RPS", 0),
		},
		Reranker: RerankerConfig{
			URL:     getEnv("RERANKER_URL", "http://reranker:8001"),
			Model:   getEnv("RERANKER_MODEL", "ms-marco-minilm-l6-v2"),
			Timeout: getEnvDuration("RERANK_TIMEOUT_SECONDS", 30),
			Enabled: getEnvBool("RERANK_ENABLED", true),
		},
		Retrieval: RetrievalConfig{
			ExpansionFanout:       getEnvInt("EXPANSION_FANOUT", 3),
			SearchLimit:           getEnvInt("SEARCH_LIMIT", 5),
			TopK:                  getEnvInt("TOP_K", 5),
			PreviewChars:          getEnvInt("PREVIEW_CHARS", 200),
			MaxConcurrentSearches: getEnvInt("MAX_CONCURRENT_SEARCHES", 4),
			SearchTimeout:         getEnvDuration("SEARCH_TIMEOUT_SECONDS", 10),
			AnswerMaxTokens:       getEnvInt("ANSWER_MAX_TOKENS", 768),
			ExpansionCacheSize:    getEnvInt("EXPANSION_CACHE_SIZE", 256),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// getSecret reads a value from the environment, falling back to a file
// referenced by fileEnvKey (for mounted secrets).
func getSecret(envKey, fileEnvKey, fallback string) string {
	if value, ok := os.LookupEnv(envKey); ok {
		return value
	}
	if filePath, ok := os.LookupEnv(fileEnvKey); ok {
		content, err := os.ReadFile(filePath)
		if err == nil {
			return strings.TrimSpace(string(content))
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvFloat64(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvDuration(key string, fallbackSeconds int) time.Duration {
	return time.Duration(getEnvInt(key, fallbackSeconds)) * time.Second
}
