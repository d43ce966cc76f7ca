package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Qdrant    QdrantConfig
	Gemini    GeminiConfig
	Providers []ProviderConfig
	Gateway   GatewayConfig
	Storage   StorageConfig
	Worker    WorkerConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// Enabled reports whether the optional interview archive should be wired.
// An empty DB_HOST silently disables it, same as a missing provider key.
func (d DatabaseConfig) Enabled() bool {
	return d.Host != ""
}

type QdrantConfig struct {
	URL        string
	APIKey     string
	Collection string
}

func (q QdrantConfig) Enabled() bool {
	return q.URL != ""
}

type GeminiConfig struct {
	APIKey string
}

// ProviderConfig describes one primary completion backend. Ordering in
// Config.Providers is priority order. A provider without an API key is
// inert: it stays in the list but is never called.
type ProviderConfig struct {
	Name    string
	BaseURL string
	APIKey  string
	Model   string
}

type GatewayConfig struct {
	MaxAttempts       int
	BaseRetryDelay    time.Duration
	CompletionTimeout time.Duration
	MaxTokens         int
	JobDescMaxChars   int
}

type StorageConfig struct {
	UploadPath  string
	MaxFileSize int64
}

type WorkerConfig struct {
	Concurrency int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", ""),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "interview_gateway"),
		},
		Qdrant: QdrantConfig{
			URL:        getEnv("QDRANT_URL", ""),
			APIKey:     getEnv("QDRANT_API_KEY", ""),
			Collection: getEnv("QDRANT_COLLECTION", "interview_questions"),
		},
		Gemini: GeminiConfig{
			APIKey: getEnv("GEMINI_API_KEY", ""),
		},
		Providers: []ProviderConfig{
			{
				Name:    "groq",
				BaseURL: getEnv("GROQ_BASE_URL", "https://api.groq.com/openai/v1/chat/completions"),
				APIKey:  getEnv("GROQ_API_KEY", ""),
				Model:   getEnv("GROQ_MODEL", "llama-3.3-70b-versatile"),
			},
			{
				Name:    "openrouter",
				BaseURL: getEnv("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1/chat/completions"),
				APIKey:  getEnv("OPENROUTER_API_KEY", ""),
				Model:   getEnv("OPENROUTER_MODEL", "meta-llama/llama-3.3-70b-instruct"),
			},
			{
				Name:    "together",
				BaseURL: getEnv("TOGETHER_BASE_URL", "https://api.together.xyz/v1/chat/completions"),
				APIKey:  getEnv("TOGETHER_API_KEY", ""),
				Model:   getEnv("TOGETHER_MODEL", "meta-llama/Llama-3.3-70B-Instruct-Turbo"),
			},
		},
		Gateway: GatewayConfig{
			MaxAttempts:       getEnvAsInt("MAX_ATTEMPTS", 3),
			BaseRetryDelay:    getEnvAsDuration("BASE_RETRY_DELAY", "500ms"),
			CompletionTimeout: getEnvAsDuration("COMPLETION_TIMEOUT", "12s"),
			MaxTokens:         getEnvAsInt("MAX_COMPLETION_TOKENS", 1024),
			JobDescMaxChars:   getEnvAsInt("JOB_DESC_MAX_CHARS", 1200),
		},
		Storage: StorageConfig{
			UploadPath:  getEnv("UPLOAD_PATH", "./uploads"),
			MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 10485760),
		},
		Worker: WorkerConfig{
			Concurrency: getEnvAsInt("WORKER_CONCURRENCY", 2),
		},
	}
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
