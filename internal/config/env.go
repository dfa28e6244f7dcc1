package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port    string
	DataDir string

	JWTSecret     string
	AdminUsername string
	AdminPassword string

	AIProvider   string // "gemini" or "openai"
	GeminiAPIKey string
	OpenAIAPIKey string
	EmbedModel   string
	GenModel     string

	StorageBackend string // "file" or "postgres"
	DatabaseURL    string

	AwsAccessKey string
	AwsSecretKey string
	AwsRegion    string
	BucketName   string
}

// LoadConfig loads the environment variables and returns config
func LoadConfig() *Config {

	_ = godotenv.Load()

	cfg := &Config{
		Port:    getEnv("PORT", "8080"),
		DataDir: getEnv("DATA_DIR", "data"),

		JWTSecret:     getEnv("JWT_SECRET", ""),
		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),

		AIProvider:   getEnv("AI_PROVIDER", "gemini"),
		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
		EmbedModel:   getEnv("EMBED_MODEL", ""),
		GenModel:     getEnv("GEN_MODEL", ""),

		StorageBackend: getEnv("STORAGE_BACKEND", "file"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),

		AwsAccessKey: getEnv("AWS_ACCESS_KEY", ""),
		AwsSecretKey: getEnv("AWS_SECRET_KEY", ""),
		AwsRegion:    getEnv("AWS_REGION", "us-east-2"),
		BucketName:   getEnv("BUCKET_NAME", ""),
	}

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET not set")
	}
	if cfg.AdminPassword == "" {
		log.Fatal("ADMIN_PASSWORD not set")
	}
	if cfg.StorageBackend == "postgres" && cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL not set for postgres backend")
	}

	return cfg
}

// Helper to read environment variables with a default fallback
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
