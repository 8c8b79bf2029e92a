package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort    string
	DatabaseDSN string
	JWTSecret   string
	CORSOrigins string

	// Object storage (S3 compatible) for images and generated exports
	StorageEndpoint  string
	StorageAccessKey string
	StorageSecretKey string
	StorageBucket    string
	StorageUseSSL    bool
	PresignTTL       time.Duration // lifetime of presigned download URLs
}

func Load() *Config {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:         getEnv("HTTP_PORT", "8080"),
		DatabaseDSN:      getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=core_erp port=5432 sslmode=disable"),
		JWTSecret:        getEnv("JWT_SECRET", ""),
		CORSOrigins:      getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		StorageEndpoint:  getEnv("STORAGE_ENDPOINT", "localhost:9000"),
		StorageAccessKey: getEnv("STORAGE_ACCESS_KEY", "minioadmin"),
		StorageSecretKey: getEnv("STORAGE_SECRET_KEY", "minioadmin"),
		StorageBucket:    getEnv("STORAGE_BUCKET", "core-erp"),
		StorageUseSSL:    getEnv("STORAGE_USE_SSL", "false") == "true",
		PresignTTL:       time.Duration(getEnvInt("PRESIGN_TTL_MINUTES", 10)) * time.Minute,
	}

	if cfg.JWTSecret == "" {
		log.Fatal("[FATAL] JWT_SECRET is not set, refusing to start")
	}
	if len(cfg.JWTSecret) < 32 {
		log.Fatal("[FATAL] JWT_SECRET must be at least 32 characters")
	}
	if cfg.DatabaseDSN == "host=localhost user=postgres password=postgres dbname=core_erp port=5432 sslmode=disable" {
		log.Println("[WARN] DATABASE_DSN is using the development default")
	}
	if cfg.StorageAccessKey == "minioadmin" {
		log.Println("[WARN] STORAGE_ACCESS_KEY is using the development default")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
