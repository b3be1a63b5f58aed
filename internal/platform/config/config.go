package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures process level configuration.
type Server struct {
	Addr           string
	Environment    string
	FileRoot       string
	DatabaseURL    string
	RedisURL       string
	KafkaBrokers   []string
	JWTSigningKey  string
	SweepInterval  time.Duration
	SweepBatchSize int
	AuditBuffer    int
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	cfg := Server{
		Addr:           envOr("PANDORA_ADDR", ":8080"),
		Environment:    envOr("PANDORA_ENV", "development"),
		FileRoot:       envOr("PANDORA_FILE_ROOT", "/var/lib/pandora/files"),
		DatabaseURL:    os.Getenv("PANDORA_DATABASE_URL"),
		RedisURL:       os.Getenv("PANDORA_REDIS_URL"),
		JWTSigningKey:  os.Getenv("PANDORA_JWT_SIGNING_KEY"),
		SweepInterval:  time.Hour,
		SweepBatchSize: 500,
		AuditBuffer:    1024,
	}

	if brokers := os.Getenv("PANDORA_KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}
	if raw := os.Getenv("PANDORA_SWEEP_INTERVAL"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			cfg.SweepInterval = d
		}
	}
	if raw := os.Getenv("PANDORA_SWEEP_BATCH_SIZE"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			cfg.SweepBatchSize = n
		}
	}
	if raw := os.Getenv("PANDORA_AUDIT_BUFFER"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			cfg.AuditBuffer = n
		}
	}
	if cfg.JWTSigningKey == "" {
		// Development default only; production deployments must override.
		cfg.JWTSigningKey = "dev-secret-key-change-in-production"
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
