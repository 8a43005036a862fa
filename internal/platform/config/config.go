package config

import (
	"os"
	"strconv"
	"time"
)

// Server captures process-level configuration.
type Server struct {
	Addr          string
	DatabaseURL   string
	Redis         RedisConfig
	JWTSigningKey string
	// AuditBufferSize > 0 switches audit publishing to async mode.
	AuditBufferSize int
}

// RedisConfig tunes the optional evaluation cache. An empty URL disables it.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// EvaluationTTL bounds staleness of cached level evaluations.
	EvaluationTTL time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("FIELDAUDIT_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	return Server{
		Addr:            addr,
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		JWTSigningKey:   jwtSigningKey,
		AuditBufferSize: envInt("AUDIT_BUFFER_SIZE", 256),
		Redis: RedisConfig{
			URL:           os.Getenv("REDIS_URL"),
			PoolSize:      envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns:  envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:   envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:   envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout:  envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
			EvaluationTTL: envDuration("EVALUATION_CACHE_TTL", 5*time.Minute),
		},
	}
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
