package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures process-level configuration so main stays lean. Everything
// is sourced from the environment; unset optional backends disable the
// corresponding integration.
type Config struct {
	Addr          string
	JWTSigningKey string

	DatabaseURL string
	RedisURL    string

	KafkaBrokers []string
	AuditTopic   string

	DirectoryURL string
	FetchTimeout time.Duration
	PoolSize     int
	CacheTTL     time.Duration
}

// ISINCacheTTL bounds how long fetched ISIN lists may be served from cache.
var ISINCacheTTL = 5 * time.Minute

// FromEnv builds a Config from environment variables with development defaults.
func FromEnv() Config {
	cfg := Config{
		Addr:          getEnv("ISINHUB_ADDR", ":8080"),
		JWTSigningKey: getEnv("ISINHUB_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		DatabaseURL:   os.Getenv("ISINHUB_DATABASE_URL"),
		RedisURL:      os.Getenv("ISINHUB_REDIS_URL"),
		AuditTopic:    getEnv("ISINHUB_AUDIT_TOPIC", "isinhub.enrichment.audit"),
		DirectoryURL:  getEnv("ISINHUB_DIRECTORY_URL", "http://localhost:9090"),
		FetchTimeout:  getDuration("ISINHUB_FETCH_TIMEOUT", 10*time.Second),
		PoolSize:      getInt("ISINHUB_POOL_SIZE", 8),
		CacheTTL:      getDuration("ISINHUB_CACHE_TTL", ISINCacheTTL),
	}

	if brokers := os.Getenv("ISINHUB_KAFKA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
