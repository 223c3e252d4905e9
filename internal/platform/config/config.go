package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures process-level configuration so main stays lean.
type Config struct {
	Addr    string
	DataDir string

	// Loop policy. IterationCap bounds both the loop and the scheduler tick
	// budget; the two are kept in sync here, by configuration.
	IterationCap    int
	DefaultCurrent  float64
	DefaultTarget   float64
	TickInterval    time.Duration
	ReportCacheTTL  time.Duration
	ShutdownTimeout time.Duration

	Postgres PostgresConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
}

// PostgresConfig configures the performance-ledger database. An empty URL
// keeps the ledger on the in-memory store.
type PostgresConfig struct {
	URL string
}

// RedisConfig configures the optional report cache. An empty URL disables it.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig configures the optional ledger hand-off. No brokers disables it.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	return Config{
		Addr:            envString("REVLOOP_ADDR", ":8080"),
		DataDir:         envString("REVLOOP_DATA_DIR", "data"),
		IterationCap:    envInt("REVLOOP_ITERATION_CAP", 5),
		DefaultCurrent:  envFloat("REVLOOP_DEFAULT_FRICTION", 28),
		DefaultTarget:   envFloat("REVLOOP_TARGET_FRICTION", 27),
		TickInterval:    envDuration("REVLOOP_TICK_INTERVAL", 24*time.Hour),
		ReportCacheTTL:  envDuration("REVLOOP_REPORT_CACHE_TTL", 5*time.Minute),
		ShutdownTimeout: envDuration("REVLOOP_SHUTDOWN_TIMEOUT", 10*time.Second),
		Postgres: PostgresConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers: envList("KAFKA_BROKERS"),
			Topic:   envString("KAFKA_LEDGER_TOPIC", "revloop.ledger"),
		},
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
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

func envList(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
