package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Store drivers.
const (
	DriverPostgres = "postgres"
	DriverBolt     = "bolt"
)

// Config holds service configuration.
type Config struct {
	StoreDriver       string
	DatabaseURL       string
	BoltPath          string
	MigrationsEnabled bool

	ServerAddr string
	LogLevel   string

	JWTSecret    string
	AuthTokenTTL time.Duration

	NATSURL         string
	NotifyFilter    string
	NotifyQueueSize int

	CacheTTL  time.Duration
	CacheSize int

	ReviewCommentMax     int
	MeetingSweepSchedule string
	OTLPEndpoint         string
}

// Load reads configuration from environment.
func Load() (*Config, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		user := getenv("POSTGRES_USER", "skillswap")
		pass := getenv("POSTGRES_PASSWORD", "skillswap_pass")
		db := getenv("POSTGRES_DB", "skillswap")
		host := getenv("POSTGRES_HOST", "localhost")
		port := getenv("POSTGRES_PORT", "5432")
		sslmode := getenv("DATABASE_SSLMODE", "disable")
		dsn = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", user, pass, host, port, db, sslmode)
	}

	driver := strings.ToLower(getenv("STORE_DRIVER", DriverPostgres))
	if driver != DriverPostgres && driver != DriverBolt {
		return nil, fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", DriverPostgres, DriverBolt, driver)
	}

	secret := os.Getenv("JWT_SECRET")
	if len(secret) < 32 {
		return nil, fmt.Errorf("JWT_SECRET must be set to at least 32 bytes")
	}

	return &Config{
		StoreDriver:       driver,
		DatabaseURL:       dsn,
		BoltPath:          getenv("BOLT_PATH", "skillswap.db"),
		MigrationsEnabled: parseBool(getenv("MIGRATIONS_ENABLED", "true"), true),

		ServerAddr: getenv("SERVER_ADDR", "0.0.0.0:8080"),
		LogLevel:   getenv("LOG_LEVEL", "info"),

		JWTSecret:    secret,
		AuthTokenTTL: parseDuration(getenv("AUTH_TOKEN_TTL", "24h"), 24*time.Hour),

		NATSURL:         os.Getenv("NATS_URL"),
		NotifyFilter:    os.Getenv("NOTIFY_FILTER"),
		NotifyQueueSize: parseInt(getenv("NOTIFY_QUEUE_SIZE", "1024"), 1024),

		CacheTTL:  parseDuration(getenv("CACHE_TTL", "30s"), 30*time.Second),
		CacheSize: parseInt(getenv("CACHE_SIZE", "10000"), 10000),

		ReviewCommentMax:     parseInt(getenv("REVIEW_COMMENT_MAX", "500"), 500),
		MeetingSweepSchedule: getenv("MEETING_SWEEP_SCHEDULE", "@every 1m"),
		OTLPEndpoint:         os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}, nil
}

func getenv(key, def string) string {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	return val
}

func parseDuration(val string, def time.Duration) time.Duration {
	if val == "" {
		return def
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return def
	}
	return d
}

func parseBool(val string, def bool) bool {
	if val == "" {
		return def
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return def
	}
	return b
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	n, err := strconv.Atoi(val)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
