package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the full process configuration.
type Config struct {
	Server   Server
	Postgres PostgresConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Ledger   LedgerConfig
	Limits   RateLimitConfig
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string        `env:"KOE_ADDR" envDefault:":8080"`
	Environment     string        `env:"KOE_ENV" envDefault:"development"`
	LogLevel        string        `env:"KOE_LOG_LEVEL" envDefault:"info"`
	JWTSigningKey   string        `env:"KOE_JWT_SIGNING_KEY"`
	JWTIssuer       string        `env:"KOE_JWT_ISSUER" envDefault:"koe"`
	ShutdownTimeout time.Duration `env:"KOE_SHUTDOWN_TIMEOUT" envDefault:"15s"`
}

// PostgresConfig configures the event store database. An empty URL keeps
// every store in memory.
type PostgresConfig struct {
	URL             string        `env:"KOE_DATABASE_URL"`
	MaxOpenConns    int           `env:"KOE_DATABASE_MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns    int           `env:"KOE_DATABASE_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"KOE_DATABASE_CONN_MAX_LIFETIME" envDefault:"30m"`
	Migrate         bool          `env:"KOE_DATABASE_MIGRATE" envDefault:"true"`
}

// RedisConfig configures the projection cache. An empty URL disables Redis.
type RedisConfig struct {
	URL           string        `env:"KOE_REDIS_URL"`
	PoolSize      int           `env:"KOE_REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns  int           `env:"KOE_REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	DialTimeout   time.Duration `env:"KOE_REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout   time.Duration `env:"KOE_REDIS_READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout  time.Duration `env:"KOE_REDIS_WRITE_TIMEOUT" envDefault:"3s"`
	ProjectionTTL time.Duration `env:"KOE_REDIS_PROJECTION_TTL" envDefault:"24h"`
	// FlushProjections drops cached projections at startup, for deploys
	// that change how events fold.
	FlushProjections bool `env:"KOE_REDIS_FLUSH_PROJECTIONS"`
}

// KafkaConfig configures the outbox relay. No brokers disables the relay.
type KafkaConfig struct {
	Brokers           []string      `env:"KOE_KAFKA_BROKERS" envSeparator:","`
	Topic             string        `env:"KOE_KAFKA_TOPIC" envDefault:"koe.case-events"`
	Partitions        int32         `env:"KOE_KAFKA_PARTITIONS" envDefault:"6"`
	ReplicationFactor int16         `env:"KOE_KAFKA_REPLICATION_FACTOR" envDefault:"1"`
	RelayInterval     time.Duration `env:"KOE_RELAY_INTERVAL" envDefault:"1s"`
	RelayBatchSize    int           `env:"KOE_RELAY_BATCH_SIZE" envDefault:"100"`
}

// LedgerConfig configures the case service.
type LedgerConfig struct {
	RulesPath         string        `env:"KOE_RULES_PATH"`
	EventTable        string        `env:"KOE_EVENT_TABLE" envDefault:"case_events"`
	MaxSubmitAttempts int           `env:"KOE_MAX_SUBMIT_ATTEMPTS" envDefault:"3"`
	SweepInterval     time.Duration `env:"KOE_SWEEP_INTERVAL" envDefault:"1h"`
	SweepEnabled      bool          `env:"KOE_SWEEP_ENABLED" envDefault:"true"`
}

// RateLimitConfig caps submissions per actor. Zero disables the limit.
type RateLimitConfig struct {
	WritesPerWindow int           `env:"KOE_RATE_LIMIT_WRITES" envDefault:"120"`
	Window          time.Duration `env:"KOE_RATE_LIMIT_WINDOW" envDefault:"1m"`
}

const devSigningKey = "dev-secret-key-change-in-production"

// IsProduction reports whether the process runs in production.
func (s Server) IsProduction() bool {
	return s.Environment == "production"
}

// FromEnv builds the configuration from environment variables so main
// stays lean.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.Server.JWTSigningKey == "" {
		if cfg.Server.IsProduction() {
			return Config{}, fmt.Errorf("KOE_JWT_SIGNING_KEY is required in production")
		}
		cfg.Server.JWTSigningKey = devSigningKey
	}
	if cfg.Ledger.MaxSubmitAttempts < 1 {
		return Config{}, fmt.Errorf("KOE_MAX_SUBMIT_ATTEMPTS must be at least 1")
	}
	return cfg, nil
}
