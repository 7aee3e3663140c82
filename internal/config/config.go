package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store drivers
const (
	DriverMongoDB  = "mongodb"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Server modes, matching the gin mode names
const (
	ModeDebug   = "debug"
	ModeRelease = "release"
)

// Sequence backends
const (
	SequenceStore = "store"
	SequenceRedis = "redis"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Store      StoreConfig
	MongoDB    MongoDBConfig
	Postgres   PostgresConfig
	SQLite     SQLiteConfig
	Redis      RedisConfig
	Sequence   SequenceConfig
	JWT        JWTConfig
	Settlement SettlementConfig
	RateLimit  RateLimitConfig
	Log        LogConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port            string
	Mode            string
	AllowedHosts    []string
	ShutdownTimeout time.Duration
}

// StoreConfig selects the persistence backend
type StoreConfig struct {
	Driver string
}

// MongoDBConfig holds MongoDB-specific configuration. The ledger runs
// multi-document transactions, so URI must reach a replica set or a sharded
// cluster.
type MongoDBConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// PostgresConfig holds PostgreSQL-specific configuration
type PostgresConfig struct {
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
}

// SQLiteConfig holds SQLite-specific configuration
type SQLiteConfig struct {
	Path string
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// SequenceConfig selects where identifiers are issued
type SequenceConfig struct {
	Backend string
}

// JWTConfig holds JWT-specific configuration
type JWTConfig struct {
	Secret    string
	ExpiresIn int
}

// SettlementConfig holds the settlement behaviour switches
type SettlementConfig struct {
	// ReconcileSchedule is a cron expression; empty disables the job
	ReconcileSchedule string
	DebitOnPurchase   bool
	SuffixLength      int
}

// RateLimitConfig holds the per-client request limits
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string
	Format string
}

// LoadConfig loads .env, then config.yaml from path, then environment overrides
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(filepath.Join(path, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(path)
	v.AddConfigPath(filepath.Join(path, "config"))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// It's okay if config file is not found, we'll use environment variables
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate rejects settings the server cannot run with. A release server
// must carry a JWT secret.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverMongoDB:
		if c.MongoDB.URI == "" || c.MongoDB.Database == "" {
			return errors.New("config: MongoDB.URI and MongoDB.Database are required for the mongodb driver")
		}
	case DriverPostgres:
		if c.Postgres.DSN == "" {
			return errors.New("config: Postgres.DSN is required for the postgres driver")
		}
	case DriverSQLite:
		if c.SQLite.Path == "" {
			return errors.New("config: SQLite.Path is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("config: unknown store driver %q", c.Store.Driver)
	}

	switch c.Sequence.Backend {
	case SequenceStore:
	case SequenceRedis:
		if c.Redis.Addr == "" {
			return errors.New("config: Redis.Addr is required for the redis sequence backend")
		}
	default:
		return fmt.Errorf("config: unknown sequence backend %q", c.Sequence.Backend)
	}

	if c.Server.Port == "" {
		return errors.New("config: Server.Port is required")
	}
	if c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0 {
		return errors.New("config: RateLimit values must be positive")
	}
	if c.Settlement.SuffixLength <= 0 {
		return errors.New("config: Settlement.SuffixLength must be positive")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return errors.New("config: Server.ShutdownTimeout must be positive")
	}
	if c.Server.Mode == ModeRelease && c.JWT.Secret == "" {
		return errors.New("config: JWT.Secret is required in release mode")
	}
	return nil
}

// setDefaults sets default values for configuration
func setDefaults(v *viper.Viper) {
	v.SetDefault("Server.Port", "4000")
	v.SetDefault("Server.Mode", ModeDebug)
	v.SetDefault("Server.AllowedHosts", []string{"localhost:3000"})
	v.SetDefault("Server.ShutdownTimeout", 5*time.Second)
	v.SetDefault("Store.Driver", DriverSQLite)
	v.SetDefault("MongoDB.URI", "mongodb://localhost:27017")
	v.SetDefault("MongoDB.Database", "lotto")
	v.SetDefault("MongoDB.Timeout", 10*time.Second)
	v.SetDefault("Postgres.DSN", "")
	v.SetDefault("Postgres.MaxOpenConns", 20)
	v.SetDefault("Postgres.MaxIdleConns", 5)
	v.SetDefault("SQLite.Path", "lotto.db")
	v.SetDefault("Redis.Addr", "")
	v.SetDefault("Redis.Password", "")
	v.SetDefault("Redis.DB", 0)
	v.SetDefault("Sequence.Backend", SequenceStore)
	v.SetDefault("JWT.Secret", "")
	v.SetDefault("JWT.ExpiresIn", 24*60*60) // 24 hours
	v.SetDefault("Settlement.ReconcileSchedule", "")
	v.SetDefault("Settlement.DebitOnPurchase", false)
	v.SetDefault("Settlement.SuffixLength", 3)
	v.SetDefault("RateLimit.RequestsPerSecond", 20)
	v.SetDefault("RateLimit.Burst", 40)
	v.SetDefault("Log.Level", "info")
	v.SetDefault("Log.Format", "text")
}
