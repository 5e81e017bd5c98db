package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App       AppConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	Logger    LoggerConfig
	Storage   StorageConfig
	Pricing   PricingConfig
	Intake    IntakeConfig
	Analytics AnalyticsConfig
	Realtime  RealtimeConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
	BodyLimitBytes        int
	AllowedOrigins        []string
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values. An empty Addr disables Redis.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// StorageConfig selects where uploaded files are written.
type StorageConfig struct {
	Driver         string
	UploadsDir     string
	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOBucket    string
	MinIOUseSSL    bool
}

// PricingConfig points at the tier tables file. Empty uses the built-in tables.
type PricingConfig struct {
	TablesPath string
}

// IntakeConfig tunes job submission.
type IntakeConfig struct {
	TimeZone        string
	CodeWindowHours int
	CodeMaxAttempts int
}

// AnalyticsConfig tunes dashboard caching.
type AnalyticsConfig struct {
	CacheTTLSeconds int
}

// RealtimeConfig tunes the push notification stream.
type RealtimeConfig struct {
	Channel           string
	KeepAliveSeconds  int
	SubscriberBacklog int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	maxConns := int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10))
	minConns := int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2))
	runMigrations := getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true)
	connMaxIdle := int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30))
	connMaxLife := int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300))

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "printshop-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("PORT", getEnv("APP_PORT", "3000")),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 0),
			BodyLimitBytes:        getEnvAsInt("HTTP_BODY_LIMIT_BYTES", 6*1024*1024*1024),
			AllowedOrigins:        getEnvAsList("FRONTEND_ORIGIN", []string{"*"}),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       maxConns,
			MinConns:       minConns,
			RunMigrations:  runMigrations,
			ConnMaxIdleSec: connMaxIdle,
			ConnMaxLifeSec: connMaxLife,
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Storage: StorageConfig{
			Driver:         strings.ToLower(getEnv("STORAGE_DRIVER", "local")),
			UploadsDir:     getEnv("UPLOADS_DIR", "uploads"),
			MinIOEndpoint:  os.Getenv("MINIO_ENDPOINT"),
			MinIOAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
			MinIOSecretKey: os.Getenv("MINIO_SECRET_KEY"),
			MinIOBucket:    getEnv("MINIO_BUCKET", "uploads"),
			MinIOUseSSL:    getEnvAsBool("MINIO_USE_SSL", false),
		},
		Pricing: PricingConfig{
			TablesPath: os.Getenv("PRICING_TABLES_PATH"),
		},
		Intake: IntakeConfig{
			TimeZone:        getEnv("BUSINESS_TIMEZONE", "America/Bogota"),
			CodeWindowHours: getEnvAsInt("JOB_CODE_WINDOW_HOURS", 7*24),
			CodeMaxAttempts: getEnvAsInt("JOB_CODE_MAX_ATTEMPTS", 200),
		},
		Analytics: AnalyticsConfig{
			CacheTTLSeconds: getEnvAsInt("ANALYTICS_CACHE_TTL_SECONDS", 300),
		},
		Realtime: RealtimeConfig{
			Channel:           getEnv("REALTIME_CHANNEL", "files:updated"),
			KeepAliveSeconds:  getEnvAsInt("REALTIME_KEEPALIVE_SECONDS", 25),
			SubscriberBacklog: getEnvAsInt("REALTIME_SUBSCRIBER_BACKLOG", 16),
		},
	}

	if cfg.Postgres.DSN == "" {
		return nil, fmt.Errorf("POSTGRES_DSN is required")
	}
	switch cfg.Storage.Driver {
	case "local":
	case "minio":
		if cfg.Storage.MinIOEndpoint == "" {
			return nil, fmt.Errorf("MINIO_ENDPOINT is required when STORAGE_DRIVER=minio")
		}
	default:
		return nil, fmt.Errorf("invalid STORAGE_DRIVER %q", cfg.Storage.Driver)
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// CodeWindow returns how long job codes stay reserved.
func (i IntakeConfig) CodeWindow() time.Duration {
	return time.Duration(i.CodeWindowHours) * time.Hour
}

// CacheTTL returns the dashboard cache lifetime.
func (a AnalyticsConfig) CacheTTL() time.Duration {
	return time.Duration(a.CacheTTLSeconds) * time.Second
}

// KeepAlive returns the interval between stream keep-alive comments.
func (r RealtimeConfig) KeepAlive() time.Duration {
	if r.KeepAliveSeconds <= 0 {
		return 25 * time.Second
	}
	return time.Duration(r.KeepAliveSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
