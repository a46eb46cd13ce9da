package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

const (
	TargetWeekCurrent = "current"
	TargetWeekNext    = "next"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database   DatabaseConfig
	Redis      RedisConfig
	CORS       CORSConfig
	Log        LogConfig
	Allocation AllocationConfig
	Archives   ArchivesConfig
	Tracing    TracingConfig
	Metrics    MetricsConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// AllocationConfig tunes allocation runs.
type AllocationConfig struct {
	TargetWeek  string
	Seed        int64
	LockTTL     time.Duration
	CacheTTL    time.Duration
	Workers     int
	RunRetries  int
	RetryDelay  time.Duration
	QueueBuffer int
}

// NextWeek reports whether allocations are dated in the following week.
func (a AllocationConfig) NextWeek() bool {
	return strings.EqualFold(a.TargetWeek, TargetWeekNext)
}

// ArchivesConfig gates the archive-and-reset endpoint.
type ArchivesConfig struct {
	Enabled bool
}

// TracingConfig controls the stdout span exporter.
type TracingConfig struct {
	Enabled     bool
	ServiceName string
	Output      string
}

// MetricsConfig toggles the prometheus endpoint.
type MetricsConfig struct {
	Enabled bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Enabled:  v.GetBool("REDIS_ENABLED"),
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	target := strings.ToLower(strings.TrimSpace(v.GetString("ALLOCATION_TARGET_WEEK")))
	if target != TargetWeekNext {
		target = TargetWeekCurrent
	}
	workers := v.GetInt("ALLOCATION_WORKERS")
	if workers <= 0 {
		workers = 1
	}
	retries := v.GetInt("ALLOCATION_RUN_RETRIES")
	if retries < 0 {
		retries = 0
	}
	cfg.Allocation = AllocationConfig{
		TargetWeek:  target,
		Seed:        v.GetInt64("ALLOCATION_SEED"),
		LockTTL:     parseDuration(v.GetString("ALLOCATION_LOCK_TTL"), 30*time.Second),
		CacheTTL:    parseDuration(v.GetString("ALLOCATION_CACHE_TTL"), 5*time.Minute),
		Workers:     workers,
		RunRetries:  retries,
		RetryDelay:  parseDuration(v.GetString("ALLOCATION_RETRY_DELAY"), 2*time.Second),
		QueueBuffer: v.GetInt("ALLOCATION_QUEUE_BUFFER"),
	}

	cfg.Archives = ArchivesConfig{
		Enabled: v.GetBool("ENABLE_ARCHIVES"),
	}

	cfg.Tracing = TracingConfig{
		Enabled:     v.GetBool("TRACING_ENABLED"),
		ServiceName: v.GetString("TRACING_SERVICE_NAME"),
		Output:      v.GetString("TRACING_OUTPUT"),
	}

	cfg.Metrics = MetricsConfig{
		Enabled: v.GetBool("ENABLE_METRICS"),
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "room_allocation")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ALLOCATION_TARGET_WEEK", TargetWeekCurrent)
	v.SetDefault("ALLOCATION_SEED", 0)
	v.SetDefault("ALLOCATION_LOCK_TTL", "30s")
	v.SetDefault("ALLOCATION_CACHE_TTL", "5m")
	v.SetDefault("ALLOCATION_WORKERS", 1)
	v.SetDefault("ALLOCATION_RUN_RETRIES", 2)
	v.SetDefault("ALLOCATION_RETRY_DELAY", "2s")
	v.SetDefault("ALLOCATION_QUEUE_BUFFER", 16)

	v.SetDefault("ENABLE_ARCHIVES", true)

	v.SetDefault("TRACING_ENABLED", false)
	v.SetDefault("TRACING_SERVICE_NAME", "room-allocation-api")
	v.SetDefault("TRACING_OUTPUT", "stdout")

	v.SetDefault("ENABLE_METRICS", true)
}

func isMissingFile(err error) bool {
	return strings.Contains(err.Error(), "no such file or directory")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
