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

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database  DatabaseConfig
	Redis     RedisConfig
	CORS      CORSConfig
	Log       LogConfig
	Catalog   CatalogConfig
	Scheduler SchedulerConfig
	Timetable TimetableConfig
	Export    ExportConfig
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

// CatalogConfig governs catalog search and facet cache behaviour.
type CatalogConfig struct {
	FacetCacheTTL   time.Duration
	FacetWarmCron   string
	DefaultPageSize int
	MaxPageSize     int
}

// SchedulerConfig tunes the study-plan schedule generator.
type SchedulerConfig struct {
	DefaultMaxEcts int
}

// TimetableConfig controls selection persistence.
type TimetableConfig struct {
	StorageKey     string
	SaveWorkers    int
	SaveRetries    int
	SaveRetryDelay time.Duration
}

// ExportConfig scopes calendar export to a semester window.
type ExportConfig struct {
	SemesterStart string
	SemesterEnd   string
	Timezone      string
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
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

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

	cfg.Catalog = CatalogConfig{
		FacetCacheTTL:   parseDuration(v.GetString("CATALOG_FACET_CACHE_TTL"), 5*time.Minute),
		FacetWarmCron:   v.GetString("CATALOG_FACET_WARM_CRON"),
		DefaultPageSize: v.GetInt("CATALOG_DEFAULT_PAGE_SIZE"),
		MaxPageSize:     v.GetInt("CATALOG_MAX_PAGE_SIZE"),
	}

	cfg.Scheduler = SchedulerConfig{
		DefaultMaxEcts: v.GetInt("SCHEDULER_DEFAULT_MAX_ECTS"),
	}

	cfg.Timetable = TimetableConfig{
		StorageKey:     v.GetString("TIMETABLE_STORAGE_KEY"),
		SaveWorkers:    v.GetInt("TIMETABLE_SAVE_WORKERS"),
		SaveRetries:    v.GetInt("TIMETABLE_SAVE_RETRIES"),
		SaveRetryDelay: parseDuration(v.GetString("TIMETABLE_SAVE_RETRY_DELAY"), 2*time.Second),
	}

	cfg.Export = ExportConfig{
		SemesterStart: v.GetString("EXPORT_SEMESTER_START"),
		SemesterEnd:   v.GetString("EXPORT_SEMESTER_END"),
		Timezone:      v.GetString("EXPORT_TIMEZONE"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "course_catalog")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("CATALOG_FACET_CACHE_TTL", "5m")
	v.SetDefault("CATALOG_FACET_WARM_CRON", "")
	v.SetDefault("CATALOG_DEFAULT_PAGE_SIZE", 20)
	v.SetDefault("CATALOG_MAX_PAGE_SIZE", 100)

	v.SetDefault("SCHEDULER_DEFAULT_MAX_ECTS", 30)

	v.SetDefault("TIMETABLE_STORAGE_KEY", "timetable:selection")
	v.SetDefault("TIMETABLE_SAVE_WORKERS", 1)
	v.SetDefault("TIMETABLE_SAVE_RETRIES", 3)
	v.SetDefault("TIMETABLE_SAVE_RETRY_DELAY", "2s")

	v.SetDefault("EXPORT_SEMESTER_START", "")
	v.SetDefault("EXPORT_SEMESTER_END", "")
	v.SetDefault("EXPORT_TIMEZONE", "Europe/Prague")
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
