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
	JWT       JWTConfig
	CORS      CORSConfig
	Log       LogConfig
	Feed      FeedConfig
	Sheets    SheetsConfig
	Sync      SyncConfig
	Dashboard DashboardConfig
	Provision ProvisionConfig
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

type JWTConfig struct {
	Secret            string
	Expiration        time.Duration
	RefreshExpiration time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// FeedConfig points at the external analytics and fulfilment feeds.
type FeedConfig struct {
	URL            string
	OrdersURL      string
	RequestTimeout time.Duration
	SnapshotTTL    time.Duration
}

// SheetsConfig identifies the spreadsheet mirror and its credentials.
type SheetsConfig struct {
	Enabled         bool
	SpreadsheetID   string
	AppendRange     string
	HeaderRange     string
	CredentialsFile string
}

// SyncConfig tunes the report-to-sheet sync queue.
type SyncConfig struct {
	Workers    int
	BufferSize int
	MaxRetries int
	RetryDelay time.Duration
}

// DashboardConfig governs dashboard cache behaviour.
type DashboardConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration
}

// ProvisionConfig covers bulk account creation from the roster.
type ProvisionConfig struct {
	DefaultPassword string
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

	cfg.JWT = JWTConfig{
		Secret:            v.GetString("JWT_SECRET"),
		Expiration:        parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
		RefreshExpiration: parseDuration(v.GetString("REFRESH_TOKEN_EXPIRATION"), 7*24*time.Hour),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Feed = FeedConfig{
		URL:            v.GetString("FEED_URL"),
		OrdersURL:      v.GetString("FEED_ORDERS_URL"),
		RequestTimeout: parseDuration(v.GetString("FEED_REQUEST_TIMEOUT"), 30*time.Second),
		SnapshotTTL:    parseDuration(v.GetString("FEED_SNAPSHOT_TTL"), 5*time.Minute),
	}

	cfg.Sheets = SheetsConfig{
		Enabled:         v.GetBool("SHEETS_ENABLED"),
		SpreadsheetID:   v.GetString("SHEETS_SPREADSHEET_ID"),
		AppendRange:     v.GetString("SHEETS_APPEND_RANGE"),
		HeaderRange:     v.GetString("SHEETS_HEADER_RANGE"),
		CredentialsFile: v.GetString("SHEETS_CREDENTIALS_FILE"),
	}

	cfg.Sync = SyncConfig{
		Workers:    v.GetInt("SYNC_WORKERS"),
		BufferSize: v.GetInt("SYNC_BUFFER_SIZE"),
		MaxRetries: v.GetInt("SYNC_MAX_RETRIES"),
		RetryDelay: parseDuration(v.GetString("SYNC_RETRY_DELAY"), 5*time.Second),
	}

	cfg.Dashboard = DashboardConfig{
		CacheEnabled: v.GetBool("DASHBOARD_CACHE_ENABLED"),
		CacheTTL:     parseDuration(v.GetString("DASHBOARD_CACHE_TTL"), 5*time.Minute),
	}

	cfg.Provision = ProvisionConfig{DefaultPassword: v.GetString("PROVISION_DEFAULT_PASSWORD")}

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
	v.SetDefault("DB_NAME", "mkt_report")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("REFRESH_TOKEN_EXPIRATION", "168h")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("FEED_URL", "")
	v.SetDefault("FEED_REQUEST_TIMEOUT", "30s")
	v.SetDefault("FEED_SNAPSHOT_TTL", "5m")

	v.SetDefault("SHEETS_ENABLED", false)
	v.SetDefault("SHEETS_SPREADSHEET_ID", "")
	v.SetDefault("SHEETS_APPEND_RANGE", "Sheet1!A:L")
	v.SetDefault("SHEETS_HEADER_RANGE", "Sheet1!A1:L1")
	v.SetDefault("SHEETS_CREDENTIALS_FILE", "./service-account.json")

	v.SetDefault("SYNC_WORKERS", 1)
	v.SetDefault("SYNC_BUFFER_SIZE", 16)
	v.SetDefault("SYNC_MAX_RETRIES", 3)
	v.SetDefault("SYNC_RETRY_DELAY", "5s")

	v.SetDefault("DASHBOARD_CACHE_ENABLED", false)
	v.SetDefault("DASHBOARD_CACHE_TTL", "5m")

	v.SetDefault("PROVISION_DEFAULT_PASSWORD", "changeme123")
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
