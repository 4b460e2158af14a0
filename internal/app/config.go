package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/studio-tracker/internal/clients/dataapi"
	"github.com/yungbote/studio-tracker/internal/data/db"
	"github.com/yungbote/studio-tracker/internal/observability"
	"github.com/yungbote/studio-tracker/internal/platform/envutil"
	"github.com/yungbote/studio-tracker/internal/platform/gcp"
	"github.com/yungbote/studio-tracker/internal/platform/logger"
	"github.com/yungbote/studio-tracker/internal/studio/poller"
)

type StoreKind string

const (
	StorePostgres StoreKind = "postgres"
	StoreSQLite   StoreKind = "sqlite"
	StoreDataAPI  StoreKind = "dataapi"
)

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Channel  string `yaml:"channel"`
}

type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
	JWTIssuer string `yaml:"jwt_issuer"`
}

type Config struct {
	Port            string        `yaml:"port"`
	LogMode         string        `yaml:"log_mode"`
	Store           StoreKind     `yaml:"store"`
	PollInterval    time.Duration `yaml:"poll_interval"`
	CacheTTL        time.Duration `yaml:"cache_ttl"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	SSEHeartbeat    time.Duration `yaml:"sse_heartbeat"`
	CORSOrigins     []string      `yaml:"cors_origins"`

	Postgres   db.PostgresConfig        `yaml:"postgres"`
	SQLitePath string                   `yaml:"sqlite_path"`
	DataAPI    dataapi.Config           `yaml:"data_api"`
	Redis      RedisConfig              `yaml:"redis"`
	Auth       AuthConfig               `yaml:"auth"`
	Storage    gcp.SignerConfig         `yaml:"storage"`
	Otel       observability.OtelConfig `yaml:"otel"`
}

func defaultConfig() Config {
	return Config{
		Port:            "8080",
		LogMode:         "development",
		Store:           StoreSQLite,
		PollInterval:    poller.DefaultInterval,
		CacheTTL:        5 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		SSEHeartbeat:    15 * time.Second,
		SQLitePath:      "studio.db",
		Postgres:        db.PostgresConfig{Host: "localhost", Port: "5432", SSLMode: "disable"},
		DataAPI:         dataapi.Config{Table: "videos"},
		Storage:         gcp.SignerConfig{TTL: 15 * time.Minute},
		Otel:            observability.OtelConfig{ServiceName: "studio-tracker"},
	}
}

// LoadConfig layers defaults, the optional YAML file named by
// STUDIO_CONFIG_FILE, and environment variables, in that order.
func LoadConfig() (Config, error) {
	cfg := defaultConfig()
	if path := envutil.String("STUDIO_CONFIG_FILE", ""); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}
	applyEnv(&cfg)
	return cfg, cfg.Validate()
}

func applyEnv(cfg *Config) {
	cfg.Port = envutil.String("PORT", cfg.Port)
	cfg.LogMode = envutil.String("LOG_MODE", cfg.LogMode)
	cfg.Store = StoreKind(strings.ToLower(envutil.String("STUDIO_STORE", string(cfg.Store))))
	cfg.PollInterval = envutil.Duration("STUDIO_POLL_INTERVAL", cfg.PollInterval)
	cfg.CacheTTL = envutil.Duration("STUDIO_CACHE_TTL", cfg.CacheTTL)
	cfg.ShutdownTimeout = envutil.Duration("SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	cfg.SSEHeartbeat = envutil.Duration("SSE_HEARTBEAT", cfg.SSEHeartbeat)
	cfg.CORSOrigins = envutil.List("CORS_ORIGINS", cfg.CORSOrigins)

	cfg.Postgres.Host = envutil.String("POSTGRES_HOST", cfg.Postgres.Host)
	cfg.Postgres.Port = envutil.String("POSTGRES_PORT", cfg.Postgres.Port)
	cfg.Postgres.User = envutil.String("POSTGRES_USER", cfg.Postgres.User)
	cfg.Postgres.Password = envutil.String("POSTGRES_PASSWORD", cfg.Postgres.Password)
	cfg.Postgres.Name = envutil.String("POSTGRES_NAME", cfg.Postgres.Name)
	cfg.Postgres.SSLMode = envutil.String("POSTGRES_SSLMODE", cfg.Postgres.SSLMode)
	cfg.SQLitePath = envutil.String("SQLITE_PATH", cfg.SQLitePath)

	cfg.DataAPI.BaseURL = envutil.String("DATA_API_URL", cfg.DataAPI.BaseURL)
	cfg.DataAPI.APIKey = envutil.String("DATA_API_KEY", cfg.DataAPI.APIKey)
	cfg.DataAPI.Table = envutil.String("DATA_API_TABLE", cfg.DataAPI.Table)
	cfg.DataAPI.Timeout = envutil.Duration("DATA_API_TIMEOUT", cfg.DataAPI.Timeout)

	cfg.Redis.Addr = envutil.String("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = envutil.String("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = envutil.Int("REDIS_DB", cfg.Redis.DB)
	cfg.Redis.Channel = envutil.String("REDIS_CHANNEL", cfg.Redis.Channel)

	cfg.Auth.JWTSecret = envutil.String("AUTH_JWT_SECRET", cfg.Auth.JWTSecret)
	cfg.Auth.JWTIssuer = envutil.String("AUTH_JWT_ISSUER", cfg.Auth.JWTIssuer)

	cfg.Storage.Sign = envutil.Bool("GCS_SIGN_URLS", cfg.Storage.Sign)
	cfg.Storage.TTL = envutil.Duration("GCS_SIGNED_URL_TTL", cfg.Storage.TTL)
	env := gcp.SignerConfigFromEnv()
	cfg.Storage.Mode = firstSet(env.Mode, cfg.Storage.Mode)
	cfg.Storage.EmulatorHost = firstSet(env.EmulatorHost, cfg.Storage.EmulatorHost)
	cfg.Storage.CDNDomain = firstSet(env.CDNDomain, cfg.Storage.CDNDomain)
	cfg.Storage.PublicBaseURL = firstSet(env.PublicBaseURL, cfg.Storage.PublicBaseURL)

	cfg.Otel.ServiceName = envutil.String("OTEL_SERVICE_NAME", cfg.Otel.ServiceName)
	cfg.Otel.Environment = envutil.String("DEPLOYMENT_ENV", cfg.Otel.Environment)
	cfg.Otel.Version = envutil.String("SERVICE_VERSION", cfg.Otel.Version)
}

func (c Config) Validate() error {
	switch c.Store {
	case StorePostgres:
		if c.Postgres.Name == "" || c.Postgres.User == "" {
			return fmt.Errorf("STUDIO_STORE=postgres requires POSTGRES_NAME and POSTGRES_USER")
		}
	case StoreSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("STUDIO_STORE=sqlite requires SQLITE_PATH")
		}
	case StoreDataAPI:
		if c.DataAPI.BaseURL == "" || c.DataAPI.APIKey == "" {
			return fmt.Errorf("STUDIO_STORE=dataapi requires DATA_API_URL and DATA_API_KEY")
		}
	default:
		return fmt.Errorf("invalid STUDIO_STORE=%q (allowed: postgres, sqlite, dataapi)", c.Store)
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("missing AUTH_JWT_SECRET")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("STUDIO_POLL_INTERVAL must be positive")
	}
	return nil
}

// LogSummary writes the effective configuration without secrets.
func (c Config) LogSummary(log *logger.Logger) {
	log.Info("Configuration loaded",
		"port", c.Port,
		"store", string(c.Store),
		"poll_interval", c.PollInterval.String(),
		"cache_ttl", c.CacheTTL.String(),
		"redis", c.Redis.Addr != "",
		"sign_urls", c.Storage.Sign,
		"cors_origins", strings.Join(c.CORSOrigins, ","),
	)
}

func firstSet(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
