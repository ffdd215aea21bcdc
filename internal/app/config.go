package app

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/workspace-backend/internal/data/aggregates"
	"github.com/yungbote/workspace-backend/internal/data/db"
	"github.com/yungbote/workspace-backend/internal/observability"
	"github.com/yungbote/workspace-backend/internal/pkg/envutil"
	"github.com/yungbote/workspace-backend/internal/pkg/logger"
)

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Channel  string `yaml:"channel"`
}

type OtelConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Exporter    string  `yaml:"exporter"`
	Endpoint    string  `yaml:"endpoint"`
	Headers     string  `yaml:"headers"`
	Insecure    bool    `yaml:"insecure"`
	SampleRatio float64 `yaml:"sampleRatio"`
}

type Config struct {
	ServiceName string `yaml:"serviceName"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
	LogMode     string `yaml:"logMode"`
	Port        int    `yaml:"port"`

	Store db.Config   `yaml:"store"`
	Redis RedisConfig `yaml:"redis"`

	DefaultItemsPerPage int `yaml:"defaultItemsPerPage"`
	CASMaxAttempts      int `yaml:"casMaxAttempts"`

	Otel                  OtelConfig    `yaml:"otel"`
	MetricsEnabled        bool          `yaml:"metricsEnabled"`
	MetricsScrapeInterval time.Duration `yaml:"metricsScrapeInterval"`
	CORSOrigins           []string      `yaml:"corsOrigins"`
}

func defaultConfig() Config {
	return Config{
		ServiceName: "workspace-backend",
		Environment: "development",
		LogMode:     "development",
		Port:        8080,
		Store: db.Config{
			Driver: db.DriverPostgres,
			Postgres: db.PostgresConfig{
				Host: "localhost",
				Port: 5432,
				User: "postgres",
				Name: "workspace",
			},
			SQLitePath: "workspace.db",
		},
		DefaultItemsPerPage:   aggregates.DefaultItemsPerPage,
		CASMaxAttempts:        aggregates.DefaultMaxCASAttempts,
		Otel:                  OtelConfig{Exporter: observability.ExporterStdout, SampleRatio: 0.1},
		MetricsEnabled:        true,
		MetricsScrapeInterval: 10 * time.Second,
	}
}

// LoadConfig layers defaults, then the YAML file named by CONFIG_FILE, then
// environment variables. The environment always wins.
func LoadConfig(log *logger.Logger) (Config, error) {
	cfg := defaultConfig()
	if path := envutil.String("CONFIG_FILE", "", log); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
		if log != nil {
			log.Info("Loaded config file", "path", path)
		}
	}
	applyEnv(&cfg, log)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config, log *logger.Logger) {
	cfg.ServiceName = envutil.String("SERVICE_NAME", cfg.ServiceName, log)
	cfg.Environment = envutil.String("ENVIRONMENT", cfg.Environment, log)
	cfg.Version = envutil.String("VERSION", cfg.Version, log)
	cfg.LogMode = envutil.String("LOG_MODE", cfg.LogMode, log)
	cfg.Port = envutil.Int("PORT", cfg.Port, log)

	cfg.Store.Driver = envutil.String("STORE_DRIVER", cfg.Store.Driver, log)
	cfg.Store.Postgres.Host = envutil.String("POSTGRES_HOST", cfg.Store.Postgres.Host, log)
	cfg.Store.Postgres.Port = envutil.Int("POSTGRES_PORT", cfg.Store.Postgres.Port, log)
	cfg.Store.Postgres.User = envutil.String("POSTGRES_USER", cfg.Store.Postgres.User, log)
	cfg.Store.Postgres.Password = envutil.String("POSTGRES_PASSWORD", cfg.Store.Postgres.Password, log)
	cfg.Store.Postgres.Name = envutil.String("POSTGRES_NAME", cfg.Store.Postgres.Name, log)
	cfg.Store.Postgres.SSLMode = envutil.String("POSTGRES_SSLMODE", cfg.Store.Postgres.SSLMode, log)
	cfg.Store.SQLitePath = envutil.String("SQLITE_PATH", cfg.Store.SQLitePath, log)

	cfg.Redis.Addr = envutil.String("REDIS_ADDR", cfg.Redis.Addr, log)
	cfg.Redis.Password = envutil.String("REDIS_PASSWORD", cfg.Redis.Password, log)
	cfg.Redis.DB = envutil.Int("REDIS_DB", cfg.Redis.DB, log)
	cfg.Redis.Channel = envutil.String("REDIS_CHANNEL", cfg.Redis.Channel, log)

	cfg.DefaultItemsPerPage = envutil.Int("DEFAULT_ITEMS_PER_PAGE", cfg.DefaultItemsPerPage, log)
	cfg.CASMaxAttempts = envutil.Int("CAS_MAX_ATTEMPTS", cfg.CASMaxAttempts, log)

	cfg.Otel.Enabled = envutil.Bool("OTEL_ENABLED", cfg.Otel.Enabled, log)
	cfg.Otel.Exporter = envutil.String("OTEL_EXPORTER", cfg.Otel.Exporter, log)
	cfg.Otel.Endpoint = envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Otel.Endpoint, log)
	cfg.Otel.Headers = envutil.String("OTEL_EXPORTER_OTLP_HEADERS", cfg.Otel.Headers, log)
	cfg.Otel.Insecure = envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", cfg.Otel.Insecure, log)
	cfg.Otel.SampleRatio = envutil.Float("OTEL_SAMPLE_RATIO", cfg.Otel.SampleRatio, log)

	cfg.MetricsEnabled = envutil.Bool("METRICS_ENABLED", cfg.MetricsEnabled, log)
	cfg.MetricsScrapeInterval = envutil.Duration("METRICS_SCRAPE_INTERVAL", cfg.MetricsScrapeInterval, log)
	cfg.CORSOrigins = envutil.List("CORS_ORIGINS", cfg.CORSOrigins, log)
}

// Validate rejects settings the process cannot start with.
func (c Config) Validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	switch strings.ToLower(c.Store.Driver) {
	case db.DriverPostgres, db.DriverSQLite, db.DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown store driver %q", c.Store.Driver))
	}
	if c.DefaultItemsPerPage <= 0 {
		errs = append(errs, fmt.Errorf("defaultItemsPerPage must be > 0, got %d", c.DefaultItemsPerPage))
	}
	if c.CASMaxAttempts <= 0 {
		errs = append(errs, fmt.Errorf("casMaxAttempts must be > 0, got %d", c.CASMaxAttempts))
	}
	switch strings.ToLower(c.Otel.Exporter) {
	case observability.ExporterStdout, observability.ExporterOTLP:
	default:
		errs = append(errs, fmt.Errorf("unknown otel exporter %q", c.Otel.Exporter))
	}
	return errors.Join(errs...)
}

func (c Config) otel() observability.OtelConfig {
	return observability.OtelConfig{
		Enabled:     c.Otel.Enabled,
		ServiceName: c.ServiceName,
		Environment: c.Environment,
		Version:     c.Version,
		Exporter:    strings.ToLower(c.Otel.Exporter),
		Endpoint:    c.Otel.Endpoint,
		Headers:     observability.ParseHeaders(c.Otel.Headers),
		Insecure:    c.Otel.Insecure,
		SampleRatio: c.Otel.SampleRatio,
	}
}
