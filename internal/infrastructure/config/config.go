package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/text/language"
)

// Config holds all application configuration
type Config struct {
	App         AppConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	JWT         JWTConfig
	Log         LogConfig
	HTTP        HTTPConfig
	Telemetry   TelemetryConfig
	Workflow    WorkflowConfig
	Documents   DocumentsConfig
	Fulfillment FulfillmentConfig
	Outbox      OutboxConfig
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level      string // debug, info, warn, error
	Format     string // json, console
	Output     string // stdout, stderr, or file path
	TimeFormat string
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Driver          string // postgres, sqlite
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	SQLitePath      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
	SlowQuery       time.Duration
	MigrateOnStart  bool // postgres only; sqlite always auto-migrates
}

// RedisConfig holds Redis connection settings. An empty Host disables Redis.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// Addr returns host:port
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// JWTConfig holds bearer token settings
type JWTConfig struct {
	Enabled  bool
	Secret   string
	Issuer   string
	TokenTTL time.Duration
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxHeaderBytes int
	MaxBodySize    int64
	TrustedProxies []string

	// RateLimitRequests is the per-tenant allowance per window. Zero disables limiting.
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

// TelemetryConfig holds OpenTelemetry and profiling configuration
type TelemetryConfig struct {
	Enabled           bool
	CollectorEndpoint string
	SamplingRatio     float64
	ServiceName       string
	Insecure          bool
	DBTraceEnabled    bool

	MetricsEnabled        bool
	MetricsBackend        string // otlp, prometheus
	MetricsExportInterval time.Duration

	LogsEnabled bool

	ProfilingEnabled       bool
	ProfilingServerAddress string
	ProfilingSpanProfiles  bool
}

// WorkflowConfig holds workflow definition cache settings
type WorkflowConfig struct {
	LocalTTL time.Duration
	RedisTTL time.Duration
	// Definitions are static per-tenant fallbacks keyed by tenant id,
	// used when the database has none for the tenant.
	Definitions map[string][]string
}

// DocumentsConfig holds document generation and storage settings
type DocumentsConfig struct {
	Renderer       string // chromedp, html
	ChromeURL      string // remote allocator websocket url, empty starts a local browser
	RenderTimeout  time.Duration
	Storage        string // fs, s3
	FSRoot         string
	S3Bucket       string
	S3Region       string
	S3Endpoint     string
	S3AccessKey    string
	S3SecretKey    string
	S3UsePathStyle bool
	RetrySchedule  string
	RetryBatchSize int
	MaxAttempts    int
	TemplateDir    string // overrides embedded templates by file name
	Locale         string // BCP 47 tag for number formatting
}

// FulfillmentConfig holds fulfillment behaviour switches
type FulfillmentConfig struct {
	ReturnCostBasis string // sales_unit_price, inventory_unit_cost
}

// OutboxConfig holds outbox relay settings
type OutboxConfig struct {
	Enabled          bool
	RelaySchedule    string
	BatchSize        int
	CleanupRetention time.Duration
	// DedupTTL is how long relayed event IDs are remembered by subscribers
	DedupTTL time.Duration
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with ERP_ prefix (e.g., ERP_DATABASE_PASSWORD)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("ERP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Database: DatabaseConfig{
			Driver:          v.GetString("database.driver"),
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			SQLitePath:      v.GetString("database.sqlite_path"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
			SlowQuery:       v.GetDuration("database.slow_query_threshold"),
			MigrateOnStart:  v.GetBool("database.migrate_on_start"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			Enabled:  v.GetBool("jwt.enabled"),
			Secret:   v.GetString("jwt.secret"),
			Issuer:   v.GetString("jwt.issuer"),
			TokenTTL: v.GetDuration("jwt.token_ttl"),
		},
		Log: LogConfig{
			Level:      v.GetString("log.level"),
			Format:     v.GetString("log.format"),
			Output:     v.GetString("log.output"),
			TimeFormat: v.GetString("log.time_format"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:       v.GetDuration("http.read_timeout"),
			WriteTimeout:      v.GetDuration("http.write_timeout"),
			IdleTimeout:       v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:    v.GetInt("http.max_header_bytes"),
			MaxBodySize:       v.GetInt64("http.max_body_size"),
			TrustedProxies:    v.GetStringSlice("http.trusted_proxies"),
			RateLimitRequests: v.GetInt("http.rate_limit_requests"),
			RateLimitWindow:   v.GetDuration("http.rate_limit_window"),
		},
		Telemetry: TelemetryConfig{
			Enabled:                v.GetBool("telemetry.enabled"),
			CollectorEndpoint:      v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:          v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:            v.GetString("telemetry.service_name"),
			Insecure:               v.GetBool("telemetry.insecure"),
			DBTraceEnabled:         v.GetBool("telemetry.db_trace_enabled"),
			MetricsEnabled:         v.GetBool("telemetry.metrics_enabled"),
			MetricsBackend:         v.GetString("telemetry.metrics_backend"),
			MetricsExportInterval:  v.GetDuration("telemetry.metrics_export_interval"),
			LogsEnabled:            v.GetBool("telemetry.logs_enabled"),
			ProfilingEnabled:       v.GetBool("telemetry.profiling_enabled"),
			ProfilingServerAddress: v.GetString("telemetry.profiling_server_address"),
			ProfilingSpanProfiles:  v.GetBool("telemetry.profiling_span_profiles"),
		},
		Workflow: WorkflowConfig{
			LocalTTL:    v.GetDuration("workflow.local_ttl"),
			RedisTTL:    v.GetDuration("workflow.redis_ttl"),
			Definitions: v.GetStringMapStringSlice("workflow.definitions"),
		},
		Documents: DocumentsConfig{
			Renderer:       v.GetString("documents.renderer"),
			ChromeURL:      v.GetString("documents.chrome_url"),
			RenderTimeout:  v.GetDuration("documents.render_timeout"),
			Storage:        v.GetString("documents.storage"),
			FSRoot:         v.GetString("documents.fs_root"),
			S3Bucket:       v.GetString("documents.s3_bucket"),
			S3Region:       v.GetString("documents.s3_region"),
			S3Endpoint:     v.GetString("documents.s3_endpoint"),
			S3AccessKey:    v.GetString("documents.s3_access_key"),
			S3SecretKey:    v.GetString("documents.s3_secret_key"),
			S3UsePathStyle: v.GetBool("documents.s3_use_path_style"),
			RetrySchedule:  v.GetString("documents.retry_schedule"),
			RetryBatchSize: v.GetInt("documents.retry_batch_size"),
			MaxAttempts:    v.GetInt("documents.max_attempts"),
			TemplateDir:    v.GetString("documents.template_dir"),
			Locale:         v.GetString("documents.locale"),
		},
		Fulfillment: FulfillmentConfig{
			ReturnCostBasis: v.GetString("fulfillment.return_cost_basis"),
		},
		Outbox: OutboxConfig{
			Enabled:          v.GetBool("outbox.enabled"),
			RelaySchedule:    v.GetString("outbox.relay_schedule"),
			BatchSize:        v.GetInt("outbox.batch_size"),
			CleanupRetention: v.GetDuration("outbox.cleanup_retention"),
			DedupTTL:         v.GetDuration("outbox.dedup_ttl"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "erp-fulfillment"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "postgres"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "erp"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "file::memory:?cache=shared"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30
	}
	if cfg.Database.SlowQuery == 0 {
		cfg.Database.SlowQuery = 200 * time.Millisecond
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.JWT.Issuer == "" {
		cfg.JWT.Issuer = "erp-fulfillment"
	}
	if cfg.JWT.TokenTTL == 0 {
		cfg.JWT.TokenTTL = time.Hour
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.Log.TimeFormat == "" {
		cfg.Log.TimeFormat = time.RFC3339
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 30 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 2 << 20
	}
	if cfg.HTTP.RateLimitWindow == 0 {
		cfg.HTTP.RateLimitWindow = time.Minute
	}
	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317"
	}
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = cfg.App.Name
	}
	if cfg.Telemetry.MetricsBackend == "" {
		cfg.Telemetry.MetricsBackend = "otlp"
	}
	if cfg.Telemetry.MetricsExportInterval == 0 {
		cfg.Telemetry.MetricsExportInterval = 60 * time.Second
	}
	if cfg.Telemetry.ProfilingServerAddress == "" {
		cfg.Telemetry.ProfilingServerAddress = "http://localhost:4040"
	}
	if cfg.Workflow.LocalTTL == 0 {
		cfg.Workflow.LocalTTL = 30 * time.Second
	}
	if cfg.Workflow.RedisTTL == 0 {
		cfg.Workflow.RedisTTL = 10 * time.Minute
	}
	if cfg.Documents.Renderer == "" {
		cfg.Documents.Renderer = "html"
	}
	if cfg.Documents.RenderTimeout == 0 {
		cfg.Documents.RenderTimeout = 30 * time.Second
	}
	if cfg.Documents.Storage == "" {
		cfg.Documents.Storage = "fs"
	}
	if cfg.Documents.FSRoot == "" {
		cfg.Documents.FSRoot = "./data/documents"
	}
	if cfg.Documents.RetrySchedule == "" {
		cfg.Documents.RetrySchedule = "@every 1m"
	}
	if cfg.Documents.RetryBatchSize == 0 {
		cfg.Documents.RetryBatchSize = 50
	}
	if cfg.Documents.MaxAttempts == 0 {
		cfg.Documents.MaxAttempts = 10
	}
	if cfg.Documents.Locale == "" {
		cfg.Documents.Locale = "en"
	}
	if cfg.Fulfillment.ReturnCostBasis == "" {
		cfg.Fulfillment.ReturnCostBasis = "sales_unit_price"
	}
	if cfg.Outbox.RelaySchedule == "" {
		cfg.Outbox.RelaySchedule = "@every 5s"
	}
	if cfg.Outbox.BatchSize == 0 {
		cfg.Outbox.BatchSize = 100
	}
	if cfg.Outbox.CleanupRetention == 0 {
		cfg.Outbox.CleanupRetention = 168 * time.Hour
	}
	if cfg.Outbox.DedupTTL == 0 {
		cfg.Outbox.DedupTTL = 24 * time.Hour
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("database.driver must be postgres or sqlite, got %q", c.Database.Driver)
	}
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}

	if c.JWT.Enabled && c.JWT.Secret == "" {
		return fmt.Errorf("jwt.secret is required when jwt is enabled")
	}

	switch c.Documents.Renderer {
	case "html", "chromedp":
	default:
		return fmt.Errorf("documents.renderer must be html or chromedp, got %q", c.Documents.Renderer)
	}
	switch c.Documents.Storage {
	case "fs":
	case "s3":
		if c.Documents.S3Bucket == "" {
			return fmt.Errorf("documents.s3_bucket is required for s3 storage")
		}
	default:
		return fmt.Errorf("documents.storage must be fs or s3, got %q", c.Documents.Storage)
	}
	if c.Documents.MaxAttempts < 1 {
		return fmt.Errorf("documents.max_attempts must be at least 1")
	}
	if _, err := language.Parse(c.Documents.Locale); err != nil {
		return fmt.Errorf("documents.locale %q: %w", c.Documents.Locale, err)
	}

	switch c.Fulfillment.ReturnCostBasis {
	case "sales_unit_price", "inventory_unit_cost":
	default:
		return fmt.Errorf("fulfillment.return_cost_basis must be sales_unit_price or inventory_unit_cost, got %q",
			c.Fulfillment.ReturnCostBasis)
	}

	switch c.Telemetry.MetricsBackend {
	case "otlp", "prometheus":
	default:
		return fmt.Errorf("telemetry.metrics_backend must be otlp or prometheus, got %q", c.Telemetry.MetricsBackend)
	}

	if c.App.Env == "production" {
		if !c.JWT.Enabled {
			return fmt.Errorf("jwt must be enabled in production")
		}
		if len(c.JWT.Secret) < 32 {
			return fmt.Errorf("jwt.secret must be at least 32 characters in production")
		}
		if c.Database.Driver == "sqlite" {
			return fmt.Errorf("database.driver sqlite is not supported in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("database.password is required in production")
		}
	}

	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}

	return nil
}

// DSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
