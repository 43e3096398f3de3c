package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	domainprinting "github.com/prodsheet/backend/internal/domain/printing"
	"github.com/prodsheet/backend/internal/infrastructure/printing"
	"github.com/spf13/viper"
)

// Storage drivers
const (
	StorageDriverNone       = "none"
	StorageDriverFilesystem = "filesystem"
	StorageDriverS3         = "s3"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Log      LogConfig
	HTTP     HTTPConfig
	Backend  BackendConfig
	Sheet    SheetConfig
	Share    ShareConfig
	Renderer RendererConfig
	Cache    CacheConfig
	Redis    RedisConfig
	Storage  StorageConfig
	Metrics  MetricsConfig
	Tracing  TracingConfig
	Profiler ProfilerConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
	// OrderListURL is where a failed load sends the user
	OrderListURL string
	// OrderBasePath prefixes the edit and preview links of the summary view
	OrderBasePath string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	ShutdownTimeout  time.Duration
	MaxHeaderBytes   int
	CORSAllowOrigins []string
	CORSAllowMethods []string
	CORSAllowHeaders []string
	TrustedProxies   []string
}

// BackendConfig points at the order service REST API
type BackendConfig struct {
	BaseURL string
	// PublicURL is the browser-facing base used in shared links; defaults to BaseURL
	PublicURL string
	Timeout   time.Duration
	AuthToken string
}

// SheetConfig controls the production sheet document
type SheetConfig struct {
	Brand      string
	LogoURL    string
	Paper      string
	AutoPrint  bool
	PrintDelay time.Duration
	Sizing     printing.SizingPolicy
}

// ShareConfig controls the WhatsApp share link
type ShareConfig struct {
	WhatsAppBaseURL string
	Title           string
}

// RendererConfig configures headless Chrome PDF rendering
type RendererConfig struct {
	Enabled bool
	// RemoteURL connects to a running Chrome DevTools endpoint instead of launching one
	RemoteURL string
	ExecPath  string
	Timeout   time.Duration
	NoSandbox bool
	// AssetBaseURL resolves relative image paths in the sheet; defaults to
	// the backend public URL
	AssetBaseURL string
	// ImageWait bounds how long a render waits for sheet images to load
	ImageWait time.Duration
}

// CacheConfig configures the rendered PDF cache
type CacheConfig struct {
	Driver        string // none, memory, redis
	TTL           time.Duration
	MaxEntries    int
	AllowFallback bool
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// StorageConfig configures the sheet PDF archive
type StorageConfig struct {
	Driver string // none, filesystem, s3
	// Path is the filesystem archive root
	Path    string
	BaseURL string

	Endpoint          string
	Region            string
	Bucket            string
	Prefix            string
	AccessKey         string
	SecretKey         string
	UseSSL            bool
	UsePathStyle      bool
	CreateBucket      bool
	PresignExpiration time.Duration
}

// MetricsConfig holds Prometheus settings
type MetricsConfig struct {
	Enabled   bool
	Path      string
	Namespace string
}

// TracingConfig holds OpenTelemetry export settings
type TracingConfig struct {
	Enabled bool
	// CollectorEndpoint is the OTLP gRPC host:port
	CollectorEndpoint string
	Insecure          bool
	SamplingRatio     float64
	ExportLogs        bool
}

// ProfilerConfig holds Pyroscope settings
type ProfilerConfig struct {
	Enabled           bool
	ServerAddress     string
	BasicAuthUser     string
	BasicAuthPassword string
}

// Load loads configuration from a .env file, config.toml and environment
// variables. Priority (highest to lowest):
// 1. Environment variables with SHEET_ prefix (e.g., SHEET_BACKEND_BASE_URL)
// 2. .env (never overrides variables already set)
// 3. config.toml
// 4. Built-in defaults
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	v.SetEnvPrefix("SHEET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		App: AppConfig{
			Name:          v.GetString("app.name"),
			Env:           v.GetString("app.env"),
			Port:          v.GetString("app.port"),
			OrderListURL:  v.GetString("app.order_list_url"),
			OrderBasePath: v.GetString("app.order_base_path"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			ShutdownTimeout:  v.GetDuration("http.shutdown_timeout"),
			MaxHeaderBytes:   v.GetInt("http.max_header_bytes"),
			CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods: v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders: v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:   v.GetStringSlice("http.trusted_proxies"),
		},
		Backend: BackendConfig{
			BaseURL:   v.GetString("backend.base_url"),
			PublicURL: v.GetString("backend.public_url"),
			Timeout:   v.GetDuration("backend.timeout"),
			AuthToken: v.GetString("backend.auth_token"),
		},
		Sheet: SheetConfig{
			Brand:      v.GetString("sheet.brand"),
			LogoURL:    v.GetString("sheet.logo_url"),
			Paper:      v.GetString("sheet.paper"),
			AutoPrint:  v.GetBool("sheet.auto_print"),
			PrintDelay: v.GetDuration("sheet.print_delay"),
		},
		Share: ShareConfig{
			WhatsAppBaseURL: v.GetString("share.whatsapp_base_url"),
			Title:           v.GetString("share.title"),
		},
		Renderer: RendererConfig{
			Enabled:   v.GetBool("renderer.enabled"),
			RemoteURL: v.GetString("renderer.remote_url"),
			ExecPath:  v.GetString("renderer.exec_path"),
			Timeout:   v.GetDuration("renderer.timeout"),
			NoSandbox: v.GetBool("renderer.no_sandbox"),

			AssetBaseURL: v.GetString("renderer.asset_base_url"),
			ImageWait:    v.GetDuration("renderer.image_wait"),
		},
		Cache: CacheConfig{
			Driver:        v.GetString("cache.driver"),
			TTL:           v.GetDuration("cache.ttl"),
			MaxEntries:    v.GetInt("cache.max_entries"),
			AllowFallback: v.GetBool("cache.allow_fallback"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Storage: StorageConfig{
			Driver:            v.GetString("storage.driver"),
			Path:              v.GetString("storage.path"),
			BaseURL:           v.GetString("storage.base_url"),
			Endpoint:          v.GetString("storage.endpoint"),
			Region:            v.GetString("storage.region"),
			Bucket:            v.GetString("storage.bucket"),
			Prefix:            v.GetString("storage.prefix"),
			AccessKey:         v.GetString("storage.access_key"),
			SecretKey:         v.GetString("storage.secret_key"),
			UseSSL:            v.GetBool("storage.use_ssl"),
			UsePathStyle:      v.GetBool("storage.use_path_style"),
			CreateBucket:      v.GetBool("storage.create_bucket"),
			PresignExpiration: v.GetDuration("storage.presign_expiration"),
		},
		Metrics: MetricsConfig{
			Enabled:   v.GetBool("metrics.enabled"),
			Path:      v.GetString("metrics.path"),
			Namespace: v.GetString("metrics.namespace"),
		},
		Tracing: TracingConfig{
			Enabled:           v.GetBool("tracing.enabled"),
			CollectorEndpoint: v.GetString("tracing.collector_endpoint"),
			Insecure:          v.GetBool("tracing.insecure"),
			SamplingRatio:     v.GetFloat64("tracing.sampling_ratio"),
			ExportLogs:        v.GetBool("tracing.export_logs"),
		},
		Profiler: ProfilerConfig{
			Enabled:           v.GetBool("profiler.enabled"),
			ServerAddress:     v.GetString("profiler.server_address"),
			BasicAuthUser:     v.GetString("profiler.basic_auth_user"),
			BasicAuthPassword: v.GetString("profiler.basic_auth_password"),
		},
	}

	cfg.Sheet.Sizing = printing.DefaultSizingPolicy()
	if v.IsSet("sheet.sizing") {
		if err := v.UnmarshalKey("sheet.sizing", &cfg.Sheet.Sizing); err != nil {
			return nil, fmt.Errorf("invalid sheet.sizing: %w", err)
		}
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDefaults registers defaults for booleans, which cannot be told apart
// from "unset" once read.
func setDefaults(v *viper.Viper) {
	v.SetDefault("sheet.auto_print", true)
	v.SetDefault("renderer.enabled", true)
	v.SetDefault("renderer.no_sandbox", false)
	v.SetDefault("cache.allow_fallback", true)
	v.SetDefault("storage.use_path_style", true)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("tracing.insecure", true)
	v.SetDefault("tracing.sampling_ratio", 1.0)
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "prodsheet"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.App.OrderListURL == "" {
		cfg.App.OrderListURL = "/orders"
	}
	if cfg.App.OrderBasePath == "" {
		cfg.App.OrderBasePath = "/orders"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 30 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 90 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 120 * time.Second
	}
	if cfg.HTTP.ShutdownTimeout == 0 {
		cfg.HTTP.ShutdownTimeout = 15 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20
	}
	if len(cfg.HTTP.CORSAllowOrigins) == 0 {
		cfg.HTTP.CORSAllowOrigins = []string{"*"}
	}
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"}
	}
	if cfg.Backend.BaseURL == "" {
		cfg.Backend.BaseURL = "http://localhost:8000/api"
	}
	if cfg.Backend.Timeout == 0 {
		cfg.Backend.Timeout = 15 * time.Second
	}
	if cfg.Sheet.Brand == "" {
		cfg.Sheet.Brand = "JAIPUR"
	}
	if cfg.Sheet.Paper == "" {
		cfg.Sheet.Paper = "A4"
	}
	if cfg.Sheet.PrintDelay == 0 {
		cfg.Sheet.PrintDelay = 500 * time.Millisecond
	}
	if cfg.Share.WhatsAppBaseURL == "" {
		cfg.Share.WhatsAppBaseURL = "https://wa.me/"
	}
	if cfg.Share.Title == "" {
		cfg.Share.Title = cfg.Sheet.Brand + " Production Sheet"
	}
	if cfg.Renderer.Timeout == 0 {
		cfg.Renderer.Timeout = 60 * time.Second
	}
	if cfg.Renderer.ImageWait == 0 {
		cfg.Renderer.ImageWait = 10 * time.Second
	}
	if cfg.Renderer.AssetBaseURL == "" {
		cfg.Renderer.AssetBaseURL = cfg.Backend.PublicURL
	}
	if cfg.Renderer.AssetBaseURL == "" {
		cfg.Renderer.AssetBaseURL = cfg.Backend.BaseURL
	}
	if cfg.Cache.Driver == "" {
		cfg.Cache.Driver = "memory"
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = 10 * time.Minute
	}
	if cfg.Cache.MaxEntries == 0 {
		cfg.Cache.MaxEntries = 128
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = StorageDriverNone
	}
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = "./data/sheets"
	}
	if cfg.Storage.PresignExpiration == 0 {
		cfg.Storage.PresignExpiration = 24 * time.Hour
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = "prodsheet"
	}
}

// validate checks the configuration for invalid values
func (c *Config) validate() error {
	if _, err := url.ParseRequestURI(c.Backend.BaseURL); err != nil {
		return fmt.Errorf("backend.base_url is invalid: %w", err)
	}
	if c.Backend.PublicURL != "" {
		if _, err := url.ParseRequestURI(c.Backend.PublicURL); err != nil {
			return fmt.Errorf("backend.public_url is invalid: %w", err)
		}
	}
	if c.Backend.Timeout < 0 {
		return fmt.Errorf("backend.timeout must not be negative")
	}
	if _, err := domainprinting.ParsePaperSize(c.Sheet.Paper); err != nil {
		return fmt.Errorf("sheet.paper: %w", err)
	}
	if err := c.Sheet.Sizing.Validate(); err != nil {
		return fmt.Errorf("sheet.sizing: %w", err)
	}
	if !strings.HasPrefix(c.Share.WhatsAppBaseURL, "https://") && !strings.HasPrefix(c.Share.WhatsAppBaseURL, "http://") {
		return fmt.Errorf("share.whatsapp_base_url must be an http(s) URL")
	}

	switch c.Cache.Driver {
	case "none", "memory", "redis":
	default:
		return fmt.Errorf("cache.driver must be none, memory or redis, got %q", c.Cache.Driver)
	}

	switch c.Storage.Driver {
	case StorageDriverNone, StorageDriverFilesystem:
	case StorageDriverS3:
		if c.Storage.Bucket == "" {
			return fmt.Errorf("storage.bucket is required for the s3 driver")
		}
	default:
		return fmt.Errorf("storage.driver must be none, filesystem or s3, got %q", c.Storage.Driver)
	}

	if c.Tracing.Enabled && c.Tracing.CollectorEndpoint == "" {
		return fmt.Errorf("tracing.collector_endpoint is required when tracing is enabled")
	}
	if c.Tracing.SamplingRatio < 0 || c.Tracing.SamplingRatio > 1 {
		return fmt.Errorf("tracing.sampling_ratio must be between 0 and 1")
	}
	if c.Profiler.Enabled && c.Profiler.ServerAddress == "" {
		return fmt.Errorf("profiler.server_address is required when profiling is enabled")
	}

	if c.App.Env == "production" {
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
		if c.Renderer.NoSandbox {
			return fmt.Errorf("renderer.no_sandbox must be false in production")
		}
	}
	return nil
}

// IsProduction reports whether the app runs in production
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
