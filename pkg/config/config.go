package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

type AppConfig struct {
	App       ServerConfig    `yaml:"app"`
	Database  DatabaseConfig  `yaml:"database"`
	Cache     CacheConfig     `yaml:"cache"`
	Auth      AuthConfig      `yaml:"auth"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Log       LogConfig       `yaml:"log"`
	Todo      TodoConfig      `yaml:"todo"`
}

type ServerConfig struct {
	Name         string `yaml:"name"`
	Environment  string `yaml:"environment"`
	Port         int    `yaml:"port"`
	EnforceHTTPS bool   `yaml:"enforce_https"`
}

func (c *ServerConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c *ServerConfig) IsProduction() bool {
	return c.Environment == "production"
}

type DatabaseConfig struct {
	Driver     string `yaml:"driver"`
	Path       string `yaml:"path"`
	URL        string `yaml:"url"`
	LogQueries bool   `yaml:"log_queries"`
}

type CacheConfig struct {
	Driver    string        `yaml:"driver"`
	TTL       time.Duration `yaml:"ttl"`
	RedisAddr string        `yaml:"redis_addr"`
	RedisDB   int           `yaml:"redis_db"`
}

type AuthConfig struct {
	JWTSecret    string        `yaml:"jwt_secret"`
	TokenTTL     time.Duration `yaml:"token_ttl"`
	CursorSecret string        `yaml:"cursor_secret"`
}

// RateLimitConfig keys routes as "METHOD /path", where path is the gin
// route pattern or its first segment.
type RateLimitConfig struct {
	Enabled bool                  `yaml:"enabled"`
	Routes  map[string]RouteLimit `yaml:"routes"`
	Default RouteLimit            `yaml:"default"`
}

type RouteLimit struct {
	Requests int           `yaml:"requests"`
	Window   time.Duration `yaml:"window"`
}

type TelemetryConfig struct {
	Enabled        bool   `yaml:"enabled"`
	ServiceVersion string `yaml:"service_version"`
	OTLPEndpoint   string `yaml:"otlp_endpoint"`
	MetricsPort    int    `yaml:"metrics_port"`
}

type LogConfig struct {
	Level   string `yaml:"level"`
	LokiURL string `yaml:"loki_url"`
}

type TodoConfig struct {
	AttachDefaultLocation bool    `yaml:"attach_default_location"`
	DefaultLatitude       float64 `yaml:"default_latitude"`
	DefaultLongitude      float64 `yaml:"default_longitude"`
}

func GetDefaultConfig() *AppConfig {
	return &AppConfig{
		App: ServerConfig{
			Name:        "lovemap",
			Environment: "development",
			Port:        8080,
		},
		Database: DatabaseConfig{
			Driver: DriverSQLite,
			Path:   "lovemap.db",
		},
		Cache: CacheConfig{
			Driver: CacheMemory,
			TTL:    30 * time.Second,
		},
		Auth: AuthConfig{
			TokenTTL: 3 * time.Hour,
		},
		RateLimit: RateLimitConfig{
			Enabled: true,
			Routes: map[string]RouteLimit{
				"POST /signup":  {Requests: 5, Window: time.Minute},
				"POST /auth":    {Requests: 10, Window: time.Minute},
				"GET /todos":    {Requests: 100, Window: time.Minute},
				"POST /todos":   {Requests: 30, Window: time.Minute},
				"GET /posts":    {Requests: 100, Window: time.Minute},
				"POST /posts":   {Requests: 20, Window: time.Minute},
				"PUT /profile":  {Requests: 10, Window: time.Minute},
				"DELETE /todos": {Requests: 30, Window: time.Minute},
				"DELETE /posts": {Requests: 10, Window: time.Minute},
			},
			Default: RouteLimit{Requests: 60, Window: time.Minute},
		},
		Telemetry: TelemetryConfig{
			Enabled:        false,
			ServiceVersion: "1.0.0",
			OTLPEndpoint:   "localhost:4317",
			MetricsPort:    9091,
		},
		Log: LogConfig{
			Level: "info",
		},
		Todo: TodoConfig{
			AttachDefaultLocation: true,
			DefaultLatitude:       37.5665,
			DefaultLongitude:      126.9780,
		},
	}
}

func (c *AppConfig) Validate() error {
	if err := validation.ValidateStruct(&c.App,
		validation.Field(&c.App.Name, validation.Required),
		validation.Field(&c.App.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	); err != nil {
		return fmt.Errorf("app: %w", err)
	}

	if err := validation.ValidateStruct(&c.Database,
		validation.Field(&c.Database.Driver, validation.Required, validation.In(DriverSQLite, DriverPostgres)),
		validation.Field(&c.Database.Path, validation.When(c.Database.Driver == DriverSQLite, validation.Required)),
		validation.Field(&c.Database.URL, validation.When(c.Database.Driver == DriverPostgres, validation.Required)),
	); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if err := validation.ValidateStruct(&c.Cache,
		validation.Field(&c.Cache.Driver, validation.In(CacheNone, CacheMemory, CacheRedis)),
		validation.Field(&c.Cache.RedisAddr, validation.When(c.Cache.Driver == CacheRedis, validation.Required)),
	); err != nil {
		return fmt.Errorf("cache: %w", err)
	}

	if err := validation.ValidateStruct(&c.Auth,
		validation.Field(&c.Auth.JWTSecret, validation.Required, validation.Length(16, 0)),
		validation.Field(&c.Auth.TokenTTL, validation.Required),
	); err != nil {
		return fmt.Errorf("auth: %w", err)
	}

	if err := validation.ValidateStruct(&c.Todo,
		validation.Field(&c.Todo.DefaultLatitude, validation.Min(-90.0), validation.Max(90.0)),
		validation.Field(&c.Todo.DefaultLongitude, validation.Min(-180.0), validation.Max(180.0)),
	); err != nil {
		return fmt.Errorf("todo: %w", err)
	}

	return nil
}

// Load reads a YAML file, expands ${ENV} references and validates the result.
func Load[T any](filename string, target *T) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", filename, err)
	}

	expandedData := os.ExpandEnv(string(data))

	if err := yaml.Unmarshal([]byte(expandedData), target); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", filename, err)
	}

	if validator, ok := any(target).(validation.Validatable); ok {
		if err := validator.Validate(); err != nil {
			return fmt.Errorf("config validation failed: %w", err)
		}
	}

	return nil
}

// LoadOrDefault returns the defaults overlaid with filename when it exists.
func LoadOrDefault(filename string) (*AppConfig, error) {
	cfg := GetDefaultConfig()

	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		cfg.applyEnv()
		return cfg, cfg.Validate()
	}

	if err := Load(filename, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnv fills secrets from the environment when no file is present.
func (c *AppConfig) applyEnv() {
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.Auth.JWTSecret = v
	}

	if v := os.Getenv("CURSOR_SECRET_KEY"); v != "" {
		c.Auth.CursorSecret = v
	}

	if v := os.Getenv("DATABASE_PATH"); v != "" {
		c.Database.Path = v
	}

	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Database.Driver = DriverPostgres
		c.Database.URL = v
	}

	if os.Getenv("GIN_MODE") == "release" {
		c.App.Environment = "production"
		c.App.EnforceHTTPS = true
	}
}
