package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP           HTTPConfig           `yaml:"http"`
	LLM            LLMConfig            `yaml:"llm"`
	Recommendation RecommendationConfig `yaml:"recommendation"`
	Cache          CacheConfig          `yaml:"cache"`
	RequestLog     RequestLogConfig     `yaml:"requestLog"`
	Auth           AuthConfig           `yaml:"auth"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address         string          `yaml:"address"`
	ReadTimeout     time.Duration   `yaml:"readTimeout"`
	WriteTimeout    time.Duration   `yaml:"writeTimeout"`
	ShutdownTimeout time.Duration   `yaml:"shutdownTimeout"`
	CORS            CORSConfig      `yaml:"cors"`
	RateLimit       RateLimitConfig `yaml:"rateLimit"`
}

// CORSConfig lists the browser origins allowed to call the API. An empty
// list allows any origin.
type CORSConfig struct {
	AllowedOrigins []string      `yaml:"allowedOrigins"`
	MaxAge         time.Duration `yaml:"maxAge"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// LLMConfig contains Anthropic settings. APIKey stays nil when no key was
// supplied anywhere; an explicit empty string is kept as such.
type LLMConfig struct {
	APIKey  *string       `yaml:"apiKey"`
	BaseURL string        `yaml:"baseUrl"`
	Model   string        `yaml:"model"`
	Version string        `yaml:"version"`
	Timeout time.Duration `yaml:"timeout"`
}

// RecommendationConfig tunes the pipeline decorators.
type RecommendationConfig struct {
	Retry RetryConfig `yaml:"retry"`
}

// RetryConfig configures bounded retries of network failures.
type RetryConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MaxAttempts int           `yaml:"maxAttempts"`
	BaseBackoff time.Duration `yaml:"baseBackoff"`
}

// CacheConfig controls the recommendation response cache.
type CacheConfig struct {
	Enabled    bool          `yaml:"enabled"`
	TTL        time.Duration `yaml:"ttl"`
	MaxEntries int           `yaml:"maxEntries"`
	Valkey     ValkeyConfig  `yaml:"valkey"`
}

// ValkeyConfig contains connection information for cache storage.
type ValkeyConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	Prefix  string `yaml:"prefix"`
}

// RequestLogConfig controls where request outcomes are recorded.
type RequestLogConfig struct {
	MemoryCapacity int            `yaml:"memoryCapacity"`
	Postgres       PostgresConfig `yaml:"postgres"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN         string `yaml:"dsn"`
	MaxConns    int32  `yaml:"maxConns"`
	MinConns    int32  `yaml:"minConns"`
	AutoMigrate bool   `yaml:"autoMigrate"`
}

// AuthConfig configures bearer token verification; empty Secret disables it.
type AuthConfig struct {
	Secret   string        `yaml:"secret"`
	Issuer   string        `yaml:"issuer"`
	TokenTTL time.Duration `yaml:"tokenTtl"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg, os.LookupEnv)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

type lookupFunc func(key string) (string, bool)

func applyEnvOverrides(cfg *Config, lookup lookupFunc) {
	get := func(key string) string {
		v, _ := lookup(key)
		return v
	}

	if v := get("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := get("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.CORS.AllowedOrigins = splitList(v)
	}
	if v := get("HTTP_SHUTDOWN_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.HTTP.ShutdownTimeout = parsed
		}
	}
	if v := get("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = parseBool(v)
	}
	if v := get("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := get("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}

	// A set-but-empty key is kept so service construction can reject it.
	if v, ok := lookup("LLM_API_KEY"); ok {
		cfg.LLM.APIKey = &v
	} else if v, ok := lookup("ANTHROPIC_API_KEY"); ok {
		cfg.LLM.APIKey = &v
	}
	if v := get("LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := get("LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := get("LLM_VERSION"); v != "" {
		cfg.LLM.Version = v
	}
	if v := get("LLM_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.LLM.Timeout = parsed
		}
	}

	if v := get("RECOMMENDATION_RETRY_ENABLED"); v != "" {
		cfg.Recommendation.Retry.Enabled = parseBool(v)
	}
	if v := get("RECOMMENDATION_RETRY_MAX_ATTEMPTS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Recommendation.Retry.MaxAttempts = parsed
		}
	}
	if v := get("RECOMMENDATION_RETRY_BASE_BACKOFF"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Recommendation.Retry.BaseBackoff = parsed
		}
	}

	if v := get("CACHE_ENABLED"); v != "" {
		cfg.Cache.Enabled = parseBool(v)
	}
	if v := get("CACHE_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Cache.TTL = parsed
		}
	}
	if v := get("CACHE_MAX_ENTRIES"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Cache.MaxEntries = parsed
		}
	}
	if v := get("CACHE_VALKEY_ENABLED"); v != "" {
		cfg.Cache.Valkey.Enabled = parseBool(v)
	}
	if v := get("CACHE_VALKEY_ADDR"); v != "" {
		cfg.Cache.Valkey.Addr = v
	}

	if v := get("REQUEST_LOG_POSTGRES_DSN"); v != "" {
		cfg.RequestLog.Postgres.DSN = v
	}
	if v := get("REQUEST_LOG_POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.RequestLog.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := get("REQUEST_LOG_POSTGRES_AUTO_MIGRATE"); v != "" {
		cfg.RequestLog.Postgres.AutoMigrate = parseBool(v)
	}

	if v := get("AUTH_SECRET"); v != "" {
		cfg.Auth.Secret = v
	}
	if v := get("AUTH_ISSUER"); v != "" {
		cfg.Auth.Issuer = v
	}
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:         ":8080",
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    35 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CORS: CORSConfig{
				MaxAge: 10 * time.Minute,
			},
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 30,
				Burst:             10,
			},
		},
		LLM: LLMConfig{
			BaseURL: "https://api.anthropic.com/v1",
			Model:   "claude-3-haiku-20240307",
			Version: "2023-06-01",
			Timeout: 30 * time.Second,
		},
		Recommendation: RecommendationConfig{
			Retry: RetryConfig{
				Enabled:     false,
				MaxAttempts: 3,
				BaseBackoff: 250 * time.Millisecond,
			},
		},
		Cache: CacheConfig{
			Enabled:    false,
			TTL:        30 * time.Minute,
			MaxEntries: 512,
			Valkey: ValkeyConfig{
				Prefix: "lawn:recommendation",
			},
		},
		RequestLog: RequestLogConfig{
			MemoryCapacity: 1000,
			Postgres: PostgresConfig{
				MaxConns: 4,
			},
		},
		Auth: AuthConfig{
			TokenTTL: time.Hour,
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.ShutdownTimeout <= 0 {
		return errors.New("http.shutdownTimeout must be positive")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if c.LLM.Timeout <= 0 {
		return errors.New("llm.timeout must be positive")
	}
	if c.Recommendation.Retry.Enabled {
		if c.Recommendation.Retry.MaxAttempts <= 0 {
			return errors.New("recommendation.retry.maxAttempts must be positive")
		}
		if c.Recommendation.Retry.BaseBackoff <= 0 {
			return errors.New("recommendation.retry.baseBackoff must be positive")
		}
	}
	if c.Cache.Enabled {
		if c.Cache.TTL <= 0 {
			return errors.New("cache.ttl must be positive when the cache is enabled")
		}
		if c.Cache.Valkey.Enabled && strings.TrimSpace(c.Cache.Valkey.Addr) == "" {
			return errors.New("cache.valkey.addr cannot be empty when valkey is enabled")
		}
	}
	if c.RequestLog.MemoryCapacity < 0 {
		return errors.New("requestLog.memoryCapacity cannot be negative")
	}
	return nil
}
