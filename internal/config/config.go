package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port              string   `mapstructure:"PORT"`
	Env               string   `mapstructure:"ENV"`
	UpstreamAPIURL    string   `mapstructure:"UPSTREAM_API_URL"`
	UpstreamTimeoutMS int      `mapstructure:"UPSTREAM_TIMEOUT_MS"`
	DatabaseURL       string   `mapstructure:"DATABASE_URL"`
	DBMaxConns        int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns        int32    `mapstructure:"DB_MIN_CONNS"`
	RedisURL          string   `mapstructure:"REDIS_URL"`
	DismissalStore    string   `mapstructure:"DISMISSAL_STORE_PATH"`
	CORSOrigins       []string `mapstructure:"CORS_ORIGINS"`
	RateLimitRPS      float64  `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst    int      `mapstructure:"RATE_LIMIT_BURST"`
	LookupDebounceMS  int      `mapstructure:"LOOKUP_DEBOUNCE_MS"`
	HistoryCacheTTLS  int      `mapstructure:"HISTORY_CACHE_TTL_S"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("UPSTREAM_API_URL", "http://localhost:8000")
	v.SetDefault("UPSTREAM_TIMEOUT_MS", 10000)
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MIN_CONNS", 2)
	v.SetDefault("DISMISSAL_STORE_PATH", "./data/respira_local_state.json")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT_RPS", 50)
	v.SetDefault("RATE_LIMIT_BURST", 100)
	v.SetDefault("LOOKUP_DEBOUNCE_MS", 400)
	v.SetDefault("HISTORY_CACHE_TTL_S", 30)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("UPSTREAM_API_URL")
	v.BindEnv("UPSTREAM_TIMEOUT_MS")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("REDIS_URL")
	v.BindEnv("DISMISSAL_STORE_PATH")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("RATE_LIMIT_RPS")
	v.BindEnv("RATE_LIMIT_BURST")
	v.BindEnv("LOOKUP_DEBOUNCE_MS")
	v.BindEnv("HISTORY_CACHE_TTL_S")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Validate checks that the configuration is safe to run. The upstream
// prediction API is the only hard dependency; the audit database and redis
// cache are optional tiers with in-process fallbacks.
func (c *Config) Validate() error {
	u, err := url.Parse(c.UpstreamAPIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("UPSTREAM_API_URL must be an absolute URL, got %q", c.UpstreamAPIURL)
	}
	if c.UpstreamTimeoutMS <= 0 {
		return fmt.Errorf("UPSTREAM_TIMEOUT_MS must be positive, got %d", c.UpstreamTimeoutMS)
	}
	if c.DismissalStore == "" {
		return fmt.Errorf("DISMISSAL_STORE_PATH is required")
	}
	if c.LookupDebounceMS < 0 {
		return fmt.Errorf("LOOKUP_DEBOUNCE_MS must not be negative, got %d", c.LookupDebounceMS)
	}
	return nil
}
