package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/speechfun/speechfun-backend/internal/platform/envutil"
)

// Config holds the non-secret runtime settings. Values come from an optional
// YAML file (CONFIG_PATH) with environment variables taking precedence;
// secrets (API keys, DSNs) are read from the environment only.
type Config struct {
	Port    string `yaml:"port"`
	SiteURL string `yaml:"site_url"`

	AccessTokenTTLHours    int `yaml:"access_token_ttl_hours"`
	VerificationTTLHours   int `yaml:"verification_ttl_hours"`
	OutboundTimeoutSeconds int `yaml:"outbound_timeout_seconds"`

	WordHelpCacheTTLHours int `yaml:"word_help_cache_ttl_hours"`
}

func defaults() Config {
	return Config{
		Port:                   "8080",
		SiteURL:                "http://localhost:8080",
		AccessTokenTTLHours:    24 * 30,
		VerificationTTLHours:   24,
		OutboundTimeoutSeconds: 10,
		WordHelpCacheTTLHours:  24,
	}
}

func Load() (Config, error) {
	cfg := defaults()

	if path := envutil.Str("CONFIG_PATH", ""); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file: %w", err)
		}
	}

	cfg.Port = envutil.Str("PORT", cfg.Port)
	cfg.SiteURL = envutil.Str("SITE_URL", cfg.SiteURL)
	cfg.AccessTokenTTLHours = envutil.Int("ACCESS_TOKEN_TTL_HOURS", cfg.AccessTokenTTLHours)
	cfg.VerificationTTLHours = envutil.Int("VERIFICATION_TTL_HOURS", cfg.VerificationTTLHours)
	cfg.OutboundTimeoutSeconds = envutil.Int("OUTBOUND_TIMEOUT_SECONDS", cfg.OutboundTimeoutSeconds)
	cfg.WordHelpCacheTTLHours = envutil.Int("WORD_HELP_CACHE_TTL_HOURS", cfg.WordHelpCacheTTLHours)

	return cfg, nil
}

func (c Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.AccessTokenTTLHours) * time.Hour
}

func (c Config) VerificationTTL() time.Duration {
	return time.Duration(c.VerificationTTLHours) * time.Hour
}

func (c Config) OutboundTimeout() time.Duration {
	return time.Duration(c.OutboundTimeoutSeconds) * time.Second
}

func (c Config) WordHelpCacheTTL() time.Duration {
	return time.Duration(c.WordHelpCacheTTLHours) * time.Hour
}
