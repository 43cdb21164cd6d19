// Package config holds runtime configuration, loaded from defaults with
// environment overrides.
package config

import (
	"os"
	"strconv"
	"strings"
)

// Config carries everything the server needs to run.
type Config struct {
	HTTPAddr        string
	DatabaseDSN     string
	SigningKey      string
	TokenExpiration int
	Issuer          string
	Audience        []string
	UploadDir       string
	AllowOrigins    []string
	Debug           bool
}

// LoadDefaults returns the development configuration.
func LoadDefaults() *Config {
	return &Config{
		HTTPAddr:        ":8000",
		DatabaseDSN:     "file:mercato.db?cache=shared&mode=rwc",
		SigningKey:      "dev-signing-key",
		TokenExpiration: 24,
		Issuer:          "mercato",
		Audience:        []string{"mercato"},
		UploadDir:       "uploads",
		AllowOrigins:    []string{"http://localhost:3000"},
	}
}

// Load builds the configuration from defaults overlaid with MERCATO_*
// environment variables.
func Load() *Config {
	cfg := LoadDefaults()

	if v := os.Getenv("MERCATO_HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}

	if v := os.Getenv("MERCATO_DATABASE_DSN"); v != "" {
		cfg.DatabaseDSN = v
	}

	if v := os.Getenv("MERCATO_SIGNING_KEY"); v != "" {
		cfg.SigningKey = v
	}

	if v := os.Getenv("MERCATO_TOKEN_EXPIRATION"); v != "" {
		if hours, err := strconv.Atoi(v); err == nil && hours > 0 {
			cfg.TokenExpiration = hours
		}
	}

	if v := os.Getenv("MERCATO_ISSUER"); v != "" {
		cfg.Issuer = v
	}

	if v := os.Getenv("MERCATO_AUDIENCE"); v != "" {
		cfg.Audience = splitList(v)
	}

	if v := os.Getenv("MERCATO_UPLOAD_DIR"); v != "" {
		cfg.UploadDir = v
	}

	if v := os.Getenv("MERCATO_ALLOW_ORIGINS"); v != "" {
		cfg.AllowOrigins = splitList(v)
	}

	if v := os.Getenv("MERCATO_DEBUG"); v != "" {
		if debug, err := strconv.ParseBool(v); err == nil {
			cfg.Debug = debug
		}
	}

	return cfg
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c *Config) GetSigningKey() string {
	return c.SigningKey
}

func (c *Config) GetTokenExpiration() int {
	return c.TokenExpiration
}

func (c *Config) GetIssuer() string {
	return c.Issuer
}

func (c *Config) GetAudience() []string {
	return c.Audience
}
