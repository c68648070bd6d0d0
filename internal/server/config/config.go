// Package config handles configuration for the server component,
// including defaults, JSON overlay, and command-line flags.
package config

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Config holds runtime settings for the shopfloor server.
//
// Fields:
//   - EndpointAddrHTTP: bind address for the REST endpoint.
//   - DataFilePath: location of the JSON document backing the store.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use test defaults in prod.
//   - AccessTokenValidityDuration: login token lifetime.
//   - ResetTokenValidityDuration: password-reset token lifetime.
//   - BcryptCost: work factor for password hashing.
//   - LogFormat: "json" (slog) or "dev" (zap console).
type Config struct {
	EndpointAddrHTTP            string
	DataFilePath                string
	SecretKey                   string
	AccessTokenValidityDuration time.Duration
	ResetTokenValidityDuration  time.Duration
	BcryptCost                  int
	LogFormat                   string
}

// LoadDefaults populates Config with sensible development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":8080"
	c.DataFilePath = "data/shopfloor.json"
	c.SecretKey = "secretKey"
	c.AccessTokenValidityDuration = 12 * time.Hour
	c.ResetTokenValidityDuration = 15 * time.Minute
	c.BcryptCost = bcrypt.DefaultCost
	c.LogFormat = "json"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
