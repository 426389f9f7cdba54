package config

import (
	"fmt"
	"time"
)

// JWTConfig holds configuration for session token generation and validation.
type JWTConfig struct {
	Secret          string
	ExpirationHours int
}

// JWT returns the token configuration, or nil when no secret is configured.
// Without a secret the session ID in the path is the only credential.
func (c *Config) JWT() (*JWTConfig, error) {
	if c.JWTSecret == "" {
		return nil, nil
	}
	hours := c.JWTExpirationHours
	if hours == 0 {
		hours = DefaultJWTExpirationHours
	}

	config := &JWTConfig{
		Secret:          c.JWTSecret,
		ExpirationHours: hours,
	}
	if err := config.normalize(); err != nil {
		return nil, err
	}
	return config, nil
}

// Expiration returns the token lifetime.
func (c *JWTConfig) Expiration() time.Duration {
	return time.Duration(c.ExpirationHours) * time.Hour
}

// normalize validates the configuration.
func (c *JWTConfig) normalize() error {
	if c.Secret == "" {
		return fmt.Errorf("JWT_SECRET cannot be empty")
	}
	if len(c.Secret) < 16 {
		return fmt.Errorf("JWT_SECRET must be at least 16 characters")
	}
	if c.ExpirationHours < 1 {
		return fmt.Errorf("JWT_EXPIRATION_HOURS must be at least 1 hour, got: %d", c.ExpirationHours)
	}
	return nil
}
