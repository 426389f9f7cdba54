// Package config provides configuration loading and validation for the service and CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jonathan/career-assistant/internal/assistant"
	"github.com/jonathan/career-assistant/internal/extraction"
	"github.com/jonathan/career-assistant/internal/gateway"
	"github.com/jonathan/career-assistant/internal/llm"
)

// Defaults for values left unset by the environment and the config file.
const (
	DefaultPort               = 8080
	DefaultHTTPTimeout        = "60s"
	DefaultJWTExpirationHours = 24
)

// Config holds the service configuration. Values come from the environment and
// may be overlaid by a JSON or YAML file. Secrets should stay in the environment.
type Config struct {
	Port int `json:"port,omitempty" yaml:"port,omitempty"`

	// Model
	GeminiAPIKey  string `json:"gemini_api_key,omitempty" yaml:"gemini_api_key,omitempty"`
	GeminiModel   string `json:"gemini_model,omitempty" yaml:"gemini_model,omitempty"`
	GeminiBaseURL string `json:"gemini_base_url,omitempty" yaml:"gemini_base_url,omitempty"`
	LLMProvider   string `json:"llm_provider,omitempty" yaml:"llm_provider,omitempty"` // rest or sdk

	// Upstream data services
	BLSAPIKey    string `json:"bls_api_key,omitempty" yaml:"bls_api_key,omitempty"`
	AdzunaAppID  string `json:"adzuna_app_id,omitempty" yaml:"adzuna_app_id,omitempty"`
	AdzunaAPIKey string `json:"adzuna_api_key,omitempty" yaml:"adzuna_api_key,omitempty"`

	// Behavior
	FallbackPolicy string `json:"fallback_policy,omitempty" yaml:"fallback_policy,omitempty"` // lenient or strict
	JobSource      string `json:"job_source,omitempty" yaml:"job_source,omitempty"`           // model or adzuna
	HTTPTimeout    string `json:"http_timeout,omitempty" yaml:"http_timeout,omitempty"`       // Go duration, e.g. "60s"
	Verbose        bool   `json:"verbose,omitempty" yaml:"verbose,omitempty"`

	// Persistence and auth
	DatabaseURL        string `json:"database_url,omitempty" yaml:"database_url,omitempty"`
	JWTSecret          string `json:"jwt_secret,omitempty" yaml:"jwt_secret,omitempty"`
	JWTExpirationHours int    `json:"jwt_expiration_hours,omitempty" yaml:"jwt_expiration_hours,omitempty"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		Port:               DefaultPort,
		GeminiModel:        llm.DefaultModel,
		GeminiBaseURL:      llm.DefaultBaseURL,
		LLMProvider:        string(llm.ProviderREST),
		FallbackPolicy:     string(extraction.Lenient),
		JobSource:          string(assistant.JobSourceModel),
		HTTPTimeout:        DefaultHTTPTimeout,
		JWTExpirationHours: DefaultJWTExpirationHours,
	}
}

// FromEnv reads the configuration keys from the environment. Unset keys stay empty.
func FromEnv() (*Config, error) {
	cfg := &Config{
		GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
		GeminiModel:    os.Getenv("GEMINI_MODEL"),
		GeminiBaseURL:  os.Getenv("GEMINI_BASE_URL"),
		LLMProvider:    os.Getenv("LLM_PROVIDER"),
		BLSAPIKey:      os.Getenv("BLS_API_KEY"),
		AdzunaAppID:    os.Getenv("ADZUNA_APP_ID"),
		AdzunaAPIKey:   os.Getenv("ADZUNA_API_KEY"),
		FallbackPolicy: os.Getenv("FALLBACK_POLICY"),
		JobSource:      os.Getenv("JOB_SOURCE"),
		HTTPTimeout:    os.Getenv("HTTP_TIMEOUT"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
	}

	var err error
	if cfg.Port, err = envInt("PORT"); err != nil {
		return nil, err
	}
	if cfg.JWTExpirationHours, err = envInt("JWT_EXPIRATION_HOURS"); err != nil {
		return nil, err
	}
	return cfg, nil
}

func envInt(key string) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", key, err)
	}
	return n, nil
}

// LoadConfig loads configuration from a JSON file, or YAML for .yaml and .yml paths.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// Load builds the effective configuration: the file at path (optional) over the
// environment over Defaults. The result is validated.
func Load(path string) (*Config, error) {
	env, err := FromEnv()
	if err != nil {
		return nil, err
	}

	merged := *env
	if path != "" {
		file, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		merged = file.MergeWithDefaults(merged)
	}
	merged = merged.MergeWithDefaults(Defaults())

	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535, got %d", c.Port)
	}
	if c.LLMProvider != "" {
		switch llm.Provider(c.LLMProvider) {
		case llm.ProviderREST, llm.ProviderSDK:
		default:
			return fmt.Errorf("config error: 'llm_provider' must be rest or sdk, got %q", c.LLMProvider)
		}
	}
	if _, err := extraction.ParsePolicy(c.FallbackPolicy); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if _, err := assistant.ParseJobSource(c.JobSource); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if c.HTTPTimeout != "" {
		d, err := time.ParseDuration(c.HTTPTimeout)
		if err != nil {
			return fmt.Errorf("config error: invalid 'http_timeout': %v", err)
		}
		if d <= 0 {
			return fmt.Errorf("config error: 'http_timeout' must be positive")
		}
	}
	if c.JWTExpirationHours < 0 {
		return fmt.Errorf("config error: 'jwt_expiration_hours' must be non-negative")
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	fill := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
	}
	fill(&result.GeminiAPIKey, defaults.GeminiAPIKey)
	fill(&result.GeminiModel, defaults.GeminiModel)
	fill(&result.GeminiBaseURL, defaults.GeminiBaseURL)
	fill(&result.LLMProvider, defaults.LLMProvider)
	fill(&result.BLSAPIKey, defaults.BLSAPIKey)
	fill(&result.AdzunaAppID, defaults.AdzunaAppID)
	fill(&result.AdzunaAPIKey, defaults.AdzunaAPIKey)
	fill(&result.FallbackPolicy, defaults.FallbackPolicy)
	fill(&result.JobSource, defaults.JobSource)
	fill(&result.HTTPTimeout, defaults.HTTPTimeout)
	fill(&result.DatabaseURL, defaults.DatabaseURL)
	fill(&result.JWTSecret, defaults.JWTSecret)

	// Int fields: use default if zero
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.JWTExpirationHours == 0 {
		result.JWTExpirationHours = defaults.JWTExpirationHours
	}

	// Bool fields: cannot distinguish unset from false, so true wins
	result.Verbose = result.Verbose || defaults.Verbose

	return result
}

// Timeout returns the outbound HTTP timeout.
func (c *Config) Timeout() time.Duration {
	d, err := time.ParseDuration(c.HTTPTimeout)
	if err != nil || d <= 0 {
		d, _ = time.ParseDuration(DefaultHTTPTimeout)
	}
	return d
}

// Policy returns the fallback policy. Call Validate first.
func (c *Config) Policy() extraction.Policy {
	p, err := extraction.ParsePolicy(c.FallbackPolicy)
	if err != nil {
		return extraction.Lenient
	}
	return p
}

// Source returns where job listings come from. Call Validate first.
func (c *Config) Source() assistant.JobSource {
	s, err := assistant.ParseJobSource(c.JobSource)
	if err != nil {
		return assistant.JobSourceModel
	}
	return s
}

// LLM returns the model client configuration.
func (c *Config) LLM() *llm.Config {
	cfg := llm.DefaultConfig()
	cfg.APIKey = c.GeminiAPIKey
	cfg.Timeout = c.Timeout()
	if c.GeminiModel != "" {
		cfg.Model = c.GeminiModel
	}
	if c.GeminiBaseURL != "" {
		cfg.BaseURL = c.GeminiBaseURL
	}
	if c.LLMProvider != "" {
		cfg.Provider = llm.Provider(c.LLMProvider)
	}
	return cfg
}

// Gateway returns the upstream client configuration. Empty credentials become placeholders.
func (c *Config) Gateway() *gateway.Config {
	cfg := gateway.DefaultConfig()
	cfg.BLSAPIKey = c.BLSAPIKey
	if c.AdzunaAppID != "" {
		cfg.AdzunaAppID = c.AdzunaAppID
	}
	if c.AdzunaAPIKey != "" {
		cfg.AdzunaAPIKey = c.AdzunaAPIKey
	}
	cfg.Policy = c.Policy()
	return cfg
}

// Addr returns the listen address for Port.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
