// Package llm provides the generative text client used by the assistant.
// Providers share one Client interface so the transport can be swapped by configuration.
package llm

import (
	"fmt"
	"time"
)

// Provider selects the transport used to reach the generative model.
type Provider string

// Provider constants define supported transports
const (
	// ProviderREST calls the generateContent endpoint directly over HTTP
	ProviderREST Provider = "rest"
	// ProviderSDK uses the Google generative-ai-go SDK
	ProviderSDK Provider = "sdk"
)

// DefaultBaseURL is the public Gemini API host.
const DefaultBaseURL = "https://generativelanguage.googleapis.com"

// DefaultModel is the model used when none is configured.
const DefaultModel = "gemini-1.5-flash"

// Config holds the model configuration for the application
type Config struct {
	Provider Provider
	Model    string
	BaseURL  string
	APIKey   string
	Timeout  time.Duration

	Temperature float32
	TopP        float32
	TopK        int32
}

// DefaultConfig returns the sampling parameters the assistant prompts are tuned for.
func DefaultConfig() *Config {
	return &Config{
		Provider:    ProviderREST,
		Model:       DefaultModel,
		BaseURL:     DefaultBaseURL,
		Timeout:     60 * time.Second,
		Temperature: 0.7,
		TopP:        0.9,
		TopK:        40,
	}
}

// WithModel returns a copy of the config using model.
func (c *Config) WithModel(model string) *Config {
	next := *c
	next.Model = model
	return &next
}

// Validate checks that the configuration can build a client.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderREST, ProviderSDK:
	default:
		return fmt.Errorf("unknown LLM provider %q", c.Provider)
	}
	if c.Model == "" {
		return fmt.Errorf("model is required")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2, got %v", c.Temperature)
	}
	if c.TopP < 0 || c.TopP > 1 {
		return fmt.Errorf("topP must be between 0 and 1, got %v", c.TopP)
	}
	if c.TopK < 0 {
		return fmt.Errorf("topK must be non-negative, got %d", c.TopK)
	}
	return nil
}
