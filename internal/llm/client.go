package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// JSONDirective is appended to prompts sent in JSON mode.
const JSONDirective = "\n\nPlease respond with properly formatted JSON."

// GenerateRequest is a single generation call.
type GenerateRequest struct {
	Prompt   string
	Context  string
	JSONMode bool
}

// CombinedPrompt joins the context and prompt with a blank line and adds the JSON
// directive in JSON mode.
func (r GenerateRequest) CombinedPrompt() string {
	text := r.Context + "\n\n" + r.Prompt
	if r.JSONMode {
		text += JSONDirective
	}
	return text
}

// Client is an abstraction over LLM providers
type Client interface {
	// Generate returns the first candidate's text for the request
	Generate(ctx context.Context, req GenerateRequest) (string, error)
	// Close releases any resources held by the client
	Close() error
}

// NewClient creates a new LLM client based on configuration
func NewClient(ctx context.Context, config *Config) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Provider {
	case ProviderSDK:
		return NewGeminiClient(ctx, config)
	default:
		return NewRESTClient(config, nil)
	}
}

// GeminiClient implements Client with the Google generative-ai-go SDK
type GeminiClient struct {
	client *genai.Client
	config *Config
}

// NewGeminiClient creates a new Gemini SDK client
func NewGeminiClient(ctx context.Context, config *Config) (*GeminiClient, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(config.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		config: config,
	}, nil
}

// Generate generates text content for the request
func (c *GeminiClient) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	model := c.client.GenerativeModel(c.config.Model)
	model.SetTemperature(c.config.Temperature)
	model.SetTopP(c.config.TopP)
	model.SetTopK(c.config.TopK)
	if req.JSONMode {
		model.ResponseMIMEType = "application/json"
	}

	resp, err := model.GenerateContent(ctx, genai.Text(req.CombinedPrompt()))
	if err != nil {
		return "", &APIError{Message: "failed to generate content", Cause: err}
	}

	return extractTextFromResponse(resp)
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// extractTextFromResponse returns the text of the first candidate's first text part
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", ErrEmptyResponse
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return "", ErrEmptyResponse
	}

	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok && strings.TrimSpace(string(text)) != "" {
			return string(text), nil
		}
	}

	return "", ErrEmptyResponse
}
