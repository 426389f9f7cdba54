package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// RESTClient implements Client against the generateContent HTTP endpoint.
type RESTClient struct {
	config     *Config
	httpClient *http.Client
}

// NewRESTClient creates a REST client. A nil httpClient gets one with the configured timeout.
func NewRESTClient(config *Config, httpClient *http.Client) (*RESTClient, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}
	return &RESTClient{config: config, httpClient: httpClient}, nil
}

type restRequest struct {
	Contents         []restContent        `json:"contents"`
	GenerationConfig restGenerationConfig `json:"generationConfig"`
}

type restContent struct {
	Parts []restPart `json:"parts"`
}

type restPart struct {
	Text string `json:"text"`
}

type restGenerationConfig struct {
	Temperature      float32 `json:"temperature"`
	TopP             float32 `json:"topP"`
	TopK             int32   `json:"topK"`
	ResponseMIMEType string  `json:"response_mime_type,omitempty"`
}

type restResponse struct {
	Candidates []struct {
		Content struct {
			Parts []restPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Endpoint returns the generateContent URL without the API key.
func (c *RESTClient) Endpoint() string {
	base := strings.TrimRight(c.config.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	return fmt.Sprintf("%s/v1beta/models/%s:generateContent", base, url.PathEscape(c.config.Model))
}

// Generate issues one generateContent call and returns the first candidate's text
func (c *RESTClient) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	payload := restRequest{
		Contents: []restContent{{Parts: []restPart{{Text: req.CombinedPrompt()}}}},
		GenerationConfig: restGenerationConfig{
			Temperature: c.config.Temperature,
			TopP:        c.config.TopP,
			TopK:        c.config.TopK,
		},
	}
	if req.JSONMode {
		payload.GenerationConfig.ResponseMIMEType = "application/json"
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", &APIError{Message: "failed to encode request", Cause: err}
	}

	endpoint := c.Endpoint() + "?key=" + url.QueryEscape(c.config.APIKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", &APIError{Message: "failed to create request", Cause: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		// url.Error embeds the full URL, key included
		return "", &APIError{Message: "request failed", Cause: redactKey(err, c.config.APIKey)}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errorBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", &APIError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("Gemini API error: %s", strings.TrimSpace(string(errorBody))),
		}
	}

	var decoded restResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", &APIError{StatusCode: resp.StatusCode, Message: "malformed response body", Cause: err}
	}

	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyResponse
	}
	text := decoded.Candidates[0].Content.Parts[0].Text
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// Close is a no-op; the HTTP client is owned by the caller.
func (c *RESTClient) Close() error {
	return nil
}

func redactKey(err error, key string) error {
	if key == "" {
		return err
	}
	msg := strings.ReplaceAll(err.Error(), url.QueryEscape(key), "REDACTED")
	return fmt.Errorf("%s", strings.ReplaceAll(msg, key, "REDACTED"))
}
