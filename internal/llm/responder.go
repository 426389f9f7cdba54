package llm

import (
	"context"
	"errors"
	"log"
)

// Fallback texts returned in place of errors.
const (
	EmptyResponseText = "I couldn't generate a response. Please try again."
	ApologyText       = "I'm experiencing technical difficulties. Please try again later."
)

// Responder wraps a Client so callers always receive text.
// Transport and decoding failures become ApologyText and an empty answer becomes
// EmptyResponseText. Content-shape problems remain the caller's concern.
type Responder struct {
	client Client
}

// NewResponder creates a Responder over client.
func NewResponder(client Client) *Responder {
	return &Responder{client: client}
}

// Generate returns the model's text for prompt with history as leading context, never an error.
func (r *Responder) Generate(ctx context.Context, prompt, history string, jsonMode bool) string {
	text, _ := r.GenerateDetailed(ctx, GenerateRequest{Prompt: prompt, Context: history, JSONMode: jsonMode})
	return text
}

// GenerateDetailed behaves like Generate but also reports the underlying failure, if any,
// so strict callers can tell fallback text from a real answer.
func (r *Responder) GenerateDetailed(ctx context.Context, req GenerateRequest) (string, error) {
	if r == nil || r.client == nil {
		return ApologyText, &APIError{Message: "no client configured"}
	}

	text, err := r.client.Generate(ctx, req)
	if err == nil {
		return text, nil
	}

	if errors.Is(err, ErrEmptyResponse) {
		log.Printf("[llm] Empty response from model")
		return EmptyResponseText, err
	}

	log.Printf("[llm] Gemini API call failed: %v", err)
	return ApologyText, err
}

// IsFallbackText reports whether text is one of the Responder's substitute answers.
func IsFallbackText(text string) bool {
	return text == ApologyText || text == EmptyResponseText
}

// Close closes the wrapped client.
func (r *Responder) Close() error {
	if r == nil || r.client == nil {
		return nil
	}
	return r.client.Close()
}
