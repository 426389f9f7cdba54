package types

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
)

// SendMessageRequest is the body of a chat submission.
type SendMessageRequest struct {
	Content string `json:"content" validate:"required"`
}

// CustomEditRequest carries free-form editing instructions for the active résumé.
type CustomEditRequest struct {
	Instructions string `json:"instructions" validate:"required"`
}

// ProxyRequest describes an outbound call forwarded by the generic proxy.
type ProxyRequest struct {
	URL     string            `json:"url" validate:"required,url"`
	Method  string            `json:"method,omitempty" validate:"omitempty,oneof=GET POST PUT PATCH DELETE"`
	Headers map[string]string `json:"headers,omitempty"`
	Body    json.RawMessage   `json:"body,omitempty"`
}

// ChatTurn is one message of a stateless chat request.
type ChatTurn struct {
	Role    string `json:"role" validate:"required,oneof=user assistant system"`
	Content string `json:"content" validate:"required"`
}

// ChatRequest is the body of the stateless chat endpoint.
type ChatRequest struct {
	Messages []ChatTurn `json:"messages" validate:"required,min=1,dive"`
}

// Validate validates the SendMessageRequest using the validator.
func (r *SendMessageRequest) Validate() error {
	return validator.New().Struct(r)
}

// Validate validates the CustomEditRequest using the validator.
func (r *CustomEditRequest) Validate() error {
	return validator.New().Struct(r)
}

// Validate validates the ProxyRequest using the validator.
func (r *ProxyRequest) Validate() error {
	return validator.New().Struct(r)
}

// Validate validates the ChatRequest using the validator.
func (r *ChatRequest) Validate() error {
	return validator.New().Struct(r)
}
