package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/career-assistant/internal/conversation"
	"github.com/jonathan/career-assistant/internal/extraction"
	"github.com/jonathan/career-assistant/internal/gateway"
	"github.com/jonathan/career-assistant/internal/ingestion"
	"github.com/jonathan/career-assistant/internal/types"
)

func TestErrValidation(t *testing.T) {
	err := &ErrValidation{Field: "email", Message: "invalid format"}
	assert.Equal(t, "validation error: email - invalid format", err.Error())
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(err))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"validation", requiredError("content"), http.StatusBadRequest},
		{"empty message", conversation.ErrEmptyMessage, http.StatusBadRequest},
		{"empty instructions", conversation.ErrEmptyInstructions, http.StatusBadRequest},
		{"no text", fmt.Errorf("extract: %w", ingestion.ErrNoText), http.StatusBadRequest},
		{"unsupported format", &ingestion.UnsupportedFormatError{Filename: "a.png", Message: "unsupported"}, http.StatusUnsupportedMediaType},
		{"session not found", conversation.ErrSessionNotFound, http.StatusNotFound},
		{"request pending", conversation.ErrRequestPending, http.StatusConflict},
		{"session reset", conversation.ErrSessionReset, http.StatusConflict},
		{"no analysis", conversation.ErrNoActiveAnalysis, http.StatusConflict},
		{"upstream", &gateway.UpstreamError{Service: "bls", Message: "down"}, http.StatusBadGateway},
		{"extraction", fmt.Errorf("wrapped: %w", &extraction.ExtractionError{Category: "careers", Message: "bad"}), http.StatusBadGateway},
		{"unknown", assert.AnError, http.StatusInternalServerError},
		{"nil", nil, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HTTPStatus(tt.err))
		})
	}
}

func TestValidationError(t *testing.T) {
	tests := []struct {
		name string
		req  interface{ Validate() error }
		want string
	}{
		{"required", &types.ProxyRequest{}, "url is required"},
		{"url", &types.ProxyRequest{URL: "not a url"}, "url must be a valid url"},
		{"oneof", &types.ProxyRequest{URL: "https://example.com", Method: "TRACE"}, "method must be one of: GET POST PUT PATCH DELETE"},
		{"min", &types.ChatRequest{Messages: []types.ChatTurn{}}, "messages must have at least 1 entries"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validationError(tt.req.Validate())
			var verr *ErrValidation
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Equal(t, tt.want, verr.Message)
		})
	}
}

func TestValidationError_PassesOtherErrors(t *testing.T) {
	assert.Equal(t, assert.AnError, validationError(assert.AnError))
	assert.Nil(t, validationError(nil))
}

func TestClientMessage(t *testing.T) {
	assert.Equal(t, "content is required", clientMessage(requiredError("content"), msgChatFailed))
	assert.Equal(t, "session not found", clientMessage(conversation.ErrSessionNotFound, msgChatFailed))
	assert.Equal(t, msgChatFailed, clientMessage(assert.AnError, msgChatFailed))
	assert.Equal(t, msgBLSFailed, clientMessage(&gateway.UpstreamError{Service: "bls", Message: "secret detail"}, msgBLSFailed))
}
