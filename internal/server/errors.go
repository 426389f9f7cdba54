// Package server provides the HTTP API for the career assistant.
package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/career-assistant/internal/conversation"
	"github.com/jonathan/career-assistant/internal/extraction"
	"github.com/jonathan/career-assistant/internal/gateway"
	"github.com/jonathan/career-assistant/internal/ingestion"
)

// Error messages returned to clients.
const (
	msgInvalidBody   = "invalid request body"
	msgInternal      = "Internal server error"
	msgBLSFailed     = "Failed to fetch BLS data"
	msgONetFailed    = "Failed to fetch O*NET data"
	msgAdzunaFailed  = "Failed to fetch Adzuna jobs data"
	msgCareersFailed = "Failed to generate career recommendations"
	msgResumeFailed  = "Error generating resume"
	msgChatFailed    = "Error processing your request"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// requiredError reports a missing field the way clients expect: "<field> is required".
func requiredError(field string) *ErrValidation {
	return &ErrValidation{Field: field, Message: field + " is required"}
}

// validationError converts validator output into an *ErrValidation for the
// first failing field. Field names are lowercased to match the JSON keys.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return requiredError(field)
	case "email", "url":
		return &ErrValidation{Field: field, Message: fmt.Sprintf("%s must be a valid %s", field, fe.Tag())}
	case "oneof":
		return &ErrValidation{Field: field, Message: fmt.Sprintf("%s must be one of: %s", field, fe.Param())}
	case "min":
		return &ErrValidation{Field: field, Message: fmt.Sprintf("%s must have at least %s entries", field, fe.Param())}
	default:
		return &ErrValidation{Field: field, Message: fmt.Sprintf("%s is invalid", field)}
	}
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusInternalServerError
	}

	var (
		validationErr  *ErrValidation
		upstreamErr    *gateway.UpstreamError
		extractionErr  *extraction.ExtractionError
		unsupportedErr *ingestion.UnsupportedFormatError
	)
	switch {
	case errors.As(err, &validationErr),
		errors.Is(err, conversation.ErrEmptyMessage),
		errors.Is(err, conversation.ErrEmptyInstructions),
		errors.Is(err, ingestion.ErrNoText):
		return http.StatusBadRequest
	case errors.As(err, &unsupportedErr):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, conversation.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, conversation.ErrRequestPending),
		errors.Is(err, conversation.ErrSessionReset),
		errors.Is(err, conversation.ErrNoActiveAnalysis):
		return http.StatusConflict
	case errors.As(err, &upstreamErr), errors.As(err, &extractionErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// clientMessage returns the message shown for err, or fallback for failures
// whose details should stay in the logs.
func clientMessage(err error, fallback string) string {
	var validationErr *ErrValidation
	if errors.As(err, &validationErr) {
		return validationErr.Message
	}
	switch HTTPStatus(err) {
	case http.StatusBadRequest, http.StatusNotFound, http.StatusConflict, http.StatusUnsupportedMediaType:
		return err.Error()
	}
	return fallback
}
