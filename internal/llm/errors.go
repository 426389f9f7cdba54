package llm

import (
	"errors"
	"fmt"
)

// ErrEmptyResponse is returned when the model answers without any candidate text.
var ErrEmptyResponse = errors.New("no candidate text in response")

// APIError represents a failed call to the generative endpoint.
type APIError struct {
	StatusCode int
	Message    string
	Cause      error
}

func (e *APIError) Error() string {
	msg := e.Message
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Cause != nil {
		return fmt.Sprintf("llm error: %s: %v", msg, e.Cause)
	}
	return fmt.Sprintf("llm error: %s", msg)
}

func (e *APIError) Unwrap() error {
	return e.Cause
}
