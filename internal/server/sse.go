package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/jonathan/career-assistant/internal/conversation"
	"github.com/jonathan/career-assistant/internal/types"
)

// SSE event names of the streaming message endpoint.
const (
	EventPending  = "pending"
	EventMessage  = "message"
	EventError    = "error"
	EventComplete = "complete"
)

// streamFailed is the complete-event status after an error event.
const streamFailed = "failed"

// SSEWriter writes the Server-Sent Events of one session's message stream.
// Every stream ends with exactly one complete event.
type SSEWriter struct {
	w         http.ResponseWriter
	flusher   http.Flusher
	sessionID string
}

// NewSSEWriter sets the event-stream headers on w.
func NewSSEWriter(w http.ResponseWriter, sessionID string) (*SSEWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming not supported")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	return &SSEWriter{w: w, flusher: flusher, sessionID: sessionID}, nil
}

// WriteEvent sends one named event with a JSON data line.
func (s *SSEWriter) WriteEvent(event string, data any) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", event, jsonData); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// Pending announces the recorded user message before the reply is ready.
func (s *SSEWriter) Pending(msg types.Message) error {
	return s.WriteEvent(EventPending, msg)
}

// Message sends the finished exchange and completes the stream.
func (s *SSEWriter) Message(exchange *conversation.Exchange) error {
	if err := s.WriteEvent(EventMessage, exchange); err != nil {
		return err
	}
	return s.complete(string(conversation.StateIdle))
}

// Fail sends an error event and completes the stream as failed.
func (s *SSEWriter) Fail(message string) {
	s.WriteEvent(EventError, map[string]string{"error": message}) //nolint:errcheck
	s.complete(streamFailed)                                      //nolint:errcheck
}

func (s *SSEWriter) complete(status string) error {
	return s.WriteEvent(EventComplete, map[string]string{
		"session_id": s.sessionID,
		"status":     status,
	})
}
