// Package conversation keeps chat transcripts and serializes the requests of each session.
//
// A session accepts one request at a time. While the assistant works on a message the
// session is pending and further submissions are rejected with ErrRequestPending. Model and
// upstream calls run without holding the session lock; results that arrive after a Reset
// are discarded.
package conversation

import (
	"errors"
	"time"

	"github.com/jonathan/career-assistant/internal/types"
)

// State is the request state of a session.
type State string

// State constants
const (
	StateIdle    State = "idle"
	StatePending State = "pending"
)

// Sentinel errors returned by the Manager.
var (
	ErrEmptyMessage      = errors.New("message is empty")
	ErrEmptyInstructions = errors.New("edit instructions are empty")
	ErrRequestPending    = errors.New("a request is already in progress for this session")
	ErrSessionNotFound   = errors.New("session not found")
	ErrNoActiveAnalysis  = errors.New("no resume analysis in this session")
	ErrSessionReset      = errors.New("session was reset while the request was running")
)

// Session is a snapshot of one conversation.
type Session struct {
	ID       string          `json:"id"`
	Messages []types.Message `json:"messages"`
	State    State           `json:"state"`
	// Generation increases on every Reset; replies for an older generation are dropped
	Generation       uint64            `json:"generation"`
	Profile          types.UserProfile `json:"profile"`
	ActiveAnalysisID string            `json:"activeAnalysisId,omitempty"`
	EditedResume     string            `json:"editedResume,omitempty"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

// Clone returns a copy that shares no slices with s. Message payloads are shared
// since they are never modified in place.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	c.Messages = append([]types.Message(nil), s.Messages...)
	c.Profile.Skills = append([]string(nil), s.Profile.Skills...)
	return &c
}

// ActiveAnalysis returns the analysis of the active résumé, or nil.
func (s *Session) ActiveAnalysis() *types.ResumeAnalysis {
	if i := s.messageIndex(s.ActiveAnalysisID); i >= 0 {
		return s.Messages[i].Payload.Analysis
	}
	return nil
}

// Tabs derives the available views from the transcript.
func (s *Session) Tabs() TabSet {
	return TabState(s.Messages)
}

func (s *Session) messageIndex(id string) int {
	if id == "" {
		return -1
	}
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].ID == id {
			return i
		}
	}
	return -1
}
