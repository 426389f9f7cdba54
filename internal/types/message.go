// Package types provides type definitions for the records exchanged between the
// assistant, its external collaborators and the chat transcript.
package types

import (
	"encoding/json"
	"fmt"
	"time"
)

// Role identifies who authored a conversation message.
type Role string

// Role constants
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// MessageKind selects how a message is rendered and which payload variant it carries.
type MessageKind string

// MessageKind constants
const (
	KindPlain          MessageKind = "plain"
	KindCareerResults  MessageKind = "career-results"
	KindSkillRoadmap   MessageKind = "skill-roadmap"
	KindJobListings    MessageKind = "job-listings"
	KindResumeAnalysis MessageKind = "resume-analysis"
	KindFeatureMenu    MessageKind = "feature-menu"
)

// Message is a single entry in the conversation transcript.
type Message struct {
	ID        string      `json:"id"`
	Role      Role        `json:"role"`
	Content   string      `json:"content"`
	Timestamp time.Time   `json:"timestamp"`
	Kind      MessageKind `json:"type"`
	Payload   Payload     `json:"data"`
}

// Payload is a tagged union over the typed records a message can carry.
// Exactly one field is set, matching the owning message's Kind. Plain messages carry none.
type Payload struct {
	Careers  []CareerRecommendation
	Courses  []CourseRecommendation
	Jobs     []JobListing
	Analysis *ResumeAnalysis
	Features []FeatureOption
}

// IsZero reports whether no variant is set.
func (p Payload) IsZero() bool {
	return p.Careers == nil && p.Courses == nil && p.Jobs == nil && p.Analysis == nil && p.Features == nil
}

// Kind returns the message kind implied by the set variant.
func (p Payload) Kind() MessageKind {
	switch {
	case p.Careers != nil:
		return KindCareerResults
	case p.Courses != nil:
		return KindSkillRoadmap
	case p.Jobs != nil:
		return KindJobListings
	case p.Analysis != nil:
		return KindResumeAnalysis
	case p.Features != nil:
		return KindFeatureMenu
	default:
		return KindPlain
	}
}

// MarshalJSON encodes only the active variant, so the wire shape is the bare record list or object.
func (p Payload) MarshalJSON() ([]byte, error) {
	switch p.Kind() {
	case KindCareerResults:
		return json.Marshal(p.Careers)
	case KindSkillRoadmap:
		return json.Marshal(p.Courses)
	case KindJobListings:
		return json.Marshal(p.Jobs)
	case KindResumeAnalysis:
		return json.Marshal(p.Analysis)
	case KindFeatureMenu:
		return json.Marshal(p.Features)
	default:
		return []byte("null"), nil
	}
}

// NewMessage creates a message whose kind is derived from the payload.
func NewMessage(id string, role Role, content string, at time.Time, payload Payload) Message {
	return Message{
		ID:        id,
		Role:      role,
		Content:   content,
		Timestamp: at,
		Kind:      payload.Kind(),
		Payload:   payload,
	}
}

// UnmarshalJSON decodes the payload variant selected by the message kind.
func (m *Message) UnmarshalJSON(data []byte) error {
	type wire struct {
		ID        string          `json:"id"`
		Role      Role            `json:"role"`
		Content   string          `json:"content"`
		Timestamp time.Time       `json:"timestamp"`
		Kind      MessageKind     `json:"type"`
		Data      json.RawMessage `json:"data"`
	}
	var w wire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	m.ID, m.Role, m.Content, m.Timestamp, m.Kind = w.ID, w.Role, w.Content, w.Timestamp, w.Kind
	m.Payload = Payload{}
	if len(w.Data) == 0 || string(w.Data) == "null" {
		return nil
	}

	var err error
	switch w.Kind {
	case KindCareerResults:
		err = json.Unmarshal(w.Data, &m.Payload.Careers)
	case KindSkillRoadmap:
		err = json.Unmarshal(w.Data, &m.Payload.Courses)
	case KindJobListings:
		err = json.Unmarshal(w.Data, &m.Payload.Jobs)
	case KindResumeAnalysis:
		m.Payload.Analysis = &ResumeAnalysis{}
		err = json.Unmarshal(w.Data, m.Payload.Analysis)
	case KindFeatureMenu:
		err = json.Unmarshal(w.Data, &m.Payload.Features)
	case KindPlain:
	default:
		return fmt.Errorf("unknown message type %q", w.Kind)
	}
	if err != nil {
		return fmt.Errorf("failed to decode %s payload: %w", w.Kind, err)
	}
	return nil
}
