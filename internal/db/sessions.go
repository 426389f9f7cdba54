package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/career-assistant/internal/conversation"
	"github.com/jonathan/career-assistant/internal/types"
)

// sessionRow is the column layout of chat_sessions.
type sessionRow struct {
	ID               string
	State            string
	Generation       int64
	Profile          []byte
	Messages         []byte
	ActiveAnalysisID string
	EditedResume     string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func toRow(s *conversation.Session) (*sessionRow, error) {
	profile, err := json.Marshal(s.Profile)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal profile: %w", err)
	}
	messages := s.Messages
	if messages == nil {
		messages = []types.Message{}
	}
	encoded, err := json.Marshal(messages)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal messages: %w", err)
	}
	return &sessionRow{
		ID:               s.ID,
		State:            string(s.State),
		Generation:       int64(s.Generation),
		Profile:          profile,
		Messages:         encoded,
		ActiveAnalysisID: s.ActiveAnalysisID,
		EditedResume:     s.EditedResume,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}, nil
}

func (r *sessionRow) toSession() (*conversation.Session, error) {
	s := &conversation.Session{
		ID:               r.ID,
		State:            conversation.State(r.State),
		Generation:       uint64(r.Generation),
		ActiveAnalysisID: r.ActiveAnalysisID,
		EditedResume:     r.EditedResume,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
	if len(r.Profile) > 0 {
		if err := json.Unmarshal(r.Profile, &s.Profile); err != nil {
			return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
		}
	}
	if len(r.Messages) > 0 {
		if err := json.Unmarshal(r.Messages, &s.Messages); err != nil {
			return nil, fmt.Errorf("failed to unmarshal messages: %w", err)
		}
	}
	return s, nil
}

// SessionStore persists conversation sessions. It implements conversation.Store.
type SessionStore struct {
	db *DB
}

// NewSessionStore creates a store over db.
func NewSessionStore(db *DB) *SessionStore {
	return &SessionStore{db: db}
}

// Save upserts the session snapshot.
func (s *SessionStore) Save(ctx context.Context, session *conversation.Session) error {
	row, err := toRow(session)
	if err != nil {
		return err
	}
	_, err = s.db.pool.Exec(ctx,
		`INSERT INTO chat_sessions (id, state, generation, profile, messages, active_analysis_id, edited_resume, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (id) DO UPDATE SET
		   state = EXCLUDED.state,
		   generation = EXCLUDED.generation,
		   profile = EXCLUDED.profile,
		   messages = EXCLUDED.messages,
		   active_analysis_id = EXCLUDED.active_analysis_id,
		   edited_resume = EXCLUDED.edited_resume,
		   updated_at = EXCLUDED.updated_at`,
		row.ID, row.State, row.Generation, row.Profile, row.Messages,
		row.ActiveAnalysisID, row.EditedResume, row.CreatedAt, row.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save session %s: %w", session.ID, err)
	}
	return nil
}

// Load reads a session. Unknown IDs return conversation.ErrSessionNotFound.
func (s *SessionStore) Load(ctx context.Context, id string) (*conversation.Session, error) {
	var row sessionRow
	err := s.db.pool.QueryRow(ctx,
		`SELECT id, state, generation, profile, messages, active_analysis_id, edited_resume, created_at, updated_at
		 FROM chat_sessions WHERE id = $1`,
		id,
	).Scan(&row.ID, &row.State, &row.Generation, &row.Profile, &row.Messages,
		&row.ActiveAnalysisID, &row.EditedResume, &row.CreatedAt, &row.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, conversation.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session %s: %w", id, err)
	}
	return row.toSession()
}
