package conversation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/career-assistant/internal/assistant"
	"github.com/jonathan/career-assistant/internal/ingestion"
	"github.com/jonathan/career-assistant/internal/types"
)

// Assistant produces replies. *assistant.Assistant satisfies it.
type Assistant interface {
	Respond(ctx context.Context, text string, history []types.Message) (assistant.Reply, error)
	AnalyzeResume(ctx context.Context, resumeText string, profile types.UserProfile) (*assistant.AnalysisResult, error)
	CustomEdit(ctx context.Context, analysis *types.ResumeAnalysis, instructions string, profile types.UserProfile) (assistant.EditResult, error)
}

// Exchange is a user message and the assistant message answering it.
type Exchange struct {
	User         types.Message `json:"user"`
	Reply        types.Message `json:"reply"`
	SuggestedTab Tab           `json:"suggestedTab"`
	Degraded     bool          `json:"degraded"`
}

// EditOutcome is the result of a custom edit. Text holds EditFailedText when the
// edit could not be produced.
type EditOutcome struct {
	Text        string `json:"text"`
	DocumentRef string `json:"generatedResume,omitempty"`
	Failed      bool   `json:"failed"`
}

// Manager owns all live sessions.
type Manager struct {
	assistant Assistant
	store     Store
	now       func() time.Time
	newID     func() string

	mu       sync.Mutex
	sessions map[string]*liveSession
}

// liveSession guards one session. mu is never held across model or upstream calls.
type liveSession struct {
	mu   sync.Mutex
	data *Session
}

// Option configures a Manager.
type Option func(*Manager)

// WithStore persists sessions in store instead of process memory.
func WithStore(store Store) Option {
	return func(m *Manager) {
		if store != nil {
			m.store = store
		}
	}
}

// WithClock sets the clock used for message timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// WithIDGenerator sets the generator of session and message IDs.
func WithIDGenerator(newID func() string) Option {
	return func(m *Manager) {
		m.newID = newID
	}
}

// NewManager creates a Manager that answers through a.
func NewManager(a Assistant, opts ...Option) *Manager {
	m := &Manager{
		assistant: a,
		store:     NewMemoryStore(),
		now:       time.Now,
		newID:     uuid.NewString,
		sessions:  make(map[string]*liveSession),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create starts a session holding only the welcome message.
func (m *Manager) Create(ctx context.Context) (*Session, error) {
	now := m.now()
	s := &Session{
		ID:        m.newID(),
		State:     StateIdle,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.Messages = []types.Message{m.welcome()}

	if err := m.store.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	m.mu.Lock()
	m.sessions[s.ID] = &liveSession{data: s}
	m.mu.Unlock()

	log.Printf("[conversation] Created session %s", s.ID)
	return s.Clone(), nil
}

// Get returns a snapshot of the session.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	ls, err := m.session(ctx, id)
	if err != nil {
		return nil, err
	}
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return ls.data.Clone(), nil
}

// Submit answers a chat message. The returned exchange holds the appended user
// and assistant messages.
func (m *Manager) Submit(ctx context.Context, id, text string) (*Exchange, error) {
	return m.SubmitStream(ctx, id, text, nil)
}

// SubmitStream is Submit with a callback invoked once the user message is
// appended and the session is pending.
func (m *Manager) SubmitStream(ctx context.Context, id, text string, onPending func(types.Message)) (*Exchange, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	ls, err := m.session(ctx, id)
	if err != nil {
		return nil, err
	}
	userMsg, history, _, gen, err := m.begin(ctx, ls, text)
	if err != nil {
		return nil, err
	}
	if onPending != nil {
		onPending(userMsg)
	}

	reply, err := m.assistant.Respond(ctx, text, history)
	var replyMsg types.Message
	if err != nil {
		log.Printf("[conversation] Session %s: %v", id, err)
		replyMsg = m.message(types.RoleAssistant, assistant.ProcessingIssueText, types.Payload{})
	} else {
		replyMsg = m.message(types.RoleAssistant, reply.Content, reply.Payload)
	}

	if err := m.finish(ctx, ls, gen, func(s *Session) {
		s.Messages = append(s.Messages, replyMsg)
	}); err != nil {
		return nil, err
	}

	return &Exchange{
		User:         userMsg,
		Reply:        replyMsg,
		SuggestedTab: SuggestedTab(replyMsg.Kind, TabChat),
		Degraded:     reply.Degraded,
	}, nil
}

// Upload analyzes an uploaded résumé and appends the analysis message. Files that
// cannot be read produce an apology message rather than an error.
func (m *Manager) Upload(ctx context.Context, id, filename string, data []byte) (*Exchange, error) {
	ls, err := m.session(ctx, id)
	if err != nil {
		return nil, err
	}
	userMsg, _, profile, gen, err := m.begin(ctx, ls, assistant.UploadedText(filename))
	if err != nil {
		return nil, err
	}

	var (
		replyMsg types.Message
		degraded bool
	)
	result, err := m.analyze(ctx, filename, data, profile)
	if err != nil {
		log.Printf("[conversation] Session %s: resume analysis failed: %v", id, err)
		replyMsg = m.message(types.RoleAssistant, assistant.UploadFailedText, types.Payload{})
	} else {
		replyMsg = m.message(types.RoleAssistant, assistant.AnalysisText, types.Payload{Analysis: result.Analysis})
		degraded = result.Degraded
	}

	if err := m.finish(ctx, ls, gen, func(s *Session) {
		s.Messages = append(s.Messages, replyMsg)
		if replyMsg.Kind == types.KindResumeAnalysis {
			s.ActiveAnalysisID = replyMsg.ID
			s.EditedResume = ""
		}
	}); err != nil {
		return nil, err
	}

	return &Exchange{
		User:         userMsg,
		Reply:        replyMsg,
		SuggestedTab: SuggestedTab(replyMsg.Kind, TabChat),
		Degraded:     degraded,
	}, nil
}

func (m *Manager) analyze(ctx context.Context, filename string, data []byte, profile types.UserProfile) (*assistant.AnalysisResult, error) {
	doc, err := ingestion.Extract(filename, data)
	if err != nil {
		return nil, err
	}
	return m.assistant.AnalyzeResume(ctx, doc.Text, profile)
}

// CustomEdit rewrites the active résumé following instructions and attaches the
// new document reference to the analysis message.
func (m *Manager) CustomEdit(ctx context.Context, id, instructions string) (*EditOutcome, error) {
	instructions = strings.TrimSpace(instructions)
	if instructions == "" {
		return nil, ErrEmptyInstructions
	}

	ls, err := m.session(ctx, id)
	if err != nil {
		return nil, err
	}

	ls.mu.Lock()
	s := ls.data
	if s.State == StatePending {
		ls.mu.Unlock()
		return nil, ErrRequestPending
	}
	analysisID := s.ActiveAnalysisID
	analysis := s.ActiveAnalysis().Clone()
	if analysis == nil {
		ls.mu.Unlock()
		return nil, ErrNoActiveAnalysis
	}
	profile := s.Profile
	gen := s.Generation
	s.State = StatePending
	ls.mu.Unlock()

	outcome := &EditOutcome{}
	result, err := m.assistant.CustomEdit(ctx, analysis, instructions, profile)
	if err != nil {
		log.Printf("[conversation] Session %s: custom edit failed: %v", id, err)
		outcome.Text = assistant.EditFailedText
		outcome.Failed = true
	} else {
		outcome.Text = result.Text
		outcome.DocumentRef = result.DocumentRef
	}

	if err := m.finish(ctx, ls, gen, func(s *Session) {
		s.EditedResume = outcome.Text
		if outcome.Failed {
			return
		}
		// Copy on write: earlier snapshots keep the previous reference
		if i := s.messageIndex(analysisID); i >= 0 {
			updated := s.Messages[i].Payload.Analysis.Clone()
			updated.GeneratedDocumentRef = outcome.DocumentRef
			s.Messages[i].Payload.Analysis = updated
		}
	}); err != nil {
		return nil, err
	}
	return outcome, nil
}

// UpdateProfile validates and stores the session's user profile.
func (m *Manager) UpdateProfile(ctx context.Context, id string, profile types.UserProfile) (*types.UserProfile, error) {
	profile = profile.Normalize()
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	ls, err := m.session(ctx, id)
	if err != nil {
		return nil, err
	}
	ls.mu.Lock()
	defer ls.mu.Unlock()

	ls.data.Profile = profile
	ls.data.UpdatedAt = m.now()
	if err := m.store.Save(ctx, ls.data); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return &profile, nil
}

// Reset clears the transcript back to the welcome message. A reply still in
// flight is discarded when it arrives.
func (m *Manager) Reset(ctx context.Context, id string) (*Session, error) {
	ls, err := m.session(ctx, id)
	if err != nil {
		return nil, err
	}
	ls.mu.Lock()
	defer ls.mu.Unlock()

	s := ls.data
	s.Generation++
	s.Messages = []types.Message{m.welcome()}
	s.State = StateIdle
	s.ActiveAnalysisID = ""
	s.EditedResume = ""
	s.UpdatedAt = m.now()
	if err := m.store.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	log.Printf("[conversation] Reset session %s (generation %d)", id, s.Generation)
	return s.Clone(), nil
}

// begin appends a user message and marks the session pending. It returns the
// message, the transcript before it, the profile and the current generation.
func (m *Manager) begin(ctx context.Context, ls *liveSession, text string) (types.Message, []types.Message, types.UserProfile, uint64, error) {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	s := ls.data
	if s.State == StatePending {
		return types.Message{}, nil, types.UserProfile{}, 0, ErrRequestPending
	}

	history := append([]types.Message(nil), s.Messages...)
	msg := m.message(types.RoleUser, text, types.Payload{})
	s.Messages = append(s.Messages, msg)
	s.State = StatePending
	s.UpdatedAt = m.now()
	if err := m.store.Save(ctx, s); err != nil {
		s.Messages = history
		s.State = StateIdle
		return types.Message{}, nil, types.UserProfile{}, 0, fmt.Errorf("failed to save session: %w", err)
	}
	return msg, history, s.Profile, s.Generation, nil
}

// finish applies the result of a request started at generation gen and returns
// the session to idle. Results for an older generation are dropped.
func (m *Manager) finish(ctx context.Context, ls *liveSession, gen uint64, apply func(*Session)) error {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	s := ls.data
	if s.Generation != gen {
		log.Printf("[conversation] Session %s: discarding reply for generation %d", s.ID, gen)
		return ErrSessionReset
	}
	apply(s)
	s.State = StateIdle
	s.UpdatedAt = m.now()
	if err := m.store.Save(ctx, s); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// session returns the live session, loading it from the store on first use.
func (m *Manager) session(ctx context.Context, id string) (*liveSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ls, ok := m.sessions[id]; ok {
		return ls, nil
	}
	s, err := m.store.Load(ctx, id)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	// A stored pending state belongs to a request that died with its process
	if s.State == StatePending {
		s.State = StateIdle
	}
	ls := &liveSession{data: s}
	m.sessions[id] = ls
	return ls, nil
}

func (m *Manager) message(role types.Role, content string, payload types.Payload) types.Message {
	return types.NewMessage(m.newID(), role, content, m.now(), payload)
}

func (m *Manager) welcome() types.Message {
	return m.message(types.RoleAssistant, assistant.WelcomeText, types.Payload{Features: assistant.WelcomeFeatures()})
}
