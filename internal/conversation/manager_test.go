package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/career-assistant/internal/assistant"
	"github.com/jonathan/career-assistant/internal/extraction"
	"github.com/jonathan/career-assistant/internal/llm"
	"github.com/jonathan/career-assistant/internal/types"
)

var fixedNow = time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)

// funcGenerator answers every request with respond.
type funcGenerator struct {
	mu      sync.Mutex
	respond func(req llm.GenerateRequest) (string, error)
	calls   []llm.GenerateRequest
}

func (g *funcGenerator) GenerateDetailed(_ context.Context, req llm.GenerateRequest) (string, error) {
	g.mu.Lock()
	g.calls = append(g.calls, req)
	respond := g.respond
	g.mu.Unlock()
	return respond(req)
}

func (g *funcGenerator) lastCall() llm.GenerateRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[len(g.calls)-1]
}

// reply returns a generator that always answers text.
func reply(text string) *funcGenerator {
	return &funcGenerator{respond: func(llm.GenerateRequest) (string, error) { return text, nil }}
}

func sequentialIDs() func() string {
	var n atomic.Int64
	return func() string { return fmt.Sprintf("id-%d", n.Add(1)) }
}

func newTestManager(t *testing.T, gen assistant.Generator, policy extraction.Policy, opts ...Option) *Manager {
	t.Helper()
	a := assistant.New(gen, extraction.New(policy).WithRandom(func(n int) int { return n - 1 }))
	opts = append([]Option{
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(sequentialIDs()),
	}, opts...)
	return NewManager(a, opts...)
}

func createSession(t *testing.T, m *Manager) string {
	t.Helper()
	s, err := m.Create(context.Background())
	require.NoError(t, err)
	return s.ID
}

func TestCreate_StartsWithFeatureMenu(t *testing.T) {
	m := newTestManager(t, reply(""), extraction.Lenient)

	s, err := m.Create(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StateIdle, s.State)
	require.Len(t, s.Messages, 1)
	welcome := s.Messages[0]
	assert.Equal(t, types.RoleAssistant, welcome.Role)
	assert.Equal(t, types.KindFeatureMenu, welcome.Kind)
	assert.Equal(t, assistant.WelcomeText, welcome.Content)
	assert.Len(t, welcome.Payload.Features, 4)
	assert.Equal(t, fixedNow, welcome.Timestamp)
	assert.Equal(t, []Tab{TabChat}, s.Tabs().Available)
}

func TestSubmit_Validation(t *testing.T) {
	m := newTestManager(t, reply(""), extraction.Lenient)
	id := createSession(t, m)

	_, err := m.Submit(context.Background(), id, "   \n\t")
	assert.ErrorIs(t, err, ErrEmptyMessage)

	_, err = m.Submit(context.Background(), "missing", "hello")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	s, err := m.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Len(t, s.Messages, 1)
}

func TestSubmit_JobSearchAppendsListings(t *testing.T) {
	gen := reply(`[{"title": "Cloud Engineer", "company": "Nimbus"}]`)
	m := newTestManager(t, gen, extraction.Lenient)
	id := createSession(t, m)

	ex, err := m.Submit(context.Background(), id, "  I need help finding job opportunities in tech ")
	require.NoError(t, err)

	assert.Equal(t, "I need help finding job opportunities in tech", ex.User.Content)
	assert.Equal(t, types.KindJobListings, ex.Reply.Kind)
	require.NotEmpty(t, ex.Reply.Payload.Jobs)
	assert.Equal(t, "Cloud Engineer", ex.Reply.Payload.Jobs[0].Title)
	assert.Equal(t, TabChat, ex.SuggestedTab)

	s, err := m.Get(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, s.Messages, 3)
	assert.Equal(t, types.RoleUser, s.Messages[1].Role)
	assert.Equal(t, ex.Reply.ID, s.Messages[2].ID)
	assert.Equal(t, StateIdle, s.State)
}

func TestSubmit_CareerReplyOpensCareerTab(t *testing.T) {
	m := newTestManager(t, reply("not json"), extraction.Lenient)
	id := createSession(t, m)

	ex, err := m.Submit(context.Background(), id, "Suggest a career path")
	require.NoError(t, err)
	assert.True(t, ex.Degraded)
	assert.Equal(t, TabCareer, ex.SuggestedTab)

	s, err := m.Get(context.Background(), id)
	require.NoError(t, err)
	tabs := s.Tabs()
	assert.True(t, tabs.Has(TabCareer))
	assert.False(t, tabs.Has(TabResume))
	assert.Equal(t, extraction.FallbackCareers(), tabs.Careers)
}

func TestSubmit_StrictFailureBecomesPlainMessage(t *testing.T) {
	gen := &funcGenerator{respond: func(llm.GenerateRequest) (string, error) {
		return llm.ApologyText, errors.New("upstream unavailable")
	}}
	m := newTestManager(t, gen, extraction.Strict)
	id := createSession(t, m)

	ex, err := m.Submit(context.Background(), id, "Any open positions?")
	require.NoError(t, err)
	assert.Equal(t, types.KindPlain, ex.Reply.Kind)
	assert.Equal(t, assistant.ProcessingIssueText, ex.Reply.Content)

	s, err := m.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, StateIdle, s.State)
}

func TestSubmit_SecondMessageWaitsForFirstReply(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var first atomic.Bool
	gen := &funcGenerator{respond: func(req llm.GenerateRequest) (string, error) {
		if first.CompareAndSwap(false, true) {
			close(started)
			<-release
		}
		return "ok", nil
	}}
	m := newTestManager(t, gen, extraction.Lenient)
	id := createSession(t, m)

	done := make(chan error, 1)
	go func() {
		_, err := m.Submit(context.Background(), id, "hello")
		done <- err
	}()
	<-started

	_, err := m.Submit(context.Background(), id, "are you there?")
	assert.ErrorIs(t, err, ErrRequestPending)

	s, err := m.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, StatePending, s.State)
	require.Len(t, s.Messages, 2)
	assert.Equal(t, "hello", s.Messages[1].Content)

	close(release)
	require.NoError(t, <-done)

	_, err = m.Submit(context.Background(), id, "are you there?")
	require.NoError(t, err)

	// The second message saw the first exchange as history
	assert.Contains(t, gen.lastCall().Context, "user: hello\nassistant: ok")

	s, err = m.Get(context.Background(), id)
	require.NoError(t, err)
	var roles []types.Role
	for _, msg := range s.Messages {
		roles = append(roles, msg.Role)
	}
	assert.Equal(t, []types.Role{types.RoleAssistant, types.RoleUser, types.RoleAssistant, types.RoleUser, types.RoleAssistant}, roles)
}

func TestSubmitStream_CallsPendingHook(t *testing.T) {
	m := newTestManager(t, reply("hi"), extraction.Lenient)
	id := createSession(t, m)

	var seen types.Message
	ex, err := m.SubmitStream(context.Background(), id, "hello", func(msg types.Message) {
		seen = msg
		s, err := m.Get(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, StatePending, s.State)
	})
	require.NoError(t, err)
	assert.Equal(t, ex.User, seen)
}

func TestReset_DiscardsInFlightReply(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	gen := &funcGenerator{respond: func(llm.GenerateRequest) (string, error) {
		close(started)
		<-release
		return "late answer", nil
	}}
	m := newTestManager(t, gen, extraction.Lenient)
	id := createSession(t, m)

	done := make(chan error, 1)
	go func() {
		_, err := m.Submit(context.Background(), id, "hello")
		done <- err
	}()
	<-started

	s, err := m.Reset(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), s.Generation)
	assert.Equal(t, StateIdle, s.State)

	close(release)
	assert.ErrorIs(t, <-done, ErrSessionReset)

	s, err = m.Get(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, s.Messages, 1)
	assert.Equal(t, types.KindFeatureMenu, s.Messages[0].Kind)
}

func TestUpload_MalformedAnalysisUsesDefault(t *testing.T) {
	m := newTestManager(t, reply("I think it is a fine resume."), extraction.Lenient)
	id := createSession(t, m)

	ex, err := m.Upload(context.Background(), id, "resume.txt", []byte("Jane Doe\nSoftware Engineer at Acme"))
	require.NoError(t, err)

	assert.Equal(t, "Uploaded resume: resume.txt", ex.User.Content)
	assert.Equal(t, types.KindResumeAnalysis, ex.Reply.Kind)
	assert.Equal(t, assistant.AnalysisText, ex.Reply.Content)
	assert.Equal(t, TabResume, ex.SuggestedTab)
	assert.True(t, ex.Degraded)

	analysis := ex.Reply.Payload.Analysis
	require.NotNil(t, analysis)
	assert.GreaterOrEqual(t, analysis.OverallScore, float64(65))
	assert.Less(t, analysis.OverallScore, float64(80))
	assert.GreaterOrEqual(t, analysis.ATSScore, float64(60))
	assert.Less(t, analysis.ATSScore, float64(80))
	assert.NotEmpty(t, analysis.GeneratedDocumentRef)

	s, err := m.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, ex.Reply.ID, s.ActiveAnalysisID)
	assert.Same(t, analysis, s.ActiveAnalysis())
	assert.True(t, s.Tabs().Has(TabResume))
}

func TestUpload_UnsupportedFile(t *testing.T) {
	gen := reply("")
	m := newTestManager(t, gen, extraction.Lenient)
	id := createSession(t, m)

	ex, err := m.Upload(context.Background(), id, "photo.png", []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a})
	require.NoError(t, err)
	assert.Equal(t, types.KindPlain, ex.Reply.Kind)
	assert.Equal(t, assistant.UploadFailedText, ex.Reply.Content)
	assert.Empty(t, gen.calls)

	s, err := m.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Empty(t, s.ActiveAnalysisID)
	assert.Equal(t, StateIdle, s.State)
}

func TestCustomEdit_AttachesNewDocumentRef(t *testing.T) {
	gen := &funcGenerator{respond: func(req llm.GenerateRequest) (string, error) {
		if strings.Contains(req.Prompt, "Editing Instructions") {
			return "Rewritten summary", nil
		}
		return `{"score": 70, "atsScore": 65, "strengths": ["Clear"], "improvements": ["Metrics"]}`, nil
	}}
	m := newTestManager(t, gen, extraction.Lenient)
	id := createSession(t, m)

	ex, err := m.Upload(context.Background(), id, "resume.md", []byte("# Jane Doe\nEngineer"))
	require.NoError(t, err)
	before, err := m.Get(context.Background(), id)
	require.NoError(t, err)

	outcome, err := m.CustomEdit(context.Background(), id, "Shorten the summary")
	require.NoError(t, err)
	assert.False(t, outcome.Failed)
	assert.Equal(t, "Rewritten summary", outcome.Text)
	assert.NotEmpty(t, outcome.DocumentRef)

	after, err := m.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Rewritten summary", after.EditedResume)
	assert.Len(t, after.Messages, len(before.Messages))
	assert.Equal(t, outcome.DocumentRef, after.ActiveAnalysis().GeneratedDocumentRef)
	assert.Equal(t, ex.Reply.Payload.Analysis.OverallScore, after.ActiveAnalysis().OverallScore)

	// The earlier snapshot still points at the original record
	assert.Same(t, ex.Reply.Payload.Analysis, before.ActiveAnalysis())
	assert.NotSame(t, before.ActiveAnalysis(), after.ActiveAnalysis())
}

func TestCustomEdit_FailureStoresMessage(t *testing.T) {
	var failEdits atomic.Bool
	gen := &funcGenerator{respond: func(llm.GenerateRequest) (string, error) {
		if failEdits.Load() {
			return llm.ApologyText, errors.New("quota exceeded")
		}
		return "{}", nil
	}}
	m := newTestManager(t, gen, extraction.Strict)
	id := createSession(t, m)

	_, err := m.Upload(context.Background(), id, "resume.txt", []byte("Jane Doe"))
	require.NoError(t, err)
	failEdits.Store(true)

	outcome, err := m.CustomEdit(context.Background(), id, "Make it shorter")
	require.NoError(t, err)
	assert.True(t, outcome.Failed)
	assert.Equal(t, assistant.EditFailedText, outcome.Text)

	s, err := m.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, assistant.EditFailedText, s.EditedResume)
	assert.Equal(t, StateIdle, s.State)
}

func TestCustomEdit_Validation(t *testing.T) {
	m := newTestManager(t, reply(""), extraction.Lenient)
	id := createSession(t, m)

	_, err := m.CustomEdit(context.Background(), id, " ")
	assert.ErrorIs(t, err, ErrEmptyInstructions)

	_, err = m.CustomEdit(context.Background(), id, "Shorter please")
	assert.ErrorIs(t, err, ErrNoActiveAnalysis)
}

func TestUpdateProfile(t *testing.T) {
	m := newTestManager(t, reply(""), extraction.Lenient)
	id := createSession(t, m)

	got, err := m.UpdateProfile(context.Background(), id, types.UserProfile{
		Name:   " Jane ",
		Skills: []string{"Go", "go", " SQL ", ""},
	})
	require.NoError(t, err)
	assert.Equal(t, "Jane", got.Name)
	assert.Equal(t, []string{"Go", "SQL"}, got.Skills)

	_, err = m.UpdateProfile(context.Background(), id, types.UserProfile{Email: "not-an-email"})
	assert.Error(t, err)

	s, err := m.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Jane", s.Profile.Name)
}

func TestManager_ReloadsFromStore(t *testing.T) {
	store := NewMemoryStore()
	m1 := newTestManager(t, reply("hi"), extraction.Lenient, WithStore(store))
	id := createSession(t, m1)
	_, err := m1.Submit(context.Background(), id, "hello")
	require.NoError(t, err)

	stored, err := store.Load(context.Background(), id)
	require.NoError(t, err)
	stored.State = StatePending
	require.NoError(t, store.Save(context.Background(), stored))

	m2 := newTestManager(t, reply("hi again"), extraction.Lenient, WithStore(store))
	s, err := m2.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Len(t, s.Messages, 3)
	assert.Equal(t, StateIdle, s.State)
	assert.Equal(t, 1, store.Len())
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	store := NewMemoryStore()
	s := &Session{ID: "s1", Messages: []types.Message{{ID: "m1"}}}
	require.NoError(t, store.Save(context.Background(), s))

	s.Messages = append(s.Messages, types.Message{ID: "m2"})
	loaded, err := store.Load(context.Background(), "s1")
	require.NoError(t, err)
	assert.Len(t, loaded.Messages, 1)

	_, err = store.Load(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
