// Package assistant answers one user message: it classifies the text, runs the
// matching task against the model or the job board, and normalizes the result
// into a typed reply.
package assistant

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jonathan/career-assistant/internal/extraction"
	"github.com/jonathan/career-assistant/internal/gateway"
	"github.com/jonathan/career-assistant/internal/intent"
	"github.com/jonathan/career-assistant/internal/llm"
	"github.com/jonathan/career-assistant/internal/prompts"
	"github.com/jonathan/career-assistant/internal/types"
)

// historyWindow is how many earlier messages are sent as general-chat context.
const historyWindow = 4

// JobSource selects where job listings come from.
type JobSource string

// JobSource constants
const (
	JobSourceModel  JobSource = "model"
	JobSourceAdzuna JobSource = "adzuna"
)

// ParseJobSource parses a job source name. The empty string selects the model.
func ParseJobSource(s string) (JobSource, error) {
	switch JobSource(strings.ToLower(strings.TrimSpace(s))) {
	case "", JobSourceModel:
		return JobSourceModel, nil
	case JobSourceAdzuna:
		return JobSourceAdzuna, nil
	default:
		return "", fmt.Errorf("unknown job source %q (want model or adzuna)", s)
	}
}

// Generator produces model text. *llm.Responder satisfies it.
type Generator interface {
	GenerateDetailed(ctx context.Context, req llm.GenerateRequest) (string, error)
}

// JobSearcher searches a job board. *gateway.AdzunaClient satisfies it.
type JobSearcher interface {
	Search(ctx context.Context, query, country string) (*types.AdzunaResponse, error)
}

// Reply is the answer to one user message.
type Reply struct {
	Category intent.Category
	Content  string
	Payload  types.Payload
	// Degraded is set when the payload is fallback data
	Degraded bool
}

// Assistant dispatches user messages to task handlers.
type Assistant struct {
	gen       Generator
	extractor *extraction.Extractor
	jobs      JobSearcher
	jobSource JobSource
	now       func() time.Time
}

// Option configures an Assistant.
type Option func(*Assistant)

// WithJobSearcher serves job-search requests from searcher instead of the model.
func WithJobSearcher(searcher JobSearcher) Option {
	return func(a *Assistant) {
		a.jobs = searcher
		if searcher != nil {
			a.jobSource = JobSourceAdzuna
		}
	}
}

// WithClock sets the clock used for relative posting ages.
func WithClock(now func() time.Time) Option {
	return func(a *Assistant) {
		a.now = now
	}
}

// New creates an Assistant. A nil extractor uses the lenient policy.
func New(gen Generator, extractor *extraction.Extractor, opts ...Option) *Assistant {
	if extractor == nil {
		extractor = extraction.New(extraction.Lenient)
	}
	a := &Assistant{
		gen:       gen,
		extractor: extractor,
		jobSource: JobSourceModel,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Respond answers text. history is the transcript before this message and is
// only used for general chat. An error means the reply could not be built;
// the caller should show ProcessingIssueText.
func (a *Assistant) Respond(ctx context.Context, text string, history []types.Message) (Reply, error) {
	category := intent.Classify(text)
	log.Printf("[assistant] Classified message as %s", category)

	var (
		reply Reply
		err   error
	)
	switch category {
	case intent.ResumeHelp:
		reply, err = a.resumeHelp(ctx, text)
	case intent.CareerExploration:
		reply, err = a.careers(ctx, text)
	case intent.SkillDevelopment:
		reply, err = a.courses(ctx, text)
	case intent.JobSearch:
		reply, err = a.jobListings(ctx, text)
	default:
		reply, err = a.generalChat(ctx, text, history)
	}
	if err != nil {
		return Reply{Category: category}, fmt.Errorf("%s: %w", category, err)
	}
	reply.Category = category
	return reply, nil
}

// generate calls the model and applies the fallback policy to failures.
func (a *Assistant) generate(ctx context.Context, req llm.GenerateRequest) (string, error) {
	text, err := a.gen.GenerateDetailed(ctx, req)
	if err != nil && a.extractor.Policy().IsStrict() {
		return "", err
	}
	return text, nil
}

func (a *Assistant) resumeHelp(ctx context.Context, text string) (Reply, error) {
	if !intent.WantsCreation(text) {
		return Reply{Content: prompts.MustGet(prompts.AssistantFile, "resume-upload-prompt")}, nil
	}
	guide, err := a.generate(ctx, llm.GenerateRequest{
		Prompt: prompts.MustGet(prompts.AssistantFile, "resume-creation"),
	})
	if err != nil {
		return Reply{}, err
	}
	return Reply{Content: guide}, nil
}

func (a *Assistant) careers(ctx context.Context, text string) (Reply, error) {
	raw, err := a.generate(ctx, queryPrompt("career-recommendations", text))
	if err != nil {
		return Reply{}, err
	}
	parsed, err := a.extractor.Careers(raw)
	if err != nil {
		return Reply{}, err
	}
	return Reply{
		Content:  CareerResultsText,
		Payload:  types.Payload{Careers: parsed.Value},
		Degraded: parsed.Degraded,
	}, nil
}

func (a *Assistant) courses(ctx context.Context, text string) (Reply, error) {
	raw, err := a.generate(ctx, queryPrompt("skill-roadmap", text))
	if err != nil {
		return Reply{}, err
	}
	parsed, err := a.extractor.Courses(raw)
	if err != nil {
		return Reply{}, err
	}
	return Reply{
		Content:  SkillRoadmapText,
		Payload:  types.Payload{Courses: parsed.Value},
		Degraded: parsed.Degraded,
	}, nil
}

func (a *Assistant) jobListings(ctx context.Context, text string) (Reply, error) {
	if a.jobSource == JobSourceAdzuna && a.jobs != nil {
		return a.boardListings(ctx, text)
	}

	raw, err := a.generate(ctx, queryPrompt("job-listings", text))
	if err != nil {
		return Reply{}, err
	}
	parsed, err := a.extractor.Jobs(raw)
	if err != nil {
		return Reply{}, err
	}
	return Reply{
		Content:  JobListingsText,
		Payload:  types.Payload{Jobs: parsed.Value},
		Degraded: parsed.Degraded,
	}, nil
}

// boardListings serves job-search from the job board. An empty result uses
// the fixed listings so the reply is never an empty card list.
func (a *Assistant) boardListings(ctx context.Context, text string) (Reply, error) {
	resp, err := a.jobs.Search(ctx, text, gateway.DefaultCountry)
	if err != nil {
		return Reply{}, err
	}
	listings := gateway.ToJobListings(resp, a.now())
	degraded := false
	if len(listings) == 0 {
		log.Printf("[assistant] Job board returned no results, using fallback listings")
		listings = extraction.FallbackJobs()
		degraded = true
	}
	return Reply{
		Content:  JobListingsText,
		Payload:  types.Payload{Jobs: listings},
		Degraded: degraded,
	}, nil
}

func (a *Assistant) generalChat(ctx context.Context, text string, history []types.Message) (Reply, error) {
	answer, err := a.generate(ctx, llm.GenerateRequest{
		Prompt:  text,
		Context: FormatHistory(history, historyWindow),
	})
	if err != nil {
		return Reply{}, err
	}
	return Reply{Content: answer}, nil
}

// Chat answers a stateless multi-turn conversation. System turns and the
// default system prompt lead the context; the last user turn is the prompt.
func (a *Assistant) Chat(ctx context.Context, turns []types.ChatTurn) (string, error) {
	system := prompts.MustGet(prompts.AssistantFile, "chat-system")
	var lines []string
	prompt := ""
	for i, turn := range turns {
		if turn.Role == "system" {
			system = turn.Content
			continue
		}
		if i == len(turns)-1 && turn.Role == string(types.RoleUser) {
			prompt = turn.Content
			continue
		}
		lines = append(lines, turn.Role+": "+turn.Content)
	}
	if prompt == "" {
		return "", fmt.Errorf("last message must come from the user")
	}

	preamble := system
	if len(lines) > 0 {
		preamble += "\n\n" + strings.Join(lines, "\n")
	}
	answer, err := a.gen.GenerateDetailed(ctx, llm.GenerateRequest{Prompt: prompt, Context: preamble})
	if err != nil {
		return "", err
	}
	return answer, nil
}

// FormatHistory renders the last n messages as "role: content" lines.
func FormatHistory(history []types.Message, n int) string {
	if len(history) > n {
		history = history[len(history)-n:]
	}
	lines := make([]string, len(history))
	for i, m := range history {
		lines[i] = string(m.Role) + ": " + m.Content
	}
	return strings.Join(lines, "\n")
}

func queryPrompt(key, query string) llm.GenerateRequest {
	return llm.GenerateRequest{
		Prompt:   prompts.MustRender(prompts.AssistantFile, key, map[string]string{"Query": query}),
		JSONMode: true,
	}
}
