package extraction

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"math"
	"math/rand/v2"

	"github.com/jonathan/career-assistant/internal/llm"
	"github.com/jonathan/career-assistant/internal/schemas"
	"github.com/jonathan/career-assistant/internal/types"
)

// Category names used in errors and logs.
const (
	CategoryCareers  = "careers"
	CategoryCourses  = "courses"
	CategoryJobs     = "jobs"
	CategoryAnalysis = "resume-analysis"
)

// errEmptyResult marks a well-formed but empty list, which cannot be rendered.
var errEmptyResult = errors.New("no records in result")

// Parsed is the outcome of one extraction.
type Parsed[T any] struct {
	Value T
	// Degraded is set when Value is fallback data rather than model output.
	Degraded bool
	// Cause is the parse failure behind a degraded result.
	Cause error
}

// Extractor parses model output under a fallback policy.
type Extractor struct {
	policy Policy
	intn   func(n int) int
}

// New creates an Extractor. The random source for default scores is math/rand/v2.
func New(policy Policy) *Extractor {
	if policy == "" {
		policy = Lenient
	}
	return &Extractor{policy: policy, intn: rand.IntN}
}

// WithRandom returns a copy that draws default scores from intn.
func (e *Extractor) WithRandom(intn func(n int) int) *Extractor {
	next := *e
	next.intn = intn
	return &next
}

// Policy returns the extractor's fallback policy.
func (e *Extractor) Policy() Policy {
	return e.policy
}

// Careers parses a JSON array of career recommendations.
func (e *Extractor) Careers(raw string) (Parsed[[]types.CareerRecommendation], error) {
	wire, err := decodeList[careerWire](schemas.Careers, raw)
	if err != nil {
		return degrade(e, CategoryCareers, err, FallbackCareers())
	}
	out := make([]types.CareerRecommendation, len(wire))
	for i, w := range wire {
		out[i] = w.toRecord(i)
	}
	return Parsed[[]types.CareerRecommendation]{Value: out}, nil
}

// Courses parses a JSON array of course recommendations.
func (e *Extractor) Courses(raw string) (Parsed[[]types.CourseRecommendation], error) {
	wire, err := decodeList[courseWire](schemas.Courses, raw)
	if err != nil {
		return degrade(e, CategoryCourses, err, FallbackCourses())
	}
	out := make([]types.CourseRecommendation, len(wire))
	for i, w := range wire {
		out[i] = w.toRecord(i)
	}
	return Parsed[[]types.CourseRecommendation]{Value: out}, nil
}

// Jobs parses a JSON array of job listings.
func (e *Extractor) Jobs(raw string) (Parsed[[]types.JobListing], error) {
	wire, err := decodeList[jobWire](schemas.Jobs, raw)
	if err != nil {
		return degrade(e, CategoryJobs, err, FallbackJobs())
	}
	out := make([]types.JobListing, len(wire))
	for i, w := range wire {
		out[i] = w.toRecord(i)
	}
	return Parsed[[]types.JobListing]{Value: out}, nil
}

// Analysis parses a JSON résumé analysis and normalizes every score into [0,100].
func (e *Extractor) Analysis(raw string) (Parsed[*types.ResumeAnalysis], error) {
	cleaned := llm.CleanJSONBlock(raw)
	if err := schemas.Validate(schemas.Analysis, cleaned); err != nil {
		return degrade(e, CategoryAnalysis, err, e.DefaultAnalysis())
	}

	var wire analysisWire
	if err := strictUnmarshal([]byte(cleaned), &wire); err != nil {
		return degrade(e, CategoryAnalysis, err, e.DefaultAnalysis())
	}

	analysis := wire.toRecord()

	NormalizeAnalysis(&analysis)
	// A reference only ever comes from document synthesis
	analysis.GeneratedDocumentRef = ""
	return Parsed[*types.ResumeAnalysis]{Value: &analysis}, nil
}

// DefaultAnalysis returns the example analysis with freshly drawn scores.
func (e *Extractor) DefaultAnalysis() *types.ResumeAnalysis {
	return DefaultAnalysis(e.intn)
}

// NormalizeAnalysis clamps all scores of a into [0,100] in place.
func NormalizeAnalysis(a *types.ResumeAnalysis) {
	a.OverallScore = ClampScore(a.OverallScore)
	a.ATSScore = ClampScore(a.ATSScore)
	a.ScoreBreakdown.Content = ClampScore(a.ScoreBreakdown.Content)
	a.ScoreBreakdown.Structure = ClampScore(a.ScoreBreakdown.Structure)
	a.ScoreBreakdown.ATS = ClampScore(a.ScoreBreakdown.ATS)
	a.ScoreBreakdown.Achievements = ClampScore(a.ScoreBreakdown.Achievements)
}

// ClampScore rounds v to the nearest integer and clamps it into [0,100].
func ClampScore(v float64) float64 {
	return clamp(math.Round(v), 0, 100)
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Min(hi, math.Max(lo, v))
}

// degrade applies the policy to a failed parse.
func degrade[T any](e *Extractor, category string, cause error, fallback T) (Parsed[T], error) {
	if e.policy.IsStrict() {
		return Parsed[T]{Degraded: true, Cause: cause}, &ExtractionError{
			Category: category,
			Message:  "model output rejected",
			Cause:    cause,
		}
	}
	log.Printf("[extraction] Using fallback %s data: %v", category, cause)
	return Parsed[T]{Value: fallback, Degraded: true, Cause: cause}, nil
}

func decodeList[T any](schemaName, raw string) ([]T, error) {
	cleaned := llm.CleanJSONBlock(raw)
	if err := schemas.Validate(schemaName, cleaned); err != nil {
		return nil, err
	}

	var out []T
	if err := strictUnmarshal([]byte(cleaned), &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, errEmptyResult
	}
	return out, nil
}

// strictUnmarshal decodes exactly one JSON value.
func strictUnmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("unexpected data after JSON value")
	}
	return nil
}
