package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/jonathan/career-assistant/internal/extraction"
	"github.com/jonathan/career-assistant/internal/llm"
	"github.com/jonathan/career-assistant/internal/prompts"
	"github.com/jonathan/career-assistant/internal/rendering"
	"github.com/jonathan/career-assistant/internal/types"
)

// Placeholders for document fields the profile leaves empty.
const (
	DefaultDocumentName  = "Your Name"
	DefaultDocumentEmail = "your.email@example.com"
	DefaultLocation      = "Your Location"
	DefaultSummary       = "Professional summary highlighting experience and skills"
	TechnicalSkillsGroup = "Technical Skills"
	SoftSkillsGroup      = "Soft Skills"
	editedSummary        = "Professional summary"
)

// softSkills are listed on every generated document.
var softSkills = []string{"Communication", "Teamwork", "Problem Solving"}

// AnalysisResult is the outcome of analyzing an uploaded résumé.
type AnalysisResult struct {
	Analysis *types.ResumeAnalysis
	// Document is built from the model's enhanced résumé text
	Document types.ResumeDocument
	// Degraded is set when Analysis is the default analysis
	Degraded bool
}

// EditResult is the outcome of a custom edit request.
type EditResult struct {
	Text        string
	DocumentRef string
}

// AnalyzeResume scores resumeText, asks the model for an enhanced résumé based
// on the analysis and attaches the synthesized document reference.
func (a *Assistant) AnalyzeResume(ctx context.Context, resumeText string, profile types.UserProfile) (*AnalysisResult, error) {
	raw, err := a.generate(ctx, llm.GenerateRequest{
		Prompt:   prompts.MustRender(prompts.ResumeFile, "analyze-resume", map[string]string{"ResumeText": resumeText}),
		JSONMode: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to analyze resume: %w", err)
	}
	parsed, err := a.extractor.Analysis(raw)
	if err != nil {
		return nil, err
	}
	analysis := parsed.Value

	encoded, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode analysis: %w", err)
	}
	enhanced, err := a.generate(ctx, llm.GenerateRequest{
		Prompt: prompts.MustRender(prompts.ResumeFile, "enhanced-resume", map[string]string{"Analysis": string(encoded)}),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate enhanced resume: %w", err)
	}

	doc := BuildEnhancedDocument(enhanced, profile)
	analysis.GeneratedDocumentRef = rendering.SynthesizePDF(doc)
	log.Printf("[assistant] Analyzed resume (score %.0f, ats %.0f, degraded %t)", analysis.OverallScore, analysis.ATSScore, parsed.Degraded)

	return &AnalysisResult{
		Analysis: analysis,
		Document: doc,
		Degraded: parsed.Degraded,
	}, nil
}

// BuildEnhancedDocument fills a résumé document from the labelled sections of
// the model's enhanced résumé, using the profile and placeholders for gaps.
func BuildEnhancedDocument(text string, profile types.UserProfile) types.ResumeDocument {
	doc := baseDocument(profile)

	doc.Summary = extraction.ExtractSummary(text)
	if doc.Summary == "" {
		doc.Summary = DefaultSummary
	}
	doc.Experience = extraction.ExtractSection(text, extraction.SectionExperience)
	doc.Education = extraction.ExtractSection(text, extraction.SectionEducation)
	doc.Projects = extraction.ExtractSection(text, extraction.SectionProjects)

	technical := profile.Skills
	if len(technical) == 0 {
		technical = extraction.ExtractSkills(text)
	}
	doc.Skills = map[string][]string{
		TechnicalSkillsGroup: append([]string{}, technical...),
		SoftSkillsGroup:      append([]string(nil), softSkills...),
	}
	return doc
}

// CustomEdit asks the model to rewrite the résumé following instructions and
// synthesizes a fresh document reference.
func (a *Assistant) CustomEdit(ctx context.Context, analysis *types.ResumeAnalysis, instructions string, profile types.UserProfile) (EditResult, error) {
	if analysis == nil {
		return EditResult{}, fmt.Errorf("no resume analysis to edit")
	}
	instructions = strings.TrimSpace(instructions)
	if instructions == "" {
		return EditResult{}, fmt.Errorf("edit instructions are empty")
	}

	text, err := a.generate(ctx, llm.GenerateRequest{
		Prompt: prompts.MustRender(prompts.ResumeFile, "custom-edit", map[string]string{
			"Strengths":    strings.Join(analysis.Strengths, ", "),
			"Improvements": strings.Join(analysis.Improvements, ", "),
			"Score":        fmt.Sprintf("%.0f", analysis.OverallScore),
			"Instructions": instructions,
		}),
	})
	if err != nil {
		return EditResult{}, fmt.Errorf("failed to process custom edit: %w", err)
	}

	doc := baseDocument(profile)
	if analysis.GeneratedDocumentRef == "" {
		doc.Summary = editedSummary
	}
	doc.Experience = []types.Entry{}
	doc.Education = []types.Entry{}
	doc.Projects = []types.Entry{}
	doc.Skills = map[string][]string{}

	return EditResult{Text: text, DocumentRef: rendering.SynthesizePDF(doc)}, nil
}

func baseDocument(profile types.UserProfile) types.ResumeDocument {
	doc := types.ResumeDocument{
		Name: profile.Name,
		Contact: types.Contact{
			Email:    profile.Email,
			Location: DefaultLocation,
			Links:    []string{},
		},
	}
	if doc.Name == "" {
		doc.Name = DefaultDocumentName
	}
	if doc.Contact.Email == "" {
		doc.Contact.Email = DefaultDocumentEmail
	}
	return doc
}
