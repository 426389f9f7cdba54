// Package intent maps free-form user text to the task category that should handle it.
package intent

import "strings"

// Category is a task class assigned to user input.
type Category string

// Category constants
const (
	ResumeHelp        Category = "resume-help"
	CareerExploration Category = "career-exploration"
	SkillDevelopment  Category = "skill-development"
	JobSearch         Category = "job-search"
	General           Category = "general"
)

// rule pairs a category with the keywords that select it.
type rule struct {
	category Category
	keywords []string
}

// rules are evaluated in order; the first rule with a matching keyword wins.
var rules = []rule{
	{ResumeHelp, []string{"resume", "cv", "application"}},
	{CareerExploration, []string{"career", "path", "opportunity"}},
	{SkillDevelopment, []string{"skill", "learn", "course", "roadmap"}},
	{JobSearch, []string{"job", "hiring", "opening", "position"}},
}

// creationKeywords mark a resume-help request as asking for a brand-new résumé.
var creationKeywords = []string{"create", "new"}

// Classify returns the category for text using case-insensitive substring matching.
// Text that matches no keyword is General.
func Classify(text string) Category {
	lower := strings.ToLower(text)
	for _, r := range rules {
		if containsAny(lower, r.keywords) {
			return r.category
		}
	}
	return General
}

// WantsCreation reports whether text asks for a new résumé rather than a review.
func WantsCreation(text string) bool {
	return containsAny(strings.ToLower(text), creationKeywords)
}

// AllCategories lists every category in priority order, General last.
func AllCategories() []Category {
	out := make([]Category, 0, len(rules)+1)
	for _, r := range rules {
		out = append(out, r.category)
	}
	return append(out, General)
}

// Keywords returns a copy of the keywords that select category.
func Keywords(category Category) []string {
	for _, r := range rules {
		if r.category == category {
			return append([]string(nil), r.keywords...)
		}
	}
	return nil
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
