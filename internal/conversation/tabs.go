package conversation

import "github.com/jonathan/career-assistant/internal/types"

// Tab is a view of the chat client.
type Tab string

// Tab constants
const (
	TabChat   Tab = "chat"
	TabResume Tab = "resume"
	TabCareer Tab = "career"
)

// TabSet lists the views that have content and the records feeding them.
type TabSet struct {
	Available []Tab `json:"available"`
	// Analysis is the latest résumé analysis
	Analysis *types.ResumeAnalysis `json:"analysis,omitempty"`
	// Careers come from the first career-results message
	Careers []types.CareerRecommendation `json:"careers,omitempty"`
}

// Has reports whether tab is available.
func (t TabSet) Has(tab Tab) bool {
	for _, a := range t.Available {
		if a == tab {
			return true
		}
	}
	return false
}

// TabState re-derives tab availability from a transcript. Chat is always available.
func TabState(messages []types.Message) TabSet {
	set := TabSet{Available: []Tab{TabChat}}
	for _, m := range messages {
		switch m.Kind {
		case types.KindResumeAnalysis:
			if m.Payload.Analysis != nil {
				set.Analysis = m.Payload.Analysis
			}
		case types.KindCareerResults:
			if set.Careers == nil {
				set.Careers = m.Payload.Careers
			}
		}
	}
	if set.Analysis != nil {
		set.Available = append(set.Available, TabResume)
	}
	if set.Careers != nil {
		set.Available = append(set.Available, TabCareer)
	}
	return set
}

// SuggestedTab returns the view to switch to after a reply of kind.
func SuggestedTab(kind types.MessageKind, current Tab) Tab {
	switch kind {
	case types.KindCareerResults:
		return TabCareer
	case types.KindResumeAnalysis:
		return TabResume
	default:
		return current
	}
}
