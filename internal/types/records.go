package types

// DemandLevel is the market demand attached to a career recommendation.
type DemandLevel string

// DemandLevel constants
const (
	DemandHigh   DemandLevel = "High"
	DemandMedium DemandLevel = "Medium"
	DemandLow    DemandLevel = "Low"
)

// CareerRecommendation is a suggested career path.
type CareerRecommendation struct {
	ID                 string      `json:"id"`
	Title              string      `json:"title"`
	MatchPercent       float64     `json:"match"`
	SalaryRange        string      `json:"salary"`
	GrowthOutlook      string      `json:"growth"`
	Description        string      `json:"description"`
	Skills             []string    `json:"skills"`
	DemandLevel        DemandLevel `json:"demand"`
	Education          string      `json:"education"`
	ExperienceRequired string      `json:"experience"`

	// Occupation references, populated by the careers endpoint only.
	ONetCode     string        `json:"onet_code,omitempty"`
	BLSSeries    string        `json:"bls_series,omitempty"`
	MedianSalary int           `json:"median_salary,omitempty"`
	JobOutlook   string        `json:"job_outlook,omitempty"`
	APIEndpoints *APIEndpoints `json:"api_endpoints,omitempty"`
	Enrichment   *Enrichment   `json:"enrichment,omitempty"`
}

// Enrichment is occupation data fetched live for a catalog recommendation.
type Enrichment struct {
	Occupation *ONetSummary `json:"occupation,omitempty"`
	Wages      *BLSSeries   `json:"wages,omitempty"`
}

// APIEndpoints links a career recommendation to the data endpoints that describe it.
type APIEndpoints struct {
	BLS  string `json:"bls"`
	ONet string `json:"onet"`
	Jobs string `json:"jobs"`
}

// CourseRecommendation is one step of a skill-development roadmap.
type CourseRecommendation struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Provider        string   `json:"provider"`
	Duration        string   `json:"duration"`
	Level           string   `json:"level"`
	Rating          float64  `json:"rating"`
	EnrolledCount   string   `json:"students"`
	Price           string   `json:"price"`
	Skills          []string `json:"skills"`
	ProgressPercent float64  `json:"progress"`
}

// JobListing is a single job opening.
type JobListing struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Company     string   `json:"company"`
	Location    string   `json:"location"`
	SalaryRange string   `json:"salary"`
	PostedAt    string   `json:"posted"`
	Description string   `json:"description"`
	Skills      []string `json:"skills"`
	URL         string   `json:"url"`
}

// ImprovedSection is a before/after rewrite suggested for a résumé passage.
type ImprovedSection struct {
	Original    string `json:"original"`
	Improved    string `json:"improved"`
	Explanation string `json:"explanation"`
}

// KeywordAnalysis groups keyword findings for a résumé.
type KeywordAnalysis struct {
	Missing     []string `json:"missing"`
	Overused    []string `json:"overused"`
	Recommended []string `json:"recommended"`
}

// ScoreBreakdown holds the per-dimension résumé scores, each in [0,100].
type ScoreBreakdown struct {
	Content      float64 `json:"content"`
	Structure    float64 `json:"structure"`
	ATS          float64 `json:"ats"`
	Achievements float64 `json:"achievements"`
}

// ResumeAnalysis is the structured review of an uploaded résumé.
type ResumeAnalysis struct {
	OverallScore         float64           `json:"score"`
	ATSScore             float64           `json:"atsScore"`
	Strengths            []string          `json:"strengths"`
	Improvements         []string          `json:"improvements"`
	Suggestions          []string          `json:"suggestions,omitempty"`
	ImprovedSections     []ImprovedSection `json:"improvedSections"`
	KeywordAnalysis      KeywordAnalysis   `json:"keywordAnalysis"`
	ScoreBreakdown       ScoreBreakdown    `json:"scoreBreakdown"`
	GeneratedDocumentRef string            `json:"generatedResume,omitempty"`
}

// Clone returns a deep copy so callers can attach a document reference without
// touching the record held by an earlier message.
func (a *ResumeAnalysis) Clone() *ResumeAnalysis {
	if a == nil {
		return nil
	}
	c := *a
	c.Strengths = append([]string(nil), a.Strengths...)
	c.Improvements = append([]string(nil), a.Improvements...)
	c.Suggestions = append([]string(nil), a.Suggestions...)
	c.ImprovedSections = append([]ImprovedSection(nil), a.ImprovedSections...)
	c.KeywordAnalysis = KeywordAnalysis{
		Missing:     append([]string(nil), a.KeywordAnalysis.Missing...),
		Overused:    append([]string(nil), a.KeywordAnalysis.Overused...),
		Recommended: append([]string(nil), a.KeywordAnalysis.Recommended...),
	}
	return &c
}

// FeatureOption is an entry of the welcome menu. Selecting it submits Prompt as a user message.
type FeatureOption struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Prompt      string `json:"prompt"`
}
