package extraction

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/jonathan/career-assistant/internal/types"
)

// flexString accepts a JSON string or number. Models are inconsistent about
// quoting ids, prices and counts.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// flexNumber accepts a JSON number, a numeric string or null. Null and
// unparseable strings decode as 0.
type flexNumber float64

func (f *flexNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(s), "%"), 64)
		if err != nil {
			v = 0
		}
		*f = flexNumber(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = flexNumber(v)
	return nil
}

type careerWire struct {
	ID          flexString `json:"id"`
	Title       string     `json:"title"`
	Match       float64    `json:"match"`
	Salary      flexString `json:"salary"`
	Growth      string     `json:"growth"`
	Description string     `json:"description"`
	Skills      []string   `json:"skills"`
	Demand      string     `json:"demand"`
	Education   string     `json:"education"`
	Experience  flexString `json:"experience"`
}

type courseWire struct {
	ID       flexString `json:"id"`
	Title    string     `json:"title"`
	Provider string     `json:"provider"`
	Duration string     `json:"duration"`
	Level    string     `json:"level"`
	Rating   float64    `json:"rating"`
	Students flexString `json:"students"`
	Price    flexString `json:"price"`
	Skills   []string   `json:"skills"`
	Progress float64    `json:"progress"`
}

type jobWire struct {
	ID          flexString `json:"id"`
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Location    string     `json:"location"`
	Salary      flexString `json:"salary"`
	Posted      string     `json:"posted"`
	Description string     `json:"description"`
	Skills      []string   `json:"skills"`
	URL         string     `json:"url"`
}

func itemID(id flexString, index int) string {
	if s := strings.TrimSpace(string(id)); s != "" {
		return s
	}
	return strconv.Itoa(index + 1)
}

func (w careerWire) toRecord(index int) types.CareerRecommendation {
	return types.CareerRecommendation{
		ID:                 itemID(w.ID, index),
		Title:              strings.TrimSpace(w.Title),
		MatchPercent:       ClampScore(w.Match),
		SalaryRange:        string(w.Salary),
		GrowthOutlook:      w.Growth,
		Description:        w.Description,
		Skills:             w.Skills,
		DemandLevel:        normalizeDemand(w.Demand),
		Education:          w.Education,
		ExperienceRequired: string(w.Experience),
	}
}

func (w courseWire) toRecord(index int) types.CourseRecommendation {
	return types.CourseRecommendation{
		ID:              itemID(w.ID, index),
		Title:           strings.TrimSpace(w.Title),
		Provider:        w.Provider,
		Duration:        w.Duration,
		Level:           w.Level,
		Rating:          clamp(w.Rating, 0, 5),
		EnrolledCount:   string(w.Students),
		Price:           string(w.Price),
		Skills:          w.Skills,
		ProgressPercent: clamp(w.Progress, 0, 100),
	}
}

func (w jobWire) toRecord(index int) types.JobListing {
	return types.JobListing{
		ID:          itemID(w.ID, index),
		Title:       strings.TrimSpace(w.Title),
		Company:     w.Company,
		Location:    w.Location,
		SalaryRange: string(w.Salary),
		PostedAt:    w.Posted,
		Description: w.Description,
		Skills:      w.Skills,
		URL:         w.URL,
	}
}

// normalizeDemand maps free-form demand text onto the three levels. Qualified
// forms such as "Extremely High" take the level they name; anything else,
// including an absent value, is Medium.
func normalizeDemand(s string) types.DemandLevel {
	v := strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.Contains(v, "high"), v == "strong", v == "hot":
		return types.DemandHigh
	case strings.Contains(v, "low"), v == "weak", v == "limited":
		return types.DemandLow
	default:
		return types.DemandMedium
	}
}

// analysisWire overrides the score fields of ResumeAnalysis with lenient
// numbers. The outer fields shadow the embedded ones of the same JSON name.
type analysisWire struct {
	types.ResumeAnalysis
	Score     flexNumber    `json:"score"`
	ATS       flexNumber    `json:"atsScore"`
	Breakdown breakdownWire `json:"scoreBreakdown"`
}

type breakdownWire struct {
	Content      flexNumber `json:"content"`
	Structure    flexNumber `json:"structure"`
	ATS          flexNumber `json:"ats"`
	Achievements flexNumber `json:"achievements"`
}

func (w analysisWire) toRecord() types.ResumeAnalysis {
	a := w.ResumeAnalysis
	a.OverallScore = float64(w.Score)
	a.ATSScore = float64(w.ATS)
	a.ScoreBreakdown = types.ScoreBreakdown{
		Content:      float64(w.Breakdown.Content),
		Structure:    float64(w.Breakdown.Structure),
		ATS:          float64(w.Breakdown.ATS),
		Achievements: float64(w.Breakdown.Achievements),
	}
	return a
}
