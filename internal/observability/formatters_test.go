package observability

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/jonathan/career-assistant/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestPrintCareers(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	careers := []types.CareerRecommendation{
		{
			Title:         "Software Developer",
			MatchPercent:  94,
			SalaryRange:   "$85,000 - $150,000",
			GrowthOutlook: "+22%",
			DemandLevel:   types.DemandHigh,
			Skills:        []string{"Go", "SQL"},
		},
		{Title: "Data Scientist", MatchPercent: 88},
	}

	p.PrintCareers(careers)
	output := buf.String()

	assert.Contains(t, output, "CAREER RECOMMENDATIONS")
	assert.Contains(t, output, "#1  Software Developer (94% match)")
	assert.Contains(t, output, "$85,000 - $150,000")
	assert.Contains(t, output, "Go, SQL")
	assert.Contains(t, output, "#2  Data Scientist")
}

func TestPrintCareers_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintCareers(nil)

	assert.Empty(t, buf.String())
}

func TestPrintCourses_TruncatesList(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	courses := make([]types.CourseRecommendation, 7)
	for i := range courses {
		courses[i] = types.CourseRecommendation{Title: "Course", Provider: "Coursera", Level: "Beginner"}
	}

	p.PrintCourses(courses)
	output := buf.String()

	assert.Contains(t, output, "SKILL ROADMAP")
	assert.Contains(t, output, "5. Course")
	assert.NotContains(t, output, "6. Course")
	assert.Contains(t, output, "... and 2 more courses")
}

func TestPrintJobs(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintJobs([]types.JobListing{
		{Title: "Backend Engineer", Company: "Acme", Location: "Remote", SalaryRange: "$120k"},
	})
	output := buf.String()

	assert.Contains(t, output, "JOB LISTINGS")
	assert.Contains(t, output, "Backend Engineer")
	assert.Contains(t, output, "Acme, Remote")
	assert.Contains(t, output, "$120k")
}

func TestPrintAnalysis(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintAnalysis(&types.ResumeAnalysis{
		OverallScore:         72,
		ATSScore:             65,
		Strengths:            []string{"Clear structure"},
		Improvements:         []string{"Add metrics", "Shorten summary", "Use action verbs", "Remove photo"},
		KeywordAnalysis:      types.KeywordAnalysis{Missing: []string{"Kubernetes"}},
		GeneratedDocumentRef: "data:application/pdf;base64,AAAA",
	})
	output := buf.String()

	assert.Contains(t, output, "RESUME ANALYSIS")
	assert.Contains(t, output, "Overall:  72/100")
	assert.Contains(t, output, "ATS:      65/100")
	assert.Contains(t, output, "Clear structure")
	assert.Contains(t, output, "... and 1 more")
	assert.Contains(t, output, "Missing keywords: Kubernetes")
	assert.Contains(t, output, "Improved résumé: available")
}

func TestPrintAnalysis_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintAnalysis(nil)

	assert.Empty(t, buf.String())
}

func TestPrintMessage(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	msg := types.NewMessage("m1", types.RoleAssistant, "Here are some options", time.Now(), types.Payload{
		Jobs: []types.JobListing{{Title: "SRE", Company: "Initech", Location: "Austin"}},
	})

	p.PrintMessage(msg)
	output := buf.String()

	assert.True(t, strings.HasPrefix(output, "assistant: Here are some options\n"))
	assert.Contains(t, output, "JOB LISTINGS")
	assert.Contains(t, output, "Initech, Austin")
}

func TestPrintMessage_Plain(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintMessage(types.NewMessage("m1", types.RoleUser, "hello", time.Now(), types.Payload{}))

	assert.Equal(t, "user: hello\n", buf.String())
}

func TestPrintBox_LongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintFeatures([]types.FeatureOption{{
		Title:       "Career Discovery",
		Description: "A very long description that keeps going well past the width of the box so it must be cut",
	}})
	output := buf.String()

	assert.True(t, strings.Contains(output, "┌"))
	assert.True(t, strings.Contains(output, "└"))
	assert.Contains(t, output, "...")
	for _, line := range strings.Split(strings.TrimSuffix(output, "\n"), "\n") {
		assert.LessOrEqual(t, len([]rune(line)), boxWidth)
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "résu...", truncate("résumé writing", 7))
}
