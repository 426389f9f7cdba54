package rendering

import (
	"html/template"
	"sort"
	"strings"

	"github.com/jonathan/career-assistant/internal/types"
)

// Placeholders used when the document leaves a field empty.
const (
	defaultName        = "YOUR NAME"
	defaultContactLine = "your.email@example.com | (123) 456-7890 | linkedin.com/in/yourprofile"
	defaultSummary     = "Experienced professional with skills in..."
	defaultCompany     = "Company Name"
	defaultDates       = "Month 20XX - Present"
)

// HTMLData is the view model of the HTML résumé.
type HTMLData struct {
	Name    string
	Contact string
	Summary string
	Jobs    []HTMLJob
	Skills  []string
}

// HTMLJob is one work experience block.
type HTMLJob struct {
	Title   string
	Company string
	Dates   string
	Bullets []string
}

var resumeTemplate = template.Must(template.New("resume").Parse(`<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8">
    <style>
      body { font-family: Arial, sans-serif; line-height: 1.6; margin: 0; padding: 20px; }
      .resume { max-width: 800px; margin: 0 auto; }
      .header { text-align: center; margin-bottom: 30px; }
      .name { font-size: 24px; font-weight: bold; margin-bottom: 5px; }
      .contact { margin-bottom: 20px; }
      .section { margin-bottom: 20px; }
      .section-title { font-size: 18px; font-weight: bold; border-bottom: 2px solid #333; padding-bottom: 5px; margin-bottom: 10px; }
      .job { margin-bottom: 15px; }
      .job-title { font-weight: bold; }
      .company { font-style: italic; }
      .date { color: #666; }
      .skills { display: flex; flex-wrap: wrap; gap: 5px; }
      .skill { background: #f0f0f0; padding: 3px 8px; border-radius: 3px; }
    </style>
  </head>
  <body>
    <div class="resume">
      <div class="header">
        <div class="name">{{.Name}}</div>
        <div class="contact">{{.Contact}}</div>
      </div>
      <div class="section">
        <div class="section-title">Professional Summary</div>
        <p>{{.Summary}}</p>
      </div>
      <div class="section">
        <div class="section-title">Work Experience</div>
        {{- range .Jobs}}
        <div class="job">
          <div class="job-title">{{.Title}}</div>
          <div class="company">{{.Company}}</div>
          <div class="date">{{.Dates}}</div>
          <ul>
            {{- range .Bullets}}
            <li>{{.}}</li>
            {{- end}}
          </ul>
        </div>
        {{- end}}
      </div>
      <div class="section">
        <div class="section-title">Skills</div>
        <div class="skills">
          {{- range .Skills}}
          <div class="skill">{{.}}</div>
          {{- end}}
        </div>
      </div>
    </div>
  </body>
</html>
`))

// NewHTMLData builds the view model from a document, filling gaps from the
// analysis. Either argument may be nil.
func NewHTMLData(doc *types.ResumeDocument, analysis *types.ResumeAnalysis) HTMLData {
	data := HTMLData{
		Name:    defaultName,
		Contact: defaultContactLine,
		Summary: defaultSummary,
	}
	if doc != nil {
		if doc.Name != "" {
			data.Name = doc.Name
		}
		if line := contactLine(doc.Contact); line != "" {
			data.Contact = line
		}
		if doc.Summary != "" {
			data.Summary = doc.Summary
		}
		for _, e := range doc.Experience {
			job := HTMLJob{Title: e.Name, Company: defaultCompany, Dates: defaultDates}
			if e.Description != "" {
				job.Bullets = []string{e.Description}
			}
			data.Jobs = append(data.Jobs, job)
		}
		data.Skills = flattenSkills(doc.Skills)
	}

	if analysis == nil {
		return data
	}
	if data.Summary == defaultSummary && len(analysis.Improvements) > 0 {
		data.Summary = "Experienced professional"
		if len(analysis.ImprovedSections) > 0 && analysis.ImprovedSections[0].Improved != "" {
			data.Summary = analysis.ImprovedSections[0].Improved
		}
	}
	if len(data.Jobs) == 0 {
		for _, s := range analysis.ImprovedSections {
			data.Jobs = append(data.Jobs, HTMLJob{
				Title:   firstWords(s.Improved, 3),
				Company: defaultCompany,
				Dates:   defaultDates,
				Bullets: []string{s.Improved},
			})
		}
	}
	if len(data.Skills) == 0 {
		data.Skills = append([]string(nil), analysis.KeywordAnalysis.Recommended...)
	}
	return data
}

// RenderHTML renders the résumé page. All values are HTML-escaped.
func RenderHTML(data HTMLData) (string, error) {
	var sb strings.Builder
	if err := resumeTemplate.Execute(&sb, data); err != nil {
		return "", &RenderError{Stage: StageTemplate, Message: "failed to execute resume template", Cause: err}
	}
	return sb.String(), nil
}

func contactLine(c types.Contact) string {
	var parts []string
	for _, p := range []string{c.Email, c.Phone, c.Location} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	parts = append(parts, c.Links...)
	return strings.Join(parts, " | ")
}

// flattenSkills lists skills group by group in sorted group order.
func flattenSkills(groups map[string][]string) []string {
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []string
	for _, name := range names {
		out = append(out, groups[name]...)
	}
	return out
}

func firstWords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, " ")
}
