package extraction

import (
	"regexp"
	"strings"

	"github.com/jonathan/career-assistant/internal/types"
)

// Section names recognized in the enhanced résumé text.
const (
	SectionSummary    = "Professional summary"
	SectionExperience = "Work experience"
	SectionSkills     = "Skills"
	SectionEducation  = "Education"
	SectionProjects   = "Projects"
)

var knownSections = []string{
	SectionSummary,
	SectionExperience,
	SectionSkills,
	SectionEducation,
	SectionProjects,
}

// bareHeadingRe matches a line that is only a label ending in a colon.
var bareHeadingRe = regexp.MustCompile(`^[#*\s]*[A-Za-z][A-Za-z &/]{0,40}[*\s]*:[*\s]*$`)

var bulletPrefixRe = regexp.MustCompile(`^\s*(?:[-*•]|\d+[.)])\s*`)

var headingCache = map[string]*regexp.Regexp{}

func init() {
	for _, name := range knownSections {
		headingCache[name] = headingPattern(name)
	}
}

// headingPattern matches "<name>:" at the start of a line, tolerating markdown
// emphasis, heading marks and a short qualifier such as "Updated".
func headingPattern(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?im)^[#*\s]*(?:[A-Za-z]+ )?` + regexp.QuoteMeta(name) + `[*\s]*:[*]*`)
}

// sectionBody returns the text under heading name, or false when absent.
func sectionBody(text, name string) (string, bool) {
	re, ok := headingCache[name]
	if !ok {
		re = headingPattern(name)
	}
	loc := re.FindStringIndex(text)
	if loc == nil {
		return "", false
	}

	rest := text[loc[1]:]
	lines := strings.Split(rest, "\n")
	var body []string
	for i, line := range lines {
		if i > 0 && isHeadingLine(line) {
			break
		}
		body = append(body, line)
	}
	return strings.TrimSpace(strings.Join(body, "\n")), true
}

func isHeadingLine(line string) bool {
	for _, re := range headingCache {
		if loc := re.FindStringIndex(line); loc != nil && loc[0] == 0 {
			return true
		}
	}
	return bareHeadingRe.MatchString(line)
}

// ExtractSection parses the entries under heading name. Each non-empty line
// becomes an entry; text before the first colon is the entry name and the rest
// its description. A missing section yields an empty list.
func ExtractSection(text, name string) []types.Entry {
	body, ok := sectionBody(text, name)
	if !ok || body == "" {
		return []types.Entry{}
	}

	entries := []types.Entry{}
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(bulletPrefixRe.ReplaceAllString(line, ""))
		line = strings.Trim(line, "*")
		if line == "" {
			continue
		}
		entryName, desc, found := strings.Cut(line, ":")
		if !found {
			entries = append(entries, types.Entry{Name: strings.TrimSpace(line)})
			continue
		}
		entries = append(entries, types.Entry{
			Name:        strings.TrimSpace(strings.Trim(entryName, "* ")),
			Description: strings.TrimSpace(strings.Trim(desc, "* ")),
		})
	}
	return entries
}

// ExtractSkills returns one skill per line under the Skills heading. Bullet
// marks and stray trailing commas are dropped. Commas inside a line are part
// of the skill, as in "Project management (Agile, Scrum)".
func ExtractSkills(text string) []string {
	body, ok := sectionBody(text, SectionSkills)
	if !ok {
		return []string{}
	}

	skills := []string{}
	for _, line := range strings.Split(body, "\n") {
		if skill := skillFromLine(line); skill != "" {
			skills = append(skills, skill)
		}
	}
	return skills
}

func skillFromLine(line string) string {
	line = bulletPrefixRe.ReplaceAllString(line, "")
	line = strings.Trim(line, "*• ,")
	return strings.Join(strings.Fields(line), " ")
}

// ExtractSummary returns the professional summary text, or "" when absent.
func ExtractSummary(text string) string {
	body, _ := sectionBody(text, SectionSummary)
	return body
}
