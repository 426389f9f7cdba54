package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/career-assistant/internal/fetch"
	"github.com/jonathan/career-assistant/internal/types"
)

// ServiceAdzuna names the job-board upstream in errors and logs.
const ServiceAdzuna = "Adzuna"

// ResultsPerPage is the page size requested from the job board.
const ResultsPerPage = 10

// isoMillis matches the timestamp layout the job board uses.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// AdzunaClient searches job postings.
type AdzunaClient struct {
	config *Config
	doer   fetch.Doer
}

// Search returns the first page of postings matching query in country.
// An empty country selects "us".
func (c *AdzunaClient) Search(ctx context.Context, query, country string) (*types.AdzunaResponse, error) {
	if country == "" {
		country = DefaultCountry
	}

	params := url.Values{}
	params.Set("app_id", c.config.AdzunaAppID)
	params.Set("app_key", c.config.AdzunaAPIKey)
	params.Set("results_per_page", strconv.Itoa(ResultsPerPage))
	params.Set("what", query)

	endpoint := fmt.Sprintf("%s/v1/api/jobs/%s/search/1?%s",
		strings.TrimRight(c.config.AdzunaBaseURL, "/"), url.PathEscape(country), params.Encode())

	var out types.AdzunaResponse
	resp, err := fetch.JSON(ctx, c.doer, fetch.Request{Method: http.MethodGet, URL: endpoint}, &out)
	if err != nil {
		return degrade(c.config.Policy, ServiceAdzuna, upstreamError(ServiceAdzuna, resp, err), MockAdzuna(c.config.Now()))
	}
	return &out, nil
}

// MockAdzuna returns the fixed search result used when the upstream is
// unavailable. Timestamps are derived from now truncated to the UTC day so the
// payload is stable within a day.
func MockAdzuna(now time.Time) *types.AdzunaResponse {
	day := now.UTC().Truncate(24 * time.Hour)
	return &types.AdzunaResponse{
		Count: 3,
		Results: []types.AdzunaPosting{
			{
				ID:                "1",
				Title:             "Senior Software Engineer",
				Company:           types.AdzunaLabel{DisplayName: "TechCorp Inc."},
				Location:          types.AdzunaLabel{DisplayName: "San Francisco, CA"},
				Description:       "Join our team to build scalable web applications using modern technologies...",
				SalaryMin:         120000,
				SalaryMax:         180000,
				SalaryIsPredicted: "0",
				Created:           day.Format(isoMillis),
				RedirectURL:       "https://example.com/job/1",
			},
			{
				ID:                "2",
				Title:             "Full Stack Developer",
				Company:           types.AdzunaLabel{DisplayName: "StartupXYZ"},
				Location:          types.AdzunaLabel{DisplayName: "Remote"},
				Description:       "Work on exciting projects with cutting-edge technology stack...",
				SalaryMin:         90000,
				SalaryMax:         130000,
				SalaryIsPredicted: "0",
				Created:           day.Add(-24 * time.Hour).Format(isoMillis),
				RedirectURL:       "https://example.com/job/2",
			},
		},
	}
}

// ToJobListings converts search results into chat job listings. Descriptions
// are reduced to plain text and posting times to a relative age against now.
func ToJobListings(resp *types.AdzunaResponse, now time.Time) []types.JobListing {
	if resp == nil {
		return []types.JobListing{}
	}
	out := make([]types.JobListing, 0, len(resp.Results))
	for i, p := range resp.Results {
		id := p.ID
		if id == "" {
			id = strconv.Itoa(i + 1)
		}
		out = append(out, types.JobListing{
			ID:          id,
			Title:       strings.TrimSpace(fetch.HTMLToText(p.Title)),
			Company:     p.Company.DisplayName,
			Location:    p.Location.DisplayName,
			SalaryRange: FormatSalaryRange(p.SalaryMin, p.SalaryMax),
			PostedAt:    RelativeAge(p.Created, now),
			Description: fetch.HTMLToText(p.Description),
			Skills:      []string{},
			URL:         p.RedirectURL,
		})
	}
	return out
}

// FormatSalaryRange renders a salary span such as "$120,000 - $180,000".
func FormatSalaryRange(lo, hi float64) string {
	switch {
	case lo > 0 && hi > 0 && lo != hi:
		return formatDollars(lo) + " - " + formatDollars(hi)
	case lo > 0:
		return formatDollars(lo)
	case hi > 0:
		return "Up to " + formatDollars(hi)
	default:
		return "Not specified"
	}
}

func formatDollars(v float64) string {
	digits := strconv.FormatInt(int64(v+0.5), 10)
	var b strings.Builder
	b.WriteByte('$')
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	return b.String()
}

// RelativeAge renders how long ago created was, e.g. "2 days ago". Unparseable
// timestamps are returned unchanged.
func RelativeAge(created string, now time.Time) string {
	t, err := time.Parse(time.RFC3339, created)
	if err != nil {
		return created
	}

	days := int(now.Sub(t).Hours() / 24)
	switch {
	case days < 1:
		return "Today"
	case days == 1:
		return "1 day ago"
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	case days < 14:
		return "1 week ago"
	case days < 30:
		return fmt.Sprintf("%d weeks ago", days/7)
	case days < 60:
		return "1 month ago"
	default:
		return fmt.Sprintf("%d months ago", days/30)
	}
}
