package gateway

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/jonathan/career-assistant/internal/fetch"
	"github.com/jonathan/career-assistant/internal/types"
)

// ServiceONet names the occupational data upstream in errors and logs.
const ServiceONet = "O*NET"

// ONetClient reads occupation summaries.
type ONetClient struct {
	config *Config
	doer   fetch.Doer
}

// FetchSummary returns the summary for an occupation code such as 15-1252.00.
func (c *ONetClient) FetchSummary(ctx context.Context, code string) (*types.ONetSummary, error) {
	endpoint := strings.TrimRight(c.config.ONetBaseURL, "/") +
		"/ws/online/occupations/" + url.PathEscape(code) + "/summary"

	var out types.ONetSummary
	resp, err := fetch.JSON(ctx, c.doer, fetch.Request{
		Method: http.MethodGet,
		URL:    endpoint,
		Headers: map[string]string{
			"Accept":     "application/json",
			"User-Agent": fetch.DefaultUserAgent,
		},
	}, &out)
	if err != nil {
		return degrade(c.config.Policy, ServiceONet, upstreamError(ServiceONet, resp, err), MockONet())
	}
	return &out, nil
}

// MockONet returns the fixed occupation summary used when the upstream is unavailable.
func MockONet() *types.ONetSummary {
	return &types.ONetSummary{
		Title:       "Software Developer",
		Description: "Develop, create, and modify general computer applications software or specialized utility programs.",
		Tasks: []string{
			"Analyze user needs and software requirements",
			"Design, test and develop software to meet those needs",
			"Modify existing software to correct errors",
		},
		Skills:    []string{"Programming", "Problem Solving", "Critical Thinking"},
		Education: "Bachelor's degree in Computer Science or related field",
	}
}
