package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/career-assistant/internal/extraction"
	"github.com/jonathan/career-assistant/internal/types"
)

var fixedNow = time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)

func testConfig(baseURL string, policy extraction.Policy) *Config {
	return &Config{
		BLSURL:        baseURL + "/publicAPI/v2/timeseries/data/",
		BLSAPIKey:     "bls-test-key",
		ONetBaseURL:   baseURL,
		AdzunaBaseURL: baseURL,
		AdzunaAppID:   "app",
		AdzunaAPIKey:  "secret",
		Policy:        policy,
		Now:           func() time.Time { return fixedNow },
	}
}

func failingServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestBLS_RequestShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/publicAPI/v2/timeseries/data/", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []any{"CES0000000001"}, body["seriesid"])
		assert.Equal(t, "2020", body["startyear"])
		assert.Equal(t, "2024", body["endyear"])
		assert.Equal(t, "bls-test-key", body["registrationkey"])

		_, _ = w.Write([]byte(`{"status":"REQUEST_SUCCEEDED","Results":{"series":[{"seriesID":"CES0000000001","data":[{"year":"2024","period":"M02","value":"157000","footnotes":[{}]}]}]}}`))
	}))
	defer server.Close()

	gw := New(testConfig(server.URL, extraction.Lenient), server.Client())
	resp, err := gw.BLS.FetchSeries(context.Background(), "CES0000000001", "", "")
	require.NoError(t, err)
	require.Len(t, resp.Results.Series, 1)
	assert.Equal(t, "157000", resp.Results.Series[0].Data[0].Value)
}

func TestBLS_FallbackIsDeterministic(t *testing.T) {
	server := failingServer(t)
	gw := New(testConfig(server.URL, extraction.Lenient), server.Client())

	first, err := gw.BLS.FetchSeries(context.Background(), "OEUM003018000000000000005", "", "")
	require.NoError(t, err)
	second, err := gw.BLS.FetchSeries(context.Background(), "OEUM003018000000000000005", "", "")
	require.NoError(t, err)

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	assert.Equal(t, string(a), string(b))
	assert.Equal(t, "REQUEST_SUCCEEDED", first.Status)
	assert.Equal(t, "OEUM003018000000000000005", first.Results.Series[0].SeriesID)
	assert.Contains(t, string(a), `"footnotes":[]`)
}

func TestBLS_StrictReturnsError(t *testing.T) {
	server := failingServer(t)
	gw := New(testConfig(server.URL, extraction.Strict), server.Client())

	_, err := gw.BLS.FetchSeries(context.Background(), "X", "", "")
	require.Error(t, err)

	var upErr *UpstreamError
	require.True(t, errors.As(err, &upErr))
	assert.Equal(t, ServiceBLS, upErr.Service)
	assert.Equal(t, http.StatusServiceUnavailable, upErr.Status)
}

func TestONet_RequestShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ws/online/occupations/15-1252.00/summary", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "career-assistant/1.0 (contact@example.com)", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(`{"title":"Software Developers","description":"Research, design, and develop."}`))
	}))
	defer server.Close()

	gw := New(testConfig(server.URL, extraction.Lenient), server.Client())
	summary, err := gw.ONet.FetchSummary(context.Background(), "15-1252.00")
	require.NoError(t, err)
	assert.Equal(t, "Software Developers", summary.Title)
}

func TestONet_MalformedBodyFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html>maintenance</html>`))
	}))
	defer server.Close()

	gw := New(testConfig(server.URL, extraction.Lenient), server.Client())
	summary, err := gw.ONet.FetchSummary(context.Background(), "15-1252.00")
	require.NoError(t, err)
	assert.Equal(t, MockONet(), summary)
}

func TestAdzuna_RequestShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/api/jobs/gb/search/1", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "app", q.Get("app_id"))
		assert.Equal(t, "secret", q.Get("app_key"))
		assert.Equal(t, "10", q.Get("results_per_page"))
		assert.Equal(t, "go developer", q.Get("what"))
		_, _ = w.Write([]byte(`{"count":1,"results":[{"id":"42","title":"Go Developer","company":{"display_name":"Acme"},"location":{"display_name":"London"},"description":"<strong>Build</strong> APIs","salary_min":50000,"salary_max":70000,"created":"2025-03-12T10:00:00Z","redirect_url":"https://jobs.test/42"}]}`))
	}))
	defer server.Close()

	gw := New(testConfig(server.URL, extraction.Lenient), server.Client())
	resp, err := gw.Adzuna.Search(context.Background(), "go developer", "gb")
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)

	listings := ToJobListings(resp, fixedNow)
	require.Len(t, listings, 1)
	assert.Equal(t, types.JobListing{
		ID:          "42",
		Title:       "Go Developer",
		Company:     "Acme",
		Location:    "London",
		SalaryRange: "$50,000 - $70,000",
		PostedAt:    "2 days ago",
		Description: "Build APIs",
		Skills:      []string{},
		URL:         "https://jobs.test/42",
	}, listings[0])
}

func TestAdzuna_FallbackIsDeterministic(t *testing.T) {
	server := failingServer(t)
	gw := New(testConfig(server.URL, extraction.Lenient), server.Client())

	first, err := gw.Adzuna.Search(context.Background(), "software", "")
	require.NoError(t, err)
	second, err := gw.Adzuna.Search(context.Background(), "software", "")
	require.NoError(t, err)

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	assert.Equal(t, string(a), string(b))

	assert.Equal(t, 3, first.Count)
	require.Len(t, first.Results, 2)
	assert.Equal(t, "2025-03-14T00:00:00.000Z", first.Results[0].Created)
	assert.Equal(t, "2025-03-13T00:00:00.000Z", first.Results[1].Created)
}

func TestAdzuna_FallbackStableWithinDay(t *testing.T) {
	morning := MockAdzuna(time.Date(2025, 3, 14, 1, 0, 0, 0, time.UTC))
	evening := MockAdzuna(time.Date(2025, 3, 14, 23, 0, 0, 0, time.UTC))
	assert.Equal(t, morning, evening)
}

func TestToJobListings_Mock(t *testing.T) {
	listings := ToJobListings(MockAdzuna(fixedNow), fixedNow)
	require.Len(t, listings, 2)
	assert.Equal(t, "$120,000 - $180,000", listings[0].SalaryRange)
	assert.Equal(t, "Today", listings[0].PostedAt)
	assert.Equal(t, "1 day ago", listings[1].PostedAt)
	assert.Equal(t, "TechCorp Inc.", listings[0].Company)
}

func TestFormatSalaryRange(t *testing.T) {
	tests := []struct {
		lo, hi float64
		want   string
	}{
		{120000, 180000, "$120,000 - $180,000"},
		{95000, 95000, "$95,000"},
		{0, 80000, "Up to $80,000"},
		{1234567, 0, "$1,234,567"},
		{0, 0, "Not specified"},
		{999, 0, "$999"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatSalaryRange(tt.lo, tt.hi))
	}
}

func TestRelativeAge(t *testing.T) {
	tests := []struct {
		created string
		want    string
	}{
		{"2025-03-14T10:00:00Z", "Today"},
		{"2025-03-13T10:00:00Z", "1 day ago"},
		{"2025-03-10T10:00:00Z", "4 days ago"},
		{"2025-03-05T10:00:00Z", "1 week ago"},
		{"2025-02-20T10:00:00Z", "3 weeks ago"},
		{"2025-01-20T10:00:00Z", "1 month ago"},
		{"2024-09-14T10:00:00Z", "6 months ago"},
		{"yesterday-ish", "yesterday-ish"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RelativeAge(tt.created, fixedNow), tt.created)
	}
}

func TestProxy_ForwardsAndReturnsJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, ProxyUserAgent, r.Header.Get("User-Agent"))
		assert.Equal(t, "abc", r.Header.Get("X-Api-Key"))
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"q":"golang"}`, string(body))
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	gw := New(nil, server.Client())
	out, err := gw.Proxy.Forward(context.Background(), types.ProxyRequest{
		URL:     server.URL,
		Method:  "post",
		Headers: map[string]string{"X-Api-Key": "abc", "User-Agent": "spoofed"},
		Body:    json.RawMessage(`{"q":"golang"}`),
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(out))
}

func TestProxy_GetOmitsBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.Empty(t, body)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	gw := New(nil, server.Client())
	_, err := gw.Proxy.Forward(context.Background(), types.ProxyRequest{
		URL:  server.URL,
		Body: json.RawMessage(`"payload"`),
	})
	require.NoError(t, err)
}

func TestProxy_UpstreamStatus(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"upstream message", `{"message":"quota exceeded"}`, "quota exceeded"},
		{"no message", `{"detail":"nope"}`, "Request failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			gw := New(nil, server.Client())
			_, err := gw.Proxy.Forward(context.Background(), types.ProxyRequest{URL: server.URL})

			var upErr *UpstreamError
			require.ErrorAs(t, err, &upErr)
			assert.Equal(t, http.StatusTooManyRequests, upErr.Status)
			assert.Equal(t, tt.message, upErr.Message)
		})
	}
}

func TestProxy_NonJSONIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`plain text`))
	}))
	defer server.Close()

	gw := New(nil, server.Client())
	_, err := gw.Proxy.Forward(context.Background(), types.ProxyRequest{URL: server.URL})
	require.Error(t, err)
}

func TestCareerCatalog(t *testing.T) {
	recs := CareerCatalog()
	require.Len(t, recs, 3)
	assert.Equal(t, "15-1252.00", recs[0].ID)
	assert.Equal(t, "/api/bls?seriesId=OEUM003018000000000000005", recs[0].APIEndpoints.BLS)
	assert.Equal(t, "/api/onet?onetCode=15-1252.00", recs[0].APIEndpoints.ONet)
	assert.Equal(t, "/api/adzuna?query=Software+Developer", recs[0].APIEndpoints.Jobs)
	assert.Equal(t, types.DemandMedium, recs[2].DemandLevel)

	recs[0].Skills[0] = "Changed"
	assert.Equal(t, "JavaScript", CareerCatalog()[0].Skills[0])
}

func TestEnrich(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if strings.HasPrefix(r.URL.Path, "/ws/online/occupations/") {
			_, _ = w.Write([]byte(`{"title":"From ONet"}`))
			return
		}
		_, _ = w.Write([]byte(`{"status":"REQUEST_SUCCEEDED","Results":{"series":[{"seriesID":"S","data":[]}]}}`))
	}))
	defer server.Close()

	gw := New(testConfig(server.URL, extraction.Lenient), server.Client())
	recs := CareerCatalog()
	require.NoError(t, gw.Enrich(context.Background(), recs))

	assert.Equal(t, int32(6), calls.Load())
	for _, rec := range recs {
		require.NotNil(t, rec.Enrichment)
		assert.Equal(t, "From ONet", rec.Enrichment.Occupation.Title)
		assert.Equal(t, "S", rec.Enrichment.Wages.SeriesID)
	}
}

func TestEnrich_StrictFailure(t *testing.T) {
	server := failingServer(t)
	gw := New(testConfig(server.URL, extraction.Strict), server.Client())

	recs := CareerCatalog()
	err := gw.Enrich(context.Background(), recs)
	require.Error(t, err)
	for _, rec := range recs {
		assert.Nil(t, rec.Enrichment)
	}
}
