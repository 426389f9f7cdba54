package types

import "encoding/json"

// BLSResponse mirrors the labor-statistics timeseries response.
type BLSResponse struct {
	Status  string     `json:"status"`
	Results BLSResults `json:"Results"`
}

// BLSResults wraps the returned series.
type BLSResults struct {
	Series []BLSSeries `json:"series"`
}

// BLSSeries is one timeseries.
type BLSSeries struct {
	SeriesID string         `json:"seriesID"`
	Data     []BLSDataPoint `json:"data"`
}

// BLSDataPoint is one observation of a series.
type BLSDataPoint struct {
	Year      string            `json:"year"`
	Period    string            `json:"period"`
	Value     string            `json:"value"`
	Footnotes []json.RawMessage `json:"footnotes"`
}

// ONetSummary is the occupational summary record.
type ONetSummary struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tasks       []string `json:"tasks"`
	Skills      []string `json:"skills"`
	Education   string   `json:"education"`
}

// AdzunaResponse mirrors the job-board search response.
type AdzunaResponse struct {
	Count   int             `json:"count"`
	Results []AdzunaPosting `json:"results"`
}

// AdzunaPosting is one search result.
type AdzunaPosting struct {
	ID                string      `json:"id"`
	Title             string      `json:"title"`
	Company           AdzunaLabel `json:"company"`
	Location          AdzunaLabel `json:"location"`
	Description       string      `json:"description"`
	SalaryMin         float64     `json:"salary_min"`
	SalaryMax         float64     `json:"salary_max"`
	SalaryIsPredicted string      `json:"salary_is_predicted"`
	Created           string      `json:"created"`
	RedirectURL       string      `json:"redirect_url"`
}

// AdzunaLabel is the {display_name} wrapper used for company and location.
type AdzunaLabel struct {
	DisplayName string `json:"display_name"`
}
