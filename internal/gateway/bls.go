package gateway

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/jonathan/career-assistant/internal/fetch"
	"github.com/jonathan/career-assistant/internal/types"
)

// ServiceBLS names the labor statistics upstream in errors and logs.
const ServiceBLS = "BLS"

// BLSClient queries labor statistics timeseries.
type BLSClient struct {
	config *Config
	doer   fetch.Doer
}

type blsRequest struct {
	SeriesID        []string `json:"seriesid"`
	StartYear       string   `json:"startyear"`
	EndYear         string   `json:"endyear"`
	RegistrationKey string   `json:"registrationkey"`
}

// FetchSeries returns one timeseries between startYear and endYear. Empty
// years default to 2020 and 2024.
func (c *BLSClient) FetchSeries(ctx context.Context, seriesID, startYear, endYear string) (*types.BLSResponse, error) {
	if startYear == "" {
		startYear = DefaultStartYear
	}
	if endYear == "" {
		endYear = DefaultEndYear
	}

	body, err := json.Marshal(blsRequest{
		SeriesID:        []string{seriesID},
		StartYear:       startYear,
		EndYear:         endYear,
		RegistrationKey: c.config.BLSAPIKey,
	})
	if err != nil {
		return nil, err
	}

	var out types.BLSResponse
	resp, err := fetch.JSON(ctx, c.doer, fetch.Request{
		Method: http.MethodPost,
		URL:    c.config.BLSURL,
		Body:   body,
	}, &out)
	if err != nil {
		return degrade(c.config.Policy, ServiceBLS, upstreamError(ServiceBLS, resp, err), MockBLS(seriesID))
	}
	return &out, nil
}

// MockBLS returns the fixed timeseries used when the upstream is unavailable.
func MockBLS(seriesID string) *types.BLSResponse {
	return &types.BLSResponse{
		Status: "REQUEST_SUCCEEDED",
		Results: types.BLSResults{
			Series: []types.BLSSeries{
				{
					SeriesID: seriesID,
					Data: []types.BLSDataPoint{
						{Year: "2024", Period: "M01", Value: "85000", Footnotes: []json.RawMessage{}},
						{Year: "2023", Period: "M01", Value: "82000", Footnotes: []json.RawMessage{}},
					},
				},
			},
		},
	}
}
