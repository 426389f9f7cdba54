// Package gateway talks to the labor-market data services and the generic
// outbound proxy. Every client shares one HTTP doer and a fallback policy:
// under the lenient policy a failed call is logged and replaced by a fixed
// mock payload shaped like a real success, under the strict policy the
// failure is returned as *UpstreamError.
package gateway

import (
	"fmt"
	"log"
	"time"

	"github.com/jonathan/career-assistant/internal/extraction"
	"github.com/jonathan/career-assistant/internal/fetch"
)

// Default upstream endpoints and placeholder credentials.
const (
	DefaultBLSURL       = "https://api.bls.gov/publicAPI/v2/timeseries/data/"
	DefaultONetBaseURL  = "https://services.onetcenter.org"
	DefaultAdzunaBase   = "https://api.adzuna.com"
	DefaultAdzunaAppID  = "demo-app-id"
	DefaultAdzunaAPIKey = "demo-api-key"
	DefaultCountry      = "us"
	DefaultStartYear    = "2020"
	DefaultEndYear      = "2024"
)

// Config holds upstream locations and credentials.
type Config struct {
	BLSURL        string
	BLSAPIKey     string
	ONetBaseURL   string
	AdzunaBaseURL string
	AdzunaAppID   string
	AdzunaAPIKey  string
	Policy        extraction.Policy
	// Now stamps mock job postings. Defaults to time.Now.
	Now func() time.Time
}

// DefaultConfig returns the public endpoints with placeholder credentials.
func DefaultConfig() *Config {
	return &Config{
		BLSURL:        DefaultBLSURL,
		ONetBaseURL:   DefaultONetBaseURL,
		AdzunaBaseURL: DefaultAdzunaBase,
		AdzunaAppID:   DefaultAdzunaAppID,
		AdzunaAPIKey:  DefaultAdzunaAPIKey,
		Policy:        extraction.Lenient,
		Now:           time.Now,
	}
}

// withDefaults fills empty fields from DefaultConfig.
func (c *Config) withDefaults() *Config {
	defaults := DefaultConfig()
	if c == nil {
		return defaults
	}
	out := *c
	if out.BLSURL == "" {
		out.BLSURL = defaults.BLSURL
	}
	if out.ONetBaseURL == "" {
		out.ONetBaseURL = defaults.ONetBaseURL
	}
	if out.AdzunaBaseURL == "" {
		out.AdzunaBaseURL = defaults.AdzunaBaseURL
	}
	if out.AdzunaAppID == "" {
		out.AdzunaAppID = defaults.AdzunaAppID
	}
	if out.AdzunaAPIKey == "" {
		out.AdzunaAPIKey = defaults.AdzunaAPIKey
	}
	if out.Policy == "" {
		out.Policy = defaults.Policy
	}
	if out.Now == nil {
		out.Now = defaults.Now
	}
	return &out
}

// Gateway bundles the upstream clients.
type Gateway struct {
	BLS    *BLSClient
	ONet   *ONetClient
	Adzuna *AdzunaClient
	Proxy  *Proxy
}

// New creates all clients over one doer. A nil doer uses fetch.NewClient defaults.
func New(cfg *Config, doer fetch.Doer) *Gateway {
	cfg = cfg.withDefaults()
	if doer == nil {
		doer = fetch.NewClient(nil)
	}
	return &Gateway{
		BLS:    &BLSClient{config: cfg, doer: doer},
		ONet:   &ONetClient{config: cfg, doer: doer},
		Adzuna: &AdzunaClient{config: cfg, doer: doer},
		Proxy:  &Proxy{doer: doer},
	}
}

// UpstreamError reports a failed upstream call.
type UpstreamError struct {
	Service string
	// Status is the upstream HTTP status, or 0 for transport failures.
	Status  int
	Message string
	Cause   error
}

func (e *UpstreamError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s upstream error: %s: %v", e.Service, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s upstream error: %s", e.Service, e.Message)
}

func (e *UpstreamError) Unwrap() error {
	return e.Cause
}

// upstreamError converts a fetch failure into an *UpstreamError.
func upstreamError(service string, resp *fetch.Response, err error) *UpstreamError {
	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	return &UpstreamError{
		Service: service,
		Status:  status,
		Message: service + " API request failed",
		Cause:   err,
	}
}

// degrade applies the policy to a failed call.
func degrade[T any](policy extraction.Policy, service string, err *UpstreamError, mock T) (T, error) {
	if policy.IsStrict() {
		var zero T
		return zero, err
	}
	log.Printf("[gateway] %s request failed, using mock data: %v", service, err)
	return mock, nil
}
