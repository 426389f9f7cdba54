// Package fetch provides outbound HTTP calls and HTML-to-text processing.
// This package centralizes request plumbing used by the gateway clients.
package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 60 * time.Second

// DefaultUserAgent is the user agent string for outbound requests.
const DefaultUserAgent = "career-assistant/1.0 (contact@example.com)"

// maxBodyBytes bounds how much of an upstream body is read.
const maxBodyBytes = 10 << 20

// secretParams are query parameters whose values never appear in errors or logs.
var secretParams = []string{"key", "app_key", "app_id", "registrationkey", "api_key"}

// Doer executes HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Request describes one outbound call.
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    []byte
}

// Response holds the raw upstream reply.
type Response struct {
	URL         string
	StatusCode  int
	ContentType string
	Body        []byte
}

// OK reports whether the upstream answered with a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Error represents an error during an outbound call.
type Error struct {
	URL        string
	StatusCode int
	Message    string
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures the default client.
type Options struct {
	Timeout   time.Duration
	UserAgent string
}

// DefaultOptions returns sensible defaults for fetching.
func DefaultOptions() *Options {
	return &Options{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
	}
}

// NewClient returns an *http.Client configured from opts.
func NewClient(opts *Options) *http.Client {
	if opts == nil {
		opts = DefaultOptions()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// Do sends req through client and reads the whole body. A non-2xx status is
// not an error here; callers decide what it means.
func Do(ctx context.Context, client Doer, req Request) (*Response, error) {
	safeURL := RedactURL(req.URL)

	parsedURL, err := url.Parse(req.URL)
	if err != nil || parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, &Error{URL: safeURL, Message: "invalid URL", Cause: redactErr(err)}
	}

	method := strings.ToUpper(req.Method)
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if len(req.Body) > 0 && method != http.MethodGet && method != http.MethodHead {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, body)
	if err != nil {
		return nil, &Error{URL: safeURL, Message: "failed to create request", Cause: redactErr(err)}
	}

	httpReq.Header.Set("User-Agent", DefaultUserAgent)
	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, &Error{URL: safeURL, Message: "HTTP request failed", Cause: redactErr(err)}
	}
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &Error{URL: safeURL, StatusCode: resp.StatusCode, Message: "failed to read response body", Cause: err}
	}

	return &Response{
		URL:         safeURL,
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        bodyBytes,
	}, nil
}

// JSON sends req and decodes a 2xx JSON reply into out. Non-2xx statuses and
// undecodable bodies are returned as *Error with the raw response.
func JSON(ctx context.Context, client Doer, req Request, out any) (*Response, error) {
	if req.Headers == nil {
		req.Headers = map[string]string{}
	}
	if _, ok := req.Headers["Accept"]; !ok {
		req.Headers["Accept"] = "application/json"
	}
	if len(req.Body) > 0 {
		if _, ok := req.Headers["Content-Type"]; !ok {
			req.Headers["Content-Type"] = "application/json"
		}
	}

	resp, err := Do(ctx, client, req)
	if err != nil {
		return nil, err
	}

	if !resp.OK() {
		return resp, &Error{
			URL:        resp.URL,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("HTTP status %d", resp.StatusCode),
		}
	}

	if out != nil {
		if err := json.Unmarshal(resp.Body, out); err != nil {
			return resp, &Error{
				URL:        resp.URL,
				StatusCode: resp.StatusCode,
				Message:    "failed to decode JSON response",
				Cause:      err,
			}
		}
	}
	return resp, nil
}

// HTMLToText parses an HTML fragment or page and returns its visible text with
// whitespace normalized. Script and style content is dropped.
func HTMLToText(html string) string {
	if !strings.ContainsAny(html, "<&") {
		return cleanWhitespace(html)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return cleanWhitespace(html)
	}
	doc.Find("script, style, noscript").Remove()

	// Block elements end a line so list items don't run together
	doc.Find("br, p, li, div, h1, h2, h3, h4, h5, h6, tr").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	return cleanWhitespace(doc.Text())
}

// RedactURL hides the values of credential query parameters.
func RedactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.RawQuery == "" {
		return raw
	}
	q := u.Query()
	changed := false
	for _, name := range secretParams {
		if q.Has(name) {
			q.Set(name, "REDACTED")
			changed = true
		}
	}
	if !changed {
		return raw
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// redactErr strips the request URL out of *url.Error values, which embed it
// with credentials intact.
func redactErr(err error) error {
	if urlErr, ok := err.(*url.Error); ok {
		return &url.Error{Op: urlErr.Op, URL: RedactURL(urlErr.URL), Err: urlErr.Err}
	}
	return err
}

// cleanWhitespace trims every line, collapses inner runs of spaces and drops
// blank lines.
func cleanWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	var cleaned []string
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
