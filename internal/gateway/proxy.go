package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/jonathan/career-assistant/internal/fetch"
	"github.com/jonathan/career-assistant/internal/types"
)

// ServiceProxy names the generic proxy in errors and logs.
const ServiceProxy = "proxy"

// ProxyUserAgent identifies proxied requests to the target.
const ProxyUserAgent = "AI-Career-Assistant/1.0"

// Proxy forwards arbitrary JSON calls. It never substitutes mock data.
type Proxy struct {
	doer fetch.Doer
}

// Forward sends req and returns the upstream JSON verbatim. A non-2xx status
// becomes *UpstreamError carrying that status and the upstream "message" field.
func (p *Proxy) Forward(ctx context.Context, req types.ProxyRequest) (json.RawMessage, error) {
	method := strings.ToUpper(req.Method)
	if method == "" {
		method = http.MethodGet
	}

	headers := make(map[string]string, len(req.Headers)+1)
	for k, v := range req.Headers {
		headers[k] = v
	}
	headers["User-Agent"] = ProxyUserAgent

	resp, err := fetch.Do(ctx, p.doer, fetch.Request{
		Method:  method,
		URL:     req.URL,
		Headers: headers,
		Body:    proxyBody(req.Body),
	})
	if err != nil {
		return nil, &UpstreamError{Service: ServiceProxy, Message: "request failed", Cause: err}
	}

	if !json.Valid(resp.Body) {
		return nil, &UpstreamError{Service: ServiceProxy, Status: resp.StatusCode, Message: "response is not JSON"}
	}

	if !resp.OK() {
		var payload struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(resp.Body, &payload)
		message := payload.Message
		if message == "" {
			message = "Request failed"
		}
		return nil, &UpstreamError{Service: ServiceProxy, Status: resp.StatusCode, Message: message}
	}

	return json.RawMessage(resp.Body), nil
}

// proxyBody sends a JSON string body as its contents and anything else as JSON.
func proxyBody(raw json.RawMessage) []byte {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return []byte(s)
	}
	return raw
}
