package ratelimit

import (
	"net/http"
	"strings"
)

// MatchEndpoint returns the configuration governing method and path, or nil
// when the global default applies. An exact path wins over a prefix route
// (a path ending in "/"), and among prefix routes the longest one wins, so
// "/sessions/" covers "/sessions/{id}/messages".
//
// Health checks and CORS preflights get an unlimited configuration.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	if method == http.MethodOptions || (method == http.MethodGet && path == "/health") {
		return &EndpointConfig{}
	}

	var prefix *EndpointConfig
	for i := range configs {
		config := &configs[i]
		if config.Method != method {
			continue
		}
		if config.Path == path {
			return config
		}
		if strings.HasSuffix(config.Path, "/") && strings.HasPrefix(path, config.Path) {
			if prefix == nil || len(config.Path) > len(prefix.Path) {
				prefix = config
			}
		}
	}
	return prefix
}
