package ratelimit

import "strings"

// MatchEndpoint resolves the budget for a path and method. Exact path
// matches win; configs whose path ends in "/" act as prefix matches, so
// "/profiles/" covers "/profiles/{id}". The health probe is never
// metered. Returns nil when no config applies.
func MatchEndpoint(path, method string, configs []EndpointConfig) *EndpointConfig {
	if path == "/health" && method == "GET" {
		return &EndpointConfig{}
	}

	for i := range configs {
		if configs[i].Method == method && configs[i].Path == path {
			return &configs[i]
		}
	}

	for i := range configs {
		c := &configs[i]
		if c.Method == method && strings.HasSuffix(c.Path, "/") && strings.HasPrefix(path, c.Path) {
			return c
		}
	}

	return nil
}
