package httpmetrics

import "strings"

// UnmatchedRoute labels every path outside the route table.
const UnmatchedRoute = "{unmatched}"

var staticRoutes = map[string]struct{}{
	"/":        {},
	"/health":  {},
	"/ready":   {},
	"/metrics": {},
	"/users":   {},
}

// NormalizePath maps a request path onto its route pattern so metric labels stay
// bounded. Any single segment under /users/ becomes {id}, valid or not.
func NormalizePath(path string) string {
	if path == "" {
		return "/"
	}
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}

	if _, ok := staticRoutes[path]; ok {
		return path
	}

	if rest, ok := strings.CutPrefix(path, "/users/"); ok && rest != "" && !strings.Contains(rest, "/") {
		return "/users/{id}"
	}

	return UnmatchedRoute
}
