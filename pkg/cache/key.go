package cache

import (
	"net/http"
	"strings"
)

// RequestKey derives the canonical cache key for an inbound request:
// its path including the raw query string. Two requests normalizing to
// the same key address the same cached entity.
func RequestKey(r *http.Request) string {
	return r.URL.RequestURI()
}

// CursorKey derives the cache key for an upstream URL by stripping the
// upstream host prefix, so that page cursors and inbound request paths
// share one key namespace.
func CursorKey(url, upstreamHost string) string {
	return strings.TrimPrefix(url, upstreamHost)
}
