// Package rewrite maps upstream host references embedded in proxied
// JSON payloads to this service's externally visible host, so that
// resource links keep resolving through the proxy.
package rewrite

import "strings"

// Rewriter performs literal substring replacement between the upstream
// host and the external host. It deliberately does no URL parsing: any
// occurrence of the host string is replaced, wherever it appears in the
// payload. Fast, and an accepted approximation.
type Rewriter struct {
	upstream string
	external string
}

// New creates a Rewriter. upstreamHost is the proxied API's base URL,
// externalHost is this service's scheme+host+port as seen by clients.
func New(upstreamHost, externalHost string) *Rewriter {
	return &Rewriter{
		upstream: upstreamHost,
		external: externalHost,
	}
}

// ToExternal replaces every upstream host reference with the external
// host. Applied to every payload destined for a client or the cache.
func (rw *Rewriter) ToExternal(b []byte) []byte {
	return []byte(strings.ReplaceAll(string(b), rw.upstream, rw.external))
}

// ToUpstream maps an externally rewritten URL back to its upstream
// form. Cached pages store external links, so cursors read from cache
// must be converted before they are fetched again.
func (rw *Rewriter) ToUpstream(s string) string {
	return strings.ReplaceAll(s, rw.external, rw.upstream)
}
