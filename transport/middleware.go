// Package transport builds the outbound HTTP pipeline shared by login and document retrieval:
// composable http.RoundTripper middleware around a base transport.
package transport

import "net/http"

// Middleware wraps a RoundTripper with extra behaviour.
type Middleware func(http.RoundTripper) http.RoundTripper

// RoundTripperFunc adapts a function to http.RoundTripper.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

func (f RoundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// ChainMiddleware wraps base so that mw[0] sees the request first and the response last.
func ChainMiddleware(base http.RoundTripper, mw ...Middleware) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	chained := base
	// Apply middleware in reverse order
	for i := len(mw) - 1; i >= 0; i-- {
		chained = mw[i](chained)
	}
	return chained
}

// NewClient returns an http.Client whose transport runs every request through mw.
func NewClient(base http.RoundTripper, mw ...Middleware) *http.Client {
	return &http.Client{Transport: ChainMiddleware(base, mw...)}
}
