package transport

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/jrsteele09/go-efact-client/token"
)

// Authenticator attaches the stored bearer token to outbound requests.
type Authenticator struct {
	store         token.Store
	tokenEndpoint string
}

// NewAuthenticator returns an Authenticator reading from store. tokenEndpoint is the path of
// the token issuance endpoint (a full URL is reduced to its path); requests to it are left alone.
func NewAuthenticator(store token.Store, tokenEndpoint string) *Authenticator {
	if u, err := url.Parse(tokenEndpoint); err == nil && u.IsAbs() {
		tokenEndpoint = u.Path
	}
	return &Authenticator{store: store, tokenEndpoint: tokenEndpoint}
}

// IsTokenEndpoint reports whether req targets the token issuance endpoint.
func (a *Authenticator) IsTokenEndpoint(req *http.Request) bool {
	return a.tokenEndpoint != "" && strings.Contains(req.URL.Path, a.tokenEndpoint)
}

// Middleware sets "Authorization: Bearer <token>" on a clone of each request when a token is
// stored and not expired. Token endpoint requests, and requests made without a usable token,
// are forwarded unchanged; the server decides what to do with them.
func (a *Authenticator) Middleware(next http.RoundTripper) http.RoundTripper {
	return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
		if a.IsTokenEndpoint(req) {
			return next.RoundTrip(req)
		}

		raw, ok := token.Current(a.store)
		if !ok {
			return next.RoundTrip(req)
		}

		authReq := req.Clone(req.Context())
		authReq.Header.Set("Authorization", "Bearer "+raw)
		return next.RoundTrip(authReq)
	})
}
