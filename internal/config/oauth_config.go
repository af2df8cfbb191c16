package config

import (
	"strings"

	"github.com/allisson/go-env"
)

type APIConfig interface {
	GetAPIBaseURL() string
	GetDocumentsBaseURL() string
}

type OAuthConfig interface {
	GetTokenEndpoint() string
	GetTokenURL() string
	GetOIDCIssuer() string
	GetClientID() string
	GetClientSecret() string
}

type API struct{}

var _ APIConfig = API{}

// GetAPIBaseURL returns the backend base URL without a trailing slash (e.g., "https://api.example.com")
func (API) GetAPIBaseURL() string {
	return strings.TrimRight(env.GetString("EFACT_API_URL", "http://localhost:8080"), "/")
}

// GetDocumentsBaseURL returns the versioned base under which the pdf, xml and cdr resources live.
func (a API) GetDocumentsBaseURL() string {
	return a.GetAPIBaseURL() + "/v1"
}

type OAuth struct{}

var _ OAuthConfig = OAuth{}

// GetTokenEndpoint returns the path of the token issuance endpoint relative to the API base URL.
func (OAuth) GetTokenEndpoint() string {
	path := env.GetString("EFACT_TOKEN_ENDPOINT", "/oauth/token")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}

func (o OAuth) GetTokenURL() string {
	return API{}.GetAPIBaseURL() + o.GetTokenEndpoint()
}

// GetOIDCIssuer returns the issuer used to discover the token endpoint. Empty disables discovery.
func (OAuth) GetOIDCIssuer() string {
	return env.GetString("EFACT_OIDC_ISSUER", "")
}

func (OAuth) GetClientID() string {
	return env.GetString("EFACT_CLIENT_ID", "efact-client")
}

func (OAuth) GetClientSecret() string {
	return env.GetString("EFACT_CLIENT_SECRET", "")
}
