package oauthmodel

import "strings"

// GrantType represents the OAuth 2.0 grant type used at the token endpoint.
type GrantType string

const (
	// PasswordGrant exchanges the resource owner's username and password for an access token.
	// Token request includes: grant_type=password, username, password (form encoded)
	// Client authentication: HTTP Basic with client_id:client_secret
	PasswordGrant GrantType = "password"
)

// Credentials are the resource owner credentials for one login call. They are never stored.
type Credentials struct {
	Username string
	Password string
}

// Validate checks that both fields carry a value. Leading and trailing spaces in the
// username are not significant; the password is taken as is.
func (c Credentials) Validate() error {
	if strings.TrimSpace(c.Username) == "" {
		return ErrMissingUsername
	}
	if c.Password == "" {
		return ErrMissingPassword
	}
	return nil
}
