// Package sessions owns the operator's authentication lifecycle: password login against the
// token endpoint, logout, and the authenticated / current-user state derived from the token store.
package sessions

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	apperrors "github.com/jrsteele09/go-efact-client/internal/errors"
	"github.com/jrsteele09/go-efact-client/internal/observable"
	"github.com/jrsteele09/go-efact-client/navigation"
	"github.com/jrsteele09/go-efact-client/oauthmodel"
	"github.com/jrsteele09/go-efact-client/token"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

// Config identifies the token endpoint and the statically configured client credentials
// sent as HTTP Basic authentication with every password grant.
type Config struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
}

// Manager is the single writer of session state besides the 401 path of the response
// error handler, which reaches it through Invalidate.
type Manager struct {
	store     token.Store
	oauth     *oauth2.Config
	client    *http.Client
	navigator navigation.Navigator

	authenticated *observable.Cell[bool]
	user          *observable.Cell[*User]
}

// NewManager returns a Manager whose initial state is derived from whatever the token store
// already holds. Login requests go through client so they share the outbound pipeline.
func NewManager(store token.Store, cfg Config, client *http.Client, navigator navigation.Navigator) *Manager {
	if client == nil {
		client = http.DefaultClient
	}
	m := &Manager{
		store: store,
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint: oauth2.Endpoint{
				TokenURL:  cfg.TokenURL,
				AuthStyle: oauth2.AuthStyleInHeader,
			},
		},
		client:    client,
		navigator: navigator,
	}
	m.authenticated = observable.NewCell(m.computeAuthenticated())
	m.user = observable.NewCell(m.loadUserFromToken())
	return m
}

// Authenticated is the observable authenticated flag.
func (m *Manager) Authenticated() *observable.Cell[bool] {
	return m.authenticated
}

// User is the observable current user; nil when nobody is signed in.
func (m *Manager) User() *observable.Cell[*User] {
	return m.user
}

// IsAuthenticated recomputes "token stored and not expired". An expiry observed here is
// published to the Authenticated cell.
func (m *Manager) IsAuthenticated() bool {
	authenticated := m.computeAuthenticated()
	m.authenticated.SetIfChanged(authenticated, sameFlag)
	return authenticated
}

// CurrentUser decodes the stored token into a User, or nil when there is no decodable token.
func (m *Manager) CurrentUser() *User {
	user := m.loadUserFromToken()
	m.user.SetIfChanged(user, sameUser)
	return user
}

// State returns the current derived session view, publishing any change to the cells.
func (m *Manager) State() State {
	return State{
		Authenticated: m.IsAuthenticated(),
		User:          m.CurrentUser(),
	}
}

// Refresh re-evaluates both cells from the token store and the clock and returns the
// resulting state. Call it when the front end regains focus so an expiry is observed
// without waiting for the next request.
func (m *Manager) Refresh() State {
	state := m.State()
	log.Debug().Bool("authenticated", state.Authenticated).Msg("[Manager Refresh] session re-evaluated")
	return state
}

// HasAuthority reports whether the current user holds authority. No user means false.
func (m *Manager) HasAuthority(authority string) bool {
	return m.CurrentUser().HasAuthority(authority)
}

// Login performs an OAuth2 password grant. On success the access token is stored and the
// state flips to authenticated. On any failure the session is cleared and the error is
// returned wrapped, with the server's response reachable through errors.As
// (*transport.HTTPError when the request went through the error handler, otherwise
// *oauth2.RetrieveError). There is no retry.
func (m *Manager) Login(ctx context.Context, credentials oauthmodel.Credentials) (*oauthmodel.TokenResponse, error) {
	if err := credentials.Validate(); err != nil {
		m.clear()
		return nil, fmt.Errorf("[Manager Login] %w: %w", apperrors.ErrInvalidCredentials, err)
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, m.client)
	tok, err := m.oauth.PasswordCredentialsToken(ctx, credentials.Username, credentials.Password)
	if err != nil {
		m.clear()
		return nil, fmt.Errorf("[Manager Login] token request failed: %w", err)
	}

	m.store.Save(tok.AccessToken)
	m.authenticated.Set(true)
	user := m.loadUserFromToken()
	m.user.Set(user)

	if user != nil {
		log.Debug().Str("user", user.Username).Msg("[Manager Login] signed in")
	}
	return tokenResponse(tok), nil
}

// Logout clears the session and sends the front end back to the login route.
func (m *Manager) Logout() {
	m.clear()
	m.navigator.Navigate(navigation.RouteLogin)
}

// Invalidate clears the session without navigating. The response error handler calls it
// on a 401 and performs its own navigation.
func (m *Manager) Invalidate() {
	m.clear()
}

// Guard lets route through when the session is authenticated. Otherwise it navigates to
// the login route, carrying route as returnUrl, and returns false.
func (m *Manager) Guard(route string) bool {
	if m.IsAuthenticated() {
		return true
	}
	m.navigator.Navigate(navigation.RouteLogin + "?returnUrl=" + url.QueryEscape(route))
	return false
}

// RequireAuthenticated is Guard for callers that report errors: a refused route yields
// ErrNotAuthenticated.
func (m *Manager) RequireAuthenticated(route string) error {
	if m.Guard(route) {
		return nil
	}
	return apperrors.Wrapf(apperrors.ErrNotAuthenticated, "[Manager RequireAuthenticated] %s", route)
}

func (m *Manager) clear() {
	m.store.Remove()
	m.authenticated.Set(false)
	m.user.Set(nil)
}

func (m *Manager) computeAuthenticated() bool {
	return m.store.Has() && !token.IsExpired(m.store)
}

func (m *Manager) loadUserFromToken() *User {
	claims, ok := token.DecodeStored(m.store)
	if !ok {
		return nil
	}
	return userFromClaims(claims)
}

func tokenResponse(tok *oauth2.Token) *oauthmodel.TokenResponse {
	resp := &oauthmodel.TokenResponse{
		AccessToken: tok.AccessToken,
		TokenType:   tok.TokenType,
	}
	if !tok.Expiry.IsZero() {
		resp.ExpiresIn = int(time.Until(tok.Expiry).Round(time.Second).Seconds())
	}
	if scope, ok := tok.Extra("scope").(string); ok {
		resp.Scope = scope
	}
	if jti, ok := tok.Extra("jti").(string); ok {
		resp.Jti = jti
	}
	return resp
}
