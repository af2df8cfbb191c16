// Package app assembles the client's components from configuration.
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/jrsteele09/go-efact-client/blobs"
	"github.com/jrsteele09/go-efact-client/documents"
	"github.com/jrsteele09/go-efact-client/internal/config"
	"github.com/jrsteele09/go-efact-client/navigation"
	"github.com/jrsteele09/go-efact-client/notify"
	"github.com/jrsteele09/go-efact-client/server"
	"github.com/jrsteele09/go-efact-client/sessions"
	"github.com/jrsteele09/go-efact-client/token"
	"github.com/jrsteele09/go-efact-client/token/memstore"
	"github.com/jrsteele09/go-efact-client/transport"
	"github.com/rs/zerolog/log"
)

// Container holds the wired components for one process.
type Container struct {
	Config    config.Config
	Store     token.Store
	Navigator navigation.Navigator
	Notifier  notify.Notifier
	Client    *http.Client
	Sessions  *sessions.Manager
	Registry  *blobs.Registry
	Retriever *documents.Retriever

	tokenURL string
}

// Options overrides collaborators, mainly for tests. Nil fields get the log-backed defaults.
type Options struct {
	Store     token.Store
	Navigator navigation.Navigator
	Notifier  notify.Notifier
	Base      http.RoundTripper
}

// New wires the outbound pipeline (authenticator, then error handler, then base transport),
// the session manager and the document retriever. When an OIDC issuer is configured the
// token endpoint is discovered from it.
func New(ctx context.Context, cfg config.Config, opts Options) (*Container, error) {
	c := &Container{
		Config:    cfg,
		Store:     opts.Store,
		Navigator: opts.Navigator,
		Notifier:  opts.Notifier,
		Registry:  blobs.NewRegistry(),
	}
	if c.Store == nil {
		c.Store = memstore.New()
	}
	if c.Navigator == nil {
		c.Navigator = navigation.NewLogNavigator()
	}
	if c.Notifier == nil {
		c.Notifier = notify.NewLogNotifier(nil)
	}

	tokenURL, err := resolveTokenURL(ctx, cfg, opts.Base)
	if err != nil {
		return nil, err
	}
	c.tokenURL = tokenURL

	// The manager needs the client for login and the error handler needs the manager,
	// so the transport is attached once both exist.
	c.Client = &http.Client{}
	c.Sessions = sessions.NewManager(c.Store, sessions.Config{
		TokenURL:     tokenURL,
		ClientID:     cfg.GetClientID(),
		ClientSecret: cfg.GetClientSecret(),
	}, c.Client, c.Navigator)

	authenticator := transport.NewAuthenticator(c.Store, tokenURL)
	errorHandler := transport.NewErrorHandler(c.Sessions, c.Navigator, c.Notifier)
	c.Client.Transport = transport.ChainMiddleware(opts.Base, authenticator.Middleware, errorHandler.Middleware)

	c.Retriever = documents.NewRetriever(c.Client, cfg.GetDocumentsBaseURL(), c.Registry, documents.Options{
		DownloadDir:     cfg.GetDownloadDir(),
		DefaultMimeType: cfg.GetDefaultTextMimeType(),
	})

	log.Debug().
		Str("api", cfg.GetAPIBaseURL()).
		Str("token_url", tokenURL).
		Msg("[App New] wired")
	return c, nil
}

// TokenURL is the resolved token issuance endpoint.
func (c *Container) TokenURL() string {
	return c.tokenURL
}

// Viewer returns the local document viewer guarded by the session manager.
func (c *Container) Viewer() *server.Server {
	return server.New(c.Config.GetEnv(), c.Retriever, c.Sessions)
}

func resolveTokenURL(ctx context.Context, cfg config.OAuthConfig, base http.RoundTripper) (string, error) {
	issuer := cfg.GetOIDCIssuer()
	if issuer == "" {
		return cfg.GetTokenURL(), nil
	}

	if base != nil {
		ctx = oidc.ClientContext(ctx, &http.Client{Transport: base})
	}
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return "", fmt.Errorf("[App resolveTokenURL] discovery failed for %s: %w", issuer, err)
	}
	tokenURL := provider.Endpoint().TokenURL
	if tokenURL == "" {
		return cfg.GetTokenURL(), nil
	}
	return tokenURL, nil
}
