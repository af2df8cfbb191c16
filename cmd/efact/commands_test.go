package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jrsteele09/go-efact-client/internal/app"
	"github.com/jrsteele09/go-efact-client/internal/config"
	"github.com/jrsteele09/go-efact-client/navigation/navfake"
	"github.com/jrsteele09/go-efact-client/notify/notifyfake"
	"github.com/jrsteele09/go-efact-client/oauthmodel"
	"github.com/jrsteele09/go-efact-client/sessions"
	"github.com/stretchr/testify/require"
)

func rejectingContainer(t *testing.T) (*app.Container, *notifyfake.FakeNotifier) {
	t.Helper()
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":"invalid_grant","error_description":"Bad credentials"}`)
	}))
	t.Cleanup(api.Close)

	t.Setenv("EFACT_API_URL", api.URL)
	t.Setenv("EFACT_TOKEN_ENDPOINT", "/oauth/token")
	t.Setenv("EFACT_OIDC_ISSUER", "")
	t.Setenv("EFACT_DOWNLOAD_DIR", t.TempDir())

	notifier := notifyfake.NewFakeNotifier()
	container, err := app.New(context.Background(), config.New(), app.Options{
		Navigator: navfake.NewFakeNavigator(),
		Notifier:  notifier,
	})
	require.NoError(t, err)
	return container, notifier
}

func TestLogin_RejectedNotifiesOnce(t *testing.T) {
	container, notifier := rejectingContainer(t)

	var out bytes.Buffer
	err := login(context.Background(), container, oauthmodel.Credentials{Username: "operator", Password: "wrong"}, &out)
	require.Error(t, err)

	require.Equal(t, []string{"Bad credentials"}, notifier.Errors())
	require.Len(t, notifier.Notifications(), 1)
	require.Equal(t, "Bad credentials\n", out.String())
}

func TestLogin_MissingFieldsPrintedOnly(t *testing.T) {
	container, notifier := rejectingContainer(t)

	var out bytes.Buffer
	err := login(context.Background(), container, oauthmodel.Credentials{Username: "operator"}, &out)
	require.Error(t, err)

	require.Empty(t, notifier.Notifications())
	require.Equal(t, sessions.MsgMissingFields+"\n", out.String())
}
