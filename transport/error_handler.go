package transport

import (
	"io"
	"net/http"

	"github.com/jrsteele09/go-efact-client/navigation"
	"github.com/jrsteele09/go-efact-client/notify"
	"github.com/rs/zerolog/log"
)

// maxErrorBody bounds how much of an error response is buffered.
const maxErrorBody = 1 << 20

// Invalidator drops the current session. sessions.Manager implements it.
type Invalidator interface {
	Invalidate()
}

// ErrorHandler classifies failed responses, notifies the operator and, on 401, ends the session.
type ErrorHandler struct {
	invalidator Invalidator
	navigator   navigation.Navigator
	notifier    notify.Notifier
}

func NewErrorHandler(invalidator Invalidator, navigator navigation.Navigator, notifier notify.Notifier) *ErrorHandler {
	return &ErrorHandler{
		invalidator: invalidator,
		navigator:   navigator,
		notifier:    notifier,
	}
}

// Middleware turns responses with status >= 400 into *HTTPError and reports every failure.
// Transport errors are returned unchanged. Redirects are left to http.Client.
//
// This departs from the http.RoundTripper contract, which leaves interpreting a response
// to the caller: the error response body is read and closed here, and an http.Client
// built on this pipeline never returns a 4xx or 5xx *http.Response. Callers see a nil
// response and an error from which StatusCode or errors.As(*HTTPError) recovers the status.
func (h *ErrorHandler) Middleware(next http.RoundTripper) http.RoundTripper {
	return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
		resp, err := next.RoundTrip(req)
		if err != nil {
			h.report(req, StatusConnectivity, nil)
			return nil, err
		}
		if resp.StatusCode < http.StatusBadRequest {
			return resp, nil
		}

		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		_ = resp.Body.Close()

		h.report(req, resp.StatusCode, body)
		return nil, &HTTPError{
			Method:     req.Method,
			URL:        req.URL.String(),
			StatusCode: resp.StatusCode,
			Header:     resp.Header,
			Body:       body,
		}
	})
}

func (h *ErrorHandler) report(req *http.Request, status int, body []byte) {
	message := Classify(status, body)

	if status == http.StatusUnauthorized {
		h.invalidator.Invalidate()
		h.navigator.Navigate(navigation.RouteLogin)
	}
	h.notifier.Error(message)

	log.Error().
		Int("status", status).
		Str("message", message).
		Str("url", req.URL.Redacted()).
		Msg("HTTP error")
}
