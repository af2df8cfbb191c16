package sessions

import (
	"net/http"
	"net/url"

	apperrors "github.com/jrsteele09/go-efact-client/internal/errors"
	"github.com/jrsteele09/go-efact-client/oauthmodel"
	"github.com/jrsteele09/go-efact-client/transport"
	"golang.org/x/oauth2"
)

// Messages shown on the login screen.
const (
	MsgLoginSucceeded    = "Signed in successfully."
	MsgLoginFailed       = "Sign in failed. Please check your credentials."
	MsgMissingFields     = "Username and password are required."
	MsgBadCredentials    = "Incorrect username or password."
	MsgServerUnreachable = "Could not connect to the server."
)

const statusUnknown = -1

// LoginErrorMessage turns an error returned by Manager.Login into the message shown on the
// login screen. A server supplied error_description or message wins over the status fallbacks.
func LoginErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	if apperrors.Is(err, apperrors.ErrInvalidCredentials) {
		return MsgMissingFields
	}

	status, body := loginFailure(err)
	if resp, ok := oauthmodel.ParseErrorResponse(body); ok {
		if msg := resp.HumanMessage(); msg != "" {
			return msg
		}
	}
	switch status {
	case http.StatusBadRequest:
		return MsgBadCredentials
	case transport.StatusConnectivity:
		return MsgServerUnreachable
	}
	return MsgLoginFailed
}

func loginFailure(err error) (status int, body []byte) {
	var httpErr *transport.HTTPError
	if apperrors.As(err, &httpErr) {
		return httpErr.StatusCode, httpErr.Body
	}
	var retrieveErr *oauth2.RetrieveError
	if apperrors.As(err, &retrieveErr) {
		if retrieveErr.Response != nil {
			status = retrieveErr.Response.StatusCode
		}
		return status, retrieveErr.Body
	}
	var urlErr *url.Error
	if apperrors.As(err, &urlErr) {
		return transport.StatusConnectivity, nil
	}
	return statusUnknown, nil
}
