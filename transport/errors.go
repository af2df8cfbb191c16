package transport

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jrsteele09/go-efact-client/oauthmodel"
)

// StatusConnectivity is the status reported when no HTTP response was received.
const StatusConnectivity = 0

// Messages shown to the operator, keyed by response status.
const (
	MsgSessionExpired = "Session expired. Please sign in again."
	MsgForbidden      = "You do not have permission to perform this action."
	MsgNotFound       = "Resource not found."
	MsgServerError    = "Server error. Please try again later."
	MsgConnectivity   = "Connection error. Check your network connection."
	MsgUnexpected     = "An unexpected error occurred."
)

// HTTPError is returned for responses with a status of 400 or above. The response body is
// kept so callers can read the server's error payload.
type HTTPError struct {
	Method     string
	URL        string
	StatusCode int
	Header     http.Header
	Body       []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// ErrorResponse decodes the body as an OAuth2 / API error payload.
func (e *HTTPError) ErrorResponse() (oauthmodel.ErrorResponse, bool) {
	return oauthmodel.ParseErrorResponse(e.Body)
}

// StatusCode returns the HTTP status carried by err, or StatusConnectivity when err did not
// come from an HTTP response.
func StatusCode(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	return StatusConnectivity
}

// Classify maps a status, and for unlisted statuses the response body, to an operator message.
func Classify(status int, body []byte) string {
	switch status {
	case http.StatusUnauthorized:
		return MsgSessionExpired
	case http.StatusForbidden:
		return MsgForbidden
	case http.StatusNotFound:
		return MsgNotFound
	case http.StatusInternalServerError:
		return MsgServerError
	case StatusConnectivity:
		return MsgConnectivity
	}
	if resp, ok := oauthmodel.ParseErrorResponse(body); ok {
		if msg := resp.HumanMessage(); msg != "" {
			return msg
		}
	}
	return MsgUnexpected
}
