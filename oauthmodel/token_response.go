package oauthmodel

import (
	"encoding/json"
	"strings"
)

// TokenResponse represents the response from the token endpoint (RFC 6749 section 5.1).
type TokenResponse struct {
	// AccessToken is the bearer token attached to every document request.
	AccessToken string `json:"access_token"`

	// TokenType is "bearer" for the document API.
	TokenType string `json:"token_type"`

	// ExpiresIn is a hint in seconds; the authoritative expiry is the "exp" claim.
	ExpiresIn int `json:"expires_in"`

	Scope string `json:"scope,omitempty"`
	Jti   string `json:"jti,omitempty"`
}

// ErrorResponse is the error body returned by the token endpoint and the document API.
// The token endpoint uses error/error_description, the API uses message.
type ErrorResponse struct {
	Error            string `json:"error,omitempty"`
	ErrorDescription string `json:"error_description,omitempty"`
	Message          string `json:"message,omitempty"`
}

// ParseErrorResponse decodes body as an ErrorResponse. ok is false when body is not a JSON object.
func ParseErrorResponse(body []byte) (resp ErrorResponse, ok bool) {
	if len(body) == 0 {
		return resp, false
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return ErrorResponse{}, false
	}
	return resp, true
}

// HumanMessage returns the most descriptive message carried by the response, or "".
func (e ErrorResponse) HumanMessage() string {
	if msg := strings.TrimSpace(e.ErrorDescription); msg != "" {
		return msg
	}
	return strings.TrimSpace(e.Message)
}
