package token

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

// NowTimeFunc is the clock used for expiry checks.
var NowTimeFunc = time.Now

// Claims is the payload of an access token issued by the document API's authorization server.
// Authorities and Scope accept either a single string or an array of strings.
type Claims struct {
	UserName    string           `json:"user_name"`
	Authorities jwt.ClaimStrings `json:"authorities,omitempty"`
	Scope       jwt.ClaimStrings `json:"scope,omitempty"`
	ClientID    string           `json:"client_id,omitempty"`
	jwt.RegisteredClaims
}

// Decode reads the claims of rawToken without verifying its signature.
//
// The client never holds the authorization server's keys, so the claims are only used
// to derive the displayed user and a local expiry hint; the API still validates every
// token it receives. Only the payload segment is read: the header and signature must be
// present but their content is ignored. Decode returns false when the token does not
// have three segments, the payload is not base64url, or it is not a claims object.
func Decode(rawToken string) (*Claims, bool) {
	if strings.TrimSpace(rawToken) == "" {
		return nil, false
	}

	parts := strings.Split(rawToken, ".")
	if len(parts) != 3 {
		log.Debug().Int("segments", len(parts)).Msg("[token Decode] token is not a JWT")
		return nil, false
	}

	payload, err := jwt.NewParser().DecodeSegment(parts[1])
	if err != nil {
		log.Debug().Err(err).Msg("[token Decode] unable to decode payload")
		return nil, false
	}

	claims := &Claims{}
	if err := json.Unmarshal(payload, claims); err != nil {
		log.Debug().Err(err).Msg("[token Decode] unable to decode claims")
		return nil, false
	}
	return claims, true
}

// DecodeStored decodes the token currently held by store.
func DecodeStored(store Store) (*Claims, bool) {
	raw, ok := store.Get()
	if !ok {
		return nil, false
	}
	return Decode(raw)
}

// IsExpired reports whether the stored token is missing, undecodable, has no exp claim,
// or expires at or before now.
func IsExpired(store Store) bool {
	claims, ok := DecodeStored(store)
	if !ok {
		return true
	}
	return claimsExpired(claims, NowTimeFunc())
}

// Current returns the stored token when it is present and not expired.
func Current(store Store) (string, bool) {
	raw, ok := store.Get()
	if !ok {
		return "", false
	}
	claims, ok := Decode(raw)
	if !ok || claimsExpired(claims, NowTimeFunc()) {
		return "", false
	}
	return raw, true
}

func claimsExpired(claims *Claims, now time.Time) bool {
	if claims.ExpiresAt == nil {
		return true
	}
	return !claims.ExpiresAt.Time.After(now)
}
