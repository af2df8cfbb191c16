package oauthmodel

import "errors"

var (
	ErrMissingUsername = errors.New("missing username")
	ErrMissingPassword = errors.New("missing password")
)
