package errors

import (
	"errors"
	"fmt"
)

// Common error types for the e-invoice document client
var (
	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotAuthenticated   = errors.New("not authenticated")

	// Document errors
	ErrEmptyTicket      = errors.New("empty ticket")
	ErrNoDocuments      = errors.New("no documents found for ticket")
	ErrHandleNotFound   = errors.New("resource handle not found")
	ErrInvalidFileName  = errors.New("invalid file name")
	ErrDownloadDisabled = errors.New("download directory not configured")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
