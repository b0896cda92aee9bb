// Package errors defines the error taxonomy shared by every tokensafe
// package. Callers match on the sentinels with Is; packages add context with
// Wrap or fmt.Errorf("%w").
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput indicates a request rejected before any cryptographic
	// work: empty password, too few fragments, malformed envelope.
	ErrInvalidInput = errors.New("invalid input")

	// ErrIntegrity indicates a failed tag verification. It is returned for a
	// wrong password and for corrupted data alike.
	ErrIntegrity = errors.New("integrity check failed")

	// ErrIncompleteFragmentSet indicates missing, duplicate or out-of-range
	// fragments.
	ErrIncompleteFragmentSet = errors.New("incomplete fragment set")

	// ErrFragmentSetMismatch indicates fragments that belong to different sets.
	ErrFragmentSetMismatch = errors.New("fragment set mismatch")

	// ErrNotFound indicates an unknown token name.
	ErrNotFound = errors.New("not found")
)

// Wrap wraps an error with additional context while preserving the error chain.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}
