// Package common defines the error taxonomy and wire constants shared by the
// chat transport, the vote store, and the REST client. Callers should use
// errors.Is to match these values.
package common

import "errors"

var (
	// Caller contract violations (empty conversation id, unknown project id).
	ErrInvalidInput = errors.New("invalid input")

	// Missing or expired credential. The caller is expected to send the user
	// to the login flow.
	ErrUnauthenticated = errors.New("unauthenticated")

	// A mutation for the same entity is already in flight.
	ErrAlreadyPending = errors.New("already pending")

	// Channel-level failure of a chat connection.
	ErrTransport = errors.New("transport error")

	// The server answered with an error status.
	ErrRemoteRejected = errors.New("remote rejected")

	// The request could not complete (connection refused, timeout, reset).
	ErrNetworkFailure = errors.New("network failure")

	ErrNotFound = errors.New("not found")
)

// IsRetryable reports whether err is worth retrying by the user.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrRemoteRejected) || errors.Is(err, ErrNetworkFailure)
}
