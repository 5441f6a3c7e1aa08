package client

import (
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/connectin/internal/common"
)

// RemoteError is a non-2xx answer from the backend. It unwraps to the
// matching sentinel from package common.
type RemoteError struct {
	StatusCode int
	Detail     string
}

func (e *RemoteError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("server responded %d", e.StatusCode)
	}
	return fmt.Sprintf("server responded %d: %s", e.StatusCode, e.Detail)
}

func (e *RemoteError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return common.ErrUnauthenticated
	case http.StatusNotFound:
		return common.ErrNotFound
	default:
		return common.ErrRemoteRejected
	}
}

func networkError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, common.ErrNetworkFailure, err)
}
