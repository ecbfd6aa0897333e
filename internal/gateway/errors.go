package gateway

import (
	"errors"
	"fmt"
)

// ErrNoStore is returned by None for operations that need a remote store.
var ErrNoStore = errors.New("no remote store configured")

// RemoteError reports a failed call to the remote store: either the request
// never completed or the store answered with a non-2xx status.
type RemoteError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *RemoteError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: remote store returned %d: %v", e.Op, e.StatusCode, e.Err)
	}

	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}
