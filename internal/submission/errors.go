package submission

import (
	"errors"
	"fmt"
)

var (
	ErrBusy             = errors.New("submission busy")
	ErrUploadPending    = errors.New("proof upload still in progress")
	ErrNoFile           = errors.New("no proof file uploaded")
	ErrAlreadySubmitted = errors.New("bill already submitted")
)

// ValidationError reports a file or form field rejected before any remote
// call.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}
