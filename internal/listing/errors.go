package listing

import (
	"fmt"
)

// FetchError reports that the bill list could not be fetched at all.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching bills: %v", e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// FormatError reports one field of one bill that could not be formatted.
type FormatError struct {
	BillID string
	Field  string
	Value  string
	Err    error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("bill %s: formatting %s %q: %v", e.BillID, e.Field, e.Value, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}
