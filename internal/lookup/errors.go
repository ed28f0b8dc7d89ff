package lookup

import (
	"errors"
	"fmt"
)

var (
	// ErrStatus means the endpoint answered with a non-200 status.
	ErrStatus = errors.New("unexpected response status")
	// ErrParse means the response body was not the expected JSON.
	ErrParse = errors.New("malformed response body")
	// ErrNetwork means the request failed or timed out before a response arrived.
	ErrNetwork = errors.New("network error")
)

// FetchError describes a failed lookup. Kind is one of ErrStatus, ErrParse or
// ErrNetwork and can be matched with errors.Is.
type FetchError struct {
	Kind       error
	Query      string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	msg := fmt.Sprintf("lookup %q: %v", e.Query, e.Kind)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FetchError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
