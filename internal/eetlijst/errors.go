package eetlijst

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedStatus = errors.New("status cannot be submitted")
	ErrUnknownPerson     = errors.New("unknown person")
	ErrNoCredentials     = errors.New("eetlijst login: username and password are required")
)

// NetworkError is returned when a round trip to eetlijst fails at the
// transport level or comes back with a non 2xx status.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("eetlijst %s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// AuthenticationError means the login response did not contain the
// statistics link. Eetlijst gives no explicit failure signal so this covers
// both bad credentials and a changed login page.
type AuthenticationError struct {
	User string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("eetlijst login as %q: statistics link not found (bad credentials or changed page)", e.User)
}

// ParseError means an expected anchor element is missing from a page.
type ParseError struct {
	Anchor string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("eetlijst parse %s: %s", e.Anchor, e.Reason)
}

// DataError means a located cell could not be read as a number.
type DataError struct {
	Anchor string
	Index  int
	Text   string
	Err    error
}

func (e *DataError) Error() string {
	return fmt.Sprintf("eetlijst %s: cell %d: cannot parse %q: %v", e.Anchor, e.Index, e.Text, e.Err)
}

func (e *DataError) Unwrap() error {
	return e.Err
}

func parseErrorf(anchor, format string, args ...any) error {
	return &ParseError{Anchor: anchor, Reason: fmt.Sprintf(format, args...)}
}
