package catalog

import (
	"errors"
	"fmt"
)

// ErrRemoteUnavailable indicates a transport failure, timeout, unexpected
// HTTP status or an undecodable response body.
type ErrRemoteUnavailable struct {
	Instance string
	Cause    error
}

func (e *ErrRemoteUnavailable) Error() string {
	return fmt.Sprintf("catalog %s unavailable: %v", e.Instance, e.Cause)
}

func (e *ErrRemoteUnavailable) Unwrap() error { return e.Cause }

// ErrNotFound indicates the catalog has no record for the requested ID.
type ErrNotFound struct {
	Instance string
	Kind     Kind
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("catalog %s: %s %s not found", e.Instance, e.Kind, e.ID)
}

// ErrMalformedRecord indicates a record that cannot be mapped, for example
// one without any usable name.
type ErrMalformedRecord struct {
	Instance string
	Kind     Kind
	ID       int
	Reason   string
}

func (e *ErrMalformedRecord) Error() string {
	return fmt.Sprintf("catalog %s: malformed %s %d: %s", e.Instance, e.Kind, e.ID, e.Reason)
}

// IsNotFound reports whether err is or wraps an *ErrNotFound.
func IsNotFound(err error) bool {
	var nf *ErrNotFound
	return errors.As(err, &nf)
}

// IsRemoteUnavailable reports whether err is or wraps an *ErrRemoteUnavailable.
func IsRemoteUnavailable(err error) bool {
	var ru *ErrRemoteUnavailable
	return errors.As(err, &ru)
}

// IsMalformed reports whether err is or wraps an *ErrMalformedRecord.
func IsMalformed(err error) bool {
	var mr *ErrMalformedRecord
	return errors.As(err, &mr)
}
