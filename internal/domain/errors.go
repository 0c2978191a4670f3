// Package domain contains business logic types and errors.
// Domain errors describe why a quote could not be obtained, independent of
// the transport that produced them. Adapters map their failures onto these.
package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrTransport indicates the quote service could not be reached or
	// answered with a non-success status.
	ErrTransport = errors.New("transport failure")

	// ErrDecode indicates the quote service answered with a body that is not
	// a valid quote.
	ErrDecode = errors.New("decode failure")
)

// ErrorKind classifies an ErrorInfo.
type ErrorKind string

const (
	// ErrorKindTransport marks network, connectivity and HTTP status failures.
	ErrorKindTransport ErrorKind = "transport"

	// ErrorKindDecode marks malformed or unexpected response bodies.
	ErrorKindDecode ErrorKind = "decode"
)

// TransportError provides context for transport failures.
type TransportError struct {
	Service string
	Reason  string
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("service %q unreachable: %s", e.Service, e.Reason)
	}

	return fmt.Sprintf("service %q unreachable", e.Service)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *TransportError) Unwrap() error {
	return ErrTransport
}

// NewTransportError creates a transport error with context.
func NewTransportError(service, reason string) error {
	return &TransportError{Service: service, Reason: reason}
}

// DecodeError provides context for decode failures.
type DecodeError struct {
	Reason string
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	if e.Reason != "" {
		return "invalid quote response: " + e.Reason
	}

	return "invalid quote response"
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *DecodeError) Unwrap() error {
	return ErrDecode
}

// NewDecodeError creates a decode error with context.
func NewDecodeError(reason string) error {
	return &DecodeError{Reason: reason}
}

// ErrorInfo is the single failure shape that crosses the fetcher boundary.
// Description is human readable and is what the screen displays.
type ErrorInfo struct {
	Kind        ErrorKind
	Description string
}

// Error implements the error interface.
func (e *ErrorInfo) Error() string {
	return e.Description
}

// Is reports whether target is the sentinel matching this error's kind.
func (e *ErrorInfo) Is(target error) bool {
	switch e.Kind {
	case ErrorKindTransport:
		return target == ErrTransport
	case ErrorKindDecode:
		return target == ErrDecode
	default:
		return false
	}
}

// NewErrorInfo normalizes err into an ErrorInfo.
// An error that is already an ErrorInfo is returned as is. Errors that are not
// recognisably decode failures are classified as transport failures.
// Returns nil for a nil error.
func NewErrorInfo(err error) *ErrorInfo {
	if err == nil {
		return nil
	}

	var info *ErrorInfo
	if errors.As(err, &info) {
		return info
	}

	kind := ErrorKindTransport
	if errors.Is(err, ErrDecode) {
		kind = ErrorKindDecode
	}

	return &ErrorInfo{Kind: kind, Description: err.Error()}
}

// IsTransport checks if an error is a transport error.
func IsTransport(err error) bool {
	return errors.Is(err, ErrTransport)
}

// IsDecode checks if an error is a decode error.
func IsDecode(err error) bool {
	return errors.Is(err, ErrDecode)
}
