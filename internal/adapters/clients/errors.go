// Package clients provides HTTP client adapters for downstream services.
package clients

import "errors"

// Client errors represent failures in the HTTP client layer. Callers
// translate them into domain errors.
var (
	// ErrRequestFailed wraps any failure to obtain a response: DNS, connect,
	// TLS, timeout or cancellation.
	ErrRequestFailed = errors.New("request failed")
)
