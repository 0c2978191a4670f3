// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, allowing the application layer
// to depend on abstractions rather than concrete implementations.
//
// Port Design Principles:
//   - Context as first parameter for blocking operations
//   - Return domain types, never external DTOs or infrastructure types
//   - Failures cross the boundary as domain errors
package ports

import (
	"context"

	"github.com/jsamuelsen/quote-screen/internal/domain"
)

// QuoteFetcher retrieves a random quote from an external quote service.
//
// Implementations issue exactly one outbound request per call and never
// retry. Every failure is normalized before it is returned: the error is
// always a *domain.ErrorInfo whose Kind tells transport failures apart from
// decode failures.
type QuoteFetcher interface {
	FetchRandomQuote(ctx context.Context) (domain.Quote, error)
}

// Dispatcher runs functions on the context that owns presentation state.
//
// Dispatch must not block the caller and must run functions in the order
// they were submitted. The quote engine delivers every output event through
// a Dispatcher, so a screen can keep all of its state on one goroutine.
type Dispatcher interface {
	Dispatch(fn func())
}

// DispatcherFunc adapts an ordinary function to the Dispatcher interface.
type DispatcherFunc func(fn func())

// Dispatch calls f(fn).
func (f DispatcherFunc) Dispatch(fn func()) {
	f(fn)
}
