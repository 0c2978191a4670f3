package app

import (
	"context"
	"fmt"

	"github.com/jsamuelsen/quote-screen/internal/domain"
	"github.com/jsamuelsen/quote-screen/internal/ports"
)

// FetchResult is the single value produced by FetchAsync: a quote or the
// normalized failure, never both.
type FetchResult struct {
	Quote domain.Quote
	Err   *domain.ErrorInfo
}

// FetchAsync runs one fetch on its own goroutine. The returned channel is
// buffered, receives exactly one value and is then closed, so the caller may
// stop listening without leaking the goroutine.
//
// A panicking fetcher is reported as a transport failure.
func FetchAsync(ctx context.Context, f ports.QuoteFetcher) <-chan FetchResult {
	out := make(chan FetchResult, 1)

	go func() {
		defer close(out)

		defer func() {
			if r := recover(); r != nil {
				out <- FetchResult{Err: &domain.ErrorInfo{
					Kind:        domain.ErrorKindTransport,
					Description: fmt.Sprintf("quote fetcher panicked: %v", r),
				}}
			}
		}()

		quote, err := f.FetchRandomQuote(ctx)
		if err != nil {
			out <- FetchResult{Err: domain.NewErrorInfo(err)}
			return
		}

		out <- FetchResult{Quote: quote}
	}()

	return out
}

// Event converts the result into the output event that reports it.
func (r FetchResult) Event() domain.OutputEvent {
	if r.Err != nil {
		return domain.FetchFailed{Err: *r.Err}
	}

	return domain.QuoteFetched{Quote: r.Quote}
}

// Outcome labels the result for metrics: success, transport or decode.
func (r FetchResult) Outcome() string {
	if r.Err != nil {
		return string(r.Err.Kind)
	}

	return "success"
}
