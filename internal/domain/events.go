package domain

// Intent is a discrete user or lifecycle event fed into the quote engine.
type Intent int

const (
	// IntentViewAppeared is sent when the screen first becomes visible.
	IntentViewAppeared Intent = iota

	// IntentRefreshRequested is sent when the user activates the refresh control.
	IntentRefreshRequested
)

// String returns the intent name used in logs and metrics.
func (i Intent) String() string {
	switch i {
	case IntentViewAppeared:
		return "viewAppeared"
	case IntentRefreshRequested:
		return "refreshRequested"
	default:
		return "unknown"
	}
}

// OutputEvent is a state change emitted by the quote engine for the
// presentation layer to apply. The set of implementations is closed:
// QuoteFetched, FetchFailed and BusyStateChanged.
type OutputEvent interface {
	outputEvent()
}

// QuoteFetched reports a successfully fetched quote.
type QuoteFetched struct {
	Quote Quote
}

// FetchFailed reports a fetch that ended in a transport or decode failure.
type FetchFailed struct {
	Err ErrorInfo
}

// BusyStateChanged brackets a fetch: true when it starts, false when it resolves.
type BusyStateChanged struct {
	IsBusy bool
}

func (QuoteFetched) outputEvent()     {}
func (FetchFailed) outputEvent()      {}
func (BusyStateChanged) outputEvent() {}
