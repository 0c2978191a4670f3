package dto

import "github.com/jsamuelsen/quote-screen/internal/domain"

// Screen event names, as sent in the SSE "event:" field.
const (
	EventScreen           = "screen"
	EventQuoteFetched     = "quote_fetched"
	EventFetchFailed      = "fetch_failed"
	EventBusyStateChanged = "busy_state_changed"
)

// ScreenResponse is a snapshot of the screen.
type ScreenResponse struct {
	Text    string         `json:"text"`
	Refresh RefreshControl `json:"refresh"`
}

// RefreshControl describes the refresh button.
type RefreshControl struct {
	Label    string `json:"label"`
	Enabled  bool   `json:"enabled"`
	Emphasis string `json:"emphasis"`
}

// RefreshAccepted is returned when a refresh intent was sent.
type RefreshAccepted struct {
	Status string `json:"status"`
}

// QuoteBody is the wire form of a quote.
type QuoteBody struct {
	Author  string `json:"author"`
	Content string `json:"content"`
}

// FailureBody is the wire form of a failed fetch.
type FailureBody struct {
	Kind        string `json:"kind"`
	Description string `json:"description"`
}

// ScreenEvent is one engine output event on the event stream.
// Exactly one of Quote, Error and Busy is set.
type ScreenEvent struct {
	Type  string       `json:"type"`
	Quote *QuoteBody   `json:"quote,omitempty"`
	Error *FailureBody `json:"error,omitempty"`
	Busy  *bool        `json:"busy,omitempty"`
}

// NewScreenEvent converts an engine output event to its wire form.
func NewScreenEvent(event domain.OutputEvent) ScreenEvent {
	switch ev := event.(type) {
	case domain.QuoteFetched:
		return ScreenEvent{
			Type:  EventQuoteFetched,
			Quote: &QuoteBody{Author: ev.Quote.Author, Content: ev.Quote.Content},
		}
	case domain.FetchFailed:
		return ScreenEvent{
			Type:  EventFetchFailed,
			Error: &FailureBody{Kind: string(ev.Err.Kind), Description: ev.Err.Description},
		}
	case domain.BusyStateChanged:
		busy := ev.IsBusy
		return ScreenEvent{Type: EventBusyStateChanged, Busy: &busy}
	default:
		return ScreenEvent{}
	}
}
