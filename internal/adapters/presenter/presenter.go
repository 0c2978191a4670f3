// Package presenter binds a screen to the quote engine. It turns screen
// lifecycle and control events into intents and applies output events to a
// View. Everything except the intent send runs on the engine's dispatcher,
// which must be the goroutine that owns the View.
package presenter

import (
	"context"
	"sync"
	"sync/atomic"
	"weak"

	"github.com/jsamuelsen/quote-screen/internal/app"
	"github.com/jsamuelsen/quote-screen/internal/domain"
	"github.com/jsamuelsen/quote-screen/internal/eventbus"
)

const (
	// PlaceholderText is shown until the first fetch resolves.
	PlaceholderText = "Quote"

	// RefreshLabel labels the refresh control.
	RefreshLabel = "refresh"
)

// Emphasis is the visual weight of the refresh control.
type Emphasis int

const (
	// EmphasisFull is the tint used while the control is enabled.
	EmphasisFull Emphasis = iota

	// EmphasisMuted is the gray used while a fetch is in flight.
	EmphasisMuted
)

func (e Emphasis) String() string {
	if e == EmphasisMuted {
		return "muted"
	}

	return "full"
}

// View is the screen surface the presenter drives.
type View interface {
	SetText(text string)
	SetRefreshEnabled(enabled bool)
	SetRefreshEmphasis(emphasis Emphasis)
}

// Engine is the part of app.QuoteEngine the presenter uses.
type Engine interface {
	Transform(ctx context.Context, intents <-chan domain.Intent) app.Output
	Close()
}

// Apply maps one output event onto the view.
func Apply(view View, event domain.OutputEvent) {
	switch ev := event.(type) {
	case domain.QuoteFetched:
		view.SetText(ev.Quote.Content)
	case domain.FetchFailed:
		view.SetText(ev.Err.Description)
	case domain.BusyStateChanged:
		view.SetRefreshEnabled(!ev.IsBusy)
		if ev.IsBusy {
			view.SetRefreshEmphasis(EmphasisMuted)
		} else {
			view.SetRefreshEmphasis(EmphasisFull)
		}
	}
}

// Presenter owns the intent channel and the subscription for one screen.
type Presenter struct {
	ctx    context.Context
	engine Engine
	view   View
	output app.Output
	sub    *eventbus.Subscription

	mu      sync.Mutex
	intents chan domain.Intent
	closed  bool

	appeared atomic.Bool
	enabled  atomic.Bool
	teardown sync.Once
}

// Bind puts view in its initial state, starts the engine on a fresh intent
// channel and subscribes to its output. Call it on the view's owning context.
func Bind(ctx context.Context, engine Engine, view View) *Presenter {
	p := &Presenter{
		ctx:     ctx,
		engine:  engine,
		view:    view,
		intents: make(chan domain.Intent),
	}

	view.SetText(PlaceholderText)
	view.SetRefreshEnabled(true)
	view.SetRefreshEmphasis(EmphasisFull)
	p.enabled.Store(true)

	ref := weak.Make(p)
	p.output = engine.Transform(ctx, p.intents)
	p.sub = p.output.Subscribe(func(ev domain.OutputEvent) {
		if presenter := ref.Value(); presenter != nil {
			presenter.apply(ev)
		}
	})

	return p
}

// Appeared reports that the screen became visible. Only the first call
// sends an intent; it reports whether it did.
func (p *Presenter) Appeared() bool {
	if !p.appeared.CompareAndSwap(false, true) {
		return false
	}

	return p.send(domain.IntentViewAppeared)
}

// RefreshTapped reports a tap on the refresh control. Taps while the control
// is disabled are ignored, as a disabled button would ignore them.
func (p *Presenter) RefreshTapped() bool {
	if !p.enabled.Load() {
		return false
	}

	return p.send(domain.IntentRefreshRequested)
}

// Subscribe adds another observer of the engine output, such as an event
// stream. Handlers run on the dispatcher; the caller cancels the handle.
func (p *Presenter) Subscribe(h func(domain.OutputEvent)) *eventbus.Subscription {
	return p.output.Subscribe(h)
}

// RefreshEnabled reports the control's current state.
func (p *Presenter) RefreshEnabled() bool {
	return p.enabled.Load()
}

// Teardown releases the subscription, ends the intent stream and closes the
// engine. Fetches still in flight complete into nothing. Safe to call twice.
func (p *Presenter) Teardown() {
	p.teardown.Do(func() {
		p.sub.Cancel()

		p.mu.Lock()
		p.closed = true
		close(p.intents)
		p.mu.Unlock()

		p.engine.Close()
	})
}

func (p *Presenter) apply(ev domain.OutputEvent) {
	if busy, ok := ev.(domain.BusyStateChanged); ok {
		p.enabled.Store(!busy.IsBusy)
	}

	Apply(p.view, ev)
}

func (p *Presenter) send(intent domain.Intent) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return false
	}

	select {
	case p.intents <- intent:
		return true
	case <-p.ctx.Done():
		return false
	}
}
