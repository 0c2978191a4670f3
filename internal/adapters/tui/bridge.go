package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jsamuelsen/quote-screen/internal/platform/dispatch"
	"github.com/jsamuelsen/quote-screen/internal/ports"
)

// applyMsg carries a dispatched function into Update, so it runs on the
// program's event loop.
type applyMsg struct {
	fn func()
}

var _ ports.Dispatcher = (*Bridge)(nil)

// Bridge is the engine's dispatcher for a bubbletea program.
//
// Program.Send blocks until the event loop accepts the message, and the
// engine must never block. Bridge queues work on a dispatch.Loop and a pump
// goroutine forwards it to the program in order.
type Bridge struct {
	loop *dispatch.Loop
	send func(tea.Msg)
}

// NewBridge creates a bridge delivering to send, usually (*tea.Program).Send.
func NewBridge(send func(tea.Msg)) *Bridge {
	return &Bridge{loop: dispatch.NewLoop(), send: send}
}

// Dispatch queues fn for the program's Update. It never blocks.
func (b *Bridge) Dispatch(fn func()) {
	b.loop.Dispatch(func() {
		b.send(applyMsg{fn: fn})
	})
}

// Run pumps queued work into the program until ctx is done.
func (b *Bridge) Run(ctx context.Context) error {
	return b.loop.Run(ctx)
}
