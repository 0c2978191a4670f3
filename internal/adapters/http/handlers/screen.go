package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quote-screen/internal/adapters/http/dto"
	"github.com/jsamuelsen/quote-screen/internal/adapters/presenter"
	"github.com/jsamuelsen/quote-screen/internal/domain"
	"github.com/jsamuelsen/quote-screen/internal/platform/dispatch"
	"github.com/jsamuelsen/quote-screen/internal/platform/logging"
)

// DefaultStreamBuffer is how many events one slow event stream may fall behind
// before further events are dropped for it.
const DefaultStreamBuffer = 32

// ScreenState is the headless screen. It is only touched on the loop.
type ScreenState struct {
	text     string
	enabled  bool
	emphasis presenter.Emphasis
}

var _ presenter.View = (*ScreenState)(nil)

// SetText implements presenter.View.
func (s *ScreenState) SetText(text string) { s.text = text }

// SetRefreshEnabled implements presenter.View.
func (s *ScreenState) SetRefreshEnabled(enabled bool) { s.enabled = enabled }

// SetRefreshEmphasis implements presenter.View.
func (s *ScreenState) SetRefreshEmphasis(emphasis presenter.Emphasis) { s.emphasis = emphasis }

func (s *ScreenState) snapshot() dto.ScreenResponse {
	return dto.ScreenResponse{
		Text: s.text,
		Refresh: dto.RefreshControl{
			Label:    presenter.RefreshLabel,
			Enabled:  s.enabled,
			Emphasis: s.emphasis.String(),
		},
	}
}

// ScreenHandler serves the quote screen over HTTP.
type ScreenHandler struct {
	loop         *dispatch.Loop
	state        *ScreenState
	presenter    *presenter.Presenter
	streamBuffer int
}

// NewScreenHandler binds a fresh screen to engine. The engine must dispatch
// on loop, and loop must not be running yet: binding writes the initial state.
func NewScreenHandler(ctx context.Context, loop *dispatch.Loop, engine presenter.Engine) *ScreenHandler {
	state := &ScreenState{}

	return &ScreenHandler{
		loop:         loop,
		state:        state,
		presenter:    presenter.Bind(ctx, engine, state),
		streamBuffer: DefaultStreamBuffer,
	}
}

// Teardown releases the screen and closes its engine.
func (h *ScreenHandler) Teardown() {
	h.presenter.Teardown()
}

// GetScreen handles GET /api/v1/screen.
// The first request counts as the screen appearing and starts the first fetch.
func (h *ScreenHandler) GetScreen(c *gin.Context) {
	h.presenter.Appeared()

	snap, ok := h.snapshot(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, snap)
}

// Refresh handles POST /api/v1/screen/refresh.
// Returns 202 when a refresh was requested and 409 while the control is disabled.
func (h *ScreenHandler) Refresh(c *gin.Context) {
	if !h.presenter.RefreshTapped() {
		dto.RespondWithErrorCode(c, dto.ErrorCodeConflict, "refresh is disabled while a quote is loading")
		return
	}

	c.JSON(http.StatusAccepted, dto.RefreshAccepted{Status: "accepted"})
}

// Events handles GET /api/v1/screen/events as a server-sent event stream.
// It opens with a "screen" snapshot, then relays every engine output event.
// The subscription is released when the client goes away.
func (h *ScreenHandler) Events(c *gin.Context) {
	ctx := c.Request.Context()
	logger := logging.FromContext(ctx)

	events := make(chan dto.ScreenEvent, h.streamBuffer)
	sub := h.presenter.Subscribe(func(ev domain.OutputEvent) {
		select {
		case events <- dto.NewScreenEvent(ev):
		default:
			logger.Warn("screen event dropped for slow stream", slog.Any("event", ev))
		}
	})
	defer sub.Cancel()

	snap, ok := h.snapshot(c)
	if !ok {
		return
	}

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.SSEvent(dto.EventScreen, snap)
	c.Writer.Flush()

	logger.Debug("screen stream opened")

	c.Stream(func(io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case ev := <-events:
			c.SSEvent(ev.Type, ev)
			return true
		}
	})

	logger.Debug("screen stream closed")
}

// RegisterScreenRoutes registers the screen routes on the given router group.
func (h *ScreenHandler) RegisterScreenRoutes(rg *gin.RouterGroup) {
	screen := rg.Group("/screen")
	screen.GET("", h.GetScreen)
	screen.POST("/refresh", h.Refresh)
	screen.GET("/events", h.Events)
}

// snapshot reads the state on the loop, answering the request itself when it can't.
func (h *ScreenHandler) snapshot(c *gin.Context) (dto.ScreenResponse, bool) {
	var snap dto.ScreenResponse

	err := h.loop.Call(c.Request.Context(), func() { snap = h.state.snapshot() })
	switch {
	case err == nil:
		return snap, true
	case errors.Is(err, dispatch.ErrStopped):
		dto.RespondWithErrorCode(c, dto.ErrorCodeUnavailable, "screen has shut down")
	default:
		dto.RespondWithErrorCode(c, dto.ErrorCodeTimeout, "gave up waiting for the screen")
	}

	return dto.ScreenResponse{}, false
}
