package middleware

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quote-screen/internal/platform/logging"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// syncBuffer lets a handler and the test read the same log output.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// withLogger installs a text logger writing to buf as the request's context logger.
func withLogger(buf *syncBuffer) gin.HandlerFunc {
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(logging.WithContext(c.Request.Context(), logger))
		c.Next()
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name             string
		existingHeaderID string
	}{
		{name: "generates UUID when no header present"},
		{name: "passes through existing header", existingHeaderID: "existing-req-123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var capturedID, capturedContextID string

			router := gin.New()
			router.Use(RequestID())
			router.GET("/test", func(c *gin.Context) {
				capturedID = GetRequestID(c)
				capturedContextID = RequestIDFromContext(c.Request.Context())
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.existingHeaderID != "" {
				req.Header.Set(HeaderRequestID, tt.existingHeaderID)
			}

			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)

			responseHeader := w.Header().Get(HeaderRequestID)
			assert.Equal(t, responseHeader, capturedID)
			assert.Equal(t, capturedID, capturedContextID)

			if tt.existingHeaderID != "" {
				assert.Equal(t, tt.existingHeaderID, capturedID)
			} else {
				_, err := uuid.Parse(capturedID)
				require.NoError(t, err)
			}
		})
	}
}

func TestRequestIDMiddleware_TagsContextLogger(t *testing.T) {
	t.Parallel()

	buf := &syncBuffer{}

	router := gin.New()
	router.Use(withLogger(buf), RequestID())
	router.GET("/test", func(c *gin.Context) {
		logging.FromContext(c.Request.Context()).Info("inside handler")
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(HeaderRequestID, "req-42")
	router.ServeHTTP(httptest.NewRecorder(), req)

	assert.Contains(t, buf.String(), "request_id=req-42")
}

func TestGetRequestID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		setup func(*gin.Context)
		want  string
	}{
		{name: "not set", setup: func(*gin.Context) {}, want: ""},
		{name: "set", setup: func(c *gin.Context) { c.Set(ContextKeyRequestID, "abc") }, want: "abc"},
		{name: "wrong type", setup: func(c *gin.Context) { c.Set(ContextKeyRequestID, 12345) }, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			tt.setup(c)

			assert.Equal(t, tt.want, GetRequestID(c))
		})
	}
}

func TestRequestIDFromContext(t *testing.T) {
	t.Parallel()

	ctx := ContextWithRequestID(context.Background(), "req-1")

	assert.Equal(t, "req-1", RequestIDFromContext(ctx))
	assert.Empty(t, RequestIDFromContext(context.Background()))
	assert.Empty(t, RequestIDFromContext(nil)) //nolint:staticcheck // nil context is handled
}

func TestLogging(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		path      string
		status    int
		wantLevel string
		wantPath  string
	}{
		{name: "ok at info", path: "/api/v1/screen", status: http.StatusOK, wantLevel: "level=INFO", wantPath: "/api/v1/screen"},
		{name: "query kept", path: "/api/v1/screen?x=1", status: http.StatusOK, wantLevel: "level=INFO", wantPath: "/api/v1/screen?x=1"},
		{name: "409 at warn", path: "/api/v1/screen/refresh", status: http.StatusConflict, wantLevel: "level=WARN", wantPath: "/api/v1/screen/refresh"},
		{name: "500 at error", path: "/api/v1/screen", status: http.StatusInternalServerError, wantLevel: "level=ERROR", wantPath: "/api/v1/screen"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			buf := &syncBuffer{}

			router := gin.New()
			router.Use(withLogger(buf), Logging())
			router.Any("/api/v1/*rest", func(c *gin.Context) { c.Status(tt.status) })

			router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, tt.path, nil))

			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
			require.Len(t, lines, 2)
			assert.Contains(t, lines[0], `msg="request started"`)
			assert.Contains(t, lines[1], `msg="request completed"`)
			assert.Contains(t, lines[1], tt.wantLevel)
			assert.Contains(t, lines[1], tt.wantPath)
		})
	}
}

func TestLogging_SkipsProbePaths(t *testing.T) {
	t.Parallel()

	buf := &syncBuffer{}

	router := gin.New()
	router.Use(withLogger(buf), Logging())
	router.GET("/-/ready", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/-/ready", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, buf.String())
}

func TestRecovery(t *testing.T) {
	t.Parallel()

	t.Run("normal request passes through", func(t *testing.T) {
		t.Parallel()

		router := gin.New()
		router.Use(Recovery())
		router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("panicking handler returns 500 and logs the stack", func(t *testing.T) {
		t.Parallel()

		buf := &syncBuffer{}

		router := gin.New()
		router.Use(withLogger(buf), Recovery())
		router.GET("/test", func(*gin.Context) { panic("something went wrong") })

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":{"code":"INTERNAL_ERROR","message":"an internal error occurred"}}`, w.Body.String())
		assert.Contains(t, buf.String(), "panic recovered")
		assert.Contains(t, buf.String(), "something went wrong")
	})

	t.Run("panic after the body started keeps the written status", func(t *testing.T) {
		t.Parallel()

		router := gin.New()
		router.Use(Recovery())
		router.GET("/test", func(c *gin.Context) {
			c.String(http.StatusOK, "partial")
			panic("late failure")
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "partial", w.Body.String())
	})
}

func TestMiddlewareChain(t *testing.T) {
	t.Parallel()

	buf := &syncBuffer{}

	router := gin.New()
	router.Use(withLogger(buf), Recovery(), RequestID(), Logging())
	router.GET("/api/v1/screen", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/api/v1/screen", nil)
	req.Header.Set(HeaderRequestID, "chain-1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "chain-1", w.Header().Get(HeaderRequestID))
	assert.Equal(t, 2, strings.Count(buf.String(), "request_id=chain-1"))
}
