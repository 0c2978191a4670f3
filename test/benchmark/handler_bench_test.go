package benchmark

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quote-screen/internal/adapters/http/dto"
	"github.com/jsamuelsen/quote-screen/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quote-screen/internal/adapters/http/middleware"
	"github.com/jsamuelsen/quote-screen/internal/app"
	"github.com/jsamuelsen/quote-screen/internal/domain"
	"github.com/jsamuelsen/quote-screen/internal/platform/dispatch"
	"github.com/jsamuelsen/quote-screen/internal/platform/logging"
	"github.com/jsamuelsen/quote-screen/internal/ports"
)

func init() {
	// Release mode for accurate benchmarks
	gin.SetMode(gin.ReleaseMode)
	logging.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// stubFetcher answers immediately with the same quote.
type stubFetcher struct{}

func (stubFetcher) FetchRandomQuote(context.Context) (domain.Quote, error) {
	return domain.Quote{Author: "Ada", Content: "Hello"}, nil
}

// simpleHealthChecker is a minimal health checker for benchmarking.
type simpleHealthChecker struct {
	name string
}

func (s *simpleHealthChecker) Name() string { return s.name }

func (s *simpleHealthChecker) Check(context.Context) error { return nil }

// BenchmarkEngine_RefreshRoundTrip measures one intent through to its
// terminal event with synchronous delivery.
func BenchmarkEngine_RefreshRoundTrip(b *testing.B) {
	engine := app.NewQuoteEngine(app.QuoteEngineConfig{
		Fetcher:    stubFetcher{},
		Dispatcher: dispatch.Immediate{},
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	defer engine.Close()

	intents := make(chan domain.Intent)
	defer close(intents)

	done := make(chan struct{}, 1)
	sub := engine.Transform(context.Background(), intents).Subscribe(func(ev domain.OutputEvent) {
		if _, ok := ev.(domain.QuoteFetched); ok {
			done <- struct{}{}
		}
	})
	defer sub.Cancel()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		intents <- domain.IntentRefreshRequested
		<-done
	}
}

// BenchmarkScreenEvent_Encode measures the SSE payload encoding.
func BenchmarkScreenEvent_Encode(b *testing.B) {
	events := []domain.OutputEvent{
		domain.BusyStateChanged{IsBusy: true},
		domain.BusyStateChanged{IsBusy: false},
		domain.QuoteFetched{Quote: domain.Quote{Author: "Ada", Content: "Hello"}},
	}

	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_, _ = json.Marshal(dto.NewScreenEvent(events[i%len(events)]))
	}
}

// BenchmarkScreenHandler_Get measures a screen read through the owning loop.
func BenchmarkScreenHandler_Get(b *testing.B) {
	loop := dispatch.NewLoop()
	engine := app.NewQuoteEngine(app.QuoteEngineConfig{Fetcher: stubFetcher{}, Dispatcher: loop})
	screen := handlers.NewScreenHandler(context.Background(), loop, engine)

	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = loop.Run(ctx) }()

	defer func() {
		screen.Teardown()
		cancel()
		engine.Wait()
	}()

	router := gin.New()
	screen.RegisterScreenRoutes(router.Group("/api/v1"))
	req := httptest.NewRequest(http.MethodGet, "/api/v1/screen", http.NoBody)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		router.ServeHTTP(httptest.NewRecorder(), req)
	}
}

// BenchmarkReadinessHandler_WithChecks measures readiness with registered health checks.
func BenchmarkReadinessHandler_WithChecks(b *testing.B) {
	registry := ports.NewHealthRegistry()
	_ = registry.Register(&simpleHealthChecker{name: "quote-service"})

	handler := handlers.NewHealthHandler(registry, handlers.NewBuildInfo("1.0.0", "abc123", "2024-01-01T00:00:00Z"), nil)
	router := gin.New()
	handler.RegisterHealthRoutesOnEngine(router)
	req := httptest.NewRequest(http.MethodGet, "/-/ready", http.NoBody)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		router.ServeHTTP(httptest.NewRecorder(), req)
	}
}

// BenchmarkMiddlewareChain measures the overhead of the service middleware.
func BenchmarkMiddlewareChain(b *testing.B) {
	router := gin.New()
	router.Use(middleware.Recovery(), middleware.RequestID(), middleware.Logging())
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		router.ServeHTTP(httptest.NewRecorder(), req)
	}
}
