// Package app contains the application layer: the quote engine that turns
// screen intents into output events.
package app

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
	"weak"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/quote-screen/internal/domain"
	"github.com/jsamuelsen/quote-screen/internal/eventbus"
	"github.com/jsamuelsen/quote-screen/internal/platform/dispatch"
	"github.com/jsamuelsen/quote-screen/internal/platform/logging"
	"github.com/jsamuelsen/quote-screen/internal/platform/telemetry"
	"github.com/jsamuelsen/quote-screen/internal/ports"
)

// QuoteEngineConfig contains dependencies for QuoteEngine.
type QuoteEngineConfig struct {
	// Fetcher retrieves quotes. Required.
	Fetcher ports.QuoteFetcher

	// Dispatcher delivers output events to the screen's owning context.
	// Defaults to dispatch.Immediate.
	Dispatcher ports.Dispatcher

	// Logger is the structured logger. Defaults to slog.Default().
	Logger *slog.Logger

	// MeterProvider and TracerProvider default to the otel globals.
	MeterProvider  metric.MeterProvider
	TracerProvider trace.TracerProvider
}

// QuoteEngine turns a stream of intents into output events.
//
// Every intent starts one fetch. The engine publishes BusyStateChanged{true}
// before the fetch starts, and BusyStateChanged{false} immediately followed
// by QuoteFetched or FetchFailed when it resolves. Both deliveries go through
// the Dispatcher. Intents are never deduplicated and fetches are never
// cancelled, so overlapping fetches interleave their events.
type QuoteEngine struct {
	fetcher    ports.QuoteFetcher
	dispatcher ports.Dispatcher
	logger     *slog.Logger
	tracer     trace.Tracer
	metrics    *engineMetrics

	bus    *eventbus.Bus[domain.OutputEvent]
	closed atomic.Bool

	// Allocated apart from the engine so in-flight fetches can track
	// themselves without keeping the engine reachable.
	wg *sync.WaitGroup
}

// NewQuoteEngine creates a new quote engine.
// Panics if Fetcher is nil.
func NewQuoteEngine(cfg QuoteEngineConfig) *QuoteEngine {
	if cfg.Fetcher == nil {
		panic("QuoteEngine: Fetcher is required")
	}

	dispatcher := cfg.Dispatcher
	if dispatcher == nil {
		dispatcher = dispatch.Immediate{}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mp := cfg.MeterProvider
	if mp == nil {
		mp = otel.GetMeterProvider()
	}

	tp := cfg.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}

	metrics, err := newEngineMetrics(mp)
	if err != nil {
		otel.Handle(err)
	}

	return &QuoteEngine{
		fetcher:    cfg.Fetcher,
		dispatcher: dispatcher,
		logger:     logger.With(slog.String("component", "app.QuoteEngine")),
		tracer:     tp.Tracer(telemetry.InstrumentationName),
		metrics:    metrics,
		bus:        eventbus.New[domain.OutputEvent](),
		wg:         &sync.WaitGroup{},
	}
}

// Output is the engine's event stream. Subscribers receive events on the
// engine's Dispatcher.
type Output struct {
	bus *eventbus.Bus[domain.OutputEvent]
}

// Subscribe registers h and returns the handle that releases it.
func (o Output) Subscribe(h func(domain.OutputEvent)) *eventbus.Subscription {
	return o.bus.Subscribe(h)
}

// Transform consumes intents until the channel is closed or ctx is done.
// It returns immediately. Fetches already started outlive both.
func (e *QuoteEngine) Transform(ctx context.Context, intents <-chan domain.Intent) Output {
	e.wg.Add(1)

	go func() {
		defer e.wg.Done()

		for {
			select {
			case <-ctx.Done():
				return
			case intent, ok := <-intents:
				if !ok {
					return
				}

				e.handleFetch(ctx, intent)
			}
		}
	}()

	return Output{bus: e.bus}
}

// Close tears the engine down. Subscribers are dropped and completions of
// fetches still in flight become no-ops. Close is idempotent.
func (e *QuoteEngine) Close() {
	if e.closed.Swap(true) {
		return
	}

	e.bus.Close()
	e.logger.Debug("quote engine closed")
}

// Wait blocks until every Transform consumer has returned and every fetch
// has handed its completion to the Dispatcher.
func (e *QuoteEngine) Wait() {
	e.wg.Wait()
}

func (e *QuoteEngine) handleFetch(ctx context.Context, intent domain.Intent) {
	if e.closed.Load() {
		return
	}

	fetchID := uuid.NewString()
	logger := e.logger.With(
		slog.String("fetch_id", fetchID),
		slog.String("intent", intent.String()),
	)
	e.metrics.intent(ctx, intent)

	ref := weak.Make(e)
	dispatcher, metrics, wg := e.dispatcher, e.metrics, e.wg
	deliver := func(events ...domain.OutputEvent) {
		dispatcher.Dispatch(func() {
			engine := ref.Value()
			if engine == nil || engine.closed.Load() {
				logger.Debug("engine gone, dropping events")
				return
			}

			for _, ev := range events {
				engine.bus.Publish(ev)
			}
		})
	}

	logger.Debug("fetch started")
	deliver(domain.BusyStateChanged{IsBusy: true})

	fetchCtx := logging.WithContext(context.WithoutCancel(ctx), logger)
	fetchCtx = logging.WithFetchID(fetchCtx, fetchID)
	fetchCtx, span := e.tracer.Start(fetchCtx, "quote.fetch",
		trace.WithAttributes(
			attribute.String("quote.fetch_id", fetchID),
			attribute.String("quote.intent", intent.String()),
		),
	)

	metrics.started(fetchCtx)
	start := time.Now()
	results := FetchAsync(fetchCtx, e.fetcher)

	wg.Add(1)

	// Holds only ref, so an engine its owner dropped can be collected mid-fetch.
	go func() {
		defer wg.Done()
		defer span.End()

		result := <-results
		outcome := result.Outcome()
		metrics.finished(fetchCtx, outcome, time.Since(start))

		if result.Err != nil {
			span.SetStatus(codes.Error, result.Err.Description)
			logger.Warn("fetch failed",
				slog.String("kind", string(result.Err.Kind)),
				slog.String("error", result.Err.Description),
			)
		} else {
			logger.Debug("fetch succeeded", slog.String("author", result.Quote.Author))
		}

		deliver(domain.BusyStateChanged{IsBusy: false}, result.Event())
	}()
}

type engineMetrics struct {
	intents  metric.Int64Counter
	fetches  metric.Int64Counter
	duration metric.Float64Histogram
	inFlight metric.Int64UpDownCounter
}

func newEngineMetrics(mp metric.MeterProvider) (*engineMetrics, error) {
	meter := mp.Meter(telemetry.InstrumentationName)

	intents, err := meter.Int64Counter("quote.intents.total",
		metric.WithDescription("Intents received by the quote engine"))
	if err != nil {
		return nil, err
	}

	fetches, err := meter.Int64Counter("quote.fetch.total",
		metric.WithDescription("Completed quote fetches by outcome"))
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram("quote.fetch.duration",
		metric.WithDescription("Quote fetch duration in seconds"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	inFlight, err := meter.Int64UpDownCounter("quote.fetch.in_flight",
		metric.WithDescription("Quote fetches currently in flight"))
	if err != nil {
		return nil, err
	}

	return &engineMetrics{intents: intents, fetches: fetches, duration: duration, inFlight: inFlight}, nil
}

func (m *engineMetrics) intent(ctx context.Context, intent domain.Intent) {
	if m == nil {
		return
	}

	m.intents.Add(ctx, 1, metric.WithAttributes(attribute.String("intent", intent.String())))
}

func (m *engineMetrics) started(ctx context.Context) {
	if m == nil {
		return
	}

	m.inFlight.Add(ctx, 1)
}

func (m *engineMetrics) finished(ctx context.Context, outcome string, d time.Duration) {
	if m == nil {
		return
	}

	m.inFlight.Add(ctx, -1)
	m.fetches.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	m.duration.Record(ctx, d.Seconds(), metric.WithAttributes(attribute.String("outcome", outcome)))
}
