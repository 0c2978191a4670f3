// Package main runs the quote screen as a headless HTTP service.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/jsamuelsen/quote-screen/internal/adapters/clients"
	"github.com/jsamuelsen/quote-screen/internal/adapters/clients/acl"
	"github.com/jsamuelsen/quote-screen/internal/adapters/http"
	"github.com/jsamuelsen/quote-screen/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quote-screen/internal/app"
	"github.com/jsamuelsen/quote-screen/internal/platform/config"
	"github.com/jsamuelsen/quote-screen/internal/platform/dispatch"
	"github.com/jsamuelsen/quote-screen/internal/platform/logging"
	"github.com/jsamuelsen/quote-screen/internal/platform/telemetry"
	"github.com/jsamuelsen/quote-screen/internal/ports"
)

// Build-time variables, injected via ldflags.
// Example: go build -ldflags "-X main.Version=1.0.0 -X main.Commit=$(git rev-parse HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	// Version is the semantic version of the service.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "unknown"

	// BuildTime is the timestamp when the binary was built.
	BuildTime = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Determine profile from environment
	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	// 2. Load and validate configuration (fail fast)
	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// 3. Initialize logging
	logger := logging.New(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
	slog.SetDefault(logger)
	logging.SetDefault(logger)
	ctx = logging.WithContext(ctx, logger)

	logger.Info("starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
	)

	// 4. Initialize telemetry; Prometheus is served even with OTLP export off
	telProvider, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if shutdownErr := telProvider.Shutdown(context.WithoutCancel(ctx)); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	// 5. Create the quote API client (single attempt, no retries)
	httpClient, err := clients.New(&clients.Config{
		BaseURL:     cfg.Services.Quote.BaseURL,
		ServiceName: cfg.Services.Quote.Name,
		Timeout:     cfg.Client.Timeout,
		Transport:   cfg.Client.Transport,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("creating HTTP client: %w", err)
	}

	quoteClient := acl.NewQuoteClient(acl.QuoteClientConfig{
		Client: httpClient,
		Logger: logger,
	})

	// 6. Register the quote API as a readiness dependency
	healthRegistry := ports.NewHealthRegistry()
	if err := healthRegistry.Register(quoteClient); err != nil {
		return fmt.Errorf("registering quote client health check: %w", err)
	}

	// 7. Create the engine and bind the screen; the loop owns screen state
	loop := dispatch.NewLoop()
	engine := app.NewQuoteEngine(app.QuoteEngineConfig{
		Fetcher:    quoteClient,
		Dispatcher: loop,
		Logger:     logger,
	})
	screenHandler := handlers.NewScreenHandler(ctx, loop, engine)

	// 8. Create HTTP server and routes
	buildInfo := handlers.NewBuildInfo(Version, Commit, BuildTime)
	server := http.New(&cfg.Server, logger)
	http.SetupRouter(server.Engine(), http.RouterConfig{
		ServiceName:   cfg.App.Name,
		HealthHandler: handlers.NewHealthHandler(healthRegistry, buildInfo, telProvider.MetricsHandler()),
		ScreenHandler: screenHandler,
	})

	// 9. Serve until a signal arrives or something fails
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return ignoreCanceled(loop.Run(gctx))
	})
	g.Go(func() error {
		return server.ListenAndServe(gctx)
	})

	err = g.Wait()

	logger.Info("initiating graceful shutdown")

	// 10. Release the screen; in-flight fetches finish into nothing
	screenHandler.Teardown()
	engine.Wait()

	if err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	logger.Info("shutdown complete")

	return nil
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}

	return err
}
