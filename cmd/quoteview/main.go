// Package main runs the quote screen in the terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jsamuelsen/quote-screen/internal/adapters/clients"
	"github.com/jsamuelsen/quote-screen/internal/adapters/clients/acl"
	"github.com/jsamuelsen/quote-screen/internal/adapters/tui"
	"github.com/jsamuelsen/quote-screen/internal/app"
	"github.com/jsamuelsen/quote-screen/internal/platform/config"
	"github.com/jsamuelsen/quote-screen/internal/platform/logging"
	"github.com/jsamuelsen/quote-screen/internal/platform/telemetry"
)

// Version is injected via ldflags.
var Version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// The terminal belongs to the screen: logs go to the rolling file or nowhere.
	logger := logging.NewWithWriter(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  "json",
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
	}, io.Discard)
	slog.SetDefault(logger)
	logging.SetDefault(logger)
	ctx = logging.WithContext(ctx, logger)

	logger.Info("starting quoteview", slog.String("version", Version))

	// Nothing scrapes a terminal app, so metrics stay in a private registry
	// unless OTLP export is on.
	telProvider, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
		Registry:     prometheus.NewRegistry(),
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if shutdownErr := telProvider.Shutdown(context.WithoutCancel(ctx)); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

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

	model := tui.NewModel()
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	bridge := tui.NewBridge(program.Send)
	engine := app.NewQuoteEngine(app.QuoteEngineConfig{
		Fetcher:    quoteClient,
		Dispatcher: bridge,
		Logger:     logger,
	})
	model.Bind(ctx, engine)

	pumpCtx, stopPump := context.WithCancel(ctx)
	pumpDone := make(chan struct{})
	go func() {
		defer close(pumpDone)
		_ = bridge.Run(pumpCtx)
	}()

	_, err = program.Run()

	model.Teardown()
	stopPump()
	<-pumpDone
	engine.Wait()

	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running screen: %w", err)
	}

	logger.Info("quoteview stopped")

	return nil
}
