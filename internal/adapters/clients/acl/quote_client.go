package acl

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/jsamuelsen/quote-screen/internal/adapters/clients"
	"github.com/jsamuelsen/quote-screen/internal/domain"
	"github.com/jsamuelsen/quote-screen/internal/platform/logging"
)

const randomQuotePath = "/random"

// QuoteClientConfig contains configuration for the quote client.
type QuoteClientConfig struct {
	// Client is the HTTP client to use for requests.
	// The client's BaseURL should be set to the quote API endpoint.
	Client *clients.Client

	// Logger is the structured logger.
	Logger *slog.Logger
}

// QuoteClient implements ports.QuoteFetcher and ports.HealthChecker against
// the quotable.io API.
type QuoteClient struct {
	client    *clients.Client
	logger    *slog.Logger
	translate Translator[quotableResponse, domain.Quote]
}

// NewQuoteClient creates a new quote client adapter.
// Panics if Client is nil. Defaults logger to slog.Default() if nil.
func NewQuoteClient(cfg QuoteClientConfig) *QuoteClient {
	if cfg.Client == nil {
		panic("QuoteClient: Client is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &QuoteClient{
		client:    cfg.Client,
		logger:    logger.With(slog.String("component", "acl.QuoteClient")),
		translate: toDomainQuote,
	}
}

// quotableResponse is the subset of the quotable.io payload the domain needs.
// Pointer fields distinguish a missing key from an empty string.
type quotableResponse struct {
	Author  *string `json:"author"  validate:"required"`
	Content *string `json:"content" validate:"required"`
}

func toDomainQuote(ext *quotableResponse) (domain.Quote, error) {
	return domain.Quote{Author: *ext.Author, Content: *ext.Content}, nil
}

// FetchRandomQuote performs one GET /random. Every error is a *domain.ErrorInfo.
func (c *QuoteClient) FetchRandomQuote(ctx context.Context) (domain.Quote, error) {
	quote, err := c.fetch(ctx)
	if err != nil {
		info := domain.NewErrorInfo(err)
		c.logger.WarnContext(ctx, "quote fetch failed",
			slog.String("kind", string(info.Kind)),
			slog.String("error", info.Description),
		)

		return domain.Quote{}, info
	}

	return quote, nil
}

func (c *QuoteClient) fetch(ctx context.Context) (domain.Quote, error) {
	c.logger.Log(ctx, logging.LevelTrace, "starting request", slog.String("path", randomQuotePath))

	resp, err := c.client.Get(ctx, randomQuotePath)
	if err != nil {
		return domain.Quote{}, MapHTTPError(nil, err, c.Name())
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Log(ctx, logging.LevelTrace, "request complete",
		slog.String("path", randomQuotePath),
		slog.Int("status", resp.StatusCode))

	if err := MapHTTPError(resp, nil, c.Name()); err != nil {
		return domain.Quote{}, err
	}

	ext, err := DecodeResponse[quotableResponse](resp.Body)
	if err != nil {
		return domain.Quote{}, err
	}

	quote, err := c.translate(ext)
	if err != nil {
		return domain.Quote{}, err
	}

	c.logger.DebugContext(ctx, "quote fetched", slog.String("author", quote.Author))

	return quote, nil
}

// Name returns the health check name for this client.
// Implements ports.HealthChecker.
func (c *QuoteClient) Name() string {
	return c.client.ServiceName()
}

// Check verifies the API answers /random with a 2xx.
// Implements ports.HealthChecker.
func (c *QuoteClient) Check(ctx context.Context) error {
	resp, err := c.client.Get(ctx, randomQuotePath)
	if err != nil {
		return MapHTTPError(nil, err, c.Name())
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return MapHTTPError(resp, nil, c.Name())
	}

	return nil
}
