package acl

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quote-screen/internal/adapters/clients"
	"github.com/jsamuelsen/quote-screen/internal/domain"
	"github.com/jsamuelsen/quote-screen/internal/ports"
)

var (
	_ ports.QuoteFetcher  = (*QuoteClient)(nil)
	_ ports.HealthChecker = (*QuoteClient)(nil)
)

func newQuoteClient(t *testing.T, baseURL string) *QuoteClient {
	t.Helper()

	client, err := clients.New(&clients.Config{
		ServiceName: "quote-service",
		BaseURL:     baseURL,
		Timeout:     5 * time.Second,
	})
	require.NoError(t, err)

	return NewQuoteClient(QuoteClientConfig{
		Client: client,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

// setupQuoteClient creates a QuoteClient with a test HTTP server.
func setupQuoteClient(t *testing.T, handler http.HandlerFunc) *QuoteClient {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return newQuoteClient(t, server.URL)
}

func respond(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

func TestNewQuoteClient_PanicsWithoutClient(t *testing.T) {
	assert.Panics(t, func() {
		NewQuoteClient(QuoteClientConfig{})
	})
}

func TestQuoteClient_FetchRandomQuote_Success(t *testing.T) {
	var gotPath string

	client := setupQuoteClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		respond(http.StatusOK, `{"author":"A","content":"C"}`)(w, r)
	})

	quote, err := client.FetchRandomQuote(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "/random", gotPath)
	assert.Equal(t, domain.Quote{Author: "A", Content: "C"}, quote)
}

func TestQuoteClient_FetchRandomQuote_IgnoresExtraFields(t *testing.T) {
	client := setupQuoteClient(t, respond(http.StatusOK,
		`{"_id":"x1","author":"Ada","content":"Hello","tags":["a"],"length":5}`))

	quote, err := client.FetchRandomQuote(context.Background())

	require.NoError(t, err)
	assert.Equal(t, domain.Quote{Author: "Ada", Content: "Hello"}, quote)
}

func TestQuoteClient_FetchRandomQuote_EmptyStringsAreValid(t *testing.T) {
	client := setupQuoteClient(t, respond(http.StatusOK, `{"author":"","content":""}`))

	quote, err := client.FetchRandomQuote(context.Background())

	require.NoError(t, err)
	assert.Equal(t, domain.Quote{}, quote)
}

func TestQuoteClient_FetchRandomQuote_Failures(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		kind        domain.ErrorKind
		description []string
	}{
		{
			name:        "server error",
			status:      http.StatusInternalServerError,
			body:        ``,
			kind:        domain.ErrorKindTransport,
			description: []string{"quote-service", "HTTP 500"},
		},
		{
			name:        "not found with quotable error body",
			status:      http.StatusNotFound,
			body:        `{"statusCode":404,"statusMessage":"The requested resource could not be found"}`,
			kind:        domain.ErrorKindTransport,
			description: []string{"HTTP 404", "The requested resource could not be found"},
		},
		{
			name:        "rate limited with plain message",
			status:      http.StatusTooManyRequests,
			body:        `{"message":"slow down"}`,
			kind:        domain.ErrorKindTransport,
			description: []string{"HTTP 429: slow down"},
		},
		{
			name:        "malformed json",
			status:      http.StatusOK,
			body:        `not json`,
			kind:        domain.ErrorKindDecode,
			description: []string{"invalid quote response"},
		},
		{
			name:        "missing content",
			status:      http.StatusOK,
			body:        `{"author":"A"}`,
			kind:        domain.ErrorKindDecode,
			description: []string{`key "content" not found`},
		},
		{
			name:        "missing both keys",
			status:      http.StatusOK,
			body:        `{}`,
			kind:        domain.ErrorKindDecode,
			description: []string{`key "author" not found`, `key "content" not found`},
		},
		{
			name:        "wrong type",
			status:      http.StatusOK,
			body:        `{"author":1,"content":"C"}`,
			kind:        domain.ErrorKindDecode,
			description: []string{"invalid quote response"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := setupQuoteClient(t, respond(tt.status, tt.body))

			quote, err := client.FetchRandomQuote(context.Background())

			require.Error(t, err)
			assert.Equal(t, domain.Quote{}, quote)

			var info *domain.ErrorInfo
			require.ErrorAs(t, err, &info)
			assert.Equal(t, tt.kind, info.Kind)

			for _, want := range tt.description {
				assert.Contains(t, info.Description, want)
			}
		})
	}
}

func TestQuoteClient_FetchRandomQuote_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := newQuoteClient(t, url)

	_, err := client.FetchRandomQuote(context.Background())

	require.Error(t, err)
	assert.True(t, domain.IsTransport(err))
	assert.Contains(t, err.Error(), `service "quote-service" unreachable`)
}

func TestQuoteClient_Name(t *testing.T) {
	client := setupQuoteClient(t, respond(http.StatusOK, `{}`))
	assert.Equal(t, "quote-service", client.Name())
}

func TestQuoteClient_Check(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		client := setupQuoteClient(t, respond(http.StatusOK, `{"author":"A","content":"C"}`))
		assert.NoError(t, client.Check(context.Background()))
	})

	t.Run("unhealthy", func(t *testing.T) {
		client := setupQuoteClient(t, respond(http.StatusBadGateway, ``))

		err := client.Check(context.Background())
		require.Error(t, err)
		assert.True(t, domain.IsTransport(err))
		assert.Contains(t, err.Error(), "HTTP 502")
	})
}
