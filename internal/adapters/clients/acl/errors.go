package acl

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/jsamuelsen/quote-screen/internal/domain"
)

// maxErrorBody caps how much of an error response is read for its message.
const maxErrorBody = 4 << 10

// ErrorResponse is the error body shape returned by the quote API. Both the
// quotable format (statusCode/statusMessage) and a plain message are accepted.
type ErrorResponse struct {
	StatusCode    int    `json:"statusCode,omitempty"`
	StatusMessage string `json:"statusMessage,omitempty"`
	Message       string `json:"message,omitempty"`
}

// GetMessage returns whichever message field is set.
func (e *ErrorResponse) GetMessage() string {
	if e.StatusMessage != "" {
		return e.StatusMessage
	}

	return e.Message
}

// ParseErrorResponse attempts to parse an error response body.
// Returns nil if the body is empty, unparseable or carries no message.
func ParseErrorResponse(body io.Reader) *ErrorResponse {
	if body == nil {
		return nil
	}

	var errResp ErrorResponse
	if err := json.NewDecoder(io.LimitReader(body, maxErrorBody)).Decode(&errResp); err != nil {
		return nil
	}

	if errResp.GetMessage() == "" {
		return nil
	}

	return &errResp
}

// MapHTTPError maps a failed exchange to a domain error.
//
// clientErr is the error from the HTTP client, if any; resp may then be nil.
// A 2xx response with no client error maps to nil.
func MapHTTPError(resp *http.Response, clientErr error, serviceName string) error {
	if clientErr != nil {
		return domain.NewTransportError(serviceName, clientErr.Error())
	}

	if resp == nil {
		return domain.NewTransportError(serviceName, "no response received")
	}

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return nil
	}

	reason := fmt.Sprintf("HTTP %d", resp.StatusCode)
	if errResp := ParseErrorResponse(resp.Body); errResp != nil {
		reason += ": " + errResp.GetMessage()
	}

	return domain.NewTransportError(serviceName, reason)
}
