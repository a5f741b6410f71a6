// Package clients provides the instrumented outbound HTTP client used by the
// notification channels.
package clients

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/jsamuelsen/supplier-catalog/internal/domain"
)

// Client errors. Callers translate them with MapResponseError.
var (
	// ErrCircuitOpen is returned while the breaker blocks calls to an unhealthy endpoint.
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrMaxRetriesExceeded wraps the last error once every attempt failed.
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")
)

// maxErrorBody bounds how much of an error response is read for context.
const maxErrorBody = 4 << 10

// errorBody covers the nested {"error":{"message":...}} and flat
// {"message":...} shapes chat webhooks return, plus Slack's {"ok":false,"error":"..."}.
type errorBody struct {
	Message string          `json:"message"`
	Error   json.RawMessage `json:"error"`
}

func (b errorBody) text() string {
	if b.Message != "" {
		return b.Message
	}

	if len(b.Error) == 0 {
		return ""
	}

	var nested struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(b.Error, &nested) == nil && nested.Message != "" {
		return nested.Message
	}

	var flat string
	if json.Unmarshal(b.Error, &flat) == nil {
		return flat
	}

	return ""
}

// ErrorMessage extracts a human-readable message from an error response body.
// It returns "" when the body is empty or not JSON.
func ErrorMessage(body io.Reader) string {
	if body == nil {
		return ""
	}

	var b errorBody
	if err := json.NewDecoder(io.LimitReader(body, maxErrorBody)).Decode(&b); err != nil {
		return ""
	}

	return b.text()
}

// MapResponseError turns a failed call into a domain error. Every failure of
// an outbound channel is an availability problem from the caller's point of
// view, except a rejected payload, which is reported as a validation error so
// it is not retried blindly.
func MapResponseError(resp *http.Response, clientErr error, endpoint, operation string) error {
	if clientErr != nil {
		switch {
		case errors.Is(clientErr, ErrCircuitOpen):
			return domain.NewUnavailableError(endpoint, fmt.Sprintf("circuit breaker open during %s", operation))
		case errors.Is(clientErr, ErrMaxRetriesExceeded):
			return domain.NewUnavailableError(endpoint, fmt.Sprintf("max retries exceeded during %s: %v", operation, clientErr))
		default:
			return domain.NewUnavailableError(endpoint, fmt.Sprintf("%s failed: %v", operation, clientErr))
		}
	}

	if resp == nil {
		return domain.NewUnavailableError(endpoint, "no response received")
	}

	if resp.StatusCode < http.StatusBadRequest {
		return nil
	}

	msg := ErrorMessage(resp.Body)
	if msg == "" {
		msg = fmt.Sprintf("%s failed with status %d", operation, resp.StatusCode)
	}

	switch resp.StatusCode {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return domain.NewValidationError("payload", msg)
	case http.StatusUnauthorized, http.StatusForbidden:
		return domain.NewForbiddenError(operation, msg)
	case http.StatusNotFound, http.StatusGone:
		// The webhook was deleted or the URL is wrong.
		return domain.NewUnavailableError(endpoint, "endpoint not found: "+msg)
	default:
		return domain.NewUnavailableError(endpoint, msg)
	}
}
