package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/backlog-cli/bckl/internal/inference"
)

// isRetryableError determines if a transport error should trigger a back-off retry
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	// Retry on JSON parsing errors as they might be due to incomplete responses
	errStr := err.Error()
	if strings.Contains(errStr, "json.Unmarshal") || strings.Contains(errStr, "unexpected end of JSON input") {
		return true
	}

	// Retry on network-related errors
	if strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "i/o timeout") {
		return true
	}

	// Retry on 5xx errors (server errors)
	if strings.Contains(errStr, "response error 5") {
		return true
	}

	// Retry on rate limiting (429)
	if strings.Contains(errStr, "response error 429") {
		return true
	}

	return false
}

// isParseRetryableError reports whether asking the model again right away may
// yield a usable reply. Schema violations are excluded: a structurally wrong
// reply is not a transient glitch.
func isParseRetryableError(err error) bool {
	return errors.Is(err, inference.ErrNoJSON) || errors.Is(err, inference.ErrMalformedResponse)
}

// completeEntry runs the parse retry loop: issue a completion, isolate the
// JSON object, decode and validate it. Replies without usable JSON are
// retried immediately with no delay, unlike transport failures, which get
// exponential back-off one level down in chatCompletion. A persistent
// backend outage is therefore never multiplied by this loop.
func (client *Client) completeEntry(ctx context.Context, model, userContent string) (inference.BacklogEntry, error) {
	retryConfig := client.retryConfig
	var lastErr error

	for attempt := 0; attempt <= retryConfig.MaxRetries; attempt++ {
		if attempt > 0 {
			slog.Default().Info("Retrying completion after unusable reply",
				"attempt", attempt,
				"model", model,
				"lastError", lastErr)
		}

		raw, err := client.chatCompletion(ctx, model, userContent)
		if err != nil {
			// Transport retries are exhausted by now
			return inference.BacklogEntry{}, err
		}

		jsonText, err := inference.ExtractJSONObject(raw)
		if err != nil {
			lastErr = err
			slog.Default().Warn("No JSON object in model reply, will retry",
				"attempt", attempt,
				"error", err)
			continue
		}

		entry, err := inference.ParseEntry(jsonText)
		if err != nil {
			if !isParseRetryableError(err) {
				slog.Default().Debug("Non-retryable parse error",
					"error", err)
				return inference.BacklogEntry{}, err
			}
			lastErr = err
			slog.Default().Warn("Model reply did not decode as an entry, will retry",
				"attempt", attempt,
				"error", err)
			continue
		}

		if attempt > 0 {
			slog.Default().Info("Completion succeeded after retry",
				"attempt", attempt)
		}
		return entry, nil
	}

	return inference.BacklogEntry{}, fmt.Errorf("failed after %d attempts: %w", retryConfig.MaxRetries+1, lastErr)
}
