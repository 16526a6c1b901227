package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"slices"
	"time"

	"github.com/lexiweek/matcher/internal/config"
)

// Client is the calling convention shared by both semantic signal
// producers: every request carries the bearer credential, is bounded
// by a per-attempt timeout, and is retried iteratively with capped
// exponential backoff plus jitter. The loop is never self-recursive,
// so a flaky service cannot grow the stack or hang the caller beyond
// the configured budget.
type Client struct {
	token      string
	httpClient *http.Client
	cfg        config.InferenceConfig
	log        *slog.Logger
}

// NewClient creates a Client from the inference configuration. The
// http.Client carries no timeout of its own; each attempt is bounded
// by a context deadline instead.
func NewClient(cfg config.InferenceConfig, logger *slog.Logger) *Client {
	return &Client{
		token:      cfg.APIToken,
		httpClient: &http.Client{},
		cfg:        cfg,
		log:        logger.With("adapter", "inference"),
	}
}

// PostJSON sends the payload to url and returns the response body.
// Retryable statuses and transport errors are retried up to
// MaxRetries times after the initial attempt; non-retryable statuses
// escalate immediately as *StatusError; exhaustion returns
// *ExhaustedError embedding the last failure. A missing credential
// fails fast with ErrMissingCredential before any request is sent.
func (c *Client) PostJSON(ctx context.Context, url string, payload any) ([]byte, error) {
	if c.token == "" {
		return nil, ErrMissingCredential
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("inference: marshal payload: %w", err)
	}

	attempts := c.cfg.MaxRetries + 1
	var lastErr error

	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			if err := c.sleepBackoff(ctx, attempt-1); err != nil {
				return nil, err
			}
		}

		data, err := c.doAttempt(ctx, url, body)
		if err == nil {
			return data, nil
		}

		var status *StatusError
		if errors.As(err, &status) {
			return nil, err
		}

		lastErr = err
		c.log.WarnContext(ctx, "inference retry",
			slog.String("url", url),
			slog.Int("attempt", attempt+1),
			slog.String("reason", err.Error()),
		)

		if ctx.Err() != nil {
			break
		}
	}

	return nil, &ExhaustedError{Attempts: attempts, Err: lastErr}
}

// doAttempt performs one bounded request. A retryable failure is
// returned as a plain error; a hard failure as *StatusError.
func (c *Client) doAttempt(ctx context.Context, url string, body []byte) ([]byte, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("transport: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read body: %w", err)
		}
		return data, nil
	}

	if slices.Contains(c.cfg.RetryableStatuses, resp.StatusCode) {
		return nil, fmt.Errorf("retryable status %d", resp.StatusCode)
	}

	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return nil, &StatusError{Code: resp.StatusCode, Body: string(snippet)}
}

// sleepBackoff waits min(base*2^attempt, maxDelay) + random(0, jitter),
// honoring context cancellation.
func (c *Client) sleepBackoff(ctx context.Context, attempt int) error {
	delay := c.cfg.BaseDelay << uint(attempt)
	if delay > c.cfg.MaxDelay || delay <= 0 {
		delay = c.cfg.MaxDelay
	}
	if c.cfg.Jitter > 0 {
		delay += rand.N(c.cfg.Jitter)
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
