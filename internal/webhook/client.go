package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/zinc-sig/gridiff/internal/logger"
)

// EventHeader names the kind of payload being delivered.
const EventHeader = "X-Gridiff-Event"

// Client delivers grading summaries to a webhook endpoint
type Client struct {
	httpClient  *http.Client
	config      *Config
	retryConfig *RetryConfig
	log         logger.Logger
}

// NewClient creates a new webhook client. A nil log uses the default logger.
func NewClient(config *Config, retryConfig *RetryConfig, log logger.Logger) *Client {
	if config.Method == "" {
		config.Method = http.MethodPost
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.Event == "" {
		config.Event = "summary"
	}
	if retryConfig == nil {
		retryConfig = DefaultRetryConfig()
	}
	if log == nil {
		log = logger.GetDefault()
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second, // Per-request timeout
		},
		config:      config,
		retryConfig: retryConfig,
		log:         log.With("webhook", config.URL),
	}
}

// Send posts payload as JSON, retrying transient failures until the
// configured overall timeout elapses
func (c *Client) Send(ctx context.Context, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	attempts := 0
	permanent := false
	err = retry.Do(ctx, c.retryConfig.backoff(), func(ctx context.Context) error {
		attempts++
		if attempts > 1 {
			c.log.Debug("retrying webhook", "attempt", attempts-1, "max", c.retryConfig.MaxRetries)
		}

		statusCode, err := c.sendRequest(ctx, body)
		if err == nil && statusCode >= 200 && statusCode < 300 {
			c.log.Debug("webhook delivered", "status", statusCode, "attempts", attempts)
			return nil
		}

		var attemptErr error
		if err != nil {
			attemptErr = fmt.Errorf("attempt %d failed: %w", attempts, err)
		} else {
			attemptErr = fmt.Errorf("attempt %d failed with status %d", attempts, statusCode)
		}

		if statusCode > 0 && !isRetryableStatus(statusCode) {
			c.log.Warn("non-retryable webhook status", "status", statusCode)
			permanent = true
			return attemptErr
		}
		return retry.RetryableError(attemptErr)
	})

	switch {
	case err == nil, permanent:
		return err
	case ctx.Err() != nil:
		return fmt.Errorf("webhook timeout after %d attempts: %w", attempts, err)
	default:
		return fmt.Errorf("webhook failed after %d attempts: %w", attempts, err)
	}
}

func (c *Client) sendRequest(ctx context.Context, payload []byte) (int, error) {
	req, err := http.NewRequestWithContext(ctx, c.config.Method, c.config.URL, bytes.NewReader(payload))
	if err != nil {
		return 0, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(EventHeader, c.config.Event)
	for k, v := range c.config.Headers {
		req.Header.Set(k, v)
	}

	switch c.config.AuthType {
	case AuthBearer:
		req.Header.Set("Authorization", "Bearer "+c.config.AuthToken)
	case AuthAPIKey:
		req.Header.Set("X-API-Key", c.config.AuthToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	// Drain response body to reuse connection
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode, nil
}
