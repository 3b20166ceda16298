package webhook

import (
	"math"
	"time"

	"github.com/sethvargo/go-retry"
)

// backoff builds the delay schedule for one delivery: exponential from
// InitialDelay, capped at MaxDelay, with ±10% jitter and at most MaxRetries
// retries after the first attempt.
func (r *RetryConfig) backoff() retry.Backoff {
	attempt := 0
	next := retry.BackoffFunc(func() (time.Duration, bool) {
		attempt++
		return calculateBackoff(attempt, r), false
	})
	return retry.WithMaxRetries(uint64(max(r.MaxRetries, 0)), retry.WithJitterPercent(10, next))
}

// calculateBackoff returns the delay before retry number attempt, without
// jitter. A zero MaxDelay leaves the delay uncapped and a multiplier below
// one is treated as constant backoff.
func calculateBackoff(attempt int, config *RetryConfig) time.Duration {
	if attempt <= 0 {
		return 0
	}

	multiplier := config.Multiplier
	if multiplier < 1 {
		multiplier = 1
	}

	// delay = initialDelay * (multiplier ^ (attempt-1))
	delay := float64(config.InitialDelay) * math.Pow(multiplier, float64(attempt-1))
	if config.MaxDelay > 0 && delay > float64(config.MaxDelay) {
		delay = float64(config.MaxDelay)
	}
	return time.Duration(delay)
}

// isRetryableStatus checks if an HTTP status code should trigger a retry
func isRetryableStatus(code int) bool {
	switch code {
	case 408, // Request Timeout
		429, // Too Many Requests
		500, // Internal Server Error
		502, // Bad Gateway
		503, // Service Unavailable
		504: // Gateway Timeout
		return true
	default:
		return false
	}
}
