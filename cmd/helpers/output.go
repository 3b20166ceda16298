package helpers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/zinc-sig/gridiff/internal/logger"
	"github.com/zinc-sig/gridiff/internal/output"
	"github.com/zinc-sig/gridiff/internal/webhook"
)

// OutputJSON marshals v and prints it as one line
func OutputJSON(w io.Writer, v any) error {
	jsonOutput, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(jsonOutput))
	return err
}

// SendSummaryWebhook posts summary to the configured webhook and records the
// delivery status on it. A delivery failure never fails the command.
func SendSummaryWebhook(ctx context.Context, cfg *webhook.Config, retry *webhook.RetryConfig, summary *output.Summary) {
	if cfg == nil || cfg.URL == "" {
		return
	}
	log := logger.FromContext(ctx)

	// The delivery status fields stay out of the payload
	payload := *summary
	payload.WebhookSent = false
	payload.WebhookError = ""

	log.Debug("sending summary webhook", "url", cfg.URL)
	if err := webhook.NewClient(cfg, retry, log).Send(ctx, &payload); err != nil {
		log.Error("webhook delivery failed", "error", err)
		summary.WebhookSent = false
		summary.WebhookError = err.Error()
		return
	}
	summary.WebhookSent = true
}
