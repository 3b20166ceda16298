package helpers

import (
	"fmt"
	"strings"
	"time"

	"github.com/zinc-sig/gridiff/cmd/config"
	contextparser "github.com/zinc-sig/gridiff/internal/context"
	"github.com/zinc-sig/gridiff/internal/webhook"
)

// BuildWebhookConfig builds webhook configuration from all sources.
// Precedence: env < file < json < kv < direct flags
func BuildWebhookConfig(cfg *config.WebhookConfig) (map[string]any, error) {
	webhookConf, err := contextparser.Sources{
		EnvPrefix: contextparser.WebhookEnvPrefix,
		File:      cfg.ConfigFile,
		JSON:      cfg.Config,
		KV:        cfg.ConfigKV,
	}.BuildMap()
	if err != nil {
		return nil, fmt.Errorf("failed to build webhook config: %w", err)
	}
	if webhookConf == nil {
		webhookConf = make(map[string]any)
	}

	// Direct flags only override when moved off their defaults
	if cfg.URL != "" {
		webhookConf["url"] = cfg.URL
	}
	if cfg.Method != "" && cfg.Method != "POST" {
		webhookConf["method"] = cfg.Method
	}
	if cfg.AuthType != "" && cfg.AuthType != webhook.AuthNone {
		webhookConf["auth_type"] = cfg.AuthType
	}
	if cfg.AuthToken != "" {
		webhookConf["auth_token"] = cfg.AuthToken
	}
	if cfg.Timeout != "" && cfg.Timeout != "30s" {
		webhookConf["timeout"] = cfg.Timeout
	}
	if cfg.Retries != 3 {
		webhookConf["retries"] = cfg.Retries
	}
	if cfg.RetryDelay != "" && cfg.RetryDelay != "1s" {
		webhookConf["retry_delay"] = cfg.RetryDelay
	}

	return webhookConf, nil
}

// ParseWebhookConfig converts the merged webhook configuration into client
// settings. It returns nil settings when no URL is configured.
func ParseWebhookConfig(cfg *config.WebhookConfig) (*webhook.Config, *webhook.RetryConfig, error) {
	configMap, err := BuildWebhookConfig(cfg)
	if err != nil {
		return nil, nil, err
	}

	url := stringValue(configMap, "url")
	if url == "" {
		return nil, nil, nil
	}

	timeout, err := durationValue(configMap, "timeout", 30*time.Second)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid webhook timeout duration: %w", err)
	}
	retryDelay, err := durationValue(configMap, "retry_delay", time.Second)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid webhook retry delay: %w", err)
	}

	method := strings.ToUpper(stringValue(configMap, "method"))
	if method == "" {
		method = "POST"
	}
	authType := stringValue(configMap, "auth_type")
	if authType == "" {
		authType = webhook.AuthNone
	}

	// Retries may arrive as int from kv pairs or float64 from JSON
	maxRetries := 3
	switch r := configMap["retries"].(type) {
	case int:
		maxRetries = r
	case float64:
		maxRetries = int(r)
	}
	if maxRetries < 0 {
		return nil, nil, fmt.Errorf("webhook retries must be non-negative, got %d", maxRetries)
	}

	webhookConfig := &webhook.Config{
		URL:       url,
		Method:    method,
		Timeout:   timeout,
		AuthType:  authType,
		AuthToken: stringValue(configMap, "auth_token"),
		Event:     stringValue(configMap, "event"),
	}
	if headers, ok := configMap["headers"].(map[string]any); ok {
		webhookConfig.Headers = make(map[string]string, len(headers))
		for k, v := range headers {
			webhookConfig.Headers[k] = fmt.Sprint(v)
		}
	}
	if err := webhookConfig.Validate(); err != nil {
		return nil, nil, err
	}

	retryConfig := &webhook.RetryConfig{
		MaxRetries:   maxRetries,
		InitialDelay: retryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}

	return webhookConfig, retryConfig, nil
}

func stringValue(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func durationValue(m map[string]any, key string, def time.Duration) (time.Duration, error) {
	s := stringValue(m, key)
	if s == "" {
		return def, nil
	}
	return time.ParseDuration(s)
}
