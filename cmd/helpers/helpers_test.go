package helpers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/zinc-sig/gridiff/cmd/config"
	"github.com/zinc-sig/gridiff/internal/output"
	"github.com/zinc-sig/gridiff/internal/report"
	"github.com/zinc-sig/gridiff/internal/webhook"
)

// defaultWebhookFlags mirrors the flag defaults set by SetupWebhookFlags
func defaultWebhookFlags() *config.WebhookConfig {
	return &config.WebhookConfig{
		Method:     "POST",
		AuthType:   "none",
		Timeout:    "30s",
		Retries:    3,
		RetryDelay: "1s",
	}
}

func TestResolveDiffFlags(t *testing.T) {
	tests := []struct {
		name       string
		flags      config.DiffFlags
		wantRadius int
		wantFiller rune
		wantLayout report.Layout
		wantErr    bool
	}{
		{name: "defaults", flags: config.DiffFlags{Filler: "#"}, wantFiller: '#', wantLayout: report.LayoutStacked},
		{name: "buffer and unicode filler", flags: config.DiffFlags{Buffer: 2, Filler: "·"}, wantRadius: 2, wantFiller: '·', wantLayout: report.LayoutStacked},
		{name: "horizontal", flags: config.DiffFlags{Filler: "#", Horizontal: true}, wantFiller: '#', wantLayout: report.LayoutSideBySide},
		{name: "layout overrides horizontal", flags: config.DiffFlags{Filler: "#", Horizontal: true, Layout: "vertical"}, wantFiller: '#', wantLayout: report.LayoutStacked},
		{name: "empty filler", flags: config.DiffFlags{Filler: ""}, wantErr: true},
		{name: "long filler", flags: config.DiffFlags{Filler: "ab"}, wantErr: true},
		{name: "negative buffer", flags: config.DiffFlags{Filler: "#", Buffer: -1}, wantErr: true},
		{name: "unknown layout", flags: config.DiffFlags{Filler: "#", Layout: "grid"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, layout, err := ResolveDiffFlags(&tt.flags)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ResolveDiffFlags() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if cfg.Radius != tt.wantRadius || cfg.Filler != tt.wantFiller {
				t.Errorf("Got config %+v, want radius %d filler %q", cfg, tt.wantRadius, tt.wantFiller)
			}
			if layout != tt.wantLayout {
				t.Errorf("Got layout %s, want %s", layout, tt.wantLayout)
			}
		})
	}
}

func TestParseWebhookConfig(t *testing.T) {
	t.Run("no url means no webhook", func(t *testing.T) {
		cfg, retry, err := ParseWebhookConfig(defaultWebhookFlags())
		if err != nil || cfg != nil || retry != nil {
			t.Errorf("Expected nil config, got %v %v %v", cfg, retry, err)
		}
	})

	t.Run("defaults", func(t *testing.T) {
		flags := defaultWebhookFlags()
		flags.URL = "https://example.com/hook"
		cfg, retry, err := ParseWebhookConfig(flags)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if cfg.Method != "POST" || cfg.Timeout != 30*time.Second || cfg.AuthType != webhook.AuthNone {
			t.Errorf("Unexpected config: %+v", cfg)
		}
		if retry.MaxRetries != 3 || retry.InitialDelay != time.Second {
			t.Errorf("Unexpected retry config: %+v", retry)
		}
	})

	t.Run("layered sources with flag precedence", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "webhook.json")
		if err := os.WriteFile(file, []byte(`{"url": "https://file.example.com", "retries": 5, "headers": {"X-Course": "comp2012"}}`), 0644); err != nil {
			t.Fatal(err)
		}

		flags := defaultWebhookFlags()
		flags.ConfigFile = file
		flags.Config = `{"timeout": "10s", "method": "put"}`
		flags.ConfigKV = []string{"retry_delay=250ms", "event=regrade"}
		flags.URL = "https://flag.example.com"

		cfg, retry, err := ParseWebhookConfig(flags)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if cfg.URL != "https://flag.example.com" {
			t.Errorf("Expected flag URL to win, got %s", cfg.URL)
		}
		if cfg.Method != "PUT" {
			t.Errorf("Expected method PUT, got %s", cfg.Method)
		}
		if cfg.Timeout != 10*time.Second {
			t.Errorf("Expected timeout 10s, got %v", cfg.Timeout)
		}
		if cfg.Event != "regrade" {
			t.Errorf("Expected event regrade, got %s", cfg.Event)
		}
		if cfg.Headers["X-Course"] != "comp2012" {
			t.Errorf("Expected header from file, got %v", cfg.Headers)
		}
		if retry.MaxRetries != 5 || retry.InitialDelay != 250*time.Millisecond {
			t.Errorf("Unexpected retry config: %+v", retry)
		}
	})

	t.Run("environment", func(t *testing.T) {
		t.Setenv("GRIDIFF_WEBHOOK_URL", "https://env.example.com")
		t.Setenv("GRIDIFF_WEBHOOK_RETRIES", "0")
		cfg, retry, err := ParseWebhookConfig(defaultWebhookFlags())
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if cfg == nil || cfg.URL != "https://env.example.com" {
			t.Fatalf("Expected URL from environment, got %+v", cfg)
		}
		if retry.MaxRetries != 0 {
			t.Errorf("Expected 0 retries from environment, got %d", retry.MaxRetries)
		}
	})

	errorCases := []struct {
		name   string
		modify func(*config.WebhookConfig)
		errMsg string
	}{
		{"bad timeout", func(c *config.WebhookConfig) { c.Timeout = "later" }, "invalid webhook timeout"},
		{"bad retry delay", func(c *config.WebhookConfig) { c.RetryDelay = "x" }, "invalid webhook retry delay"},
		{"negative retries", func(c *config.WebhookConfig) { c.Retries = -1 }, "non-negative"},
		{"bearer without token", func(c *config.WebhookConfig) { c.AuthType = "bearer" }, "requires a token"},
		{"bad json", func(c *config.WebhookConfig) { c.Config = "{" }, "failed to build webhook config"},
	}
	for _, tt := range errorCases {
		t.Run(tt.name, func(t *testing.T) {
			flags := defaultWebhookFlags()
			flags.URL = "https://example.com/hook"
			tt.modify(flags)
			_, _, err := ParseWebhookConfig(flags)
			if err == nil || !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("Expected error containing %q, got %v", tt.errMsg, err)
			}
		})
	}
}

func TestBuildUploadConfig(t *testing.T) {
	t.Setenv("GRIDIFF_UPLOAD_CONFIG_BUCKET", "from-env")
	t.Setenv("GRIDIFF_UPLOAD_CONFIG_ENDPOINT", "localhost:9000")

	conf, err := BuildUploadConfig(&config.UploadConfig{
		Config:   `{"prefix": "run-1"}`,
		ConfigKV: []string{"bucket=from-kv"},
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if conf["bucket"] != "from-kv" {
		t.Errorf("Expected kv to override env, got %v", conf["bucket"])
	}
	if conf["endpoint"] != "localhost:9000" || conf["prefix"] != "run-1" {
		t.Errorf("Unexpected upload config: %v", conf)
	}

	if _, err := BuildUploadConfig(&config.UploadConfig{Config: `["not", "an", "object"]`}); err == nil {
		t.Error("Expected error for non-object upload config")
	}
}

func TestSetupUploadProvider(t *testing.T) {
	provider, conf, err := SetupUploadProvider(&config.UploadConfig{})
	if provider != nil || conf != nil || err != nil {
		t.Errorf("Expected no provider without --upload-provider, got %v %v %v", provider, conf, err)
	}

	_, _, err = SetupUploadProvider(&config.UploadConfig{Provider: "minio", ConfigKV: []string{"endpoint=localhost:9000"}})
	if err == nil || !strings.Contains(err.Error(), "failed to configure upload provider") {
		t.Errorf("Expected configure error, got %v", err)
	}
}

func TestOutputJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := OutputJSON(&buf, map[string]int{"passed": 3}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if buf.String() != "{\"passed\":3}\n" {
		t.Errorf("Unexpected JSON output %q", buf.String())
	}

	if err := OutputJSON(&buf, make(chan int)); err == nil {
		t.Error("Expected marshal error")
	}
}

func TestSendSummaryWebhook(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	summary := &output.Summary{Source: "text"}
	SendSummaryWebhook(context.Background(), nil, nil, summary)
	if summary.WebhookSent || summary.WebhookError != "" {
		t.Error("Expected no delivery without webhook config")
	}

	SendSummaryWebhook(context.Background(), &webhook.Config{URL: server.URL, Timeout: 5 * time.Second}, &webhook.RetryConfig{}, summary)
	if !summary.WebhookSent {
		t.Errorf("Expected webhook to be sent, got error %q", summary.WebhookError)
	}
}
