package helpers

import (
	"fmt"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/zinc-sig/gridiff/cmd/config"
	"github.com/zinc-sig/gridiff/internal/diff2d"
	"github.com/zinc-sig/gridiff/internal/report"
)

// SetupContextFlags adds context-related flags to a command
func SetupContextFlags(cmd *cobra.Command, cfg *config.ContextConfig) {
	cmd.Flags().StringVar(&cfg.JSON, "context", "", "Context data as JSON string")
	cmd.Flags().StringArrayVar(&cfg.KV, "context-kv", nil, "Context key=value pairs (can be used multiple times)")
	cmd.Flags().StringVar(&cfg.File, "context-file", "", "Path to JSON file containing context data")
}

// SetupUploadFlags adds upload-related flags to a command
func SetupUploadFlags(cmd *cobra.Command, cfg *config.UploadConfig) {
	cmd.Flags().StringVar(&cfg.Provider, "upload-provider", "", "Upload provider for report files (e.g., minio)")
	cmd.Flags().StringVar(&cfg.Config, "upload-config", "", "Upload configuration as JSON string")
	cmd.Flags().StringArrayVar(&cfg.ConfigKV, "upload-config-kv", nil, "Upload config key=value pairs (can be used multiple times)")
	cmd.Flags().StringVar(&cfg.ConfigFile, "upload-config-file", "", "Path to JSON file containing upload configuration")
}

// SetupWebhookFlags adds webhook-related flags to a command
func SetupWebhookFlags(cmd *cobra.Command, cfg *config.WebhookConfig) {
	cmd.Flags().StringVar(&cfg.URL, "webhook-url", "", "Webhook URL to send the summary to")
	cmd.Flags().StringVar(&cfg.Method, "webhook-method", "POST", "HTTP method to use: GET, POST, PUT, PATCH, DELETE")
	cmd.Flags().StringVar(&cfg.AuthType, "webhook-auth-type", "none", "Authentication type: none, bearer, api-key")
	cmd.Flags().StringVar(&cfg.AuthToken, "webhook-auth-token", "", "Authentication token (use with --webhook-auth-type)")
	cmd.Flags().IntVar(&cfg.Retries, "webhook-retries", 3, "Maximum webhook retry attempts (0 = no retries)")
	cmd.Flags().StringVar(&cfg.RetryDelay, "webhook-retry-delay", "1s", "Initial delay between webhook retries")
	cmd.Flags().StringVar(&cfg.Timeout, "webhook-timeout", "30s", "Total timeout for webhook including retries")

	cmd.Flags().StringVar(&cfg.Config, "webhook-config", "", "Webhook configuration as JSON string")
	cmd.Flags().StringArrayVar(&cfg.ConfigKV, "webhook-config-kv", nil, "Webhook config key=value pairs (can be used multiple times)")
	cmd.Flags().StringVar(&cfg.ConfigFile, "webhook-config-file", "", "Path to JSON file containing webhook configuration")
}

// SetupDiffFlags adds the 2D diff flags to a command
func SetupDiffFlags(cmd *cobra.Command, flags *config.DiffFlags) {
	cmd.Flags().IntVarP(&flags.Buffer, "buffer", "b", 0, "Cells of context to keep around each mismatch")
	cmd.Flags().StringVarP(&flags.Filler, "filler", "f", string(diff2d.DefaultFiller), "Character that replaces cells outside the context")
	cmd.Flags().BoolVarP(&flags.Horizontal, "horizontal", "H", false, "Print the diff grids side by side")
	cmd.Flags().StringVar(&flags.Layout, "layout", "", "Grid layout: stacked or side-by-side (overrides --horizontal)")
}

// SetupSourceFlags adds document source flags to a command
func SetupSourceFlags(cmd *cobra.Command, flags *config.SourceFlags) {
	cmd.Flags().StringVar(&flags.Kind, "source", "auto", "Document reader: auto, pdf, text, command")
	cmd.Flags().StringVar(&flags.ExtractCmd, "extract-cmd", "", "External text extractor, {} is replaced by the document path (e.g. \"pdftotext -layout {} -\")")
}

// SetupOutputFlags adds result destination flags to a command
func SetupOutputFlags(cmd *cobra.Command, flags *config.OutputFlags) {
	cmd.Flags().StringVarP(&flags.Dir, "out", "o", "out", "Directory for per-test report files")
	cmd.Flags().BoolVar(&flags.JSON, "json", false, "Print the run summary as JSON")
	cmd.Flags().IntVarP(&flags.Workers, "workers", "w", 0, "Concurrent diff workers (0 = number of CPUs)")
}

// ResolveDiffFlags validates the diff flags and turns them into an engine
// configuration and a layout.
func ResolveDiffFlags(flags *config.DiffFlags) (diff2d.Config, report.Layout, error) {
	if utf8.RuneCountInString(flags.Filler) != 1 {
		return diff2d.Config{}, "", fmt.Errorf("filler must be a single character, got %q", flags.Filler)
	}
	filler, _ := utf8.DecodeRuneInString(flags.Filler)

	cfg := diff2d.Config{Radius: flags.Buffer, Filler: filler}
	if err := cfg.Validate(); err != nil {
		return diff2d.Config{}, "", fmt.Errorf("invalid diff flags: %w", err)
	}

	layout := report.LayoutStacked
	if flags.Horizontal {
		layout = report.LayoutSideBySide
	}
	if flags.Layout != "" {
		var err error
		if layout, err = report.ParseLayout(flags.Layout); err != nil {
			return diff2d.Config{}, "", err
		}
	}
	return cfg, layout, nil
}
