package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zinc-sig/gridiff/cmd/config"
	"github.com/zinc-sig/gridiff/cmd/helpers"
	contextparser "github.com/zinc-sig/gridiff/internal/context"
	"github.com/zinc-sig/gridiff/internal/logger"
	"github.com/zinc-sig/gridiff/internal/pipeline"
	"github.com/zinc-sig/gridiff/internal/report"
	"github.com/zinc-sig/gridiff/internal/source"
)

type parseOptions struct {
	source  config.SourceFlags
	diff    config.DiffFlags
	output  config.OutputFlags
	context config.ContextConfig
	upload  config.UploadConfig
	webhook config.WebhookConfig
}

var parseCmd = newParseCmd()

func newParseCmd() *cobra.Command {
	opts := &parseOptions{}

	cmd := &cobra.Command{
		Use:   "parse [flags] <report>",
		Short: "Extract test results from a grading report and write 2D diffs",
		Long: `Parse a grading report (PDF or extracted text), print a pass/fail line
for every test and write one report file per failing test into the output
directory. Stale report files from a previous run are removed first.

Each report holds the textual diff, submission, solution, stderr and moves,
followed by the 2D diff of submission against solution with the input maze
masked the same way.`,
		Example: `  gridiff parse report.pdf
  gridiff parse -b 1 -H --out diffs report.pdf
  gridiff parse --extract-cmd "pdftotext -layout {} -" report.pdf
  gridiff parse --json --webhook-url https://grader.example.com/hook report.txt`,
		SilenceUsage: true,
		Args:         cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, opts, args[0])
		},
	}

	helpers.SetupSourceFlags(cmd, &opts.source)
	helpers.SetupDiffFlags(cmd, &opts.diff)
	helpers.SetupOutputFlags(cmd, &opts.output)
	helpers.SetupContextFlags(cmd, &opts.context)
	helpers.SetupUploadFlags(cmd, &opts.upload)
	helpers.SetupWebhookFlags(cmd, &opts.webhook)
	return cmd
}

func runParse(cmd *cobra.Command, opts *parseOptions, path string) error {
	ctx := cmd.Context()
	log := logger.FromContext(ctx)

	diffConfig, layout, err := helpers.ResolveDiffFlags(&opts.diff)
	if err != nil {
		return err
	}

	provider, err := source.New(source.Options{
		Kind:    source.Kind(opts.source.Kind),
		Path:    path,
		Command: strings.Fields(opts.source.ExtractCmd),
	})
	if err != nil {
		return err
	}

	uploader, uploadConf, err := helpers.SetupUploadProvider(&opts.upload)
	if err != nil {
		return err
	}
	if uploader != nil {
		log.Info("uploading failing reports", "provider", uploader.Name(),
			"bucket", uploadConf["bucket"], "prefix", uploadConf["prefix"])
	}

	webhookConfig, retryConfig, err := helpers.ParseWebhookConfig(&opts.webhook)
	if err != nil {
		return err
	}

	ctxData, err := contextparser.Sources{
		EnvPrefix: contextparser.ContextEnvPrefix,
		File:      opts.context.File,
		JSON:      opts.context.JSON,
		KV:        opts.context.KV,
	}.Build()
	if err != nil {
		return fmt.Errorf("failed to build context: %w", err)
	}

	// With --json stdout carries only the summary
	var lines io.Writer = cmd.OutOrStdout()
	if opts.output.JSON {
		lines = cmd.ErrOrStderr()
	}

	sink := report.NewFileSink(opts.output.Dir, report.NewFormatter(layout))
	summary, err := pipeline.Run(ctx, provider, sink, pipeline.Config{
		Diff:     diffConfig,
		Workers:  opts.output.Workers,
		Out:      lines,
		Uploader: uploader,
	})
	if err != nil {
		return err
	}
	summary.Context = ctxData

	helpers.SendSummaryWebhook(ctx, webhookConfig, retryConfig, summary)

	if opts.output.JSON {
		return helpers.OutputJSON(cmd.OutOrStdout(), summary)
	}
	return nil
}
