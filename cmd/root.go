package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zinc-sig/gridiff/internal/logger"
)

var (
	logLevel string
	logJSON  bool
)

var rootCmd = &cobra.Command{
	Use:   "gridiff",
	Short: "Turn grading reports into readable 2D diffs",
	Long: `Gridiff reads the text of a grading report, recovers each test's
submission, solution and input maze, and for every failing test writes a
report that shows only the cells that differ and their surroundings.

Results can be printed as JSON, uploaded to object storage and posted to a
webhook.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger.Setup(logLevel, logJSON)
		cmd.SetContext(logger.ContextWithLogger(cmd.Context(), logger.GetDefault()))
		return nil
	},
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "Write logs as JSON")

	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(diffCmd)
}
