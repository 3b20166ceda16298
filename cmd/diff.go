package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zinc-sig/gridiff/cmd/config"
	"github.com/zinc-sig/gridiff/cmd/helpers"
	"github.com/zinc-sig/gridiff/internal/diff2d"
	"github.com/zinc-sig/gridiff/internal/grid"
	"github.com/zinc-sig/gridiff/internal/report"
)

type diffOptions struct {
	expected  string
	actual    string
	reference string
	raw       bool
	json      bool
	diff      config.DiffFlags
}

// diffResult is the JSON output of the diff command
type diffResult struct {
	Expected  string           `json:"expected"`
	Actual    string           `json:"actual"`
	Reference string           `json:"reference,omitempty"`
	Identical bool             `json:"identical"`
	Diff      *diff2d.DiffGrid `json:"diff,omitempty"`
	Error     string           `json:"error,omitempty"`
}

var diffCmd = newDiffCmd()

func newDiffCmd() *cobra.Command {
	opts := &diffOptions{}

	cmd := &cobra.Command{
		Use:   "diff -e <expected> -a <actual> [-r <reference>]",
		Short: "Show the 2D diff of two grid files",
		Long: `Compare two character grids cell by cell and print only the cells that
differ, plus --buffer cells of context around them. An optional reference
grid (such as the input maze) is masked the same way.

Grid files are normalized first: page numbers glued to line ends and lines
whose length differs from the most common one are dropped. Use --raw to
compare the files as they are.`,
		Example: `  gridiff diff -e solution.txt -a output.txt
  gridiff diff -e solution.txt -a output.txt -r maze.txt -b 1 -H
  gridiff diff -e solution.txt -a output.txt --json`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.expected, "expected", "e", "", "Expected grid file (required)")
	cmd.Flags().StringVarP(&opts.actual, "actual", "a", "", "Actual grid file (required)")
	cmd.Flags().StringVarP(&opts.reference, "reference", "r", "", "Reference grid masked alongside the diff")
	cmd.Flags().BoolVar(&opts.raw, "raw", false, "Compare files without normalizing them")
	cmd.Flags().BoolVar(&opts.json, "json", false, "Print the result as JSON")
	_ = cmd.MarkFlagRequired("expected")
	_ = cmd.MarkFlagRequired("actual")
	helpers.SetupDiffFlags(cmd, &opts.diff)
	return cmd
}

func runDiff(cmd *cobra.Command, opts *diffOptions) error {
	diffConfig, layout, err := helpers.ResolveDiffFlags(&opts.diff)
	if err != nil {
		return err
	}
	engine, err := diff2d.NewEngine(diffConfig)
	if err != nil {
		return err
	}

	expected, err := readGrid(opts.expected, opts.raw)
	if err != nil {
		return err
	}
	actual, err := readGrid(opts.actual, opts.raw)
	if err != nil {
		return err
	}
	var reference string
	if opts.reference != "" {
		if reference, err = readGrid(opts.reference, opts.raw); err != nil {
			return err
		}
	}

	result := diffResult{
		Expected:  opts.expected,
		Actual:    opts.actual,
		Reference: opts.reference,
		Identical: expected == actual,
	}

	d, diffErr := engine.Generate(expected, actual, reference)
	var shapeErr *diff2d.ShapeMismatchError
	if diffErr != nil && !errors.As(diffErr, &shapeErr) {
		return diffErr
	}

	out := cmd.OutOrStdout()
	if opts.json {
		result.Diff = d
		if diffErr != nil {
			result.Error = diffErr.Error()
		}
		if err := helpers.OutputJSON(out, result); err != nil {
			return err
		}
		return diffErr
	}

	if diffErr != nil {
		fmt.Fprintf(out, "2D diff unavailable: %v\n\n", diffErr)
		fmt.Fprint(out, report.LineDiff(expected, actual))
		return diffErr
	}
	if result.Identical {
		fmt.Fprintln(out, "Grids are identical.")
		return nil
	}
	fmt.Fprint(out, report.NewFormatter(layout).Grids(d))
	return nil
}

func readGrid(path string, raw bool) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read grid: %w", err)
	}
	if raw {
		return strings.TrimRight(string(data), "\r\n"), nil
	}
	return grid.Normalize(string(data)), nil
}
