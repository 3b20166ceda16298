// Package pipeline wires a document source, the record extractor, the 2D
// diff engine and a report sink into one grading run.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/zinc-sig/gridiff/internal/diff2d"
	"github.com/zinc-sig/gridiff/internal/logger"
	"github.com/zinc-sig/gridiff/internal/output"
	"github.com/zinc-sig/gridiff/internal/record"
	"github.com/zinc-sig/gridiff/internal/report"
	"github.com/zinc-sig/gridiff/internal/source"
	"github.com/zinc-sig/gridiff/internal/upload"
)

// Sink receives every failing outcome.
type Sink interface {
	Init() error
	Write(o report.Outcome) (string, error)
}

type Config struct {
	Diff diff2d.Config
	// Workers bounds concurrent diff computations. Zero means GOMAXPROCS.
	Workers int
	// Out receives the per-test pass/fail lines. Nil means os.Stdout.
	Out io.Writer
	// Uploader, when set, receives a copy of every report file written.
	Uploader upload.Provider
}

// Run grades one document. Failures to read or parse the document abort the
// run; a record whose grids cannot be diffed is still reported.
func Run(ctx context.Context, provider source.Provider, sink Sink, cfg Config) (*output.Summary, error) {
	log := logger.FromContext(ctx)

	engine, err := diff2d.NewEngine(cfg.Diff)
	if err != nil {
		return nil, err
	}

	text, err := provider.Contents(ctx)
	if err != nil {
		return nil, err
	}
	log.Debug("document text loaded", "source", provider.Name(), "bytes", len(text))

	records, err := record.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}
	log.Info("records extracted", "count", len(records))

	if sink != nil {
		if err := sink.Init(); err != nil {
			return nil, err
		}
	}

	outcomes, err := DiffRecords(ctx, engine, records, cfg.Workers)
	if err != nil {
		return nil, err
	}

	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}

	summary := &output.Summary{Source: provider.Name(), Tests: []output.TestResult{}}
	for _, o := range outcomes {
		result, err := deliver(ctx, o, sink, cfg.Uploader)
		if err != nil {
			return nil, err
		}
		PrintRecordLine(out, o)
		summary.Add(result)
	}
	PrintSummary(out, summary)

	return summary, nil
}

// DiffRecords computes the 2D diff of every failing record that has a
// submission. Outcomes are returned in record order.
func DiffRecords(ctx context.Context, engine *diff2d.Engine, records []record.Record, workers int) ([]report.Outcome, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	log := logger.FromContext(ctx)

	outcomes := make([]report.Outcome, len(records))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, rec := range records {
		outcomes[i].Record = rec
		if rec.Passed() || !rec.HasSubmission() {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			d, err := engine.Generate(rec.Solution, rec.Submission, rec.Maze)
			if err != nil {
				log.Warn("2D diff failed", "record", rec.Name(), "error", err)
				outcomes[i].DiffErr = err
				return nil
			}
			outcomes[i].Diff = d
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

func deliver(ctx context.Context, o report.Outcome, sink Sink, uploader upload.Provider) (output.TestResult, error) {
	r := o.Record
	result := output.TestResult{
		Name:     r.Name(),
		Section:  r.SectionNumber,
		Test:     r.TestNumber,
		Status:   output.StatusPassed,
		HasError: r.Error != "",
		Diffed:   o.Diff != nil,
	}
	if o.DiffErr != nil {
		result.DiffError = o.DiffErr.Error()
	}
	if r.Passed() {
		return result, nil
	}
	result.Status = output.StatusFailed

	if sink == nil {
		return result, nil
	}
	path, err := sink.Write(o)
	if err != nil {
		return result, err
	}
	result.Report = path

	if uploader != nil {
		remote := filepath.Base(path)
		if err := uploadFile(ctx, uploader, path, remote); err != nil {
			return result, err
		}
		result.UploadedTo = remote
	}
	return result, nil
}

func uploadFile(ctx context.Context, uploader upload.Provider, localPath, remotePath string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open %s for upload: %w", localPath, err)
	}
	defer func() { _ = f.Close() }()

	if err := uploader.Upload(ctx, f, remotePath); err != nil {
		return fmt.Errorf("failed to upload to %s: %w", remotePath, err)
	}
	logger.FromContext(ctx).Debug("report uploaded", "provider", uploader.Name(), "path", remotePath)
	return nil
}
