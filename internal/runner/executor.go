// Package runner executes external commands with their output captured to
// files. gridiff uses it to drive out-of-process document text extractors
// such as pdftotext.
package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"time"
)

// Status is the outcome class of an execution.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
	StatusTimeout Status = "timeout"
)

type Config struct {
	Command string
	Args    []string
	// InputFile is redirected to stdin. Empty means no stdin.
	InputFile  string
	OutputFile string
	StderrFile string
	Timeout    time.Duration
}

type Result struct {
	Command       string
	Status        Status
	ExitCode      int
	ExecutionTime int64 // milliseconds
}

// Execute runs the configured command to completion, the timeout, or ctx
// cancellation, whichever comes first.
func Execute(ctx context.Context, config *Config) (*Result, error) {
	if config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, config.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, config.Command, config.Args...)

	if config.InputFile != "" {
		inputFile, err := os.Open(config.InputFile)
		if err != nil {
			return nil, fmt.Errorf("failed to open input file %s: %w", config.InputFile, err)
		}
		defer func() { _ = inputFile.Close() }()
		cmd.Stdin = inputFile
	}

	outputFile, err := createWithParents(config.OutputFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file %s: %w", config.OutputFile, err)
	}
	defer func() { _ = outputFile.Close() }()
	cmd.Stdout = outputFile

	stderrFile, err := createWithParents(config.StderrFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create stderr file %s: %w", config.StderrFile, err)
	}
	defer func() { _ = stderrFile.Close() }()
	cmd.Stderr = stderrFile

	startTime := time.Now()
	err = cmd.Run()
	executionTime := time.Since(startTime).Milliseconds()

	result := &Result{
		Command:       strings.Join(append([]string{config.Command}, config.Args...), " "),
		Status:        StatusSuccess,
		ExecutionTime: executionTime,
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		result.Status = StatusTimeout
		result.ExitCode = -1
		return result, nil
	}

	if err != nil {
		var exitError *exec.ExitError
		if !errors.As(err, &exitError) {
			return nil, fmt.Errorf("failed to start command: %w", err)
		}
		result.Status = StatusFailed
		if status, ok := exitError.Sys().(syscall.WaitStatus); ok {
			result.ExitCode = status.ExitStatus()
		} else {
			result.ExitCode = 1
		}
	}

	return result, nil
}

func createWithParents(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return os.Create(path)
}
