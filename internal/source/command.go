package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/zinc-sig/gridiff/internal/runner"
)

// PathPlaceholder in a command argument is replaced with the document path.
const PathPlaceholder = "{}"

// CommandProvider runs an external extractor and takes its stdout as the
// document text, e.g. `pdftotext -layout {} -`.
type CommandProvider struct {
	path    string
	command string
	args    []string
	Timeout time.Duration
}

// NewCommandProvider builds a provider for argv. If no argument holds the
// placeholder the path is appended as the final argument.
func NewCommandProvider(path string, argv []string) (*CommandProvider, error) {
	if len(argv) == 0 || argv[0] == "" {
		return nil, fmt.Errorf("%w: empty extractor command", ErrSourceUnavailable)
	}

	args := make([]string, 0, len(argv))
	substituted := false
	for _, a := range argv[1:] {
		if a == PathPlaceholder {
			a = path
			substituted = true
		}
		args = append(args, a)
	}
	if !substituted {
		args = append(args, path)
	}

	return &CommandProvider{
		path:    path,
		command: argv[0],
		args:    args,
		Timeout: 2 * time.Minute,
	}, nil
}

func (p *CommandProvider) Name() string {
	return "command"
}

func (p *CommandProvider) Contents(ctx context.Context) (string, error) {
	dir, err := os.MkdirTemp("", "gridiff-extract-*")
	if err != nil {
		return "", unavailable(p.Name(), p.path, err)
	}
	defer func() { _ = os.RemoveAll(dir) }()

	config := &runner.Config{
		Command:    p.command,
		Args:       p.args,
		OutputFile: filepath.Join(dir, "stdout.txt"),
		StderrFile: filepath.Join(dir, "stderr.txt"),
		Timeout:    p.Timeout,
	}

	result, err := runner.Execute(ctx, config)
	if err != nil {
		return "", unavailable(p.Name(), p.path, err)
	}

	switch result.Status {
	case runner.StatusTimeout:
		return "", unavailable(p.Name(), p.path, fmt.Errorf("%s timed out after %s", result.Command, p.Timeout))
	case runner.StatusFailed:
		stderr, _ := os.ReadFile(config.StderrFile)
		msg := strings.TrimSpace(string(stderr))
		if msg == "" {
			msg = "no stderr output"
		}
		return "", unavailable(p.Name(), p.path,
			fmt.Errorf("%s exited with code %d: %s", result.Command, result.ExitCode, msg))
	}

	data, err := os.ReadFile(config.OutputFile)
	if err != nil {
		return "", unavailable(p.Name(), p.path, err)
	}
	if len(data) == 0 {
		return "", unavailable(p.Name(), p.path, errors.New("extractor produced no text"))
	}
	return string(data), nil
}
