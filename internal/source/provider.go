// Package source provides the full text of a grading report document.
package source

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrSourceUnavailable wraps every failure to obtain document text.
var ErrSourceUnavailable = errors.New("source unavailable")

// Provider returns the complete extracted text of one document.
type Provider interface {
	Contents(ctx context.Context) (string, error)
	Name() string
}

// Kind selects a Provider implementation.
type Kind string

const (
	KindAuto    Kind = "auto"
	KindPDF     Kind = "pdf"
	KindText    Kind = "text"
	KindCommand Kind = "command"
)

// Options configures New.
type Options struct {
	Kind Kind
	Path string
	// Command is the external extractor invocation for KindCommand.
	// Arguments equal to "{}" are replaced with Path.
	Command []string
}

// New creates the provider described by opts. KindAuto picks the PDF reader
// for .pdf files and the plain text reader otherwise.
func New(opts Options) (Provider, error) {
	if opts.Path == "" {
		return nil, fmt.Errorf("%w: no document path given", ErrSourceUnavailable)
	}

	kind := opts.Kind
	if kind == "" || kind == KindAuto {
		kind = KindText
		if len(opts.Command) > 0 {
			kind = KindCommand
		} else if strings.EqualFold(filepath.Ext(opts.Path), ".pdf") {
			kind = KindPDF
		}
	}

	switch kind {
	case KindPDF:
		return NewPDFProvider(opts.Path), nil
	case KindText:
		return NewTextProvider(opts.Path), nil
	case KindCommand:
		return NewCommandProvider(opts.Path, opts.Command)
	default:
		return nil, fmt.Errorf("unknown source kind: %s", kind)
	}
}

func unavailable(name, path string, err error) error {
	return fmt.Errorf("%w: %s %s: %w", ErrSourceUnavailable, name, path, err)
}
