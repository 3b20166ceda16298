// Package upload copies rendered grading reports to remote storage.
package upload

import (
	"context"
	"io"
)

// Provider stores report files remotely. Configure must succeed before the
// first Upload.
type Provider interface {
	// Upload stores the report read from r under name, relative to the
	// provider's configured prefix.
	Upload(ctx context.Context, r io.Reader, name string) error
	// Configure applies the layered upload configuration, e.g. endpoint,
	// bucket and credentials.
	Configure(config map[string]any) error
	Name() string
}
