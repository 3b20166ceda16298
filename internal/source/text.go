package source

import (
	"context"
	"os"
)

// TextProvider reads report text that was already extracted to a file.
type TextProvider struct {
	path string
}

func NewTextProvider(path string) *TextProvider {
	return &TextProvider{path: path}
}

func (p *TextProvider) Name() string {
	return "text"
}

func (p *TextProvider) Contents(_ context.Context) (string, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return "", unavailable(p.Name(), p.path, err)
	}
	return string(data), nil
}
