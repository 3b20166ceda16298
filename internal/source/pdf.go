package source

import (
	"context"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFProvider extracts text from every page of a PDF file.
type PDFProvider struct {
	path string
}

func NewPDFProvider(path string) *PDFProvider {
	return &PDFProvider{path: path}
}

func (p *PDFProvider) Name() string {
	return "pdf"
}

// Contents reads the whole document into memory. Test blocks routinely
// span page breaks, so pages cannot be processed one at a time.
func (p *PDFProvider) Contents(ctx context.Context) (string, error) {
	f, reader, err := pdf.Open(p.path)
	if err != nil {
		return "", unavailable(p.Name(), p.path, err)
	}
	defer func() { _ = f.Close() }()

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", unavailable(p.Name(), p.path, err)
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", unavailable(p.Name(), p.path, err)
		}
		sb.WriteString(text)
	}
	return sb.String(), nil
}
