package extractor

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/pixilib/pixi/internal/core/domain"
)

// extractPDF pulls plain text from every page in page order and joins the
// pages with a newline. A page that cannot be parsed fails the extraction
// instead of vanishing from the output.
func extractPDF(raw []byte) (_ string, err error) {
	// The pdf package panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			err = domain.WrapError(domain.ErrExtraction, "extract pdf", fmt.Errorf("parser panic: %v", r))
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", domain.WrapError(domain.ErrExtraction, "extract pdf", err)
	}

	pages := make([]string, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", domain.WrapError(domain.ErrExtraction, "extract pdf", fmt.Errorf("page %d: %w", i, err))
		}
		pages = append(pages, text)
	}

	return strings.Join(pages, "\n"), nil
}
