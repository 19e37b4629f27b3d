// Package extractor turns uploaded document bytes into plain text. Dispatch
// is by filename extension; PDF and plain text are the supported formats.
package extractor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/pixilib/pixi/internal/core/domain"
	"github.com/pixilib/pixi/internal/core/ports"
)

type Extractor struct {
	storage ports.ObjectStorage
}

func New(storage ports.ObjectStorage) *Extractor {
	return &Extractor{storage: storage}
}

// Extract reads the stored object for doc and extracts its text.
func (e *Extractor) Extract(ctx context.Context, doc *domain.Document) (string, error) {
	reader, err := e.storage.Open(ctx, doc.StoragePath)
	if err != nil {
		return "", fmt.Errorf("open source document: %w", err)
	}
	defer reader.Close()

	raw, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("read source document: %w", err)
	}

	return ExtractBytes(raw, doc.Filename)
}

// ExtractBytes is a pure function of the file bytes and the declared
// filename. Deterministic for identical inputs.
func ExtractBytes(raw []byte, filename string) (string, error) {
	if len(raw) == 0 {
		return "", domain.WrapError(domain.ErrInvalidInput, "extract", errors.New("empty file"))
	}

	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pdf":
		return extractPDF(raw)
	case ".txt":
		return extractPlainText(raw)
	default:
		return "", domain.WrapError(
			domain.ErrUnsupportedFormat,
			"extract",
			fmt.Errorf("unsupported file type: %q", ext),
		)
	}
}

func extractPlainText(raw []byte) (string, error) {
	if !utf8.Valid(raw) {
		return "", domain.WrapError(domain.ErrExtraction, "extract txt", errors.New("file is not valid UTF-8"))
	}
	return string(raw), nil
}
