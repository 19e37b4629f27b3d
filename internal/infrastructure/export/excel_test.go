package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/pixilib/pixi/internal/core/domain"
)

func TestExportWritesCatalogRows(t *testing.T) {
	docs := []domain.Document{
		{
			Title:     "The Future of AI",
			Genre:     "Technology",
			Summary:   "An analysis of AI advancements.",
			Filename:  "sample_ai.pdf",
			Status:    domain.StatusReady,
			CreatedAt: time.Date(2026, 2, 10, 9, 30, 0, 0, time.UTC),
		},
		{
			Title:    "Culinary Traditions of Europe",
			Genre:    "Cooking",
			Filename: "sample_cooking.pdf",
			Status:   domain.StatusReady,
		},
	}

	var buf bytes.Buffer
	if err := NewExcelExporter().Export(docs, &buf); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(catalogSheet)
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "Title" || rows[0][1] != "Genre" {
		t.Fatalf("unexpected header row: %v", rows[0])
	}
	if rows[1][0] != "The Future of AI" || rows[1][1] != "Technology" {
		t.Fatalf("unexpected first row: %v", rows[1])
	}
	if rows[2][1] != "Cooking" {
		t.Fatalf("unexpected second row: %v", rows[2])
	}
}

func TestExportEmptyCatalog(t *testing.T) {
	var buf bytes.Buffer
	if err := NewExcelExporter().Export(nil, &buf); err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if buf.Len() == 0 {
		t.Fatalf("expected a workbook even for an empty catalog")
	}
}
