// Package export renders the document catalog into downloadable reports.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/pixilib/pixi/internal/core/domain"
)

const catalogSheet = "Catalog"

type ExcelExporter struct{}

func NewExcelExporter() *ExcelExporter {
	return &ExcelExporter{}
}

// Export writes an XLSX workbook with one row per document.
func (e *ExcelExporter) Export(docs []domain.Document, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", catalogSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	headers := []string{"Title", "Genre", "Summary", "Filename", "Status", "Uploaded"}
	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("header cell name: %w", err)
		}
		if err := f.SetCellValue(catalogSheet, cell, header); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	for row, doc := range docs {
		values := []any{
			doc.Title,
			doc.Genre,
			doc.Summary,
			doc.Filename,
			string(doc.Status),
			doc.CreatedAt.Format("2006-01-02 15:04"),
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return fmt.Errorf("cell name: %w", err)
			}
			if err := f.SetCellValue(catalogSheet, cell, value); err != nil {
				return fmt.Errorf("write row %d: %w", row+1, err)
			}
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
