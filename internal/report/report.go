// Package report writes the inspection dumps of the filtered legacy views:
// a fixed-width text table per view, a CSV twin of each, and one workbook
// collecting every view as a sheet.
package report

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/xuri/excelize/v2"

	"github.com/frov1981/financial2026/internal/legacy"
)

// padding added on top of the widest cell of each column.
const padding = 5

// Writer emits every dump format into one output directory.
type Writer struct {
	dir    string
	logger *slog.Logger
}

// NewWriter creates the output directory if needed.
func NewWriter(dir string, logger *slog.Logger) (*Writer, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	return &Writer{dir: dir, logger: logger}, nil
}

// WriteAll writes the text and CSV dump of every view plus the combined
// workbook. Empty views are logged and skipped, never an error.
func (w *Writer) WriteAll(views []legacy.View, workbookName string) error {
	for _, v := range views {
		if len(v.Cells) == 0 {
			w.logger.Warn("view is empty, skipping dump", "view", v.Name)
			continue
		}
		if err := w.writeText(v); err != nil {
			return err
		}
		if err := w.writeCSV(v); err != nil {
			return err
		}
	}
	return w.writeWorkbook(views, workbookName)
}

// writeText renders one fixed-width table: header row, dashed separator,
// then every row, each column padded to its widest cell plus padding.
func (w *Writer) writeText(v legacy.View) error {
	widths := columnWidths(v)

	var b strings.Builder
	for i, h := range v.Headers {
		b.WriteString(pad(h, widths[i]))
	}
	b.WriteString("\n")
	for _, width := range widths {
		b.WriteString(strings.Repeat("-", width))
	}
	b.WriteString("\n")
	for _, row := range v.Cells {
		for i, cell := range row {
			b.WriteString(pad(cell, widths[i]))
		}
		b.WriteString("\n")
	}

	path := filepath.Join(w.dir, v.Name+".txt")
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write text dump %s: %w", v.Name, err)
	}
	w.logger.Info("text dump written", "path", path, "rows", len(v.Cells))
	return nil
}

func (w *Writer) writeCSV(v legacy.View) error {
	path := filepath.Join(w.dir, v.Name+".csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv dump %s: %w", v.Name, err)
	}
	defer f.Close()

	if err := gocsv.Marshal(v.Records, f); err != nil {
		return fmt.Errorf("write csv dump %s: %w", v.Name, err)
	}
	return nil
}

// writeWorkbook collects every view, empty ones included, into one xlsx
// file with a sheet per view.
func (w *Writer) writeWorkbook(views []legacy.View, name string) error {
	wb := excelize.NewFile()
	defer wb.Close()

	for i, v := range views {
		sheet := v.Name
		if i == 0 {
			if err := wb.SetSheetName("Sheet1", sheet); err != nil {
				return fmt.Errorf("rename workbook sheet: %w", err)
			}
		} else {
			if _, err := wb.NewSheet(sheet); err != nil {
				return fmt.Errorf("add workbook sheet %s: %w", sheet, err)
			}
		}

		header := make([]any, len(v.Headers))
		for c, h := range v.Headers {
			header[c] = h
		}
		if err := wb.SetSheetRow(sheet, "A1", &header); err != nil {
			return fmt.Errorf("write workbook header %s: %w", sheet, err)
		}

		for r, row := range v.Cells {
			cells := make([]any, len(row))
			for c, cell := range row {
				cells[c] = cell
			}
			axis, err := excelize.CoordinatesToCellName(1, r+2)
			if err != nil {
				return fmt.Errorf("workbook cell %s: %w", sheet, err)
			}
			if err := wb.SetSheetRow(sheet, axis, &cells); err != nil {
				return fmt.Errorf("write workbook row %s: %w", sheet, err)
			}
		}
	}

	path := filepath.Join(w.dir, name)
	if err := wb.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	w.logger.Info("workbook written", "path", path, "sheets", len(views))
	return nil
}

// WriteSQL writes the assembled migration script.
func (w *Writer) WriteSQL(name, script string) error {
	path := filepath.Join(w.dir, name)
	if err := os.WriteFile(path, []byte(script), 0644); err != nil {
		return fmt.Errorf("write sql script: %w", err)
	}
	w.logger.Info("sql script written", "path", path, "lines", strings.Count(script, "\n"))
	return nil
}

func columnWidths(v legacy.View) []int {
	widths := make([]int, len(v.Headers))
	for i, h := range v.Headers {
		widths[i] = len([]rune(h))
	}
	for _, row := range v.Cells {
		for i, cell := range row {
			if l := len([]rune(cell)); l > widths[i] {
				widths[i] = l
			}
		}
	}
	for i := range widths {
		widths[i] += padding
	}
	return widths
}

func pad(s string, width int) string {
	if gap := width - len([]rune(s)); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}
