// Package export renders period reports as spreadsheets.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/aliskhannn/learning-progress-tracker/internal/domain/entities"
)

// ContentType is the MIME type of the produced workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var header = []any{"Date", "Content", "Terms", "Quiz score", "Quiz correct", "Quiz total"}

// Filename suggests a download name for a report.
func Filename(sessionID string, report *entities.PeriodReport) string {
	return fmt.Sprintf("progress_%s_%s_%s.xlsx", sanitize(sessionID), report.StartDate, report.EndDate)
}

// WritePeriodReport writes report as a single-sheet workbook to w: a header
// row, one row per day and a totals row.
func WritePeriodReport(w io.Writer, report *entities.PeriodReport) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, day := range report.PeriodData {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{day.Date, day.ContentCount, day.TermCount, day.QuizScore, day.QuizCorrect, day.QuizTotal}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %s: %w", day.Date, err)
		}
	}

	totals := report.Totals()
	totalsCell, err := excelize.CoordinatesToCellName(1, len(report.PeriodData)+2)
	if err != nil {
		return err
	}
	totalsRow := []any{"Total", totals.ContentCount, totals.TermCount, totals.QuizScore, totals.QuizCorrect, totals.QuizTotal}
	if err := f.SetSheetRow(sheet, totalsCell, &totalsRow); err != nil {
		return fmt.Errorf("write totals: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("new style: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(header))
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}
	if err := f.SetCellStyle(sheet, totalsCell, fmt.Sprintf("%s%d", lastCol, len(report.PeriodData)+2), bold); err != nil {
		return fmt.Errorf("style totals: %w", err)
	}
	if err := f.SetColWidth(sheet, "A", "A", 12); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func sanitize(s string) string {
	out := []rune(s)
	for i, r := range out {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			out[i] = '_'
		}
	}
	return string(out)
}
