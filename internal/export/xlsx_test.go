package export

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/aliskhannn/learning-progress-tracker/internal/domain/entities"
)

func TestWritePeriodReport(t *testing.T) {
	report := &entities.PeriodReport{
		PeriodData: []entities.DayStat{
			{Date: "2024-03-01", ContentCount: 2, TermCount: 3, QuizScore: 80, QuizCorrect: 8, QuizTotal: 10},
			{Date: "2024-03-02"},
		},
		StartDate: "2024-03-01",
		EndDate:   "2024-03-02",
		TotalDays: 2,
	}

	var buf bytes.Buffer
	if err := WritePeriodReport(&buf, report); err != nil {
		t.Fatalf("write: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("rows = %d, want header, 2 days and totals", len(rows))
	}
	if rows[0][0] != "Date" || rows[1][0] != "2024-03-01" || rows[3][0] != "Total" {
		t.Fatalf("first column = %q %q %q", rows[0][0], rows[1][0], rows[3][0])
	}
	if rows[1][1] != "2" || rows[3][4] != "8" || rows[3][3] != "80" {
		t.Fatalf("figures = %v / %v", rows[1], rows[3])
	}
}

func TestFilename(t *testing.T) {
	report := &entities.PeriodReport{StartDate: "2024-03-01", EndDate: "2024-03-07"}

	got := Filename("tg:42/../x", report)
	want := "progress_tg_42____x_2024-03-01_2024-03-07.xlsx"
	if got != want {
		t.Fatalf("Filename = %q, want %q", got, want)
	}
}
