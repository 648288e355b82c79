package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aliskhannn/learning-progress-tracker/internal/domain/entities"
)

func TestPeriodReport(t *testing.T) {
	f := newFixture(t, "2024-03-01")
	ctx := context.Background()

	if _, err := f.progress.SubmitDailyContent(ctx, "s1", "2024-03-01", 0); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := f.progress.SubmitDailyContent(ctx, "s1", "2024-03-03", 1); err != nil {
		t.Fatalf("submit: %v", err)
	}

	report, err := f.reports.PeriodReport(ctx, "s1", "2024-03-01", "2024-03-03")
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if report.TotalDays != 3 {
		t.Fatalf("days = %d, want 3", report.TotalDays)
	}
	counts := []int{1, 0, 1}
	for i, day := range report.PeriodData {
		if day.ContentCount != counts[i] {
			t.Fatalf("%s content = %d, want %d", day.Date, day.ContentCount, counts[i])
		}
	}
}

func TestPeriodReportDates(t *testing.T) {
	f := newFixture(t, "2024-03-01")
	ctx := context.Background()

	if _, err := f.reports.PeriodReport(ctx, "s1", "2024-3-1", "2024-03-03"); !errors.Is(err, entities.ErrInvalidDateFormat) {
		t.Fatalf("bad start err = %v", err)
	}
	if _, err := f.reports.PeriodReport(ctx, "s1", "2024-03-01", "tomorrow"); !errors.Is(err, entities.ErrInvalidDateFormat) {
		t.Fatalf("bad end err = %v", err)
	}

	report, err := f.reports.PeriodReport(ctx, "s1", "2024-03-05", "2024-03-01")
	if err != nil {
		t.Fatalf("reversed: %v", err)
	}
	if report.TotalDays != 0 {
		t.Fatalf("reversed days = %d, want 0", report.TotalDays)
	}
}
