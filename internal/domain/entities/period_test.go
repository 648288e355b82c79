package entities

import "testing"

func TestBuildPeriodReport(t *testing.T) {
	records := []ProgressRecord{
		rec("2024-03-01", `[0,1]`),
		rec(EncodeTermKey("2024-03-01", 0), `["alpha","beta"]`),
		rec(EncodeTermKey("2024-03-01", 1), `["alpha"]`),
		rec(EncodeQuizKey("2024-03-03", 1), `{"correct":3,"total":4,"score":75}`),
		rec("2024-03-05", `[2]`),
	}
	start, _ := ParseDate("2024-03-01")
	end, _ := ParseDate("2024-03-03")

	report := BuildPeriodReport(records, start, end)

	if report.TotalDays != 3 || len(report.PeriodData) != 3 {
		t.Fatalf("days = %d / %d, want 3", report.TotalDays, len(report.PeriodData))
	}
	if report.StartDate != "2024-03-01" || report.EndDate != "2024-03-03" {
		t.Fatalf("range = %s..%s", report.StartDate, report.EndDate)
	}

	first := report.PeriodData[0]
	if first.ContentCount != 2 || first.TermCount != 2 {
		t.Fatalf("day 1 = %+v", first)
	}
	if empty := report.PeriodData[1]; empty.ContentCount != 0 || empty.QuizTotal != 0 {
		t.Fatalf("day 2 = %+v, want zeros", empty)
	}
	if third := report.PeriodData[2]; third.QuizScore != 75 {
		t.Fatalf("day 3 score = %d, want 75", third.QuizScore)
	}

	totals := report.Totals()
	if totals.ContentCount != 2 || totals.QuizCorrect != 3 || totals.QuizScore != 75 {
		t.Fatalf("totals = %+v", totals)
	}
}

func TestBuildPeriodReportReversed(t *testing.T) {
	start, _ := ParseDate("2024-03-05")
	end, _ := ParseDate("2024-03-01")

	report := BuildPeriodReport(nil, start, end)
	if report.TotalDays != 0 || len(report.PeriodData) != 0 {
		t.Fatalf("report = %+v, want empty", report)
	}
}
