package entities

import "time"

// DayStat is the per-day breakdown emitted by the period report.
type DayStat struct {
	Date         string `json:"date"`
	ContentCount int    `json:"content_count"`
	TermCount    int    `json:"term_count"`
	QuizScore    int    `json:"quiz_score"`
	QuizCorrect  int    `json:"quiz_correct"`
	QuizTotal    int    `json:"quiz_total"`
}

// PeriodReport covers every civil date of an inclusive range.
type PeriodReport struct {
	PeriodData []DayStat `json:"period_data"`
	StartDate  string    `json:"start_date"`
	EndDate    string    `json:"end_date"`
	TotalDays  int       `json:"total_days"`
}

// BuildPeriodReport breaks the records down per day over [start, end].
// Days without records are emitted with zero figures.
func BuildPeriodReport(records []ProgressRecord, start, end time.Time) PeriodReport {
	s := newScan(records)

	dates := DatesBetween(start, end)
	data := make([]DayStat, 0, len(dates))
	for _, date := range dates {
		data = append(data, s.days[date].stat(date))
	}

	return PeriodReport{
		PeriodData: data,
		StartDate:  FormatDate(start),
		EndDate:    FormatDate(end),
		TotalDays:  len(data),
	}
}

// Totals sums the per-day figures of the report; QuizScore is the accuracy over the range.
func (p PeriodReport) Totals() DayStat {
	var t DayStat
	for _, d := range p.PeriodData {
		t.ContentCount += d.ContentCount
		t.TermCount += d.TermCount
		t.QuizCorrect += d.QuizCorrect
		t.QuizTotal += d.QuizTotal
	}
	t.QuizScore = Percent(t.QuizCorrect, t.QuizTotal)
	return t
}
