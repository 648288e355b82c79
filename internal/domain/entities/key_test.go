package entities

import "testing"

func TestClassify(t *testing.T) {
	cases := []struct {
		key  string
		want RecordKind
	}{
		{"2024-03-01", DailyContent("2024-03-01")},
		{"__terms__2024-03-01_2", TermGroup("2024-03-01", 2)},
		{"__quiz__2024-03-01_7", QuizAttempt("2024-03-01", 7)},
		{"__stats__", StatsCache()},
		{"__terms__2024-03-01_x", TermGroup("2024-03-01", -1)},
		{"__quiz__2024-03-01", QuizAttempt("2024-03-01", -1)},
		{"__something__", RecordKind{Kind: KindUnknown}},
		{CorruptStatsKey, RecordKind{Kind: KindUnknown}},
		{"not-a-date", DailyContent("not-a-date")},
	}

	for _, tc := range cases {
		got := Classify(tc.key)
		if got != tc.want {
			t.Fatalf("Classify(%q) = %+v, want %+v", tc.key, got, tc.want)
		}
	}
}

func TestKeyRoundTrip(t *testing.T) {
	kinds := []RecordKind{
		DailyContent("2024-12-31"),
		TermGroup("2024-12-31", 0),
		TermGroup("2024-12-31", 12),
		QuizAttempt("2025-01-01", 3),
		StatsCache(),
	}

	for _, k := range kinds {
		if got := Classify(k.Key()); got != k {
			t.Fatalf("Classify(%q) = %+v, want %+v", k.Key(), got, k)
		}
	}
}

func TestDayPrefixes(t *testing.T) {
	if got := TermDayPrefix("2024-03-01"); got != "__terms__2024-03-01_" {
		t.Fatalf("TermDayPrefix = %q", got)
	}
	if got := QuizDayPrefix("2024-03-01"); got != "__quiz__2024-03-01_" {
		t.Fatalf("QuizDayPrefix = %q", got)
	}
	if !IsReserved(StatsKey) || IsReserved("2024-03-01") {
		t.Fatal("IsReserved misclassifies keys")
	}
}
