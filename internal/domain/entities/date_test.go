package entities

import (
	"errors"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	if _, err := ParseDate("2024-02-29"); err != nil {
		t.Fatalf("leap day: %v", err)
	}
	for _, bad := range []string{"", "2023-02-29", "2024/01/01", "01-01-2024"} {
		if _, err := ParseDate(bad); !errors.Is(err, ErrInvalidDateFormat) {
			t.Fatalf("ParseDate(%q) err = %v, want ErrInvalidDateFormat", bad, err)
		}
	}
}

func TestDatesBetween(t *testing.T) {
	start, _ := ParseDate("2024-12-30")
	end, _ := ParseDate("2025-01-02")

	got := DatesBetween(start, end)
	if len(got) != 4 || got[0] != "2024-12-30" || got[3] != "2025-01-02" {
		t.Fatalf("dates = %v", got)
	}
	if DatesBetween(end, start) != nil {
		t.Fatal("reversed range must be empty")
	}
}

func TestCalendarToday(t *testing.T) {
	fixed := time.Date(2024, 3, 1, 16, 30, 0, 0, time.UTC)
	seoul := time.FixedZone("UTC+09:00", 9*3600)

	if got := NewCalendar(seoul, func() time.Time { return fixed }).Today(); got != "2024-03-02" {
		t.Fatalf("seoul today = %s, want 2024-03-02", got)
	}
	if got := NewCalendar(nil, func() time.Time { return fixed }).Today(); got != "2024-03-01" {
		t.Fatalf("utc today = %s, want 2024-03-01", got)
	}
}

func TestParseTimezoneLocation(t *testing.T) {
	cases := []struct {
		in     string
		offset int
	}{
		{"", 0},
		{"UTC", 0},
		{"UTC+9", 9 * 3600},
		{"UTC-7", -7 * 3600},
		{"+5:30", 5*3600 + 30*60},
		{"-03:30", -(3*3600 + 30*60)},
	}

	ref := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, tc := range cases {
		loc, err := ParseTimezoneLocation(tc.in)
		if err != nil {
			t.Fatalf("ParseTimezoneLocation(%q): %v", tc.in, err)
		}
		if _, off := ref.In(loc).Zone(); off != tc.offset {
			t.Fatalf("%q offset = %d, want %d", tc.in, off, tc.offset)
		}
	}

	for _, bad := range []string{"Mars/Base", "UTC+15", "+9:75"} {
		if _, err := ParseTimezoneLocation(bad); err == nil {
			t.Fatalf("ParseTimezoneLocation(%q) must fail", bad)
		}
	}
}
