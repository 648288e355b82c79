package entities

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultTimezone is the canonical civil timezone for "today" boundaries.
const DefaultTimezone = "Asia/Seoul"

// ParseTimezoneLocation resolves the configured canonical timezone. Accepted:
//   - IANA names like "Asia/Seoul"
//   - "UTC", "GMT", "Etc/UTC"
//   - fixed offsets: "UTC+9", "UTC-7", "UTC+5:30", "+9", "-03:30"
//
// Fixed offsets become a time.FixedZone and ignore DST.
func ParseTimezoneLocation(tz string) (*time.Location, error) {
	tz = strings.TrimSpace(tz)
	switch strings.ToUpper(tz) {
	case "", "UTC", "GMT", "ETC/UTC":
		return time.UTC, nil
	}

	if loc, err := time.LoadLocation(tz); err == nil {
		return loc, nil
	}

	offset, ok := parseOffset(tz)
	if !ok {
		return nil, fmt.Errorf("unsupported timezone %q", tz)
	}

	return time.FixedZone(offsetName(offset), offset), nil
}

// parseOffset returns the offset in seconds of "+H", "-HH:MM" or "UTC±H[:MM]".
func parseOffset(s string) (int, bool) {
	if len(s) >= 3 && strings.EqualFold(s[:3], "UTC") {
		s = strings.TrimSpace(s[3:])
	}
	if len(s) < 2 {
		return 0, false
	}

	sign := 1
	switch s[0] {
	case '+':
	case '-':
		sign = -1
	default:
		return 0, false
	}

	hh, mm, hasMinutes := strings.Cut(s[1:], ":")
	if !hasMinutes {
		mm = "0"
	}

	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 14 {
		return 0, false
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m >= 60 {
		return 0, false
	}

	return sign * (h*3600 + m*60), true
}

func offsetName(offset int) string {
	sign := '+'
	if offset < 0 {
		sign = '-'
		offset = -offset
	}
	return fmt.Sprintf("UTC%c%02d:%02d", sign, offset/3600, offset%3600/60)
}
