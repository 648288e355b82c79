package entities

import (
	"strconv"
	"strings"
)

// Kind identifies the namespace a stored progress key belongs to.
type Kind int

const (
	KindDailyContent Kind = iota + 1 // plain date key, set of content indices
	KindTermGroup                    // terms learned within one content item's term group
	KindQuizAttempt                  // one completed quiz attempt
	KindStatsCache                   // memoized aggregate
	KindUnknown                      // reserved prefix without a known namespace
)

func (k Kind) String() string {
	switch k {
	case KindDailyContent:
		return "daily_content"
	case KindTermGroup:
		return "term_group"
	case KindQuizAttempt:
		return "quiz_attempt"
	case KindStatsCache:
		return "stats_cache"
	default:
		return "unknown"
	}
}

// Reserved namespaces start with a token that never prefixes an ISO date.
const (
	ReservedPrefix = "__"
	termPrefix     = ReservedPrefix + "terms__"
	quizPrefix     = ReservedPrefix + "quiz__"
	StatsKey       = ReservedPrefix + "stats__"

	// CorruptStatsKey keeps the last StatsCache payload that failed to decode.
	// Aggregation ignores it.
	CorruptStatsKey = ReservedPrefix + "stats_corrupt__"
)

// RecordKind is the decoded form of a storage key.
// Date is set for DailyContent, TermGroup and QuizAttempt; GroupIndex only for
// TermGroup and SessionNumber only for QuizAttempt. Malformed numeric suffixes
// decode to -1.
type RecordKind struct {
	Kind          Kind
	Date          string
	GroupIndex    int
	SessionNumber int
}

// DailyContent returns the kind of a per-day content record.
func DailyContent(date string) RecordKind {
	return RecordKind{Kind: KindDailyContent, Date: date}
}

// TermGroup returns the kind of a term group record.
func TermGroup(date string, groupIndex int) RecordKind {
	return RecordKind{Kind: KindTermGroup, Date: date, GroupIndex: groupIndex}
}

// QuizAttempt returns the kind of a quiz attempt record.
func QuizAttempt(date string, sessionNumber int) RecordKind {
	return RecordKind{Kind: KindQuizAttempt, Date: date, SessionNumber: sessionNumber}
}

// StatsCache returns the kind of the memoized aggregate record.
func StatsCache() RecordKind {
	return RecordKind{Kind: KindStatsCache}
}

// Key encodes the kind back into its storage key.
func (k RecordKind) Key() string {
	switch k.Kind {
	case KindDailyContent:
		return k.Date
	case KindTermGroup:
		return EncodeTermKey(k.Date, k.GroupIndex)
	case KindQuizAttempt:
		return EncodeQuizKey(k.Date, k.SessionNumber)
	case KindStatsCache:
		return StatsKey
	default:
		return ""
	}
}

// EncodeTermKey builds "__terms__{date}_{groupIndex}".
func EncodeTermKey(date string, groupIndex int) string {
	return termPrefix + date + "_" + strconv.Itoa(groupIndex)
}

// EncodeQuizKey builds "__quiz__{date}_{sessionNumber}".
func EncodeQuizKey(date string, sessionNumber int) string {
	return quizPrefix + date + "_" + strconv.Itoa(sessionNumber)
}

// TermNamespacePrefix matches every TermGroup key.
func TermNamespacePrefix() string { return termPrefix }

// QuizNamespacePrefix matches every QuizAttempt key.
func QuizNamespacePrefix() string { return quizPrefix }

// TermDayPrefix matches the TermGroup keys of one day.
func TermDayPrefix(date string) string { return termPrefix + date + "_" }

// QuizDayPrefix matches the QuizAttempt keys of one day.
func QuizDayPrefix(date string) string { return quizPrefix + date + "_" }

// IsReserved reports whether key lives in a reserved namespace.
func IsReserved(key string) bool {
	return strings.HasPrefix(key, ReservedPrefix)
}

// Classify routes a stored key to exactly one namespace. Keys without the
// reserved prefix are DailyContent dates.
func Classify(key string) RecordKind {
	switch {
	case key == StatsKey:
		return StatsCache()
	case strings.HasPrefix(key, termPrefix):
		date, n := splitSuffix(strings.TrimPrefix(key, termPrefix))
		return TermGroup(date, n)
	case strings.HasPrefix(key, quizPrefix):
		date, n := splitSuffix(strings.TrimPrefix(key, quizPrefix))
		return QuizAttempt(date, n)
	case IsReserved(key):
		return RecordKind{Kind: KindUnknown}
	default:
		return DailyContent(key)
	}
}

// splitSuffix splits "{date}_{n}" at the last underscore.
func splitSuffix(rest string) (string, int) {
	i := strings.LastIndexByte(rest, '_')
	if i < 0 {
		return rest, -1
	}

	n, err := strconv.Atoi(rest[i+1:])
	if err != nil || n < 0 {
		return rest[:i], -1
	}

	return rest[:i], n
}
