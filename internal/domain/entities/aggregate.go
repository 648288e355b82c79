package entities

import (
	"sort"

	"github.com/samber/lo"
)

// CorruptRecord names a record whose payload could not be decoded.
type CorruptRecord struct {
	Key string
	Err error
}

// Aggregate is the outcome of a full rescan of one session.
type Aggregate struct {
	Stats   Stats
	Corrupt []CorruptRecord
}

// dayTally accumulates the figures of one civil date.
type dayTally struct {
	content     int
	terms       map[string]struct{}
	quizCorrect int
	quizTotal   int
}

func (d *dayTally) stat(date string) DayStat {
	if d == nil {
		return DayStat{Date: date}
	}
	return DayStat{
		Date:         date,
		ContentCount: d.content,
		TermCount:    len(d.terms),
		QuizScore:    Percent(d.quizCorrect, d.quizTotal),
		QuizCorrect:  d.quizCorrect,
		QuizTotal:    d.quizTotal,
	}
}

// scan is a single pass over a session's records.
type scan struct {
	days         map[string]*dayTally
	learnedDates map[string]struct{}
	terms        map[string]struct{}
	totalLearned int

	quizCorrect int
	quizTotal   int
	latestQuiz  *RecordKind
	latestScore int

	cached  *Stats
	corrupt []CorruptRecord
}

func newScan(records []ProgressRecord) *scan {
	s := &scan{
		days:         make(map[string]*dayTally),
		learnedDates: make(map[string]struct{}),
		terms:        make(map[string]struct{}),
	}
	for _, r := range records {
		s.add(r)
	}
	return s
}

func (s *scan) day(date string) *dayTally {
	d, ok := s.days[date]
	if !ok {
		d = &dayTally{terms: make(map[string]struct{})}
		s.days[date] = d
	}
	return d
}

func (s *scan) skip(key string, err error) {
	s.corrupt = append(s.corrupt, CorruptRecord{Key: key, Err: err})
}

func (s *scan) add(r ProgressRecord) {
	kind := Classify(r.Key)

	switch kind.Kind {
	case KindDailyContent:
		set, err := DecodeContentSet(r.Payload)
		if err != nil {
			s.skip(r.Key, err)
			return
		}
		s.totalLearned += len(set)
		s.day(kind.Date).content += len(set)
		if len(set) > 0 {
			if _, err := ParseDate(kind.Date); err == nil {
				s.learnedDates[kind.Date] = struct{}{}
			}
		}

	case KindTermGroup:
		set, err := DecodeTermSet(r.Payload)
		if err != nil {
			s.skip(r.Key, err)
			return
		}
		d := s.day(kind.Date)
		for _, term := range set {
			s.terms[term] = struct{}{}
			d.terms[term] = struct{}{}
		}

	case KindQuizAttempt:
		q, err := DecodeQuizResult(r.Payload)
		if err != nil {
			s.skip(r.Key, err)
			return
		}
		s.quizCorrect += q.Correct
		s.quizTotal += q.Total
		d := s.day(kind.Date)
		d.quizCorrect += q.Correct
		d.quizTotal += q.Total
		if s.latestQuiz == nil || laterAttempt(kind, *s.latestQuiz) {
			k := kind
			s.latestQuiz = &k
			s.latestScore = q.Score
		}

	case KindStatsCache:
		cached, err := DecodeStats(r.Payload)
		if err != nil {
			s.skip(r.Key, err)
			return
		}
		s.cached = &cached
	}
}

// laterAttempt orders quiz attempts by date, then by session number.
func laterAttempt(a, b RecordKind) bool {
	if a.Date != b.Date {
		return a.Date > b.Date
	}
	return a.SessionNumber > b.SessionNumber
}

// streak counts consecutive learned dates ending at the latest one.
func (s *scan) streak() (int, *string) {
	if len(s.learnedDates) == 0 {
		return 0, nil
	}

	dates := lo.Keys(s.learnedDates)
	sort.Strings(dates)
	last := dates[len(dates)-1]

	count := 0
	for date := last; ; {
		if _, ok := s.learnedDates[date]; !ok {
			break
		}
		count++

		prev, err := PreviousDate(date)
		if err != nil {
			break
		}
		date = prev
	}

	return count, &last
}

// Recompute derives the statistics of a session from its full record set.
// The only carried-forward state is the previous StatsCache's max_streak
// watermark and its achievements; everything else is a pure function of the
// records. Corrupt payloads contribute nothing and are reported back.
func Recompute(records []ProgressRecord, today string) Aggregate {
	s := newScan(records)

	prev := EmptyStats()
	if s.cached != nil {
		prev = *s.cached
	}

	streak, last := s.streak()
	todayStat := s.days[today].stat(today)

	stats := Stats{
		TotalLearned:        s.totalLearned,
		TotalTermsLearned:   len(s.terms),
		StreakDays:          streak,
		MaxStreak:           max(streak, prev.MaxStreak),
		LastLearnedDate:     last,
		QuizScore:           s.latestScore,
		CumulativeQuizScore: Percent(s.quizCorrect, s.quizTotal),
		TotalQuizCorrect:    s.quizCorrect,
		TotalQuizQuestions:  s.quizTotal,
		TodayContent:        todayStat.ContentCount,
		TodayTerms:          todayStat.TermCount,
		TodayQuizScore:      todayStat.QuizScore,
		TodayQuizCorrect:    todayStat.QuizCorrect,
		TodayQuizTotal:      todayStat.QuizTotal,
		Achievements:        append([]string{}, prev.Achievements...),
	}

	return Aggregate{Stats: stats, Corrupt: s.corrupt}
}

// CachedStats returns the stored StatsCache payload, if any decodes.
func CachedStats(records []ProgressRecord) (Stats, bool) {
	for _, r := range records {
		if r.Key != StatsKey {
			continue
		}
		st, err := DecodeStats(r.Payload)
		if err != nil {
			return EmptyStats(), false
		}
		return st, true
	}
	return EmptyStats(), false
}
