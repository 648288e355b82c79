package entities

import (
	"encoding/json"
	"fmt"

	"github.com/samber/lo"
)

// Stats is the single canonical statistics shape of a session. It is the
// payload of the StatsCache record and the result of every stats read.
type Stats struct {
	TotalLearned      int     `json:"total_learned"`
	TotalTermsLearned int     `json:"total_terms_learned"`
	StreakDays        int     `json:"streak_days"`
	MaxStreak         int     `json:"max_streak"`
	LastLearnedDate   *string `json:"last_learned_date"`

	// QuizScore is the score of the latest attempt only.
	QuizScore           int `json:"quiz_score"`
	CumulativeQuizScore int `json:"cumulative_quiz_score"`
	TotalQuizCorrect    int `json:"total_quiz_correct"`
	TotalQuizQuestions  int `json:"total_quiz_questions"`

	// Figures for the current civil day.
	TodayContent     int `json:"today_content"`
	TodayTerms       int `json:"today_terms"`
	TodayQuizScore   int `json:"today_quiz_score"`
	TodayQuizCorrect int `json:"today_quiz_correct"`
	TodayQuizTotal   int `json:"today_quiz_total"`

	Achievements []string `json:"achievements"`
}

// EmptyStats returns the stats of a session without records.
func EmptyStats() Stats {
	return Stats{Achievements: []string{}}
}

// Encode serializes the stats for the StatsCache record.
func (s Stats) Encode() ([]byte, error) {
	if s.Achievements == nil {
		s.Achievements = []string{}
	}
	return json.Marshal(s)
}

// DecodeStats parses a StatsCache payload.
func DecodeStats(payload []byte) (Stats, error) {
	s := EmptyStats()
	if len(payload) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(payload, &s); err != nil {
		return EmptyStats(), fmt.Errorf("%w: %v", ErrCorruptPayload, err)
	}
	if s.Achievements == nil {
		s.Achievements = []string{}
	}

	return s, nil
}

// SameTotals reports whether two snapshots agree on every day-independent figure
// and hold the same set of achievements. Reconciliation uses it to detect a
// drifted cache.
func (s Stats) SameTotals(o Stats) bool {
	sameDate := (s.LastLearnedDate == nil && o.LastLearnedDate == nil) ||
		(s.LastLearnedDate != nil && o.LastLearnedDate != nil && *s.LastLearnedDate == *o.LastLearnedDate)

	onlyS, onlyO := lo.Difference(s.Achievements, o.Achievements)

	return sameDate &&
		s.TotalLearned == o.TotalLearned &&
		s.TotalTermsLearned == o.TotalTermsLearned &&
		s.StreakDays == o.StreakDays &&
		s.MaxStreak == o.MaxStreak &&
		s.QuizScore == o.QuizScore &&
		s.CumulativeQuizScore == o.CumulativeQuizScore &&
		s.TotalQuizCorrect == o.TotalQuizCorrect &&
		s.TotalQuizQuestions == o.TotalQuizQuestions &&
		len(onlyS) == 0 && len(onlyO) == 0
}
