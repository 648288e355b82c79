package entities

import "testing"

func TestSameTotalsComparesAchievementSets(t *testing.T) {
	last := "2024-03-01"
	base := Stats{TotalLearned: 3, LastLearnedDate: &last, Achievements: []string{BadgeFirstLearn, BadgeBeginner}}

	cases := []struct {
		name  string
		other func(Stats) Stats
		want  bool
	}{
		{"identical", func(s Stats) Stats { return s }, true},
		{"reordered badges", func(s Stats) Stats {
			s.Achievements = []string{BadgeBeginner, BadgeFirstLearn}
			return s
		}, true},
		{"different badges of the same count", func(s Stats) Stats {
			s.Achievements = []string{BadgeFirstLearn, BadgeQuizMaster}
			return s
		}, false},
		{"quiz totals", func(s Stats) Stats {
			s.TotalQuizQuestions = 10
			return s
		}, false},
		{"last learned date", func(s Stats) Stats {
			s.LastLearnedDate = nil
			return s
		}, false},
		{"today figures ignored", func(s Stats) Stats {
			s.TodayContent = 7
			return s
		}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := base.SameTotals(tc.other(base)); got != tc.want {
				t.Fatalf("SameTotals = %v, want %v", got, tc.want)
			}
		})
	}
}
