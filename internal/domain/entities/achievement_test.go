package entities

import (
	"slices"
	"testing"
)

func TestEvaluateAchievementsThresholds(t *testing.T) {
	st := Stats{TotalLearned: 3, TotalTermsLearned: 1, StreakDays: 3, QuizScore: 80}

	all, unlocked := EvaluateAchievements(st, nil)

	want := []string{
		BadgeFirstLearn, BadgeBeginner,
		BadgeFirstTerm,
		BadgeThreeDayStreak,
		BadgeQuizBeginner, BadgeQuizMaster,
	}
	if !slices.Equal(unlocked, want) {
		t.Fatalf("unlocked = %v, want %v", unlocked, want)
	}
	if !slices.Equal(all, want) {
		t.Fatalf("all = %v, want %v", all, want)
	}
}

func TestEvaluateAchievementsNeverRevokes(t *testing.T) {
	current := []string{BadgeQuizMaster, BadgeWeekStreak}

	all, unlocked := EvaluateAchievements(Stats{QuizScore: 10}, current)

	if len(unlocked) != 0 {
		t.Fatalf("unlocked = %v, want none", unlocked)
	}
	if !slices.Equal(all, current) {
		t.Fatalf("all = %v, want %v", all, current)
	}
}

func TestEvaluateAchievementsIdempotent(t *testing.T) {
	st := Stats{TotalLearned: 12}

	first, _ := EvaluateAchievements(st, nil)
	second, unlocked := EvaluateAchievements(st, first)

	if len(unlocked) != 0 || !slices.Equal(first, second) {
		t.Fatalf("second pass changed the set: %v -> %v", first, second)
	}
}

func TestLookupRule(t *testing.T) {
	rule, ok := LookupRule(BadgePerfectQuiz)
	if !ok || rule.Metric != MetricQuizScore || rule.Threshold != 100 {
		t.Fatalf("rule = %+v, %v", rule, ok)
	}
	if _, ok := LookupRule("nope"); ok {
		t.Fatal("unknown badge must not resolve")
	}
}
