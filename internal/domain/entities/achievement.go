package entities

import "github.com/samber/lo"

// Metric is a statistic an achievement threshold is checked against.
type Metric string

const (
	MetricContent   Metric = "content"    // total_learned
	MetricTerms     Metric = "terms"      // total_terms_learned
	MetricStreak    Metric = "streak"     // streak_days
	MetricQuizScore Metric = "quiz_score" // latest attempt score
)

// Badge names.
const (
	BadgeFirstLearn      = "first_learn"
	BadgeBeginner        = "beginner"
	BadgeLearner         = "learner"
	BadgeFirst10         = "first_10"
	BadgeKnowledgeSeeker = "knowledge_seeker"
	BadgeFirst50         = "first_50"
	BadgeFirstTerm       = "first_term"
	BadgeTermCollector   = "term_collector"
	BadgeTermMaster      = "term_master"
	BadgeThreeDayStreak  = "three_day_streak"
	BadgeWeekStreak      = "week_streak"
	BadgeTwoWeekStreak   = "two_week_streak"
	BadgeQuizBeginner    = "quiz_beginner"
	BadgeQuizMaster      = "quiz_master"
	BadgePerfectQuiz     = "perfect_quiz"
)

// AchievementRule unlocks Badge once Metric reaches Threshold.
type AchievementRule struct {
	Badge     string
	Metric    Metric
	Threshold int
}

// AchievementRules is the fixed threshold table, in evaluation order.
var AchievementRules = []AchievementRule{
	{BadgeFirstLearn, MetricContent, 1},
	{BadgeBeginner, MetricContent, 3},
	{BadgeLearner, MetricContent, 5},
	{BadgeFirst10, MetricContent, 10},
	{BadgeKnowledgeSeeker, MetricContent, 20},
	{BadgeFirst50, MetricContent, 50},

	{BadgeFirstTerm, MetricTerms, 1},
	{BadgeTermCollector, MetricTerms, 5},
	{BadgeTermMaster, MetricTerms, 10},

	{BadgeThreeDayStreak, MetricStreak, 3},
	{BadgeWeekStreak, MetricStreak, 7},
	{BadgeTwoWeekStreak, MetricStreak, 14},

	{BadgeQuizBeginner, MetricQuizScore, 60},
	{BadgeQuizMaster, MetricQuizScore, 80},
	{BadgePerfectQuiz, MetricQuizScore, 100},
}

// Value returns the current value of metric m.
func (s Stats) Value(m Metric) int {
	switch m {
	case MetricContent:
		return s.TotalLearned
	case MetricTerms:
		return s.TotalTermsLearned
	case MetricStreak:
		return s.StreakDays
	case MetricQuizScore:
		return s.QuizScore
	default:
		return 0
	}
}

// EvaluateAchievements applies the threshold table to stats. Badges already in
// current are kept regardless of the metric's present value; the returned set
// only ever grows. unlocked lists the badges added by this call.
func EvaluateAchievements(stats Stats, current []string) (all []string, unlocked []string) {
	all = append([]string{}, current...)
	unlocked = []string{}

	for _, rule := range AchievementRules {
		if stats.Value(rule.Metric) < rule.Threshold || lo.Contains(all, rule.Badge) {
			continue
		}
		all = append(all, rule.Badge)
		unlocked = append(unlocked, rule.Badge)
	}

	return all, unlocked
}

// LookupRule returns the rule of a badge.
func LookupRule(badge string) (AchievementRule, bool) {
	return lo.Find(AchievementRules, func(r AchievementRule) bool { return r.Badge == badge })
}
