package telegram

import (
	"fmt"
	"strings"

	"github.com/aliskhannn/learning-progress-tracker/internal/domain/entities"
	"github.com/aliskhannn/learning-progress-tracker/internal/service"
)

var badgeTitles = map[string]string{
	entities.BadgeFirstLearn:      "🌱 First step",
	entities.BadgeBeginner:        "📗 Beginner",
	entities.BadgeLearner:         "📘 Learner",
	entities.BadgeFirst10:         "🔟 Ten items",
	entities.BadgeKnowledgeSeeker: "🔎 Knowledge seeker",
	entities.BadgeFirst50:         "🏅 Fifty items",
	entities.BadgeFirstTerm:       "🔤 First term",
	entities.BadgeTermCollector:   "🗂 Term collector",
	entities.BadgeTermMaster:      "🎓 Term master",
	entities.BadgeThreeDayStreak:  "🔥 3-day streak",
	entities.BadgeWeekStreak:      "🔥 Week streak",
	entities.BadgeTwoWeekStreak:   "🔥 Two-week streak",
	entities.BadgeQuizBeginner:    "✏️ Quiz beginner",
	entities.BadgeQuizMaster:      "🧠 Quiz master",
	entities.BadgePerfectQuiz:     "💯 Perfect quiz",
}

var metricUnits = map[entities.Metric]string{
	entities.MetricContent:   "items learned",
	entities.MetricTerms:     "terms learned",
	entities.MetricStreak:    "days in a row",
	entities.MetricQuizScore: "points in one quiz",
}

func badgeTitle(badge string) string {
	if t, ok := badgeTitles[badge]; ok {
		return t
	}
	return badge
}

func renderStats(s entities.Stats) string {
	last := "never"
	if s.LastLearnedDate != nil {
		last = *s.LastLearnedDate
	}

	var b strings.Builder
	b.WriteString(bold("📊 Your statistics") + "\n\n")
	b.WriteString(md(fmt.Sprintf("📚 Content learned: %d\n", s.TotalLearned)))
	b.WriteString(md(fmt.Sprintf("🔤 Terms learned: %d\n", s.TotalTermsLearned)))
	b.WriteString(md(fmt.Sprintf("🔥 Streak: %d days (best %d)\n", s.StreakDays, s.MaxStreak)))
	b.WriteString(md(fmt.Sprintf("📅 Last learned: %s\n", last)))
	b.WriteString(md(fmt.Sprintf("🧠 Last quiz: %d%%, overall %d%% (%d/%d)\n",
		s.QuizScore, s.CumulativeQuizScore, s.TotalQuizCorrect, s.TotalQuizQuestions)))
	b.WriteString("\n" + bold("Today") + "\n")
	b.WriteString(md(fmt.Sprintf("Content %d · terms %d · quiz %d%% (%d/%d)\n",
		s.TodayContent, s.TodayTerms, s.TodayQuizScore, s.TodayQuizCorrect, s.TodayQuizTotal)))
	b.WriteString(md(fmt.Sprintf("\n🏆 Achievements: %d/%d", len(s.Achievements), len(entities.AchievementRules))))
	return b.String()
}

func renderAchievements(status *service.AchievementStatus) string {
	var b strings.Builder
	b.WriteString(bold("🏆 Achievements") + "\n\n")

	if len(status.Unlocked) == 0 {
		b.WriteString(md("No badges yet. Learn your first item with /learn 1.") + "\n")
	}
	for _, badge := range status.Unlocked {
		b.WriteString(md("✅ "+badgeTitle(badge)) + "\n")
	}

	if len(status.Locked) > 0 {
		b.WriteString("\n" + bold("Next up") + "\n")
		for _, rule := range status.Locked {
			current := status.Stats.Value(rule.Metric)
			b.WriteString(md(fmt.Sprintf("%s %s %d/%d %s\n",
				badgeTitle(rule.Badge),
				buildProgressBar(current, rule.Threshold, 10),
				min(current, rule.Threshold),
				rule.Threshold,
				metricUnits[rule.Metric],
			)))
		}
	}

	return b.String()
}

// maxRenderedDays keeps a period message under Telegram's length limit.
const maxRenderedDays = 31

func renderPeriod(report *entities.PeriodReport) string {
	var b strings.Builder
	b.WriteString(bold(fmt.Sprintf("📅 %s … %s", report.StartDate, report.EndDate)) + "\n\n")

	if report.TotalDays <= maxRenderedDays {
		var lines []string
		for _, d := range report.PeriodData {
			lines = append(lines, fmt.Sprintf("%s  📚%-3d 🔤%-3d 🧠%3d%%", d.Date, d.ContentCount, d.TermCount, d.QuizScore))
		}
		b.WriteString("```\n" + tgEscapeCode(strings.Join(lines, "\n")) + "\n```\n")
	} else {
		b.WriteString(md("The period is too long to list day by day; use /export for the full breakdown.") + "\n\n")
	}

	t := report.Totals()
	b.WriteString(md(fmt.Sprintf("Total over %d days: %d items, %d terms, quiz accuracy %d%% (%d/%d)",
		report.TotalDays, t.ContentCount, t.TermCount, t.QuizScore, t.QuizCorrect, t.QuizTotal)))
	return b.String()
}

// tgEscapeCode escapes the characters MarkdownV2 reserves inside code blocks.
func tgEscapeCode(s string) string {
	return strings.NewReplacer("\\", "\\\\", "`", "\\`").Replace(s)
}

// renderIngest confirms a submission and announces new badges.
func renderIngest(headline string, res *service.IngestResult) string {
	var b strings.Builder
	b.WriteString(md(headline) + "\n")
	b.WriteString(md(fmt.Sprintf("📚 %d items · 🔤 %d terms · 🔥 %d days",
		res.Stats.TotalLearned, res.Stats.TotalTermsLearned, res.Stats.StreakDays)))

	if len(res.NewAchievements) > 0 {
		b.WriteString("\n\n" + bold("🎉 New achievements!") + "\n")
		for _, badge := range res.NewAchievements {
			b.WriteString(md(badgeTitle(badge)) + "\n")
		}
	}
	return b.String()
}
