package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/learning-progress-tracker/internal/domain/entities"
	"github.com/aliskhannn/learning-progress-tracker/internal/infra/memory"
	"github.com/aliskhannn/learning-progress-tracker/internal/service"
)

func TestSubmitDailyContentIdempotent(t *testing.T) {
	f := newFixture(t, "2024-03-01")
	ctx := context.Background()

	first, err := f.progress.SubmitDailyContent(ctx, "s1", "2024-03-01", 0)
	if err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if !first.Changed || first.Stats.TotalLearned != 1 {
		t.Fatalf("first = %+v", first)
	}
	mustContain(t, first.NewAchievements, entities.BadgeFirstLearn)

	second, err := f.progress.SubmitDailyContent(ctx, "s1", "2024-03-01", 0)
	if err != nil {
		t.Fatalf("second submit: %v", err)
	}
	if second.Changed || second.Stats.TotalLearned != 1 {
		t.Fatalf("second = %+v, want unchanged", second)
	}
	if len(second.NewAchievements) != 0 {
		t.Fatalf("second unlocked %v", second.NewAchievements)
	}

	cached, err := f.store.Get(ctx, "s1", entities.StatsKey)
	if err != nil {
		t.Fatalf("stats cache: %v", err)
	}
	st, err := entities.DecodeStats(cached.Payload)
	if err != nil || st.TotalLearned != 1 {
		t.Fatalf("cached = %+v, %v", st, err)
	}
}

func TestSubmitTermProgressDedupAcrossGroups(t *testing.T) {
	f := newFixture(t, "2024-03-01")
	ctx := context.Background()

	steps := []struct {
		term  string
		date  string
		group int
	}{
		{"alpha", "2024-03-01", 0},
		{"alpha", "2024-03-01", 1},
		{"alpha", "", 0},
		{"beta", "2024-02-28", 2},
	}

	var res *service.IngestResult
	for _, s := range steps {
		var err error
		res, err = f.progress.SubmitTermProgress(ctx, "s1", s.term, s.date, s.group)
		if err != nil {
			t.Fatalf("submit %q: %v", s.term, err)
		}
	}

	if res.Stats.TotalTermsLearned != 2 {
		t.Fatalf("terms = %d, want 2", res.Stats.TotalTermsLearned)
	}
	if res.Stats.TodayTerms != 1 {
		t.Fatalf("today terms = %d, want 1", res.Stats.TodayTerms)
	}

	n, err := f.store.Count(ctx, "s1", entities.TermDayPrefix("2024-03-01"))
	if err != nil || n != 2 {
		t.Fatalf("term groups today = %d, %v; want 2", n, err)
	}
}

func TestStreakOverThreeDays(t *testing.T) {
	f := newFixture(t, "2024-03-01")
	ctx := context.Background()

	var res *service.IngestResult
	for _, date := range []string{"2024-03-01", "2024-03-02", "2024-03-03"} {
		f.clock.set(date)
		var err error
		res, err = f.progress.SubmitDailyContent(ctx, "s1", date, 0)
		if err != nil {
			t.Fatalf("submit %s: %v", date, err)
		}
	}

	if res.Stats.StreakDays != 3 || res.Stats.MaxStreak != 3 {
		t.Fatalf("streak = %d max = %d, want 3", res.Stats.StreakDays, res.Stats.MaxStreak)
	}
	mustContain(t, res.NewAchievements, entities.BadgeThreeDayStreak)

	f.clock.set("2024-03-06")
	res, err := f.progress.SubmitDailyContent(ctx, "s1", "2024-03-06", 0)
	if err != nil {
		t.Fatalf("submit after gap: %v", err)
	}
	if res.Stats.StreakDays != 1 || res.Stats.MaxStreak != 3 {
		t.Fatalf("after gap streak = %d max = %d, want 1 and 3", res.Stats.StreakDays, res.Stats.MaxStreak)
	}
	mustContain(t, res.Stats.Achievements, entities.BadgeThreeDayStreak)
}

func TestSubmitQuizAttempt(t *testing.T) {
	f := newFixture(t, "2024-03-01")
	ctx := context.Background()

	res, err := f.progress.SubmitQuizAttempt(ctx, "s1", 8, 10)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if res.Quiz.SessionNumber != 1 || res.Quiz.Result.Score != 80 || res.Quiz.Date != "2024-03-01" {
		t.Fatalf("quiz = %+v", res.Quiz)
	}
	mustContain(t, res.NewAchievements, entities.BadgeQuizMaster)

	res, err = f.progress.SubmitQuizAttempt(ctx, "s1", 1, 10)
	if err != nil {
		t.Fatalf("second submit: %v", err)
	}
	if res.Quiz.SessionNumber != 2 {
		t.Fatalf("session number = %d, want 2", res.Quiz.SessionNumber)
	}
	if res.Stats.QuizScore != 10 {
		t.Fatalf("latest score = %d, want 10", res.Stats.QuizScore)
	}
	if res.Stats.CumulativeQuizScore != 45 {
		t.Fatalf("cumulative = %d, want 45", res.Stats.CumulativeQuizScore)
	}
	mustContain(t, res.Stats.Achievements, entities.BadgeQuizMaster)

	res, err = f.progress.SubmitQuizAttempt(ctx, "s1", 0, 0)
	if err != nil {
		t.Fatalf("empty quiz: %v", err)
	}
	if res.Quiz.Result.Score != 0 || res.Quiz.SessionNumber != 3 {
		t.Fatalf("empty quiz = %+v", res.Quiz)
	}
}

func TestSubmitValidation(t *testing.T) {
	f := newFixture(t, "2024-03-01")
	ctx := context.Background()

	cases := []struct {
		name string
		run  func() error
	}{
		{"empty session", func() error {
			_, err := f.progress.SubmitDailyContent(ctx, "  ", "2024-03-01", 0)
			return err
		}},
		{"reserved date", func() error {
			_, err := f.progress.SubmitDailyContent(ctx, "s1", "__stats__", 0)
			return err
		}},
		{"negative index", func() error {
			_, err := f.progress.SubmitDailyContent(ctx, "s1", "2024-03-01", -1)
			return err
		}},
		{"empty term", func() error {
			_, err := f.progress.SubmitTermProgress(ctx, "s1", " ", "", 0)
			return err
		}},
		{"negative group", func() error {
			_, err := f.progress.SubmitTermProgress(ctx, "s1", "alpha", "", -2)
			return err
		}},
		{"correct above total", func() error {
			_, err := f.progress.SubmitQuizAttempt(ctx, "s1", 11, 10)
			return err
		}},
		{"negative quiz", func() error {
			_, err := f.progress.SubmitQuizAttempt(ctx, "s1", -1, 10)
			return err
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.run(); !errors.Is(err, service.ErrInvalidArgument) {
				t.Fatalf("err = %v, want ErrInvalidArgument", err)
			}
		})
	}

	n, _ := f.store.Count(ctx, "s1", "")
	if n != 0 {
		t.Fatalf("rejected submissions stored %d records", n)
	}
}

func TestCorruptRecordIsReplacedOnIngest(t *testing.T) {
	f := newFixture(t, "2024-03-01")
	ctx := context.Background()

	if err := f.store.Upsert(ctx, "s1", "2024-03-01", []byte("garbage")); err != nil {
		t.Fatalf("seed: %v", err)
	}

	res, err := f.progress.SubmitDailyContent(ctx, "s1", "2024-03-01", 4)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if res.Stats.TotalLearned != 1 {
		t.Fatalf("total = %d, want 1", res.Stats.TotalLearned)
	}
}

func TestActivityFailureDoesNotFailIngest(t *testing.T) {
	logger := zap.NewNop()
	calendar := entities.NewCalendar(time.UTC, func() time.Time {
		return time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	})
	store := memory.NewStore()
	stats := service.NewStatsService(store, calendar, logger)
	activity := service.NewActivityService(failingActivityRepo{}, logger)
	progress := service.NewProgressService(store, stats, activity, calendar, logger)

	res, err := progress.SubmitDailyContent(context.Background(), "s1", "2024-03-01", 0)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if res.Stats.TotalLearned != 1 {
		t.Fatalf("total = %d, want 1", res.Stats.TotalLearned)
	}
}

func TestIngestEmitsActivity(t *testing.T) {
	f := newFixture(t, "2024-03-01")
	ctx := context.Background()

	if _, err := f.progress.SubmitDailyContent(ctx, "s1", "2024-03-01", 0); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := f.progress.SubmitQuizAttempt(ctx, "s1", 3, 10); err != nil {
		t.Fatalf("quiz: %v", err)
	}

	events, total, err := f.log.List(ctx, entities.ActivityFilter{SessionID: "s1"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 2 || len(events) != 2 {
		t.Fatalf("events = %d (total %d), want 2", len(events), total)
	}

	byAction := make(map[string]entities.ActivityEvent)
	for _, e := range events {
		byAction[e.Action] = e
	}
	if e := byAction[entities.ActionLearnContent]; e.Level != entities.LevelSuccess {
		t.Fatalf("first learn level = %s, want success", e.Level)
	}
	if e := byAction[entities.ActionQuizCompleted]; e.Level != entities.LevelInfo {
		t.Fatalf("quiz level = %s, want info", e.Level)
	}
}
