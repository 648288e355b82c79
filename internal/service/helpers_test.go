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

type fixture struct {
	store    *memory.Store
	activity *memory.ActivityLog
	clock    *clock
	stats    *service.StatsService
	progress *service.ProgressService
	achieve  *service.AchievementService
	reports  *service.ReportService
	reset    *service.ResetService
	log      *service.ActivityService
}

// clock is a settable time source for the calendar.
type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func (c *clock) set(date string) {
	t, err := entities.ParseDate(date)
	if err != nil {
		panic(err)
	}
	c.now = t.Add(12 * time.Hour)
}

func newFixture(t *testing.T, today string) *fixture {
	t.Helper()

	logger := zap.NewNop()
	clk := &clock{}
	clk.set(today)
	calendar := entities.NewCalendar(time.UTC, clk.Now)

	store := memory.NewStore()
	activityLog := memory.NewActivityLog()
	activity := service.NewActivityService(activityLog, logger)
	stats := service.NewStatsService(store, calendar, logger)

	return &fixture{
		store:    store,
		activity: activityLog,
		clock:    clk,
		stats:    stats,
		progress: service.NewProgressService(store, stats, activity, calendar, logger),
		achieve:  service.NewAchievementService(store, stats),
		reports:  service.NewReportService(store),
		reset:    service.NewResetService(store, activity, logger),
		log:      activity,
	}
}

type failingActivityRepo struct{}

func (failingActivityRepo) Insert(context.Context, entities.ActivityEvent) error {
	return errors.New("activity store down")
}

func (failingActivityRepo) List(context.Context, entities.ActivityFilter) ([]entities.ActivityEvent, int, error) {
	return nil, 0, errors.New("activity store down")
}

func (failingActivityRepo) CountByLevel(context.Context) (map[entities.LogLevel]int, error) {
	return nil, errors.New("activity store down")
}

func mustContain(t *testing.T, badges []string, badge string) {
	t.Helper()
	for _, b := range badges {
		if b == badge {
			return
		}
	}
	t.Fatalf("badges %v do not contain %s", badges, badge)
}
