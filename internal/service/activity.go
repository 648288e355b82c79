package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/learning-progress-tracker/internal/domain/entities"
	"github.com/aliskhannn/learning-progress-tracker/internal/metrics"
)

const activityWriteTimeout = 3 * time.Second

// ActivitySummary counts logged events per level.
type ActivitySummary struct {
	Total   int                       `json:"total"`
	ByLevel map[entities.LogLevel]int `json:"by_level"`
}

// ActivityService is the activity log side channel. Writes are best effort.
type ActivityService struct {
	repo   ActivityRepository
	logger *zap.Logger
}

// NewActivityService creates an ActivityService.
func NewActivityService(repo ActivityRepository, logger *zap.Logger) *ActivityService {
	return &ActivityService{repo: repo, logger: logger}
}

// Record stores event. Failures are logged and counted, never returned.
// The write is detached from ctx cancellation so a finished request still logs.
func (s *ActivityService) Record(ctx context.Context, event entities.ActivityEvent) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), activityWriteTimeout)
	defer cancel()

	if err := s.repo.Insert(ctx, event); err != nil {
		metrics.ActivityLogFailures.Inc()
		s.logger.Warn("failed to record activity",
			zap.String("session_id", event.SessionID),
			zap.String("action", event.Action),
			zap.Error(err),
		)
	}
}

// List returns one page of events matching filter and the total match count.
func (s *ActivityService) List(ctx context.Context, filter entities.ActivityFilter) ([]entities.ActivityEvent, int, error) {
	events, total, err := s.repo.List(ctx, filter.Normalize())
	if err != nil {
		return nil, 0, fmt.Errorf("list activity: %w", err)
	}
	return events, total, nil
}

// Summary counts the logged events per level.
func (s *ActivityService) Summary(ctx context.Context) (*ActivitySummary, error) {
	counts, err := s.repo.CountByLevel(ctx)
	if err != nil {
		return nil, fmt.Errorf("count activity by level: %w", err)
	}

	summary := &ActivitySummary{ByLevel: counts}
	for _, n := range counts {
		summary.Total += n
	}
	return summary, nil
}
