package rest

import (
	"context"

	"github.com/aliskhannn/learning-progress-tracker/internal/domain/entities"
	"github.com/aliskhannn/learning-progress-tracker/internal/service"
)

type ProgressService interface {
	SubmitDailyContent(ctx context.Context, sessionID, date string, index int) (*service.IngestResult, error)
	SubmitTermProgress(ctx context.Context, sessionID, term, date string, groupIndex int) (*service.IngestResult, error)
	SubmitQuizAttempt(ctx context.Context, sessionID string, correct, total int) (*service.IngestResult, error)
}

type StatsService interface {
	GetStats(ctx context.Context, sessionID string) (entities.Stats, error)
	GetProgress(ctx context.Context, sessionID string) (*entities.ProgressView, error)
}

type AchievementService interface {
	Check(ctx context.Context, sessionID string) (*service.AchievementStatus, error)
}

type ReportService interface {
	PeriodReport(ctx context.Context, sessionID, startDate, endDate string) (*entities.PeriodReport, error)
}

type ActivityService interface {
	List(ctx context.Context, filter entities.ActivityFilter) ([]entities.ActivityEvent, int, error)
	Summary(ctx context.Context) (*service.ActivitySummary, error)
}

type ResetService interface {
	Wipe(ctx context.Context, sessionID string) (int64, error)
}

// Pinger reports whether the storage backend is reachable.
type Pinger func(ctx context.Context) error
