package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/aliskhannn/learning-progress-tracker/internal/domain/entities"
)

// ResetService wipes sessions.
type ResetService struct {
	tr       Transactor
	activity ActivityRecorder
	logger   *zap.Logger
}

func NewResetService(tr Transactor, activity ActivityRecorder, logger *zap.Logger) *ResetService {
	return &ResetService{
		tr:       tr,
		activity: activity,
		logger:   logger,
	}
}

// Wipe deletes every record of the session, StatsCache included, and returns
// how many records were removed.
func (s *ResetService) Wipe(ctx context.Context, sessionID string) (int64, error) {
	if err := validateSession(sessionID); err != nil {
		return 0, err
	}

	var deleted int64
	err := s.tr.WithinSession(ctx, sessionID, func(ctx context.Context, repo RecordRepository) error {
		var err error
		deleted, err = repo.DeleteSession(ctx, sessionID)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("wipe session: %w", err)
	}

	s.logger.Info("session wiped",
		zap.String("session_id", sessionID),
		zap.Int64("records", deleted),
	)

	if s.activity != nil {
		s.activity.Record(ctx, entities.NewActivityEvent(sessionID, entities.ActionResetSession,
			fmt.Sprintf("Deleted %d progress records", deleted), entities.LevelWarning))
	}

	return deleted, nil
}
