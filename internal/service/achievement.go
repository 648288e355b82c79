package service

import (
	"context"
	"fmt"

	"github.com/samber/lo"

	"github.com/aliskhannn/learning-progress-tracker/internal/domain/entities"
)

// AchievementStatus is the badge state of a session.
type AchievementStatus struct {
	Unlocked []string
	New      []string
	Locked   []entities.AchievementRule
	Stats    entities.Stats
}

// AchievementService evaluates the threshold table for a session on demand.
type AchievementService struct {
	tr    Transactor
	stats *StatsService
}

// NewAchievementService creates an AchievementService.
func NewAchievementService(tr Transactor, stats *StatsService) *AchievementService {
	return &AchievementService{tr: tr, stats: stats}
}

// Check recomputes the session's stats, unlocks any badge whose threshold is
// met and persists the result.
func (s *AchievementService) Check(ctx context.Context, sessionID string) (*AchievementStatus, error) {
	if err := validateSession(sessionID); err != nil {
		return nil, err
	}

	var refresh *StatsRefresh
	err := s.tr.WithinSession(ctx, sessionID, func(ctx context.Context, repo RecordRepository) error {
		var err error
		refresh, err = s.stats.Refresh(ctx, repo, sessionID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("check achievements: %w", err)
	}

	unlocked := refresh.Stats.Achievements
	locked := lo.Filter(entities.AchievementRules, func(r entities.AchievementRule, _ int) bool {
		return !lo.Contains(unlocked, r.Badge)
	})

	return &AchievementStatus{
		Unlocked: unlocked,
		New:      refresh.Unlocked,
		Locked:   locked,
		Stats:    refresh.Stats,
	}, nil
}
