package service

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/aliskhannn/learning-progress-tracker/internal/domain/entities"
	"github.com/aliskhannn/learning-progress-tracker/internal/metrics"
)

// StatsRefresh is the outcome of recomputing a session's stats.
type StatsRefresh struct {
	Previous entities.Stats // cache content before the refresh
	Cached   bool           // a decodable StatsCache record existed
	Stats    entities.Stats
	Unlocked []string

	// Written is true when the StatsCache record was rewritten.
	Written bool

	corruptCache []byte
}

// Drifted reports whether the cache disagreed with the recomputed stats.
func (r *StatsRefresh) Drifted() bool {
	return !r.Cached || !r.Previous.SameTotals(r.Stats)
}

// StatsService runs the aggregation engine against a repository.
type StatsService struct {
	repo     ProgressRepository
	calendar *entities.Calendar
	logger   *zap.Logger
}

// NewStatsService creates a StatsService reading through repo.
func NewStatsService(repo ProgressRepository, calendar *entities.Calendar, logger *zap.Logger) *StatsService {
	return &StatsService{
		repo:     repo,
		calendar: calendar,
		logger:   logger,
	}
}

// GetStats returns the current stats of a session. Sessions without records
// get zero figures and no achievements.
func (s *StatsService) GetStats(ctx context.Context, sessionID string) (entities.Stats, error) {
	if err := validateSession(sessionID); err != nil {
		return entities.Stats{}, err
	}

	records, err := s.scan(ctx, s.repo, sessionID)
	if err != nil {
		return entities.Stats{}, err
	}

	return s.aggregate(sessionID, records).Stats, nil
}

// GetProgress returns the raw per-day progress of a session merged with its stats.
func (s *StatsService) GetProgress(ctx context.Context, sessionID string) (*entities.ProgressView, error) {
	if err := validateSession(sessionID); err != nil {
		return nil, err
	}

	records, err := s.scan(ctx, s.repo, sessionID)
	if err != nil {
		return nil, err
	}

	view := entities.BuildProgressView(records, s.aggregate(sessionID, records).Stats)
	return &view, nil
}

// Refresh recomputes the session's stats, applies the achievement ratchet and
// rewrites the StatsCache record. repo must be bound to a session transaction.
func (s *StatsService) Refresh(ctx context.Context, repo ProgressRepository, sessionID string) (*StatsRefresh, error) {
	refresh, err := s.compute(ctx, repo, sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.persist(ctx, repo, sessionID, refresh); err != nil {
		return nil, err
	}
	return refresh, nil
}

// RefreshIfDrifted recomputes like Refresh but leaves the StatsCache record
// untouched when it already matches and no badge unlocked, so the record's
// update time keeps reflecting the last real change.
func (s *StatsService) RefreshIfDrifted(ctx context.Context, repo ProgressRepository, sessionID string) (*StatsRefresh, error) {
	refresh, err := s.compute(ctx, repo, sessionID)
	if err != nil {
		return nil, err
	}
	if !refresh.Drifted() && len(refresh.Unlocked) == 0 {
		return refresh, nil
	}
	if err := s.persist(ctx, repo, sessionID, refresh); err != nil {
		return nil, err
	}
	return refresh, nil
}

func (s *StatsService) compute(ctx context.Context, repo ProgressRepository, sessionID string) (*StatsRefresh, error) {
	records, err := s.scan(ctx, repo, sessionID)
	if err != nil {
		return nil, err
	}

	previous, cached := entities.CachedStats(records)
	stats := s.aggregate(sessionID, records).Stats

	all, unlocked := entities.EvaluateAchievements(stats, stats.Achievements)
	stats.Achievements = all

	refresh := &StatsRefresh{
		Previous: previous,
		Cached:   cached,
		Stats:    stats,
		Unlocked: unlocked,
	}
	if !cached {
		refresh.corruptCache = rawStatsCache(records)
	}
	return refresh, nil
}

// persist writes the StatsCache record. An undecodable cache is copied to
// CorruptStatsKey first: it holds the badges and the max_streak watermark,
// which cannot be rebuilt from the other records.
func (s *StatsService) persist(ctx context.Context, repo ProgressRepository, sessionID string, refresh *StatsRefresh) error {
	if refresh.corruptCache != nil {
		if err := repo.Upsert(ctx, sessionID, entities.CorruptStatsKey, refresh.corruptCache); err != nil {
			return fmt.Errorf("preserve corrupt stats: %w", err)
		}
		s.logger.Warn("corrupt stats cache preserved, badges and max streak recomputed from records",
			zap.String("session_id", sessionID),
			zap.String("backup_key", entities.CorruptStatsKey),
		)
	}

	payload, err := refresh.Stats.Encode()
	if err != nil {
		return fmt.Errorf("encode stats: %w", err)
	}
	if err := repo.Upsert(ctx, sessionID, entities.StatsKey, payload); err != nil {
		return fmt.Errorf("save stats: %w", err)
	}
	refresh.Written = true

	for _, badge := range refresh.Unlocked {
		metrics.AchievementsUnlocked.WithLabelValues(badge).Inc()
	}
	return nil
}

// rawStatsCache returns the stored StatsCache payload, or nil when there is none.
func rawStatsCache(records []entities.ProgressRecord) []byte {
	for _, r := range records {
		if r.Key == entities.StatsKey {
			return r.Payload
		}
	}
	return nil
}

func (s *StatsService) scan(ctx context.Context, repo ProgressRepository, sessionID string) ([]entities.ProgressRecord, error) {
	records, err := repo.QueryByPrefix(ctx, sessionID, "")
	if err != nil {
		return nil, fmt.Errorf("query session records: %w", err)
	}
	return records, nil
}

func (s *StatsService) aggregate(sessionID string, records []entities.ProgressRecord) entities.Aggregate {
	timer := prometheus.NewTimer(metrics.RecomputeDuration)
	defer timer.ObserveDuration()

	agg := entities.Recompute(records, s.calendar.Today())
	for _, c := range agg.Corrupt {
		metrics.CorruptPayloads.Inc()
		s.logger.Warn("skipping corrupt progress record",
			zap.String("session_id", sessionID),
			zap.String("key", c.Key),
			zap.Error(c.Err),
		)
	}

	return agg
}
