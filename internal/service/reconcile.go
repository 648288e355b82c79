package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/aliskhannn/learning-progress-tracker/internal/metrics"
)

// ReconcileSummary reports one reconciliation pass.
type ReconcileSummary struct {
	Scanned int
	Drifted int
	Failed  int
}

// ReconcileService periodically rescans recently updated sessions and
// rewrites any StatsCache that drifted from its records. A cache that still
// matches is left alone, so a session ages out of the lookback window.
type ReconcileService struct {
	lister   SessionLister
	tr       Transactor
	stats    *StatsService
	schedule string
	lookback time.Duration
	logger   *zap.Logger
}

// NewReconcileService creates a reconciler. A zero lookback rescans every session.
func NewReconcileService(
	lister SessionLister,
	tr Transactor,
	stats *StatsService,
	schedule string,
	lookback time.Duration,
	logger *zap.Logger,
) *ReconcileService {
	return &ReconcileService{
		lister:   lister,
		tr:       tr,
		stats:    stats,
		schedule: schedule,
		lookback: lookback,
		logger:   logger,
	}
}

// Start runs the reconciliation loop until ctx is done.
func (s *ReconcileService) Start(ctx context.Context) error {
	c := cron.New(cron.WithLocation(time.UTC))

	_, err := c.AddFunc(s.schedule, func() {
		s.logger.Info("cron triggered: reconciling stats caches")
		if _, err := s.RunOnce(ctx); err != nil {
			s.logger.Error("failed to reconcile stats caches", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("add reconcile job %q: %w", s.schedule, err)
	}

	c.Start()
	s.logger.Info("reconciler started", zap.String("schedule", s.schedule))

	<-ctx.Done()

	<-c.Stop().Done()
	s.logger.Info("reconciler stopped")
	return nil
}

// RunOnce reconciles every session updated within the lookback window.
func (s *ReconcileService) RunOnce(ctx context.Context) (*ReconcileSummary, error) {
	var since time.Time
	if s.lookback > 0 {
		since = time.Now().UTC().Add(-s.lookback)
	}

	sessions, err := s.lister.ListSessionsUpdatedSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	summary := s.processBatch(ctx, sessions)

	s.logger.Info("reconciliation finished",
		zap.Int("scanned", summary.Scanned),
		zap.Int("drifted", summary.Drifted),
		zap.Int("failed", summary.Failed),
	)

	return summary, nil
}

// processBatch reconciles sessions concurrently.
func (s *ReconcileService) processBatch(ctx context.Context, sessions []string) *ReconcileSummary {
	const maxConcurrent = 10
	sem := make(chan struct{}, maxConcurrent)
	var wg sync.WaitGroup
	var mu sync.Mutex
	summary := &ReconcileSummary{Scanned: len(sessions)}

	for _, sessionID := range sessions {
		wg.Add(1)
		sem <- struct{}{}

		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			drifted, err := s.reconcileSession(ctx, sessionID)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				summary.Failed++
				s.logger.Error("failed to reconcile session",
					zap.String("session_id", sessionID),
					zap.Error(err))
			case drifted:
				summary.Drifted++
			}
		}()
	}

	wg.Wait()
	return summary
}

func (s *ReconcileService) reconcileSession(ctx context.Context, sessionID string) (bool, error) {
	var refresh *StatsRefresh
	err := s.tr.WithinSession(ctx, sessionID, func(ctx context.Context, repo RecordRepository) error {
		var err error
		refresh, err = s.stats.RefreshIfDrifted(ctx, repo, sessionID)
		return err
	})
	if err != nil {
		return false, err
	}

	if !refresh.Written {
		return false, nil
	}

	metrics.ReconcileDrift.Inc()
	s.logger.Warn("stats cache drift corrected",
		zap.String("session_id", sessionID),
		zap.Bool("had_cache", refresh.Cached),
		zap.Int("cached_total_learned", refresh.Previous.TotalLearned),
		zap.Int("total_learned", refresh.Stats.TotalLearned),
		zap.Int("cached_total_terms", refresh.Previous.TotalTermsLearned),
		zap.Int("total_terms", refresh.Stats.TotalTermsLearned),
		zap.Strings("unlocked", refresh.Unlocked),
	)
	return true, nil
}
