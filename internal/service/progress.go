package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/aliskhannn/learning-progress-tracker/internal/domain/entities"
	"github.com/aliskhannn/learning-progress-tracker/internal/metrics"
)

// IngestResult reports the state of a session after one ingested event.
type IngestResult struct {
	Stats           entities.Stats
	NewAchievements []string
	// Changed is false when the event was already recorded.
	Changed bool
	// Quiz is set for quiz submissions only.
	Quiz *QuizSubmission
}

// QuizSubmission describes the attempt record a quiz submission created.
type QuizSubmission struct {
	Date          string
	SessionNumber int
	Result        entities.QuizResult
}

// ProgressService ingests learning events. Every submission merges the event,
// recomputes the StatsCache and evaluates achievements inside one session
// transaction, then emits an activity event.
type ProgressService struct {
	tr       Transactor
	stats    *StatsService
	activity ActivityRecorder
	calendar *entities.Calendar
	logger   *zap.Logger
}

// NewProgressService creates a ProgressService.
func NewProgressService(
	tr Transactor,
	stats *StatsService,
	activity ActivityRecorder,
	calendar *entities.Calendar,
	logger *zap.Logger,
) *ProgressService {
	return &ProgressService{
		tr:       tr,
		stats:    stats,
		activity: activity,
		calendar: calendar,
		logger:   logger,
	}
}

// SubmitDailyContent marks content item index as learned on date.
func (s *ProgressService) SubmitDailyContent(ctx context.Context, sessionID, date string, index int) (*IngestResult, error) {
	if err := validateSession(sessionID); err != nil {
		return nil, err
	}
	if err := validateDay(date); err != nil {
		return nil, err
	}
	if index < 0 {
		return nil, invalid("content index must not be negative, got %d", index)
	}

	key := entities.DailyContent(date).Key()
	res, err := s.ingest(ctx, sessionID, func(ctx context.Context, repo RecordRepository) (bool, error) {
		payload, err := loadPayload(ctx, repo, sessionID, key)
		if err != nil {
			return false, err
		}

		set, err := entities.DecodeContentSet(payload)
		if err != nil {
			s.logCorrupt(sessionID, key, err)
			set = entities.ContentSet{}
		}

		set, changed := set.Add(index)
		if !changed {
			return false, nil
		}

		encoded, err := set.Encode()
		if err != nil {
			return false, fmt.Errorf("encode content set: %w", err)
		}
		return true, repo.Upsert(ctx, sessionID, key, encoded)
	})
	if err != nil {
		return nil, fmt.Errorf("submit daily content: %w", err)
	}

	metrics.EventsIngested.WithLabelValues(entities.KindDailyContent.String()).Inc()
	s.emit(ctx, sessionID, entities.ActionLearnContent,
		fmt.Sprintf("Learned content #%d on %s", index, date),
		entities.LevelInfo, res)

	return res, nil
}

// SubmitTermProgress marks term as learned within term group groupIndex of
// date. An empty date means today.
func (s *ProgressService) SubmitTermProgress(ctx context.Context, sessionID, term, date string, groupIndex int) (*IngestResult, error) {
	if err := validateSession(sessionID); err != nil {
		return nil, err
	}
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, invalid("term is required")
	}
	if date == "" {
		date = s.calendar.Today()
	}
	if err := validateDay(date); err != nil {
		return nil, err
	}
	if groupIndex < 0 {
		return nil, invalid("group index must not be negative, got %d", groupIndex)
	}

	key := entities.TermGroup(date, groupIndex).Key()
	res, err := s.ingest(ctx, sessionID, func(ctx context.Context, repo RecordRepository) (bool, error) {
		payload, err := loadPayload(ctx, repo, sessionID, key)
		if err != nil {
			return false, err
		}

		set, err := entities.DecodeTermSet(payload)
		if err != nil {
			s.logCorrupt(sessionID, key, err)
			set = entities.TermSet{}
		}

		set, changed := set.Add(term)
		if !changed {
			return false, nil
		}

		encoded, err := set.Encode()
		if err != nil {
			return false, fmt.Errorf("encode term set: %w", err)
		}
		return true, repo.Upsert(ctx, sessionID, key, encoded)
	})
	if err != nil {
		return nil, fmt.Errorf("submit term progress: %w", err)
	}

	metrics.EventsIngested.WithLabelValues(entities.KindTermGroup.String()).Inc()
	s.emit(ctx, sessionID, entities.ActionLearnTerm,
		fmt.Sprintf("Learned term %q (group %d) on %s", term, groupIndex, date),
		entities.LevelInfo, res)

	return res, nil
}

// SubmitQuizAttempt records a completed quiz for today. The attempt gets the
// next free per-day session number.
func (s *ProgressService) SubmitQuizAttempt(ctx context.Context, sessionID string, correct, total int) (*IngestResult, error) {
	if err := validateSession(sessionID); err != nil {
		return nil, err
	}
	if correct < 0 || total < 0 {
		return nil, invalid("quiz counts must not be negative, got %d/%d", correct, total)
	}
	if correct > total {
		return nil, invalid("correct answers (%d) exceed total questions (%d)", correct, total)
	}

	today := s.calendar.Today()
	result := entities.NewQuizResult(correct, total)
	submission := &QuizSubmission{Date: today, Result: result}

	res, err := s.ingest(ctx, sessionID, func(ctx context.Context, repo RecordRepository) (bool, error) {
		n, err := repo.Count(ctx, sessionID, entities.QuizDayPrefix(today))
		if err != nil {
			return false, fmt.Errorf("count quiz attempts: %w", err)
		}
		submission.SessionNumber = n + 1

		encoded, err := result.Encode()
		if err != nil {
			return false, fmt.Errorf("encode quiz result: %w", err)
		}
		key := entities.QuizAttempt(today, submission.SessionNumber).Key()
		return true, repo.Upsert(ctx, sessionID, key, encoded)
	})
	if err != nil {
		return nil, fmt.Errorf("submit quiz attempt: %w", err)
	}
	res.Quiz = submission

	metrics.EventsIngested.WithLabelValues(entities.KindQuizAttempt.String()).Inc()
	s.emit(ctx, sessionID, entities.ActionQuizCompleted,
		fmt.Sprintf("Quiz #%d on %s: %d/%d (%d%%)", submission.SessionNumber, today, correct, total, result.Score),
		entities.QuizLevel(result.Score), res)

	return res, nil
}

// ingest runs merge and the stats refresh as one session transaction.
// The refresh runs even when merge was a no-op.
func (s *ProgressService) ingest(
	ctx context.Context,
	sessionID string,
	merge func(ctx context.Context, repo RecordRepository) (bool, error),
) (*IngestResult, error) {
	var res IngestResult

	err := s.tr.WithinSession(ctx, sessionID, func(ctx context.Context, repo RecordRepository) error {
		changed, err := merge(ctx, repo)
		if err != nil {
			return err
		}

		refresh, err := s.stats.Refresh(ctx, repo, sessionID)
		if err != nil {
			return err
		}

		res = IngestResult{
			Stats:           refresh.Stats,
			NewAchievements: refresh.Unlocked,
			Changed:         changed,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &res, nil
}

// emit hands the activity event to the recorder after commit.
func (s *ProgressService) emit(ctx context.Context, sessionID, action, detail string, level entities.LogLevel, res *IngestResult) {
	if s.activity == nil {
		return
	}
	if len(res.NewAchievements) > 0 {
		detail += "; unlocked " + strings.Join(res.NewAchievements, ", ")
		level = entities.LevelSuccess
	}
	s.activity.Record(ctx, entities.NewActivityEvent(sessionID, action, detail, level))
}

func (s *ProgressService) logCorrupt(sessionID, key string, err error) {
	metrics.CorruptPayloads.Inc()
	s.logger.Warn("replacing corrupt progress record",
		zap.String("session_id", sessionID),
		zap.String("key", key),
		zap.Error(err),
	)
}

// loadPayload returns the stored payload of key, or nil when it is absent.
func loadPayload(ctx context.Context, repo ProgressRepository, sessionID, key string) ([]byte, error) {
	rec, err := repo.Get(ctx, sessionID, key)
	if errors.Is(err, entities.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get record %s: %w", key, err)
	}
	return rec.Payload, nil
}
