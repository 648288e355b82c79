package service

import (
	"context"
	"time"

	"github.com/aliskhannn/learning-progress-tracker/internal/domain/entities"
)

// ProgressRepository is the keyed record store of session progress.
type ProgressRepository interface {
	// Get returns entities.ErrRecordNotFound when the key is absent.
	Get(ctx context.Context, sessionID, key string) (*entities.ProgressRecord, error)
	// QueryByPrefix lists the records whose key starts with prefix, ordered by key.
	// An empty prefix lists the whole session.
	QueryByPrefix(ctx context.Context, sessionID, prefix string) ([]entities.ProgressRecord, error)
	Upsert(ctx context.Context, sessionID, key string, payload []byte) error
	Count(ctx context.Context, sessionID, prefix string) (int, error)
}

// RecordRepository is the repository view handed to a session transaction.
type RecordRepository interface {
	ProgressRepository
	DeleteSession(ctx context.Context, sessionID string) (int64, error)
}

// SessionLister enumerates sessions for reconciliation.
type SessionLister interface {
	ListSessionsUpdatedSince(ctx context.Context, since time.Time) ([]string, error)
}

// Transactor runs fn as one transaction that holds the session's write lock,
// so read-modify-write cycles on one session never interleave.
type Transactor interface {
	WithinSession(ctx context.Context, sessionID string, fn func(ctx context.Context, repo RecordRepository) error) error
}

// ActivityRepository persists activity log events.
type ActivityRepository interface {
	Insert(ctx context.Context, event entities.ActivityEvent) error
	List(ctx context.Context, filter entities.ActivityFilter) ([]entities.ActivityEvent, int, error)
	CountByLevel(ctx context.Context) (map[entities.LogLevel]int, error)
}

// ActivityRecorder receives the semantic event of a mutating operation.
// Delivery is best effort; implementations must not fail the caller.
type ActivityRecorder interface {
	Record(ctx context.Context, event entities.ActivityEvent)
}
