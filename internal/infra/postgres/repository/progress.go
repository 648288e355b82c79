package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/learning-progress-tracker/internal/domain/entities"
	"github.com/aliskhannn/learning-progress-tracker/internal/infra/postgres"
)

// ProgressRepository stores keyed session progress records in user_progress.
type ProgressRepository struct {
	db postgres.DBTX
}

// NewProgressRepository creates a ProgressRepository on a pool or a transaction.
func NewProgressRepository(db postgres.DBTX) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// Get retrieves one record by session and key.
func (r *ProgressRepository) Get(ctx context.Context, sessionID, key string) (*entities.ProgressRecord, error) {
	query := `
		SELECT session_id, key, payload, updated_at
		FROM user_progress
		WHERE session_id = $1 AND key = $2
	`

	var (
		rec     entities.ProgressRecord
		payload string
	)
	err := r.db.QueryRow(ctx, query, sessionID, key).Scan(&rec.SessionID, &rec.Key, &payload, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrRecordNotFound
		}
		return nil, fmt.Errorf("get progress record: %w", err)
	}
	rec.Payload = []byte(payload)

	return &rec, nil
}

// QueryByPrefix lists the session's records whose key starts with prefix,
// ordered by key. The prefix is compared literally: "_" is not a wildcard.
func (r *ProgressRepository) QueryByPrefix(ctx context.Context, sessionID, prefix string) ([]entities.ProgressRecord, error) {
	query := `
		SELECT session_id, key, payload, updated_at
		FROM user_progress
		WHERE session_id = $1 AND left(key, length($2)) = $2
		ORDER BY key
	`

	rows, err := r.db.Query(ctx, query, sessionID, prefix)
	if err != nil {
		return nil, fmt.Errorf("query progress records: %w", err)
	}
	defer rows.Close()

	var records []entities.ProgressRecord
	for rows.Next() {
		var (
			rec     entities.ProgressRecord
			payload string
		)
		if err := rows.Scan(&rec.SessionID, &rec.Key, &payload, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan progress record: %w", err)
		}
		rec.Payload = []byte(payload)
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return records, nil
}

// Upsert creates the record or replaces its payload.
func (r *ProgressRepository) Upsert(ctx context.Context, sessionID, key string, payload []byte) error {
	query := `
		INSERT INTO user_progress (session_id, key, payload, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (session_id, key) DO UPDATE SET
			payload = EXCLUDED.payload,
			updated_at = EXCLUDED.updated_at
	`

	if _, err := r.db.Exec(ctx, query, sessionID, key, string(payload)); err != nil {
		return fmt.Errorf("upsert progress record: %w", err)
	}

	return nil
}

// Count returns how many of the session's keys start with prefix.
func (r *ProgressRepository) Count(ctx context.Context, sessionID, prefix string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM user_progress
		WHERE session_id = $1 AND left(key, length($2)) = $2
	`

	var count int
	if err := r.db.QueryRow(ctx, query, sessionID, prefix).Scan(&count); err != nil {
		return 0, fmt.Errorf("count progress records: %w", err)
	}

	return count, nil
}

// ListSessionsUpdatedSince returns the sessions with a record written at or after since.
func (r *ProgressRepository) ListSessionsUpdatedSince(ctx context.Context, since time.Time) ([]string, error) {
	query := `
		SELECT DISTINCT session_id
		FROM user_progress
		WHERE updated_at >= $1
		ORDER BY session_id
	`

	rows, err := r.db.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}

	sessions, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("collect sessions: %w", err)
	}

	return sessions, nil
}
