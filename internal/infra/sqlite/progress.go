package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/aliskhannn/learning-progress-tracker/internal/domain/entities"
)

type progressRow struct {
	SessionID string    `db:"session_id"`
	Key       string    `db:"key"`
	Payload   string    `db:"payload"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r progressRow) record() entities.ProgressRecord {
	return entities.ProgressRecord{
		SessionID: r.SessionID,
		Key:       r.Key,
		Payload:   []byte(r.Payload),
		UpdatedAt: r.UpdatedAt,
	}
}

// ProgressRepository stores progress records in SQLite. It runs on a *sqlx.DB
// or inside a *sqlx.Tx.
type ProgressRepository struct {
	db sqlx.ExtContext
}

func NewProgressRepository(db sqlx.ExtContext) *ProgressRepository {
	return &ProgressRepository{db: db}
}

func (r *ProgressRepository) Get(ctx context.Context, sessionID, key string) (*entities.ProgressRecord, error) {
	var row progressRow
	err := sqlx.GetContext(ctx, r.db, &row, `
		SELECT session_id, key, payload, updated_at
		FROM user_progress
		WHERE session_id = ? AND key = ?
	`, sessionID, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrRecordNotFound
		}
		return nil, fmt.Errorf("get progress record: %w", err)
	}

	rec := row.record()
	return &rec, nil
}

// QueryByPrefix compares the leading substring, since LIKE treats "_" as a wildcard.
func (r *ProgressRepository) QueryByPrefix(ctx context.Context, sessionID, prefix string) ([]entities.ProgressRecord, error) {
	var rows []progressRow
	err := sqlx.SelectContext(ctx, r.db, &rows, `
		SELECT session_id, key, payload, updated_at
		FROM user_progress
		WHERE session_id = ? AND substr(key, 1, length(?)) = ?
		ORDER BY key
	`, sessionID, prefix, prefix)
	if err != nil {
		return nil, fmt.Errorf("query progress records: %w", err)
	}

	records := make([]entities.ProgressRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.record())
	}
	return records, nil
}

func (r *ProgressRepository) Upsert(ctx context.Context, sessionID, key string, payload []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_progress (session_id, key, payload, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (session_id, key) DO UPDATE SET
			payload = excluded.payload,
			updated_at = excluded.updated_at
	`, sessionID, key, string(payload), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("upsert progress record: %w", err)
	}
	return nil
}

func (r *ProgressRepository) Count(ctx context.Context, sessionID, prefix string) (int, error) {
	var count int
	err := sqlx.GetContext(ctx, r.db, &count, `
		SELECT COUNT(*)
		FROM user_progress
		WHERE session_id = ? AND substr(key, 1, length(?)) = ?
	`, sessionID, prefix, prefix)
	if err != nil {
		return 0, fmt.Errorf("count progress records: %w", err)
	}
	return count, nil
}

func (r *ProgressRepository) DeleteSession(ctx context.Context, sessionID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM user_progress WHERE session_id = ?`, sessionID)
	if err != nil {
		return 0, fmt.Errorf("delete user_progress: %w", err)
	}
	return res.RowsAffected()
}

func (r *ProgressRepository) ListSessionsUpdatedSince(ctx context.Context, since time.Time) ([]string, error) {
	var sessions []string
	err := sqlx.SelectContext(ctx, r.db, &sessions, `
		SELECT DISTINCT session_id
		FROM user_progress
		WHERE updated_at >= ?
		ORDER BY session_id
	`, since.UTC())
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	return sessions, nil
}
