package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/aliskhannn/learning-progress-tracker/internal/domain/entities"
)

type activityRow struct {
	ID        string    `db:"id"`
	SessionID string    `db:"session_id"`
	Action    string    `db:"action"`
	Detail    string    `db:"detail"`
	LogType   string    `db:"log_type"`
	LogLevel  string    `db:"log_level"`
	CreatedAt time.Time `db:"created_at"`
}

type ActivityRepository struct {
	db sqlx.ExtContext
}

func NewActivityRepository(db sqlx.ExtContext) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Insert(ctx context.Context, event entities.ActivityEvent) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO activity_logs (id, session_id, action, detail, log_type, log_level, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, event.ID.String(), event.SessionID, event.Action, event.Detail,
		string(event.Type), string(event.Level), event.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

func (r *ActivityRepository) List(ctx context.Context, filter entities.ActivityFilter) ([]entities.ActivityEvent, int, error) {
	var (
		conds []string
		args  []any
	)
	if filter.SessionID != "" {
		conds = append(conds, "session_id = ?")
		args = append(args, filter.SessionID)
	}
	if filter.Action != "" {
		conds = append(conds, "action = ?")
		args = append(args, filter.Action)
	}
	if filter.Level != "" {
		conds = append(conds, "log_level = ?")
		args = append(args, string(filter.Level))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := sqlx.GetContext(ctx, r.db, &total, `SELECT COUNT(*) FROM activity_logs`+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count activity: %w", err)
	}

	var rows []activityRow
	query := `SELECT id, session_id, action, detail, log_type, log_level, created_at FROM activity_logs` +
		where + ` ORDER BY created_at DESC, id LIMIT ? OFFSET ?`
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, append(args, filter.Limit, filter.Offset)...); err != nil {
		return nil, 0, fmt.Errorf("query activity: %w", err)
	}

	events := make([]entities.ActivityEvent, 0, len(rows))
	for _, row := range rows {
		id, err := uuid.Parse(row.ID)
		if err != nil {
			return nil, 0, fmt.Errorf("parse activity id %q: %w", row.ID, err)
		}
		events = append(events, entities.ActivityEvent{
			ID:        id,
			SessionID: row.SessionID,
			Action:    row.Action,
			Detail:    row.Detail,
			Type:      entities.LogType(row.LogType),
			Level:     entities.LogLevel(row.LogLevel),
			CreatedAt: row.CreatedAt,
		})
	}

	return events, total, nil
}

func (r *ActivityRepository) CountByLevel(ctx context.Context) (map[entities.LogLevel]int, error) {
	var rows []struct {
		Level string `db:"log_level"`
		N     int    `db:"n"`
	}
	err := sqlx.SelectContext(ctx, r.db, &rows, `SELECT log_level, COUNT(*) AS n FROM activity_logs GROUP BY log_level`)
	if err != nil {
		return nil, fmt.Errorf("count activity by level: %w", err)
	}

	counts := make(map[entities.LogLevel]int, len(rows))
	for _, row := range rows {
		counts[entities.LogLevel(row.Level)] = row.N
	}
	return counts, nil
}
