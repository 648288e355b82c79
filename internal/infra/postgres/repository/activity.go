package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/learning-progress-tracker/internal/domain/entities"
	"github.com/aliskhannn/learning-progress-tracker/internal/infra/postgres"
)

// ActivityRepository stores the activity log in activity_logs.
type ActivityRepository struct {
	db postgres.DBTX
}

func NewActivityRepository(db postgres.DBTX) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Insert(ctx context.Context, event entities.ActivityEvent) error {
	query := `
		INSERT INTO activity_logs (id, session_id, action, detail, log_type, log_level, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		event.ID,
		event.SessionID,
		event.Action,
		event.Detail,
		string(event.Type),
		string(event.Level),
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}

	return nil
}

// List returns the newest events first, plus the number of events matching filter.
func (r *ActivityRepository) List(ctx context.Context, filter entities.ActivityFilter) ([]entities.ActivityEvent, int, error) {
	where, args := activityWhere(filter)

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM activity_logs`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count activity: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, session_id, action, detail, log_type, log_level, created_at
		FROM activity_logs%s
		ORDER BY created_at DESC, id
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query activity: %w", err)
	}

	events, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entities.ActivityEvent, error) {
		var (
			e          entities.ActivityEvent
			typ, level string
		)
		err := row.Scan(&e.ID, &e.SessionID, &e.Action, &e.Detail, &typ, &level, &e.CreatedAt)
		e.Type = entities.LogType(typ)
		e.Level = entities.LogLevel(level)
		return e, err
	})
	if err != nil {
		return nil, 0, fmt.Errorf("collect activity: %w", err)
	}

	return events, total, nil
}

func (r *ActivityRepository) CountByLevel(ctx context.Context) (map[entities.LogLevel]int, error) {
	rows, err := r.db.Query(ctx, `SELECT log_level, COUNT(*) FROM activity_logs GROUP BY log_level`)
	if err != nil {
		return nil, fmt.Errorf("count activity by level: %w", err)
	}
	defer rows.Close()

	counts := make(map[entities.LogLevel]int)
	for rows.Next() {
		var (
			level string
			n     int
		)
		if err := rows.Scan(&level, &n); err != nil {
			return nil, fmt.Errorf("scan level count: %w", err)
		}
		counts[entities.LogLevel(level)] = n
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return counts, nil
}

func activityWhere(filter entities.ActivityFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(column string, value any) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if filter.SessionID != "" {
		add("session_id", filter.SessionID)
	}
	if filter.Action != "" {
		add("action", filter.Action)
	}
	if filter.Level != "" {
		add("log_level", string(filter.Level))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
