package repository

import (
	"context"
	"fmt"
)

// DeleteSession removes every progress record of the session.
func (r *ProgressRepository) DeleteSession(ctx context.Context, sessionID string) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM user_progress WHERE session_id = $1`, sessionID)
	if err != nil {
		return 0, fmt.Errorf("delete user_progress: %w", err)
	}

	return tag.RowsAffected(), nil
}
