package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/learning-progress-tracker/internal/infra/postgres"
	"github.com/aliskhannn/learning-progress-tracker/internal/service"
)

// SessionTransactor serializes the writes of one session with a Postgres
// advisory transaction lock keyed by the session id.
type SessionTransactor struct {
	tr *postgres.Transactor
}

func NewSessionTransactor(tr *postgres.Transactor) *SessionTransactor {
	return &SessionTransactor{tr: tr}
}

func (t *SessionTransactor) WithinSession(
	ctx context.Context,
	sessionID string,
	fn func(ctx context.Context, repo service.RecordRepository) error,
) error {
	return t.tr.WithinLockedTx(ctx, "session:"+sessionID, func(ctx context.Context, tx pgx.Tx) error {
		return fn(ctx, NewProgressRepository(tx))
	})
}
