package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/aliskhannn/learning-progress-tracker/internal/domain/entities"
	"github.com/aliskhannn/learning-progress-tracker/internal/service"
)

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	ctx := context.Background()

	db, err := Open(ctx, filepath.Join(t.TempDir(), "data", "progress.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := Migrate(ctx, db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestProgressRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewProgressRepository(openTestDB(t))

	if _, err := repo.Get(ctx, "s1", "2024-03-01"); !errors.Is(err, entities.ErrRecordNotFound) {
		t.Fatalf("missing get err = %v", err)
	}

	seed := map[string]string{
		"2024-03-01":                            `[0]`,
		entities.EncodeTermKey("2024-03-01", 0): `["a"]`,
		entities.EncodeTermKey("2024-03-01", 1): `["b"]`,
		entities.EncodeQuizKey("2024-03-01", 1): `{"correct":1,"total":1,"score":100}`,
		entities.StatsKey:                       `{}`,
	}
	for key, payload := range seed {
		if err := repo.Upsert(ctx, "s1", key, []byte(payload)); err != nil {
			t.Fatalf("upsert %s: %v", key, err)
		}
	}
	if err := repo.Upsert(ctx, "s2", "2024-03-01", []byte(`[9]`)); err != nil {
		t.Fatalf("upsert s2: %v", err)
	}
	if err := repo.Upsert(ctx, "s1", "2024-03-01", []byte(`[0,1]`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	rec, err := repo.Get(ctx, "s1", "2024-03-01")
	if err != nil || string(rec.Payload) != `[0,1]` {
		t.Fatalf("get = %+v, %v", rec, err)
	}

	all, err := repo.QueryByPrefix(ctx, "s1", "")
	if err != nil || len(all) != len(seed) {
		t.Fatalf("all = %d records, %v", len(all), err)
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].Key > all[i].Key {
			t.Fatalf("records not ordered by key: %s > %s", all[i-1].Key, all[i].Key)
		}
	}

	terms, err := repo.QueryByPrefix(ctx, "s1", entities.TermDayPrefix("2024-03-01"))
	if err != nil || len(terms) != 2 {
		t.Fatalf("terms = %d, %v", len(terms), err)
	}

	// "_" must match literally, not as a wildcard.
	n, err := repo.Count(ctx, "s1", "__")
	if err != nil || n != 4 {
		t.Fatalf("reserved count = %d, %v; want 4", n, err)
	}
	n, err = repo.Count(ctx, "s1", entities.QuizDayPrefix("2024-03-01"))
	if err != nil || n != 1 {
		t.Fatalf("quiz count = %d, %v", n, err)
	}

	sessions, err := repo.ListSessionsUpdatedSince(ctx, time.Now().Add(-time.Hour))
	if err != nil || len(sessions) != 2 {
		t.Fatalf("sessions = %v, %v", sessions, err)
	}
	sessions, err = repo.ListSessionsUpdatedSince(ctx, time.Now().Add(time.Hour))
	if err != nil || len(sessions) != 0 {
		t.Fatalf("future sessions = %v, %v", sessions, err)
	}

	deleted, err := repo.DeleteSession(ctx, "s1")
	if err != nil || deleted != int64(len(seed)) {
		t.Fatalf("deleted = %d, %v", deleted, err)
	}
	if n, _ := repo.Count(ctx, "s2", ""); n != 1 {
		t.Fatalf("s2 count = %d, want 1", n)
	}
}

func TestTransactorRollsBack(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	tr := NewTransactor(db)
	repo := NewProgressRepository(db)

	boom := errors.New("boom")
	err := tr.WithinSession(ctx, "s1", func(ctx context.Context, r service.RecordRepository) error {
		if err := r.Upsert(ctx, "s1", "2024-03-01", []byte(`[0]`)); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if n, _ := repo.Count(ctx, "s1", ""); n != 0 {
		t.Fatalf("rolled back tx left %d records", n)
	}

	err = tr.WithinSession(ctx, "s1", func(ctx context.Context, r service.RecordRepository) error {
		return r.Upsert(ctx, "s1", "2024-03-01", []byte(`[0]`))
	})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if n, _ := repo.Count(ctx, "s1", ""); n != 1 {
		t.Fatalf("committed count = %d, want 1", n)
	}
}

func TestActivityRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewActivityRepository(openTestDB(t))

	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	events := []entities.ActivityEvent{
		entities.NewActivityEvent("s1", entities.ActionLearnContent, "one", entities.LevelInfo),
		entities.NewActivityEvent("s1", entities.ActionQuizCompleted, "two", entities.LevelSuccess),
		entities.NewActivityEvent("s2", entities.ActionLearnContent, "three", entities.LevelInfo),
	}
	for i := range events {
		events[i].CreatedAt = base.Add(time.Duration(i) * time.Minute)
		if err := repo.Insert(ctx, events[i]); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	page, total, err := repo.List(ctx, entities.ActivityFilter{SessionID: "s1", Limit: 1})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 2 || len(page) != 1 || page[0].ID != events[1].ID {
		t.Fatalf("page = %+v total = %d", page, total)
	}

	page, total, err = repo.List(ctx, entities.ActivityFilter{Action: entities.ActionLearnContent, Limit: 10})
	if err != nil || total != 2 || len(page) != 2 {
		t.Fatalf("by action = %d/%d, %v", len(page), total, err)
	}

	counts, err := repo.CountByLevel(ctx)
	if err != nil || counts[entities.LevelInfo] != 2 || counts[entities.LevelSuccess] != 1 {
		t.Fatalf("counts = %v, %v", counts, err)
	}
}
