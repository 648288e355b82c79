package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/learning-progress-tracker/internal/config"
)

func TestOpenStoreMemory(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{
		DB:        config.DB{Driver: config.DriverMemory},
		Reconcile: config.Reconcile{Schedule: "@every 1h", Lookback: time.Hour},
		Location:  time.UTC,
	}

	store, err := OpenStore(ctx, cfg)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := store.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}

	svc := NewServices(cfg, store, zap.NewNop())
	if _, err := svc.Progress.SubmitDailyContent(ctx, "s1", svc.Calendar.Today(), 0); err != nil {
		t.Fatalf("submit: %v", err)
	}
	summary, err := svc.Reconcile.RunOnce(ctx)
	if err != nil || summary.Scanned != 1 || summary.Drifted != 0 {
		t.Fatalf("reconcile = %+v, %v", summary, err)
	}
}

func TestOpenStoreUnknownDriver(t *testing.T) {
	_, err := OpenStore(context.Background(), &config.Config{DB: config.DB{Driver: "mongo"}})
	if !errors.Is(err, config.ErrUnknownDriver) {
		t.Fatalf("err = %v, want ErrUnknownDriver", err)
	}
}
