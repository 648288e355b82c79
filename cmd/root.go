package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aliskhannn/learning-progress-tracker/internal/app"
	"github.com/aliskhannn/learning-progress-tracker/internal/config"
	"github.com/aliskhannn/learning-progress-tracker/internal/logger"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "progress-tracker",
	Short:         "Learning progress tracker: content, terms, quizzes, streaks and achievements",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ./config/config.yaml)")
}

// runtime is what every subcommand needs: config, logger and an open store.
type runtime struct {
	cfg    *config.Config
	logger *zap.Logger
	store  *app.Store
}

func (r *runtime) close() {
	r.store.Close()
	_ = r.logger.Sync()
}

func bootstrap(ctx context.Context) (*runtime, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	store, err := app.OpenStore(ctx, cfg)
	if err != nil {
		_ = log.Sync()
		return nil, fmt.Errorf("open store: %w", err)
	}

	return &runtime{cfg: cfg, logger: log, store: store}, nil
}
