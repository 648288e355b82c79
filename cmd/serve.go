package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"sync"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aliskhannn/learning-progress-tracker/internal/app"
	"github.com/aliskhannn/learning-progress-tracker/internal/config"
	"github.com/aliskhannn/learning-progress-tracker/internal/delivery/rest"
	"github.com/aliskhannn/learning-progress-tracker/internal/delivery/telegram"
)

var migrateOnStart bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API, the Telegram bot and the reconciler",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		rt, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer rt.close()

		// Embedded backends have no separate migration step.
		if migrateOnStart || rt.cfg.DB.Driver != config.DriverPostgres {
			if err := rt.store.Migrate(ctx); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
		}

		svc := app.NewServices(rt.cfg, rt.store, rt.logger)

		runners := map[string]func(context.Context) error{
			"http": rest.NewServer(
				svc.Progress,
				svc.Stats,
				svc.Achievements,
				svc.Reports,
				svc.Activity,
				svc.Reset,
				rt.store.Ping,
				rest.Options{
					Addr:           rt.cfg.HTTP.Addr,
					AllowedOrigins: rt.cfg.HTTP.AllowedOrigins,
					MaxPeriodDays:  rt.cfg.HTTP.MaxPeriodDays,
					ReadTimeout:    rt.cfg.HTTP.ReadTimeout,
					WriteTimeout:   rt.cfg.HTTP.WriteTimeout,
				},
				rt.logger,
			).Run,
		}

		if rt.cfg.Reconcile.Enabled {
			runners["reconciler"] = svc.Reconcile.Start
		}

		if rt.cfg.TelegramAPIToken != "" {
			handler, err := newTelegramHandler(rt, svc)
			if err != nil {
				return err
			}
			runners["telegram"] = handler.Run
		} else {
			rt.logger.Info("TELEGRAM_API_TOKEN is not set, bot disabled")
		}

		return runAll(ctx, stop, rt.logger, runners)
	},
}

func init() {
	serveCmd.Flags().BoolVar(&migrateOnStart, "migrate", false, "apply the schema before serving")
	rootCmd.AddCommand(serveCmd)
}

// runAll runs every runner until ctx is done or one of them fails; a failure
// cancels the others.
func runAll(ctx context.Context, cancel context.CancelFunc, logger *zap.Logger, runners map[string]func(context.Context) error) error {
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)

	for name, run := range runners {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("component failed", zap.String("component", name), zap.Error(err))
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
				mu.Unlock()
				cancel()
			}
		}()
	}

	wg.Wait()
	logger.Info("shutdown complete")
	return errors.Join(errs...)
}

func newTelegramHandler(rt *runtime, svc *app.Services) (*telegram.Handler, error) {
	bot, err := tgbotapi.NewBotAPI(rt.cfg.TelegramAPIToken)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	bot.Debug = rt.cfg.Env != "production"

	commands := []tgbotapi.BotCommand{
		{Command: "start", Description: "Start the bot"},
		{Command: "learn", Description: "Mark a content item as learned (/learn 2)"},
		{Command: "term", Description: "Mark a term as learned (/term 1 LLM)"},
		{Command: "quiz", Description: "Record a quiz result (/quiz 8 10)"},
		{Command: "stats", Description: "Show statistics"},
		{Command: "achievements", Description: "Show achievements"},
		{Command: "period", Description: "Per-day breakdown (/period 2024-01-01 2024-01-07)"},
		{Command: "export", Description: "Download the breakdown as Excel"},
		{Command: "reset", Description: "Delete all progress"},
		{Command: "help", Description: "Help"},
	}
	if _, err := bot.Request(tgbotapi.NewSetMyCommands(commands...)); err != nil {
		rt.logger.Warn("failed to set bot commands", zap.Error(err))
	}

	rt.logger.Info("telegram bot authorized", zap.String("username", bot.Self.UserName))

	return telegram.NewHandler(
		bot,
		rt.logger,
		svc.Calendar,
		rt.cfg.HTTP.MaxPeriodDays,
		svc.Progress,
		svc.Stats,
		svc.Achievements,
		svc.Reports,
		svc.Reset,
	), nil
}
