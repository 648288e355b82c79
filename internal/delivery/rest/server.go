// Package rest exposes the progress operations as a JSON HTTP API.
package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

// Options configures the HTTP server.
type Options struct {
	Addr           string
	AllowedOrigins []string
	MaxPeriodDays  int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

// Server routes HTTP requests to the services.
type Server struct {
	progress     ProgressService
	stats        StatsService
	achievements AchievementService
	reports      ReportService
	activity     ActivityService
	reset        ResetService
	ping         Pinger
	opts         Options
	logger       *zap.Logger
}

func NewServer(
	progress ProgressService,
	stats StatsService,
	achievements AchievementService,
	reports ReportService,
	activity ActivityService,
	reset ResetService,
	ping Pinger,
	opts Options,
	logger *zap.Logger,
) *Server {
	return &Server{
		progress:     progress,
		stats:        stats,
		achievements: achievements,
		reports:      reports,
		activity:     activity,
		reset:        reset,
		ping:         ping,
		opts:         opts,
		logger:       logger,
	}
}

// Handler returns the routed handler with logging, recovery and CORS applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/progress/stats/{session}", s.handleGetStats)
	mux.HandleFunc("GET /api/progress/achievements/{session}", s.handleCheckAchievements)
	mux.HandleFunc("GET /api/progress/period-stats/{session}", s.handlePeriodStats)
	mux.HandleFunc("GET /api/progress/period-stats/{session}/export", s.handlePeriodExport)
	mux.HandleFunc("POST /api/progress/term-progress/{session}", s.handleSubmitTerm)
	mux.HandleFunc("POST /api/progress/quiz-score/{session}", s.handleSubmitQuiz)
	mux.HandleFunc("GET /api/progress/{session}", s.handleGetProgress)
	mux.HandleFunc("POST /api/progress/{session}/{date}/{index}", s.handleSubmitContent)
	mux.HandleFunc("DELETE /api/progress/{session}", s.handleWipe)

	mux.HandleFunc("GET /api/logs", s.handleListLogs)
	mux.HandleFunc("GET /api/logs/stats", s.handleLogStats)

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	c := cors.New(cors.Options{
		AllowedOrigins:   s.opts.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: !slices.Contains(s.opts.AllowedOrigins, "*"),
	})

	return c.Handler(s.recoverer(s.requestLogger(mux)))
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.opts.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", s.opts.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.logger.Info("http server stopped")
	return nil
}
