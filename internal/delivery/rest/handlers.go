package rest

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/aliskhannn/learning-progress-tracker/internal/domain/entities"
	"github.com/aliskhannn/learning-progress-tracker/internal/export"
	"github.com/aliskhannn/learning-progress-tracker/internal/service"
)

type ingestResponse struct {
	Message           string         `json:"message"`
	AchievementGained bool           `json:"achievement_gained"`
	NewAchievements   []string       `json:"new_achievements"`
	Stats             entities.Stats `json:"stats"`
}

func newIngestResponse(message string, res *service.IngestResult) ingestResponse {
	return ingestResponse{
		Message:           message,
		AchievementGained: len(res.NewAchievements) > 0,
		NewAchievements:   res.NewAchievements,
		Stats:             res.Stats,
	}
}

func (s *Server) handleSubmitContent(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "content index must be an integer")
		return
	}

	res, err := s.progress.SubmitDailyContent(r.Context(), r.PathValue("session"), r.PathValue("date"), index)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newIngestResponse("Progress updated successfully", res))
}

type termRequest struct {
	Term      string `json:"term"`
	Date      string `json:"date"`
	InfoIndex int    `json:"info_index"`
}

func (s *Server) handleSubmitTerm(w http.ResponseWriter, r *http.Request) {
	var req termRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := s.progress.SubmitTermProgress(r.Context(), r.PathValue("session"), req.Term, req.Date, req.InfoIndex)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newIngestResponse("Term progress updated successfully", res))
}

// quizRequest carries the number of correct answers in Score.
type quizRequest struct {
	Score          int  `json:"score"`
	TotalQuestions *int `json:"total_questions"`
}

type quizResponse struct {
	ingestResponse
	QuizScore     int `json:"quiz_score"`
	SessionNumber int `json:"session_number"`
}

func (s *Server) handleSubmitQuiz(w http.ResponseWriter, r *http.Request) {
	var req quizRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	total := 1
	if req.TotalQuestions != nil {
		total = *req.TotalQuestions
	}

	res, err := s.progress.SubmitQuizAttempt(r.Context(), r.PathValue("session"), req.Score, total)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, quizResponse{
		ingestResponse: newIngestResponse("Quiz score updated successfully", res),
		QuizScore:      res.Quiz.Result.Score,
		SessionNumber:  res.Quiz.SessionNumber,
	})
}

func (s *Server) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	view, err := s.stats.GetProgress(r.Context(), r.PathValue("session"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleGetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.stats.GetStats(r.Context(), r.PathValue("session"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

type achievementsResponse struct {
	CurrentAchievements []string `json:"current_achievements"`
	NewAchievements     []string `json:"new_achievements"`
}

func (s *Server) handleCheckAchievements(w http.ResponseWriter, r *http.Request) {
	status, err := s.achievements.Check(r.Context(), r.PathValue("session"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, achievementsResponse{
		CurrentAchievements: status.Unlocked,
		NewAchievements:     status.New,
	})
}

func (s *Server) handlePeriodStats(w http.ResponseWriter, r *http.Request) {
	report, ok := s.periodReport(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handlePeriodExport(w http.ResponseWriter, r *http.Request) {
	report, ok := s.periodReport(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.WritePeriodReport(&buf, report); err != nil {
		s.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="%s"`, export.Filename(r.PathValue("session"), report)))
	_, _ = w.Write(buf.Bytes())
}

// periodReport enforces the configured range limit before running the report.
func (s *Server) periodReport(w http.ResponseWriter, r *http.Request) (*entities.PeriodReport, bool) {
	q := r.URL.Query()
	startDate, endDate := q.Get("start_date"), q.Get("end_date")

	if err := checkPeriodLength(startDate, endDate, s.opts.MaxPeriodDays); err != nil {
		s.fail(w, r, err)
		return nil, false
	}

	report, err := s.reports.PeriodReport(r.Context(), r.PathValue("session"), startDate, endDate)
	if err != nil {
		s.fail(w, r, err)
		return nil, false
	}
	return report, true
}

// checkPeriodLength rejects ranges longer than maxDays. Unparsable dates are
// left to the report itself.
func checkPeriodLength(startDate, endDate string, maxDays int) error {
	if maxDays <= 0 {
		return nil
	}
	start, err := entities.ParseDate(startDate)
	if err != nil {
		return nil
	}
	end, err := entities.ParseDate(endDate)
	if err != nil {
		return nil
	}

	if days := int(end.Sub(start)/(24*time.Hour)) + 1; days > maxDays {
		return fmt.Errorf("%w: period of %d days exceeds the limit of %d", service.ErrInvalidArgument, days, maxDays)
	}
	return nil
}

type wipeResponse struct {
	Message string `json:"message"`
	Deleted int64  `json:"deleted"`
}

func (s *Server) handleWipe(w http.ResponseWriter, r *http.Request) {
	deleted, err := s.reset.Wipe(r.Context(), r.PathValue("session"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wipeResponse{Message: "Session progress deleted", Deleted: deleted})
}

type logEntry struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	LogType   string    `json:"log_type"`
	LogLevel  string    `json:"log_level"`
	Timestamp time.Time `json:"timestamp"`
}

type logsResponse struct {
	Logs   []logEntry `json:"logs"`
	Total  int        `json:"total"`
	Limit  int        `json:"limit"`
	Offset int        `json:"offset"`
}

func (s *Server) handleListLogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := entities.ActivityFilter{
		SessionID: q.Get("session_id"),
		Action:    q.Get("action"),
		Level:     entities.LogLevel(q.Get("level")),
	}
	filter.Limit, _ = strconv.Atoi(q.Get("limit"))
	filter.Offset, _ = strconv.Atoi(q.Get("offset"))
	filter = filter.Normalize()

	events, total, err := s.activity.List(r.Context(), filter)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	resp := logsResponse{
		Logs:   make([]logEntry, 0, len(events)),
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}
	for _, e := range events {
		resp.Logs = append(resp.Logs, logEntry{
			ID:        e.ID.String(),
			SessionID: e.SessionID,
			Action:    e.Action,
			Details:   e.Detail,
			LogType:   string(e.Type),
			LogLevel:  string(e.Level),
			Timestamp: e.CreatedAt,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLogStats(w http.ResponseWriter, r *http.Request) {
	summary, err := s.activity.Summary(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if s.ping != nil {
		if err := s.ping(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy", "error": err.Error()})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
