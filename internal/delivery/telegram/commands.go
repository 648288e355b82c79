package telegram

import (
	"bytes"
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/learning-progress-tracker/internal/export"
)

func (h *Handler) handleStart() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		msg := newMessage(chatID, md(msgWelcome))
		msg.ReplyMarkup = buildMenuKeyboard()
		h.send(msg)
		return nil
	}
}

// handleLearn marks a content item as learned.
func (h *Handler) handleLearn(args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		a, err := parseLearnArgs(args, h.calendar.Today())
		if err != nil {
			return err
		}

		res, err := h.progressService.SubmitDailyContent(ctx, sessionID(chatID), a.Date, a.Index)
		if err != nil {
			return err
		}

		headline := fmt.Sprintf("✅ Item %d of %s learned.", a.Index+1, a.Date)
		if !res.Changed {
			headline = fmt.Sprintf("ℹ️ Item %d of %s was already learned.", a.Index+1, a.Date)
		}
		h.send(newMessage(chatID, renderIngest(headline, res)))
		return nil
	}
}

// handleTerm marks a term of a content item as learned today.
func (h *Handler) handleTerm(args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		a, err := parseTermArgs(args)
		if err != nil {
			return err
		}

		res, err := h.progressService.SubmitTermProgress(ctx, sessionID(chatID), a.Term, h.calendar.Today(), a.Group)
		if err != nil {
			return err
		}

		headline := fmt.Sprintf("✅ Term %q learned.", a.Term)
		if !res.Changed {
			headline = fmt.Sprintf("ℹ️ Term %q was already learned here.", a.Term)
		}
		h.send(newMessage(chatID, renderIngest(headline, res)))
		return nil
	}
}

// handleQuiz records a finished quiz.
func (h *Handler) handleQuiz(args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		a, err := parseQuizArgs(args)
		if err != nil {
			return err
		}

		res, err := h.progressService.SubmitQuizAttempt(ctx, sessionID(chatID), a.Correct, a.Total)
		if err != nil {
			return err
		}

		headline := fmt.Sprintf("🧠 Quiz #%d today: %d/%d, score %d%%.",
			res.Quiz.SessionNumber, a.Correct, a.Total, res.Quiz.Result.Score)
		h.send(newMessage(chatID, renderIngest(headline, res)))
		return nil
	}
}

func (h *Handler) handleStats() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		text, err := h.statsText(ctx, chatID)
		if err != nil {
			return err
		}

		msg := newMessage(chatID, text)
		msg.ReplyMarkup = buildMenuKeyboard()
		h.send(msg)
		return nil
	}
}

func (h *Handler) handleAchievements() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		text, err := h.achievementsText(ctx, chatID)
		if err != nil {
			return err
		}

		msg := newMessage(chatID, text)
		msg.ReplyMarkup = buildMenuKeyboard()
		h.send(msg)
		return nil
	}
}

func (h *Handler) handlePeriod(args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		text, err := h.periodText(ctx, chatID, args)
		if err != nil {
			return err
		}

		h.send(newMessage(chatID, text))
		return nil
	}
}

// handleExport sends the period report as an XLSX document.
func (h *Handler) handleExport(args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		p, err := parsePeriodArgs(args, h.calendar.Today(), h.maxPeriodDays)
		if err != nil {
			return err
		}

		report, err := h.reportService.PeriodReport(ctx, sessionID(chatID), p.Start, p.End)
		if err != nil {
			return err
		}

		var buf bytes.Buffer
		if err := export.WritePeriodReport(&buf, report); err != nil {
			return fmt.Errorf("export period report: %w", err)
		}

		doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
			Name:  export.Filename(sessionID(chatID), report),
			Bytes: buf.Bytes(),
		})
		doc.Caption = fmt.Sprintf("Progress %s … %s", report.StartDate, report.EndDate)
		h.send(doc)
		return nil
	}
}

func (h *Handler) handleResetPrompt() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		msg := newMessage(chatID, md(msgResetConfirm))
		msg.ReplyMarkup = buildResetKeyboard()
		h.send(msg)
		return nil
	}
}

func (h *Handler) statsText(ctx context.Context, chatID int64) (string, error) {
	stats, err := h.statsService.GetStats(ctx, sessionID(chatID))
	if err != nil {
		return "", err
	}
	return renderStats(stats), nil
}

func (h *Handler) achievementsText(ctx context.Context, chatID int64) (string, error) {
	status, err := h.achievementService.Check(ctx, sessionID(chatID))
	if err != nil {
		return "", err
	}
	return renderAchievements(status), nil
}

func (h *Handler) periodText(ctx context.Context, chatID int64, args string) (string, error) {
	p, err := parsePeriodArgs(args, h.calendar.Today(), h.maxPeriodDays)
	if err != nil {
		return "", err
	}

	report, err := h.reportService.PeriodReport(ctx, sessionID(chatID), p.Start, p.End)
	if err != nil {
		return "", err
	}
	return renderPeriod(report), nil
}
