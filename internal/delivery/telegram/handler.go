package telegram

import (
	"context"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/learning-progress-tracker/internal/domain/entities"
)

// sessionPrefix namespaces chat sessions in the shared session space.
const sessionPrefix = "tg:"

type Handler struct {
	bot                *tgbotapi.BotAPI
	logger             *zap.Logger
	calendar           *entities.Calendar
	maxPeriodDays      int
	progressService    ProgressService
	statsService       StatsService
	achievementService AchievementService
	reportService      ReportService
	resetService       ResetService
}

func NewHandler(
	bot *tgbotapi.BotAPI,
	logger *zap.Logger,
	calendar *entities.Calendar,
	maxPeriodDays int,
	progressService ProgressService,
	statsService StatsService,
	achievementService AchievementService,
	reportService ReportService,
	resetService ResetService,
) *Handler {
	return &Handler{
		bot:                bot,
		logger:             logger,
		calendar:           calendar,
		maxPeriodDays:      maxPeriodDays,
		progressService:    progressService,
		statsService:       statsService,
		achievementService: achievementService,
		reportService:      reportService,
		resetService:       resetService,
	}
}

func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)
	defer h.bot.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			h.handleUpdate(ctx, update)
		}
	}
}

// sessionID maps a chat to its progress session.
func sessionID(chatID int64) string {
	return sessionPrefix + strconv.FormatInt(chatID, 10)
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		h.logger.Debug("callback received",
			zap.Int64("user_id", update.CallbackQuery.From.ID),
			zap.String("data", update.CallbackQuery.Data),
		)
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	chatID := update.Message.Chat.ID
	h.logger.Debug("update received",
		zap.Int64("chat_id", chatID),
		zap.String("text", update.Message.Text),
	)

	if !update.Message.IsCommand() {
		h.send(newMessage(chatID, md(msgUnknownCommand)))
		return
	}

	args := update.Message.CommandArguments()
	var fn HandlerFunc

	switch update.Message.Command() {
	case "start", "help":
		fn = h.handleStart()
	case "learn":
		fn = h.handleLearn(args)
	case "term":
		fn = h.handleTerm(args)
	case "quiz":
		fn = h.handleQuiz(args)
	case "stats":
		fn = h.handleStats()
	case "achievements":
		fn = h.handleAchievements()
	case "period":
		fn = h.handlePeriod(args)
	case "export":
		fn = h.handleExport(args)
	case "reset":
		fn = h.handleResetPrompt()
	default:
		h.send(newMessage(chatID, md(msgUnknownCommand)))
		return
	}

	_ = h.withErrorHandling(fn)(ctx, chatID)
}

func (h *Handler) send(c tgbotapi.Chattable) {
	if _, err := h.bot.Send(c); err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
	}
}
