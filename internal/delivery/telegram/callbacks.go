package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	// Remove the user's "clock".
	defer func() {
		if _, err := h.bot.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
			h.logger.Warn("callback answer error", zap.Error(err))
		}
	}()

	if cb.Message == nil {
		return
	}
	chatID := cb.Message.Chat.ID
	data := decodeCallback(cb.Data)

	var (
		text string
		kb   *tgbotapi.InlineKeyboardMarkup
		err  error
	)

	switch data.Action {
	case actionStats:
		text, err = h.statsText(ctx, chatID)
		kb = menuKeyboard()
	case actionAchievements:
		text, err = h.achievementsText(ctx, chatID)
		kb = menuKeyboard()
	case actionPeriod:
		text, err = h.periodText(ctx, chatID, "")
		kb = menuKeyboard()
	case actionReset:
		text, err = h.handleResetCallback(ctx, chatID, data.param(0))
	default:
		h.logger.Debug("unknown callback", zap.String("data", cb.Data))
		return
	}

	if err != nil {
		h.logger.Error("handle callback",
			zap.Int64("chat_id", chatID),
			zap.String("data", cb.Data),
			zap.Error(err),
		)
		h.send(newMessage(chatID, md(msgInternalError)))
		return
	}

	edit := newEdit(chatID, cb.Message.MessageID, text)
	if kb != nil {
		edit.ReplyMarkup = kb
	}
	h.send(edit)
}

func (h *Handler) handleResetCallback(ctx context.Context, chatID int64, choice string) (string, error) {
	if choice != resetConfirm {
		return md(msgResetCancelled), nil
	}

	deleted, err := h.resetService.Wipe(ctx, sessionID(chatID))
	if err != nil {
		return "", err
	}
	return md(fmt.Sprintf("🗑 Progress deleted (%d records). Start again with /learn 1.", deleted)), nil
}

func menuKeyboard() *tgbotapi.InlineKeyboardMarkup {
	kb := buildMenuKeyboard()
	return &kb
}
