package telegram

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/aliskhannn/learning-progress-tracker/internal/domain/entities"
	"github.com/aliskhannn/learning-progress-tracker/internal/service"
)

type HandlerFunc func(ctx context.Context, chatID int64) error

// withErrorHandling answers usage and validation errors with a hint and
// everything else with a generic apology.
func (h *Handler) withErrorHandling(fn HandlerFunc) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		err := fn(ctx, chatID)
		if err == nil {
			return nil
		}

		var usage *usageError
		switch {
		case errors.As(err, &usage):
			h.send(newMessage(chatID, md(usage.hint)))
		case errors.Is(err, entities.ErrInvalidDateFormat):
			h.send(newMessage(chatID, md(msgInvalidDate)))
		case errors.Is(err, service.ErrInvalidArgument):
			h.send(newMessage(chatID, md("⚠️ "+err.Error())))
		default:
			h.logger.Error("handle error",
				zap.Int64("chat_id", chatID),
				zap.Error(err),
			)
			h.send(newMessage(chatID, md(msgInternalError)))
		}
		return nil
	}
}
