package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// buildMenuKeyboard builds the navigation keyboard under stats screens.
func buildMenuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 Stats", callbackData{Action: actionStats}.encode()),
			tgbotapi.NewInlineKeyboardButtonData("🏆 Achievements", callbackData{Action: actionAchievements}.encode()),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📅 Last 7 days", callbackData{Action: actionPeriod}.encode()),
		),
	)
}

// buildResetKeyboard asks to confirm a reset.
func buildResetKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 Delete everything", buildResetCallback(resetConfirm)),
			tgbotapi.NewInlineKeyboardButtonData("Cancel", buildResetCallback(resetCancel)),
		),
	)
}
