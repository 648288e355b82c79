// messages.go contains message templates and formatting helpers for Telegram.

package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Error and usage messages.
const (
	msgUseLearn       = "Usage: /learn N [YYYY-MM-DD], e.g. /learn 2 or /learn 2 2024-01-03."
	msgUseTerm        = "Usage: /term N term, e.g. /term 1 large language model."
	msgUseQuiz        = "Usage: /quiz CORRECT TOTAL, e.g. /quiz 8 10."
	msgUsePeriod      = "Usage: /period [START END], dates as YYYY-MM-DD, start not after end."
	msgInvalidDate    = "Invalid date format, use YYYY-MM-DD."
	msgInternalError  = "Something went wrong. Please try again later."
	msgUnknownCommand = "Unknown command. Send /help to see what I can do."
	msgResetConfirm   = "This deletes all of your learning progress and achievements. Continue?"
	msgResetCancelled = "Reset cancelled."
)

const msgWelcome = `📚 Learning progress tracker

/learn N [date] - mark content item N as learned (today by default)
/term N term - mark a term of content item N as learned today
/quiz CORRECT TOTAL - record a finished quiz
/stats - your statistics
/achievements - unlocked and upcoming badges
/period [START END] - per-day breakdown (last 7 days by default)
/export [START END] - the same breakdown as an Excel file
/reset - delete all progress`

// md escapes plain text for MarkdownV2.
func md(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, s)
}

func bold(s string) string {
	return "*" + md(s) + "*"
}

// newMessage creates a message with MarkdownV2 parse mode.
func newMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	return msg
}

func newEdit(chatID int64, msgID int, text string) tgbotapi.EditMessageTextConfig {
	edit := tgbotapi.NewEditMessageText(chatID, msgID, text)
	edit.ParseMode = tgbotapi.ModeMarkdownV2
	return edit
}
