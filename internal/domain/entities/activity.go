package entities

import (
	"time"

	"github.com/google/uuid"
)

// LogLevel grades an activity event.
type LogLevel string

const (
	LevelInfo    LogLevel = "info"
	LevelSuccess LogLevel = "success"
	LevelWarning LogLevel = "warning"
	LevelError   LogLevel = "error"
)

// LogType tells who triggered an activity event.
type LogType string

const (
	LogTypeUser   LogType = "user"
	LogTypeSystem LogType = "system"
)

// Semantic actions emitted after mutating operations.
const (
	ActionLearnContent  = "learn_content"
	ActionLearnTerm     = "learn_term"
	ActionQuizCompleted = "quiz_completed"
	ActionResetSession  = "reset_session"
)

// ActivityEvent is one entry of the activity log side channel.
type ActivityEvent struct {
	ID        uuid.UUID
	SessionID string
	Action    string
	Detail    string
	Type      LogType
	Level     LogLevel
	CreatedAt time.Time
}

// NewActivityEvent creates a user event with a fresh ID.
func NewActivityEvent(sessionID, action, detail string, level LogLevel) ActivityEvent {
	return ActivityEvent{
		ID:        uuid.New(),
		SessionID: sessionID,
		Action:    action,
		Detail:    detail,
		Type:      LogTypeUser,
		Level:     level,
		CreatedAt: time.Now().UTC(),
	}
}

// QuizLevel grades a quiz event: success from 80 points on.
func QuizLevel(score int) LogLevel {
	if score >= 80 {
		return LevelSuccess
	}
	return LevelInfo
}

// ActivityFilter narrows an activity log query. Zero values match everything.
type ActivityFilter struct {
	SessionID string
	Action    string
	Level     LogLevel
	Limit     int
	Offset    int
}

// DefaultActivityLimit caps a query without an explicit limit.
const DefaultActivityLimit = 100

// Normalize clamps paging values.
func (f ActivityFilter) Normalize() ActivityFilter {
	if f.Limit <= 0 || f.Limit > 1000 {
		f.Limit = DefaultActivityLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}
