package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aliskhannn/learning-progress-tracker/internal/domain/entities"
)

// ErrInvalidArgument marks caller input the service refuses to store.
var ErrInvalidArgument = errors.New("invalid argument")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

func validateSession(sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return invalid("session id is required")
	}
	return nil
}

// validateDay accepts any date string that cannot be mistaken for a reserved key.
func validateDay(date string) error {
	switch {
	case date == "":
		return invalid("date is required")
	case entities.IsReserved(date):
		return invalid("date %q uses a reserved prefix", date)
	}
	return nil
}
