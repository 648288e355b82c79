package entities

import "errors"

// Domain errors for progress records and derived statistics.
var (
	ErrRecordNotFound    = errors.New("progress record not found")
	ErrInvalidDateFormat = errors.New("invalid date format, use YYYY-MM-DD")
	ErrCorruptPayload    = errors.New("corrupt progress payload")
)
