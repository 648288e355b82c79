package entities

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/samber/lo"
)

// ContentSet holds the content indices learned on one day, in insertion order.
type ContentSet []int

// Add inserts idx unless it is already present and reports whether the set changed.
func (s ContentSet) Add(idx int) (ContentSet, bool) {
	if lo.Contains(s, idx) {
		return s, false
	}
	return append(s, idx), true
}

// TermSet holds the terms learned within one term group.
type TermSet []string

// Add inserts term unless it is already present and reports whether the set changed.
func (s TermSet) Add(term string) (TermSet, bool) {
	if lo.Contains(s, term) {
		return s, false
	}
	return append(s, term), true
}

// QuizResult is the payload of one completed quiz attempt.
type QuizResult struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
	Score   int `json:"score"`
}

// NewQuizResult computes the percentage score of an attempt.
func NewQuizResult(correct, total int) QuizResult {
	return QuizResult{
		Correct: correct,
		Total:   total,
		Score:   Percent(correct, total),
	}
}

// Percent returns round(part/whole*100), or 0 when whole is not positive.
func Percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(whole) * 100))
}

// Encode serializes the set. Sets are stored as JSON arrays.
func (s ContentSet) Encode() ([]byte, error) {
	return json.Marshal(lo.Uniq([]int(s)))
}

// Encode serializes the set.
func (s TermSet) Encode() ([]byte, error) {
	return json.Marshal(lo.Uniq([]string(s)))
}

// Encode serializes the attempt.
func (q QuizResult) Encode() ([]byte, error) {
	return json.Marshal(q)
}

// DecodeContentSet parses a DailyContent payload. An empty payload is an empty set.
// Duplicates in stored data are collapsed so the set invariant holds on read.
func DecodeContentSet(payload []byte) (ContentSet, error) {
	if len(payload) == 0 {
		return ContentSet{}, nil
	}

	var set []int
	if err := json.Unmarshal(payload, &set); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptPayload, err)
	}

	return ContentSet(lo.Uniq(set)), nil
}

// DecodeTermSet parses a TermGroup payload.
func DecodeTermSet(payload []byte) (TermSet, error) {
	if len(payload) == 0 {
		return TermSet{}, nil
	}

	var set []string
	if err := json.Unmarshal(payload, &set); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptPayload, err)
	}

	return TermSet(lo.Uniq(set)), nil
}

// DecodeQuizResult parses a QuizAttempt payload.
func DecodeQuizResult(payload []byte) (QuizResult, error) {
	var q QuizResult
	if len(payload) == 0 {
		return q, fmt.Errorf("%w: empty quiz payload", ErrCorruptPayload)
	}
	if err := json.Unmarshal(payload, &q); err != nil {
		return QuizResult{}, fmt.Errorf("%w: %v", ErrCorruptPayload, err)
	}

	return q, nil
}
