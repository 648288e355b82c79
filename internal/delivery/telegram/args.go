package telegram

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aliskhannn/learning-progress-tracker/internal/domain/entities"
)

// defaultPeriodDays is the range of /period and /export without arguments.
const defaultPeriodDays = 7

// usageError is a malformed command; hint tells the user the right syntax.
type usageError struct {
	hint string
}

func (e *usageError) Error() string { return "usage: " + e.hint }

type learnArgs struct {
	Index int
	Date  string
}

// parseLearnArgs parses "/learn N [YYYY-MM-DD]". N is one-based.
func parseLearnArgs(args, today string) (learnArgs, error) {
	fields := strings.Fields(args)
	if len(fields) < 1 || len(fields) > 2 {
		return learnArgs{}, &usageError{msgUseLearn}
	}

	n, err := strconv.Atoi(fields[0])
	if err != nil || n < 1 {
		return learnArgs{}, &usageError{msgUseLearn}
	}

	date := today
	if len(fields) == 2 {
		if _, err := entities.ParseDate(fields[1]); err != nil {
			return learnArgs{}, err
		}
		date = fields[1]
	}

	return learnArgs{Index: n - 1, Date: date}, nil
}

type termArgs struct {
	Group int
	Term  string
}

// parseTermArgs parses "/term N some term". N is one-based; the term may contain spaces.
func parseTermArgs(args string) (termArgs, error) {
	group, term, ok := strings.Cut(strings.TrimSpace(args), " ")
	if !ok {
		return termArgs{}, &usageError{msgUseTerm}
	}

	n, err := strconv.Atoi(group)
	term = strings.TrimSpace(term)
	if err != nil || n < 1 || term == "" {
		return termArgs{}, &usageError{msgUseTerm}
	}

	return termArgs{Group: n - 1, Term: term}, nil
}

type quizArgs struct {
	Correct int
	Total   int
}

// parseQuizArgs parses "/quiz 8 10" and "/quiz 8/10".
func parseQuizArgs(args string) (quizArgs, error) {
	fields := strings.Fields(strings.ReplaceAll(args, "/", " "))
	if len(fields) != 2 {
		return quizArgs{}, &usageError{msgUseQuiz}
	}

	correct, err1 := strconv.Atoi(fields[0])
	total, err2 := strconv.Atoi(fields[1])
	if err1 != nil || err2 != nil {
		return quizArgs{}, &usageError{msgUseQuiz}
	}

	return quizArgs{Correct: correct, Total: total}, nil
}

type periodArgs struct {
	Start string
	End   string
}

// parsePeriodArgs parses "[start end]". Without arguments the period is the
// last defaultPeriodDays days up to today. Ranges longer than maxDays are refused.
func parsePeriodArgs(args, today string, maxDays int) (periodArgs, error) {
	fields := strings.Fields(args)

	var p periodArgs
	switch len(fields) {
	case 0:
		end, err := entities.ParseDate(today)
		if err != nil {
			return periodArgs{}, err
		}
		p = periodArgs{
			Start: entities.FormatDate(end.AddDate(0, 0, -(defaultPeriodDays - 1))),
			End:   today,
		}
	case 2:
		p = periodArgs{Start: fields[0], End: fields[1]}
	default:
		return periodArgs{}, &usageError{msgUsePeriod}
	}

	start, err := entities.ParseDate(p.Start)
	if err != nil {
		return periodArgs{}, err
	}
	end, err := entities.ParseDate(p.End)
	if err != nil {
		return periodArgs{}, err
	}
	if start.After(end) {
		return periodArgs{}, &usageError{msgUsePeriod}
	}
	if days := int(end.Sub(start)/(24*time.Hour)) + 1; maxDays > 0 && days > maxDays {
		return periodArgs{}, &usageError{fmt.Sprintf("The period is limited to %d days.", maxDays)}
	}

	return p, nil
}
