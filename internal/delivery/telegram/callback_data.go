package telegram

import (
	"strings"
)

// Callback action constants.
const (
	actionStats        = "stats"
	actionAchievements = "achievements"
	actionPeriod       = "period"
	actionReset        = "reset"
)

const (
	resetConfirm = "confirm"
	resetCancel  = "cancel"
)

// callbackData represents structured callback data.
type callbackData struct {
	Action string
	Params []string
}

// encode creates callback string.
func (cd callbackData) encode() string {
	if len(cd.Params) == 0 {
		return cd.Action
	}
	return cd.Action + ":" + strings.Join(cd.Params, ":")
}

// decodeCallback parses callback data string.
func decodeCallback(data string) callbackData {
	parts := strings.Split(data, ":")
	return callbackData{Action: parts[0], Params: parts[1:]}
}

func (cd callbackData) param(i int) string {
	if i < len(cd.Params) {
		return cd.Params[i]
	}
	return ""
}

func buildResetCallback(choice string) string {
	return callbackData{Action: actionReset, Params: []string{choice}}.encode()
}
