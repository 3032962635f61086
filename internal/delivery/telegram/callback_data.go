package telegram

import (
	"strings"

	"github.com/aliskhannn/reaction-games-bot/internal/service"
)

// Callback action constants.
const (
	actionSignal = "sig"
)

// callbackData represents structured callback data.
type callbackData struct {
	Action string
	Params []string
	Raw    string
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
	return callbackData{
		Action: parts[0],
		Params: parts[1:],
		Raw:    data,
	}
}

// buildSignalCallback builds callback data for a session control button.
func buildSignalCallback(sym service.Symbol) string {
	return callbackData{
		Action: actionSignal,
		Params: []string{string(sym)},
	}.encode()
}

// signalSymbol extracts the symbol of a control button callback.
func signalSymbol(cd callbackData) (service.Symbol, bool) {
	if cd.Action != actionSignal || len(cd.Params) != 1 || cd.Params[0] == "" {
		return "", false
	}
	return service.Symbol(cd.Params[0]), true
}
