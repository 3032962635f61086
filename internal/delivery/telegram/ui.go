package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/reaction-games-bot/internal/service"
)

var symbolLabels = map[service.Symbol]string{
	service.SymbolA:      "🇦",
	service.SymbolB:      "🇧",
	service.SymbolC:      "🇨",
	service.SymbolD:      "🇩",
	service.SymbolE:      "🇪",
	service.SymbolCancel: "❌",
	service.SymbolFirst:  "⏮",
	service.SymbolPrev:   "◀",
	service.SymbolNext:   "▶",
	service.SymbolLast:   "⏭",
	service.SymbolStop:   "⏹",
}

// buildControlsKeyboard lays the controls out in one row.
// No controls means no keyboard, which also clears an existing one on edit.
func buildControlsKeyboard(controls []service.Symbol) *tgbotapi.InlineKeyboardMarkup {
	if len(controls) == 0 {
		return nil
	}

	row := make([]tgbotapi.InlineKeyboardButton, 0, len(controls))
	for _, sym := range controls {
		label, ok := symbolLabels[sym]
		if !ok {
			label = string(sym)
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, buildSignalCallback(sym)))
	}

	kb := tgbotapi.NewInlineKeyboardMarkup(row)
	return &kb
}
