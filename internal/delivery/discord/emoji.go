package discord

import (
	"strings"

	"github.com/aliskhannn/reaction-games-bot/internal/service"
)

var symbolEmoji = map[service.Symbol]string{
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

var emojiSymbol = func() map[string]service.Symbol {
	m := make(map[string]service.Symbol, len(symbolEmoji))
	for sym, e := range symbolEmoji {
		m[e] = sym
	}
	return m
}()

// emojiFor returns the reaction emoji of a symbol.
func emojiFor(sym service.Symbol) (string, bool) {
	e, ok := symbolEmoji[sym]
	return e, ok
}

// symbolFor maps a reaction emoji to its symbol. Variation selectors are
// ignored, since clients send "▶" both with and without U+FE0F.
func symbolFor(emoji string) (service.Symbol, bool) {
	sym, ok := emojiSymbol[strings.ReplaceAll(emoji, "\uFE0F", "")]
	return sym, ok
}
