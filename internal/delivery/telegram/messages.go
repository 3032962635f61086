// messages.go contains message templates and formatting functions for Telegram.

package telegram

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/reaction-games-bot/internal/service"
)

const (
	msgInternalError = "Something went wrong. Please try again later."
	msgWelcome       = "Hi! I run quizzes, alignment tests and little choose-your-path games.\nSend /help to see what I can do."
)

// md escapes plain text for MarkdownV2.
func md(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, s)
}

func bold(s string) string {
	return "*" + md(s) + "*"
}

func italic(s string) string {
	return "_" + md(s) + "_"
}

// newMessage creates a message with MarkdownV2 parse mode.
func newMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	return msg
}

// renderView formats a session view as MarkdownV2 text. Images are shown
// through the link preview.
func renderView(v service.View) string {
	var blocks []string

	if v.Header != "" {
		blocks = append(blocks, md(v.Header))
	}
	if v.Title != "" {
		blocks = append(blocks, bold(v.Title))
	}
	if v.Text != "" {
		blocks = append(blocks, md(v.Text))
	}

	if len(v.Options) > 0 {
		lines := make([]string, 0, len(v.Options))
		for i, opt := range v.Options {
			lines = append(lines, symbolLabels[service.OptionSymbols[i]]+" "+md(opt))
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}

	for _, section := range v.Sections {
		lines := make([]string, 0, len(section.Items)+1)
		lines = append(lines, bold(section.Label))
		for _, item := range section.Items {
			lines = append(lines, md(item))
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}

	if v.ImageURL != "" {
		blocks = append(blocks, "["+md("Image")+"]("+escapeURL(v.ImageURL)+")")
	}
	if v.Footer != "" {
		blocks = append(blocks, italic(v.Footer))
	}

	if len(blocks) == 0 {
		return md("…")
	}
	return strings.Join(blocks, "\n\n")
}

// escapeURL escapes the characters MarkdownV2 reserves inside link targets.
func escapeURL(u string) string {
	return strings.NewReplacer(`\`, `\\`, `)`, `\)`).Replace(u)
}
