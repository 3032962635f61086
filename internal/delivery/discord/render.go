package discord

import (
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/aliskhannn/reaction-games-bot/internal/service"
)

// buildEmbed renders the card part of a view. A view with only a header
// has no card.
func buildEmbed(v service.View) *discordgo.MessageEmbed {
	if v.Title == "" && v.Text == "" && len(v.Options) == 0 && len(v.Sections) == 0 && v.ImageURL == "" && v.Footer == "" {
		return nil
	}

	embed := &discordgo.MessageEmbed{
		Title:       v.Title,
		Description: description(v),
		Color:       v.Colour,
	}

	for _, s := range v.Sections {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  s.Label,
			Value: strings.Join(s.Items, "\n"),
		})
	}
	if v.ImageURL != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: v.ImageURL}
	}
	if v.Footer != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: v.Footer}
	}

	return embed
}

func description(v service.View) string {
	var b strings.Builder
	b.WriteString(v.Text)

	for i, opt := range v.Options {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		e, _ := emojiFor(service.OptionSymbols[i])
		b.WriteString(e + " " + opt)
	}
	return b.String()
}

func embeds(v service.View) []*discordgo.MessageEmbed {
	if e := buildEmbed(v); e != nil {
		return []*discordgo.MessageEmbed{e}
	}
	return []*discordgo.MessageEmbed{}
}
