package utils

import (
	"log"
	"time"

	"github.com/bwmarrin/discordgo"

	"guardian-bot/gateway"
)

// Embed colors for moderation log records.
const (
	ColorAlert  = 0xff0000 // raids, spam timeouts
	ColorAction = 0xff6600 // locks, deletions
	ColorWarn   = 0xffaa00 // warnings
	ColorOK     = 0x00ff00 // unlocks, schedules, greetings
	ColorInfo   = 0xffa500 // account-age timeouts
)

// LogField is one name/value pair on a log embed.
type LogField struct {
	Name   string
	Value  string
	Inline bool
}

// NewLogEmbed builds a timestamped moderation log embed.
func NewLogEmbed(title string, color int, fields ...LogField) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:     title,
		Color:     color,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	for _, f := range fields {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   f.Name,
			Value:  f.Value,
			Inline: f.Inline,
		})
	}
	return embed
}

// SendGuildLog delivers a log embed to a guild's configured log channel.
// A missing channel is a no-op, and a delivery failure is logged but never
// propagated, so logging can never suppress the moderation action itself.
func SendGuildLog(gw gateway.Gateway, logChannelID string, embed *discordgo.MessageEmbed) {
	if logChannelID == "" {
		return
	}
	if err := gw.SendEmbed(logChannelID, embed); err != nil {
		log.Printf("Failed to deliver log embed %q to channel %s: %v", embed.Title, logChannelID, err)
	}
}
