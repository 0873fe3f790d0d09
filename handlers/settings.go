package handlers

import (
	"fmt"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"

	"guardian-bot/bot"
)

// HandleLogSet points the guild's moderation log at a channel:
// !logset #channel
func HandleLogSet(b *bot.Bot, m *discordgo.MessageCreate, args []string) {
	if !memberHasPermission(b.Session, m.ChannelID, m.Author.ID, discordgo.PermissionManageGuild) {
		reply(b, m, "You don't have permission to change server settings.")
		return
	}
	if len(args) < 1 {
		reply(b, m, "Usage: logset #channel")
		return
	}
	channelID := parseChannelRef(args[0])
	if channelID == "" {
		reply(b, m, "Could not parse the channel reference.")
		return
	}

	gs := b.GuildSettings(m.GuildID)
	gs.LogChannelID = channelID
	if err := b.SetGuildSettings(gs); err != nil {
		log.Printf("Failed to save log channel for guild %s: %v", m.GuildID, err)
		reply(b, m, "Failed to save the setting.")
		return
	}
	reply(b, m, fmt.Sprintf("Logging channel set to <#%s>.", channelID))
}

// HandleGreetSet points greetings at a channel: !greetset #channel
func HandleGreetSet(b *bot.Bot, m *discordgo.MessageCreate, args []string) {
	if !memberHasPermission(b.Session, m.ChannelID, m.Author.ID, discordgo.PermissionManageGuild) {
		reply(b, m, "You don't have permission to change server settings.")
		return
	}
	if len(args) < 1 {
		reply(b, m, "Usage: greetset #channel")
		return
	}
	channelID := parseChannelRef(args[0])
	if channelID == "" {
		reply(b, m, "Could not parse the channel reference.")
		return
	}

	gs := b.GuildSettings(m.GuildID)
	gs.GreetingChannelID = channelID
	if err := b.SetGuildSettings(gs); err != nil {
		log.Printf("Failed to save greeting channel for guild %s: %v", m.GuildID, err)
		reply(b, m, "Failed to save the setting.")
		return
	}
	reply(b, m, fmt.Sprintf("Greeting channel set to <#%s>.", channelID))
}

// HandlePrefix changes the guild's command prefix: !prefix ?
func HandlePrefix(b *bot.Bot, m *discordgo.MessageCreate, args []string) {
	if !memberHasPermission(b.Session, m.ChannelID, m.Author.ID, discordgo.PermissionManageGuild) {
		reply(b, m, "You don't have permission to change server settings.")
		return
	}
	if len(args) < 1 || len(args[0]) > 3 || strings.ContainsAny(args[0], " \t") {
		reply(b, m, "Usage: prefix <new prefix> (at most 3 characters)")
		return
	}

	gs := b.GuildSettings(m.GuildID)
	gs.Prefix = args[0]
	if err := b.SetGuildSettings(gs); err != nil {
		log.Printf("Failed to save prefix for guild %s: %v", m.GuildID, err)
		reply(b, m, "Failed to save the setting.")
		return
	}
	reply(b, m, fmt.Sprintf("Command prefix set to `%s`.", args[0]))
}
