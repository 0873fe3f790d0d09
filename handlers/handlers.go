package handlers

import (
	"strings"

	"github.com/bwmarrin/discordgo"

	"guardian-bot/bot"
)

// Register attaches all gateway event handlers to the session.
func Register(b *bot.Bot) {
	b.Session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		HandleMessageCreate(b, m)
	})
	b.Session.AddHandler(func(s *discordgo.Session, m *discordgo.GuildMemberAdd) {
		HandleMemberJoin(b, m)
	})
	b.Session.AddHandler(func(s *discordgo.Session, m *discordgo.GuildMemberRemove) {
		HandleMemberLeave(b, m)
	})
	b.Session.AddHandler(func(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
		HandleReactionAdd(b, r)
	})
	b.Session.AddHandler(func(s *discordgo.Session, r *discordgo.MessageReactionRemove) {
		HandleReactionRemove(b, r)
	})
	b.Session.AddHandler(func(s *discordgo.Session, d *discordgo.MessageDelete) {
		HandleMessageDelete(b, d)
	})
}

type commandFunc func(b *bot.Bot, m *discordgo.MessageCreate, args []string)

var commandHandlers = map[string]commandFunc{
	"warn":         HandleWarn,
	"warnings":     HandleWarnings,
	"lock":         HandleLock,
	"unlock":       HandleUnlock,
	"unlockserver": HandleUnlockServer,
	"announce":     HandleAnnounce,
	"remindme":     HandleRemindMe,
	"reactionrole": HandleReactionRole,
	"logset":       HandleLogSet,
	"greetset":     HandleGreetSet,
	"prefix":       HandlePrefix,
	"status":       HandleStatus,
	"commands":     HandleHelp,
}

// dispatchCommand routes a guild message to its command handler. Returns
// false when the message is not a command for this guild's prefix.
func dispatchCommand(b *bot.Bot, m *discordgo.MessageCreate) bool {
	prefix := b.GuildSettings(m.GuildID).Prefix
	if !strings.HasPrefix(m.Content, prefix) {
		return false
	}
	fields := strings.Fields(strings.TrimPrefix(m.Content, prefix))
	if len(fields) == 0 {
		return false
	}
	handler, ok := commandHandlers[strings.ToLower(fields[0])]
	if !ok {
		return false
	}
	handler(b, m, fields[1:])
	return true
}
