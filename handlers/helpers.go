package handlers

import (
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"

	"guardian-bot/bot"
)

// reply sends a plain response into the channel the command came from.
func reply(b *bot.Bot, m *discordgo.MessageCreate, content string) {
	if _, err := b.Gateway.SendMessage(m.ChannelID, content); err != nil {
		log.Printf("Failed to reply in channel %s: %v", m.ChannelID, err)
	}
}

// memberHasPermission reports whether a member holds a permission (or is an
// administrator) in a channel. Lookup failures deny.
func memberHasPermission(s *discordgo.Session, channelID, userID string, perm int64) bool {
	perms, err := s.State.UserChannelPermissions(userID, channelID)
	if err != nil {
		perms, err = s.UserChannelPermissions(userID, channelID)
		if err != nil {
			log.Printf("Permission lookup failed for user %s in channel %s: %v", userID, channelID, err)
			return false
		}
	}
	return perms&(perm|discordgo.PermissionAdministrator) != 0
}

// parseChannelRef extracts a channel ID from "<#123>" or a raw ID.
func parseChannelRef(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "<#") && strings.HasSuffix(s, ">") {
		s = strings.TrimSuffix(strings.TrimPrefix(s, "<#"), ">")
	}
	if !isSnowflake(s) {
		return ""
	}
	return s
}

// parseRoleRef extracts a role ID from "<@&123>" or a raw ID.
func parseRoleRef(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "<@&") && strings.HasSuffix(s, ">") {
		s = strings.TrimSuffix(strings.TrimPrefix(s, "<@&"), ">")
	}
	if !isSnowflake(s) {
		return ""
	}
	return s
}

func isSnowflake(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
