// Package gateway is the narrow seam between the moderation core and the
// chat platform. Everything here is fallible and independently retryable;
// nothing in the core holds a lock across these calls.
package gateway

import (
	"time"

	"github.com/bwmarrin/discordgo"
)

// Gateway is the set of platform commands the core needs. The production
// implementation wraps a discordgo session; tests substitute fakes.
type Gateway interface {
	TimeoutMember(guildID, userID string, until time.Time, reason string) error
	DeleteMessage(channelID, messageID string) error
	SendMessage(channelID, content string) (messageID string, err error)
	SendEmbed(channelID string, embed *discordgo.MessageEmbed) error
	SendDM(userID, content string) error

	LockChannelSends(guildID, channelID string) error
	UnlockChannelSends(guildID, channelID string) error
	TextChannels(guildID string) ([]string, error)

	SharedGuilds(userID string) []string

	AddRole(guildID, userID, roleID string) error
	RemoveRole(guildID, userID, roleID string) error
}
