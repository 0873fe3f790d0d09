package gateway

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
)

// Discord adapts a discordgo session to the Gateway interface.
type Discord struct {
	Session *discordgo.Session
}

func NewDiscord(s *discordgo.Session) *Discord {
	return &Discord{Session: s}
}

func (d *Discord) TimeoutMember(guildID, userID string, until time.Time, reason string) error {
	if err := d.Session.GuildMemberTimeout(guildID, userID, &until); err != nil {
		return fmt.Errorf("failed to timeout user %s in guild %s (%s): %w", userID, guildID, reason, err)
	}
	return nil
}

func (d *Discord) DeleteMessage(channelID, messageID string) error {
	if err := d.Session.ChannelMessageDelete(channelID, messageID); err != nil {
		return fmt.Errorf("failed to delete message %s: %w", messageID, err)
	}
	return nil
}

func (d *Discord) SendMessage(channelID, content string) (string, error) {
	msg, err := d.Session.ChannelMessageSend(channelID, content)
	if err != nil {
		return "", fmt.Errorf("failed to send message to channel %s: %w", channelID, err)
	}
	return msg.ID, nil
}

func (d *Discord) SendEmbed(channelID string, embed *discordgo.MessageEmbed) error {
	if _, err := d.Session.ChannelMessageSendEmbed(channelID, embed); err != nil {
		return fmt.Errorf("failed to send embed to channel %s: %w", channelID, err)
	}
	return nil
}

func (d *Discord) SendDM(userID, content string) error {
	ch, err := d.Session.UserChannelCreate(userID)
	if err != nil {
		return fmt.Errorf("failed to open DM channel for user %s: %w", userID, err)
	}
	if _, err := d.Session.ChannelMessageSend(ch.ID, content); err != nil {
		return fmt.Errorf("failed to DM user %s: %w", userID, err)
	}
	return nil
}

// LockChannelSends denies send-messages for @everyone in a channel. The
// everyone role ID is the guild ID.
func (d *Discord) LockChannelSends(guildID, channelID string) error {
	err := d.Session.ChannelPermissionSet(channelID, guildID,
		discordgo.PermissionOverwriteTypeRole, 0, discordgo.PermissionSendMessages)
	if err != nil {
		return fmt.Errorf("failed to lock channel %s: %w", channelID, err)
	}
	return nil
}

// UnlockChannelSends removes the @everyone overwrite so the channel reverts
// to its inherited permissions. A missing overwrite is treated as already
// unlocked.
func (d *Discord) UnlockChannelSends(guildID, channelID string) error {
	err := d.Session.ChannelPermissionDelete(channelID, guildID)
	if err != nil {
		if restErr, ok := err.(*discordgo.RESTError); ok && restErr.Message != nil &&
			restErr.Message.Code == discordgo.ErrCodeUnknownOverwrite {
			return nil
		}
		return fmt.Errorf("failed to unlock channel %s: %w", channelID, err)
	}
	return nil
}

func (d *Discord) TextChannels(guildID string) ([]string, error) {
	channels, err := d.Session.GuildChannels(guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list channels for guild %s: %w", guildID, err)
	}
	ids := make([]string, 0, len(channels))
	for _, ch := range channels {
		if ch.Type == discordgo.ChannelTypeGuildText {
			ids = append(ids, ch.ID)
		}
	}
	return ids, nil
}

// SharedGuilds returns the guilds this bot shares with a user. Guild
// membership is checked against the platform, and lookup failures simply
// exclude that guild.
func (d *Discord) SharedGuilds(userID string) []string {
	var shared []string
	for _, g := range d.Session.State.Guilds {
		if _, err := d.Session.GuildMember(g.ID, userID); err == nil {
			shared = append(shared, g.ID)
		}
	}
	return shared
}

func (d *Discord) AddRole(guildID, userID, roleID string) error {
	if err := d.Session.GuildMemberRoleAdd(guildID, userID, roleID); err != nil {
		return fmt.Errorf("failed to add role %s to user %s: %w", roleID, userID, err)
	}
	return nil
}

func (d *Discord) RemoveRole(guildID, userID, roleID string) error {
	if err := d.Session.GuildMemberRoleRemove(guildID, userID, roleID); err != nil {
		return fmt.Errorf("failed to remove role %s from user %s: %w", roleID, userID, err)
	}
	return nil
}
