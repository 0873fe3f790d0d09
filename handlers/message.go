package handlers

import (
	"fmt"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"

	"guardian-bot/bot"
	"guardian-bot/detectors"
	"guardian-bot/utils"
)

// HandleMessageCreate routes one inbound message through prompts, commands
// and the message detectors. Detectors are independent: a failure to apply
// one action never prevents the others from running.
func HandleMessageCreate(b *bot.Bot, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}

	if offerToPrompt(m) {
		return
	}

	if m.GuildID == "" {
		checkDMSpam(b, m)
		return
	}

	dispatchCommand(b, m)

	// Detectors run on command messages too; a command is no exemption
	// from invite or mention enforcement.
	checkInviteLink(b, m)
	checkMentionSpam(b, m)
}

// checkInviteLink deletes invite links posted by members without message
// management rights, warns the poster, and logs the deletion.
func checkInviteLink(b *bot.Bot, m *discordgo.MessageCreate) {
	if !detectors.ContainsInvite(m.Content) {
		return
	}
	if memberHasPermission(b.Session, m.ChannelID, m.Author.ID, discordgo.PermissionManageMessages) {
		return
	}

	if err := b.Gateway.DeleteMessage(m.ChannelID, m.ID); err != nil {
		log.Printf("Failed to delete invite link message %s: %v", m.ID, err)
		return
	}

	warning := fmt.Sprintf("%s, invite links are not allowed!", m.Author.Mention())
	warningID, err := b.Gateway.SendMessage(m.ChannelID, warning)
	if err != nil {
		log.Printf("Failed to send invite warning in channel %s: %v", m.ChannelID, err)
	} else {
		// The warning itself disappears after a few seconds.
		time.AfterFunc(5*time.Second, func() {
			if err := b.Gateway.DeleteMessage(m.ChannelID, warningID); err != nil {
				log.Printf("Failed to delete invite warning %s: %v", warningID, err)
			}
		})
	}

	content := m.Content
	if len(content) > 500 {
		content = content[:500]
	}
	utils.SendGuildLog(b.Gateway, b.GuildSettings(m.GuildID).LogChannelID,
		utils.NewLogEmbed("🔗 Invite Link Deleted", utils.ColorAction,
			utils.LogField{Name: "User", Value: fmt.Sprintf("%s (%s)", m.Author.Mention(), m.Author.Username), Inline: true},
			utils.LogField{Name: "Channel", Value: fmt.Sprintf("<#%s>", m.ChannelID), Inline: true},
			utils.LogField{Name: "Message", Value: content},
		))
}

// checkMentionSpam times out and removes messages with excessive mentions.
func checkMentionSpam(b *bot.Bot, m *discordgo.MessageCreate) {
	mentionCount := len(m.Mentions) + len(m.MentionRoles)
	if !detectors.IsMentionSpam(mentionCount) {
		return
	}

	until := time.Now().Add(time.Hour)
	if err := b.Gateway.TimeoutMember(m.GuildID, m.Author.ID, until, "Excessive mentions"); err != nil {
		log.Printf("Failed to timeout mention spammer %s: %v", m.Author.ID, err)
	}
	if err := b.Gateway.DeleteMessage(m.ChannelID, m.ID); err != nil {
		log.Printf("Failed to delete mention spam message %s: %v", m.ID, err)
	}

	utils.SendGuildLog(b.Gateway, b.GuildSettings(m.GuildID).LogChannelID,
		utils.NewLogEmbed("🔇 Mention Spam - User Timed Out", utils.ColorAlert,
			utils.LogField{Name: "User", Value: fmt.Sprintf("%s (%s)", m.Author.Mention(), m.Author.Username), Inline: true},
			utils.LogField{Name: "Mentions", Value: fmt.Sprintf("%d mentions", mentionCount), Inline: true},
			utils.LogField{Name: "Action", Value: "1 hour timeout", Inline: true},
		))
}

// checkDMSpam counts direct messages per sender and, past the threshold,
// times the sender out in every shared guild. The DM window resets on
// trigger so the next DM starts a fresh cycle.
func checkDMSpam(b *bot.Bot, m *discordgo.MessageCreate) {
	if !b.Detectors.RecordDM(m.Author.ID, time.Now()) {
		return
	}

	for _, guildID := range b.Gateway.SharedGuilds(m.Author.ID) {
		until := time.Now().Add(time.Hour)
		err := b.Gateway.TimeoutMember(guildID, m.Author.ID, until, "Suspicious DM activity detected")
		if err != nil {
			log.Printf("Failed to timeout DM spammer %s in guild %s: %v", m.Author.ID, guildID, err)
		}

		action := "User timed out for 1 hour"
		if err != nil {
			action = "Failed to timeout user"
		}
		utils.SendGuildLog(b.Gateway, b.GuildSettings(guildID).LogChannelID,
			utils.NewLogEmbed("🚨 Suspicious DM Activity - User Timed Out", utils.ColorAlert,
				utils.LogField{Name: "User", Value: fmt.Sprintf("%s (%s)", m.Author.Mention(), m.Author.Username), Inline: true},
				utils.LogField{Name: "Messages sent", Value: fmt.Sprintf("%d messages in %d seconds", detectors.DMSpamThreshold, int(detectors.DMSpamWindow.Seconds())), Inline: true},
				utils.LogField{Name: "Action", Value: action, Inline: true},
			))
	}
}
