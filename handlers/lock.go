package handlers

import (
	"fmt"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"

	"guardian-bot/bot"
	"guardian-bot/model"
	"guardian-bot/utils"
	"guardian-bot/utils/database"
)

// HandleLock runs the interactive channel-lock flow: prompt for a duration,
// revoke sends, record the lock, and schedule the durable unlock.
func HandleLock(b *bot.Bot, m *discordgo.MessageCreate, args []string) {
	if !memberHasPermission(b.Session, m.ChannelID, m.Author.ID, discordgo.PermissionManageChannels) {
		reply(b, m, "You don't have permission to lock channels.")
		return
	}

	reply(b, m, "How long should this channel be locked? (e.g., '30m', '2h', '1d')")
	durMsg, err := awaitReply(m.ChannelID, m.Author.ID, promptTimeout)
	if err != nil {
		reply(b, m, "Lock cancelled - no response received.")
		return
	}
	duration, err := utils.ParseDuration(durMsg.Content)
	if err != nil {
		reply(b, m, "Invalid duration. Please enter a number followed by 'm', 'h', or 'd'.")
		return
	}

	if err := b.LockChannel(m.GuildID, m.ChannelID, m.Author.ID, duration); err != nil {
		log.Printf("Failed to lock channel %s: %v", m.ChannelID, err)
		reply(b, m, "Failed to lock the channel.")
		return
	}

	unlockAt := time.Now().Add(duration)
	reply(b, m, fmt.Sprintf("🔒 Channel locked for %s. Unlock scheduled for %s",
		durMsg.Content, unlockAt.UTC().Format("2006-01-02 15:04:05")))

	logChannelID := b.GuildSettings(m.GuildID).LogChannelID
	if logChannelID != m.ChannelID {
		utils.SendGuildLog(b.Gateway, logChannelID,
			utils.NewLogEmbed("🔒 Channel Locked", utils.ColorAction,
				utils.LogField{Name: "Channel", Value: fmt.Sprintf("<#%s>", m.ChannelID), Inline: true},
				utils.LogField{Name: "Locked by", Value: m.Author.Mention(), Inline: true},
				utils.LogField{Name: "Duration", Value: durMsg.Content, Inline: true},
				utils.LogField{Name: "Unlock time", Value: unlockAt.UTC().Format("2006-01-02 15:04:05"), Inline: true},
			))
	}
}

// HandleUnlock manually unlocks the current channel early, cancelling the
// pending scheduled unlock so it cannot fire later as a phantom.
func HandleUnlock(b *bot.Bot, m *discordgo.MessageCreate, args []string) {
	if !memberHasPermission(b.Session, m.ChannelID, m.Author.ID, discordgo.PermissionManageChannels) {
		reply(b, m, "You don't have permission to unlock channels.")
		return
	}

	if err := b.UnlockChannel(m.GuildID, m.ChannelID); err != nil {
		log.Printf("Failed to unlock channel %s: %v", m.ChannelID, err)
		reply(b, m, "Failed to unlock the channel.")
		return
	}
	reply(b, m, "🔓 Channel has been unlocked.")

	utils.SendGuildLog(b.Gateway, b.GuildSettings(m.GuildID).LogChannelID,
		utils.NewLogEmbed("🔓 Channel Unlocked", utils.ColorOK,
			utils.LogField{Name: "Channel", Value: fmt.Sprintf("<#%s>", m.ChannelID), Inline: true},
			utils.LogField{Name: "Action", Value: "Manual unlock", Inline: true},
		))
}

// HandleUnlockServer restores send permissions on every text channel,
// typically after a raid lockdown, and resets the raid join window.
func HandleUnlockServer(b *bot.Bot, m *discordgo.MessageCreate, args []string) {
	if !memberHasPermission(b.Session, m.ChannelID, m.Author.ID, discordgo.PermissionAdministrator) {
		reply(b, m, "You need administrator permissions to unlock the server.")
		return
	}

	channels, err := b.Gateway.TextChannels(m.GuildID)
	if err != nil {
		log.Printf("Failed to list channels for guild %s: %v", m.GuildID, err)
		reply(b, m, "Failed to list the server's channels.")
		return
	}
	for _, channelID := range channels {
		if err := b.Gateway.UnlockChannelSends(m.GuildID, channelID); err != nil {
			log.Printf("Failed to unlock channel %s: %v", channelID, err)
		}
		// Drop any per-channel lock state too; these are idempotent.
		if err := b.Scheduler.CancelPendingUnlock(channelID); err != nil {
			log.Printf("Failed to cancel pending unlock for channel %s: %v", channelID, err)
		}
		if err := database.DeleteLockedChannel(b.DB, channelID); err != nil && err != model.ErrNotFound {
			log.Printf("Failed to delete lock record for channel %s: %v", channelID, err)
		}
	}
	b.Detectors.ResetJoins(m.GuildID)

	reply(b, m, "🔓 Server has been unlocked. All channels are now accessible.")
	utils.SendGuildLog(b.Gateway, b.GuildSettings(m.GuildID).LogChannelID,
		utils.NewLogEmbed("🔓 Server Unlocked", utils.ColorOK,
			utils.LogField{Name: "Unlocked by", Value: m.Author.Mention(), Inline: true},
			utils.LogField{Name: "Action", Value: "All channels unlocked", Inline: true},
		))
}
