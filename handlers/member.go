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

// HandleMemberJoin runs the join-time detectors and the greeting. Each check
// is independent; a member can be flagged by several at once.
func HandleMemberJoin(b *bot.Bot, m *discordgo.GuildMemberAdd) {
	if m.User == nil || m.User.Bot {
		return
	}
	now := time.Now()

	checkRaid(b, m, now)
	checkAccountAge(b, m, now)
	greetMember(b, m, now)
}

// checkRaid locks every text channel in the guild when the join rate
// crosses the raid threshold.
func checkRaid(b *bot.Bot, m *discordgo.GuildMemberAdd, now time.Time) {
	if !b.Detectors.RecordJoin(m.GuildID, now) {
		return
	}

	channels, err := b.Gateway.TextChannels(m.GuildID)
	if err != nil {
		log.Printf("Raid response could not list channels for guild %s: %v", m.GuildID, err)
	}
	locked := 0
	for _, channelID := range channels {
		if err := b.Gateway.LockChannelSends(m.GuildID, channelID); err != nil {
			log.Printf("Raid response failed to lock channel %s: %v", channelID, err)
			continue
		}
		locked++
	}
	log.Printf("Raid detected in guild %s: locked %d/%d channels", m.GuildID, locked, len(channels))

	utils.SendGuildLog(b.Gateway, b.GuildSettings(m.GuildID).LogChannelID,
		utils.NewLogEmbed("🚨 RAID DETECTED - SERVER LOCKED", utils.ColorAlert,
			utils.LogField{Name: "Joins in 10 seconds", Value: fmt.Sprintf("%d", detectors.RaidThreshold), Inline: true},
			utils.LogField{Name: "Action", Value: "All channels locked automatically", Inline: true},
			utils.LogField{Name: "Latest joiner", Value: fmt.Sprintf("%s (%s)", m.User.Mention(), m.User.Username), Inline: true},
		))
}

// checkAccountAge times out accounts younger than the minimum age.
func checkAccountAge(b *bot.Bot, m *discordgo.GuildMemberAdd, now time.Time) {
	createdAt, err := discordgo.SnowflakeTimestamp(m.User.ID)
	if err != nil {
		log.Printf("Could not derive account age for user %s: %v", m.User.ID, err)
		return
	}
	if !detectors.IsNewAccount(createdAt, now) {
		return
	}

	ageDays := detectors.AccountAgeDays(createdAt, now)
	until := now.Add(12 * time.Hour)
	reason := fmt.Sprintf("Account too new: %d days old", ageDays)
	if err := b.Gateway.TimeoutMember(m.GuildID, m.User.ID, until, reason); err != nil {
		log.Printf("Failed to timeout new account %s: %v", m.User.ID, err)
		return
	}

	utils.SendGuildLog(b.Gateway, b.GuildSettings(m.GuildID).LogChannelID,
		utils.NewLogEmbed("👶 New Account Auto-Timeout", utils.ColorInfo,
			utils.LogField{Name: "User", Value: fmt.Sprintf("%s (%s)", m.User.Mention(), m.User.Username), Inline: true},
			utils.LogField{Name: "Account Age", Value: fmt.Sprintf("%d days", ageDays), Inline: true},
			utils.LogField{Name: "Action", Value: "12 hour timeout", Inline: true},
		))
}

// greetMember posts the welcome embed to the guild's greeting channel.
func greetMember(b *bot.Bot, m *discordgo.GuildMemberAdd, now time.Time) {
	greetingChannelID := b.GuildSettings(m.GuildID).GreetingChannelID
	if greetingChannelID == "" {
		return
	}

	ageDays := 0
	if createdAt, err := discordgo.SnowflakeTimestamp(m.User.ID); err == nil {
		ageDays = detectors.AccountAgeDays(createdAt, now)
	}

	embed := utils.NewLogEmbed("👋 Welcome!", utils.ColorOK,
		utils.LogField{Name: "Username", Value: m.User.Username, Inline: true},
		utils.LogField{Name: "Account Age", Value: fmt.Sprintf("%d days", ageDays), Inline: true},
	)
	embed.Description = fmt.Sprintf("Welcome to the server, %s!", m.User.Mention())
	if err := b.Gateway.SendEmbed(greetingChannelID, embed); err != nil {
		log.Printf("Failed to send greeting for user %s: %v", m.User.ID, err)
	}
}

// HandleMemberLeave posts a leave notice to the greeting channel.
func HandleMemberLeave(b *bot.Bot, m *discordgo.GuildMemberRemove) {
	if m.User == nil || m.User.Bot {
		return
	}
	greetingChannelID := b.GuildSettings(m.GuildID).GreetingChannelID
	if greetingChannelID == "" {
		return
	}

	embed := utils.NewLogEmbed("👋 Goodbye", utils.ColorAction,
		utils.LogField{Name: "Username", Value: m.User.Username, Inline: true},
	)
	embed.Description = fmt.Sprintf("%s has left the server.", m.User.Username)
	if err := b.Gateway.SendEmbed(greetingChannelID, embed); err != nil {
		log.Printf("Failed to send leave notice for user %s: %v", m.User.ID, err)
	}
}
