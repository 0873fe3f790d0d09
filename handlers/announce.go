package handlers

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"guardian-bot/bot"
	"guardian-bot/model"
	"guardian-bot/utils"
)

// HandleAnnounce runs the interactive announcement flow over DM: prompt for
// the text, the clock time, and the target channel, then hand the result to
// the scheduler.
func HandleAnnounce(b *bot.Bot, m *discordgo.MessageCreate, args []string) {
	dm, err := b.Session.UserChannelCreate(m.Author.ID)
	if err != nil {
		log.Printf("Failed to open DM for announce flow with user %s: %v", m.Author.ID, err)
		reply(b, m, "I couldn't DM you to set up the announcement.")
		return
	}
	ask := func(q string) (*discordgo.Message, error) {
		if _, err := b.Gateway.SendMessage(dm.ID, q); err != nil {
			return nil, err
		}
		return awaitReply(dm.ID, m.Author.ID, promptTimeout)
	}

	textMsg, err := ask("What should the announcement say?")
	if err != nil {
		sendDMOrLog(b, dm.ID, "Announcement cancelled - no response received.")
		return
	}
	announcement := textMsg.Content

	timeMsg, err := ask("What time should the announcement go out? (e.g. 6:00 PM EST or 3:30 PM PST)")
	if err != nil {
		sendDMOrLog(b, dm.ID, "Announcement cancelled - no response received.")
		return
	}
	fireAt, err := utils.ParseClockTime(timeMsg.Content, time.Now())
	if err != nil {
		sendDMOrLog(b, dm.ID, "Failed to parse time. Please use format like:\n• `6:30 PM EST`\n• `3 PM PST`\n• `11:45 AM EST`")
		return
	}

	chanMsg, err := ask("Which channel should it be posted in? Please type the channel name (e.g. general)")
	if err != nil {
		sendDMOrLog(b, dm.ID, "Announcement cancelled - no response received.")
		return
	}
	channelID := findChannelByName(b, m.GuildID, chanMsg.Content)
	if channelID == "" {
		sendDMOrLog(b, dm.ID, "Channel not found. Make sure you typed the correct channel name. Cancelled.")
		return
	}

	if _, err := b.Scheduler.Schedule(fireAt, model.ActionAnnouncement, m.GuildID, channelID, "", announcement); err != nil {
		log.Printf("Failed to schedule announcement in guild %s: %v", m.GuildID, err)
		sendDMOrLog(b, dm.ID, "Failed to schedule the announcement; nothing was saved.")
		return
	}

	display := fireAt.Format("03:04 PM MST")
	sendDMOrLog(b, dm.ID, fmt.Sprintf("Announcement scheduled for %s in <#%s>.", display, channelID))

	preview := announcement
	if len(preview) > 1000 {
		preview = preview[:1000] + "..."
	}
	utils.SendGuildLog(b.Gateway, b.GuildSettings(m.GuildID).LogChannelID,
		utils.NewLogEmbed("📢 Announcement Scheduled", utils.ColorOK,
			utils.LogField{Name: "Created by", Value: m.Author.Mention(), Inline: true},
			utils.LogField{Name: "Scheduled for", Value: display, Inline: true},
			utils.LogField{Name: "Target Channel", Value: fmt.Sprintf("<#%s>", channelID), Inline: true},
			utils.LogField{Name: "Message", Value: preview},
		))
}

// HandleRemindMe schedules a DM reminder: !remindme 1h30m Your reminder text
func HandleRemindMe(b *bot.Bot, m *discordgo.MessageCreate, args []string) {
	if len(args) < 2 {
		reply(b, m, "Failed to set reminder. Use format like: `remindme 1h30m Your reminder text`")
		return
	}
	duration, err := utils.ParseDuration(args[0])
	if err != nil {
		reply(b, m, "Failed to set reminder. Use format like: `remindme 1h30m Your reminder text`")
		return
	}
	text := strings.Join(args[1:], " ")

	fireAt := time.Now().Add(duration)
	if _, err := b.Scheduler.Schedule(fireAt, model.ActionReminder, m.GuildID, "", m.Author.ID, text); err != nil {
		log.Printf("Failed to schedule reminder for user %s: %v", m.Author.ID, err)
		reply(b, m, "Failed to set the reminder; nothing was saved.")
		return
	}
	reply(b, m, fmt.Sprintf("⏰ Reminder set! I'll DM you in %s with: %s", args[0], text))
}

func sendDMOrLog(b *bot.Bot, dmChannelID, content string) {
	if _, err := b.Gateway.SendMessage(dmChannelID, content); err != nil {
		log.Printf("Failed to send DM message: %v", err)
	}
}

// findChannelByName matches a typed channel name against the guild's text
// channels.
func findChannelByName(b *bot.Bot, guildID, name string) string {
	name = strings.TrimPrefix(strings.TrimSpace(name), "#")
	channels, err := b.Session.GuildChannels(guildID)
	if err != nil {
		log.Printf("Failed to list channels for guild %s: %v", guildID, err)
		return ""
	}
	for _, ch := range channels {
		if ch.Type == discordgo.ChannelTypeGuildText && strings.EqualFold(ch.Name, name) {
			return ch.ID
		}
	}
	return ""
}
