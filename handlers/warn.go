package handlers

import (
	"fmt"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"

	"guardian-bot/bot"
	"guardian-bot/ledger"
	"guardian-bot/utils"
)

// HandleWarn runs the interactive warn flow: prompt for the target, prompt
// for the reason, append to the ledger, and report any escalation.
func HandleWarn(b *bot.Bot, m *discordgo.MessageCreate, args []string) {
	if !memberHasPermission(b.Session, m.ChannelID, m.Author.ID, discordgo.PermissionManageMessages) {
		reply(b, m, "You don't have permission to warn users.")
		return
	}

	reply(b, m, "Which user would you like to warn? (mention them or provide their username)")
	userMsg, err := awaitReply(m.ChannelID, m.Author.ID, promptTimeout)
	if err != nil {
		reply(b, m, "Warning cancelled - no response received.")
		return
	}
	target := resolveMember(b, m.GuildID, userMsg)
	if target == nil {
		reply(b, m, "User not found. Please mention them or use their exact username.")
		return
	}

	reply(b, m, "What is the reason for this warning?")
	reasonMsg, err := awaitReply(m.ChannelID, m.Author.ID, promptTimeout)
	if err != nil {
		reply(b, m, "Warning cancelled - no response received.")
		return
	}
	reason := reasonMsg.Content

	count, escalated, err := b.Ledger.IssueWarning(m.GuildID, target.ID, m.Author.ID, reason)
	if err != nil {
		log.Printf("Failed to issue warning for user %s: %v", target.ID, err)
		reply(b, m, "Failed to record the warning; nothing was saved.")
		return
	}

	if escalated {
		reply(b, m, fmt.Sprintf(
			"⚠️ %s has been warned for: %s\n🚫 **AUTOMATIC TIMEOUT**: User has reached %d warnings and has been timed out for 12 hours.",
			target.Mention(), reason, ledger.EscalationThreshold))
	} else {
		reply(b, m, fmt.Sprintf("⚠️ %s has been warned for: %s\nWarning %d/%d",
			target.Mention(), reason, count, ledger.EscalationThreshold))
	}

	fields := []utils.LogField{
		{Name: "Warned User", Value: fmt.Sprintf("%s (%s)", target.Mention(), target.Username), Inline: true},
		{Name: "Warned by", Value: fmt.Sprintf("%s (%s)", m.Author.Mention(), m.Author.Username), Inline: true},
		{Name: "Reason", Value: reason},
		{Name: "Total Warnings", Value: fmt.Sprintf("%d/%d", count, ledger.EscalationThreshold), Inline: true},
	}
	if escalated {
		fields = append(fields, utils.LogField{Name: "Auto Action", Value: "User timed out for 12 hours", Inline: true})
	}
	utils.SendGuildLog(b.Gateway, b.GuildSettings(m.GuildID).LogChannelID,
		utils.NewLogEmbed("⚠️ User Warning Issued", utils.ColorWarn, fields...))
}

// HandleWarnings posts the active-warnings leaderboard for the guild.
func HandleWarnings(b *bot.Bot, m *discordgo.MessageCreate, args []string) {
	counts, err := b.Ledger.ListActive(m.GuildID)
	if err != nil {
		log.Printf("Failed to list warnings for guild %s: %v", m.GuildID, err)
		reply(b, m, "Failed to load warnings.")
		return
	}
	if len(counts) == 0 {
		reply(b, m, "No active warnings found in this server.")
		return
	}

	var sb strings.Builder
	for i, uc := range counts {
		if i >= 10 {
			break
		}
		plural := "s"
		if uc.Count == 1 {
			plural = ""
		}
		fmt.Fprintf(&sb, "%d. <@%s> - %d/%d warning%s\n", i+1, uc.UserID, uc.Count, ledger.EscalationThreshold, plural)
	}

	embed := utils.NewLogEmbed("⚠️ Warnings Leaderboard", utils.ColorWarn,
		utils.LogField{Name: "Top Users", Value: sb.String()})
	embed.Description = "Users with active warnings in this server (last 2 weeks)"
	if err := b.Gateway.SendEmbed(m.ChannelID, embed); err != nil {
		log.Printf("Failed to send warnings leaderboard: %v", err)
	}
}

// resolveMember finds the warn target from a mention, or falls back to an
// exact username or nick search.
func resolveMember(b *bot.Bot, guildID string, msg *discordgo.Message) *discordgo.User {
	if len(msg.Mentions) > 0 {
		return msg.Mentions[0]
	}
	name := strings.TrimSpace(msg.Content)
	if name == "" {
		return nil
	}
	members, err := b.Session.GuildMembersSearch(guildID, name, 10)
	if err != nil {
		log.Printf("Member search failed in guild %s: %v", guildID, err)
		return nil
	}
	for _, member := range members {
		if member.User != nil && (strings.EqualFold(member.User.Username, name) || strings.EqualFold(member.Nick, name)) {
			return member.User
		}
	}
	return nil
}
