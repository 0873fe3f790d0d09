package handlers

import (
	"fmt"
	"log"
	"runtime"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"

	"guardian-bot/bot"
)

// HandleStatus posts a system information embed.
func HandleStatus(b *bot.Bot, m *discordgo.MessageCreate, args []string) {
	cpuCount, _ := cpu.Counts(true)
	cpuPercent, _ := cpu.Percent(0, false)
	vm, _ := mem.VirtualMemory()
	hostInfo, _ := host.Info()

	cpuUsage := 0.0
	if len(cpuPercent) > 0 {
		cpuUsage = cpuPercent[0]
	}
	memUsage := "n/a"
	if vm != nil {
		memUsage = fmt.Sprintf("%.1f%% (%d MB / %d MB)", vm.UsedPercent, vm.Used/1024/1024, vm.Total/1024/1024)
	}
	platform := "unknown"
	if hostInfo != nil {
		platform = fmt.Sprintf("%s %s", hostInfo.Platform, hostInfo.PlatformVersion)
	}

	embed := &discordgo.MessageEmbed{
		Title: "Guardian Status",
		Color: 0x5865F2, // Discord Blurple
		Fields: []*discordgo.MessageEmbedField{
			{Name: "💻 OS", Value: platform, Inline: true},
			{Name: "🐹 Go", Value: runtime.Version(), Inline: true},
			{Name: "🔼 CPUs", Value: fmt.Sprintf("%d", cpuCount), Inline: true},
			{Name: "🔥 CPU Usage", Value: fmt.Sprintf("%.1f%%", cpuUsage), Inline: true},
			{Name: "🧠 Memory", Value: memUsage, Inline: true},
			{Name: "🚀 Goroutines", Value: fmt.Sprintf("%d", runtime.NumGoroutine()), Inline: true},
			{Name: "⏱️ Gateway Latency", Value: b.Session.HeartbeatLatency().String(), Inline: true},
			{Name: "🏠 Guilds", Value: fmt.Sprintf("%d", len(b.Session.State.Guilds)), Inline: true},
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if err := b.Gateway.SendEmbed(m.ChannelID, embed); err != nil {
		log.Printf("Failed to send status embed: %v", err)
	}
}

// HandleHelp posts the command list.
func HandleHelp(b *bot.Bot, m *discordgo.MessageCreate, args []string) {
	prefix := b.GuildSettings(m.GuildID).Prefix
	commandsText := fmt.Sprintf(`**Moderation Commands:**
• `+"`%[1]swarn`"+` - Warn a user (3 warnings = 12h timeout)
• `+"`%[1]swarnings`"+` - View warnings leaderboard
• `+"`%[1]slock`"+` - Lock a channel for specified duration
• `+"`%[1]sunlock`"+` - Unlock this channel early
• `+"`%[1]sunlockserver`"+` - Unlock server after raid protection

**Utility Commands:**
• `+"`%[1]sannounce`"+` - Schedule an announcement
• `+"`%[1]sremindme`"+` - Schedule a DM reminder
• `+"`%[1]sreactionrole`"+` - Bind an emoji to a role
• `+"`%[1]slogset #channel`"+` - Set the logging channel
• `+"`%[1]sgreetset #channel`"+` - Set the greeting channel
• `+"`%[1]sprefix`"+` - Change the command prefix
• `+"`%[1]sstatus`"+` - Show system status
• `+"`%[1]scommands`"+` - Display this list

**Security Features:**
• Anti-raid join detection (5+ joins in 10s = server lock)
• Account age verification (3+ days required)
• Automatic invite link deletion
• Excessive mention detection (5+ mentions = timeout)
• DM spam detection with timeout
• Multi-server support`, prefix)

	embed := &discordgo.MessageEmbed{
		Title:       "🛡️ Guardian Bot Commands",
		Description: "Here are all available commands:",
		Color:       0xff0000,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Available Commands", Value: commandsText},
			{Name: "Permissions", Value: "Most moderation commands require Administrator or Manage Messages permissions."},
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if err := b.Gateway.SendEmbed(m.ChannelID, embed); err != nil {
		log.Printf("Failed to send help embed: %v", err)
	}
}
