package handlers

import (
	"fmt"
	"runtime"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"

	"modbot/bot"
	"modbot/utils"
)

// HandleStatus reports host and bot health.
func HandleStatus(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	cpuCount, _ := cpu.Counts(true)
	cpuPercent, _ := cpu.Percent(0, false)
	vm, _ := mem.VirtualMemory()
	hostInfo, _ := host.Info()

	cpuUsage := "n/a"
	if len(cpuPercent) > 0 {
		cpuUsage = fmt.Sprintf("%.1f%%", cpuPercent[0])
	}

	jobs, err := b.Schedules.List("")
	pendingJobs := "n/a"
	if err == nil {
		pendingJobs = fmt.Sprintf("%d", len(jobs))
	}

	lockdownState := "inactive"
	if b.Flags.LockdownActive(i.GuildID) {
		lockdownState = "active"
	}

	embed := &discordgo.MessageEmbed{
		Title: "Bot Status",
		Color: 0x5865F2, // Discord Blurple
		Fields: []*discordgo.MessageEmbedField{
			{Name: "💻 OS", Value: fmt.Sprintf("%s %s", hostInfo.Platform, hostInfo.PlatformVersion), Inline: true},
			{Name: "🐹 Go", Value: runtime.Version(), Inline: true},
			{Name: "🔼 CPUs", Value: fmt.Sprintf("%d", cpuCount), Inline: true},
			{Name: "🔥 CPU usage", Value: cpuUsage, Inline: true},
			{Name: "🧠 Memory", Value: fmt.Sprintf("%.1f%% (%d MB / %d MB)", vm.UsedPercent, vm.Used/1024/1024, vm.Total/1024/1024), Inline: true},
			{Name: "⏱️ Gateway latency", Value: s.HeartbeatLatency().String(), Inline: true},
			{Name: "🚀 Goroutines", Value: fmt.Sprintf("%d", runtime.NumGoroutine()), Inline: true},
			{Name: "📅 Pending announcements", Value: pendingJobs, Inline: true},
			{Name: "👤 Tracked spammers", Value: fmt.Sprintf("%d", b.Limiter.Tracked()), Inline: true},
			{Name: "🔒 Lockdown", Value: lockdownState, Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Status as of " + time.Now().Format("15:04"),
		},
	}
	utils.SendEmbedResponse(s, i, embed)
}
