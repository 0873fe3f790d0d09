package bot

import (
	"fmt"
	"log"
	"time"

	"guardian-bot/model"
	"guardian-bot/utils"
	"guardian-bot/utils/database"
)

// registerDispatchers installs the scheduler's dispatch table. Each entry is
// a plain function over the persisted action record, so actions survive
// restarts without capturing live objects.
func (b *Bot) registerDispatchers() {
	b.Scheduler.Handle(model.ActionChannelUnlock, b.dispatchChannelUnlock)
	b.Scheduler.Handle(model.ActionAnnouncement, b.dispatchAnnouncement)
	b.Scheduler.Handle(model.ActionReminder, b.dispatchReminder)
}

// dispatchChannelUnlock restores sends on the channel and retires the lock
// record. Restoring permissions is idempotent, so a double fire after a
// crash is harmless.
func (b *Bot) dispatchChannelUnlock(a model.ScheduledAction) error {
	if err := b.Gateway.UnlockChannelSends(a.GuildID, a.ChannelID); err != nil {
		return err
	}

	if err := database.DeleteLockedChannel(b.DB, a.ChannelID); err != nil && err != model.ErrNotFound {
		log.Printf("Failed to delete lock record for channel %s: %v", a.ChannelID, err)
	}
	if _, err := b.Gateway.SendMessage(a.ChannelID, "🔓 Channel has been automatically unlocked."); err != nil {
		log.Printf("Failed to announce unlock in channel %s: %v", a.ChannelID, err)
	}

	logChannelID := b.GuildSettings(a.GuildID).LogChannelID
	if logChannelID != a.ChannelID {
		utils.SendGuildLog(b.Gateway, logChannelID,
			utils.NewLogEmbed("🔓 Channel Unlocked", utils.ColorOK,
				utils.LogField{Name: "Channel", Value: fmt.Sprintf("<#%s>", a.ChannelID), Inline: true},
				utils.LogField{Name: "Action", Value: "Automatic unlock", Inline: true},
			))
	}
	return nil
}

func (b *Bot) dispatchAnnouncement(a model.ScheduledAction) error {
	_, err := b.Gateway.SendMessage(a.ChannelID, a.Message)
	return err
}

func (b *Bot) dispatchReminder(a model.ScheduledAction) error {
	return b.Gateway.SendDM(a.UserID, fmt.Sprintf("⏰ **Reminder:** %s", a.Message))
}

// LockChannel revokes sends on a channel and schedules the durable unlock.
// The lock record and its pending unlock action live and die together.
func (b *Bot) LockChannel(guildID, channelID, lockedBy string, duration time.Duration) error {
	// Re-locking an already locked channel replaces its pending unlock.
	if err := b.Scheduler.CancelPendingUnlock(channelID); err != nil {
		return err
	}

	if err := b.Gateway.LockChannelSends(guildID, channelID); err != nil {
		return err
	}

	unlockAt := time.Now().Add(duration)
	if _, err := b.Scheduler.Schedule(unlockAt, model.ActionChannelUnlock, guildID, channelID, "", ""); err != nil {
		return err
	}
	return database.AddLockedChannel(b.DB, model.LockedChannel{
		ChannelID: channelID,
		GuildID:   guildID,
		LockedBy:  lockedBy,
		UnlockAt:  unlockAt,
	})
}

// UnlockChannel restores sends immediately and cancels the pending unlock.
// Unlocking a channel that was never locked is a no-op.
func (b *Bot) UnlockChannel(guildID, channelID string) error {
	if err := b.Gateway.UnlockChannelSends(guildID, channelID); err != nil {
		return err
	}
	if err := b.Scheduler.CancelPendingUnlock(channelID); err != nil {
		return err
	}
	if err := database.DeleteLockedChannel(b.DB, channelID); err != nil && err != model.ErrNotFound {
		return err
	}
	return nil
}
