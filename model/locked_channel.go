package model

import "time"

// LockedChannel records a channel whose send permission was revoked.
// One-to-one with a pending channel_unlock scheduled action; the two are
// created and removed together.
type LockedChannel struct {
	ChannelID string    `db:"channel_id"`
	GuildID   string    `db:"guild_id"`
	LockedBy  string    `db:"locked_by"`
	UnlockAt  time.Time `db:"unlock_at"`
}

// ReactionRole maps an emoji on a message to a role that reacting grants.
type ReactionRole struct {
	MessageID string `db:"message_id"`
	GuildID   string `db:"guild_id"`
	Emoji     string `db:"emoji"`
	RoleID    string `db:"role_id"`
}
