package model

import "time"

// ActionKind identifies what a scheduled action does when it fires.
type ActionKind string

const (
	ActionChannelUnlock ActionKind = "channel_unlock"
	ActionAnnouncement  ActionKind = "announcement"
	ActionReminder      ActionKind = "reminder"
)

// ActionStatus is the lifecycle state of a scheduled action.
// Transitions: pending -> fired, or pending -> cancelled. Nothing else.
type ActionStatus string

const (
	StatusPending   ActionStatus = "pending"
	StatusFired     ActionStatus = "fired"
	StatusCancelled ActionStatus = "cancelled"
)

// ScheduledAction is a time-delayed action owned by the scheduler.
// Persisted in the scheduled_actions table so it survives restarts.
type ScheduledAction struct {
	ID        string       `db:"id"`
	GuildID   string       `db:"guild_id"`
	Kind      ActionKind   `db:"kind"`
	ChannelID string       `db:"channel_id"` // unlock target / announcement channel
	UserID    string       `db:"user_id"`    // reminder target
	Message   string       `db:"message"`    // announcement or reminder text
	FireAt    time.Time    `db:"fire_at"`
	CreatedAt time.Time    `db:"created_at"`
	Status    ActionStatus `db:"status"`
	Note      string       `db:"note"` // failure annotation after exhausted retries
}
