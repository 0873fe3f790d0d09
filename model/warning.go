package model

import "time"

// WarningRecord represents a single warning in the escalation ledger.
// The database table is named 'warnings'.
type WarningRecord struct {
	WarningID   int64     `db:"warning_id"` // Primary Key, Auto-increment
	GuildID     string    `db:"guild_id"`
	UserID      string    `db:"user_id"`
	ModeratorID string    `db:"moderator_id"`
	Reason      string    `db:"reason"`
	IssuedAt    time.Time `db:"issued_at"`
}

// UserWarningCount is one row of the active-warnings leaderboard.
type UserWarningCount struct {
	UserID      string    `db:"user_id"`
	Count       int       `db:"count"`
	FirstIssued time.Time `db:"first_issued"`
}
