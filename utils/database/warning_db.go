package database

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"guardian-bot/model"
)

// AddWarning inserts a new warning record and returns its ID.
func AddWarning(db *sqlx.DB, rec model.WarningRecord) (int64, error) {
	rec.IssuedAt = rec.IssuedAt.UTC()
	query := `INSERT INTO warnings (guild_id, user_id, moderator_id, reason, issued_at)
              VALUES (:guild_id, :user_id, :moderator_id, :reason, :issued_at)`
	res, err := db.NamedExec(query, rec)
	if err != nil {
		return 0, fmt.Errorf("failed to insert warning for user %s: %w", rec.UserID, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read warning id: %w", err)
	}
	return id, nil
}

// CountActiveWarnings counts a user's warnings issued after the cutoff.
func CountActiveWarnings(db *sqlx.DB, guildID, userID string, cutoff time.Time) (int, error) {
	var count int
	query := "SELECT COUNT(*) FROM warnings WHERE guild_id = ? AND user_id = ? AND issued_at > ?"
	if err := db.Get(&count, query, guildID, userID, cutoff.UTC()); err != nil {
		return 0, fmt.Errorf("failed to count warnings for user %s: %w", userID, err)
	}
	return count, nil
}

// DeleteExpiredWarnings purges warnings issued at or before the cutoff.
// Idempotent; deleting nothing is not an error.
func DeleteExpiredWarnings(db *sqlx.DB, cutoff time.Time) error {
	if _, err := db.Exec("DELETE FROM warnings WHERE issued_at <= ?", cutoff.UTC()); err != nil {
		return fmt.Errorf("failed to purge expired warnings: %w", err)
	}
	return nil
}

// GetActiveWarnings returns a guild's unexpired warnings in issuance order.
func GetActiveWarnings(db *sqlx.DB, guildID string, cutoff time.Time) ([]model.WarningRecord, error) {
	var records []model.WarningRecord
	query := "SELECT * FROM warnings WHERE guild_id = ? AND issued_at > ? ORDER BY issued_at ASC"
	if err := db.Select(&records, query, guildID, cutoff.UTC()); err != nil {
		return nil, fmt.Errorf("failed to get active warnings for guild %s: %w", guildID, err)
	}
	return records, nil
}
