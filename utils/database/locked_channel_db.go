package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"guardian-bot/model"
)

// AddLockedChannel records a channel lock, replacing a stale record if the
// channel was already locked.
func AddLockedChannel(db *sqlx.DB, lc model.LockedChannel) error {
	lc.UnlockAt = lc.UnlockAt.UTC()
	query := `INSERT INTO locked_channels (channel_id, guild_id, locked_by, unlock_at)
              VALUES (:channel_id, :guild_id, :locked_by, :unlock_at)
              ON CONFLICT(channel_id) DO UPDATE SET
                  locked_by = excluded.locked_by,
                  unlock_at = excluded.unlock_at`
	if _, err := db.NamedExec(query, lc); err != nil {
		return fmt.Errorf("failed to insert locked channel %s: %w", lc.ChannelID, err)
	}
	return nil
}

// GetLockedChannel retrieves the lock record for a channel.
func GetLockedChannel(db *sqlx.DB, channelID string) (*model.LockedChannel, error) {
	var lc model.LockedChannel
	err := db.Get(&lc, "SELECT * FROM locked_channels WHERE channel_id = ?", channelID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get locked channel %s: %w", channelID, err)
	}
	return &lc, nil
}

// DeleteLockedChannel removes a lock record. Returns model.ErrNotFound when
// the channel had no record, so unlocking twice stays a no-op for callers.
func DeleteLockedChannel(db *sqlx.DB, channelID string) error {
	res, err := db.Exec("DELETE FROM locked_channels WHERE channel_id = ?", channelID)
	if err != nil {
		return fmt.Errorf("failed to delete locked channel %s: %w", channelID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected for channel %s: %w", channelID, err)
	}
	if affected == 0 {
		return model.ErrNotFound
	}
	return nil
}
