package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"guardian-bot/model"
)

// AddScheduledAction persists a new action. The partial unique index on
// pending channel_unlock rows rejects a second pending unlock for the same
// channel.
func AddScheduledAction(db *sqlx.DB, a model.ScheduledAction) error {
	a.FireAt = a.FireAt.UTC()
	a.CreatedAt = a.CreatedAt.UTC()
	query := `INSERT INTO scheduled_actions (id, guild_id, kind, channel_id, user_id, message, fire_at, created_at, status, note)
              VALUES (:id, :guild_id, :kind, :channel_id, :user_id, :message, :fire_at, :created_at, :status, :note)`
	if _, err := db.NamedExec(query, a); err != nil {
		return fmt.Errorf("failed to insert scheduled action %s: %w", a.ID, err)
	}
	return nil
}

// GetPendingActions returns all pending actions ordered by fire time,
// oldest first. This is the recovery read on startup.
func GetPendingActions(db *sqlx.DB) ([]model.ScheduledAction, error) {
	var actions []model.ScheduledAction
	query := "SELECT * FROM scheduled_actions WHERE status = ? ORDER BY fire_at ASC"
	if err := db.Select(&actions, query, model.StatusPending); err != nil {
		return nil, fmt.Errorf("failed to load pending actions: %w", err)
	}
	return actions, nil
}

// GetDueActions returns pending actions whose fire time has passed,
// oldest first.
func GetDueActions(db *sqlx.DB, now time.Time) ([]model.ScheduledAction, error) {
	var actions []model.ScheduledAction
	query := "SELECT * FROM scheduled_actions WHERE status = ? AND fire_at <= ? ORDER BY fire_at ASC"
	if err := db.Select(&actions, query, model.StatusPending, now.UTC()); err != nil {
		return nil, fmt.Errorf("failed to load due actions: %w", err)
	}
	return actions, nil
}

// NextPendingFireAt returns the earliest pending fire time, or ok=false when
// nothing is pending.
func NextPendingFireAt(db *sqlx.DB) (time.Time, bool, error) {
	var fireAt time.Time
	query := "SELECT fire_at FROM scheduled_actions WHERE status = ? ORDER BY fire_at ASC LIMIT 1"
	err := db.Get(&fireAt, query, model.StatusPending)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to read next fire time: %w", err)
	}
	return fireAt, true, nil
}

// TransitionActionStatus atomically moves an action from one status to
// another. The returned bool reports whether this caller won the transition;
// a false result with nil error means someone else already moved it.
func TransitionActionStatus(db *sqlx.DB, id string, from, to model.ActionStatus) (bool, error) {
	res, err := db.Exec("UPDATE scheduled_actions SET status = ? WHERE id = ? AND status = ?", to, id, from)
	if err != nil {
		return false, fmt.Errorf("failed to transition action %s to %s: %w", id, to, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check rows affected for action %s: %w", id, err)
	}
	return affected == 1, nil
}

// AnnotateAction stores a failure note on an action after dispatch gave up.
func AnnotateAction(db *sqlx.DB, id, note string) error {
	if _, err := db.Exec("UPDATE scheduled_actions SET note = ? WHERE id = ?", note, id); err != nil {
		return fmt.Errorf("failed to annotate action %s: %w", id, err)
	}
	return nil
}

// GetScheduledAction retrieves one action by ID.
func GetScheduledAction(db *sqlx.DB, id string) (*model.ScheduledAction, error) {
	var a model.ScheduledAction
	err := db.Get(&a, "SELECT * FROM scheduled_actions WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scheduled action %s: %w", id, err)
	}
	return &a, nil
}

// GetPendingUnlock finds the pending channel_unlock action for a channel.
func GetPendingUnlock(db *sqlx.DB, channelID string) (*model.ScheduledAction, error) {
	var a model.ScheduledAction
	query := "SELECT * FROM scheduled_actions WHERE kind = ? AND channel_id = ? AND status = ?"
	err := db.Get(&a, query, model.ActionChannelUnlock, channelID, model.StatusPending)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pending unlock for channel %s: %w", channelID, err)
	}
	return &a, nil
}
