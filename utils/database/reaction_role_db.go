package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"guardian-bot/model"
)

// AddReactionRole binds an emoji on a message to a role.
func AddReactionRole(db *sqlx.DB, rr model.ReactionRole) error {
	query := `INSERT INTO reaction_roles (message_id, guild_id, emoji, role_id)
              VALUES (:message_id, :guild_id, :emoji, :role_id)
              ON CONFLICT(message_id, emoji) DO UPDATE SET role_id = excluded.role_id`
	if _, err := db.NamedExec(query, rr); err != nil {
		return fmt.Errorf("failed to insert reaction role for message %s: %w", rr.MessageID, err)
	}
	return nil
}

// GetReactionRole looks up the role bound to an emoji on a message.
func GetReactionRole(db *sqlx.DB, messageID, emoji string) (*model.ReactionRole, error) {
	var rr model.ReactionRole
	query := "SELECT * FROM reaction_roles WHERE message_id = ? AND emoji = ?"
	err := db.Get(&rr, query, messageID, emoji)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reaction role for message %s: %w", messageID, err)
	}
	return &rr, nil
}

// DeleteReactionRolesForMessage removes every binding on a message.
func DeleteReactionRolesForMessage(db *sqlx.DB, messageID string) error {
	if _, err := db.Exec("DELETE FROM reaction_roles WHERE message_id = ?", messageID); err != nil {
		return fmt.Errorf("failed to delete reaction roles for message %s: %w", messageID, err)
	}
	return nil
}
