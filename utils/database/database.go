package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// InitStore opens the bot's store and ensures every table exists.
// All timestamps are written in UTC so range comparisons stay correct.
func InitStore(dbPath string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to store: %w", err)
	}
	// A single connection serializes writers and keeps :memory: databases
	// from splitting across pool connections.
	db.SetMaxOpenConns(1)

	schema := `
    CREATE TABLE IF NOT EXISTS guild_settings (
        guild_id TEXT NOT NULL PRIMARY KEY,
        log_channel_id TEXT NOT NULL DEFAULT '',
        greeting_channel_id TEXT NOT NULL DEFAULT '',
        prefix TEXT NOT NULL DEFAULT '!'
    );

    CREATE TABLE IF NOT EXISTS warnings (
        warning_id INTEGER PRIMARY KEY AUTOINCREMENT,
        guild_id TEXT NOT NULL,
        user_id TEXT NOT NULL,
        moderator_id TEXT NOT NULL,
        reason TEXT NOT NULL,
        issued_at DATETIME NOT NULL
    );
    CREATE INDEX IF NOT EXISTS idx_warnings_guild_user ON warnings(guild_id, user_id);

    CREATE TABLE IF NOT EXISTS locked_channels (
        channel_id TEXT NOT NULL PRIMARY KEY,
        guild_id TEXT NOT NULL,
        locked_by TEXT NOT NULL,
        unlock_at DATETIME NOT NULL
    );

    CREATE TABLE IF NOT EXISTS scheduled_actions (
        id TEXT NOT NULL PRIMARY KEY,
        guild_id TEXT NOT NULL,
        kind TEXT NOT NULL,
        channel_id TEXT NOT NULL DEFAULT '',
        user_id TEXT NOT NULL DEFAULT '',
        message TEXT NOT NULL DEFAULT '',
        fire_at DATETIME NOT NULL,
        created_at DATETIME NOT NULL,
        status TEXT NOT NULL DEFAULT 'pending',
        note TEXT NOT NULL DEFAULT ''
    );
    CREATE INDEX IF NOT EXISTS idx_actions_status_fire_at ON scheduled_actions(status, fire_at);
    CREATE UNIQUE INDEX IF NOT EXISTS idx_actions_pending_unlock
        ON scheduled_actions(channel_id) WHERE kind = 'channel_unlock' AND status = 'pending';

    CREATE TABLE IF NOT EXISTS reaction_roles (
        message_id TEXT NOT NULL,
        guild_id TEXT NOT NULL,
        emoji TEXT NOT NULL,
        role_id TEXT NOT NULL,
        PRIMARY KEY (message_id, emoji)
    );`

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create store tables: %w", err)
	}

	return db, nil
}
