package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"guardian-bot/model"
)

// LoadAllGuildSettings reads every guild's settings row into a map for the
// config cache.
func LoadAllGuildSettings(db *sqlx.DB) (map[string]model.GuildSettings, error) {
	var rows []model.GuildSettings
	if err := db.Select(&rows, "SELECT * FROM guild_settings"); err != nil {
		return nil, fmt.Errorf("failed to load guild settings: %w", err)
	}
	settings := make(map[string]model.GuildSettings, len(rows))
	for _, gs := range rows {
		settings[gs.GuildID] = gs
	}
	return settings, nil
}

// GetGuildSettings retrieves one guild's settings row.
func GetGuildSettings(db *sqlx.DB, guildID string) (*model.GuildSettings, error) {
	var gs model.GuildSettings
	err := db.Get(&gs, "SELECT * FROM guild_settings WHERE guild_id = ?", guildID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settings for guild %s: %w", guildID, err)
	}
	return &gs, nil
}

// UpsertGuildSettings writes a guild's settings row, replacing any existing one.
func UpsertGuildSettings(db *sqlx.DB, gs model.GuildSettings) error {
	query := `INSERT INTO guild_settings (guild_id, log_channel_id, greeting_channel_id, prefix)
              VALUES (:guild_id, :log_channel_id, :greeting_channel_id, :prefix)
              ON CONFLICT(guild_id) DO UPDATE SET
                  log_channel_id = excluded.log_channel_id,
                  greeting_channel_id = excluded.greeting_channel_id,
                  prefix = excluded.prefix`
	if _, err := db.NamedExec(query, gs); err != nil {
		return fmt.Errorf("failed to upsert settings for guild %s: %w", gs.GuildID, err)
	}
	return nil
}
