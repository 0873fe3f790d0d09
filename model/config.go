package model

// GuildSettings holds the per-guild configuration resolved by the coordinator.
// Persisted in the guild_settings table; cached inside Config between updates.
type GuildSettings struct {
	GuildID           string `db:"guild_id"`
	LogChannelID      string `db:"log_channel_id"`
	GreetingChannelID string `db:"greeting_channel_id"`
	Prefix            string `db:"prefix"`
}

// DefaultPrefix is used for guilds that never configured one.
const DefaultPrefix = "!"

// Config is the application configuration plus the per-guild settings cache.
type Config struct {
	BotToken        string
	DataDir         string
	DBPath          string
	DisableRecovery bool
	GuildSettings   map[string]GuildSettings
}

// SettingsFor returns the settings for a guild, falling back to defaults for
// guilds that have never been configured.
func (c *Config) SettingsFor(guildID string) GuildSettings {
	if gs, ok := c.GuildSettings[guildID]; ok {
		if gs.Prefix == "" {
			gs.Prefix = DefaultPrefix
		}
		return gs
	}
	return GuildSettings{GuildID: guildID, Prefix: DefaultPrefix}
}

// WithGuildSettings returns a copy of the config with one guild's settings
// replaced. The receiver is never mutated so it can live in an atomic.Value.
func (c *Config) WithGuildSettings(gs GuildSettings) *Config {
	next := *c
	next.GuildSettings = make(map[string]GuildSettings, len(c.GuildSettings)+1)
	for k, v := range c.GuildSettings {
		next.GuildSettings[k] = v
	}
	next.GuildSettings[gs.GuildID] = gs
	return &next
}
