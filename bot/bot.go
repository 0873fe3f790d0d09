package bot

import (
	"sync"
	"sync/atomic"

	"github.com/bwmarrin/discordgo"
	"github.com/jmoiron/sqlx"

	"guardian-bot/detectors"
	"guardian-bot/gateway"
	"guardian-bot/ledger"
	"guardian-bot/model"
	"guardian-bot/scheduler"
	"guardian-bot/tracker"
	"guardian-bot/utils/database"
)

// Bot wires the gateway, the detectors, the ledger and the scheduler
// together and owns the per-guild settings cache.
type Bot struct {
	Session   *discordgo.Session
	DB        *sqlx.DB
	Gateway   gateway.Gateway
	Detectors *detectors.Engine
	Ledger    *ledger.Ledger
	Scheduler *scheduler.Scheduler

	config     atomic.Value // *model.Config
	settingsMu sync.Mutex   // serializes read-modify-write of the config cache
}

func New(cfg *model.Config, db *sqlx.DB) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		return nil, err
	}
	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions |
		discordgo.IntentsDirectMessages |
		discordgo.IntentMessageContent

	gw := gateway.NewDiscord(dg)
	b := &Bot{
		Session:   dg,
		DB:        db,
		Gateway:   gw,
		Detectors: detectors.New(tracker.New()),
		Ledger:    ledger.New(db, gw),
		Scheduler: scheduler.New(db),
	}
	b.config.Store(cfg)
	b.registerDispatchers()
	return b, nil
}

func (b *Bot) GetConfig() *model.Config {
	return b.config.Load().(*model.Config)
}

// GuildSettings resolves one guild's settings from the cache.
func (b *Bot) GuildSettings(guildID string) model.GuildSettings {
	return b.GetConfig().SettingsFor(guildID)
}

// SetGuildSettings persists new settings for a guild and, only after the
// store accepted them, swaps the cached config.
func (b *Bot) SetGuildSettings(gs model.GuildSettings) error {
	if err := database.UpsertGuildSettings(b.DB, gs); err != nil {
		return err
	}
	b.settingsMu.Lock()
	defer b.settingsMu.Unlock()
	b.config.Store(b.GetConfig().WithGuildSettings(gs))
	return nil
}
