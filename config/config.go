package config

import (
	"log"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"guardian-bot/model"
)

// Load reads configuration from the environment. A .env file is honored
// when present; per-guild settings are loaded from the store separately.
func Load() (*model.Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: .env file not found, relying on environment variables")
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("DATA_DIR", "./data")
	v.SetDefault("DISABLE_RECOVERY", false)

	token := v.GetString("BOT_TOKEN")
	if token == "" {
		log.Fatal("Error: BOT_TOKEN environment variable not set")
	}

	dataDir := v.GetString("DATA_DIR")
	cfg := &model.Config{
		BotToken:        token,
		DataDir:         dataDir,
		DBPath:          filepath.Join(dataDir, "guardian.db"),
		DisableRecovery: v.GetBool("DISABLE_RECOVERY"),
		GuildSettings:   make(map[string]model.GuildSettings),
	}
	return cfg, nil
}
