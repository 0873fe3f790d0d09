package main

import (
	"log"
	"os"

	"guardian-bot/bot"
	"guardian-bot/config"
	"guardian-bot/handlers"
	"guardian-bot/utils/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}
	if err := os.MkdirAll(cfg.DataDir, os.ModePerm); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	db, err := database.InitStore(cfg.DBPath)
	if err != nil {
		log.Fatalf("Error initializing store: %v", err)
	}

	settings, err := database.LoadAllGuildSettings(db)
	if err != nil {
		log.Fatalf("Error loading guild settings: %v", err)
	}
	cfg.GuildSettings = settings

	b, err := bot.New(cfg, db)
	if err != nil {
		log.Fatalf("Error creating bot: %v", err)
	}

	handlers.Register(b)

	defer b.Close()
	b.Run()
}
