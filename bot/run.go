package bot

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
)

// Run recovers persisted state, opens the gateway connection and blocks
// until a termination signal. Recovery happens before the gateway starts
// delivering events, so past-due actions fire before anything new is
// processed.
func (b *Bot) Run() {
	// Startup sweep; issuance and reads also purge lazily, this just keeps
	// the table from growing on idle guilds.
	if err := b.Ledger.PurgeExpired(); err != nil {
		log.Printf("Failed to purge expired warnings at startup: %v", err)
	}

	if b.GetConfig().DisableRecovery {
		log.Println("Scheduled-action recovery is disabled by environment variable.")
	} else {
		if err := b.Scheduler.Recover(); err != nil {
			log.Fatalf("Error recovering scheduled actions: %v", err)
		}
	}
	b.Scheduler.Start()

	if err := b.Session.Open(); err != nil {
		log.Fatalf("Error opening connection: %v", err)
	}

	fmt.Println("Bot is now running. Press CTRL-C to exit.")
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc
}

// Close shuts the bot down gracefully.
func (b *Bot) Close() {
	log.Println("Gracefully shutting down.")
	b.Scheduler.Stop()
	if err := b.Session.Close(); err != nil {
		log.Printf("Error closing session: %v", err)
	}
	if err := b.DB.Close(); err != nil {
		log.Printf("Error closing store: %v", err)
	}
}
