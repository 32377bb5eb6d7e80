package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"xpslots/cmd"
	"xpslots/database"

	log "github.com/sirupsen/logrus"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "migrate":
			if err := handleMigrationCommand(os.Args[2:]); err != nil {
				log.Fatalf("Migration error: %v", err)
			}
			return
		case "odds":
			trials := cmd.DefaultOddsTrials
			if len(os.Args) > 2 {
				parsed, err := strconv.Atoi(os.Args[2])
				if err != nil {
					log.Fatalf("invalid trials value: %v", err)
				}
				trials = parsed
			}
			if err := cmd.AnalyzeOdds(os.Stdout, trials); err != nil {
				log.Fatalf("Odds error: %v", err)
			}
			return
		case "reset-ledger":
			if len(os.Args) != 3 {
				log.Fatal("usage: xpslots reset-ledger <identity>")
			}
			if err := cmd.ResetLedger(context.Background(), os.Args[2]); err != nil {
				log.Fatalf("Reset error: %v", err)
			}
			return
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Run(ctx); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func handleMigrationCommand(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: xpslots migrate [up|down|status] [args...]")
	}

	switch args[0] {
	case "up":
		return database.MigrateUp()
	case "down":
		steps := "1"
		if len(args) > 1 {
			steps = args[1]
		}
		return database.MigrateDown(steps)
	case "status":
		return database.MigrateStatus()
	default:
		return fmt.Errorf("unknown migration command: %s", args[0])
	}
}
