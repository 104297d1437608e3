// Command adduser registers an account directly against the database,
// optionally seeding its budget.
//
//	go run ./cmd/adduser -config config.yaml -budget 500 alice secret
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"budget-tracker/internal/config"
	"budget-tracker/internal/database"
	"budget-tracker/internal/ledger"
	"budget-tracker/internal/logger"
	"budget-tracker/internal/repository"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	budget := flag.Float64("budget", 0, "initial budget")
	flag.Parse()

	if flag.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "usage: adduser [-config file] [-budget n] <username> <password>")
		os.Exit(2)
	}
	username, password := flag.Arg(0), flag.Arg(1)

	if err := run(*configPath, username, password, *budget); err != nil {
		fmt.Fprintf(os.Stderr, "adduser: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, username, password string, budget float64) error {
	cfg, err := config.Read(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(os.Stderr, "adduser", cfg.Log.Level)

	db, err := database.Init(cfg.Database)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	svc, err := ledger.NewService(repository.NewGormStore(db), cfg.Security.BcryptCost, log)
	if err != nil {
		return fmt.Errorf("init ledger: %w", err)
	}

	ctx := context.Background()
	id, err := svc.Register(ctx, username, password)
	if err != nil {
		return fmt.Errorf("register %s: %w", username, err)
	}

	if budget != 0 {
		if err := svc.SetBudget(ctx, id, budget); err != nil {
			return fmt.Errorf("set budget for user %d: %w", id, err)
		}
	}

	log.Info("user created", "user_id", id)
	fmt.Printf("created user %s (id=%d)\n", username, id)
	return nil
}
