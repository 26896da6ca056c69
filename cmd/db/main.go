package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/robalyx/assigner/cmd/db/commands"
	"github.com/robalyx/assigner/internal/database"
	"github.com/robalyx/assigner/internal/database/migrations"
	"github.com/robalyx/assigner/internal/setup/config"
	"github.com/uptrace/bun/migrate"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	deps, err := setupDependencies(context.Background())
	if err != nil {
		return fmt.Errorf("failed to setup dependencies: %w", err)
	}
	defer deps.DB.Close()

	var subcommands []*cli.Command
	subcommands = append(subcommands, commands.MigrationCommands(deps)...)
	subcommands = append(subcommands, commands.ModeratorCommands(deps)...)

	app := &cli.Command{
		Name:     "db",
		Usage:    "Database management tool",
		Commands: subcommands,
	}

	return app.Run(context.Background(), os.Args)
}

// setupDependencies initializes the database connection and migrator.
func setupDependencies(ctx context.Context) (*commands.CLIDependencies, error) {
	cfg, _, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	db, err := database.NewConnection(ctx, &cfg.Common.PostgreSQL, logger, false)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &commands.CLIDependencies{
		DB:       db,
		Migrator: migrate.NewMigrator(db.DB(), migrations.Migrations),
		Logger:   logger,
	}, nil
}
