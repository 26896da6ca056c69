package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
)

// AssignerLogDir specifies where assigner log files are stored.
const AssignerLogDir = "logs/assigner_logs"

func main() {
	if err := run(); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := &cli.Command{
		Name:  "assigner",
		Usage: "Assign moderators to moderation requests",
		Commands: []*cli.Command{
			requestCommand(),
			resolveCommand("approve", true),
			resolveCommand("reject", false),
			rotationCommand(),
			workersCommand(),
		},
	}

	return app.Run(ctx, os.Args)
}
