package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"spext/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)

	runner := NewRunner(RunnerOpts{Logger: logger})

	app := &cli.Command{
		Name:     "spext",
		Usage:    "Extract Spotify catalog data into a SQLite database",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	// interrupt aborts before the next network call, between batch
	// windows and pages
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
