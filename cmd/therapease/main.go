package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/Aun-shahid/TherapEase/config"
	"github.com/Aun-shahid/TherapEase/internal/app"
	"github.com/Aun-shahid/TherapEase/internal/cli"
	"github.com/Aun-shahid/TherapEase/internal/output"
)

func main() {
	if err := run(); err != nil {
		formatter := output.NewFormatter(os.Stderr)
		formatter.Error(err.Error())
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load() // loads .env

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	application, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("initializing app: %w", err)
	}

	deps := &cli.Dependencies{
		App:    application,
		Config: cfg,
	}

	return cli.NewRootCmd(deps).Execute()
}
