package main

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/desertthunder/mixtape/internal/services"
	"github.com/desertthunder/mixtape/internal/shared"
	"github.com/urfave/cli/v3"
)

const configPath = "config.toml"

func main() {
	logger := shared.NewLogger(nil)

	config, err := shared.LoadConfig(configPath)
	switch {
	case errors.Is(err, shared.ErrMissingConfig):
		config = shared.DefaultConfig()
		config.ApplyEnv()
	case err != nil:
		logger.Fatal("invalid configuration", "path", configPath, "error", err)
	}
	shared.SetLogLevel(logger, shared.ParseLogLevel(config.Log.Level))

	api := services.NewAPIService(
		config.API.BaseURL,
		&http.Client{Timeout: config.API.RequestTimeout()},
		services.WithGenerationLimit(config.API.GeneratePerHour),
		services.WithLogger(logger),
	)

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		API:        api,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "mixtape",
		Usage:    "Generate Spotify playlists from a playlist you love or a few words",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	err = app.Run(context.Background(), os.Args)
	if closeErr := runner.Close(); closeErr != nil {
		logger.Warn("failed to close history database", "error", closeErr)
	}

	if err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
