package main

import (
	"context"
	"log"
	"os"

	"github.com/yukikurage/daily-planner-api/internal/app"
	"github.com/yukikurage/daily-planner-api/internal/config"
	"github.com/yukikurage/daily-planner-api/internal/logging"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := logging.NewJSON(os.Stdout, cfg.LogLevel)

	application, err := app.New(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}

	if err := application.Run(context.Background()); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
