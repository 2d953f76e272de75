package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/atulbhartiproff/ai-video-summariser/internal/config"
	"github.com/atulbhartiproff/ai-video-summariser/internal/logger"
	"github.com/atulbhartiproff/ai-video-summariser/internal/server"
)

func main() {
	ctx := context.Background()

	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level)
	log.Info(ctx, "========================================")
	log.Info(ctx, "AI Video Summarizer Backend")
	log.Info(ctx, "========================================")
	log.Info(ctx, "Gemini API key loaded: %s (length: %d)", logger.MaskSecret(cfg.Gemini.APIKey), len(cfg.Gemini.APIKey))
	log.Info(ctx, "Using Gemini model: %s", cfg.Gemini.Model)
	log.Info(ctx, "Max file size: %dMB", cfg.Upload.MaxFileSizeMB)
	log.Info(ctx, "Listening on port %s", cfg.Server.Port)

	srv := server.NewServer(cfg, log)
	if err := srv.Run(); err != nil {
		log.Error(ctx, "Server stopped: %v", err)
		os.Exit(1)
	}
}
