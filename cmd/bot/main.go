package main

import (
	"context"
	"os"

	"go.uber.org/zap"

	"github.com/ykvlv/homework-bot/internal/app"
	"github.com/ykvlv/homework-bot/internal/config"
	"github.com/ykvlv/homework-bot/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// No logger yet; exit immediately.
		_, _ = os.Stderr.WriteString("config error: " + err.Error() + "\n")
		os.Exit(2)
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		_, _ = os.Stderr.WriteString("logger init error: " + err.Error() + "\n")
		os.Exit(2)
	}
	// Ignore sync error (common on stderr).
	defer func() { _ = log.Sync() }()

	if !cfg.CheckTokens() {
		log.Fatal("required environment variables are missing", zap.Strings("missing", cfg.Missing()))
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	application, err := app.New(cfg, log)
	if err != nil {
		log.Fatal("app init failed", zap.Error(err))
	}

	if err := application.Run(context.Background()); err != nil {
		log.Fatal("app run failed", zap.Error(err))
	}
}
