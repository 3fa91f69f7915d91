package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"wheelwright/internal/config"
	"wheelwright/internal/history"
	"wheelwright/internal/logging"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		log.Fatalf("prepare directories: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	store, err := history.Open(cfg)
	if err != nil {
		logger.Error("open build history", logging.Error(err))
		return
	}
	defer store.Close()

	d, err := newDaemon(cfg, store, logger)
	if err != nil {
		logger.Error("create daemon", logging.Error(err))
		return
	}
	defer d.Close()

	if err := d.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("daemon stopped", logging.Error(err))
		return
	}
	logger.Info("wheelwrightd shutting down")
}
