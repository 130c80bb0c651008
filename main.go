package main

import (
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/example/reviewbox/internal/config"
	"github.com/example/reviewbox/internal/reminder"
	"github.com/example/reviewbox/internal/srs"
	"github.com/example/reviewbox/internal/storage"
)

func setupLogger(env string) *zap.Logger {
	var logger *zap.Logger
	if env == "development" {
		logger, _ = zap.NewDevelopment()
	} else {
		logger, _ = zap.NewProduction()
	}
	return logger
}

func main() {
	// Optional .env file for local overrides
	_ = godotenv.Load()

	cfg, err := config.Init()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := setupLogger(cfg.Env)
	defer logger.Sync()

	backend, err := storage.Open(cfg.Storage, cfg.DataDir)
	if err != nil {
		logger.Fatal("failed to open storage", zap.Error(err))
	}
	if closer, ok := backend.(io.Closer); ok {
		defer closer.Close()
	}

	confirmer := srs.StdinConfirmer{In: os.Stdin, Out: os.Stdout}
	sched := srs.New(backend, confirmer, srs.SystemClock(), logger)

	job := reminder.New(sched, cfg.Reminder, srs.SystemClock(), logger)
	job.Start()
	defer job.Stop()

	stats, err := sched.GetStatistics("")
	if err != nil {
		logger.Fatal("failed to read store", zap.Error(err))
	}
	logger.Info("reviewbox started",
		zap.Int("items", stats.Total),
		zap.Int("due_today", stats.DueToday))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
