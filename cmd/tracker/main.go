package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Rionpgup/student-tracker/internal/auth"
	"github.com/Rionpgup/student-tracker/internal/config"
	"github.com/Rionpgup/student-tracker/internal/logger"
	"github.com/Rionpgup/student-tracker/internal/storage"
	"github.com/Rionpgup/student-tracker/internal/student"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backend, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Str("backend", cfg.Storage.Backend).Msg("Failed to open storage")
		return 1
	}
	defer func() {
		if err := backend.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close storage")
		}
	}()

	authSvc := auth.NewService(cfg, backend.Credentials())
	if err := authSvc.EnsureAdmin(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to initialise credentials")
		return 1
	}

	cli := newCommandLine(student.NewService(cfg, backend.Students()), authSvc)
	if err := cli.run(ctx, os.Args); err != nil {
		if !errors.Is(err, errHelp) {
			fmt.Fprintf(os.Stderr, "error: %s\n", err)
		}
		return 1
	}
	return 0
}
