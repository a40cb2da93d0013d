package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"linkup/internal/app"
	"linkup/internal/config"
	"linkup/internal/logger"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	lg, logCloser := logger.New(cfg.Log, cfg.App.AppName)
	defer func() { _ = logCloser.Close() }()
	log.Logger = lg

	bootstrap, cleanup, err := app.Bootstrap(cfg, lg)
	if err != nil {
		lg.Fatal().Err(err).Msg("failed to bootstrap app")
	}
	defer func() {
		if err := cleanup(); err != nil {
			lg.Error().Err(err).Msg("cleanup error")
		}
	}()

	addr, err := app.ListenAddr(cfg.App.HTTPPort)
	if err != nil {
		lg.Fatal().Err(err).Msg("invalid HTTP port")
	}

	errCh := make(chan error, 1)
	go func() {
		lg.Info().Str("addr", addr).Str("env", cfg.App.Environment).Msg("http server starting")
		errCh <- bootstrap.Fiber.Listen(addr)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			lg.Error().Err(err).Msg("server error")
		}
	case <-sigCh:
		lg.Info().Msg("shutting down server")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := bootstrap.Fiber.ShutdownWithContext(ctx); err != nil {
			lg.Error().Err(err).Msg("shutdown error")
		}
	}
}
