package main

import (
	"context"
	"fmt"
	"time"

	"linkup/internal/app"
	"linkup/internal/config"
	"linkup/internal/database/seeder"
	"linkup/internal/logger"
	"linkup/internal/pkg/jwt"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	lg, logCloser := logger.New(cfg.Log, cfg.App.AppName+"-seeder")
	defer func() { _ = logCloser.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	store, err := app.OpenStore(ctx, cfg.Database)
	if err != nil {
		lg.Fatal().Err(err).Msg("failed to open store")
	}
	defer func() { _ = store.Conn.Close() }()

	demo := &seeder.DemoProfiles{}
	r := seeder.Runner{Seeders: []seeder.Seeder{demo}}
	if err := r.Run(ctx, store.Users); err != nil {
		lg.Fatal().Err(err).Msg("seeding failed")
	}

	tokens := jwt.NewHMACService(cfg.JWT.AccessSecret, cfg.JWT.AccessExpiresIn)
	for _, p := range demo.Created {
		tok, err := tokens.GenerateAccessToken(p.ID)
		if err != nil {
			lg.Error().Err(err).Str("username", p.Username).Msg("token generation failed")
			continue
		}
		fmt.Printf("%s\t%s\t%s\n", p.Username, p.ID, tok)
	}
	lg.Info().Int("created", len(demo.Created)).Msg("seeding done")
}
