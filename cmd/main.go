// Package main is the entry point for the conteo-station application.
package main

import (
	"github.com/rs/zerolog/log"

	"conteo-station/config"
	"conteo-station/internal/app"
)

func main() {
	cfg := config.Load()

	components, err := app.InitializeApp(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Initialization error")
	}

	server := app.NewServer(components, cfg.Server.Port)
	if err := server.Run(); err != nil {
		log.Fatal().Err(err).Msg("Server error")
	}
}
