package main

import (
	"villa/config"
	"villa/di"
	"villa/helper"
	"villa/shared/logger"

	"github.com/rs/zerolog/log"
)

// @title Villa Pura Booking API
// @version 1.0
// @description Availability, pricing and Stripe payments for a single holiday villa.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to apply database migrations")
		}
	}

	http, err := di.InitializeService()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize service")
	}

	http.Serve()
}
