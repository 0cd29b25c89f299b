package handler

import (
	"net/http"
	"villa/config"
	"villa/di"
	"villa/shared/failure"
	"villa/shared/logger"
	"villa/transport/http/response"

	"github.com/rs/zerolog/log"
)

func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	handler, err := di.InitializeService()
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize service")

		response.WithError(w, failure.InternalError(err))

		return
	}

	handler.ServeHTTP(w, r)
}
