package main

import (
	"os"
	"villa/config"
	"villa/helper"
	"villa/shared/logger"

	"github.com/rs/zerolog/log"
)

const (
	argLength = 2
)

func main() {
	logger.InitLogger()

	if len(os.Args) < argLength {
		log.Fatal().Msg("Migration action (up, down, step-up, drop, status) is required")
	}

	cfg := config.Get()

	logger.SetLogLevel(cfg)

	runners := map[string]func(*config.Config) error{
		helper.ActionUp:     helper.Up,
		helper.ActionDown:   helper.Down,
		helper.ActionStepUp: helper.StepUp,
		helper.ActionDrop:   helper.Drop,
		helper.ActionStatus: helper.Status,
	}

	run, ok := runners[os.Args[1]]
	if !ok {
		log.Fatal().Str("action", os.Args[1]).Msg("Invalid action. Use 'up', 'down', 'step-up', 'drop' or 'status'")
	}

	if err := run(cfg); err != nil {
		log.Fatal().Err(err).Msg("Migration failed")
	}
}
