package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/inkline/inkline/pkg/inkline"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cmd, err := inkline.ParseCommand(os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("bad arguments")
	}

	app, err := inkline.New(inkline.ConfigFromEnv(), log)
	if err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Execute(ctx, app); err != nil {
		log.Fatal().Err(err).Str("command", cmd.Name()).Msg("command failed")
	}
}
