package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/andrebq/tasktape/cmd/tasktape/ledger"
	"github.com/andrebq/tasktape/cmd/tasktape/serve"
	"github.com/andrebq/tasktape/internal/logutil"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "tasktape",
		Usage: "Keep your tasks in a ledger behind a tiny authenticated API!",
		Commands: []*cli.Command{
			serve.Cmd(),
			ledger.Cmd(),
		},
	}
	log := logutil.NewRoot()
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	err := app.RunContext(logutil.WithLogger(ctx, log), os.Args)
	if err != nil {
		log.Error().Err(err).Msg("Application failed")
	}
}
