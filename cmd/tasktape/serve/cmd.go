package serve

import (
	"os"
	"time"

	"github.com/andrebq/tasktape/api"
	"github.com/andrebq/tasktape/auth"
	authapi "github.com/andrebq/tasktape/auth/api"
	"github.com/andrebq/tasktape/internal/cmdflags"
	"github.com/andrebq/tasktape/internal/httpserver"
	"github.com/andrebq/tasktape/ledger"
	"github.com/urfave/cli/v2"
)

func Cmd() *cli.Command {
	bindAddr := "localhost:7070"
	ledgerPath := "tasktape.db"
	secretEnvVarName := ""
	tokenTTL := auth.DefaultTokenTTL
	bcryptCost := 0
	throttleWindow := 15 * time.Minute
	throttleMax := 5
	readTimeout := time.Minute
	writeTimeout := time.Minute
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the tasktape API on top of the given ledger",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "bind",
				Usage:       "Address to bind and export the api",
				Value:       bindAddr,
				Destination: &bindAddr,
			},
			cmdflags.Ledger(&ledgerPath),
			cmdflags.SecretEnvVar(&secretEnvVarName),
			&cli.DurationFlag{
				Name:        "token-ttl",
				Usage:       "How long issued tokens stay valid",
				Value:       tokenTTL,
				Destination: &tokenTTL,
			},
			&cli.IntFlag{
				Name:        "bcrypt-cost",
				Usage:       "Work factor for password hashing (0 picks the bcrypt default)",
				Value:       bcryptCost,
				Destination: &bcryptCost,
			},
			&cli.DurationFlag{
				Name:        "throttle-window",
				Usage:       "Window used to count failed logins per client",
				Value:       throttleWindow,
				Destination: &throttleWindow,
			},
			&cli.IntFlag{
				Name:        "throttle-max-failures",
				Usage:       "Failed logins per window before a client gets throttled",
				Value:       throttleMax,
				Destination: &throttleMax,
			},
			&cli.DurationFlag{
				Name:        "read-timeout",
				Usage:       "How long the server waits for a complete request",
				Value:       readTimeout,
				Destination: &readTimeout,
			},
			&cli.DurationFlag{
				Name:        "write-timeout",
				Usage:       "How long the server takes to write a complete response",
				Value:       writeTimeout,
				Destination: &writeTimeout,
			},
		},
		Action: func(ctx *cli.Context) error {
			secret, err := auth.SecretFromEnv(secretEnvVarName, os.Getenv, os.Setenv)
			if err != nil {
				return err
			}
			tokens, err := auth.NewTokenCodec(secret, tokenTTL)
			if err != nil {
				return err
			}
			hasher, err := auth.NewHasher(bcryptCost)
			if err != nil {
				return err
			}
			throttle, err := auth.NewLoginThrottle(throttleWindow, throttleMax)
			if err != nil {
				return err
			}
			book, err := ledger.Open(ctx.Context, ledgerPath)
			if err != nil {
				return err
			}
			defer book.Close()
			realm := authapi.NewRealm(book, hasher, tokens, throttle)
			handler := httpserver.AccessLog(api.AsHandler(book, realm))
			return httpserver.Serve(ctx.Context, bindAddr, handler, httpserver.Timeouts{
				Read:  readTimeout,
				Write: writeTimeout,
			})
		},
	}
}
