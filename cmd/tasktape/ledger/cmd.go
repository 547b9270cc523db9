package ledger

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/andrebq/tasktape/auth"
	"github.com/andrebq/tasktape/internal/cmdflags"
	"github.com/andrebq/tasktape/ledger"
	"github.com/urfave/cli/v2"
)

func Cmd() *cli.Command {
	ledgerPath := "tasktape.db"
	return &cli.Command{
		Name:    "ledger",
		Aliases: []string{"book"},
		Usage:   "Commands to manage a ledger file without going through the API",
		Flags: []cli.Flag{
			cmdflags.Ledger(&ledgerPath),
		},
		Subcommands: []*cli.Command{
			initCmd(&ledgerPath),
			addUserCmd(&ledgerPath),
		},
	}
}

func initCmd(ledgerPath *string) *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Create the ledger file and its schema",
		Action: func(ctx *cli.Context) error {
			book, err := ledger.Open(ctx.Context, *ledgerPath)
			if err != nil {
				return err
			}
			return book.Close()
		},
	}
}

func addUserCmd(ledgerPath *string) *cli.Command {
	var username string
	bcryptCost := 0
	return &cli.Command{
		Name:  "adduser",
		Usage: "Register a new user in the ledger (password is read from stdin)",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "username",
				Aliases:     []string{"u", "user"},
				Usage:       "Name of the user to register",
				Destination: &username,
				Required:    true,
			},
			&cli.IntFlag{
				Name:        "bcrypt-cost",
				Usage:       "Work factor for password hashing (0 picks the bcrypt default)",
				Value:       bcryptCost,
				Destination: &bcryptCost,
			},
		},
		Action: func(ctx *cli.Context) error {
			sc := bufio.NewScanner(os.Stdin)
			if !sc.Scan() {
				return sc.Err()
			}
			password := strings.TrimSpace(sc.Text())
			if len(password) == 0 {
				return errors.New("missing password from stdin")
			}
			hasher, err := auth.NewHasher(bcryptCost)
			if err != nil {
				return err
			}
			hashed, err := hasher.Hash(password)
			if err != nil {
				return err
			}
			book, err := ledger.Open(ctx.Context, *ledgerPath)
			if err != nil {
				return err
			}
			defer book.Close()
			id, err := book.InsertUser(ctx.Context, username, hashed)
			if err != nil {
				return err
			}
			fmt.Fprintf(ctx.App.Writer, "user %v registered with id %v\n", username, id)
			return nil
		},
	}
}
