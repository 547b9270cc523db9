package cmdflags

import (
	"github.com/andrebq/tasktape/auth"
	"github.com/urfave/cli/v2"
)

func Ledger(out *string) cli.Flag {
	return &cli.StringFlag{
		Name:        "ledger",
		Aliases:     []string{"l", "book", "b"},
		Usage:       "Path to the ledger file",
		Destination: out,
		Value:       *out,
	}
}

func SecretEnvVar(out *string) cli.Flag {
	if len(*out) == 0 {
		*out = auth.SecretEnvVar
	}
	return &cli.StringFlag{
		Name:        "secret-envvar-name",
		Usage:       "Name of the environment variable that holds the token signing secret. The secret itself should not be passed as an argument",
		Value:       *out,
		Destination: out,
	}
}
