package auth

import (
	"fmt"
	"os"
)

const (
	// SecretEnvVar is the default environment variable holding the
	// token signing secret.
	SecretEnvVar = "TASKTAPE_TOKEN_SECRET"
)

// SecretFromEnv reads the signing secret from the given environment
// variable and blanks the variable right after, so child processes and
// debug dumps of the environment do not leak it. Pass nil for getfn or
// setfn to use os.Getenv and os.Setenv.
func SecretFromEnv(varname string, getfn func(string) string, setfn func(string, string) error) ([]byte, error) {
	if getfn == nil {
		getfn = os.Getenv
	}
	if setfn == nil {
		setfn = os.Setenv
	}
	val := getfn(varname)
	setfn(varname, "")
	if len(val) < minSecretLen {
		return nil, fmt.Errorf("auth: secret from %v is unset or shorter than %v bytes", varname, minSecretLen)
	}
	return []byte(val), nil
}
