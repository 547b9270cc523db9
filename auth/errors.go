package auth

import "fmt"

type (
	// InvalidPassword rejects password material that trims down to an
	// empty string, before any hashing happens.
	InvalidPassword struct{}

	// TokenExpired marks a well-formed, correctly signed token whose
	// expiry is in the past.
	TokenExpired struct{}

	// TokenInvalid marks everything else that can go wrong with a
	// token: garbage input, bad signature, unparseable subject.
	TokenInvalid struct {
		cause error
	}
)

func (InvalidPassword) Error() string {
	return "password must be a non-empty string"
}

func (TokenExpired) Error() string {
	return "token expired"
}

func (t TokenInvalid) Error() string {
	return fmt.Sprintf("invalid token, cause %v", t.cause)
}

func (t TokenInvalid) Unwrap() error {
	return t.cause
}
