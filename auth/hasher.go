package auth

import (
	"crypto/rand"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

type (
	// PasswordHasher is what the login and register flows actually
	// depend on, so tests can swap the real bcrypt hasher for a cheap
	// (or counting) one.
	PasswordHasher interface {
		Hash(password string) (string, error)
		Verify(password, hashed string) (bool, error)
		DummyHash() string
	}

	// Hasher is the bcrypt-backed implementation. The zero value is
	// not usable, always go through NewHasher so the dummy hash gets
	// computed.
	Hasher struct {
		cost  int
		dummy string
	}
)

// NewHasher returns a Hasher with the given bcrypt cost (pass 0 for
// the bcrypt default). It also computes the dummy hash: 32 random
// bytes pushed through the same bcrypt path, kept for the lifetime of
// the process and used whenever a login lookup misses, so both login
// paths pay for exactly one verification.
func NewHasher(cost int) (*Hasher, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	var seed [32]byte
	if _, err := rand.Read(seed[:]); err != nil {
		return nil, fmt.Errorf("unable to seed the dummy hash, cause %w", err)
	}
	dummy, err := bcrypt.GenerateFromPassword(seed[:], cost)
	if err != nil {
		return nil, fmt.Errorf("unable to compute the dummy hash, cause %w", err)
	}
	return &Hasher{cost: cost, dummy: string(dummy)}, nil
}

// Hash turns a plaintext password into a salted, self-describing hash
// string. bcrypt generates a fresh salt per call and embeds it (plus
// the cost) in the output, so verification needs nothing besides the
// hash itself.
func (h *Hasher) Hash(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", InvalidPassword{}
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("unable to hash password, cause %w", err)
	}
	return string(hashed), nil
}

// Verify checks the candidate password against a stored hash, which
// may just as well be the dummy hash. A mismatch is not an error.
func (h *Hasher) Verify(password, hashed string) (bool, error) {
	if strings.TrimSpace(password) == "" {
		return false, InvalidPassword{}
	}
	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("unable to verify password, cause %w", err)
	}
}

// DummyHash exposes the never-matching hash computed at construction.
func (h *Hasher) DummyHash() string {
	return h.dummy
}
