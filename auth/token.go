package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// DefaultTokenTTL is how long an issued token stays valid unless
	// the codec is configured otherwise.
	DefaultTokenTTL = time.Hour

	minSecretLen = 32

	bearerPrefix = "Bearer "
)

type (
	// TokenCodec issues and verifies the signed tokens handed out at
	// login. Both sides share one symmetric secret, set once at
	// construction and immutable afterwards, so the codec is safe for
	// concurrent use.
	TokenCodec struct {
		secret []byte
		ttl    time.Duration
	}

	subjectClaim struct {
		UserID int64 `json:"user_id"`
	}
)

// NewTokenCodec builds a codec signing with the given secret. Short
// secrets are refused outright instead of silently weakening every
// token issued by the process.
func NewTokenCodec(secret []byte, ttl time.Duration) (*TokenCodec, error) {
	if len(secret) < minSecretLen {
		return nil, fmt.Errorf("auth: signing secret must have at least %v bytes", minSecretLen)
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenCodec{secret: secret, ttl: ttl}, nil
}

// Issue mints an HS256 token whose subject is the JSON encoded user id
// and whose expiry sits one TTL from now.
func (c *TokenCodec) Issue(userID int64) (string, error) {
	sub, err := json.Marshal(subjectClaim{UserID: userID})
	if err != nil {
		return "", fmt.Errorf("unable to encode token subject, cause %w", err)
	}
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   string(sub),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
	})
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("unable to sign token, cause %w", err)
	}
	return signed, nil
}

// Verify checks signature, expiry and subject of raw, tolerating (and
// stripping) a leading "Bearer " prefix. It fails closed: any problem
// comes back as TokenExpired or TokenInvalid, the distinction exists
// only so callers can log the two cases apart. TokenExpired still
// means the request must be denied.
func (c *TokenCodec) Verify(raw string) (int64, error) {
	raw = strings.TrimPrefix(raw, bearerPrefix)
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return 0, TokenExpired{}
	case err != nil:
		return 0, TokenInvalid{cause: err}
	}
	var sub subjectClaim
	if err := json.Unmarshal([]byte(claims.Subject), &sub); err != nil {
		return 0, TokenInvalid{cause: fmt.Errorf("unable to decode token subject, cause %w", err)}
	}
	if sub.UserID <= 0 {
		return 0, TokenInvalid{cause: errors.New("token subject carries no user id")}
	}
	return sub.UserID, nil
}
