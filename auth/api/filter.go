package api

import (
	"errors"
	"net/http"
	"regexp"

	"github.com/andrebq/tasktape/auth"
	"github.com/andrebq/tasktape/internal/logutil"
	"github.com/andrebq/tasktape/ledger"
)

type (
	// Realm gates access to anything that requires an authenticated
	// user and owns the register/login endpoints that hand tokens out
	// in the first place.
	Realm struct {
		book     *ledger.Ledger
		hasher   auth.PasswordHasher
		tokens   *auth.TokenCodec
		throttle *auth.LoginThrottle
	}
)

var (
	bearerTokenRE = regexp.MustCompile(`^Bearer ([^\s]+)$`)

	// errAccessDenied covers every rejection the client caused:
	// missing token, invalid token, subject gone from the ledger.
	errAccessDenied = errors.New("access denied")
)

// NewRealm wires the gate. throttle may be nil to disable login
// throttling (tests mostly).
func NewRealm(book *ledger.Ledger, hasher auth.PasswordHasher, tokens *auth.TokenCodec, throttle *auth.LoginThrottle) *Realm {
	return &Realm{
		book:     book,
		hasher:   hasher,
		tokens:   tokens,
		throttle: throttle,
	}
}

// Protect wraps sensitive so it only runs for requests carrying a
// valid bearer token whose subject still exists in the ledger. The
// user id travels to the handler via the request context, see
// auth.UserID. Every client-caused rejection is the same opaque 401,
// the reasons only show up in the server logs. A ledger that cannot
// answer is a server fault and reported as one, never as a 401.
func (s *Realm) Protect(sensitive http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := s.checkToken(r)
		switch {
		case errors.Is(err, errAccessDenied):
			http.Error(w, "Invalid credentials", http.StatusUnauthorized)
			return
		case err != nil:
			http.Error(w, "unable to authenticate request", http.StatusInternalServerError)
			return
		}
		sensitive.ServeHTTP(w, r.WithContext(auth.WithUserID(r.Context(), userID)))
	})
}

func (s *Realm) checkToken(r *http.Request) (int64, error) {
	ctx := r.Context()
	log := logutil.GetOrDefault(ctx)
	hdrVal := r.Header.Get("Authorization")
	groups := bearerTokenRE.FindStringSubmatch(hdrVal)
	if len(groups) == 0 {
		log.Debug().Msg("missing bearer token")
		return 0, errAccessDenied
	}
	userID, err := s.tokens.Verify(groups[1])
	if err != nil {
		// never log the token itself, only why it was refused
		var expired auth.TokenExpired
		if errors.As(err, &expired) {
			log.Debug().Msg("expired token")
		} else {
			log.Debug().Err(err).Msg("invalid token")
		}
		return 0, errAccessDenied
	}
	_, err = s.book.UserByID(ctx, userID)
	if err != nil {
		var notFound ledger.UserNotFound
		if errors.As(err, &notFound) {
			log.Debug().Int64("user.id", userID).Msg("token subject no longer exists")
			return 0, errAccessDenied
		}
		log.Error().Err(err).Msg("unable to confirm token subject against the ledger")
		return 0, err
	}
	return userID, nil
}
