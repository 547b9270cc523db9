package api

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/andrebq/tasktape/auth"
	"github.com/andrebq/tasktape/internal/logutil"
	"github.com/andrebq/tasktape/ledger"
)

type (
	credentials struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	registeredUser struct {
		ID       int64  `json:"id"`
		Username string `json:"username"`
	}

	issuedToken struct {
		AccessToken string `json:"access_token"`
	}
)

// RegisterHandler creates a new user from a {username, password} JSON
// body. The plaintext password is hashed before it gets anywhere near
// the ledger and is never echoed back.
func (s *Realm) RegisterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logutil.GetOrDefault(r.Context())
		var req credentials
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "request body must be a JSON object with username and password", http.StatusBadRequest)
			return
		}
		hashed, err := s.hasher.Hash(req.Password)
		if err != nil {
			var invalid auth.InvalidPassword
			if errors.As(err, &invalid) {
				http.Error(w, invalid.Error(), http.StatusBadRequest)
				return
			}
			log.Error().Err(err).Msg("unable to hash password during registration")
			http.Error(w, "unable to register user", http.StatusInternalServerError)
			return
		}
		id, err := s.book.InsertUser(r.Context(), req.Username, hashed)
		if err != nil {
			var invalid ledger.InvalidInput
			var taken ledger.UsernameTaken
			switch {
			case errors.As(err, &invalid):
				http.Error(w, invalid.Error(), http.StatusBadRequest)
			case errors.As(err, &taken):
				http.Error(w, taken.Error(), http.StatusConflict)
			default:
				log.Error().Err(err).Msg("unable to insert user into the ledger")
				http.Error(w, "unable to register user", http.StatusInternalServerError)
			}
			return
		}
		writeJSON(w, http.StatusCreated, registeredUser{ID: id, Username: strings.TrimSpace(req.Username)})
	}
}

// LoginHandler exchanges a valid {username, password} pair for a
// signed token. Unknown usernames are verified against the dummy hash
// so this path always pays for exactly one hash verification, whether
// the user exists or not, and both failures collapse into the same
// 401.
func (s *Realm) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		log := logutil.GetOrDefault(ctx)
		var req credentials
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "request body must be a JSON object with username and password", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Username) == "" || strings.TrimSpace(req.Password) == "" {
			http.Error(w, "username and password must be non-empty strings", http.StatusBadRequest)
			return
		}
		client := clientKey(r)
		if s.throttle != nil && s.throttle.Blocked(client) {
			http.Error(w, "too many failed logins, try again later", http.StatusTooManyRequests)
			return
		}
		found := true
		hashed := ""
		user, err := s.book.UserByUsername(ctx, req.Username)
		if err != nil {
			var notFound ledger.UserNotFound
			if !errors.As(err, &notFound) {
				log.Error().Err(err).Msg("unable to look up user during login")
				http.Error(w, "unable to login", http.StatusInternalServerError)
				return
			}
			found = false
			hashed = s.hasher.DummyHash()
		} else {
			hashed = user.PasswordHash
		}
		match, err := s.hasher.Verify(req.Password, hashed)
		if err != nil {
			log.Error().Err(err).Msg("unable to verify password during login")
			http.Error(w, "unable to login", http.StatusInternalServerError)
			return
		}
		if !found || !match {
			if s.throttle != nil {
				s.throttle.RecordFailure(client)
			}
			http.Error(w, "Invalid credentials", http.StatusUnauthorized)
			return
		}
		if s.throttle != nil {
			s.throttle.Reset(client)
		}
		token, err := s.tokens.Issue(user.ID)
		if err != nil {
			log.Error().Err(err).Msg("unable to issue token")
			http.Error(w, "unable to login", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, issuedToken{AccessToken: token})
	}
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	buf, err := json.Marshal(body)
	if err != nil {
		http.Error(w, "unable to encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Add("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf)
}
