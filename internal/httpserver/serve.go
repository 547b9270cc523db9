package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/andrebq/tasktape/internal/logutil"
)

type (
	// Timeouts bounds how long the server spends on a single
	// connection. Zero fields fall back to defaults suited for an api
	// that only moves small JSON payloads around.
	Timeouts struct {
		ReadHeader time.Duration
		Read       time.Duration
		Write      time.Duration
		Idle       time.Duration
	}
)

func (t Timeouts) withDefaults() Timeouts {
	if t.ReadHeader <= 0 {
		t.ReadHeader = time.Minute
	}
	if t.Read <= 0 {
		t.Read = time.Minute
	}
	if t.Write <= 0 {
		t.Write = time.Minute
	}
	if t.Idle <= 0 {
		t.Idle = time.Minute * 5
	}
	return t
}

// Serve runs handler on bind until ctx is cancelled, then shuts the
// server down gracefully.
func Serve(ctx context.Context, bind string, handler http.Handler, timeouts Timeouts) error {
	timeouts = timeouts.withDefaults()
	server := http.Server{
		Handler:           handler,
		Addr:              bind,
		ReadTimeout:       timeouts.Read,
		WriteTimeout:      timeouts.Write,
		ReadHeaderTimeout: timeouts.ReadHeader,
		IdleTimeout:       timeouts.Idle,
	}
	err := make(chan error, 1)
	done := make(chan struct{})
	go serveInBackground(ctx, &server, err, done)
	<-done
	return <-err
}

func serveInBackground(ctx context.Context, server *http.Server, firstErr chan<- error, done chan<- struct{}) {
	log := logutil.GetOrDefault(ctx).With().Str("server.addr", server.Addr).Logger()
	defer close(done)
	serverCtx, cancel := context.WithCancel(ctx)
	go func() {
		defer cancel()
		defer close(firstErr)
		log.Info().Msg("Starting HTTP server")
		err := server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			log.Info().Msg("Server closed")
			// shutdown called,
			// ignore the error
			return
		} else if err != nil {
			select {
			case firstErr <- err:
			default:
			}
			return
		}
	}()
	select {
	case <-serverCtx.Done():
	case <-ctx.Done():
		log.Info().Msg("Initiating shutdown process")
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), time.Minute)
		defer cancelShutdown()
		server.Shutdown(shutdownCtx)
		log.Info().Msg("Shutdown completed")
	}
}
