package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/crypto/acme/autocert"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	TLSDisabled      bool
	TLSDisabledPort  int
	AutocertHostname string
	Router           http.Handler
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Handler: s.Router}

	errChan := make(chan error, 1)
	go func() {
		if s.TLSDisabled {
			srv.Addr = fmt.Sprintf(":%d", s.TLSDisabledPort)
			errChan <- srv.ListenAndServe()
		} else {
			errChan <- srv.Serve(autocert.NewListener(s.AutocertHostname))
		}
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down web server: %w", err)
		}
		if err := <-errChan; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
