package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/angelmondragon/orderdesk/pkg/logger"
)

// Server wraps http.Server with a context-driven graceful shutdown.
type Server struct {
	srv             *http.Server
	logg            *logger.Logger
	shutdownTimeout time.Duration
}

func NewServer(addr string, handler http.Handler, shutdownTimeout time.Duration, logg *logger.Logger) *Server {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 15 * time.Second
	}
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logg:            logg,
		shutdownTimeout: shutdownTimeout,
	}
}

// Run serves until ctx is done, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	if s.logg != nil {
		s.logg.Info(ctx, "api server shutting down")
	}
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
