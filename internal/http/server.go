// README: API gateway; owns the gin engine and the http.Server lifecycle.
package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"farebot/internal/http/handlers"
)

const shutdownGrace = 10 * time.Second

type ServerDeps struct {
	Sessions    handlers.Sessions
	Log         *zap.Logger
	TurnTimeout time.Duration
	RatePerMin  int
	RateBurst   int
	Production  bool
}

type Server struct {
	log  *zap.Logger
	http *http.Server
}

func NewServer(addr string, deps ServerDeps) *Server {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	return &Server{
		log:  deps.Log,
		http: &http.Server{Addr: addr, Handler: NewRouter(deps), ReadHeaderTimeout: 10 * time.Second},
	}
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", zap.String("addr", s.http.Addr))
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	s.log.Info("http server shutting down")
	return s.http.Shutdown(shutdownCtx)
}
