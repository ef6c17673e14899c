package relay

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hoachau/nowplaying/internal/shared"
)

// Server ties the router, middleware, and handlers into one HTTP server.
type Server struct {
	addr       string
	router     *BasicRouter
	logger     *log.Logger
	httpServer *http.Server
}

// ServerOpts contains the dependencies for building a relay server.
type ServerOpts struct {
	Addr        string
	FrontendURI string
	RateLimit   float64
	Auth        Authorizer
	Source      WidgetSource
	Logger      *log.Logger
}

// NewServer creates a fully wired relay server.
func NewServer(opts ServerOpts) *Server {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	router := NewBasicRouter()
	router.Use(
		RequestLogger(opts.Logger),
		CORS(opts.FrontendURI),
		RateLimit(opts.RateLimit),
	)
	router.Handler(NewAuthHandler(opts.Auth, opts.FrontendURI, opts.Logger))
	router.Handler(NewDataHandler(opts.Source, opts.Logger))
	router.Handler(NewHealthHandler(opts.Auth))

	return &Server{
		addr:   opts.Addr,
		router: router,
		logger: opts.Logger,
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:    s.addr,
		Handler: s.router,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info("shutdown signal received, stopping proxy server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("proxy server shutdown error", "error", err)
		}
	}()

	s.logger.Info("proxy server listening", "addr", s.addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
