package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/feedgate/feedgate/internal/auth"
	"github.com/feedgate/feedgate/internal/catalog"
	"github.com/feedgate/feedgate/internal/feed"
	"github.com/feedgate/feedgate/internal/infrastructure/config"
	"github.com/feedgate/feedgate/internal/infrastructure/database"
	"github.com/feedgate/feedgate/internal/infrastructure/logging"
	"github.com/feedgate/feedgate/internal/node"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight
// requests to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// Deps holds the dependencies required by the HTTP server.
type Deps struct {
	Config   config.HTTPConfig
	Security config.SecurityConfig
	Logger   *logging.Logger
	Verifier *auth.Verifier
	Users    auth.UserRepository
	Hardware catalog.HardwareRepository
	Nodes    node.Repository
	Feeds    *feed.Service
	DB       *database.DB
	Version  string
}

// Server is the HTTP front-end of the gateway.
//
// It is created with New() and started with Start().
type Server struct {
	cfg      config.HTTPConfig
	secCfg   config.SecurityConfig
	logger   *logging.Logger
	verifier *auth.Verifier
	users    auth.UserRepository
	hardware catalog.HardwareRepository
	nodes    node.Repository
	feeds    *feed.Service
	db       *database.DB
	version  string
	server   *http.Server
}

// New creates the HTTP server with the given dependencies.
//
// The server is not started until Start() is called.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Verifier == nil {
		return nil, fmt.Errorf("verifier is required")
	}
	if deps.Users == nil || deps.Hardware == nil || deps.Nodes == nil || deps.Feeds == nil {
		return nil, fmt.Errorf("repositories and feed service are required")
	}

	return &Server{
		cfg:      deps.Config,
		secCfg:   deps.Security,
		logger:   deps.Logger.With("component", "api"),
		verifier: deps.Verifier,
		users:    deps.Users,
		hardware: deps.Hardware,
		nodes:    deps.Nodes,
		feeds:    deps.Feeds,
		db:       deps.DB,
		version:  deps.Version,
	}, nil
}

// Start begins listening for HTTP connections.
//
// The listener runs in a background goroutine; the server is stopped
// with Close().
func (s *Server) Start(_ context.Context) error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           s.buildRouter(),
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	go func() {
		var err error
		if s.cfg.TLS.Enabled {
			s.logger.Info("http server starting with TLS",
				"address", s.server.Addr,
				"cert", s.cfg.TLS.CertFile,
			)
			err = s.server.ListenAndServeTLS(s.cfg.TLS.CertFile, s.cfg.TLS.KeyFile)
		} else {
			s.logger.Info("http server starting", "address", s.server.Addr)
			err = s.server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server error", "error", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the server, waiting for in-flight
// requests up to the shutdown timeout.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("http server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}
	return nil
}
