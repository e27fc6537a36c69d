package ingest

import (
	"context"
	"crypto/tls"
	"fmt"

	mqtt "github.com/mochi-mqtt/server/v2"
	"github.com/mochi-mqtt/server/v2/listeners"

	"github.com/feedgate/feedgate/internal/auth"
	"github.com/feedgate/feedgate/internal/infrastructure/config"
	"github.com/feedgate/feedgate/internal/infrastructure/logging"
)

// Deps holds the dependencies required by the MQTT broker.
type Deps struct {
	Config   config.MQTTConfig
	Logger   *logging.Logger
	Verifier *auth.Verifier
	Feeds    Ingestor
}

// Broker is the embedded MQTT front-end of the gateway.
//
// It is created with New() and started with Start().
type Broker struct {
	cfg    config.MQTTConfig
	logger *logging.Logger
	server *mqtt.Server
}

// New creates the broker with the given dependencies.
//
// The broker does not listen until Start() is called.
func New(deps Deps) (*Broker, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Verifier == nil {
		return nil, fmt.Errorf("verifier is required")
	}
	if deps.Feeds == nil {
		return nil, fmt.Errorf("feed service is required")
	}

	logger := deps.Logger.With("component", "ingest")

	server := mqtt.New(&mqtt.Options{
		InlineClient: false,
		Logger:       logger.Logger,
	})

	if err := server.AddHook(newHook(deps.Verifier, deps.Feeds, logger), nil); err != nil {
		return nil, fmt.Errorf("adding broker hook: %w", err)
	}

	return &Broker{
		cfg:    deps.Config,
		logger: logger,
		server: server,
	}, nil
}

// Start binds the TCP listener and begins serving connections.
//
// The broker runs in background goroutines; it is stopped with Close().
func (b *Broker) Start(_ context.Context) error {
	var tlsConfig *tls.Config
	if b.cfg.TLS.Enabled {
		cert, err := tls.LoadX509KeyPair(b.cfg.TLS.CertFile, b.cfg.TLS.KeyFile)
		if err != nil {
			return fmt.Errorf("loading broker TLS certificate: %w", err)
		}
		tlsConfig = &tls.Config{
			Certificates: []tls.Certificate{cert},
			MinVersion:   tls.VersionTLS12,
		}
	}

	address := fmt.Sprintf("%s:%d", b.cfg.Host, b.cfg.Port)
	tcp := listeners.NewTCP(listeners.Config{
		ID:        "feedgate-tcp",
		Address:   address,
		TLSConfig: tlsConfig,
	})
	if err := b.server.AddListener(tcp); err != nil {
		return fmt.Errorf("adding broker listener: %w", err)
	}

	b.logger.Info("mqtt broker starting",
		"address", address,
		"tls", b.cfg.TLS.Enabled,
	)

	go func() {
		if err := b.server.Serve(); err != nil {
			b.logger.Error("mqtt broker error", "error", err)
		}
	}()

	return nil
}

// Close stops the broker and disconnects all clients.
func (b *Broker) Close() error {
	b.logger.Info("mqtt broker shutting down")
	if err := b.server.Close(); err != nil {
		return fmt.Errorf("closing mqtt broker: %w", err)
	}
	return nil
}
