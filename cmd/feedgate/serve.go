package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/feedgate/feedgate/internal/api"
	"github.com/feedgate/feedgate/internal/auth"
	"github.com/feedgate/feedgate/internal/catalog"
	"github.com/feedgate/feedgate/internal/feed"
	"github.com/feedgate/feedgate/internal/infrastructure/database"
	"github.com/feedgate/feedgate/internal/infrastructure/influxdb"
	"github.com/feedgate/feedgate/internal/infrastructure/logging"
	"github.com/feedgate/feedgate/internal/ingest"
	"github.com/feedgate/feedgate/internal/node"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the gateway (HTTP API and MQTT broker)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// run wires configuration, storage, and both front-ends, then blocks
// until the context is cancelled. Deferred Close() calls unwind in
// reverse start order.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Feedgate",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("configuration loaded", "path", getConfigPath())

	// Open database
	db, err := database.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected",
		"host", cfg.Database.Host,
		"name", cfg.Database.Name,
	)

	// Run migrations
	if migrateErr := db.MigrateUp(); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	// Repositories over the shared pool
	users := auth.NewUserRepository(db.DB)
	hardware := catalog.NewHardwareRepository(db.DB)
	nodes := node.NewRepository(db.DB)
	feedRepo := feed.NewRepository(db.DB)

	// Connect to InfluxDB mirror (optional)
	var mirror feed.Mirror
	if cfg.InfluxDB.Enabled {
		influxClient, influxErr := influxdb.Connect(cfg.InfluxDB, log)
		if influxErr != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", influxErr)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			influxClient.Close()
		}()
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)
		mirror = influxClient
	} else {
		log.Info("InfluxDB disabled")
	}

	// One feed service behind both transports
	feeds := feed.NewService(feedRepo, mirror, log)
	verifier := auth.NewVerifier(cfg.Security.JWT.Secret)

	// Start HTTP front-end
	apiServer, err := api.New(api.Deps{
		Config:   cfg.HTTP,
		Security: cfg.Security,
		Logger:   log,
		Verifier: verifier,
		Users:    users,
		Hardware: hardware,
		Nodes:    nodes,
		Feeds:    feeds,
		DB:       db,
		Version:  version,
	})
	if err != nil {
		return fmt.Errorf("creating HTTP server: %w", err)
	}
	if err := apiServer.Start(ctx); err != nil {
		return fmt.Errorf("starting HTTP server: %w", err)
	}
	defer func() {
		if closeErr := apiServer.Close(); closeErr != nil {
			log.Error("error closing HTTP server", "error", closeErr)
		}
	}()

	// Start MQTT front-end
	broker, err := ingest.New(ingest.Deps{
		Config:   cfg.MQTT,
		Logger:   log,
		Verifier: verifier,
		Feeds:    feeds,
	})
	if err != nil {
		return fmt.Errorf("creating MQTT broker: %w", err)
	}
	if err := broker.Start(ctx); err != nil {
		return fmt.Errorf("starting MQTT broker: %w", err)
	}
	defer func() {
		if closeErr := broker.Close(); closeErr != nil {
			log.Error("error closing MQTT broker", "error", closeErr)
		}
	}()

	// Verify storage is reachable before declaring readiness
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}

	log.Info("initialisation complete, waiting for shutdown signal")
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")
	return nil
}
