// Feedgate - Telemetry Ingestion and Access Gateway
//
// This is the main entry point for the Feedgate application. Feedgate
// fronts an IoT fleet with two transports:
//   - HTTP for management CRUD and feed ingestion
//   - An embedded MQTT broker for high-frequency device ingestion
//
// Both transports share one authorization and ownership model.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/feedgate/feedgate/internal/infrastructure/config"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

var rootCmd = &cobra.Command{
	Use:   "feedgate",
	Short: "Telemetry ingestion and access gateway",
	Long: `Feedgate is a telemetry ingestion and access gateway for an IoT fleet.

It serves management CRUD and feed ingestion over HTTP, runs an embedded
MQTT broker for device ingestion, and stores readings in PostgreSQL with
an optional InfluxDB mirror.`,
	SilenceUsage: true,
}

func main() {
	// Cancel on interrupt signals (Ctrl+C, SIGTERM) for graceful shutdown.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// getConfigPath returns the configuration file path.
// Uses FEEDGATE_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("FEEDGATE_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// loadConfig loads a .env file if present, then the YAML configuration
// with environment overrides applied.
func loadConfig() (*config.Config, error) {
	_ = godotenv.Load()
	return config.Load(getConfigPath())
}
