package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/feedgate/feedgate/internal/infrastructure/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withDatabase(func(db *database.DB) error {
			if err := db.MigrateUp(); err != nil {
				return err
			}
			return printMigrationVersion(cmd, db)
		})
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the most recent migration",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withDatabase(func(db *database.DB) error {
			if err := db.MigrateDown(); err != nil {
				return err
			}
			return printMigrationVersion(cmd, db)
		})
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the current schema version",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withDatabase(func(db *database.DB) error {
			return printMigrationVersion(cmd, db)
		})
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	migrateCmd.AddCommand(migrateVersionCmd)
}

// withDatabase opens a connection from configuration, runs fn, and
// closes the connection.
func withDatabase(fn func(db *database.DB) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	return fn(db)
}

func printMigrationVersion(cmd *cobra.Command, db *database.DB) error {
	version, dirty, err := db.MigrationVersion()
	if err != nil {
		return err
	}
	if dirty {
		cmd.Printf("schema version: %d (dirty)\n", version)
	} else {
		cmd.Printf("schema version: %d\n", version)
	}
	return nil
}
