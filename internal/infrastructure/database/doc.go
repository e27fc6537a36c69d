// Package database manages the PostgreSQL connection pool for Feedgate.
//
// It wraps database/sql with:
//
//   - Pool configuration from config.yaml (bounded open/idle connections)
//   - Startup connectivity verification
//   - Embedded schema migrations via golang-migrate
//   - Health checks for the /health endpoint
//
// Every repository in the application shares the single pool owned by
// this package. Queries acquire a connection for the duration of one
// statement and release it on every exit path; database/sql guarantees
// this even when a scan or context cancellation fails mid-row.
//
// # Usage
//
//	db, err := database.Open(cfg.Database)
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.MigrateUp(); err != nil {
//	    return err
//	}
package database
