// Package logging provides structured logging for Feedgate.
//
// It wraps log/slog with consistent defaults so every component logs
// the same shape: JSON (or text) records carrying service and version
// attributes, filtered by level.
//
// # Usage
//
//	logger := logging.New(cfg.Logging, "1.0.0")
//	logger.Info("http listener started", "addr", addr)
//
//	apiLogger := logger.With("component", "api")
//
// # Security
//
// Never log tokens, password hashes, or raw credentials. Storage
// failures are logged with full detail here while clients receive
// only generic error messages through the response envelope.
package logging
