// Package feed implements telemetry ingestion: the single path both
// transports use to turn an authenticated reading into a stored row.
//
// The HTTP front-end and the MQTT broker decode their own wire
// payloads but converge on Service.Ingest, so authorization happens
// exactly once and identically regardless of transport. The insert is
// ownership-scoped: the statement predicate carries the caller's
// identity, and zero affected rows means the node does not exist for
// that caller.
//
// Feeds are append-only. Nothing in the gateway updates or deletes a
// reading once stored.
package feed
