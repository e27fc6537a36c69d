// Package influxdb mirrors accepted feed readings into InfluxDB.
//
// The mirror is optional and strictly secondary: PostgreSQL remains
// the source of truth, and a mirror failure never fails ingestion.
// Writes go through the client library's non-blocking batched API, so
// the ingestion hot path pays only an in-memory enqueue.
package influxdb
