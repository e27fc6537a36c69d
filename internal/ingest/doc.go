// Package ingest provides the MQTT front-end of the gateway.
//
// This package manages:
//   - An embedded MQTT broker (v3.1.1 and v5) for field devices
//   - Token authentication at CONNECT time
//   - Publish-only access control on the ingestion topic
//   - Decoding and handing readings to the shared feed service
//
// # Architecture
//
// Field devices authenticate by presenting their bearer token as the
// MQTT username. The token is verified once at CONNECT and the
// resulting identity is bound to the session for its lifetime, so
// per-message publishes carry no credential overhead.
//
//	Field Device ↔ Embedded Broker ↔ Feed Service ↔ PostgreSQL
//
// Clients may only publish, and only to the "channel" topic. The
// payload is the same JSON shape the HTTP ingestion endpoint accepts,
// and both transports share one feed service, so a reading is
// authorized identically regardless of how it arrived.
//
// # Error Semantics
//
// MQTT publishes have no response channel, so malformed payloads and
// rejected readings are logged and dropped. The session stays open; a
// device with one bad reading keeps its connection and its next
// reading is processed normally.
package ingest
