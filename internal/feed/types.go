package feed

import (
	"errors"
	"time"
)

// Feed is one timestamped vector reading attributed to a node.
type Feed struct {
	ID     int64     `json:"id"`
	NodeID int64     `json:"node_id"`
	Time   time.Time `json:"time"`
	Values []float64 `json:"values"`
}

// Payload is the wire shape of a reading on both transports.
type Payload struct {
	NodeID int64     `json:"node_id"`
	Values []float64 `json:"values"`
}

// Sentinel errors for feed operations.
var (
	// ErrNodeNotFound covers both a missing node and a node the caller
	// does not own; the two are deliberately indistinguishable.
	ErrNodeNotFound = errors.New("node not found")

	ErrInvalidPayload = errors.New("invalid payload")
)
