package node

import (
	"errors"

	"github.com/feedgate/feedgate/internal/feed"
)

// Node is an owned controller board with attached sensors.
type Node struct {
	ID          int64    `json:"id"`
	OwnerID     int64    `json:"user_id"`
	HardwareID  int64    `json:"hardware_id"`
	Name        string   `json:"name"`
	Location    string   `json:"location"`
	SensorIDs   []int64  `json:"sensor_ids"`
	SensorNames []string `json:"sensor_names"`
	IsPublic    bool     `json:"is_public"`
}

// NodeWithFeeds pairs a node with its feed history for read responses.
// The node's fields serialize inline alongside the feeds array.
type NodeWithFeeds struct {
	Node
	Feeds []feed.Feed `json:"feeds"`
}

// Payload is the client-supplied shape for creating or updating a node.
type Payload struct {
	HardwareID  int64    `json:"hardware_id"`
	Name        string   `json:"name"`
	Location    string   `json:"location"`
	SensorIDs   []int64  `json:"sensor_ids"`
	SensorNames []string `json:"sensor_names"`
	IsPublic    bool     `json:"is_public"`
}

// Sentinel errors for node operations.
var (
	ErrNodeNotFound         = errors.New("node not found")
	ErrNodeHardwareIsSensor = errors.New("node hardware cannot be a sensor")
	ErrSensorCountMismatch  = errors.New("sensor ids and sensor names must have the same length")
	ErrSensorNotFound       = errors.New("sensor not found")
	ErrSensorTypeInvalid    = errors.New("sensor type not valid")
)
