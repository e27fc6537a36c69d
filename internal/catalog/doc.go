// Package catalog manages the hardware catalog: the registry of board
// and sensor models that nodes are assembled from.
//
// Hardware entries carry a type from a closed domain (sensor,
// single-board computer, microcontroller unit). The type domain is
// enforced on every create and update; node validation leans on it to
// tell boards apart from sensors.
package catalog
