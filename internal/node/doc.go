// Package node holds the ownership and validation engine for nodes,
// plus their persistence.
//
// A node is an owned controller board with zero or more attached
// sensors. Two invariants are enforced before anything reaches
// storage:
//
//   - The node's primary hardware must exist and must not itself be a
//     sensor.
//   - sensor_ids and sensor_names are paired by index: equal length,
//     and every id must reference catalog hardware of type sensor.
//
// Access decisions are pure functions over (Identity, Node):
// visibility extends to the owner, admins, and anyone when the node is
// public; mutation never follows from public visibility.
//
// Ownership-scoped writes encode the caller in the statement predicate
// so a non-owner's update or delete affects zero rows and surfaces as
// not-found. "Doesn't exist" and "exists but not yours" are
// indistinguishable to the caller; that hides node existence from
// non-owners.
package node
