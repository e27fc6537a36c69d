package node

import "github.com/feedgate/feedgate/internal/auth"

// CanView reports whether an identity may read a node and its feeds.
// Admins see everything, owners see their own, and public nodes are
// visible to any authenticated caller.
func CanView(identity auth.Identity, n *Node) bool {
	return identity.IsAdmin || identity.UserID == n.OwnerID || n.IsPublic
}

// CanMutate reports whether an identity may update or delete a node,
// or insert feeds for it. Public visibility never grants write access.
func CanMutate(identity auth.Identity, n *Node) bool {
	return identity.IsAdmin || identity.UserID == n.OwnerID
}
