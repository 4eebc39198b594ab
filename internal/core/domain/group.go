package domain

// MaxGroupDepth caps the group ancestor chain. A root group has depth 1; no
// group may be created whose own depth would reach this limit. The depth walk
// also stops here, which keeps cyclic parent data (corruption) from recursing
// forever.
const MaxGroupDepth = 5

// Group is a node in the organisational hierarchy. ParentID is nil for root
// groups. LeaderID optionally designates a user as leader; membership of the
// leader is a UI convention, not enforced here.
type Group struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ParentID    *int64 `json:"parent_id,omitempty"`
	LeaderID    *int64 `json:"leader_id,omitempty"`
}

// GroupWithParent is the listing view of a group with its parent's name
// resolved, mirroring the LEFT JOIN the admin surface renders.
type GroupWithParent struct {
	Group
	ParentName string `json:"parent_name,omitempty"`
}
