package domain

// TreeNode is one node of a production tree. A node either owns both
// children (a breeding step: ChildA is the primary lineage, ChildB the
// secondary) or none (a leaf). Nodes are created once by the tree builder
// and only ever pruned by later passes; repair is the single exception
// that re-expands a subtree.
type TreeNode struct {
	Item   Item      `json:"item"`
	ChildA *TreeNode `json:"child_a,omitempty"`
	ChildB *TreeNode `json:"child_b,omitempty"`

	// NeedPrimary/NeedSecondary record the unit role this node fills for
	// its parent, fixed at build time: a primary-lineage child consumes a
	// primary unit, a secondary-lineage child a secondary unit.
	NeedPrimary   bool `json:"need_primary"`
	NeedSecondary bool `json:"need_secondary"`

	// Reusing marks a node whose production is covered by another
	// occurrence of the same item elsewhere in the tree. A reusing node
	// never has children.
	Reusing bool `json:"reusing,omitempty"`

	// ReusedFromStock marks a composite node satisfied directly by a unit
	// already in stock; its subtree was cut.
	ReusedFromStock bool `json:"reused_from_stock,omitempty"`

	// Annotations maintained by the optimization passes.
	DistanceFromRoot int `json:"-"`
	SubtreeDepth     int `json:"-"`

	// Seq is the build-order sequence number, the stable tie break when a
	// pass must choose among equally eligible occurrences.
	Seq int `json:"-"`
}

// HasChildren reports whether the node is a breeding step.
func (n *TreeNode) HasChildren() bool {
	return n.ChildA != nil && n.ChildB != nil
}

// PruneChildren drops both subtrees, turning the node into a leaf.
func (n *TreeNode) PruneChildren() {
	n.ChildA = nil
	n.ChildB = nil
}

// Sibling returns the other child of parent, or nil when parent does not
// own n.
func (n *TreeNode) Sibling(parent *TreeNode) *TreeNode {
	if parent == nil {
		return nil
	}
	switch n {
	case parent.ChildA:
		return parent.ChildB
	case parent.ChildB:
		return parent.ChildA
	}
	return nil
}

// CountNodes returns the number of nodes in the subtree rooted at n.
func (n *TreeNode) CountNodes() int {
	if n == nil {
		return 0
	}
	return 1 + n.ChildA.CountNodes() + n.ChildB.CountNodes()
}
