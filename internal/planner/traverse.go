// Package planner implements plan computation for the production engine:
// tree construction from the mutation graph, stock substitution, reuse
// optimization, structural validation with repair, and requirement
// aggregation, assembled into a single Plan value.
package planner

import "hivecore/pkg/domain"

// Order selects the traversal order used by Walk.
type Order int

// Traversal orders. Every pass over a production tree is composed from
// Walk rather than hand-rolled recursion.
const (
	// PreOrder visits a node before its children.
	PreOrder Order = iota
	// PostOrder visits both children before the node.
	PostOrder
	// LevelOrder visits nodes breadth-first from the root.
	LevelOrder
)

// Walk traverses the subtree rooted at root, invoking visit with each node
// and its parent (nil for root). The meaning of a false return from visit
// depends on the order: pre- and level-order skip the node's children and
// continue with the rest of the traversal; post-order aborts the whole
// traversal immediately, and Walk reports the abort by returning false.
func Walk(root *domain.TreeNode, order Order, visit func(node, parent *domain.TreeNode) bool) bool {
	if root == nil {
		return true
	}
	switch order {
	case PreOrder:
		walkPre(root, nil, visit)
		return true
	case PostOrder:
		return walkPost(root, nil, visit)
	case LevelOrder:
		walkLevel(root, visit)
		return true
	}
	return true
}

func walkPre(node, parent *domain.TreeNode, visit func(node, parent *domain.TreeNode) bool) {
	if !visit(node, parent) {
		return
	}
	if node.ChildA != nil {
		walkPre(node.ChildA, node, visit)
	}
	if node.ChildB != nil {
		walkPre(node.ChildB, node, visit)
	}
}

func walkPost(node, parent *domain.TreeNode, visit func(node, parent *domain.TreeNode) bool) bool {
	if node.ChildA != nil && !walkPost(node.ChildA, node, visit) {
		return false
	}
	if node.ChildB != nil && !walkPost(node.ChildB, node, visit) {
		return false
	}
	return visit(node, parent)
}

func walkLevel(root *domain.TreeNode, visit func(node, parent *domain.TreeNode) bool) {
	type entry struct {
		node   *domain.TreeNode
		parent *domain.TreeNode
	}
	queue := []entry{{node: root}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if !visit(cur.node, cur.parent) {
			continue
		}
		if cur.node.ChildA != nil {
			queue = append(queue, entry{cur.node.ChildA, cur.node})
		}
		if cur.node.ChildB != nil {
			queue = append(queue, entry{cur.node.ChildB, cur.node})
		}
	}
}
