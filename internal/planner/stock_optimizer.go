package planner

import "hivecore/pkg/domain"

// OptimizeByStock substitutes tree nodes already satisfied by stock. The
// traversal is level-order so shallow, cheap substitutions are committed
// before any deeper subtree is even inspected; a cut subtree costs zero
// regardless of its internal depth, and its descendants are never visited.
//
// The root is left to the assembler, whose satisfied-target short circuit
// is the only path to an empty plan. Base-item leaves are skipped too:
// they have no subtree to cut, and their acquisition is requirement
// accounting's job. Re-running the pass on an optimized tree is a no-op.
func OptimizeByStock(root *domain.TreeNode, stock domain.Stock) {
	Walk(root, LevelOrder, func(node, parent *domain.TreeNode) bool {
		if parent == nil {
			return true
		}
		if !node.HasChildren() {
			return true
		}
		if stock.HasPrimary(node.Item) || stock.HasSecondary(node.Item) {
			node.ReusedFromStock = true
			node.PruneChildren()
			return false
		}
		return true
	})
}
