package planner

import (
	"sort"

	"hivecore/pkg/domain"
)

// SpeciesStat aggregates every occurrence of one item across the tree.
type SpeciesStat struct {
	// Count is the number of occurrence nodes.
	Count int
	// MinDistance is the smallest distance-from-root among occurrences.
	MinDistance int
	// ShallowestCount is how many occurrences sit at MinDistance.
	ShallowestCount int
	// MinSubtreeDepth is the smallest subtree depth among occurrences.
	MinSubtreeDepth int
	// Nodes holds non-owning references to the occurrences, ordered by
	// (distance-from-root, build sequence, item name).
	Nodes []*domain.TreeNode
}

// SpeciesIndex maps each item to its occurrence statistics. The index is
// non-owning and must be rebuilt whenever the tree structure changes; it
// never mutates the tree beyond refreshing the per-node distance and
// subtree-depth annotations.
type SpeciesIndex map[domain.Item]*SpeciesStat

// BuildSpeciesIndex performs the pre-exploration over the subtree rooted
// at root: it tags every node with its distance from root and subtree
// depth, then collects per-item occurrence statistics.
func BuildSpeciesIndex(root *domain.TreeNode) SpeciesIndex {
	idx := make(SpeciesIndex)
	if root == nil {
		return idx
	}
	root.DistanceFromRoot = 0
	Walk(root, PreOrder, func(node, parent *domain.TreeNode) bool {
		if parent != nil {
			node.DistanceFromRoot = parent.DistanceFromRoot + 1
		}
		return true
	})
	Walk(root, PostOrder, func(node, _ *domain.TreeNode) bool {
		depth := 1
		switch {
		case node.HasChildren():
			depth = 1 + node.ChildA.SubtreeDepth
			if node.ChildB.SubtreeDepth >= node.ChildA.SubtreeDepth {
				depth = 1 + node.ChildB.SubtreeDepth
			}
		case node.Reusing && node.SubtreeDepth > 1:
			// A reuse reference keeps the depth of the subtree it stands
			// for, captured before pruning; repair compares these depths
			// to pick which child to rebuild.
			depth = node.SubtreeDepth
		}
		node.SubtreeDepth = depth

		stat, ok := idx[node.Item]
		if !ok {
			stat = &SpeciesStat{MinDistance: node.DistanceFromRoot, MinSubtreeDepth: depth}
			idx[node.Item] = stat
		}
		stat.Count++
		if node.DistanceFromRoot < stat.MinDistance {
			stat.MinDistance = node.DistanceFromRoot
		}
		if depth < stat.MinSubtreeDepth {
			stat.MinSubtreeDepth = depth
		}
		stat.Nodes = append(stat.Nodes, node)
		return true
	})
	for _, stat := range idx {
		sort.SliceStable(stat.Nodes, func(i, j int) bool {
			a, b := stat.Nodes[i], stat.Nodes[j]
			if a.DistanceFromRoot != b.DistanceFromRoot {
				return a.DistanceFromRoot < b.DistanceFromRoot
			}
			if a.Seq != b.Seq {
				return a.Seq < b.Seq
			}
			return a.Item < b.Item
		})
		shallowest := 0
		for _, node := range stat.Nodes {
			if node.DistanceFromRoot == stat.MinDistance {
				shallowest++
			}
		}
		stat.ShallowestCount = shallowest
	}
	return idx
}

// uniqueShallowest reports whether node is the single shallowest
// occurrence of its item, which must keep producing so every reuse
// reference has a source.
func uniqueShallowest(node *domain.TreeNode, stat *SpeciesStat) bool {
	return node.DistanceFromRoot == stat.MinDistance && stat.ShallowestCount == 1
}
