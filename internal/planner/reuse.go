package planner

import (
	"sort"

	"hivecore/pkg/domain"
)

// ClimbReuse is the climbing pass: a post-order walk that converts
// duplicate intermediate production into references to a single producer.
// A per-item counter tracks units available for reuse; each production
// run is assumed to yield enough surplus for at least one reuse
// elsewhere. A node is converted only when its item occurs more than
// once, a surplus is currently available, it is not the uniquely
// shallowest occurrence, and its sibling is not already a reuse
// reference.
func ClimbReuse(root *domain.TreeNode, idx SpeciesIndex) {
	available := make(map[domain.Item]int)
	Walk(root, PostOrder, func(node, parent *domain.TreeNode) bool {
		if !node.HasChildren() {
			return true
		}
		stat := idx[node.Item]
		if parent != nil && stat != nil && stat.Count > 1 && available[node.Item] > 0 && !uniqueShallowest(node, stat) {
			if sibling := node.Sibling(parent); sibling == nil || !sibling.Reusing {
				node.Reusing = true
				node.PruneChildren()
				available[node.Item]--
				return true
			}
		}
		available[node.Item]++
		return true
	})
}

// SecondPassReuse catches duplicates the climbing pass missed: internal
// nodes whose two children are both still full subtrees, visited from the
// shallowest down. At most one child per candidate is converted, and only
// when another non-reused producer of that child's item remains in the
// tree or stock already holds the item as a secondary unit.
func SecondPassReuse(root *domain.TreeNode, stock domain.Stock) {
	idx := BuildSpeciesIndex(root)
	var candidates []*domain.TreeNode
	Walk(root, LevelOrder, func(node, _ *domain.TreeNode) bool {
		if node.HasChildren() && node.ChildA.HasChildren() && node.ChildB.HasChildren() {
			candidates = append(candidates, node)
		}
		return true
	})
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.DistanceFromRoot != b.DistanceFromRoot {
			return a.DistanceFromRoot < b.DistanceFromRoot
		}
		if a.Seq != b.Seq {
			return a.Seq < b.Seq
		}
		return a.Item < b.Item
	})
	for _, candidate := range candidates {
		// An earlier conversion may have pruned this candidate outright or
		// cut into one of its children.
		if !candidate.HasChildren() || !candidate.ChildA.HasChildren() || !candidate.ChildB.HasChildren() {
			continue
		}
		first, second := candidate.ChildA, candidate.ChildB
		if second.SubtreeDepth > first.SubtreeDepth {
			first, second = second, first
		}
		if convertToReuse(first, idx, stock) || convertToReuse(second, idx, stock) {
			idx = BuildSpeciesIndex(root)
		}
	}
}

func convertToReuse(child *domain.TreeNode, idx SpeciesIndex, stock domain.Stock) bool {
	producerElsewhere := false
	if stat := idx[child.Item]; stat != nil {
		for _, occurrence := range stat.Nodes {
			if occurrence != child && occurrence.HasChildren() {
				producerElsewhere = true
				break
			}
		}
	}
	if !producerElsewhere && !stock.HasSecondary(child.Item) {
		return false
	}
	child.Reusing = true
	child.PruneChildren()
	return true
}
