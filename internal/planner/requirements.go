package planner

import (
	"sort"

	"hivecore/pkg/domain"
)

// ComputeRequirements walks the finalized tree and aggregates base-item
// demand per unit role against the stock snapshot. Only base items appear
// in the result: composite leaves are covered by reuse or stock and bred
// nodes produce their own units. The missing maps retain positive
// shortfalls only.
func ComputeRequirements(root *domain.TreeNode, graph *domain.Graph, stock domain.Stock) (map[domain.Item]domain.Requirement, map[domain.Item]int, map[domain.Item]int) {
	requirements := make(map[domain.Item]domain.Requirement)
	Walk(root, PreOrder, func(node, _ *domain.TreeNode) bool {
		if node.HasChildren() || !graph.IsBase(node.Item) {
			return true
		}
		req, ok := requirements[node.Item]
		if !ok {
			req.PrimaryAvailable = stock.CountPrimary(node.Item)
			req.SecondaryAvailable = stock.CountSecondary(node.Item)
		}
		if node.NeedPrimary {
			req.PrimaryNeeded++
		}
		if node.NeedSecondary && !node.Reusing {
			req.SecondaryNeeded++
		}
		requirements[node.Item] = req
		return true
	})

	missingPrimary := make(map[domain.Item]int)
	missingSecondary := make(map[domain.Item]int)
	for item, req := range requirements {
		if shortfall := req.PrimaryNeeded - req.PrimaryAvailable; shortfall > 0 {
			missingPrimary[item] = shortfall
		}
		if shortfall := req.SecondaryNeeded - req.SecondaryAvailable; shortfall > 0 {
			missingSecondary[item] = shortfall
		}
	}
	return requirements, missingPrimary, missingSecondary
}

// StartingUnits lists the base items demanded as primary units, in
// lexical order.
func StartingUnits(requirements map[domain.Item]domain.Requirement) []domain.Item {
	var out []domain.Item
	for item, req := range requirements {
		if req.PrimaryNeeded > 0 {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
