package planner

import (
	"fmt"
	"sort"

	"hivecore/pkg/domain"
)

// Validation check identifiers carried on violations.
const (
	CheckReuseConsistency = "reuse_consistency"
	CheckImpossibleParent = "impossible_parent"
	CheckMissedReuse      = "missed_reuse"
)

// Validator enforces the structural invariants of a finalized tree and
// repairs what it can. Reuse-consistency violations are optimizer defects
// and always fatal. Impossible parents (both children of one node marked
// reusing) are repaired by rebuilding the deeper child's subtree from the
// mutation graph and re-optimizing it locally.
type Validator struct {
	graph *domain.Graph
	stock domain.Stock
}

// NewValidator constructs a validator over the graph and stock snapshot
// the tree was planned against.
func NewValidator(graph *domain.Graph, stock domain.Stock) *Validator {
	return &Validator{graph: graph, stock: stock}
}

// Validate runs every check over the tree, repairing impossible parents
// in place. Blocking violations in the result reject the plan; warnings
// never do.
func (v *Validator) Validate(root *domain.TreeNode) domain.Result {
	var res domain.Result
	res.Merge(v.checkReuseConsistency(root))
	res.Merge(v.repairImpossibleParents(root))
	res.Merge(v.checkMissedReuse(root))
	return res
}

func (v *Validator) checkReuseConsistency(root *domain.TreeNode) domain.Result {
	var res domain.Result
	Walk(root, PreOrder, func(node, _ *domain.TreeNode) bool {
		if node.Reusing && node.HasChildren() {
			res.Violations = append(res.Violations, domain.Violation{
				Check:    CheckReuseConsistency,
				Severity: domain.SeverityBlock,
				Item:     node.Item,
				Message:  fmt.Sprintf("node %s is marked reusing but still owns children", node.Item),
			})
		}
		return true
	})
	return res
}

// repairImpossibleParents detects internal nodes whose children are both
// reuse references, restores the deeper child to a full subtree, and
// re-runs stock substitution and reuse optimization on the restored
// subtree alone. A remaining violation after repair is fatal.
func (v *Validator) repairImpossibleParents(root *domain.TreeNode) domain.Result {
	var res domain.Result
	for _, parent := range impossibleParents(root) {
		victim := parent.ChildB
		if parent.ChildA.SubtreeDepth > parent.ChildB.SubtreeDepth {
			victim = parent.ChildA
		}
		rebuilt, err := NewBuilder(v.graph).Build(victim.Item)
		if err != nil {
			res.Violations = append(res.Violations, domain.Violation{
				Check:    CheckImpossibleParent,
				Severity: domain.SeverityBlock,
				Item:     victim.Item,
				Message:  fmt.Sprintf("both children of %s are reuse references and %s cannot be rebuilt: %v", parent.Item, victim.Item, err),
			})
			continue
		}
		rebuilt.NeedPrimary = victim.NeedPrimary
		rebuilt.NeedSecondary = victim.NeedSecondary
		if victim == parent.ChildA {
			parent.ChildA = rebuilt
		} else {
			parent.ChildB = rebuilt
		}
		OptimizeByStock(rebuilt, v.stock)
		ClimbReuse(rebuilt, BuildSpeciesIndex(rebuilt))
		SecondPassReuse(rebuilt, v.stock)
		retagDistances(rebuilt, parent.DistanceFromRoot+1)
		res.Violations = append(res.Violations, domain.Violation{
			Check:    CheckImpossibleParent,
			Severity: domain.SeverityWarn,
			Item:     parent.Item,
			Message:  fmt.Sprintf("both children of %s were reuse references; rebuilt %s", parent.Item, victim.Item),
		})
	}
	for _, parent := range impossibleParents(root) {
		res.Violations = append(res.Violations, domain.Violation{
			Check:    CheckImpossibleParent,
			Severity: domain.SeverityBlock,
			Item:     parent.Item,
			Message:  fmt.Sprintf("both children of %s remain reuse references after repair", parent.Item),
		})
	}
	return res
}

func impossibleParents(root *domain.TreeNode) []*domain.TreeNode {
	var out []*domain.TreeNode
	Walk(root, PreOrder, func(node, _ *domain.TreeNode) bool {
		if node.HasChildren() && node.ChildA.Reusing && node.ChildB.Reusing {
			out = append(out, node)
		}
		return true
	})
	return out
}

func retagDistances(node *domain.TreeNode, base int) {
	node.DistanceFromRoot = base
	Walk(node, PreOrder, func(n, parent *domain.TreeNode) bool {
		if parent != nil {
			n.DistanceFromRoot = parent.DistanceFromRoot + 1
		}
		return true
	})
}

// checkMissedReuse emits a non-fatal diagnostic for every item still
// produced more often than sibling constraints require.
func (v *Validator) checkMissedReuse(root *domain.TreeNode) domain.Result {
	var res domain.Result
	idx := BuildSpeciesIndex(root)

	blocked := make(map[domain.Item]int)
	reused := make(map[domain.Item]int)
	producers := make(map[domain.Item]int)
	Walk(root, PreOrder, func(node, parent *domain.TreeNode) bool {
		if node.Reusing {
			reused[node.Item]++
			return true
		}
		if !node.HasChildren() {
			return true
		}
		producers[node.Item]++
		if sibling := node.Sibling(parent); sibling != nil && sibling.Reusing {
			blocked[node.Item]++
		}
		return true
	})

	items := make([]domain.Item, 0, len(producers))
	for item := range producers {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i] < items[j] })

	for _, item := range items {
		stat := idx[item]
		if stat == nil || stat.Count < 2 || v.graph.IsBase(item) {
			continue
		}
		surplus := producers[item] - 1
		missed := surplus - blocked[item]
		if missed > 0 {
			res.Violations = append(res.Violations, domain.Violation{
				Check:    CheckMissedReuse,
				Severity: domain.SeverityWarn,
				Item:     item,
				Message: fmt.Sprintf("%s occurs %d times with %d reused; %d further reuse(s) were possible",
					item, stat.Count, reused[item], missed),
			})
		}
	}
	return res
}
