package planner

import "hivecore/pkg/domain"

// Builder expands a target item into a complete binary production tree.
// The tree is built to full depth regardless of current stock; stock
// substitution is a later pass, so the optimizer always sees a complete
// candidate tree and can choose the shallowest satisfying cut.
type Builder struct {
	graph *domain.Graph
	seq   int
}

// NewBuilder constructs a builder over the mutation graph.
func NewBuilder(graph *domain.Graph) *Builder {
	return &Builder{graph: graph}
}

// Build expands target into a production tree. Base items become leaves;
// composite items recurse into both parents unconditionally. An item that
// appears on its own ancestor chain means the rule set is cyclic and the
// target cannot be planned.
func (b *Builder) Build(target domain.Item) (*domain.TreeNode, error) {
	return b.expand(target, nil, false, false)
}

func (b *Builder) expand(item domain.Item, chain []domain.Item, needPrimary, needSecondary bool) (*domain.TreeNode, error) {
	for _, ancestor := range chain {
		if ancestor == item {
			return nil, &domain.PlanningError{
				Target: chain[0],
				Chain:  append(append([]domain.Item{}, chain...), item),
				Reason: "mutation rule cycle",
			}
		}
	}
	b.seq++
	node := &domain.TreeNode{
		Item:          item,
		Seq:           b.seq,
		NeedPrimary:   needPrimary,
		NeedSecondary: needSecondary,
	}
	rule, ok := b.graph.Lookup(item)
	if !ok {
		return node, nil
	}
	chain = append(chain, item)
	childA, err := b.expand(rule.ParentA, chain, true, false)
	if err != nil {
		return nil, err
	}
	childB, err := b.expand(rule.ParentB, chain, false, true)
	if err != nil {
		return nil, err
	}
	node.ChildA = childA
	node.ChildB = childB
	return node, nil
}
