// Package domain defines the core value types shared by the planning and
// execution engine: items, mutation rules, production trees, stock
// snapshots, plans, and the violation primitives used by validation.
package domain

import (
	"fmt"
	"sort"
)

// Item identifies a species/tag in the mutation graph.
type Item string

// MutationRule describes how a composite item is produced: combining one
// primary-lineage unit of ParentA with one secondary-lineage unit of
// ParentB yields Result. Rules are immutable once loaded.
type MutationRule struct {
	Result  Item `json:"result"`
	ParentA Item `json:"parent_a"`
	ParentB Item `json:"parent_b"`
}

// Graph is the static item -> (parentA, parentB) lookup. Items without a
// rule are base items and must come from stock.
type Graph struct {
	rules map[Item]MutationRule
	items []Item
}

// NewGraph builds a graph from a rule list. A duplicate result item is a
// configuration error.
func NewGraph(rules []MutationRule) (*Graph, error) {
	g := &Graph{rules: make(map[Item]MutationRule, len(rules))}
	for _, rule := range rules {
		if rule.Result == "" || rule.ParentA == "" || rule.ParentB == "" {
			return nil, fmt.Errorf("incomplete mutation rule %q <- (%q, %q)", rule.Result, rule.ParentA, rule.ParentB)
		}
		if _, dup := g.rules[rule.Result]; dup {
			return nil, fmt.Errorf("duplicate mutation rule for %q", rule.Result)
		}
		g.rules[rule.Result] = rule
		g.items = append(g.items, rule.Result)
	}
	sort.Slice(g.items, func(i, j int) bool { return g.items[i] < g.items[j] })
	return g, nil
}

// Lookup returns the production rule for item. The second return is false
// for base items.
func (g *Graph) Lookup(item Item) (MutationRule, bool) {
	rule, ok := g.rules[item]
	return rule, ok
}

// IsBase reports whether item has no production rule.
func (g *Graph) IsBase(item Item) bool {
	_, ok := g.rules[item]
	return !ok
}

// Items returns the composite items of the graph in lexical order.
func (g *Graph) Items() []Item {
	out := make([]Item, len(g.items))
	copy(out, g.items)
	return out
}

// Len returns the number of production rules.
func (g *Graph) Len() int { return len(g.rules) }
