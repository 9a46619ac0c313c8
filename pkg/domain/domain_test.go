package domain

import (
	"strings"
	"testing"
)

func TestNewGraphRejectsDuplicates(t *testing.T) {
	_, err := NewGraph([]MutationRule{
		{Result: "Common", ParentA: "Forest", ParentB: "Meadows"},
		{Result: "Common", ParentA: "Modest", ParentB: "Tropical"},
	})
	if err == nil {
		t.Fatalf("expected duplicate rule error")
	}
}

func TestNewGraphRejectsIncompleteRule(t *testing.T) {
	_, err := NewGraph([]MutationRule{{Result: "Common", ParentA: "Forest"}})
	if err == nil {
		t.Fatalf("expected incomplete rule error")
	}
}

func TestGraphLookupAndBase(t *testing.T) {
	g, err := NewGraph([]MutationRule{{Result: "Common", ParentA: "Forest", ParentB: "Meadows"}})
	if err != nil {
		t.Fatalf("new graph: %v", err)
	}
	rule, ok := g.Lookup("Common")
	if !ok {
		t.Fatalf("expected rule for Common")
	}
	if rule.ParentA != "Forest" || rule.ParentB != "Meadows" {
		t.Fatalf("unexpected parents: %+v", rule)
	}
	if !g.IsBase("Forest") {
		t.Fatalf("Forest should be a base item")
	}
	if g.IsBase("Common") {
		t.Fatalf("Common should be composite")
	}
}

func TestGraphItemsSorted(t *testing.T) {
	g, err := NewGraph([]MutationRule{
		{Result: "Modest", ParentA: "Forest", ParentB: "Meadows"},
		{Result: "Common", ParentA: "Forest", ParentB: "Meadows"},
	})
	if err != nil {
		t.Fatalf("new graph: %v", err)
	}
	items := g.Items()
	if len(items) != 2 || items[0] != "Common" || items[1] != "Modest" {
		t.Fatalf("unexpected item order: %v", items)
	}
}

func TestStockSnapshotCounts(t *testing.T) {
	stock := NewStockSnapshot(
		map[Item]int{"Forest": 2, "Empty": 0},
		map[Item]int{"Meadows": 1},
	)
	if !stock.HasPrimary("Forest") || stock.CountPrimary("Forest") != 2 {
		t.Fatalf("expected two Forest primary units")
	}
	if stock.HasPrimary("Empty") {
		t.Fatalf("zero counts must be dropped")
	}
	if stock.HasPrimary("Meadows") {
		t.Fatalf("roles must not bleed into each other")
	}
	if !stock.HasSecondary("Meadows") {
		t.Fatalf("expected Meadows secondary unit")
	}
	items := stock.Items()
	if len(items) != 2 || items[0] != "Forest" || items[1] != "Meadows" {
		t.Fatalf("unexpected snapshot items: %v", items)
	}
}

func TestResultMergeAndSplit(t *testing.T) {
	var res Result
	res.Merge(Result{Violations: []Violation{
		{Check: "reuse_consistency", Severity: SeverityBlock, Message: "boom"},
		{Check: "missed_reuse", Severity: SeverityWarn, Message: "meh"},
	}})
	if !res.HasBlocking() {
		t.Fatalf("expected blocking result")
	}
	if got := len(res.Blocking()); got != 1 {
		t.Fatalf("expected one blocking violation, got %d", got)
	}
	if got := len(res.Warnings()); got != 1 {
		t.Fatalf("expected one warning, got %d", got)
	}
}

func TestPlanningErrorMessage(t *testing.T) {
	err := &PlanningError{Target: "Cultivated", Chain: []Item{"Cultivated", "Common"}, Reason: "rule cycle"}
	if !strings.Contains(err.Error(), "Cultivated -> Common") {
		t.Fatalf("chain missing from message: %s", err.Error())
	}
}

func TestTreeNodeSibling(t *testing.T) {
	parent := &TreeNode{Item: "Common"}
	a := &TreeNode{Item: "Forest"}
	b := &TreeNode{Item: "Meadows"}
	parent.ChildA, parent.ChildB = a, b
	if a.Sibling(parent) != b || b.Sibling(parent) != a {
		t.Fatalf("sibling lookup failed")
	}
	if a.Sibling(nil) != nil {
		t.Fatalf("nil parent must have no sibling")
	}
	if parent.CountNodes() != 3 {
		t.Fatalf("expected three nodes, got %d", parent.CountNodes())
	}
}
