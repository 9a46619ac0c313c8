package report

import (
	"fmt"
	"sort"
	"strings"

	"hivecore/pkg/domain"
)

// Render returns a plain-text summary of a plan: the production tree, the
// base-item requirements, and any diagnostics. It is what the CLI prints.
func Render(plan *domain.Plan) string {
	if plan == nil {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "plan: %s\n", plan.Target)
	if plan.Root == nil {
		b.WriteString("  target already satisfied by stock, nothing to produce\n")
		return b.String()
	}
	fmt.Fprintf(&b, "steps: %d\n", plan.TotalSteps)
	b.WriteString("tree:\n")
	renderNode(&b, plan.Root, 1)

	if len(plan.Requirements) > 0 {
		b.WriteString("requirements:\n")
		items := make([]domain.Item, 0, len(plan.Requirements))
		for item := range plan.Requirements {
			items = append(items, item)
		}
		sort.Slice(items, func(i, j int) bool { return items[i] < items[j] })
		for _, item := range items {
			req := plan.Requirements[item]
			fmt.Fprintf(&b, "  %-20s primary %d/%d  secondary %d/%d\n",
				item, req.PrimaryAvailable, req.PrimaryNeeded, req.SecondaryAvailable, req.SecondaryNeeded)
		}
	}
	renderShortfalls(&b, "missing primary", plan.MissingPrimary)
	renderShortfalls(&b, "missing secondary", plan.MissingSecondary)

	for _, w := range plan.Warnings {
		fmt.Fprintf(&b, "warning: %s: %s\n", w.Item, w.Message)
	}
	for _, e := range plan.Errors {
		fmt.Fprintf(&b, "error: %s: %s\n", e.Item, e.Message)
	}
	if plan.Failed {
		b.WriteString("status: FAILED\n")
	} else if plan.CanExecute {
		b.WriteString("status: ready\n")
	} else {
		b.WriteString("status: blocked on stock\n")
	}
	return b.String()
}

func renderNode(b *strings.Builder, n *domain.TreeNode, depth int) {
	if n == nil {
		return
	}
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(string(n.Item))
	switch {
	case n.Reusing:
		b.WriteString(" (reused)")
	case n.ReusedFromStock:
		b.WriteString(" (from stock)")
	case !n.HasChildren():
		b.WriteString(" (base)")
	}
	b.WriteByte('\n')
	renderNode(b, n.ChildA, depth+1)
	renderNode(b, n.ChildB, depth+1)
}

func renderShortfalls(b *strings.Builder, label string, missing map[domain.Item]int) {
	if len(missing) == 0 {
		return
	}
	items := make([]domain.Item, 0, len(missing))
	for item := range missing {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i] < items[j] })
	for _, item := range items {
		fmt.Fprintf(b, "%s: %s x%d\n", label, item, missing[item])
	}
}
