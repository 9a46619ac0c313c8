package planner

import (
	"context"
	"time"

	"hivecore/internal/observability"
	"hivecore/pkg/domain"
)

// Planner assembles complete plans from the mutation graph. Planning is
// pure, synchronous computation over an in-memory tree: a planner is safe
// to share and a plan is safe to recompute on a background goroutine and
// swap in.
type Planner struct {
	graph   *domain.Graph
	metrics observability.MetricsRecorder
	tracer  observability.Tracer
}

// Option configures a Planner.
type Option func(*Planner)

// WithMetricsRecorder attaches a metrics recorder to the planner.
func WithMetricsRecorder(rec observability.MetricsRecorder) Option {
	return func(p *Planner) {
		if rec != nil {
			p.metrics = rec
		}
	}
}

// WithTracer attaches a tracer to the planner.
func WithTracer(tr observability.Tracer) Option {
	return func(p *Planner) {
		if tr != nil {
			p.tracer = tr
		}
	}
}

// New constructs a planner over the mutation graph.
func New(graph *domain.Graph, opts ...Option) *Planner {
	p := &Planner{
		graph:   graph,
		metrics: observability.NopMetricsRecorder{},
		tracer:  observability.NopTracer{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Plan computes a full plan for target against one stock snapshot:
// build, stock substitution, reuse optimization, validation with repair,
// and requirement aggregation. Stock is never re-scanned mid-plan. A
// target already held in both unit roles short-circuits to an empty plan.
func (p *Planner) Plan(ctx context.Context, target domain.Item, stock domain.Stock) (plan *domain.Plan, err error) {
	started := time.Now()
	ctx, span := p.tracer.Start(ctx, "assemble_plan")
	defer func() {
		span.End(err)
		p.metrics.Observe(ctx, "assemble_plan", err == nil, time.Since(started))
	}()

	plan = &domain.Plan{Target: target}
	if stock.HasPrimary(target) && stock.HasSecondary(target) {
		plan.CanExecute = true
		return plan, nil
	}

	root, err := NewBuilder(p.graph).Build(target)
	if err != nil {
		return nil, err
	}

	OptimizeByStock(root, stock)
	ClimbReuse(root, BuildSpeciesIndex(root))
	SecondPassReuse(root, stock)

	res := NewValidator(p.graph, stock).Validate(root)
	plan.Warnings = res.Warnings()
	if blocking := res.Blocking(); len(blocking) > 0 {
		plan.Errors = blocking
		plan.Failed = true
	}

	requirements, missingPrimary, missingSecondary := ComputeRequirements(root, p.graph, stock)
	plan.Root = root
	plan.Requirements = requirements
	plan.MissingPrimary = missingPrimary
	plan.MissingSecondary = missingSecondary
	plan.StartingUnits = StartingUnits(requirements)
	plan.TotalSteps = CountSteps(root)
	plan.CanExecute = !plan.Failed && len(missingPrimary) == 0 && len(missingSecondary) == 0
	return plan, nil
}

// CountSteps returns the number of tree nodes that still require an
// actual production operation.
func CountSteps(root *domain.TreeNode) int {
	steps := 0
	Walk(root, PreOrder, func(node, _ *domain.TreeNode) bool {
		if node.HasChildren() {
			steps++
		}
		return true
	})
	return steps
}
