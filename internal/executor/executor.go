package executor

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"hivecore/internal/observability"
	"hivecore/pkg/domain"
)

// BreedFunc performs one physical production step: combining a primary
// unit of primary with a secondary unit of secondary to produce target.
// The callback blocks for the step's real-world duration and must poll
// ctx at bounded intervals while it waits.
type BreedFunc func(ctx context.Context, primary, secondary, target domain.Item) error

// AccumulateFunc performs one accumulation cycle raising the available
// secondary-unit count of item.
type AccumulateFunc func(ctx context.Context, item domain.Item) error

// Report summarizes one execution run.
type Report struct {
	RunID          uuid.UUID   `json:"run_id"`
	Target         domain.Item `json:"target"`
	StepsPlanned   int         `json:"steps_planned"`
	StepsCompleted int         `json:"steps_completed"`
	StartedAt      time.Time   `json:"started_at"`
	EndedAt        time.Time   `json:"ended_at"`
}

// Executor drives plans against the injected operations.
type Executor struct {
	breed      BreedFunc
	accumulate AccumulateFunc
	ctrl       *Control
	log        zerolog.Logger
	metrics    observability.MetricsRecorder
	buffer     int
	yield      int
	poll       time.Duration
}

// Option configures an Executor.
type Option func(*Executor)

// WithControl shares a pause/abort control with the host.
func WithControl(c *Control) Option {
	return func(e *Executor) {
		if c != nil {
			e.ctrl = c
		}
	}
}

// WithLogger attaches a logger for per-step logging.
func WithLogger(log zerolog.Logger) Option {
	return func(e *Executor) { e.log = log }
}

// WithMetricsRecorder attaches a metrics recorder.
func WithMetricsRecorder(rec observability.MetricsRecorder) Option {
	return func(e *Executor) {
		if rec != nil {
			e.metrics = rec
		}
	}
}

// WithAccumulateBuffer sets how many extra accumulation cycles run beyond
// the computed shortfall.
func WithAccumulateBuffer(n int) Option {
	return func(e *Executor) {
		if n >= 0 {
			e.buffer = n
		}
	}
}

// WithAccumulateYield sets how many secondary units one successful
// accumulation cycle is credited with.
func WithAccumulateYield(n int) Option {
	return func(e *Executor) {
		if n > 0 {
			e.yield = n
		}
	}
}

// WithPollInterval bounds how often the pause gate re-checks its signal.
func WithPollInterval(d time.Duration) Option {
	return func(e *Executor) {
		if d > 0 {
			e.poll = d
		}
	}
}

// New constructs an executor around the injected operations.
func New(breed BreedFunc, accumulate AccumulateFunc, opts ...Option) *Executor {
	e := &Executor{
		breed:      breed,
		accumulate: accumulate,
		ctrl:       NewControl(),
		log:        zerolog.Nop(),
		metrics:    observability.NopMetricsRecorder{},
		buffer:     1,
		yield:      1,
		poll:       50 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Control returns the executor's pause/abort control.
func (e *Executor) Control() *Control { return e.ctrl }

// secondaryLedger tracks secondary-unit supply and outstanding demand
// during one run. Accumulation raises availability by the configured
// yield; every breeding step consumes one unit of its secondary parent at
// point of use, retiring one unit of demand with it.
type secondaryLedger map[domain.Item]*ledgerEntry

type ledgerEntry struct {
	available int
	remaining int
}

// Execute drives the plan in post order: child A, child B, then the
// node's own production step. Any operation failure abandons the rest of
// the traversal; the report carries the progress made up to that point.
// Resumption re-invokes Execute on the same plan and assumes idempotent
// side effects up to the failing step.
func (e *Executor) Execute(ctx context.Context, plan *domain.Plan) (*Report, error) {
	report := &Report{
		RunID:        uuid.New(),
		Target:       plan.Target,
		StepsPlanned: plan.TotalSteps,
		StartedAt:    time.Now().UTC(),
	}
	defer func() { report.EndedAt = time.Now().UTC() }()

	if plan.Failed {
		return report, ErrPlanRejected
	}
	// Secondary shortfalls are covered by accumulation cycles during the
	// run; primary shortfalls can only be fixed by acquiring stock.
	if len(plan.MissingPrimary) > 0 {
		return report, ErrMissingStock
	}
	if plan.Root == nil {
		return report, nil
	}

	ledger := make(secondaryLedger, len(plan.Requirements))
	for item, req := range plan.Requirements {
		ledger[item] = &ledgerEntry{available: req.SecondaryAvailable, remaining: req.SecondaryNeeded}
	}

	e.log.Info().Str("run_id", report.RunID.String()).Str("target", string(plan.Target)).
		Int("steps", plan.TotalSteps).Msg("execution started")
	err := e.run(ctx, plan, plan.Root, ledger, report)
	if err != nil {
		e.log.Error().Str("run_id", report.RunID.String()).Err(err).
			Int("completed", report.StepsCompleted).Msg("execution aborted")
		return report, err
	}
	e.log.Info().Str("run_id", report.RunID.String()).
		Int("completed", report.StepsCompleted).Msg("execution finished")
	return report, nil
}

func (e *Executor) run(ctx context.Context, plan *domain.Plan, node *domain.TreeNode, ledger secondaryLedger, report *Report) error {
	if node == nil || !node.HasChildren() {
		return nil
	}
	if err := e.run(ctx, plan, node.ChildA, ledger, report); err != nil {
		return err
	}
	if err := e.run(ctx, plan, node.ChildB, ledger, report); err != nil {
		return err
	}
	if err := e.ctrl.Wait(ctx, e.poll); err != nil {
		return err
	}
	if err := e.topUpSecondary(ctx, plan, node, ledger); err != nil {
		return err
	}
	return e.breedNode(ctx, node, ledger, report)
}

// topUpSecondary runs accumulation cycles when the plan's requirement
// entry for the node's secondary parent shows fewer units available than
// needed. Items without a requirement entry produce their own units
// within the tree and need no accumulation.
func (e *Executor) topUpSecondary(ctx context.Context, plan *domain.Plan, node *domain.TreeNode, ledger secondaryLedger) error {
	item := node.ChildB.Item
	entry, ok := ledger[item]
	if !ok || entry.available >= entry.remaining {
		return nil
	}
	shortfall := entry.remaining - entry.available
	cycles := (shortfall+e.yield-1)/e.yield + e.buffer
	for i := 0; i < cycles; i++ {
		if err := e.ctrl.Wait(ctx, e.poll); err != nil {
			return err
		}
		started := time.Now()
		err := e.accumulate(ctx, item)
		e.metrics.Observe(ctx, OpAccumulate, err == nil, time.Since(started))
		if err != nil {
			return &StepError{Op: OpAccumulate, Item: node.Item, Primary: node.ChildA.Item, Secondary: item, Err: err}
		}
		entry.available += e.yield
		e.log.Debug().Str("item", string(item)).Int("available", entry.available).Msg("accumulated")
	}
	return nil
}

func (e *Executor) breedNode(ctx context.Context, node *domain.TreeNode, ledger secondaryLedger, report *Report) error {
	started := time.Now()
	err := e.breed(ctx, node.ChildA.Item, node.ChildB.Item, node.Item)
	e.metrics.Observe(ctx, OpBreed, err == nil, time.Since(started))
	if err != nil {
		return &StepError{Op: OpBreed, Item: node.Item, Primary: node.ChildA.Item, Secondary: node.ChildB.Item, Err: err}
	}
	if entry, ok := ledger[node.ChildB.Item]; ok {
		entry.available--
		entry.remaining--
	}
	report.StepsCompleted++
	e.log.Info().Str("item", string(node.Item)).
		Str("primary", string(node.ChildA.Item)).Str("secondary", string(node.ChildB.Item)).
		Int("completed", report.StepsCompleted).Msg("bred")
	return nil
}
