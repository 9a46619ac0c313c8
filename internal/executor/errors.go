package executor

import (
	"errors"
	"fmt"

	"hivecore/pkg/domain"
)

// ErrPlanRejected is returned when a plan with blocking validation errors
// is handed to the executor.
var ErrPlanRejected = errors.New("plan failed validation and cannot be executed")

// ErrMissingStock is returned when a plan still carries base-item
// shortfalls; acquiring the missing units and replanning recovers.
var ErrMissingStock = errors.New("plan has unmet base-item requirements")

// Step operation names used in errors, logs, and metrics.
const (
	OpBreed      = "breed_step"
	OpAccumulate = "accumulate_step"
)

// StepError reports the failing node and its lineage when an injected
// operation fails. The remaining traversal is abandoned immediately.
type StepError struct {
	Op        string
	Item      domain.Item
	Primary   domain.Item
	Secondary domain.Item
	Err       error
}

func (e *StepError) Error() string {
	if e.Op == OpAccumulate {
		return fmt.Sprintf("%s %s (for %s): %v", e.Op, e.Secondary, e.Item, e.Err)
	}
	return fmt.Sprintf("%s %s + %s -> %s: %v", e.Op, e.Primary, e.Secondary, e.Item, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }
