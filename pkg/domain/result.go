package domain

import (
	"fmt"
	"strings"
)

// Severity classifies a validation violation.
type Severity string

// Violation severities determine whether a plan is rejected or merely
// annotated.
const (
	// SeverityBlock marks an optimizer invariant defect; the plan is
	// rejected unless repair removes the violation.
	SeverityBlock Severity = "block"
	// SeverityWarn marks a diagnostic finding that never affects plan
	// validity.
	SeverityWarn Severity = "warn"
)

// Violation is one finding produced by a validation check.
type Violation struct {
	Check    string   `json:"check"`
	Severity Severity `json:"severity"`
	Item     Item     `json:"item,omitempty"`
	Message  string   `json:"message"`
}

// Result aggregates violations from the validation checks.
type Result struct {
	Violations []Violation `json:"violations,omitempty"`
}

// Merge appends violations from another result.
func (r *Result) Merge(other Result) {
	if len(other.Violations) == 0 {
		return
	}
	r.Violations = append(r.Violations, other.Violations...)
}

// HasBlocking reports whether the result contains blocking violations.
func (r Result) HasBlocking() bool {
	for _, v := range r.Violations {
		if v.Severity == SeverityBlock {
			return true
		}
	}
	return false
}

// Blocking returns only the blocking violations.
func (r Result) Blocking() []Violation {
	var out []Violation
	for _, v := range r.Violations {
		if v.Severity == SeverityBlock {
			out = append(out, v)
		}
	}
	return out
}

// Warnings returns only the non-fatal violations.
func (r Result) Warnings() []Violation {
	var out []Violation
	for _, v := range r.Violations {
		if v.Severity == SeverityWarn {
			out = append(out, v)
		}
	}
	return out
}

// PlanningError reports a target that cannot be expanded from the known
// mutation rules, such as a cycle in the rule chain.
type PlanningError struct {
	Target Item
	Chain  []Item
	Reason string
}

func (e *PlanningError) Error() string {
	if len(e.Chain) == 0 {
		return fmt.Sprintf("plan %s: %s", e.Target, e.Reason)
	}
	parts := make([]string, len(e.Chain))
	for i, item := range e.Chain {
		parts[i] = string(item)
	}
	return fmt.Sprintf("plan %s: %s (chain %s)", e.Target, e.Reason, strings.Join(parts, " -> "))
}
