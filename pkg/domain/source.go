package domain

import "context"

// RuleSource loads the immutable mutation rule set from a backing store.
// Implementations live under internal/infra/rules.
type RuleSource interface {
	// Rules returns every known mutation rule. The returned slice is owned
	// by the caller.
	Rules(ctx context.Context) ([]MutationRule, error)
	// Driver identifies the backing implementation.
	Driver() string
}
