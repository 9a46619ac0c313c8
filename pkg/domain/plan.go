package domain

// Requirement records, per base item, how many units of each role the
// finalized tree demands and how many the stock snapshot held when the
// plan was assembled.
type Requirement struct {
	PrimaryNeeded      int `json:"primary_needed"`
	PrimaryAvailable   int `json:"primary_available"`
	SecondaryNeeded    int `json:"secondary_needed"`
	SecondaryAvailable int `json:"secondary_available"`
}

// Plan is the fully derived output of one planning run: the finalized
// production tree plus its aggregates. A plan is recomputed from scratch
// whenever stock or target changes; it carries no mutable state.
type Plan struct {
	Target Item `json:"target"`

	// Root is nil when stock already satisfies the target.
	Root *TreeNode `json:"root,omitempty"`

	// StartingUnits lists the base items demanded as primary units, in
	// lexical order.
	StartingUnits []Item `json:"starting_units,omitempty"`

	Requirements map[Item]Requirement `json:"requirements,omitempty"`

	// TotalSteps counts the tree nodes that still require an actual
	// production operation.
	TotalSteps int `json:"total_steps"`

	// MissingPrimary/MissingSecondary retain only positive shortfalls of
	// base-item units against the stock snapshot.
	MissingPrimary   map[Item]int `json:"missing_primary,omitempty"`
	MissingSecondary map[Item]int `json:"missing_secondary,omitempty"`

	// CanExecute is true when no base-item shortfall remains.
	CanExecute bool `json:"can_execute"`

	// Warnings holds non-fatal diagnostics (missed reuse opportunities).
	Warnings []Violation `json:"warnings,omitempty"`

	// Errors holds blocking violations that survived repair. A plan with
	// errors has Failed set and must not be executed.
	Errors []Violation `json:"errors,omitempty"`
	Failed bool        `json:"failed"`
}
