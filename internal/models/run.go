package models

import "time"

// Run is one batch of weighted draws executed for a scenario.
type Run struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	// The node that executed the run.
	Node string

	// Scenario name, as configured.
	Scenario string

	// Number of draws requested.
	Draws int

	// Sum of all scenario weights.
	TotalWeight float64

	// Result is available only for finished runs.
	RunResult

	// Per-item counts, available only for finished runs.
	Outcomes []Outcome
}

// RunResult is available only for finished runs.
type RunResult struct {
	// IsFinished is true if the run is fully finished, and no process
	// will update it in the future.
	IsFinished bool

	// Error message if the run failed.
	Error string
	// Timestamp when the run was started.
	StartedAt *time.Time
	// Timestamp when the run was finished.
	FinishedAt *time.Time
	// Duration is the wall time of the run.
	Duration *time.Duration
	// MaxDeviation is the largest absolute difference between an observed
	// count and its expectation, across all items.
	MaxDeviation float64
	// Ok is true if every item stayed within the configured tolerance.
	Ok bool
}

// Outcome is the observed result for a single item of a run.
type Outcome struct {
	ID    uint `gorm:"primarykey"`
	RunID uint

	// Item label from the scenario.
	Item string

	// Configured weight of the item.
	Weight float64

	// Expected number of draws, draws * weight / total.
	Expected float64

	// Observed number of draws.
	Observed int64

	// Deviation is observed minus expected.
	Deviation float64
}
