package shpsched

import "time"

// Algorithm selects which scheduling driver [Schedule] runs.
type Algorithm int

const (
	// OneShot builds and solves a single model for every frame at once.
	OneShot Algorithm = iota

	// Incremental schedules frames in batches, fixing each batch's
	// transmission times before moving to the next.
	Incremental
)

// SchedulerParams configures a [Schedule] run.
type SchedulerParams struct {
	Algorithm Algorithm

	// MIPGap is the relative optimality gap passed through to the
	// underlying [ilp.Engine].
	MIPGap float64

	// TimeLimit bounds the wall-clock time the solver spends on any
	// single model solve. Zero means no limit.
	TimeLimit time.Duration

	// Silent suppresses the solver's own diagnostic output.
	Silent bool

	// FramesPerIteration is the batch size for [Incremental]. Zero or
	// negative means "every frame in a single iteration", which makes
	// Incremental behave like OneShot except for the accounting of
	// per-iteration link slacks.
	FramesPerIteration int
}
