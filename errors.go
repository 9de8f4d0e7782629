package shpsched

import "errors"

// Errors returned while building and preparing a [Network].
var (
	ErrDuplicateNodeID  = errors.New("shpsched: duplicate node id")
	ErrDuplicateLinkID  = errors.New("shpsched: duplicate link id")
	ErrUnknownNode      = errors.New("shpsched: reference to unknown node id")
	ErrUnknownLink      = errors.New("shpsched: reference to unknown link id")
	ErrInvalidPeriod    = errors.New("shpsched: frame period must be positive")
	ErrInvalidDeadline  = errors.New("shpsched: frame deadline must be positive and not exceed the period")
	ErrInvalidSize      = errors.New("shpsched: frame size must be positive")
	ErrInvalidStarting  = errors.New("shpsched: frame starting time must be non-negative and less than the deadline")
	ErrInvalidEndToEnd  = errors.New("shpsched: end-to-end delay must be non-negative and less than the deadline")
	ErrNoPaths          = errors.New("shpsched: frame has no receivers/paths")
	ErrHyperperiodRange = errors.New("shpsched: hyperperiod overflows a 64-bit slot count")
	ErrEmptyTopology    = errors.New("shpsched: topology has no nodes")
	ErrInvalidSHP       = errors.New("shpsched: self-healing protocol period and time must be positive")
)

// Errors returned while solving.
var (
	ErrInfeasible  = errors.New("shpsched: no feasible schedule within the configured MIP gap and time limit")
	ErrNotPrepared = errors.New("shpsched: network has not been prepared")
)

// Errors returned by the independent validator.
var ErrValidationFailed = errors.New("shpsched: validation failed")

// Errors returned by the patch heuristic and the patch optimizer.
var (
	ErrPatchPlacementFailed = errors.New("shpsched: heuristic could not place every instance within its window")
	ErrPatchInfeasible      = errors.New("shpsched: patch optimizer found no feasible placement")
)
