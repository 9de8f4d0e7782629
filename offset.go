package shpsched

import "github.com/shpsched/shpsched/ilp"

// OffsetIndex is a dense index into a [Network]'s offset arena. Offset
// cells are owned exactly once, in the arena; frames and paths refer
// to them by index rather than by pointer, so there is never more than
// one mutable owner of a cell's scheduled start times.
type OffsetIndex int

// Offset is the per-(frame-or-reservation, link) scheduling cell: a
// (instance x replica) matrix of transmission start times, plus the
// solver variable handles backing each cell while a driver is solving.
//
// Two distinct frames that share the same link never share an Offset:
// each frame/link pair gets its own cell, since they occupy
// independent solver variables even when their reachable windows
// overlap (that overlap is exactly what the contention-freedom
// constraints police).
type Offset struct {
	// LinkID is the link this cell schedules transmissions on.
	LinkID int

	// Time is this cell's per-transmission duration, in hyperperiod
	// time slots, computed from the owning frame's Size and the
	// link's Speed (or, for the SHP reservation, copied directly from
	// the reservation's configured duration).
	Time int64

	// NumInstances is period-count of the owning frame's hyperperiod
	// repetitions: Hyperperiod/Frame.Period.
	NumInstances int

	// NumReplicas mirrors the link's Replicas (1 for wired links).
	NumReplicas int

	// Start holds the scheduled transmission start time of
	// Start[instance][replica], in slots, or -1 before solving.
	Start [][]int64

	// Vars holds the solver variable backing each cell, valid only
	// while a driver's model is alive.
	Vars [][]ilp.VarID
}

// newOffset allocates a cell with Start initialized to -1 for every
// (instance, replica) pair.
func newOffset(linkID int, numInstances, numReplicas int) *Offset {
	start := make([][]int64, numInstances)
	for i := range start {
		row := make([]int64, numReplicas)
		for r := range row {
			row[r] = -1
		}
		start[i] = row
	}
	return &Offset{
		LinkID:       linkID,
		NumInstances: numInstances,
		NumReplicas:  numReplicas,
		Start:        start,
	}
}
