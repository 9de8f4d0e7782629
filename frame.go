package shpsched

import (
	"strconv"

	"github.com/shpsched/shpsched/ilp"
)

// FrameRole distinguishes ordinary application traffic from the
// synthetic Self-Healing Protocol bandwidth reservation, which is
// represented as the same record type so every downstream pass
// (variable emission, contention constraints, validation) treats it
// uniformly.
type FrameRole int

const (
	// RoleTraffic is an application-level periodic frame.
	RoleTraffic FrameRole = iota

	// RoleReservation is the synthetic SHP pseudo-frame.
	RoleReservation
)

// Path is one sender-to-receiver route a [Frame] takes through the
// topology: an ordered list of link ids, with a parallel list of the
// offset arena indices materialized for those links once the owning
// [Network] has been prepared.
type Path struct {
	// ReceiverID is the destination node id of this path.
	ReceiverID int

	// Links lists the link ids from sender to receiver, in traversal
	// order.
	Links []int

	// Offsets is filled in during [Network] preparation; Offsets[i] is
	// the arena index of the offset cell for Links[i].
	Offsets []OffsetIndex
}

// Frame is a periodic transmission: either application traffic or the
// SHP reservation (see Role). Frame.ID is unique within a [Network]'s
// traffic registry.
type Frame struct {
	ID   int
	Role FrameRole

	SenderID  int
	Receivers []int

	// Period, Deadline, StartingTime and EndToEndDelay are all
	// expressed in hyperperiod time slots once the owning Network has
	// been prepared (nanoseconds beforehand).
	Period        int64
	Deadline      int64
	StartingTime  int64
	EndToEndDelay int64

	// Size is the frame's payload size in bytes for traffic frames.
	// For the SHP reservation, this field instead carries the
	// reservation's per-instance duration, in time slots once the
	// owning Network has been prepared (nanoseconds beforehand); it is
	// never a byte count for RoleReservation frames.
	Size int64

	Paths []Path

	// FrameSlackVar is the solver variable tracking this frame's
	// end-to-end slack. It is valid only after the constraint builder
	// has emitted variables for this frame.
	FrameSlackVar ilp.VarID

	offsetByLink map[int]OffsetIndex
	offsetOrder  []OffsetIndex
}

// String implements fmt.Stringer.
func (f *Frame) String() string {
	return "frame#" + strconv.Itoa(f.ID)
}

// offsetIndex returns the arena index materialized for linkID on this
// frame, creating it via newFn on first use.
func (f *Frame) offsetIndex(linkID int, newFn func() OffsetIndex) OffsetIndex {
	if f.offsetByLink == nil {
		f.offsetByLink = make(map[int]OffsetIndex)
	}
	if idx, ok := f.offsetByLink[linkID]; ok {
		return idx
	}
	idx := newFn()
	f.offsetByLink[linkID] = idx
	f.offsetOrder = append(f.offsetOrder, idx)
	return idx
}

// Offsets returns the arena indices touched by this frame, in
// first-materialized order.
func (f *Frame) Offsets() []OffsetIndex {
	return f.offsetOrder
}
