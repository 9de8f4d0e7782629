package shpsched

import "github.com/shpsched/shpsched/ilp"

// cellRef identifies one (frame, link, instance, replica) offset cell
// for the purpose of emitting contention-freedom constraints: its
// solver variable and its transmission duration.
type cellRef struct {
	Var  ilp.VarID
	Time int64
}

// windowsOverlap reports whether two cells' current variable bounds
// describe start-time windows whose reachable occupied intervals
// ([lo, hi+time)) could possibly overlap. Cells whose windows cannot
// overlap never need a contention constraint between them.
func windowsOverlap(m *ilp.Model, a, b cellRef) bool {
	aLo, aHi := m.Bounds(a.Var)
	bLo, bHi := m.Bounds(b.Var)
	aEnd := aHi + a.Time
	bEnd := bHi + b.Time
	return aLo < bEnd && bLo < aEnd
}

// emitContentionPair adds the disjunctive "a and b must not overlap"
// constraint pair for two offset cells sharing a link: a binary x
// chooses "b fully precedes a", a binary y chooses "a fully precedes
// b", and AddOr requires at least one of the two to hold. ld is the
// link-slack variable shared by every pair considered in the same
// driver iteration on this link.
func emitContentionPair(m *ilp.Model, a, b cellRef, ld ilp.VarID) {
	x := m.NewBinaryVar()
	y := m.NewBinaryVar()
	m.AddOr(x, y)
	m.AddIndicator(ilp.IndicatorConstraint{
		Binary: x, When: true,
		Then: ilp.LinearConstraint{
			Terms: []ilp.Term{{Var: a.Var, Coeff: 1}, {Var: b.Var, Coeff: -1}, {Var: ld, Coeff: -1}},
			Sense: ilp.GE,
			RHS:   b.Time,
		},
	})
	m.AddIndicator(ilp.IndicatorConstraint{
		Binary: y, When: true,
		Then: ilp.LinearConstraint{
			Terms: []ilp.Term{{Var: b.Var, Coeff: 1}, {Var: a.Var, Coeff: -1}, {Var: ld, Coeff: -1}},
			Sense: ilp.GE,
			RHS:   a.Time,
		},
	})
}

// emitContentionAmong emits a contention-freedom pair for every
// overlapping combination among fresh (pairwise among themselves)
// and between fresh and existing, reusing the
// single link-slack variable ld for all of them.
func emitContentionAmong(m *ilp.Model, existing, fresh []cellRef, ld ilp.VarID) {
	for i, a := range fresh {
		for j := i + 1; j < len(fresh); j++ {
			b := fresh[j]
			if windowsOverlap(m, a, b) {
				emitContentionPair(m, a, b, ld)
			}
		}
		for _, b := range existing {
			if windowsOverlap(m, a, b) {
				emitContentionPair(m, a, b, ld)
			}
		}
	}
}
