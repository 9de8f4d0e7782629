package ilp

import (
	"errors"
	"time"
)

// ErrInfeasible is returned by [Engine.Solve] when no assignment
// satisfies every constraint within the model's time limit.
var ErrInfeasible = errors.New("ilp: infeasible")

// Solution is the result of a successful [Engine.Solve] call.
type Solution struct {
	// Values holds one entry per variable, indexed by VarID.
	Values []int64

	// Objective is the sum of weight*value over every variable with a
	// non-zero objective weight.
	Objective float64
}

// Engine solves a [Model]. No specific commercial or open-source MILP
// product is mandated; [NewEngine] returns this package's own
// constructive solver.
type Engine interface {
	Solve(m *Model) (*Solution, error)
}

// engine is a bounds-propagation-plus-branch-on-booleans solver. It is
// restricted to the constraint shapes the scheduler ever emits: plain
// linear constraints are always active, and [IndicatorConstraint]
// terms only activate once their gating binary has been branched on.
// There is no general-purpose simplex relaxation: every non-binary
// variable is finalized greedily once the binaries are fixed (to its
// upper bound if its objective weight is positive, to its lower bound
// otherwise), and the result is re-propagated and verified before
// being accepted.
type engine struct{}

// NewEngine returns the constructive solver implementation.
func NewEngine() Engine {
	return &engine{}
}

func (e *engine) Solve(m *Model) (*Solution, error) {
	lo := append([]int64(nil), m.lo...)
	hi := append([]int64(nil), m.hi...)

	if !propagateAll(lo, hi, m.linear) {
		return nil, ErrInfeasible
	}

	binaries := indicatorBinaries(m)

	var deadline time.Time
	hasDeadline := m.TimeLimit > 0
	if hasDeadline {
		deadline = time.Now().Add(m.TimeLimit)
	}

	// The largest objective any assignment could reach, given the
	// propagated root bounds. Once an incumbent is within MIPGap of it,
	// further search cannot improve the solution enough to matter.
	objUB := objectiveUpperBound(m, lo, hi)

	var best *Solution
	timedOut := false
	gapReached := false

	var search func(idx int, lo, hi []int64)
	search = func(idx int, lo, hi []int64) {
		if timedOut || gapReached {
			return
		}
		if hasDeadline && time.Now().After(deadline) {
			timedOut = true
			return
		}
		if idx == len(binaries) {
			active := activeConstraints(m, lo, hi)
			lo2 := append([]int64(nil), lo...)
			hi2 := append([]int64(nil), hi...)
			if !propagateAll(lo2, hi2, active) {
				return
			}
			assign, ok := finalize(m, lo2, hi2, active)
			if !ok {
				return
			}
			obj := objectiveValue(m, assign)
			if best == nil || obj > best.Objective {
				best = &Solution{Values: assign, Objective: obj}
				if m.MIPGap > 0 && best.Objective >= (1-m.MIPGap)*objUB {
					gapReached = true
				}
			}
			return
		}
		b := binaries[idx]
		for _, val := range [2]int64{1, 0} {
			if val < lo[b] || val > hi[b] {
				continue
			}
			lo2 := append([]int64(nil), lo...)
			hi2 := append([]int64(nil), hi...)
			lo2[b], hi2[b] = val, val
			// Propagating the already-activated indicator constraints
			// here, not just the always-on linear ones, prunes an
			// infeasible ordering as soon as it is chosen instead of
			// only at the leaf below it.
			if !propagateAll(lo2, hi2, activeConstraints(m, lo2, hi2)) {
				continue
			}
			search(idx+1, lo2, hi2)
			if (timedOut || gapReached) && best != nil {
				return
			}
		}
	}

	search(0, lo, hi)

	if best == nil {
		return nil, ErrInfeasible
	}
	return best, nil
}

// indicatorBinaries returns the distinct gating variables used by any
// indicator constraint, in first-seen order.
func indicatorBinaries(m *Model) []VarID {
	seen := make(map[VarID]bool)
	var out []VarID
	for _, ind := range m.indic {
		if !seen[ind.Binary] {
			seen[ind.Binary] = true
			out = append(out, ind.Binary)
		}
	}
	return out
}

// activeConstraints returns the always-active linear constraints plus
// every indicator constraint whose gating binary is, in the given
// bounds, fixed to the value that activates it.
func activeConstraints(m *Model, lo, hi []int64) []LinearConstraint {
	active := append([]LinearConstraint(nil), m.linear...)
	for _, ind := range m.indic {
		if lo[ind.Binary] != hi[ind.Binary] {
			continue // not yet decided, cannot be active
		}
		val := lo[ind.Binary] == 1
		if val == ind.When {
			active = append(active, ind.Then)
		}
	}
	return active
}

// propagateAll repeatedly tightens lo/hi against every constraint
// until a fixpoint is reached, a variable's domain becomes empty
// (infeasible), or 64 passes have run (then it reports feasible
// without a fixpoint). It mutates lo and hi in place.
func propagateAll(lo, hi []int64, cs []LinearConstraint) bool {
	const maxPasses = 64
	for pass := 0; pass < maxPasses; pass++ {
		changed := false
		for _, c := range cs {
			ok, ch := propagateOne(lo, hi, c)
			if !ok {
				return false
			}
			changed = changed || ch
		}
		if !changed {
			return true
		}
	}
	return true
}

// propagateOne tightens lo/hi against a single constraint, converting
// LE/EQ into one or two GE passes.
func propagateOne(lo, hi []int64, c LinearConstraint) (ok bool, changed bool) {
	switch c.Sense {
	case GE:
		return tightenGE(lo, hi, c.Terms, c.RHS)
	case LE:
		return tightenGE(lo, hi, negateTerms(c.Terms), -c.RHS)
	default: // EQ
		ok1, ch1 := tightenGE(lo, hi, c.Terms, c.RHS)
		if !ok1 {
			return false, ch1
		}
		ok2, ch2 := tightenGE(lo, hi, negateTerms(c.Terms), -c.RHS)
		return ok2, ch1 || ch2
	}
}

func negateTerms(terms []Term) []Term {
	out := make([]Term, len(terms))
	for i, t := range terms {
		out[i] = Term{Var: t.Var, Coeff: -t.Coeff}
	}
	return out
}

// tightenGE enforces sum(terms) >= rhs by narrowing each term's
// variable bound given the worst case (maximal) contribution of every
// other term.
func tightenGE(lo, hi []int64, terms []Term, rhs int64) (ok bool, changed bool) {
	for i, t := range terms {
		if t.Coeff == 0 {
			continue
		}
		var otherMax int64
		for j, o := range terms {
			if j == i {
				continue
			}
			if o.Coeff > 0 {
				otherMax += o.Coeff * hi[o.Var]
			} else {
				otherMax += o.Coeff * lo[o.Var]
			}
		}
		need := rhs - otherMax
		if t.Coeff > 0 {
			newLo := ceilDiv(need, t.Coeff)
			if newLo > lo[t.Var] {
				lo[t.Var] = newLo
				changed = true
			}
		} else {
			newHi := floorDiv(need, t.Coeff)
			if newHi < hi[t.Var] {
				hi[t.Var] = newHi
				changed = true
			}
		}
		if lo[t.Var] > hi[t.Var] {
			return false, changed
		}
	}
	return true, changed
}

// finalize assigns a concrete value to every variable (objective-weighted
// ones go to their upper bound, everything else to its lower bound),
// re-propagating after each assignment, then verifies the result
// against every active constraint.
func finalize(m *Model, lo, hi []int64, active []LinearConstraint) ([]int64, bool) {
	n := len(lo)
	fixed := make([]bool, n)
	for i := 0; i < n; i++ {
		if lo[i] == hi[i] {
			fixed[i] = true
		}
	}
	for {
		if !propagateAll(lo, hi, active) {
			return nil, false
		}
		progressed := false
		for v := 0; v < n; v++ {
			if fixed[v] {
				continue
			}
			if lo[v] == hi[v] {
				fixed[v] = true
				continue
			}
			var val int64
			if m.weight[v] > 0 {
				val = hi[v]
			} else {
				val = lo[v]
			}
			lo[v], hi[v] = val, val
			fixed[v] = true
			progressed = true
			break
		}
		if !progressed {
			break
		}
	}
	for v := 0; v < n; v++ {
		if lo[v] != hi[v] {
			return nil, false
		}
	}
	assign := append([]int64(nil), lo...)
	for _, c := range active {
		if !checkConstraint(c, assign) {
			return nil, false
		}
	}
	return assign, true
}

func checkConstraint(c LinearConstraint, assign []int64) bool {
	var sum int64
	for _, t := range c.Terms {
		sum += t.Coeff * assign[t.Var]
	}
	switch c.Sense {
	case GE:
		return sum >= c.RHS
	case LE:
		return sum <= c.RHS
	default:
		return sum == c.RHS
	}
}

// objectiveUpperBound is the objective value reached if every
// positively-weighted variable sat at its upper bound and every
// negatively-weighted one at its lower bound.
func objectiveUpperBound(m *Model, lo, hi []int64) float64 {
	var ub float64
	for v, w := range m.weight {
		switch {
		case w > 0:
			ub += w * float64(hi[v])
		case w < 0:
			ub += w * float64(lo[v])
		}
	}
	return ub
}

func objectiveValue(m *Model, assign []int64) float64 {
	var obj float64
	for v, w := range m.weight {
		if w != 0 {
			obj += w * float64(assign[v])
		}
	}
	return obj
}
