package ilp

import "time"

// VarID identifies a variable within a [Model]. Ids are handed out by
// [Model.NewIntVar] and [Model.NewBinaryVar] starting at zero in
// allocation order, so the zero value names the first variable.
type VarID int

// Sense is the relational operator of a [LinearConstraint].
type Sense int

const (
	// LE is "less than or equal to".
	LE Sense = iota
	// GE is "greater than or equal to".
	GE
	// EQ is "equal to".
	EQ
)

// Term is one coeff*var addend of a linear expression.
type Term struct {
	Var   VarID
	Coeff int64
}

// LinearConstraint is "sum(Terms) Sense RHS", always active in the
// model (as opposed to an [IndicatorConstraint], which only applies
// when its gating binary takes a given value).
type LinearConstraint struct {
	Terms []Term
	Sense Sense
	RHS   int64
}

// IndicatorConstraint applies Then only when the variable Binary
// (which must have been created with [Model.NewBinaryVar]) equals 1
// if When is true, or 0 if When is false.
type IndicatorConstraint struct {
	Binary VarID
	When   bool
	Then   LinearConstraint
}

// Model is a mutable integer program: a set of bounded variables plus
// the constraints and objective weights attached to them. Models are
// built once by a constraint builder and handed to an [Engine] for
// solving; the incremental driver keeps reusing and growing the same
// Model across iterations, fixing already-solved variables in place
// with [Model.FixVar] rather than discarding them.
type Model struct {
	lo, hi []int64
	binary []bool
	weight []float64
	linear []LinearConstraint
	indic  []IndicatorConstraint

	// MIPGap is the relative optimality gap the engine may settle for.
	MIPGap float64

	// TimeLimit bounds the wall-clock time spent searching. Zero means
	// no limit.
	TimeLimit time.Duration

	// Silent, when true, asks the engine to suppress its own
	// diagnostic logging (the model has no logger of its own; the
	// caller wires one in around Solve if it wants progress messages).
	Silent bool
}

// NewModel returns an empty model with the given solver knobs.
func NewModel(mipGap float64, timeLimit time.Duration, silent bool) *Model {
	return &Model{
		MIPGap:    mipGap,
		TimeLimit: timeLimit,
		Silent:    silent,
	}
}

// NewIntVar allocates a new bounded integer variable and returns its id.
func (m *Model) NewIntVar(lo, hi int64) VarID {
	id := VarID(len(m.lo))
	m.lo = append(m.lo, lo)
	m.hi = append(m.hi, hi)
	m.binary = append(m.binary, false)
	m.weight = append(m.weight, 0)
	return id
}

// NewBinaryVar allocates a new {0,1} variable and returns its id.
func (m *Model) NewBinaryVar() VarID {
	id := m.NewIntVar(0, 1)
	m.binary[id] = true
	return id
}

// NumVars returns the number of variables allocated so far.
func (m *Model) NumVars() int {
	return len(m.lo)
}

// Bounds returns the current [lo, hi] bounds of v.
func (m *Model) Bounds(v VarID) (int64, int64) {
	return m.lo[v], m.hi[v]
}

// FixVar narrows v's bounds to the single value val. Used by the
// incremental driver to carry a solved variable's value forward into
// later iterations as an equality constraint without discarding the
// variable itself.
func (m *Model) FixVar(v VarID, val int64) {
	m.lo[v] = val
	m.hi[v] = val
}

// SetObjectiveWeight sets v's coefficient in the (maximized) objective.
// Weights default to zero. Setting a weight to zero effectively
// removes v from the objective, which is how the drivers stop
// optimizing previously-fixed slack variables in later iterations.
func (m *Model) SetObjectiveWeight(v VarID, w float64) {
	m.weight[v] = w
}

// ObjectiveWeight returns v's current objective coefficient.
func (m *Model) ObjectiveWeight(v VarID) float64 {
	return m.weight[v]
}

// IsBinary reports whether v was created with NewBinaryVar.
func (m *Model) IsBinary(v VarID) bool {
	return m.binary[v]
}

// AddLinear registers an always-active linear constraint.
func (m *Model) AddLinear(c LinearConstraint) {
	m.linear = append(m.linear, c)
}

// AddIndicator registers a linear constraint that only applies when
// the gating binary takes the given value.
func (m *Model) AddIndicator(c IndicatorConstraint) {
	m.indic = append(m.indic, c)
}

// AddOr requires that at least one of the two binaries equals 1. This
// is the disjunction primitive behind contention-freedom: it is
// implemented directly as the linear constraint a+b>=1, rather than as
// a distinct engine-level construct, since that is all "OR of two
// booleans" means for {0,1} variables.
func (m *Model) AddOr(a, b VarID) {
	m.AddLinear(LinearConstraint{
		Terms: []Term{{Var: a, Coeff: 1}, {Var: b, Coeff: 1}},
		Sense: GE,
		RHS:   1,
	})
}
