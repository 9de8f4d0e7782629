// Package ilp provides a small, backend-agnostic integer linear
// programming abstraction: bounded integer variables, linear
// (in)equality constraints, indicator constraints gated on a binary
// variable, and a disjunction ("OR") helper over two binaries.
//
// No specific commercial or open-source MILP product is mandated by
// the abstraction: [Engine] is an interface, and [NewEngine] returns
// the one implementation this module ships, a bounds-propagation and
// branch-on-booleans solver restricted to exactly the constraint
// shapes the scheduler's constraint builder ever emits. Swapping in a
// vendored solver later only requires a new implementation of
// [Engine]; nothing in [Model] is specific to this package's own
// solving strategy.
package ilp
