package shpsched

import "fmt"

// Validate independently re-checks a solved network's transmission
// times against the bound, contention-freedom, path-dependency and
// end-to-end invariants, from first principles and without sharing any
// code with the constraint builder or the [ilp] package — a bug in
// either the model translation or the solver itself should not be able
// to produce a schedule that also passes this check.
func Validate(net *Network) error {
	if err := validateBounds(net); err != nil {
		return err
	}
	if err := validatePathOrder(net); err != nil {
		return err
	}
	if err := validateEndToEnd(net); err != nil {
		return err
	}
	if err := validateContention(net); err != nil {
		return err
	}
	return nil
}

func validateBounds(net *Network) error {
	check := func(f *Frame) error {
		for _, oi := range f.Offsets() {
			off := net.Offsets[oi]
			for inst := 0; inst < off.NumInstances; inst++ {
				for repl := 0; repl < off.NumReplicas; repl++ {
					s := off.Start[inst][repl]
					if s < 0 {
						return fmt.Errorf("%w: %s offset on link %d instance %d replica %d never scheduled",
							ErrValidationFailed, f, off.LinkID, inst, repl)
					}
					var lo, hi int64
					if f.Role == RoleReservation {
						lo, hi = int64(inst)*f.Period, int64(inst)*f.Period
					} else {
						lo = f.StartingTime + int64(inst)*f.Period + int64(repl)*off.Time
						hi = f.Deadline - off.Time + int64(inst)*f.Period - int64(repl)*off.Time
					}
					if s < lo || s > hi {
						return fmt.Errorf("%w: %s offset on link %d instance %d replica %d start %d out of [%d,%d]",
							ErrValidationFailed, f, off.LinkID, inst, repl, s, lo, hi)
					}
				}
			}
		}
		return nil
	}
	if net.SHP != nil {
		if err := check(net.SHP); err != nil {
			return err
		}
	}
	for _, f := range net.Frames {
		if err := check(f); err != nil {
			return err
		}
	}
	return nil
}

func validatePathOrder(net *Network) error {
	for _, f := range net.Frames {
		for _, p := range f.Paths {
			if len(p.Offsets) == 0 {
				continue
			}
			numInstances := net.Offsets[p.Offsets[0]].NumInstances
			for inst := 0; inst < numInstances; inst++ {
				for hop := 0; hop+1 < len(p.Offsets); hop++ {
					u := net.Offsets[p.Offsets[hop]]
					v := net.Offsets[p.Offsets[hop+1]]
					su, sv := u.Start[inst][0], v.Start[inst][0]
					if sv < su+u.Time+net.SwitchMinTime {
						return fmt.Errorf("%w: %s hop %d->%d instance %d violates path ordering (s_v=%d < s_u=%d + time=%d + switch=%d)",
							ErrValidationFailed, f, hop, hop+1, inst, sv, su, u.Time, net.SwitchMinTime)
					}
				}
			}
		}
	}
	return nil
}

func validateEndToEnd(net *Network) error {
	for _, f := range net.Frames {
		if f.EndToEndDelay <= 0 {
			continue
		}
		for _, p := range f.Paths {
			if len(p.Offsets) == 0 {
				continue
			}
			numInstances := net.Offsets[p.Offsets[0]].NumInstances
			first := net.Offsets[p.Offsets[0]]
			last := net.Offsets[p.Offsets[len(p.Offsets)-1]]
			for inst := 0; inst < numInstances; inst++ {
				s0 := first.Start[inst][0]
				s1 := last.Start[inst][0]
				// The bound is e2e - time_first, not e2e - time_last:
				// the first hop's own transmission time is what the
				// solver's constraint (builder.go) subtracts, and this
				// check must diverge from the solver's formulation in
				// implementation only, never in the bound it enforces.
				delay := s1 - s0 + first.Time
				if delay > f.EndToEndDelay {
					return fmt.Errorf("%w: %s instance %d end-to-end %d exceeds bound %d",
						ErrValidationFailed, f, inst, delay, f.EndToEndDelay)
				}
				if s0 < f.StartingTime+int64(inst)*f.Period {
					return fmt.Errorf("%w: %s instance %d starts before its window", ErrValidationFailed, f, inst)
				}
				end := s1 + last.Time
				if end > f.Deadline+int64(inst)*f.Period {
					return fmt.Errorf("%w: %s instance %d ends after its deadline", ErrValidationFailed, f, inst)
				}
			}
		}
	}
	return nil
}

// occupiedCell names one scheduled interval on a link, for the
// all-pairs non-overlap check.
type occupiedCell struct {
	owner      *Frame
	inst, repl int
	start, end int64
}

func validateContention(net *Network) error {
	byLink := make(map[int][]occupiedCell)
	add := func(f *Frame) {
		for _, oi := range f.Offsets() {
			off := net.Offsets[oi]
			for inst := 0; inst < off.NumInstances; inst++ {
				for repl := 0; repl < off.NumReplicas; repl++ {
					s := off.Start[inst][repl]
					byLink[off.LinkID] = append(byLink[off.LinkID], occupiedCell{
						owner: f, inst: inst, repl: repl,
						start: s, end: s + off.Time,
					})
				}
			}
		}
	}
	if net.SHP != nil {
		add(net.SHP)
	}
	for _, f := range net.Frames {
		add(f)
	}
	for linkID, cells := range byLink {
		for i := 0; i < len(cells); i++ {
			for j := i + 1; j < len(cells); j++ {
				a, b := cells[i], cells[j]
				if a.owner == b.owner && a.inst == b.inst && a.repl == b.repl {
					continue
				}
				if a.start < b.end && b.start < a.end {
					return fmt.Errorf("%w: link %d %s[%d,%d] overlaps %s[%d,%d]",
						ErrValidationFailed, linkID, a.owner, a.inst, a.repl, b.owner, b.inst, b.repl)
				}
			}
		}
	}
	return nil
}
