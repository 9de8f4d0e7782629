package shpsched

import "github.com/shpsched/shpsched/ilp"

// frameSlackWeight and linkSlackWeight are the objective coefficients
// assigned to, respectively, every frame's end-to-end slack variable
// and every link's per-iteration contention slack variable. Frame
// slack is weighted more heavily so the solver prefers schedules that
// leave application frames room to drift over ones that merely pad
// link occupancy.
const (
	frameSlackWeight = 0.9
	linkSlackWeight  = 0.1
)

// emitOffsetVars allocates one solver variable per (instance, replica)
// cell of every offset the frame touches. Traffic frames get a
// window [start+i*period+r*time, deadline-time+i*period-r*time];
// the SHP reservation gets its pre-fixed instance*period value.
func emitOffsetVars(m *ilp.Model, net *Network, f *Frame) {
	for _, oi := range f.Offsets() {
		off := net.Offsets[oi]
		off.Vars = make([][]ilp.VarID, off.NumInstances)
		for inst := 0; inst < off.NumInstances; inst++ {
			off.Vars[inst] = make([]ilp.VarID, off.NumReplicas)
			for repl := 0; repl < off.NumReplicas; repl++ {
				var lo, hi int64
				if f.Role == RoleReservation {
					lo = int64(inst) * f.Period
					hi = lo
				} else {
					lo = f.StartingTime + int64(inst)*f.Period + int64(repl)*off.Time
					hi = f.Deadline - off.Time + int64(inst)*f.Period - int64(repl)*off.Time
				}
				off.Vars[inst][repl] = m.NewIntVar(lo, hi)
			}
		}
	}
	if f.Role == RoleTraffic {
		f.FrameSlackVar = m.NewIntVar(0, f.EndToEndDelay)
		m.SetObjectiveWeight(f.FrameSlackVar, frameSlackWeight)
	}
}

// emitPathConstraints adds the path-dependency and end-to-end
// constraints for one traffic frame. Reservation frames have neither.
func emitPathConstraints(m *ilp.Model, net *Network, f *Frame) {
	if f.Role != RoleTraffic {
		return
	}
	for _, p := range f.Paths {
		for inst := 0; inst < net.Offsets[p.Offsets[0]].NumInstances; inst++ {
			for hop := 0; hop+1 < len(p.Offsets); hop++ {
				u := net.Offsets[p.Offsets[hop]]
				v := net.Offsets[p.Offsets[hop+1]]
				// s_v - s_u - fd_f >= time_u + switchMinTime
				m.AddLinear(ilp.LinearConstraint{
					Terms: []ilp.Term{
						{Var: v.Vars[inst][0], Coeff: 1},
						{Var: u.Vars[inst][0], Coeff: -1},
						{Var: f.FrameSlackVar, Coeff: -1},
					},
					Sense: ilp.GE,
					RHS:   u.Time + net.SwitchMinTime,
				})
			}
			if f.EndToEndDelay > 0 {
				first := net.Offsets[p.Offsets[0]]
				last := net.Offsets[p.Offsets[len(p.Offsets)-1]]
				// s_first - fd_f >= starting + inst*period
				m.AddLinear(ilp.LinearConstraint{
					Terms: []ilp.Term{
						{Var: first.Vars[inst][0], Coeff: 1},
						{Var: f.FrameSlackVar, Coeff: -1},
					},
					Sense: ilp.GE,
					RHS:   f.StartingTime + int64(inst)*f.Period,
				})
				// s_last + fd_f <= deadline + inst*period - time_last
				m.AddLinear(ilp.LinearConstraint{
					Terms: []ilp.Term{
						{Var: last.Vars[inst][0], Coeff: 1},
						{Var: f.FrameSlackVar, Coeff: 1},
					},
					Sense: ilp.LE,
					RHS:   f.Deadline + int64(inst)*f.Period - last.Time,
				})
				// s_last - s_first <= e2e - time_first
				m.AddLinear(ilp.LinearConstraint{
					Terms: []ilp.Term{
						{Var: last.Vars[inst][0], Coeff: 1},
						{Var: first.Vars[inst][0], Coeff: -1},
					},
					Sense: ilp.LE,
					RHS:   f.EndToEndDelay - first.Time,
				})
			}
		}
	}
}

// cellsForLink returns every (instance, replica) cell of f's offset on
// linkID, if the frame touches that link.
func cellsForLink(net *Network, f *Frame, linkID int) []cellRef {
	var out []cellRef
	for _, oi := range f.Offsets() {
		off := net.Offsets[oi]
		if off.LinkID != linkID {
			continue
		}
		for inst := 0; inst < off.NumInstances; inst++ {
			for repl := 0; repl < off.NumReplicas; repl++ {
				out = append(out, cellRef{Var: off.Vars[inst][repl], Time: off.Time})
			}
		}
	}
	return out
}

// writeBackSolution copies the solver's concrete values into each
// frame's offset cells.
func writeBackSolution(net *Network, f *Frame, sol *ilp.Solution) {
	for _, oi := range f.Offsets() {
		off := net.Offsets[oi]
		for inst := 0; inst < off.NumInstances; inst++ {
			for repl := 0; repl < off.NumReplicas; repl++ {
				off.Start[inst][repl] = sol.Values[off.Vars[inst][repl]]
			}
		}
	}
}
