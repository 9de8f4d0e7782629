package shpsched

import (
	"errors"

	"github.com/shpsched/shpsched/ilp"
)

// RunOptimizer places input.Free on input.LinkID with the same
// incremental, fix-and-continue pattern as [runIncremental]: a single
// persistent model grows one frame at a time, each frame's link-slack
// variable is zeroed once it has been placed, and already-placed
// frames become equality-fixed variables that later frames contend
// against. There are no paths or end-to-end terms on a single link, so
// the per-frame slack is instead bounded by the frame's own widest
// per-instance window.
func RunOptimizer(input *PatchInput, params SchedulerParams) ([]PatchFrameResult, error) {
	m := ilp.NewModel(params.MIPGap, params.TimeLimit, params.Silent)
	var placed []cellRef

	if input.ProtocolPeriod > 0 {
		numInstances := input.HyperPeriod / input.ProtocolPeriod
		for k := int64(0); k < numInstances; k++ {
			v := m.NewIntVar(k*input.ProtocolPeriod, k*input.ProtocolPeriod)
			placed = append(placed, cellRef{Var: v, Time: input.ProtocolTime})
		}
	}
	for _, ff := range input.Fixed {
		for _, inst := range ff.Instances {
			length := inst.EndingTime - inst.TransmissionTime + 1
			v := m.NewIntVar(inst.TransmissionTime, inst.TransmissionTime)
			placed = append(placed, cellRef{Var: v, Time: length})
		}
	}

	results := make([]PatchFrameResult, 0, len(input.Free))
	var priorLinkSlack ilp.VarID
	havePriorLinkSlack := false

	for _, frame := range input.Free {
		if havePriorLinkSlack {
			m.SetObjectiveWeight(priorLinkSlack, 0)
		}

		vars := make([]ilp.VarID, len(frame.Instances))
		var fdUB int64
		for k, rng := range frame.Instances {
			vars[k] = m.NewIntVar(rng.Min, rng.Max)
			if span := rng.Max - rng.Min; span > fdUB {
				fdUB = span
			}
		}
		fd := m.NewIntVar(0, fdUB)
		m.SetObjectiveWeight(fd, frameSlackWeight)
		for k, rng := range frame.Instances {
			m.AddLinear(ilp.LinearConstraint{
				Terms: []ilp.Term{{Var: vars[k], Coeff: 1}, {Var: fd, Coeff: -1}},
				Sense: ilp.GE, RHS: rng.Min,
			})
			m.AddLinear(ilp.LinearConstraint{
				Terms: []ilp.Term{{Var: vars[k], Coeff: 1}, {Var: fd, Coeff: 1}},
				Sense: ilp.LE, RHS: rng.Max,
			})
		}

		fresh := make([]cellRef, len(vars))
		for k, v := range vars {
			fresh[k] = cellRef{Var: v, Time: frame.TimeSlots}
		}
		ld := m.NewIntVar(0, input.HyperPeriod)
		m.SetObjectiveWeight(ld, linkSlackWeight)
		priorLinkSlack, havePriorLinkSlack = ld, true
		emitContentionAmong(m, placed, fresh, ld)

		sol, err := ilp.NewEngine().Solve(m)
		if err != nil {
			if errors.Is(err, ilp.ErrInfeasible) {
				return nil, ErrPatchInfeasible
			}
			return nil, err
		}

		res := PatchFrameResult{FrameID: frame.FrameID, Instances: make([]int64, len(vars))}
		for k, v := range vars {
			val := sol.Values[v]
			res.Instances[k] = val
			m.FixVar(v, val)
		}
		m.SetObjectiveWeight(fd, 0)
		results = append(results, res)

		placed = append(placed, fresh...)
	}
	return results, nil
}
