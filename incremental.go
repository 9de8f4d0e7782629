package shpsched

import (
	"errors"
	"fmt"

	"github.com/shpsched/shpsched/ilp"
)

// runIncremental schedules net.Frames in ordered batches of
// FramesPerIteration (or all at once if unset), growing a single
// persistent model across iterations: each batch's variables and
// constraints are added to the model that already carries every
// earlier batch's (now fixed) variables, so contention constraints
// naturally reach back to already-placed frames and the SHP
// reservation without re-deriving them.
func runIncremental(net *Network, params SchedulerParams) error {
	batchSize := params.FramesPerIteration
	if batchSize <= 0 {
		batchSize = len(net.Frames)
	}
	if batchSize <= 0 {
		batchSize = 1
	}

	m := ilp.NewModel(params.MIPGap, params.TimeLimit, params.Silent)
	linkCells := make(map[int][]cellRef)
	var priorLinkSlacks []ilp.VarID

	if net.SHP != nil {
		emitOffsetVars(m, net, net.SHP)
		writeBackFixed(net, net.SHP, m)
		for linkID := 0; linkID <= net.Topology.HigherLinkID(); linkID++ {
			if _, ok := net.Topology.LinkByID(linkID); !ok {
				continue
			}
			linkCells[linkID] = append(linkCells[linkID], cellsForLink(net, net.SHP, linkID)...)
		}
	}

	iteration := 0
	for start := 0; start < len(net.Frames); start += batchSize {
		iteration++
		end := start + batchSize
		if end > len(net.Frames) {
			end = len(net.Frames)
		}
		batch := net.Frames[start:end]

		for _, v := range priorLinkSlacks {
			m.SetObjectiveWeight(v, 0)
		}
		priorLinkSlacks = nil

		for _, f := range batch {
			emitOffsetVars(m, net, f)
			emitPathConstraints(m, net, f)
		}

		touchedLinks := make(map[int]bool)
		for _, f := range batch {
			for _, oi := range f.Offsets() {
				touchedLinks[net.Offsets[oi].LinkID] = true
			}
		}
		iterationLinkSlack := make(map[int]ilp.VarID, len(touchedLinks))
		for linkID := range touchedLinks {
			var fresh []cellRef
			for _, f := range batch {
				fresh = append(fresh, cellsForLink(net, f, linkID)...)
			}
			ld := m.NewIntVar(0, net.Hyperperiod)
			m.SetObjectiveWeight(ld, linkSlackWeight)
			priorLinkSlacks = append(priorLinkSlacks, ld)
			iterationLinkSlack[linkID] = ld
			emitContentionAmong(m, linkCells[linkID], fresh, ld)
			linkCells[linkID] = append(linkCells[linkID], fresh...)
		}

		sol, err := ilp.NewEngine().Solve(m)
		if err != nil {
			if errors.Is(err, ilp.ErrInfeasible) {
				return fmt.Errorf("%w (iteration %d, frames %d-%d)", ErrInfeasible, iteration, batch[0].ID, batch[len(batch)-1].ID)
			}
			return err
		}

		for linkID, ld := range iterationLinkSlack {
			net.LinkSlack[linkID] = sol.Values[ld]
		}

		for _, f := range batch {
			writeBackSolution(net, f, sol)
			for _, oi := range f.Offsets() {
				off := net.Offsets[oi]
				for inst := range off.Vars {
					for repl := range off.Vars[inst] {
						m.FixVar(off.Vars[inst][repl], off.Start[inst][repl])
					}
				}
			}
			m.SetObjectiveWeight(f.FrameSlackVar, 0)
		}
	}
	return nil
}

// writeBackFixed copies a frame's pre-fixed (lo==hi) variable bounds
// directly into its offset cells, without going through a solve. Used
// for the SHP reservation, whose instance start times are known at
// variable-creation time.
func writeBackFixed(net *Network, f *Frame, m *ilp.Model) {
	for _, oi := range f.Offsets() {
		off := net.Offsets[oi]
		for inst := range off.Vars {
			for repl := range off.Vars[inst] {
				lo, _ := m.Bounds(off.Vars[inst][repl])
				off.Start[inst][repl] = lo
			}
		}
	}
}
