package shpsched

import (
	"errors"

	"github.com/shpsched/shpsched/ilp"
)

// runOneShot emits every variable and constraint for the whole
// network into a single model and solves it once.
func runOneShot(net *Network, params SchedulerParams) error {
	m := ilp.NewModel(params.MIPGap, params.TimeLimit, params.Silent)

	if net.SHP != nil {
		emitOffsetVars(m, net, net.SHP)
	}
	for _, f := range net.Frames {
		emitOffsetVars(m, net, f)
		emitPathConstraints(m, net, f)
	}

	linkSlackVars := make(map[int]ilp.VarID)
	for linkID := 0; linkID <= net.Topology.HigherLinkID(); linkID++ {
		if _, ok := net.Topology.LinkByID(linkID); !ok {
			continue
		}
		var cells []cellRef
		if net.SHP != nil {
			cells = append(cells, cellsForLink(net, net.SHP, linkID)...)
		}
		for _, f := range net.Frames {
			cells = append(cells, cellsForLink(net, f, linkID)...)
		}
		if len(cells) < 2 {
			continue
		}
		ld := m.NewIntVar(0, net.Hyperperiod)
		m.SetObjectiveWeight(ld, linkSlackWeight)
		linkSlackVars[linkID] = ld
		emitContentionAmong(m, nil, cells, ld)
	}

	sol, err := ilp.NewEngine().Solve(m)
	if err != nil {
		if errors.Is(err, ilp.ErrInfeasible) {
			return ErrInfeasible
		}
		return err
	}

	for linkID, ld := range linkSlackVars {
		net.LinkSlack[linkID] = sol.Values[ld]
	}

	if net.SHP != nil {
		writeBackSolution(net, net.SHP, sol)
	}
	for _, f := range net.Frames {
		writeBackSolution(net, f, sol)
	}
	return nil
}
