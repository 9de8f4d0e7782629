package shpsched

// Schedule runs the configured driver against a prepared network,
// writing the resulting transmission times directly into the
// network's offset arena. Returns [ErrNotPrepared] if [Network.Prepare]
// has not been called, and [ErrInfeasible] if the solver could not
// find a feasible schedule within its MIP gap and time limit.
func Schedule(net *Network, params SchedulerParams) error {
	if !net.prepared {
		return ErrNotPrepared
	}
	switch params.Algorithm {
	case Incremental:
		return runIncremental(net, params)
	default:
		return runOneShot(net, params)
	}
}
