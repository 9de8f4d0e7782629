package shpsched

import (
	"fmt"
	"math"
	"math/big"
)

// SHPConfig configures the synthetic Self-Healing Protocol bandwidth
// reservation. A nil *SHPConfig passed to [NewNetwork] means the
// network carries no reservation at all.
type SHPConfig struct {
	// Period is the reservation's period, in nanoseconds.
	Period int64

	// Time is the duration reserved per instance on every link, in
	// nanoseconds.
	Time int64
}

// Network is the engine context for one scheduling run: it owns the
// topology, the traffic registry, the SHP reservation, the offset
// arena and (once prepared) the hyperperiod and accelerator indices.
// A Network is created once per run and threaded through every
// subsequent operation (variable emission, solving, validation,
// patching) instead of relying on package-level state.
type Network struct {
	Topology      *Topology
	Frames        []*Frame
	SHP           *Frame
	SwitchMinTime int64

	Hyperperiod int64
	TimeSlot    int64

	Offsets []*Offset

	// LinkSlack records each link's final contention-slack value after
	// a [Schedule] run, for [Report]. Incremental overwrites an
	// earlier iteration's entry with the later one for the same link.
	LinkSlack map[int]int64

	nodeByID  []*Node
	linkByID  []*Link
	frameByID []*Frame

	higherFrameID int
	prepared      bool
	logger        Logger

	shpConfig *SHPConfig
}

// NewNetwork returns a Network ready to accept frames via [Network.AddFrame].
// switchMinTime is the minimum inter-hop processing delay on a switch,
// in nanoseconds. logger may be nil, in which case a no-op logger is used.
func NewNetwork(topology *Topology, switchMinTime int64, shp *SHPConfig, logger Logger) (*Network, error) {
	if len(topology.Nodes()) == 0 {
		return nil, ErrEmptyTopology
	}
	if shp != nil && (shp.Period <= 0 || shp.Time <= 0) {
		return nil, ErrInvalidSHP
	}
	if logger == nil {
		logger = &noopLogger{}
	}
	return &Network{
		Topology:      topology,
		SwitchMinTime: switchMinTime,
		logger:        logger,
		shpConfig:     shp,
		LinkSlack:     make(map[int]int64),
	}, nil
}

// AddFrame validates and registers a frame. Paths must already be
// populated with the ordered link ids for each receiver; this engine
// does not compute routes, it schedules along routes it is given.
func (n *Network) AddFrame(f *Frame) error {
	if n.prepared {
		return fmt.Errorf("shpsched: cannot add frames after Prepare")
	}
	if f.Period <= 0 {
		return fmt.Errorf("%w: frame %d", ErrInvalidPeriod, f.ID)
	}
	if f.Deadline <= 0 || f.Deadline > f.Period {
		return fmt.Errorf("%w: frame %d", ErrInvalidDeadline, f.ID)
	}
	if f.Size <= 0 {
		return fmt.Errorf("%w: frame %d", ErrInvalidSize, f.ID)
	}
	if f.StartingTime < 0 || f.StartingTime >= f.Deadline {
		return fmt.Errorf("%w: frame %d", ErrInvalidStarting, f.ID)
	}
	if f.EndToEndDelay < 0 || (f.EndToEndDelay > 0 && f.EndToEndDelay >= f.Deadline) {
		return fmt.Errorf("%w: frame %d", ErrInvalidEndToEnd, f.ID)
	}
	if len(f.Paths) == 0 {
		return fmt.Errorf("%w: frame %d", ErrNoPaths, f.ID)
	}
	if _, ok := n.Topology.NodeByID(f.SenderID); !ok {
		return fmt.Errorf("%w: frame %d sender %d", ErrUnknownNode, f.ID, f.SenderID)
	}
	for _, p := range f.Paths {
		if _, ok := n.Topology.NodeByID(p.ReceiverID); !ok {
			return fmt.Errorf("%w: frame %d receiver %d", ErrUnknownNode, f.ID, p.ReceiverID)
		}
		for _, linkID := range p.Links {
			if _, ok := n.Topology.LinkByID(linkID); !ok {
				return fmt.Errorf("%w: frame %d path link %d", ErrUnknownLink, f.ID, linkID)
			}
		}
		f.Receivers = append(f.Receivers, p.ReceiverID)
	}
	f.Role = RoleTraffic
	n.Frames = append(n.Frames, f)
	if f.ID > n.higherFrameID {
		n.higherFrameID = f.ID
	}
	return nil
}

// NodeByID returns the accelerator-indexed node with the given id.
// Valid only after Prepare.
func (n *Network) NodeByID(id int) *Node {
	if id < 0 || id >= len(n.nodeByID) {
		return nil
	}
	return n.nodeByID[id]
}

// LinkByID returns the accelerator-indexed link with the given id.
// Valid only after Prepare.
func (n *Network) LinkByID(id int) *Link {
	if id < 0 || id >= len(n.linkByID) {
		return nil
	}
	return n.linkByID[id]
}

// FrameByID returns the accelerator-indexed frame with the given id
// (the SHP reservation included, if present). Valid only after Prepare.
func (n *Network) FrameByID(id int) *Frame {
	if id < 0 || id >= len(n.frameByID) {
		return nil
	}
	return n.frameByID[id]
}

// Prepare runs the six-step preparation pipeline: hyperperiod
// computation, SHP pseudo-frame construction, offset materialization,
// accelerator indexing, per-offset transmission time computation, and
// time-slot normalization. It must be called exactly once, after every
// frame has been added and before any driver runs.
func (n *Network) Prepare() error {
	if n.prepared {
		return fmt.Errorf("shpsched: network already prepared")
	}

	hyperperiod, err := computeHyperperiod(n)
	if err != nil {
		return err
	}
	n.Hyperperiod = hyperperiod
	n.logger.Debugf("hyperperiod = %d ns", n.Hyperperiod)

	if n.shpConfig != nil {
		n.buildSHP()
	}

	n.materializeOffsets()
	n.buildAccelerators()
	n.computeOffsetTimes()
	n.normalizeTimeSlots()

	n.prepared = true
	return nil
}

// computeHyperperiod returns the LCM of every traffic frame's period
// (and the SHP period, if configured), using [math/big] for the
// running accumulation so a period set whose LCM exceeds 64 bits is
// reported as [ErrHyperperiodRange] instead of silently wrapping.
func computeHyperperiod(n *Network) (int64, error) {
	acc := big.NewInt(1)
	consider := func(period int64) {
		p := big.NewInt(period)
		g := new(big.Int).GCD(nil, nil, acc, p)
		acc.Mul(acc, p)
		acc.Div(acc, g)
	}
	for _, f := range n.Frames {
		consider(f.Period)
	}
	if n.shpConfig != nil {
		consider(n.shpConfig.Period)
	}
	if !acc.IsInt64() {
		return 0, ErrHyperperiodRange
	}
	return acc.Int64(), nil
}

// buildSHP creates the synthetic reservation frame. Its offsets (one
// per link id in [0, HigherLinkID], each with Hyperperiod/Period
// instances) are allocated later by materializeOffsets, and the
// drivers pin instance k's start at k*Period.
func (n *Network) buildSHP() {
	shp := &Frame{
		ID:       n.higherFrameID + 1,
		Role:     RoleReservation,
		Period:   n.shpConfig.Period,
		Deadline: n.shpConfig.Period,
		Size:     n.shpConfig.Time,
	}
	n.higherFrameID = shp.ID
	n.SHP = shp
}

// materializeOffsets walks every frame's paths (and the SHP
// reservation's implicit one-cell-per-link path) and allocates the
// dense offset arena, reusing a single cell whenever a frame crosses
// the same link more than once (e.g. a multi-receiver frame whose
// paths share a prefix).
func (n *Network) materializeOffsets() {
	allocFor := func(f *Frame, linkID int, replicas int) OffsetIndex {
		return f.offsetIndex(linkID, func() OffsetIndex {
			idx := OffsetIndex(len(n.Offsets))
			numInstances := int(n.Hyperperiod / f.Period)
			off := newOffset(linkID, numInstances, replicas)
			n.Offsets = append(n.Offsets, off)
			return idx
		})
	}

	replicasOf := func(linkID int) int {
		if l, ok := n.Topology.LinkByID(linkID); ok {
			if l.Replicas > 0 {
				return l.Replicas
			}
		}
		return 1
	}

	for _, f := range n.Frames {
		for pi := range f.Paths {
			p := &f.Paths[pi]
			p.Offsets = make([]OffsetIndex, len(p.Links))
			for li, linkID := range p.Links {
				p.Offsets[li] = allocFor(f, linkID, replicasOf(linkID))
			}
		}
	}

	if n.SHP != nil {
		for linkID := 0; linkID <= n.Topology.HigherLinkID(); linkID++ {
			if _, ok := n.Topology.LinkByID(linkID); !ok {
				continue
			}
			allocFor(n.SHP, linkID, 1)
		}
	}
}

// buildAccelerators fills the dense id-indexed node/link/frame arrays
// used by every lookup after preparation.
func (n *Network) buildAccelerators() {
	nodes := n.Topology.Nodes()
	n.nodeByID = make([]*Node, n.Topology.HigherNodeID()+1)
	for i := range nodes {
		node := &nodes[i]
		n.nodeByID[node.ID] = node
	}

	n.linkByID = make([]*Link, n.Topology.HigherLinkID()+1)
	for _, node := range nodes {
		for ci := range node.Connections {
			c := &node.Connections[ci]
			n.linkByID[c.Link.ID] = &c.Link
		}
	}

	n.frameByID = make([]*Frame, n.higherFrameID+1)
	for _, f := range n.Frames {
		n.frameByID[f.ID] = f
	}
	if n.SHP != nil {
		n.frameByID[n.SHP.ID] = n.SHP
	}
}

// computeOffsetTimes sets each offset cell's per-transmission Time:
// ceil(size_bytes * 1000 / speed_MBs), floored at 1, for traffic
// frames; the SHP reservation copies its configured Time directly.
func (n *Network) computeOffsetTimes() {
	setTimesFor := func(f *Frame) {
		for _, oi := range f.Offsets() {
			off := n.Offsets[oi]
			if f.Role == RoleReservation {
				off.Time = f.Size
				continue
			}
			link := n.LinkByID(off.LinkID)
			t := int64(1)
			if link != nil && link.Speed > 0 {
				t = int64(math.Ceil(float64(f.Size) * 1000.0 / link.Speed))
				if t < 1 {
					t = 1
				}
			}
			off.Time = t
		}
	}
	for _, f := range n.Frames {
		setTimesFor(f)
	}
	if n.SHP != nil {
		setTimesFor(n.SHP)
	}
}

// normalizeTimeSlots divides every time quantity (frame periods,
// deadlines, starting times, end-to-end delays, offset transmission
// times, the hyperperiod and the switch's minimum inter-hop time) by
// their greatest common divisor, so the solver works over the
// smallest integer time-slot grid that preserves every quantity
// exactly.
//
// The gcd deliberately ranges over every time-valued field, not just
// the per-offset transmission times: the second pass below divides all
// of those fields, and a gcd computed from transmission times alone
// would not be guaranteed to divide a SwitchMinTime or StartingTime
// that shares no factor with them (integer truncation would then
// silently erase the value). A wider gcd only ever yields a finer
// grid, never a wrong one.
func (n *Network) normalizeTimeSlots() {
	g := n.Hyperperiod
	consider := func(v int64) {
		if v > 0 {
			g = gcd(g, v)
		}
	}
	for _, f := range n.Frames {
		consider(f.Period)
		consider(f.Deadline)
		consider(f.StartingTime)
		consider(f.EndToEndDelay)
		for _, oi := range f.Offsets() {
			consider(n.Offsets[oi].Time)
		}
	}
	if n.SHP != nil {
		consider(n.SHP.Period)
		consider(n.SHP.Deadline)
		for _, oi := range n.SHP.Offsets() {
			consider(n.Offsets[oi].Time)
		}
	}
	consider(n.SwitchMinTime)

	if g <= 1 {
		n.TimeSlot = 1
		return
	}
	n.TimeSlot = g

	div := func(v int64) int64 { return v / g }
	n.Hyperperiod = div(n.Hyperperiod)
	n.SwitchMinTime = div(n.SwitchMinTime)
	for _, f := range n.Frames {
		f.Period = div(f.Period)
		f.Deadline = div(f.Deadline)
		f.StartingTime = div(f.StartingTime)
		f.EndToEndDelay = div(f.EndToEndDelay)
		for _, oi := range f.Offsets() {
			n.Offsets[oi].Time = div(n.Offsets[oi].Time)
		}
	}
	if n.SHP != nil {
		n.SHP.Period = div(n.SHP.Period)
		n.SHP.Deadline = div(n.SHP.Deadline)
		n.SHP.Size = div(n.SHP.Size)
		for _, oi := range n.SHP.Offsets() {
			n.Offsets[oi].Time = div(n.Offsets[oi].Time)
		}
	}
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	if a < 0 {
		return -a
	}
	return a
}

type noopLogger struct{}

func (noopLogger) Debug(string)            {}
func (noopLogger) Debugf(string, ...any)   {}
func (noopLogger) Info(string)             {}
func (noopLogger) Infof(string, ...any)    {}
func (noopLogger) Warn(string)             {}
func (noopLogger) Warnf(string, ...any)    {}
