package shpsched

import "strconv"

// NodeType distinguishes the roles a node can play in the topology.
type NodeType int

const (
	// NodeEndSystem is a traffic source/sink (an ECU, a sensor, ...).
	NodeEndSystem NodeType = iota

	// NodeSwitch is a time-triggered Ethernet switch.
	NodeSwitch

	// NodeAccessPoint is a wireless access point.
	NodeAccessPoint
)

// String implements fmt.Stringer.
func (t NodeType) String() string {
	switch t {
	case NodeSwitch:
		return "switch"
	case NodeAccessPoint:
		return "access-point"
	default:
		return "end-system"
	}
}

// Connection is one of a [Node]'s outgoing edges: the link it emits on
// and the peer node id reachable through it.
type Connection struct {
	// PeerNodeID is the node id on the other side of Link.
	PeerNodeID int

	// Link is the edge used to reach PeerNodeID.
	Link Link
}

// Node is a vertex of the [Topology].
type Node struct {
	// ID uniquely identifies this node across the whole network.
	ID int

	// Type is this node's role.
	Type NodeType

	// Connections lists the links this node emits on, in the order
	// they were added.
	Connections []Connection
}

// String implements fmt.Stringer.
func (n Node) String() string {
	return "node#" + strconv.Itoa(n.ID)
}
