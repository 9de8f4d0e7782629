package shpsched

import "fmt"

// Topology is the ordered collection of nodes and links that make up a
// network, before preparation. Use [NewTopology] to build one, then
// pass it to [NewNetwork].
type Topology struct {
	nodes        []Node
	nodeIndex    map[int]int // node id -> index into nodes
	linkOwner    map[int]int // link id -> owning node id
	links        map[int]Link
	higherNodeID int
	higherLinkID int
}

// NewTopology returns an empty topology.
func NewTopology() *Topology {
	return &Topology{
		nodeIndex: make(map[int]int),
		linkOwner: make(map[int]int),
		links:     make(map[int]Link),
	}
}

// AddNode registers a node. The node's Connections must be empty; use
// [Topology.AddConnection] to add links afterwards. Returns
// [ErrDuplicateNodeID] if the id is already taken.
func (t *Topology) AddNode(id int, typ NodeType) error {
	if _, ok := t.nodeIndex[id]; ok {
		return fmt.Errorf("%w: %d", ErrDuplicateNodeID, id)
	}
	t.nodeIndex[id] = len(t.nodes)
	t.nodes = append(t.nodes, Node{ID: id, Type: typ})
	if id > t.higherNodeID {
		t.higherNodeID = id
	}
	return nil
}

// AddConnection adds an outgoing link from nodeID to peerID. Returns
// [ErrUnknownNode] if nodeID has not been added yet, and
// [ErrDuplicateLinkID] if the link id is already used anywhere in the
// network.
func (t *Topology) AddConnection(nodeID int, peerID int, link Link) error {
	idx, ok := t.nodeIndex[nodeID]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownNode, nodeID)
	}
	if _, ok := t.linkOwner[link.ID]; ok {
		return fmt.Errorf("%w: %d", ErrDuplicateLinkID, link.ID)
	}
	if link.Replicas == 0 {
		link.Replicas = 1
	}
	t.linkOwner[link.ID] = nodeID
	t.links[link.ID] = link
	t.nodes[idx].Connections = append(t.nodes[idx].Connections, Connection{
		PeerNodeID: peerID,
		Link:       link,
	})
	if link.ID > t.higherLinkID {
		t.higherLinkID = link.ID
	}
	return nil
}

// Nodes returns the nodes in insertion order.
func (t *Topology) Nodes() []Node {
	return t.nodes
}

// HigherNodeID returns the largest node id registered so far.
func (t *Topology) HigherNodeID() int {
	return t.higherNodeID
}

// HigherLinkID returns the largest link id registered so far.
func (t *Topology) HigherLinkID() int {
	return t.higherLinkID
}

// NodeByID returns the node with the given id, if any.
func (t *Topology) NodeByID(id int) (*Node, bool) {
	idx, ok := t.nodeIndex[id]
	if !ok {
		return nil, false
	}
	return &t.nodes[idx], true
}

// LinkByID returns the link with the given id, if any.
func (t *Topology) LinkByID(id int) (Link, bool) {
	l, ok := t.links[id]
	return l, ok
}
