package xmlio

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shpsched/shpsched"
)

type networkDoc struct {
	XMLName             xml.Name           `xml:"Network"`
	GeneralInformation  generalInfoIn      `xml:"GeneralInformation"`
	TopologyInformation topologyIn         `xml:"TopologyInformation"`
	TrafficDescription  trafficDescription `xml:"TrafficDescription"`
}

type generalInfoIn struct {
	MinimumTime         timeValue `xml:"MinimumTime"`
	SelfHealingProtocol *shpIn    `xml:"SelfHealingProtocol"`
}

type shpIn struct {
	Period int64 `xml:"Period"`
	Time   int64 `xml:"Time"`
}

type timeValue struct {
	Unit  string `xml:"unit,attr"`
	Value int64  `xml:",chardata"`
}

type topologyIn struct {
	Nodes []nodeIn `xml:"Node"`
}

type nodeIn struct {
	Category    string         `xml:"category,attr"`
	NodeID      int            `xml:"NodeID"`
	Connections []connectionIn `xml:"Connection"`
}

type connectionIn struct {
	NodeID int    `xml:"NodeID"`
	Link   linkIn `xml:"Link"`
}

type linkIn struct {
	LinkID   int        `xml:"LinkID"`
	Category string     `xml:"category"`
	Speed    speedValue `xml:"Speed"`
	Replicas int        `xml:"Replicas"`
}

type speedValue struct {
	Unit  string  `xml:"unit,attr"`
	Value float64 `xml:",chardata"`
}

type trafficDescription struct {
	Frames []frameIn `xml:"Frame"`
}

type frameIn struct {
	FrameID      int        `xml:"FrameID"`
	SenderID     int        `xml:"SenderID"`
	Period       timeValue  `xml:"Period"`
	Deadline     *timeValue `xml:"Deadline"`
	Size         *sizeValue `xml:"Size"`
	StartingTime *timeValue `xml:"StartingTime"`
	EndToEnd     *timeValue `xml:"EndToEnd"`
	Paths        pathsIn    `xml:"Paths"`
}

type sizeValue struct {
	Unit  string `xml:"unit,attr"`
	Value int64  `xml:",chardata"`
}

type pathsIn struct {
	Receivers []receiverIn `xml:"Receiver"`
}

type receiverIn struct {
	ReceiverID int    `xml:"ReceiverID"`
	Path       string `xml:"Path"`
}

// NetworkInput is the parsed, unit-converted contents of a network
// input document: a complete topology, a switch minimum processing
// delay in nanoseconds, an optional SHP configuration, and a traffic
// registry of frames not yet added to a [shpsched.Network].
type NetworkInput struct {
	Topology      *shpsched.Topology
	SwitchMinTime int64
	SHP           *shpsched.SHPConfig
	Frames        []*shpsched.Frame
}

// ReadNetwork parses a network+traffic input document.
func ReadNetwork(r io.Reader) (*NetworkInput, error) {
	var doc networkDoc
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("xmlio: decoding network document: %w", err)
	}

	switchMinTime, err := timeToNanos(doc.GeneralInformation.MinimumTime.Value, doc.GeneralInformation.MinimumTime.Unit)
	if err != nil {
		return nil, err
	}

	var shp *shpsched.SHPConfig
	if s := doc.GeneralInformation.SelfHealingProtocol; s != nil && s.Period > 0 {
		shp = &shpsched.SHPConfig{Period: s.Period, Time: s.Time}
	}

	topology := shpsched.NewTopology()
	for _, nin := range doc.TopologyInformation.Nodes {
		typ, err := parseNodeCategory(nin.Category)
		if err != nil {
			return nil, err
		}
		if err := topology.AddNode(nin.NodeID, typ); err != nil {
			return nil, err
		}
	}
	for _, nin := range doc.TopologyInformation.Nodes {
		for _, cin := range nin.Connections {
			linkType, err := parseLinkCategory(cin.Link.Category)
			if err != nil {
				return nil, err
			}
			speed, err := speedToMBs(cin.Link.Speed.Value, cin.Link.Speed.Unit)
			if err != nil {
				return nil, err
			}
			replicas := cin.Link.Replicas
			if replicas <= 0 {
				replicas = 1
			}
			link := shpsched.Link{
				ID:       cin.Link.LinkID,
				Speed:    speed,
				Type:     linkType,
				Replicas: replicas,
			}
			if err := topology.AddConnection(nin.NodeID, cin.NodeID, link); err != nil {
				return nil, err
			}
		}
	}

	var frames []*shpsched.Frame
	for _, fin := range doc.TrafficDescription.Frames {
		f, err := parseFrame(fin)
		if err != nil {
			return nil, err
		}
		frames = append(frames, f)
	}

	return &NetworkInput{
		Topology:      topology,
		SwitchMinTime: switchMinTime,
		SHP:           shp,
		Frames:        frames,
	}, nil
}

func parseFrame(fin frameIn) (*shpsched.Frame, error) {
	period, err := timeToNanos(fin.Period.Value, fin.Period.Unit)
	if err != nil {
		return nil, err
	}

	deadline := period
	if fin.Deadline != nil && fin.Deadline.Value > 0 {
		deadline, err = timeToNanos(fin.Deadline.Value, fin.Deadline.Unit)
		if err != nil {
			return nil, err
		}
	}

	size := int64(1000)
	if fin.Size != nil {
		size, err = sizeToBytes(fin.Size.Value, fin.Size.Unit)
		if err != nil {
			return nil, err
		}
	}

	var startingTime int64
	if fin.StartingTime != nil {
		startingTime, err = timeToNanos(fin.StartingTime.Value, fin.StartingTime.Unit)
		if err != nil {
			return nil, err
		}
	}

	var e2e int64
	if fin.EndToEnd != nil {
		e2e, err = timeToNanos(fin.EndToEnd.Value, fin.EndToEnd.Unit)
		if err != nil {
			return nil, err
		}
	}

	f := &shpsched.Frame{
		ID:            fin.FrameID,
		SenderID:      fin.SenderID,
		Period:        period,
		Deadline:      deadline,
		Size:          size,
		StartingTime:  startingTime,
		EndToEndDelay: e2e,
	}
	for _, rin := range fin.Paths.Receivers {
		links, err := parsePath(rin.Path)
		if err != nil {
			return nil, fmt.Errorf("xmlio: frame %d: %w", fin.FrameID, err)
		}
		f.Paths = append(f.Paths, shpsched.Path{ReceiverID: rin.ReceiverID, Links: links})
	}
	return f, nil
}

func parsePath(s string) ([]int, error) {
	parts := strings.Split(strings.TrimSpace(s), ";")
	links := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid path link id %q: %w", p, err)
		}
		links = append(links, id)
	}
	if len(links) == 0 {
		return nil, fmt.Errorf("empty path")
	}
	return links, nil
}

func parseNodeCategory(s string) (shpsched.NodeType, error) {
	switch s {
	case "EndSystem", "":
		return shpsched.NodeEndSystem, nil
	case "Switch":
		return shpsched.NodeSwitch, nil
	case "AccessPoint":
		return shpsched.NodeAccessPoint, nil
	default:
		return 0, fmt.Errorf("xmlio: unknown node category %q", s)
	}
}

func parseLinkCategory(s string) (shpsched.LinkType, error) {
	switch s {
	case "Wired", "":
		return shpsched.LinkWired, nil
	case "Wireless":
		return shpsched.LinkWireless, nil
	default:
		return 0, fmt.Errorf("xmlio: unknown link category %q", s)
	}
}
