package xmlio

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/shpsched/shpsched"
)

type scheduleOut struct {
	XMLName            xml.Name           `xml:"Schedule"`
	GeneralInformation scheduleGeneralOut `xml:"GeneralInformation"`
	TrafficInformation scheduleTrafficOut `xml:"TrafficInformation"`
}

type scheduleGeneralOut struct {
	TimeslotSize        int64   `xml:"TimeslotSize"`
	HyperPeriod         int64   `xml:"HyperPeriod"`
	SelfHealingProtocol *shpOut `xml:"SelfHealingProtocol,omitempty"`
	NumberLinks         int     `xml:"NumberLinks"`
	NumberNodes         int     `xml:"NumberNodes"`
	NumberFrames        int     `xml:"NumberFrames"`
}

type shpOut struct {
	Period int64 `xml:"Period"`
	Time   int64 `xml:"Time"`
}

type scheduleTrafficOut struct {
	Frames []scheduleFrameOut `xml:"Frame"`
}

type scheduleFrameOut struct {
	FrameID       int               `xml:"FrameID"`
	Period        int64             `xml:"Period"`
	Deadline      int64             `xml:"Deadline"`
	Size          int64             `xml:"Size"`
	StartingTime  int64             `xml:"StartingTime"`
	EndToEndDelay int64             `xml:"EndToEndDelay"`
	Paths         []schedulePathOut `xml:"Path"`
}

type schedulePathOut struct {
	PathNum int               `xml:"PathNum"`
	Links   []scheduleLinkOut `xml:"Link"`
}

type scheduleLinkOut struct {
	LinkID    int                   `xml:"LinkID"`
	Instances []scheduleInstanceOut `xml:"Instance"`
}

type scheduleInstanceOut struct {
	NumInstance      int                  `xml:"NumInstance"`
	TransmissionTime int64                `xml:"TransmissionTime"`
	EndingTime       int64                `xml:"EndingTime"`
	Replicas         []scheduleReplicaOut `xml:"Replica,omitempty"`
}

type scheduleReplicaOut struct {
	NumInstance      int   `xml:"NumInstance"`
	TransmissionTime int64 `xml:"TransmissionTime"`
	EndingTime       int64 `xml:"EndingTime"`
}

// WriteSchedule writes the final schedule document for a solved and
// validated network.
func WriteSchedule(w io.Writer, net *shpsched.Network, shp *shpsched.SHPConfig) error {
	doc := scheduleOut{
		GeneralInformation: scheduleGeneralOut{
			TimeslotSize: net.TimeSlot,
			HyperPeriod:  net.Hyperperiod,
			NumberLinks:  net.Topology.HigherLinkID() + 1,
			NumberNodes:  net.Topology.HigherNodeID() + 1,
			NumberFrames: len(net.Frames),
		},
	}
	if shp != nil {
		doc.GeneralInformation.SelfHealingProtocol = &shpOut{Period: shp.Period, Time: shp.Time}
	}

	for _, f := range net.Frames {
		fout := scheduleFrameOut{
			FrameID:       f.ID,
			Period:        f.Period,
			Deadline:      f.Deadline,
			Size:          f.Size,
			StartingTime:  f.StartingTime,
			EndToEndDelay: f.EndToEndDelay,
		}
		for pi, p := range f.Paths {
			pout := schedulePathOut{PathNum: pi}
			for hop, linkID := range p.Links {
				off := net.Offsets[p.Offsets[hop]]
				lout := scheduleLinkOut{LinkID: linkID}
				for inst := 0; inst < off.NumInstances; inst++ {
					start := off.Start[inst][0]
					iout := scheduleInstanceOut{
						NumInstance:      inst,
						TransmissionTime: start,
						EndingTime:       start + off.Time - 1,
					}
					for repl := 1; repl < off.NumReplicas; repl++ {
						rs := off.Start[inst][repl]
						iout.Replicas = append(iout.Replicas, scheduleReplicaOut{
							NumInstance:      inst,
							TransmissionTime: rs,
							EndingTime:       rs + off.Time - 1,
						})
					}
					lout.Instances = append(lout.Instances, iout)
				}
				pout.Links = append(pout.Links, lout)
			}
			fout.Paths = append(fout.Paths, pout)
		}
		doc.TrafficInformation.Frames = append(doc.TrafficInformation.Frames, fout)
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("xmlio: encoding schedule: %w", err)
	}
	return nil
}

// ScheduledTransmission is one (frame, link, instance, replica) ->
// start-time tuple read back from a schedule document. It exists so
// round-tripping a written schedule (serialize then reparse yields
// identical tuples) can be checked without comparing raw XML.
type ScheduledTransmission struct {
	FrameID  int
	LinkID   int
	Instance int
	Replica  int
	Start    int64
}

// ReadScheduleTransmissions parses a document written by
// [WriteSchedule] and flattens every (frame, link, instance, replica)
// transmission time into one slice, in document order.
func ReadScheduleTransmissions(r io.Reader) ([]ScheduledTransmission, error) {
	var doc scheduleOut
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("xmlio: decoding schedule: %w", err)
	}
	var out []ScheduledTransmission
	for _, f := range doc.TrafficInformation.Frames {
		for _, p := range f.Paths {
			for _, l := range p.Links {
				for _, inst := range l.Instances {
					out = append(out, ScheduledTransmission{
						FrameID: f.FrameID, LinkID: l.LinkID,
						Instance: inst.NumInstance, Replica: 0,
						Start: inst.TransmissionTime,
					})
					for ri, repl := range inst.Replicas {
						out = append(out, ScheduledTransmission{
							FrameID: f.FrameID, LinkID: l.LinkID,
							Instance: repl.NumInstance, Replica: ri + 1,
							Start: repl.TransmissionTime,
						})
					}
				}
			}
		}
	}
	return out, nil
}
