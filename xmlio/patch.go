package xmlio

import (
	"encoding/xml"
	"fmt"
	"io"
	"time"

	"github.com/shpsched/shpsched"
)

type patchInputDoc struct {
	XMLName        xml.Name `xml:"GeneralInformation"`
	LinkID         int      `xml:"LinkID"`
	ProtocolPeriod int64    `xml:"ProtocolPeriod"`
	ProtocolTime   int64    `xml:"ProtocolTime"`
	HyperPeriod    int64    `xml:"HyperPeriod"`
}

// patchBundleDoc is the real top-level element: a GeneralInformation
// block followed by FixedTraffic and Traffic sections. It is kept
// separate from patchInputDoc because GeneralInformation also needs to
// decode standalone in case a caller wants just that section.
type patchBundleDoc struct {
	XMLName      xml.Name       `xml:"PatchInput"`
	General      patchInputDoc  `xml:"GeneralInformation"`
	FixedTraffic fixedTrafficIn `xml:"FixedTraffic"`
	Traffic      trafficFreeIn  `xml:"Traffic"`
}

type fixedTrafficIn struct {
	Frames []fixedFrameIn `xml:"Frame"`
}

type fixedFrameIn struct {
	FrameID int           `xml:"FrameID"`
	Offset  fixedOffsetIn `xml:"Offset"`
}

type fixedOffsetIn struct {
	Instances []fixedInstanceIn `xml:"Instance"`
}

type fixedInstanceIn struct {
	TransmissionTime int64 `xml:"TransmissionTime"`
	EndingTime       int64 `xml:"EndingTime"`
}

type trafficFreeIn struct {
	Frames []freeFrameIn `xml:"Frame"`
}

type freeFrameIn struct {
	FrameID int          `xml:"FrameID"`
	Offset  freeOffsetIn `xml:"Offset"`
}

type freeOffsetIn struct {
	TimeSlots int64            `xml:"TimeSlots"`
	Instances []freeInstanceIn `xml:"Instance"`
}

type freeInstanceIn struct {
	MinTransmission int64 `xml:"MinTransmission"`
	MaxTransmission int64 `xml:"MaxTransmission"`
}

// ReadPatchInput parses a patch or optimize input document. Both
// operations share the same document shape.
func ReadPatchInput(r io.Reader) (*shpsched.PatchInput, error) {
	var doc patchBundleDoc
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("xmlio: decoding patch input: %w", err)
	}

	input := &shpsched.PatchInput{
		LinkID:         doc.General.LinkID,
		ProtocolPeriod: doc.General.ProtocolPeriod,
		ProtocolTime:   doc.General.ProtocolTime,
		HyperPeriod:    doc.General.HyperPeriod,
	}
	for _, fin := range doc.FixedTraffic.Frames {
		ff := shpsched.PatchFixedFrame{FrameID: fin.FrameID}
		for _, iin := range fin.Offset.Instances {
			ff.Instances = append(ff.Instances, shpsched.PatchFixedInstance{
				TransmissionTime: iin.TransmissionTime,
				EndingTime:       iin.EndingTime,
			})
		}
		input.Fixed = append(input.Fixed, ff)
	}
	for _, fin := range doc.Traffic.Frames {
		ff := shpsched.PatchFreeFrame{FrameID: fin.FrameID, TimeSlots: fin.Offset.TimeSlots}
		for _, iin := range fin.Offset.Instances {
			ff.Instances = append(ff.Instances, shpsched.PatchRange{
				Min: iin.MinTransmission,
				Max: iin.MaxTransmission,
			})
		}
		input.Free = append(input.Free, ff)
	}
	return input, nil
}

type patchedScheduleOut struct {
	XMLName            xml.Name          `xml:"PatchedSchedule"`
	GeneralInformation patchedGeneralOut `xml:"GeneralInformation"`
	TrafficInformation patchedTrafficOut `xml:"TrafficInformation"`
	Timing             timingOut         `xml:"Timing"`
}

type patchedGeneralOut struct {
	LinkID int `xml:"LinkID"`
}

type patchedTrafficOut struct {
	Frames []patchedFrameOut `xml:"Frame"`
}

type patchedFrameOut struct {
	FrameID   int                  `xml:"FrameID"`
	Instances []patchedInstanceOut `xml:"Instance"`
}

type patchedInstanceOut struct {
	NumInstance      int   `xml:"NumInstance"`
	TransmissionTime int64 `xml:"TransmissionTime"`
	EndingTime       int64 `xml:"EndingTime"`
}

type timingOut struct {
	ExecutionTime int64 `xml:"ExecutionTime"`
}

// WritePatchedSchedule writes the result of a successful patch or
// optimize run (linkID identifies the target link, timeSlots is each
// result frame's transmission duration indexed by FrameID).
func WritePatchedSchedule(w io.Writer, linkID int, results []shpsched.PatchFrameResult, timeSlots map[int]int64, duration time.Duration) error {
	doc := patchedScheduleOut{
		GeneralInformation: patchedGeneralOut{LinkID: linkID},
		Timing:             timingOut{ExecutionTime: duration.Nanoseconds()},
	}
	for _, res := range results {
		length := timeSlots[res.FrameID]
		fout := patchedFrameOut{FrameID: res.FrameID}
		for k, start := range res.Instances {
			fout.Instances = append(fout.Instances, patchedInstanceOut{
				NumInstance:      k,
				TransmissionTime: start,
				EndingTime:       start + length - 1,
			})
		}
		doc.TrafficInformation.Frames = append(doc.TrafficInformation.Frames, fout)
	}
	return encodeXML(w, doc)
}

// WriteTiming writes a standalone timing document. The patch and
// optimize commands write it on every run, before checking for
// failure, so a failed run still reports that an attempt occurred.
func WriteTiming(w io.Writer, duration time.Duration) error {
	doc := struct {
		XMLName       xml.Name `xml:"Timing"`
		ExecutionTime int64    `xml:"ExecutionTime"`
	}{ExecutionTime: duration.Nanoseconds()}
	return encodeXML(w, doc)
}

func encodeXML(w io.Writer, v any) error {
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("xmlio: encoding document: %w", err)
	}
	return nil
}
