package xmlio

import (
	"encoding/xml"
	"fmt"
	"io"
	"time"

	"github.com/shpsched/shpsched"
)

type scheduleParamsDoc struct {
	XMLName         xml.Name    `xml:"Schedule"`
	Algorithm       algorithmIn `xml:"Algorithm"`
	MIPGAP          float64     `xml:"MIPGAP"`
	TimeLimit       float64     `xml:"TimeLimit"`
	FramesIteration int         `xml:"FramesIteration"`
}

type algorithmIn struct {
	Name string `xml:"name,attr"`
}

// ReadParams parses a scheduler-params input document.
func ReadParams(r io.Reader) (shpsched.SchedulerParams, error) {
	var doc scheduleParamsDoc
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return shpsched.SchedulerParams{}, fmt.Errorf("xmlio: decoding scheduler params: %w", err)
	}
	if doc.TimeLimit <= 0 {
		return shpsched.SchedulerParams{}, fmt.Errorf("xmlio: TimeLimit must be > 0")
	}

	var algo shpsched.Algorithm
	switch doc.Algorithm.Name {
	case "OneShot", "":
		algo = shpsched.OneShot
	case "Incremental":
		algo = shpsched.Incremental
		if doc.FramesIteration < 1 {
			return shpsched.SchedulerParams{}, fmt.Errorf("xmlio: FramesIteration must be >= 1 for Incremental")
		}
	default:
		return shpsched.SchedulerParams{}, fmt.Errorf("xmlio: unknown algorithm %q", doc.Algorithm.Name)
	}

	return shpsched.SchedulerParams{
		Algorithm:          algo,
		MIPGap:             doc.MIPGAP,
		TimeLimit:          time.Duration(doc.TimeLimit * float64(time.Second)),
		FramesPerIteration: doc.FramesIteration,
	}, nil
}
