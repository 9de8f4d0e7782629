package shpsched

import (
	"time"

	"github.com/montanaflynn/stats"
)

// Report summarizes a completed [Schedule] run: the spread of slack
// left on each link and how long the solve took. It is purely
// diagnostic; nothing downstream depends on it.
type Report struct {
	LinkCount       int
	MeanLinkSlack   float64
	StdDevLinkSlack float64
	SolveDuration   time.Duration
}

// BuildReport computes slack statistics over net.LinkSlack (populated
// by the most recent [Schedule] call) and logs a one-line summary
// through logger.
func BuildReport(net *Network, solveDuration time.Duration, logger Logger) (*Report, error) {
	if logger == nil {
		logger = &noopLogger{}
	}
	values := make([]float64, 0, len(net.LinkSlack))
	for _, v := range net.LinkSlack {
		values = append(values, float64(v))
	}

	var mean, stddev float64
	var err error
	if len(values) > 0 {
		mean, err = stats.Mean(values)
		if err != nil {
			return nil, err
		}
		stddev, err = stats.StandardDeviation(values)
		if err != nil {
			return nil, err
		}
	}

	r := &Report{
		LinkCount:       len(values),
		MeanLinkSlack:   mean,
		StdDevLinkSlack: stddev,
		SolveDuration:   solveDuration,
	}
	logger.Infof("schedule: %d links, mean slack %.2f slots (stddev %.2f), solved in %s",
		r.LinkCount, r.MeanLinkSlack, r.StdDevLinkSlack, r.SolveDuration)
	return r, nil
}
