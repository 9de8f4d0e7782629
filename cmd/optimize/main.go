// Command optimize re-solves a single link's free frames with the
// MILP-based optimizer, maximizing slack around the fixed traffic
// already present on that link.
package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/apex/log"
	"github.com/spf13/pflag"

	"github.com/shpsched/shpsched"
	"github.com/shpsched/shpsched/xmlio"
)

func main() {
	mipGap := pflag.Float64("mip-gap", 0, "relative optimality gap accepted by the solver")
	timeLimit := pflag.Duration("time-limit", 30*time.Second, "solver time budget")
	quiet := pflag.BoolP("quiet", "q", false, "suppress solver diagnostics")
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: optimize [flags] <optimize_in> <optimize_out> <timing_out>\n")
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if pflag.NArg() != 3 {
		pflag.Usage()
		os.Exit(2)
	}
	inPath, outPath, timingPath := pflag.Arg(0), pflag.Arg(1), pflag.Arg(2)

	inFile, err := os.Open(inPath)
	if err != nil {
		log.WithError(err).Fatal("opening optimize input")
	}
	defer inFile.Close()

	input, err := xmlio.ReadPatchInput(inFile)
	if err != nil {
		log.WithError(err).Fatal("parsing optimize input")
	}

	params := shpsched.SchedulerParams{
		MIPGap:    *mipGap,
		TimeLimit: *timeLimit,
		Silent:    *quiet,
	}

	start := time.Now()
	results, err := shpsched.RunOptimizer(input, params)
	duration := time.Since(start)

	timingFile, terr := os.Create(timingPath)
	if terr != nil {
		log.WithError(terr).Fatal("creating timing output")
	}
	defer timingFile.Close()
	if terr := xmlio.WriteTiming(timingFile, duration); terr != nil {
		log.WithError(terr).Fatal("writing timing output")
	}

	if err != nil {
		if errors.Is(err, shpsched.ErrPatchInfeasible) {
			log.WithError(err).Fatal("optimizer found no feasible placement")
		}
		log.WithError(err).Fatal("running patch optimizer")
	}

	timeSlots := make(map[int]int64, len(input.Free))
	for _, ff := range input.Free {
		timeSlots[ff.FrameID] = ff.TimeSlots
	}

	outFile, err := os.Create(outPath)
	if err != nil {
		log.WithError(err).Fatal("creating optimize output")
	}
	defer outFile.Close()

	if err := xmlio.WritePatchedSchedule(outFile, input.LinkID, results, timeSlots, duration); err != nil {
		log.WithError(err).Fatal("writing optimize output")
	}

	log.Infof("optimize: placed %d frames on link %d in %s", len(results), input.LinkID, duration)
}
