// Command patch places free frames on a single link using the
// constructive interval-placement heuristic, around already-fixed
// traffic and the self-healing protocol's reserved slots.
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
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: patch [flags] <patch_in> <patch_out> <timing_out>\n")
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
		log.WithError(err).Fatal("opening patch input")
	}
	defer inFile.Close()

	input, err := xmlio.ReadPatchInput(inFile)
	if err != nil {
		log.WithError(err).Fatal("parsing patch input")
	}

	start := time.Now()
	results, err := shpsched.RunHeuristic(input)
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
		if errors.Is(err, shpsched.ErrPatchPlacementFailed) {
			log.WithError(err).Fatal("heuristic could not place a frame")
		}
		log.WithError(err).Fatal("running patch heuristic")
	}

	timeSlots := make(map[int]int64, len(input.Free))
	for _, ff := range input.Free {
		timeSlots[ff.FrameID] = ff.TimeSlots
	}

	outFile, err := os.Create(outPath)
	if err != nil {
		log.WithError(err).Fatal("creating patch output")
	}
	defer outFile.Close()

	if err := xmlio.WritePatchedSchedule(outFile, input.LinkID, results, timeSlots, duration); err != nil {
		log.WithError(err).Fatal("writing patch output")
	}

	log.Infof("patch: placed %d frames on link %d in %s", len(results), input.LinkID, duration)
}
