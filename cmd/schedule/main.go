// Command schedule synthesizes a collision-free transmission schedule
// for a time-triggered Ethernet network.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/apex/log"
	"github.com/spf13/pflag"

	"github.com/shpsched/shpsched"
	"github.com/shpsched/shpsched/internal"
	"github.com/shpsched/shpsched/xmlio"
)

func main() {
	quiet := pflag.BoolP("quiet", "q", false, "suppress solver diagnostics")
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: schedule [flags] <network_in> <params_in> <schedule_out>\n")
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if pflag.NArg() != 3 {
		pflag.Usage()
		os.Exit(2)
	}
	networkPath, paramsPath, outPath := pflag.Arg(0), pflag.Arg(1), pflag.Arg(2)

	networkFile, err := os.Open(networkPath)
	if err != nil {
		log.WithError(err).Fatal("opening network input")
	}
	defer networkFile.Close()

	input, err := xmlio.ReadNetwork(networkFile)
	if err != nil {
		log.WithError(err).Fatal("parsing network input")
	}

	paramsFile, err := os.Open(paramsPath)
	if err != nil {
		log.WithError(err).Fatal("opening scheduler params")
	}
	defer paramsFile.Close()

	params, err := xmlio.ReadParams(paramsFile)
	if err != nil {
		log.WithError(err).Fatal("parsing scheduler params")
	}
	params.Silent = *quiet

	var engineLogger shpsched.Logger = log.Log
	if *quiet {
		engineLogger = internal.Quiet
	}
	net, err := shpsched.NewNetwork(input.Topology, input.SwitchMinTime, input.SHP, engineLogger)
	if err != nil {
		log.WithError(err).Fatal("constructing network")
	}
	for _, f := range input.Frames {
		if err := net.AddFrame(f); err != nil {
			log.WithError(err).Fatal("adding frame")
		}
	}
	if err := net.Prepare(); err != nil {
		log.WithError(err).Fatal("preparing network")
	}

	start := time.Now()
	if err := shpsched.Schedule(net, params); err != nil {
		log.WithError(err).Fatal("scheduling")
	}
	duration := time.Since(start)

	if err := shpsched.Validate(net); err != nil {
		log.WithError(err).Fatal("validating schedule")
	}

	if _, err := shpsched.BuildReport(net, duration, engineLogger); err != nil {
		log.WithError(err).Warn("building report")
	}

	outFile, err := os.Create(outPath)
	if err != nil {
		log.WithError(err).Fatal("creating schedule output")
	}
	defer outFile.Close()

	if err := xmlio.WriteSchedule(outFile, net, input.SHP); err != nil {
		log.WithError(err).Fatal("writing schedule output")
	}

	log.Infof("schedule: wrote %s in %s", outPath, duration)
}
