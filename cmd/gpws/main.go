// cmd/gpws/main.go
// Copyright(c) 2025 gpws contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

// gpws evaluates aircraft telemetry against the ground proximity warning
// envelopes, either live from the message bus or by replaying scenario
// files, and provides tools for checking envelope tables and generating
// test trajectories.

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gpwsim/gpws/gpws"
	"github.com/gpwsim/gpws/log"
	"github.com/gpwsim/gpws/util"

	"github.com/apenwarr/fixconsole"
	"github.com/goforj/godump"
)

var (
	logLevel     = flag.String("loglevel", "info", "logging level: debug, info, warn, error")
	logDir       = flag.String("logdir", "", "log file directory")
	envelopeFile = flag.String("envelopes", "", "filename of JSON file with envelope table (default: built-in table)")
	lintTable    = flag.Bool("lint", false, "check the validity of the envelope table")
	dumpTable    = flag.Bool("dump", false, "dump the envelope table")
	exportTable  = flag.String("export", "", "write the built-in envelope table to the given file")
	replayFile   = flag.String("replay", "", "replay the telemetry scenario in the given file")
	replayRate   = flag.Duration("rate", 0, "time between cycles when replaying (0: as fast as possible)")
	recordFile   = flag.String("record", "", "save the evaluated cycles to the given recording file")
	reviewFile   = flag.String("review", "", "print the contents of a recording file")
	natsURL      = flag.String("nats", "", "URL of NATS server to receive telemetry from")
	subject      = flag.String("subject", "gpws.telemetry", "NATS subject for telemetry messages")
	decisions    = flag.String("decisions", "gpws.decisions", "NATS subject to publish decisions on")
	genTraj      = flag.String("gentraj", "", "write test trajectories for each mode to the given directory")
	numPoints    = flag.Int("points", 20, "number of points in generated trajectories")
	gammaDeg     = flag.Float64("gamma", -10, "flight path angle for generated trajectories, in degrees")
	trajFlaps    = flag.String("flaps", "0", "flaps setting for generated trajectories")
	trajGear     = flag.String("gear", "Down", "gear setting for generated trajectories")
	trajPhase    = flag.String("phase", "Approach", "flight phase for generated trajectories")
	notify       = flag.Bool("notify", false, "post desktop notifications for alerts")
	hold         = flag.Duration("hold", 3*time.Second, "don't repeat a callout within this time after alerts clear")
)

func main() {
	flag.Parse()

	if err := fixconsole.FixConsoleIfNeeded(); err != nil {
		fmt.Printf("FixConsole: %v\n", err)
	}

	// Initialize the logging system first and foremost.
	lg := log.New(*logLevel, *logDir)
	defer lg.CatchAndReportCrash()

	if *exportTable != "" {
		if err := os.WriteFile(*exportTable, gpws.DefaultTable(), 0o644); err != nil {
			lg.Errorf("%s: %v", *exportTable, err)
			os.Exit(1)
		}
		return
	}
	if *reviewFile != "" {
		if err := review(*reviewFile, os.Stdout); err != nil {
			lg.Errorf("%s: %v", *reviewFile, err)
			os.Exit(1)
		}
		return
	}

	var e util.ErrorLogger
	r := loadResolver(&e, lg)

	if *lintTable {
		var warnings util.ErrorLogger
		gpws.Lint(r, &warnings)
		for _, w := range warnings.Errors() {
			fmt.Fprintln(os.Stderr, "warning: "+w)
		}
		if e.HaveErrors() {
			e.PrintErrors(lg)
			os.Exit(1)
		}
		for _, m := range r.Modes() {
			fmt.Printf("%s: %d envelopes\n", m, len(m.Envelopes()))
		}
		return
	}
	if e.HaveErrors() {
		e.PrintErrors(lg)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch {
	case *dumpTable:
		godump.Dump(describe(r))

	case *genTraj != "":
		var base gpws.AircraftState
		if base, err = trajectoryBase(*trajFlaps, *trajGear, *trajPhase); err == nil {
			err = generateTrajectories(*genTraj, r, base, *numPoints, *gammaDeg, lg)
		}

	case *replayFile != "":
		err = replay(ctx, *replayFile, r, lg)

	case *natsURL != "":
		err = runLive(ctx, r, lg)

	default:
		flag.Usage()
		os.Exit(2)
	}

	if err != nil {
		lg.Errorf("%v", err)
		os.Exit(1)
	}
}

func loadResolver(e *util.ErrorLogger, lg *log.Logger) *gpws.WarningResolver {
	if *envelopeFile == "" {
		return gpws.LoadDefaultResolver(e)
	}

	r, err := gpws.LoadResolver(*envelopeFile, e)
	if err != nil {
		lg.Errorf("%s: %v", *envelopeFile, err)
		os.Exit(1)
	}
	lg.Info("loaded envelope table", "file", *envelopeFile, "modes", len(r.Modes()))
	return r
}
