// cmd/gpws/replay.go
// Copyright(c) 2025 gpws contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"

	"golang.org/x/exp/maps"

	"github.com/gpwsim/gpws/annunciate"
	"github.com/gpwsim/gpws/gpws"
	"github.com/gpwsim/gpws/log"
	"github.com/gpwsim/gpws/record"
	"github.com/gpwsim/gpws/telemetry"
)

func annunciator(lg *log.Logger, extra ...annunciate.Sink) *annunciate.Annunciator {
	sinks := append([]annunciate.Sink{annunciate.LogSink{Logger: lg}}, extra...)
	if *notify {
		sinks = append(sinks, annunciate.NewDesktopSink("GPWS", ""))
	}
	return annunciate.New(*hold, lg, sinks...)
}

func replay(ctx context.Context, fn string, r *gpws.WarningResolver, lg *log.Logger) error {
	f, err := os.Open(fn)
	if err != nil {
		return err
	}
	defer f.Close()

	ann := annunciator(lg)
	var frames []record.Frame

	err = telemetry.Replay(ctx, f, telemetry.NewTracker(lg), *replayRate, lg,
		func(c telemetry.Cycle) error {
			e := r.Evaluate(c.State)
			ann.Update(c.T, e)
			printCycle(os.Stdout, c, e, r.Classify(c.State))
			frames = append(frames, record.NewFrame(c.T, c.State, e))
			return nil
		})
	if err != nil {
		return fmt.Errorf("%s: %w", fn, err)
	}

	return saveRecording(frames)
}

func printCycle(w io.Writer, c telemetry.Cycle, e *gpws.Envelope, results []gpws.ModeResult) {
	if e == nil {
		fmt.Fprintf(w, "t=%d no alert\n", c.T)
	} else {
		fmt.Fprintf(w, "t=%d %s\n", c.T, e)
	}
	for _, res := range results {
		switch res.Status {
		case gpws.ModeEvaluated:
			hit := "-"
			if res.Envelope != nil {
				hit = res.Envelope.Name()
			}
			fmt.Fprintf(w, "    %-8s (%.1f, %.1f) %s\n", res.Mode.Name, res.Point[0], res.Point[1], hit)
		default:
			fmt.Fprintf(w, "    %-8s %s\n", res.Mode.Name, res.Status)
		}
	}
}

func saveRecording(frames []record.Frame) error {
	if *recordFile == "" {
		return nil
	}

	f, err := os.Create(*recordFile)
	if err != nil {
		return err
	}
	if err := record.Write(f, frames); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", *recordFile, err)
	}
	return f.Close()
}

// review prints a recording's alert transitions followed by the number
// of cycles each warning was active.
func review(fn string, w io.Writer) error {
	f, err := os.Open(fn)
	if err != nil {
		return err
	}
	defer f.Close()

	rec, err := record.Read(f)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%s: %d cycles recorded %s\n", fn, len(rec.Frames), rec.Created.Format("2006-01-02 15:04:05"))

	counts := make(map[string]int)
	prev := ""
	for _, fr := range rec.Frames {
		cur := ""
		if fr.Active() {
			cur = fr.Mode + " / " + fr.Warning
			counts[cur]++
		}
		if cur != prev {
			if cur == "" {
				fmt.Fprintf(w, "t=%d clear\n", fr.T)
			} else {
				fmt.Fprintf(w, "t=%d %s (%s, priority %g) %q  %s\n", fr.T, cur, fr.Class, fr.Priority, fr.Callout, fr.State)
			}
			prev = cur
		}
	}

	keys := maps.Keys(counts)
	slices.Sort(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "%6d  %s\n", counts[k], k)
	}
	return nil
}
