// cmd/gpws/live.go
// Copyright(c) 2025 gpws contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"context"
	"time"

	"github.com/gpwsim/gpws/gpws"
	"github.com/gpwsim/gpws/log"
	"github.com/gpwsim/gpws/record"
	"github.com/gpwsim/gpws/telemetry"

	"golang.org/x/sync/errgroup"
)

// runLive evaluates the telemetry received on the bus until ctx is
// canceled, publishing the decision for each cycle.
func runLive(ctx context.Context, r *gpws.WarningResolver, lg *log.Logger) error {
	bus, err := telemetry.Connect(telemetry.DefaultBusConfig(*natsURL), lg)
	if err != nil {
		return err
	}
	defer bus.Close()

	tr := telemetry.NewTracker(lg)
	cycles := make(chan telemetry.Cycle, 64)
	err = bus.SubscribeTelemetry(*subject, tr, func(c telemetry.Cycle) {
		select {
		case cycles <- c:
		default:
			lg.Warnf("t=%d: evaluation is behind; dropping cycle", c.T)
		}
	})
	if err != nil {
		return err
	}
	lg.Info("listening for telemetry", "url", *natsURL, "subject", *subject)

	ann := annunciator(lg)
	var frames []record.Frame

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case c := <-cycles:
				e := r.Evaluate(c.State)
				ann.Update(c.T, e)
				if err := bus.PublishDecision(*decisions, e); err != nil {
					return err
				}
				if *recordFile != "" {
					frames = append(frames, record.NewFrame(c.T, c.State, e))
				}
			}
		}
	})
	eg.Go(func() error {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				lg.Info("status", "time", tr.Time(), "reconnects", bus.Reconnects(),
					"alert", ann.Current())
			}
		}
	})

	if err := eg.Wait(); err != nil {
		return err
	}
	lg.Info("shutting down")
	return saveRecording(frames)
}
