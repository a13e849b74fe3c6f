// cmd/gpws/gentraj.go
// Copyright(c) 2025 gpws contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gpwsim/gpws/gpws"
	"github.com/gpwsim/gpws/log"
	"github.com/gpwsim/gpws/math"
	"github.com/gpwsim/gpws/traj"

	"golang.org/x/sync/errgroup"
)

// trajectoryBase returns the state that generated trajectories start
// from; each trajectory then overrides its mode's two axis channels.
func trajectoryBase(flaps, gear, phase string) (gpws.AircraftState, error) {
	var s gpws.AircraftState
	var err error
	if s.Flaps, err = gpws.ParseFlaps(flaps); err != nil {
		return s, err
	}
	if s.Gear, err = gpws.ParseGear(gear); err != nil {
		return s, err
	}
	if s.Phase, err = gpws.ParsePhase(phase); err != nil {
		return s, err
	}

	s.Set(gpws.VerticalSpeed, 15)
	s.Set(gpws.RadioAltitude, 5000)
	s.Set(gpws.TerrainClosureRate, 0)
	s.Set(gpws.MSLAltitudeLoss, 0)
	s.Set(gpws.GlideSlopeDeviation, 0)
	s.Set(gpws.RollAngle, 0)
	// Computed airspeed is left unknown unless a trajectory derives it.
	return s, nil
}

// generateTrajectories writes one scenario file per mode and trajectory
// kind to dir.
func generateTrajectories(dir string, r *gpws.WarningResolver, base gpws.AircraftState, n int,
	gammaDeg float64, lg *log.Logger) error {
	if n <= 0 {
		return fmt.Errorf("%d: invalid number of trajectory points", n)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	gamma := math.Radians(gammaDeg)
	var eg errgroup.Group
	for _, m := range r.Modes() {
		if m.Extent().Empty() {
			lg.Warnf("%s: no envelopes; skipping trajectories", m.Name)
			continue
		}
		for _, k := range traj.Kinds {
			m, k := m, k
			eg.Go(func() error {
				states := traj.Generate(m, k.Segment(m), n, base, gamma)
				fn := filepath.Join(dir, traj.Name(m, k))
				if err := writeScenarioFile(fn, states); err != nil {
					return fmt.Errorf("%s: %w", fn, err)
				}
				lg.Debug("wrote trajectory", "file", fn, "points", len(states))
				return nil
			})
		}
	}
	return eg.Wait()
}

func writeScenarioFile(fn string, states []gpws.AircraftState) error {
	f, err := os.Create(fn)
	if err != nil {
		return err
	}
	if err := traj.WriteScenario(f, states); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
