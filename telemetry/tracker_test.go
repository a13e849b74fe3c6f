// telemetry/tracker_test.go
// Copyright(c) 2025 gpws contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package telemetry

import (
	"context"
	"errors"
	gomath "math"
	"strings"
	"sync"
	"testing"

	"github.com/gpwsim/gpws/gpws"
)

func near(a, b float64) bool {
	return gomath.Abs(a-b) <= 1e-9*max(1, gomath.Abs(b))
}

func TestTrackerConversions(t *testing.T) {
	tr := NewTracker(nil)
	tr.Apply(RadioAltimeter{GroundAlt: 152.4})
	tr.Apply(StateVector{Vp: 100, FPA: -gomath.Pi / 6, Phi: gomath.Pi / 4})
	tr.Apply(Config{Gear: gpws.GearDown, Flaps: gpws.Flaps3})
	tr.Apply(Phase{Phase: gpws.PhaseApproach})
	tr.Apply(ChannelUpdate{Channel: gpws.GlideSlopeDeviation, Value: gpws.Known(1.5)})

	s := tr.Snapshot()
	for _, tc := range []struct {
		ch       gpws.Channel
		expected float64
	}{
		{gpws.RadioAltitude, 500},
		{gpws.VerticalSpeed, 50 / 0.00508}, // descending at 50 m/s
		{gpws.ComputedAirspeed, 100 / 0.514444},
		{gpws.RollAngle, 45},
		{gpws.GlideSlopeDeviation, 1.5},
	} {
		if v, ok := s.Get(tc.ch); !ok || !near(v, tc.expected) {
			t.Errorf("%s: got %v (%v), expected %v", tc.ch, v, ok, tc.expected)
		}
	}
	if _, ok := s.Get(gpws.TerrainClosureRate); ok {
		t.Errorf("terrain closure rate should be unknown")
	}
	if s.Gear != gpws.GearDown || s.Flaps != gpws.Flaps3 || s.Phase != gpws.PhaseApproach {
		t.Errorf("got configuration %s", s)
	}

	tr.Apply(ChannelUpdate{Channel: gpws.GlideSlopeDeviation})
	if _, ok := tr.Snapshot().Get(gpws.GlideSlopeDeviation); ok {
		t.Errorf("glide slope deviation not cleared")
	}

	// Snapshots are independent of later updates.
	tr.Apply(RadioAltimeter{GroundAlt: 0})
	if v, _ := s.Get(gpws.RadioAltitude); !near(v, 500) {
		t.Errorf("snapshot changed to %v", v)
	}
}

func TestTrackerCycles(t *testing.T) {
	tr := NewTracker(nil)

	if _, ok := tr.Apply(Time{T: 0}); ok {
		t.Errorf("first Time message completed a cycle")
	}
	tr.Apply(RadioAltimeter{GroundAlt: 100})
	c, ok := tr.Apply(Time{T: 1})
	if !ok || c.T != 0 {
		t.Fatalf("got cycle %+v, %v", c, ok)
	}
	if _, known := c.State.Get(gpws.RadioAltitude); !known {
		t.Errorf("cycle state missing radio altitude")
	}
	if tr.Time() != 1 {
		t.Errorf("got time %d", tr.Time())
	}

	// Decisions don't affect the state.
	tr.Apply(Clear{})
	if _, ok := tr.Flush(); ok {
		t.Errorf("Flush returned a cycle with nothing applied")
	}

	tr.Apply(Phase{Phase: gpws.PhaseTakeoff})
	if c, ok := tr.Flush(); !ok || c.T != 1 || c.State.Phase != gpws.PhaseTakeoff {
		t.Errorf("got flushed cycle %+v, %v", c, ok)
	}
}

func TestTrackerConcurrent(t *testing.T) {
	tr := NewTracker(nil)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			tr.Apply(ChannelUpdate{Channel: gpws.RollAngle, Value: gpws.Known(float64(i))})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			s := tr.Snapshot()
			if v, ok := s.Get(gpws.RollAngle); ok && (v < 0 || v >= 1000) {
				t.Errorf("got roll %v", v)
			}
		}
	}()
	wg.Wait()
}

const scenario = `# mode 1 descent
Time t=0
RadioAltimeter groundAlt=304.8
Channel name=VerticalSpeed value=1000
Time t=1
[Test ready]
Channel name=VerticalSpeed value=4000

Time t=2
Channel name=VerticalSpeed value=unknown
`

func TestReplay(t *testing.T) {
	var cycles []Cycle
	err := Replay(context.Background(), strings.NewReader(scenario), NewTracker(nil), 0, nil,
		func(c Cycle) error {
			cycles = append(cycles, c)
			return nil
		})
	if err != nil {
		t.Fatal(err)
	}

	if len(cycles) != 3 {
		t.Fatalf("got %d cycles, expected 3", len(cycles))
	}
	for i, expected := range []float64{1000, 4000} {
		if cycles[i].T != i {
			t.Errorf("cycle %d: got time %d", i, cycles[i].T)
		}
		if v, _ := cycles[i].State.Get(gpws.VerticalSpeed); v != expected {
			t.Errorf("cycle %d: got vertical speed %v, expected %v", i, v, expected)
		}
		if v, _ := cycles[i].State.Get(gpws.RadioAltitude); !near(v, 1000) {
			t.Errorf("cycle %d: got radio altitude %v", i, v)
		}
	}
	if _, ok := cycles[2].State.Get(gpws.VerticalSpeed); ok || cycles[2].T != 2 {
		t.Errorf("final cycle %+v", cycles[2])
	}
}

func TestReplayErrors(t *testing.T) {
	noop := func(Cycle) error { return nil }

	err := Replay(context.Background(), strings.NewReader("Time t=0\nTime t=1\nRadioAltimeter groundAlt=high\n"),
		NewTracker(nil), 0, nil, noop)
	if !errors.Is(err, ErrMalformedMessage) || !strings.Contains(err.Error(), "line 3") {
		t.Errorf("got %v, expected malformed message on line 3", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = Replay(ctx, strings.NewReader(scenario), NewTracker(nil), 0, nil, noop)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, expected context.Canceled", err)
	}

	stop := errors.New("stop")
	n := 0
	err = Replay(context.Background(), strings.NewReader(scenario), NewTracker(nil), 0, nil,
		func(Cycle) error {
			n++
			return stop
		})
	if !errors.Is(err, stop) || n != 1 {
		t.Errorf("got %v after %d cycles", err, n)
	}
}
