// telemetry/tracker.go
// Copyright(c) 2025 gpws contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package telemetry

import (
	gomath "math"
	"sync"

	"github.com/gpwsim/gpws/gpws"
	"github.com/gpwsim/gpws/log"
	"github.com/gpwsim/gpws/math"
)

// Cycle is the aircraft state accumulated between two Time messages.
type Cycle struct {
	T     int
	State gpws.AircraftState
}

// Tracker maintains the current aircraft state from the telemetry
// messages. A single goroutine typically applies messages while others
// take snapshots.
type Tracker struct {
	mu      sync.Mutex
	state   gpws.AircraftState
	t       int
	started bool // a Time message has been seen
	dirty   bool // messages were applied since the last Time
	lg      *log.Logger
}

func NewTracker(lg *log.Logger) *Tracker {
	return &Tracker{lg: lg}
}

// Apply updates the state with m. When m is a Time message that ends a
// cycle, the completed cycle is returned with ok set. Published
// decisions are ignored.
func (t *Tracker) Apply(m Message) (c Cycle, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch m := m.(type) {
	case Time:
		if t.started || t.dirty {
			c, ok = Cycle{T: t.t, State: t.state}, true
		}
		t.t = m.T
		t.started = true
		t.dirty = false
		return

	case RadioAltimeter:
		t.state.Set(gpws.RadioAltitude, m.GroundAlt*math.MetersToFeet)

	case StateVector:
		// Vertical speed is positive when descending.
		t.state.Set(gpws.VerticalSpeed, -m.Vp*gomath.Sin(m.FPA)*math.MPSToFeetPerMin)
		t.state.Set(gpws.ComputedAirspeed, m.Vp*math.MPSToKnots)
		t.state.Set(gpws.RollAngle, math.Degrees(m.Phi))

	case Config:
		t.state.Gear = m.Gear
		t.state.Flaps = m.Flaps

	case Phase:
		t.state.Phase = m.Phase

	case ChannelUpdate:
		if v, known := m.Value.Get(); known {
			t.state.Set(m.Channel, v)
		} else {
			t.state.Clear(m.Channel)
		}

	case Warning, Clear:
		return

	default:
		t.lg.Warnf("%T: unexpected message type", m)
		return
	}

	t.dirty = true
	t.lg.Debug("applied", "message", m.String())
	return
}

// Flush returns the partial cycle that is pending when the message
// stream ends without a final Time message.
func (t *Tracker) Flush() (Cycle, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.dirty {
		return Cycle{}, false
	}
	t.dirty = false
	return Cycle{T: t.t, State: t.state}, true
}

// Snapshot returns a copy of the current state.
func (t *Tracker) Snapshot() gpws.AircraftState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Time returns the time of the most recent Time message.
func (t *Tracker) Time() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.t
}
