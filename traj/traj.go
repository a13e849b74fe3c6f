// traj/traj.go
// Copyright(c) 2025 gpws contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package traj generates straight-line test trajectories through a
// mode's envelopes and writes them as replayable telemetry scenarios.
package traj

import (
	"bufio"
	"fmt"
	"io"
	gomath "math"
	"strings"

	"github.com/gpwsim/gpws/gpws"
	"github.com/gpwsim/gpws/math"
	"github.com/gpwsim/gpws/telemetry"
)

// Segment is a straight line in a mode's axis plane.
type Segment struct {
	From, To [2]float64
}

// Rect returns a horizontal segment across the mode's envelopes at the
// given fraction of their height. The segment stops 10% short of the
// right edge so that it ends inside the outermost envelope.
func Rect(m *gpws.Mode, posY float64, leftToRight bool) Segment {
	ext := m.Extent()
	y := ext.P0[1] + posY*ext.Height()
	left := [2]float64{ext.P0[0], y}
	right := [2]float64{ext.P1[0] - 0.1*ext.Width(), y}
	if leftToRight {
		return Segment{From: left, To: right}
	}
	return Segment{From: right, To: left}
}

// Diag returns a segment that starts above the top-left corner of the
// mode's envelopes and descends through them toward the bottom right.
func Diag(m *gpws.Mode, leftToRight bool) Segment {
	ext := m.Extent()
	upper := [2]float64{ext.P0[0], ext.P1[1] + 0.2*ext.Height()}
	lower := [2]float64{ext.P1[0] - 0.1*ext.Width(), ext.P0[1] + 0.1*ext.Height()}
	if leftToRight {
		return Segment{From: upper, To: lower}
	}
	return Segment{From: lower, To: upper}
}

// Kind identifies one of the standard test segments.
type Kind int

const (
	RectHigh Kind = iota // horizontal at 33% of the height
	RectLow              // horizontal at 13% of the height
	DiagDown             // top left to bottom right
	DiagUp               // bottom right to top left
)

var Kinds = []Kind{RectHigh, RectLow, DiagDown, DiagUp}

func (k Kind) String() string {
	return [...]string{"rect_1", "rect_2", "diag_gd", "diag_dg"}[k]
}

// Segment returns the kind's segment for m.
func (k Kind) Segment(m *gpws.Mode) Segment {
	switch k {
	case RectHigh:
		return Rect(m, 0.33, true)
	case RectLow:
		return Rect(m, 0.13, true)
	case DiagDown:
		return Diag(m, true)
	default:
		return Diag(m, false)
	}
}

// Name returns the scenario file name for the mode's trajectory of the
// given kind, e.g. "mode1_traj_rect_1.txt".
func Name(m *gpws.Mode, k Kind) string {
	return strings.ToLower(strings.ReplaceAll(m.Name, " ", "")) + "_traj_" + k.String() + ".txt"
}

// Generate returns n states evenly spaced along seg, starting at its
// first point and stopping one step short of the last. Each state is base
// with the mode's two axis channels set to the point's coordinates.
// gamma, the flight path angle in radians, couples airspeed and vertical
// speed: if the mode plots vertical speed the airspeed is derived from
// it, and vice versa.
func Generate(m *gpws.Mode, seg Segment, n int, base gpws.AircraftState, gamma float64) []gpws.AircraftState {
	states := make([]gpws.AircraftState, 0, n)
	for i := 0; i < n; i++ {
		p := math.Lerp2d(float64(i)/float64(n), seg.From, seg.To)

		s := base
		s.Set(m.X, p[0])
		s.Set(m.Y, p[1])

		sin := gomath.Sin(gamma)
		switch {
		case m.X == gpws.VerticalSpeed && sin != 0:
			vp := math.Abs(p[0]*math.FeetPerMinToMPS / sin)
			s.Set(gpws.ComputedAirspeed, vp*math.MPSToKnots)
		case m.X == gpws.ComputedAirspeed:
			vp := p[0] * math.KnotsToMPS
			s.Set(gpws.VerticalSpeed, -vp*sin*math.MPSToFeetPerMin)
		}

		states = append(states, s)
	}
	return states
}

// WriteScenario writes the states as a telemetry scenario, one cycle per
// state followed by a final Time message. Channels that the radio
// altimeter and state vector messages carry are sent that way where
// possible; everything else, including unknown channels, is sent with
// Channel messages, so that replaying the scenario reproduces each state.
func WriteScenario(w io.Writer, states []gpws.AircraftState) error {
	bw := bufio.NewWriter(w)
	send := func(m telemetry.Message) {
		fmt.Fprintln(bw, m.String())
	}

	for i, s := range states {
		send(telemetry.Time{T: i})

		direct := map[gpws.Channel]bool{}
		if ra, ok := s.Get(gpws.RadioAltitude); ok {
			send(telemetry.RadioAltimeter{GroundAlt: ra * math.FeetToMeters})
			direct[gpws.RadioAltitude] = true
		}
		if sv, ok := stateVector(s); ok {
			send(sv)
			direct[gpws.ComputedAirspeed] = true
			if _, ok := s.Get(gpws.VerticalSpeed); ok {
				direct[gpws.VerticalSpeed] = true
			}
			if _, ok := s.Get(gpws.RollAngle); ok {
				direct[gpws.RollAngle] = true
			}
		}

		for ch := gpws.Channel(0); ch < gpws.NumChannels; ch++ {
			if !direct[ch] {
				send(telemetry.ChannelUpdate{Channel: ch, Value: s.Channels[ch]})
			}
		}

		send(telemetry.Config{Gear: s.Gear, Flaps: s.Flaps})
		send(telemetry.Phase{Phase: s.Phase})
	}
	send(telemetry.Time{T: len(states)})

	return bw.Flush()
}

// stateVector returns the state vector for s if s has a positive airspeed
// and a vertical speed no greater than it.
func stateVector(s gpws.AircraftState) (telemetry.StateVector, bool) {
	cas, ok := s.Get(gpws.ComputedAirspeed)
	if !ok || cas <= 0 {
		return telemetry.StateVector{}, false
	}
	sv := telemetry.StateVector{Vp: cas * math.KnotsToMPS}

	if vs, ok := s.Get(gpws.VerticalSpeed); ok {
		sinFPA := -vs * math.FeetPerMinToMPS / sv.Vp
		if sinFPA < -1 || sinFPA > 1 {
			return telemetry.StateVector{}, false
		}
		sv.FPA = gomath.Asin(sinFPA)
	}
	if roll, ok := s.Get(gpws.RollAngle); ok {
		sv.Phi = math.Radians(roll)
	}
	return sv, true
}
