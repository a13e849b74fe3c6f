// gpws/state.go
// Copyright(c) 2025 gpws contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package gpws

import (
	"fmt"
	"strings"
)

// AircraftState is one snapshot of the flight parameters the modes are
// evaluated against. It is a plain value: copies are independent, and the
// zero value has every channel unknown and the configuration unset.
type AircraftState struct {
	Channels [NumChannels]ChannelValue
	Flaps    Flaps
	Gear     Gear
	Phase    FlightPhase
}

// Set records a known value for ch; non-finite values leave the channel
// unknown. Invalid channels are ignored.
func (s *AircraftState) Set(ch Channel, v float64) {
	if ch.Valid() {
		s.Channels[ch] = Known(v)
	}
}

func (s *AircraftState) Clear(ch Channel) {
	if ch.Valid() {
		s.Channels[ch] = ChannelValue{}
	}
}

func (s AircraftState) Get(ch Channel) (float64, bool) {
	if !ch.Valid() {
		return 0, false
	}
	return s.Channels[ch].Get()
}

// Project returns the state's position in the plane spanned by the x and
// y channels. ok is false if either of them is unknown.
func (s AircraftState) Project(x, y Channel) (p [2]float64, ok bool) {
	vx, okx := s.Get(x)
	vy, oky := s.Get(y)
	if !okx || !oky {
		return [2]float64{}, false
	}
	return [2]float64{vx, vy}, true
}

func (s AircraftState) String() string {
	var b strings.Builder
	for ch := Channel(0); ch < NumChannels; ch++ {
		fmt.Fprintf(&b, "%s=%s ", ch, s.Channels[ch])
	}
	fmt.Fprintf(&b, "flaps=%s gear=%s phase=%s", s.Flaps, s.Gear, s.Phase)
	return b.String()
}
