// gpws/channel.go
// Copyright(c) 2025 gpws contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package gpws

import (
	"fmt"
	"strconv"

	"github.com/gpwsim/gpws/math"
)

// Channel identifies one of the scalar flight parameters that a mode can
// use as an axis of its envelope plot.
type Channel int

const (
	VerticalSpeed       Channel = iota // ft/min, positive when descending
	RadioAltitude                      // ft
	TerrainClosureRate                 // ft/min
	MSLAltitudeLoss                    // ft
	ComputedAirspeed                   // kt
	GlideSlopeDeviation                // dots, positive below the beam
	RollAngle                          // degrees, positive right wing down
	NumChannels
)

var channelNames = [NumChannels]string{
	"VerticalSpeed",
	"RadioAltitude",
	"TerrainClosureRate",
	"MSLAltitudeLoss",
	"ComputedAirspeed",
	"GlideSlopeDeviation",
	"RollAngle",
}

var channelUnits = [NumChannels]string{"ft/min", "ft", "ft/min", "ft", "kt", "dots", "deg"}

func (c Channel) Valid() bool {
	return c >= 0 && c < NumChannels
}

func (c Channel) String() string {
	if !c.Valid() {
		return "Channel(" + strconv.Itoa(int(c)) + ")"
	}
	return channelNames[c]
}

func (c Channel) Units() string {
	if !c.Valid() {
		return ""
	}
	return channelUnits[c]
}

func ParseChannel(s string) (Channel, error) {
	for i, n := range channelNames {
		if n == s {
			return Channel(i), nil
		}
	}
	return 0, fmt.Errorf("%q: %w", s, ErrInvalidChannel)
}

func (c Channel) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%d: %w", int(c), ErrInvalidChannel)
	}
	return []byte(channelNames[c]), nil
}

func (c *Channel) UnmarshalText(b []byte) error {
	ch, err := ParseChannel(string(b))
	if err != nil {
		return err
	}
	*c = ch
	return nil
}

///////////////////////////////////////////////////////////////////////////
// ChannelValue

// ChannelValue is a channel reading that may not be available. The zero
// value is unknown. The fields are exported so that recorded states
// serialize directly.
type ChannelValue struct {
	Value float64
	Valid bool
}

// Known returns a known value; NaN and infinities are treated as unknown
// since they can never fall inside an envelope.
func Known(v float64) ChannelValue {
	if !math.IsFinite(v) {
		return ChannelValue{}
	}
	return ChannelValue{Value: v, Valid: true}
}

// Get returns the value and whether it is known; a non-finite value is
// never known, even if Valid was set directly.
func (v ChannelValue) Get() (float64, bool) {
	if !v.Valid || !math.IsFinite(v.Value) {
		return 0, false
	}
	return v.Value, true
}

func (v ChannelValue) String() string {
	f, ok := v.Get()
	if !ok {
		return "unknown"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
