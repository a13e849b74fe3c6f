// math/core.go
// Copyright(c) 2025 gpws contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	gomath "math"

	"golang.org/x/exp/constraints"
)

// Unit conversions between the SI values carried on the telemetry bus and
// the imperial units that the GPWS envelopes are drawn in.
const (
	FeetToMeters      = 0.3048
	FeetPerMinToMPS   = 0.00508
	KnotsToMPS        = 0.514444
	MetersToFeet      = 1 / FeetToMeters
	MPSToFeetPerMin   = 1 / FeetPerMinToMPS
	MPSToKnots        = 1 / KnotsToMPS
	radiansPerDegrees = gomath.Pi / 180
)

// Degrees converts an angle expressed in radians to degrees
func Degrees(r float64) float64 {
	return r / radiansPerDegrees
}

// Radians converts an angle expressed in degrees to radians
func Radians(d float64) float64 {
	return d * radiansPerDegrees
}

func Abs[V constraints.Integer | constraints.Float](x V) V {
	if x < 0 {
		return -x
	}
	return x
}

// Lerp linearly interpolates x of the way between a and b.
func Lerp[F constraints.Float](x, a, b F) F {
	return (1-x)*a + x*b
}

// IsFinite reports whether v is neither NaN nor an infinity.
func IsFinite(v float64) bool {
	return !gomath.IsNaN(v) && !gomath.IsInf(v, 0)
}
