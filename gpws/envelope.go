// gpws/envelope.go
// Copyright(c) 2025 gpws contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package gpws

import (
	"fmt"
	"strconv"

	"github.com/gpwsim/gpws/math"

	"github.com/brunoga/deep"
)

// Envelope is a hazard region in the plane of one mode's two channels.
// Envelopes are validated when they are created and can't be modified
// afterward, so a single table can be shared by any number of
// goroutines.
type Envelope struct {
	name     string
	callout  string
	class    AlertClass
	priority float64
	// Configuration requirements; unset means any.
	flaps    Flaps
	gear     Gear

	vertices [][2]float64
	extent   math.Extent2D
	mode     *Mode
}

type EnvelopeOption func(*Envelope)

func WithCallout(c string) EnvelopeOption {
	return func(e *Envelope) { e.callout = c }
}

// RequireFlaps limits the envelope to aircraft with the given flaps
// setting.
func RequireFlaps(f Flaps) EnvelopeOption {
	return func(e *Envelope) { e.flaps = f }
}

// RequireGear limits the envelope to aircraft with the given gear state.
func RequireGear(g Gear) EnvelopeOption {
	return func(e *Envelope) { e.gear = g }
}

// NewEnvelope validates the polygon and returns an Envelope that owns a
// copy of it. The vertices must be listed in clockwise order in a frame
// where x increases to the right and y increases upward, without
// repeating the first vertex at the end.
func NewEnvelope(name string, class AlertClass, priority float64, vertices [][2]float64,
	opts ...EnvelopeOption) (*Envelope, error) {
	if class != Caution && class != Warning {
		return nil, fmt.Errorf("%s: %d: %w", name, int(class), ErrInvalidClass)
	}
	if !math.IsFinite(priority) {
		return nil, fmt.Errorf("%s: %w", name, ErrNonFinitePriority)
	}
	if err := validatePolygon(vertices); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	e := &Envelope{
		name:     name,
		class:    class,
		priority: priority,
		vertices: deep.MustCopy(vertices),
		extent:   math.Extent2DFromPoints(vertices),
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.flaps < FlapsUnset || e.flaps > FlapsFull {
		return nil, fmt.Errorf("%s: %d: %w", name, int(e.flaps), ErrInvalidFlaps)
	}
	if e.gear < GearUnset || e.gear > GearDown {
		return nil, fmt.Errorf("%s: %d: %w", name, int(e.gear), ErrInvalidGear)
	}

	return e, nil
}

func validatePolygon(pts [][2]float64) error {
	if len(pts) < 3 {
		return fmt.Errorf("%d vertices: %w", len(pts), ErrTooFewVertices)
	}
	for i, p := range pts {
		if !math.IsFinite(p[0]) || !math.IsFinite(p[1]) {
			return fmt.Errorf("vertex %d %v: %w", i, p, ErrNonFiniteVertex)
		}
	}
	for i, p := range pts {
		if next := pts[(i+1)%len(pts)]; p == next {
			return fmt.Errorf("vertex %d %v: %w", i, p, ErrDuplicateVertex)
		}
	}

	area := math.SignedArea(pts)
	if area == 0 {
		return ErrDegeneratePolygon
	} else if area > 0 {
		return ErrCounterClockwise
	}
	return nil
}

// Contains reports whether an aircraft at p, in the owning mode's axis
// space, with the given configuration is inside the envelope. An
// unmatched configuration requirement excludes the aircraft without
// testing the geometry; points on the boundary are inside.
func (e *Envelope) Contains(p [2]float64, flaps Flaps, gear Gear) bool {
	if e.flaps != FlapsUnset && e.flaps != flaps {
		return false
	}
	if e.gear != GearUnset && e.gear != gear {
		return false
	}
	return math.PointInConvexPolygon(p, e.vertices)
}

func (e *Envelope) Name() string { return e.name }

// Callout returns the aural message for the envelope, e.g. "SINK RATE".
func (e *Envelope) Callout() string { return e.callout }

func (e *Envelope) Class() AlertClass { return e.class }

// Priority returns the envelope's rank; higher is more urgent.
func (e *Envelope) Priority() float64 { return e.priority }

// Flaps returns the flaps setting the envelope requires, or FlapsUnset
// if it applies to any.
func (e *Envelope) Flaps() Flaps { return e.flaps }

// Gear returns the gear state the envelope requires, or GearUnset if it
// applies to any.
func (e *Envelope) Gear() Gear { return e.gear }

// Vertices returns a copy of the envelope's polygon.
func (e *Envelope) Vertices() [][2]float64 {
	return deep.MustCopy(e.vertices)
}

func (e *Envelope) Extent() math.Extent2D {
	return e.extent
}

// Mode returns the mode the envelope belongs to, or nil if it hasn't been
// added to one.
func (e *Envelope) Mode() *Mode {
	return e.mode
}

func (e *Envelope) String() string {
	if e == nil {
		return "none"
	}
	s := e.name + " (" + e.class.String() + ", " + strconv.FormatFloat(e.priority, 'g', -1, 64) + ")"
	if e.mode != nil {
		s = e.mode.Name + " / " + s
	}
	return s
}
