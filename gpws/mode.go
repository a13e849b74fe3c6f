// gpws/mode.go
// Copyright(c) 2025 gpws contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package gpws

import (
	"fmt"
	"slices"

	"github.com/gpwsim/gpws/math"
)

// Mode is a group of envelopes that share a pair of axis channels, e.g.
// Mode 1, excessive descent rate, plots vertical speed against radio
// altitude.
type Mode struct {
	Name string
	X, Y Channel
	// Phase restricts evaluation of the mode to a single flight phase;
	// PhaseUnset means the mode is always evaluated.
	Phase FlightPhase

	envelopes []*Envelope
}

// NewMode returns a mode with the given envelopes in definition order,
// which is also the order used to break ties between envelopes of equal
// priority. A mode may have no envelopes, in which case it never
// matches. Each envelope can belong to only one mode.
func NewMode(name string, x, y Channel, phase FlightPhase, envelopes ...*Envelope) (*Mode, error) {
	if !x.Valid() {
		return nil, fmt.Errorf("%s: x axis %s: %w", name, x, ErrInvalidChannel)
	}
	if !y.Valid() {
		return nil, fmt.Errorf("%s: y axis %s: %w", name, y, ErrInvalidChannel)
	}
	if x == y {
		return nil, fmt.Errorf("%s: %s: %w", name, x, ErrSameAxes)
	}
	if phase < PhaseUnset || phase > PhaseApproach {
		return nil, fmt.Errorf("%s: %d: %w", name, int(phase), ErrInvalidPhase)
	}

	for i, e := range envelopes {
		if e == nil {
			return nil, fmt.Errorf("%s: envelope %d: %w", name, i, ErrNilEnvelope)
		}
		if e.mode != nil || slices.Index(envelopes, e) != i {
			return nil, fmt.Errorf("%s: %s: %w", name, e.name, ErrEnvelopeOwned)
		}
	}

	m := &Mode{
		Name:      name,
		X:         x,
		Y:         y,
		Phase:     phase,
		envelopes: slices.Clone(envelopes),
	}
	for _, e := range m.envelopes {
		e.mode = m
	}
	return m, nil
}

// Applies reports whether the mode is evaluated in the given flight phase.
func (m *Mode) Applies(phase FlightPhase) bool {
	return m.Phase == PhaseUnset || m.Phase == phase
}

// Resolve returns the highest-priority envelope that contains p with the
// given configuration, or nil if none does. Ties go to the envelope that
// was defined first.
func (m *Mode) Resolve(p [2]float64, flaps Flaps, gear Gear) *Envelope {
	var best *Envelope
	for _, e := range m.envelopes {
		if e.Contains(p, flaps, gear) && (best == nil || e.priority > best.priority) {
			best = e
		}
	}
	return best
}

func (m *Mode) Envelopes() []*Envelope {
	return slices.Clone(m.envelopes)
}

// Extent returns the bounding box of all of the mode's envelopes.
func (m *Mode) Extent() math.Extent2D {
	ext := math.EmptyExtent2D()
	for _, e := range m.envelopes {
		ext = math.UnionExtents(ext, e.Extent())
	}
	return ext
}

func (m *Mode) String() string {
	s := fmt.Sprintf("%s: %s vs %s", m.Name, m.X, m.Y)
	if m.Phase != PhaseUnset {
		s += " (" + m.Phase.String() + " only)"
	}
	return s
}
