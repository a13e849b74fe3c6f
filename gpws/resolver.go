// gpws/resolver.go
// Copyright(c) 2025 gpws contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package gpws evaluates aircraft state against the ground proximity
// warning modes' hazard envelopes and picks the single most urgent alert.
package gpws

import (
	"fmt"
	"slices"
)

// WarningResolver holds an ordered set of modes. It keeps no state
// between evaluations and is safe for concurrent use.
type WarningResolver struct {
	modes []*Mode
}

// NewWarningResolver returns a resolver for the given modes; their order
// breaks ties between equal-priority envelopes of different modes.
func NewWarningResolver(modes ...*Mode) (*WarningResolver, error) {
	for i, m := range modes {
		if m == nil {
			return nil, fmt.Errorf("mode %d: %w", i, ErrNilMode)
		}
		if slices.IndexFunc(modes[:i], func(o *Mode) bool { return o.Name == m.Name }) != -1 {
			return nil, fmt.Errorf("%s: %w", m.Name, ErrDuplicateMode)
		}
	}
	return &WarningResolver{modes: slices.Clone(modes)}, nil
}

func (r *WarningResolver) Modes() []*Mode {
	return slices.Clone(r.modes)
}

// Evaluate returns the highest-priority envelope, over all modes, that
// contains the aircraft, or nil if there is none. Modes restricted to
// another flight phase are skipped, as are modes for which either axis
// channel is unknown in s. Ties go to the earlier mode and then to the
// earlier envelope within it.
func (r *WarningResolver) Evaluate(s AircraftState) *Envelope {
	var best *Envelope
	for _, m := range r.modes {
		if !m.Applies(s.Phase) {
			continue
		}
		p, ok := s.Project(m.X, m.Y)
		if !ok {
			continue
		}
		if e := m.Resolve(p, s.Flaps, s.Gear); e != nil && (best == nil || e.priority > best.priority) {
			best = e
		}
	}
	return best
}

type ModeStatus int

const (
	// ModeEvaluated: the mode was tested; Envelope may still be nil.
	ModeEvaluated ModeStatus = iota
	// ModePhaseInhibited: the mode is restricted to another flight phase.
	ModePhaseInhibited
	// ModeUnknownInput: one of the mode's axis channels is unknown.
	ModeUnknownInput
)

func (s ModeStatus) String() string {
	switch s {
	case ModeEvaluated:
		return "evaluated"
	case ModePhaseInhibited:
		return "phase inhibited"
	case ModeUnknownInput:
		return "unknown input"
	default:
		return fmt.Sprintf("ModeStatus(%d)", int(s))
	}
}

// ModeResult is the outcome of evaluating a single mode.
type ModeResult struct {
	Mode     *Mode
	Status   ModeStatus
	Point    [2]float64 // valid if Status == ModeEvaluated
	Envelope *Envelope
}

// Classify evaluates each mode separately and returns one result per mode
// in definition order. The envelope returned by Evaluate for the same
// state is the highest-priority (earliest on ties) envelope among the
// results.
func (r *WarningResolver) Classify(s AircraftState) []ModeResult {
	res := make([]ModeResult, len(r.modes))
	for i, m := range r.modes {
		res[i].Mode = m
		if !m.Applies(s.Phase) {
			res[i].Status = ModePhaseInhibited
			continue
		}
		p, ok := s.Project(m.X, m.Y)
		if !ok {
			res[i].Status = ModeUnknownInput
			continue
		}
		res[i].Point = p
		res[i].Envelope = m.Resolve(p, s.Flaps, s.Gear)
	}
	return res
}
