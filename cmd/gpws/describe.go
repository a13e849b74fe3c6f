// cmd/gpws/describe.go
// Copyright(c) 2025 gpws contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"github.com/gpwsim/gpws/gpws"
	"github.com/gpwsim/gpws/math"
)

type envelopeInfo struct {
	Name     string
	Callout  string
	Class    string
	Priority float64
	Flaps    string
	Gear     string
	Convex   bool
	Extent   math.Extent2D
	Vertices [][2]float64
}

type modeInfo struct {
	Name      string
	X, Y      string
	Phase     string
	Extent    math.Extent2D
	Envelopes []envelopeInfo
}

// describe returns a plain summary of the resolver's table for dumping.
func describe(r *gpws.WarningResolver) []modeInfo {
	var modes []modeInfo
	for _, m := range r.Modes() {
		mi := modeInfo{
			Name:   m.Name,
			X:      m.X.String() + " (" + m.X.Units() + ")",
			Y:      m.Y.String() + " (" + m.Y.Units() + ")",
			Phase:  m.Phase.String(),
			Extent: m.Extent(),
		}
		for _, e := range m.Envelopes() {
			v := e.Vertices()
			mi.Envelopes = append(mi.Envelopes, envelopeInfo{
				Name:     e.Name(),
				Callout:  e.Callout(),
				Class:    e.Class().String(),
				Priority: e.Priority(),
				Flaps:    e.Flaps().String(),
				Gear:     e.Gear().String(),
				Convex:   math.IsConvex(v),
				Extent:   e.Extent(),
				Vertices: v,
			})
		}
		modes = append(modes, mi)
	}
	return modes
}
