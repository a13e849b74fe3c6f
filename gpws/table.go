// gpws/table.go
// Copyright(c) 2025 gpws contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package gpws

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/gpwsim/gpws/math"
	"github.com/gpwsim/gpws/util"

	"github.com/iancoleman/orderedmap"
)

// Envelope tables are JSON objects that map mode names to ModeSpecs. The
// order of the modes in the file is significant: it breaks priority ties
// between modes.

type ModeSpec struct {
	Name      string         `json:"-"`
	X         string         `json:"x"`
	Y         string         `json:"y"`
	Phase     string         `json:"phase,omitempty"`
	Envelopes []EnvelopeSpec `json:"envelopes"`
}

type EnvelopeSpec struct {
	Name     string      `json:"name"`
	Callout  string      `json:"callout,omitempty"`
	Class    string      `json:"class"`
	Priority float64     `json:"priority"`
	Flaps    string      `json:"flaps,omitempty"`
	Gear     string      `json:"gear,omitempty"`
	Vertices [][]float64 `json:"vertices"`
}

//go:embed resources/envelopes.json
var defaultTable []byte

// DefaultTable returns the JSON for the built-in envelope table.
func DefaultTable() []byte {
	return bytes.Clone(defaultTable)
}

// ParseTable parses an envelope table; problems are reported to e. nil is
// returned if the JSON itself is invalid.
func ParseTable(data []byte, e *util.ErrorLogger) []ModeSpec {
	defer e.CheckDepth(e.CurrentDepth())

	var specs map[string]ModeSpec
	if err := util.UnmarshalJSONBytes(data, &specs); err != nil {
		e.Error(err)
		return nil
	}

	for _, dup := range util.FindDuplicateJSONKeys(data) {
		if dup.Path == "" {
			e.ErrorString("%q: mode defined multiple times; only the last definition is used", dup.Key)
		} else {
			e.ErrorString("%s: %q: key repeated", dup.Path, dup.Key)
		}
	}

	// Misspelled keys would otherwise silently leave a requirement unset.
	strict := json.NewDecoder(bytes.NewReader(data))
	strict.DisallowUnknownFields()
	var unused map[string]ModeSpec
	if err := strict.Decode(&unused); err != nil {
		e.Error(err)
	}

	order := orderedmap.New()
	if err := json.Unmarshal(data, order); err != nil {
		e.Error(err)
		return nil
	}

	var ms []ModeSpec
	seen := make(map[string]bool)
	for _, name := range order.Keys() {
		if seen[name] {
			continue
		}
		seen[name] = true
		spec := specs[name]
		spec.Name = name
		ms = append(ms, spec)
	}
	return ms
}

// BuildResolver validates the specs and returns a resolver with the modes
// and envelopes that passed. Each invalid envelope or mode is reported to
// e and left out; the caller decides whether to continue.
func BuildResolver(specs []ModeSpec, e *util.ErrorLogger) *WarningResolver {
	defer e.CheckDepth(e.CurrentDepth())

	var modes []*Mode
	seen := make(map[string]bool)
	for _, ms := range specs {
		e.Push(ms.Name)
		if seen[ms.Name] {
			e.Error(ErrDuplicateMode)
		} else if m := buildMode(ms, e); m != nil {
			modes = append(modes, m)
			seen[ms.Name] = true
		}
		e.Pop()
	}

	r, err := NewWarningResolver(modes...)
	if err != nil {
		// Can't happen: the modes are non-nil and have unique names.
		panic(err)
	}
	return r
}

func buildMode(ms ModeSpec, e *util.ErrorLogger) *Mode {
	x, errx := ParseChannel(ms.X)
	if errx != nil {
		e.ErrorString("x axis: %v", errx)
	}
	y, erry := ParseChannel(ms.Y)
	if erry != nil {
		e.ErrorString("y axis: %v", erry)
	}
	phase, errp := ParsePhase(ms.Phase)
	if errp != nil {
		e.Error(errp)
	}
	if errx != nil || erry != nil || errp != nil {
		return nil
	}

	var envs []*Envelope
	for i, es := range ms.Envelopes {
		if es.Name == "" {
			e.Push(fmt.Sprintf("envelope %d", i))
		} else {
			e.Push(es.Name)
		}
		if env := buildEnvelope(es, e); env != nil {
			envs = append(envs, env)
		}
		e.Pop()
	}

	m, err := NewMode(ms.Name, x, y, phase, envs...)
	if err != nil {
		e.Error(err)
		return nil
	}
	return m
}

func buildEnvelope(es EnvelopeSpec, e *util.ErrorLogger) *Envelope {
	ok := true
	class, err := ParseAlertClass(es.Class)
	if err != nil {
		e.Error(err)
		ok = false
	}
	flaps, err := ParseFlaps(es.Flaps)
	if err != nil {
		e.Error(err)
		ok = false
	}
	gear, err := ParseGear(es.Gear)
	if err != nil {
		e.Error(err)
		ok = false
	}
	vertices := make([][2]float64, 0, len(es.Vertices))
	for i, v := range es.Vertices {
		if len(v) != 2 {
			e.Error(fmt.Errorf("vertex %d %v: %w", i, v, ErrMalformedVertex))
			ok = false
			continue
		}
		vertices = append(vertices, [2]float64{v[0], v[1]})
	}
	if !ok {
		return nil
	}

	env, err := NewEnvelope(es.Name, class, es.Priority, vertices,
		WithCallout(es.Callout), RequireFlaps(flaps), RequireGear(gear))
	if err != nil {
		e.Error(err)
		return nil
	}
	return env
}

// LoadDefaultResolver builds a resolver from the built-in envelope table.
func LoadDefaultResolver(e *util.ErrorLogger) *WarningResolver {
	return BuildResolver(ParseTable(defaultTable, e), e)
}

// LoadResolver builds a resolver from the envelope table in the given
// file.
func LoadResolver(filename string, e *util.ErrorLogger) (*WarningResolver, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	e.Push(filename)
	defer e.Pop()
	return BuildResolver(ParseTable(data, e), e), nil
}

// Lint reports envelopes that are valid but probably not what was
// intended. The containment test only handles convex polygons; for a
// non-convex one it matches the polygon's kernel, which is smaller than
// the drawn envelope. Where sampling finds part of the drawn envelope
// that never triggers, the report says how much and gives an example
// point.
func Lint(r *WarningResolver, e *util.ErrorLogger) {
	defer e.CheckDepth(e.CurrentDepth())

	for _, m := range r.modes {
		e.Push(m.Name)
		if len(m.envelopes) == 0 {
			e.ErrorString("mode has no envelopes and never triggers")
		}
		for _, env := range m.envelopes {
			if !math.IsConvex(env.vertices) {
				e.Push(env.Name())
				if frac, p := untriggered(env, lintSamples); frac > 0 {
					e.ErrorString("envelope is not convex; only its kernel triggers (%.0f%% of the sampled envelope never triggers, e.g. %v)",
						100*frac, p)
				} else {
					e.ErrorString("envelope is not convex; only its kernel triggers")
				}
				e.Pop()
			}
		}
		e.Pop()
	}
}

const lintSamples = 128

// untriggered samples the envelope's extent at the centers of an n by n
// grid. It returns the fraction of the samples inside the drawn polygon
// that the containment test rejects and the first such sample.
func untriggered(env *Envelope, n int) (float64, [2]float64) {
	var inside, missed int
	var example [2]float64
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			p := [2]float64{
				math.Lerp((float64(i)+0.5)/float64(n), env.extent.P0[0], env.extent.P1[0]),
				math.Lerp((float64(j)+0.5)/float64(n), env.extent.P0[1], env.extent.P1[1]),
			}
			if !math.PointInPolygon(p, env.vertices) {
				continue
			}
			inside++
			if !math.PointInConvexPolygon(p, env.vertices) {
				if missed == 0 {
					example = p
				}
				missed++
			}
		}
	}
	if inside == 0 {
		return 0, example
	}
	return float64(missed) / float64(inside), example
}
