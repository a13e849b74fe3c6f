// gpws/table_test.go
// Copyright(c) 2025 gpws contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package gpws

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gpwsim/gpws/util"
)

func defaultResolver(t *testing.T, e *util.ErrorLogger) *WarningResolver {
	t.Helper()
	r := LoadDefaultResolver(e)
	if e.HaveErrors() {
		t.Fatalf("default table: %s", e)
	}
	return r
}

func TestDefaultTable(t *testing.T) {
	var e util.ErrorLogger
	r := defaultResolver(t, &e)

	var names []string
	for _, m := range r.Modes() {
		names = append(names, m.Name)
	}
	if s := strings.Join(names, ","); s != "Mode 1,Mode 2,Mode 3,Mode 4,Mode 5,Mode 6" {
		t.Errorf("got modes %s", s)
	}

	type ch = map[Channel]float64
	for _, tc := range []struct {
		name     string
		vals     ch
		flaps    Flaps
		gear     Gear
		phase    FlightPhase
		expected string
	}{
		{name: "nothing known", vals: ch{}},
		{name: "sink rate", vals: ch{VerticalSpeed: 4000, RadioAltitude: 1500}, expected: "Mode 1 / Sink Rate"},
		{name: "sink rate over gear", vals: ch{VerticalSpeed: 4000, RadioAltitude: 500, ComputedAirspeed: 150},
			gear: GearUp, expected: "Mode 1 / Sink Rate"},
		{name: "gear up", vals: ch{VerticalSpeed: 0, RadioAltitude: 400, ComputedAirspeed: 150},
			gear: GearUp, flaps: Flaps3, expected: "Mode 4 / Too Low Gear"},
		{name: "gear down", vals: ch{VerticalSpeed: 0, RadioAltitude: 400, ComputedAirspeed: 150},
			gear: GearDown, flaps: Flaps3},
		{name: "flaps up", vals: ch{RadioAltitude: 200, ComputedAirspeed: 150},
			gear: GearUp, flaps: Flaps0, expected: "Mode 4 / Too Low Flaps"},
		{name: "too low terrain", vals: ch{RadioAltitude: 400, ComputedAirspeed: 300},
			expected: "Mode 4 / Too Low Terrain"},
		{name: "bank angle wins", vals: ch{VerticalSpeed: 4000, RadioAltitude: 500, RollAngle: 45},
			expected: "Mode 6 / Bank Angle Right High"},
		{name: "left bank", vals: ch{RadioAltitude: 100, RollAngle: -60}, expected: "Mode 6 / Bank Angle Left Low"},
		{name: "wings level", vals: ch{RadioAltitude: 100, RollAngle: 0}},
		{name: "don't sink takeoff", vals: ch{MSLAltitudeLoss: 100, RadioAltitude: 500},
			phase: PhaseTakeoff, expected: "Mode 3 / Don't Sink"},
		{name: "don't sink cruise", vals: ch{MSLAltitudeLoss: 100, RadioAltitude: 500}, phase: PhaseCruise},
		{name: "glideslope", vals: ch{GlideSlopeDeviation: 3, RadioAltitude: 200},
			phase: PhaseApproach, expected: "Mode 5 / Glideslope"},
		{name: "glideslope reduced", vals: ch{GlideSlopeDeviation: 3, RadioAltitude: 600},
			phase: PhaseApproach, expected: "Mode 5 / Glideslope Reduced"},
		{name: "glideslope not on approach", vals: ch{GlideSlopeDeviation: 3, RadioAltitude: 200},
			phase: PhaseCruise},
		{name: "terrain", vals: ch{TerrainClosureRate: 5000, RadioAltitude: 1000}, expected: "Mode 2 / Terrain"},
		{name: "terrain pull up", vals: ch{TerrainClosureRate: 5000, RadioAltitude: 500}, expected: "Mode 2 / Terrain"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			s := makeState(tc.vals)
			s.Flaps, s.Gear, s.Phase = tc.flaps, tc.gear, tc.phase

			e := r.Evaluate(s)
			got := ""
			if e != nil {
				got = e.Mode().Name + " / " + e.Name()
			}
			if got != tc.expected {
				t.Errorf("got %q, expected %q", got, tc.expected)
			}
		})
	}
}

func TestDefaultTableLint(t *testing.T) {
	var e util.ErrorLogger
	r := defaultResolver(t, &e)

	var lint util.ErrorLogger
	Lint(r, &lint)
	errs := lint.Errors()
	if len(errs) != 1 || !strings.HasPrefix(errs[0], "Mode 2 / Terrain:") {
		t.Errorf("got lint output %q", errs)
	}
}

func TestLintNonConvex(t *testing.T) {
	// The kernel of this L is its lower left quarter, so two thirds of
	// the drawn area never triggers.
	ell := mustEnvelope(t, "L", Caution, 1, [][2]float64{{0, 0}, {0, 10}, {5, 10}, {5, 5}, {10, 5}, {10, 0}})
	box := mustEnvelope(t, "box", Warning, 2, square)
	r := mustResolver(t, mustMode(t, "shapes", VerticalSpeed, RadioAltitude, PhaseUnset, ell, box),
		mustMode(t, "empty", RollAngle, RadioAltitude, PhaseUnset))

	var lint util.ErrorLogger
	Lint(r, &lint)
	errs := lint.Errors()
	if len(errs) != 2 {
		t.Fatalf("got lint output %q", errs)
	}
	if !strings.HasPrefix(errs[0], "shapes / L:") || !strings.Contains(errs[0], "67% of the sampled envelope never triggers") {
		t.Errorf("got %q", errs[0])
	}
	if errs[1] != "empty: mode has no envelopes and never triggers" {
		t.Errorf("got %q", errs[1])
	}

	frac, p := untriggered(ell, 64)
	if frac < 0.6 || frac > 0.7 {
		t.Errorf("got untriggered fraction %f", frac)
	}
	if ell.Contains(p, FlapsUnset, GearUnset) || (p[0] < 5 && p[1] < 5) {
		t.Errorf("example point %v is in the kernel", p)
	}

	if frac, _ := untriggered(box, 64); frac != 0 {
		t.Errorf("convex envelope: got untriggered fraction %f", frac)
	}
}

func TestParseTableOrder(t *testing.T) {
	var e util.ErrorLogger
	specs := ParseTable([]byte(`{
  "Mode B": { "x": "RollAngle", "y": "RadioAltitude", "envelopes": [] },
  "Mode A": { "x": "VerticalSpeed", "y": "RadioAltitude", "phase": "Approach", "envelopes": [
    { "name": "Box", "class": "W", "priority": 3, "gear": "Down", "vertices": [[0,0],[0,1],[1,1],[1,0]] }
  ] }
}`), &e)
	if e.HaveErrors() {
		t.Fatal(e.String())
	}
	if len(specs) != 2 || specs[0].Name != "Mode B" || specs[1].Name != "Mode A" {
		t.Fatalf("got specs %+v", specs)
	}

	r := BuildResolver(specs, &e)
	if e.HaveErrors() {
		t.Fatal(e.String())
	}
	modes := r.Modes()
	if modes[1].Phase != PhaseApproach || modes[1].X != VerticalSpeed {
		t.Errorf("got mode %s", modes[1])
	}
	env := modes[1].Envelopes()[0]
	if env.Class() != Warning || env.Gear() != GearDown || env.Flaps() != FlapsUnset || env.Priority() != 3 {
		t.Errorf("got envelope %+v", env)
	}
}

func TestParseTableErrors(t *testing.T) {
	for _, tc := range []struct {
		name   string
		json   string
		errors []string
		modes  int // number of modes in the resolver
	}{
		{
			name:   "syntax",
			json:   "{\n  \"Mode 1\": {\n    \"x\": \"RollAngle\",,\n  }\n}",
			errors: []string{"line 3"},
		},
		{
			name:   "duplicate mode",
			json:   `{"Mode 1": {"x": "RollAngle", "y": "RadioAltitude"}, "Mode 1": {"x": "VerticalSpeed", "y": "RadioAltitude"}}`,
			errors: []string{`"Mode 1": mode defined multiple times`},
			modes:  1,
		},
		{
			name:   "misspelled key",
			json:   `{"Mode 1": {"x": "RollAngle", "y": "RadioAltitude", "envelopes": [{"name": "a", "class": "C", "gaer": "Up", "vertices": [[0,0],[0,1],[1,0]]}]}}`,
			errors: []string{`unknown field "gaer"`},
			modes:  1,
		},
		{
			name:   "bad channel",
			json:   `{"Mode 1": {"x": "Airspeed", "y": "RadioAltitude"}, "Mode 2": {"x": "RollAngle", "y": "RadioAltitude"}}`,
			errors: []string{`Mode 1: x axis: "Airspeed": Invalid channel`},
			modes:  1,
		},
		{
			name:   "same axes",
			json:   `{"Mode 1": {"x": "RadioAltitude", "y": "RadioAltitude"}}`,
			errors: []string{"Mode 1: Mode 1: RadioAltitude: Mode axes must be different channels"},
		},
		{
			name:   "bad phase",
			json:   `{"Mode 1": {"x": "RollAngle", "y": "RadioAltitude", "phase": "Landing"}}`,
			errors: []string{`Mode 1: "Landing": Invalid flight phase`},
		},
		{
			name: "bad envelopes dropped",
			json: `{"Mode 1": {"x": "RollAngle", "y": "RadioAltitude", "envelopes": [
  {"name": "ccw", "class": "C", "vertices": [[0,0],[1,0],[1,1],[0,1]]},
  {"class": "Advisory", "vertices": [[0,0],[0,1],[1,0]]},
  {"name": "flaps", "class": "C", "flaps": "4", "vertices": [[0,0],[0,1],[1,0]]},
  {"name": "ok", "class": "C", "vertices": [[0,0],[0,1],[1,0]]}
]}}`,
			errors: []string{
				"Mode 1 / ccw: ccw: Envelope vertices must be in clockwise order",
				`Mode 1 / envelope 1: "Advisory": Invalid alert class`,
				`Mode 1 / flaps: "4": Invalid flaps setting`,
			},
			modes: 1,
		},
		{
			name: "vertex arity",
			json: `{"Mode 1": {"x": "RollAngle", "y": "RadioAltitude", "envelopes": [
  {"name": "extra", "class": "C", "vertices": [[1750, 370, 9], [0,1], [1,0]]},
  {"name": "short", "class": "C", "vertices": [[0,0], [0], [1,0], [1,-1]]}
]}}`,
			errors: []string{
				"Mode 1 / extra: vertex 0 [1750 370 9]: Envelope vertex must have exactly two coordinates",
				"Mode 1 / short: vertex 1 [0]: Envelope vertex must have exactly two coordinates",
			},
			modes: 1,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var e util.ErrorLogger
			r := BuildResolver(ParseTable([]byte(tc.json), &e), &e)
			errs := e.Errors()
			if len(errs) != len(tc.errors) {
				t.Fatalf("got errors %q, expected %d", errs, len(tc.errors))
			}
			for i, err := range errs {
				if !strings.Contains(err, tc.errors[i]) {
					t.Errorf("error %d: %q doesn't contain %q", i, err, tc.errors[i])
				}
			}
			if n := len(r.Modes()); n != tc.modes {
				t.Errorf("got %d modes, expected %d", n, tc.modes)
			}
		})
	}
}

func TestBadEnvelopesDropped(t *testing.T) {
	var e util.ErrorLogger
	r := BuildResolver(ParseTable([]byte(`{"Mode 1": {"x": "RollAngle", "y": "RadioAltitude", "envelopes": [
  {"name": "ccw", "class": "C", "vertices": [[0,0],[1,0],[1,1],[0,1]]},
  {"name": "ok", "class": "C", "vertices": [[0,0],[0,1],[1,0]]}
]}}`), &e), &e)

	envs := r.Modes()[0].Envelopes()
	if len(envs) != 1 || envs[0].Name() != "ok" {
		t.Errorf("got envelopes %v", envs)
	}
}

func TestLoadResolver(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "envelopes.json")
	if err := os.WriteFile(fn, DefaultTable(), 0o600); err != nil {
		t.Fatal(err)
	}

	var e util.ErrorLogger
	r, err := LoadResolver(fn, &e)
	if err != nil || e.HaveErrors() {
		t.Fatalf("%v / %s", err, e.String())
	}
	if len(r.Modes()) != 6 {
		t.Errorf("got %d modes", len(r.Modes()))
	}

	if _, err := LoadResolver(filepath.Join(t.TempDir(), "missing.json"), &e); err == nil {
		t.Errorf("expected error for missing file")
	}
}
