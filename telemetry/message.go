// telemetry/message.go
// Copyright(c) 2025 gpws contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package telemetry

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/gpwsim/gpws/gpws"
)

// Messages are single text lines of the form "Kind key=value ...". Values
// containing spaces are double-quoted. Quantities on the bus are in SI
// units and radians; Tracker converts them to the units the envelopes
// are drawn in.
type Message interface {
	Kind() string
	String() string
}

// Time marks the start of a new evaluation cycle.
type Time struct {
	T int
}

type RadioAltimeter struct {
	GroundAlt float64 // m
}

type StateVector struct {
	X, Y, Z float64 // m
	Vp      float64 // m/s
	FPA     float64 // flight path angle, radians, positive climbing
	Psi     float64 // heading, radians
	Phi     float64 // bank, radians, positive right wing down
}

type Config struct {
	Gear  gpws.Gear
	Flaps gpws.Flaps
}

type Phase struct {
	Phase gpws.FlightPhase
}

// ChannelUpdate sets a channel directly in envelope units; it carries the
// parameters that other systems compute (terrain closure rate, altitude
// loss since takeoff, glide slope deviation).
type ChannelUpdate struct {
	Channel gpws.Channel
	Value   gpws.ChannelValue
}

// Warning is the decision published when an envelope is active.
type Warning struct {
	Mode     string
	Name     string
	Class    gpws.AlertClass
	Priority float64
	Callout  string
}

// Clear is published when no envelope is active.
type Clear struct{}

func (Time) Kind() string           { return "Time" }
func (RadioAltimeter) Kind() string { return "RadioAltimeter" }
func (StateVector) Kind() string    { return "StateVector" }
func (Config) Kind() string         { return "Config" }
func (Phase) Kind() string          { return "Phase" }
func (ChannelUpdate) Kind() string  { return "Channel" }
func (Warning) Kind() string        { return "GPWSWarning" }
func (Clear) Kind() string          { return "GPWSClear" }

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// quote quotes s if it would otherwise not survive tokenization.
func quote(s string) string {
	if s == "" || strings.ContainsAny(s, " \t\"\\=") {
		return strconv.Quote(s)
	}
	return s
}

func (m Time) String() string {
	return "Time t=" + strconv.Itoa(m.T)
}

func (m RadioAltimeter) String() string {
	return "RadioAltimeter groundAlt=" + ftoa(m.GroundAlt)
}

func (m StateVector) String() string {
	return fmt.Sprintf("StateVector x=%s y=%s z=%s Vp=%s fpa=%s psi=%s phi=%s",
		ftoa(m.X), ftoa(m.Y), ftoa(m.Z), ftoa(m.Vp), ftoa(m.FPA), ftoa(m.Psi), ftoa(m.Phi))
}

func (m Config) String() string {
	g, _ := m.Gear.MarshalText()
	f, _ := m.Flaps.MarshalText()
	return "Config GEAR=" + string(g) + " FLAPS=" + string(f)
}

func (m Phase) String() string {
	p, _ := m.Phase.MarshalText()
	return "Phase phase=" + string(p)
}

func (m ChannelUpdate) String() string {
	v := "unknown"
	if f, ok := m.Value.Get(); ok {
		v = ftoa(f)
	}
	return "Channel name=" + m.Channel.String() + " value=" + v
}

func (m Warning) String() string {
	return fmt.Sprintf("GPWSWarning mode=%s name=%s class=%s priority=%s callout=%s",
		quote(m.Mode), quote(m.Name), m.Class, ftoa(m.Priority), quote(m.Callout))
}

func (Clear) String() string {
	return "GPWSClear"
}

// Decision returns the message that announces e, which may be nil.
func Decision(e *gpws.Envelope) Message {
	if e == nil {
		return Clear{}
	}
	w := Warning{Name: e.Name(), Class: e.Class(), Priority: e.Priority(), Callout: e.Callout()}
	if m := e.Mode(); m != nil {
		w.Mode = m.Name
	}
	return w
}

///////////////////////////////////////////////////////////////////////////
// Parsing

// Parse parses a single message line. Lines with a kind that isn't one
// of ours return ErrUnknownMessage so that callers sharing a bus with
// other applications can skip them.
func Parse(line string) (Message, error) {
	line = strings.TrimSpace(line)
	kind, rest, _ := strings.Cut(line, " ")
	if !slices.Contains(kinds, kind) {
		return nil, fmt.Errorf("%q: %w", kind, ErrUnknownMessage)
	}

	fields, err := parseFields(rest)
	if err != nil {
		return nil, fmt.Errorf("%q: %v: %w", line, err, ErrMalformedMessage)
	}

	m, err := parseMessage(kind, fields)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", line, err)
	}
	return m, nil
}

var kinds = []string{"Time", "RadioAltimeter", "StateVector", "Config", "Phase", "Channel", "GPWSWarning", "GPWSClear"}

type fieldMap map[string]string

func parseFields(s string) (fieldMap, error) {
	f := make(fieldMap)
	for {
		s = strings.TrimLeft(s, " \t")
		if s == "" {
			return f, nil
		}

		key, rest, ok := strings.Cut(s, "=")
		if !ok || key == "" || strings.ContainsAny(key, " \t") {
			return nil, fmt.Errorf("%q: expected key=value", s)
		}

		var value string
		if strings.HasPrefix(rest, `"`) {
			q, err := strconv.QuotedPrefix(rest)
			if err != nil {
				return nil, fmt.Errorf("%s: %v", key, err)
			}
			value, _ = strconv.Unquote(q)
			rest = rest[len(q):]
		} else {
			value, rest, _ = strings.Cut(rest, " ")
		}

		f[key] = value
		s = rest
	}
}

func (f fieldMap) float(key string) (float64, error) {
	s, ok := f[key]
	if !ok {
		return 0, fmt.Errorf("%s: missing: %w", key, ErrMalformedMessage)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %v: %w", key, err, ErrMalformedMessage)
	}
	return v, nil
}

func (f fieldMap) int(key string) (int, error) {
	s, ok := f[key]
	if !ok {
		return 0, fmt.Errorf("%s: missing: %w", key, ErrMalformedMessage)
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s: %v: %w", key, err, ErrMalformedMessage)
	}
	return v, nil
}

func (f fieldMap) text(key string, out interface{ UnmarshalText([]byte) error }) error {
	s, ok := f[key]
	if !ok {
		return fmt.Errorf("%s: missing: %w", key, ErrMalformedMessage)
	}
	if err := out.UnmarshalText([]byte(s)); err != nil {
		return fmt.Errorf("%s: %v: %w", key, err, ErrMalformedMessage)
	}
	return nil
}

func parseMessage(kind string, f fieldMap) (Message, error) {
	switch kind {
	case "Time":
		t, err := f.int("t")
		if err != nil {
			return nil, err
		}
		return Time{T: t}, nil

	case "RadioAltimeter":
		alt, err := f.float("groundAlt")
		if err != nil {
			return nil, err
		}
		return RadioAltimeter{GroundAlt: alt}, nil

	case "StateVector":
		var sv StateVector
		for _, v := range []struct {
			key string
			p   *float64
		}{
			{"x", &sv.X}, {"y", &sv.Y}, {"z", &sv.Z}, {"Vp", &sv.Vp},
			{"fpa", &sv.FPA}, {"psi", &sv.Psi}, {"phi", &sv.Phi},
		} {
			var err error
			if *v.p, err = f.float(v.key); err != nil {
				return nil, err
			}
		}
		return sv, nil

	case "Config":
		var c Config
		// The configuration panel sends Unknown when no gear button is
		// selected.
		if f["GEAR"] == "Unknown" {
			f["GEAR"] = ""
		}
		if err := f.text("GEAR", &c.Gear); err != nil {
			return nil, err
		}
		if err := f.text("FLAPS", &c.Flaps); err != nil {
			return nil, err
		}
		return c, nil

	case "Phase":
		var p Phase
		if err := f.text("phase", &p.Phase); err != nil {
			return nil, err
		}
		return p, nil

	case "Channel":
		var cu ChannelUpdate
		if err := f.text("name", &cu.Channel); err != nil {
			return nil, err
		}
		if s := f["value"]; s != "unknown" {
			v, err := f.float("value")
			if err != nil {
				return nil, err
			}
			cu.Value = gpws.Known(v)
		}
		return cu, nil

	case "GPWSWarning":
		w := Warning{Mode: f["mode"], Name: f["name"], Callout: f["callout"]}
		if err := f.text("class", &w.Class); err != nil {
			return nil, err
		}
		var err error
		if w.Priority, err = f.float("priority"); err != nil {
			return nil, err
		}
		return w, nil

	case "GPWSClear":
		return Clear{}, nil

	default:
		return nil, fmt.Errorf("%s: %w", kind, ErrUnknownMessage)
	}
}
