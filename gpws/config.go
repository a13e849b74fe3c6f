// gpws/config.go
// Copyright(c) 2025 gpws contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package gpws

import (
	"fmt"
	"strconv"
)

// The configuration enums below all use their zero value for "unset".
// On an envelope or mode that means the requirement applies regardless;
// on an AircraftState it means the value is not known, in which case an
// envelope that does have a requirement never matches.

type Flaps int

const (
	FlapsUnset Flaps = iota
	Flaps0
	Flaps1
	Flaps2
	Flaps3
	FlapsFull
)

var flapsNames = [...]string{"", "0", "1", "2", "3", "Full"}

func (f Flaps) String() string {
	if f < 0 || int(f) >= len(flapsNames) {
		return "Flaps(" + strconv.Itoa(int(f)) + ")"
	}
	if f == FlapsUnset {
		return "Unset"
	}
	return flapsNames[f]
}

// ParseFlaps parses the text form of a flaps setting; the empty string is
// FlapsUnset.
func ParseFlaps(s string) (Flaps, error) {
	for i, n := range flapsNames {
		if n == s {
			return Flaps(i), nil
		}
	}
	return FlapsUnset, fmt.Errorf("%q: %w", s, ErrInvalidFlaps)
}

func (f Flaps) MarshalText() ([]byte, error) {
	if f < 0 || int(f) >= len(flapsNames) {
		return nil, fmt.Errorf("%d: %w", int(f), ErrInvalidFlaps)
	}
	return []byte(flapsNames[f]), nil
}

func (f *Flaps) UnmarshalText(b []byte) error {
	var err error
	*f, err = ParseFlaps(string(b))
	return err
}

///////////////////////////////////////////////////////////////////////////

type Gear int

const (
	GearUnset Gear = iota
	GearUp
	GearDown
)

var gearNames = [...]string{"", "Up", "Down"}

func (g Gear) String() string {
	if g < 0 || int(g) >= len(gearNames) {
		return "Gear(" + strconv.Itoa(int(g)) + ")"
	}
	if g == GearUnset {
		return "Unset"
	}
	return gearNames[g]
}

func ParseGear(s string) (Gear, error) {
	for i, n := range gearNames {
		if n == s {
			return Gear(i), nil
		}
	}
	return GearUnset, fmt.Errorf("%q: %w", s, ErrInvalidGear)
}

func (g Gear) MarshalText() ([]byte, error) {
	if g < 0 || int(g) >= len(gearNames) {
		return nil, fmt.Errorf("%d: %w", int(g), ErrInvalidGear)
	}
	return []byte(gearNames[g]), nil
}

func (g *Gear) UnmarshalText(b []byte) error {
	var err error
	*g, err = ParseGear(string(b))
	return err
}

///////////////////////////////////////////////////////////////////////////

type FlightPhase int

const (
	PhaseUnset FlightPhase = iota
	PhaseTakeoff
	PhaseCruise
	PhaseApproach
)

var phaseNames = [...]string{"", "Takeoff", "Cruise", "Approach"}

func (p FlightPhase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "FlightPhase(" + strconv.Itoa(int(p)) + ")"
	}
	if p == PhaseUnset {
		return "Unset"
	}
	return phaseNames[p]
}

func ParsePhase(s string) (FlightPhase, error) {
	for i, n := range phaseNames {
		if n == s {
			return FlightPhase(i), nil
		}
	}
	return PhaseUnset, fmt.Errorf("%q: %w", s, ErrInvalidPhase)
}

func (p FlightPhase) MarshalText() ([]byte, error) {
	if p < 0 || int(p) >= len(phaseNames) {
		return nil, fmt.Errorf("%d: %w", int(p), ErrInvalidPhase)
	}
	return []byte(phaseNames[p]), nil
}

func (p *FlightPhase) UnmarshalText(b []byte) error {
	var err error
	*p, err = ParsePhase(string(b))
	return err
}

///////////////////////////////////////////////////////////////////////////

type AlertClass int

const (
	Caution AlertClass = iota
	Warning
)

func (c AlertClass) String() string {
	switch c {
	case Caution:
		return "Caution"
	case Warning:
		return "Warning"
	default:
		return "AlertClass(" + strconv.Itoa(int(c)) + ")"
	}
}

// ParseAlertClass accepts the full names as well as the single-letter
// abbreviations used in envelope tables.
func ParseAlertClass(s string) (AlertClass, error) {
	switch s {
	case "Caution", "C":
		return Caution, nil
	case "Warning", "W":
		return Warning, nil
	default:
		return Caution, fmt.Errorf("%q: %w", s, ErrInvalidClass)
	}
}

func (c AlertClass) MarshalText() ([]byte, error) {
	if c != Caution && c != Warning {
		return nil, fmt.Errorf("%d: %w", int(c), ErrInvalidClass)
	}
	return []byte(c.String()), nil
}

func (c *AlertClass) UnmarshalText(b []byte) error {
	var err error
	*c, err = ParseAlertClass(string(b))
	return err
}
