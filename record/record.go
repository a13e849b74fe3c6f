// record/record.go
// Copyright(c) 2025 gpws contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package record stores and loads flight recordings: the aircraft state
// and the resulting decision for each evaluation cycle.
package record

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gpwsim/gpws/gpws"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"
)

// Recordings are msgpack-encoded Recording structs, compressed with zstd.
const FileExtension = ".msgpack.zst"

const currentVersion = 1

var ErrUnsupportedVersion = errors.New("Unsupported recording version")

type Frame struct {
	T     int                `msgpack:"t"`
	State gpws.AircraftState `msgpack:"state"`
	// The active envelope, if any; Warning is empty otherwise.
	Mode     string          `msgpack:"mode,omitempty"`
	Warning  string          `msgpack:"warning,omitempty"`
	Class    gpws.AlertClass `msgpack:"class,omitempty"`
	Priority float64         `msgpack:"priority,omitempty"`
	Callout  string          `msgpack:"callout,omitempty"`
}

// NewFrame records the decision e, which may be nil, for the state s at
// time t.
func NewFrame(t int, s gpws.AircraftState, e *gpws.Envelope) Frame {
	f := Frame{T: t, State: s}
	if e != nil {
		f.Warning = e.Name()
		f.Class = e.Class()
		f.Priority = e.Priority()
		f.Callout = e.Callout()
		if m := e.Mode(); m != nil {
			f.Mode = m.Name
		}
	}
	return f
}

func (f Frame) Active() bool {
	return f.Warning != ""
}

type Recording struct {
	Version int       `msgpack:"version"`
	Created time.Time `msgpack:"created"`
	Frames  []Frame   `msgpack:"frames"`
}

func Write(w io.Writer, frames []Frame) error {
	zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return fmt.Errorf("failed to create zstd writer: %w", err)
	}
	defer zw.Close()

	rec := Recording{Version: currentVersion, Created: time.Now().UTC(), Frames: frames}
	if err := msgpack.NewEncoder(zw).Encode(rec); err != nil {
		return fmt.Errorf("failed to encode recording: %w", err)
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to close zstd writer: %w", err)
	}
	return nil
}

func Read(r io.Reader) (*Recording, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd reader: %w", err)
	}
	defer zr.Close()

	var rec Recording
	if err := msgpack.NewDecoder(zr).Decode(&rec); err != nil {
		return nil, fmt.Errorf("failed to decode recording: %w", err)
	}
	if rec.Version != currentVersion {
		return nil, fmt.Errorf("version %d: %w", rec.Version, ErrUnsupportedVersion)
	}
	return &rec, nil
}
