// telemetry/errors.go
// Copyright(c) 2025 gpws contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package telemetry

import "errors"

var (
	ErrUnknownMessage   = errors.New("Unknown message")
	ErrMalformedMessage = errors.New("Malformed message")
	ErrNotConnected     = errors.New("Not connected to the message bus")
)
