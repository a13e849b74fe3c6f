// gpws/errors.go
// Copyright(c) 2025 gpws contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package gpws

import "errors"

var (
	ErrTooFewVertices    = errors.New("Envelope must have at least three vertices")
	ErrNonFiniteVertex   = errors.New("Envelope vertex is not finite")
	ErrMalformedVertex   = errors.New("Envelope vertex must have exactly two coordinates")
	ErrDuplicateVertex   = errors.New("Envelope has repeated consecutive vertices")
	ErrDegeneratePolygon = errors.New("Envelope polygon has zero area")
	ErrCounterClockwise  = errors.New("Envelope vertices must be in clockwise order")
	ErrNonFinitePriority = errors.New("Envelope priority is not finite")
	ErrEnvelopeOwned     = errors.New("Envelope already belongs to a mode")
	ErrNilEnvelope       = errors.New("nil Envelope")
	ErrInvalidChannel    = errors.New("Invalid channel")
	ErrSameAxes          = errors.New("Mode axes must be different channels")
	ErrNilMode           = errors.New("nil Mode")
	ErrDuplicateMode     = errors.New("Duplicate mode name")
	ErrInvalidFlaps      = errors.New("Invalid flaps setting")
	ErrInvalidGear       = errors.New("Invalid gear setting")
	ErrInvalidPhase      = errors.New("Invalid flight phase")
	ErrInvalidClass      = errors.New("Invalid alert class")
)
