// annunciate/annunciate.go
// Copyright(c) 2025 gpws contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package annunciate turns the per-cycle decisions into aural and visual
// alerts, announcing only changes.
package annunciate

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/gpwsim/gpws/gpws"
	"github.com/gpwsim/gpws/log"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

type Announcement struct {
	T        int
	Cleared  bool // no envelope is active any more; the other fields are unset
	Mode     string
	Name     string
	Class    gpws.AlertClass
	Priority float64
	Callout  string
}

func (a Announcement) String() string {
	if a.Cleared {
		return "t=" + strconv.Itoa(a.T) + " clear"
	}
	callout := a.Callout
	if callout == "" {
		callout = a.Name
	}
	return fmt.Sprintf("t=%d %s %s (%s / %s, priority %s)", a.T, a.Class, callout, a.Mode, a.Name,
		strconv.FormatFloat(a.Priority, 'g', -1, 64))
}

type Sink interface {
	Announce(a Announcement) error
}

// Annunciator receives one decision per evaluation cycle and forwards
// changes to its sinks. When the alerts have cleared, a callout that was
// announced within the hold time is not repeated if an envelope with the
// same callout becomes active again; the clear that follows such a
// suppressed alert is not announced either.
type Annunciator struct {
	mu      sync.Mutex
	sinks   []Sink
	current *gpws.Envelope
	silent  bool // current was suppressed
	recent  *expirable.LRU[string, int] // callout -> time announced
	lg      *log.Logger
}

// New returns an Annunciator; a hold of zero disables repeat suppression.
func New(hold time.Duration, lg *log.Logger, sinks ...Sink) *Annunciator {
	a := &Annunciator{sinks: sinks, lg: lg}
	if hold > 0 {
		a.recent = expirable.NewLRU[string, int](64, nil, hold)
	}
	return a
}

// Update records the decision for cycle t. It returns true if the sinks
// were notified.
func (a *Annunciator) Update(t int, e *gpws.Envelope) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if e == a.current {
		return false
	}
	prev := a.current
	a.current = e

	if e == nil {
		if a.silent {
			a.silent = false
			return false
		}
		a.lg.Debug("cleared", "t", t, "was", prev.String())
		a.announce(Announcement{T: t, Cleared: true})
		return true
	}

	callout := e.Callout()
	if callout == "" {
		callout = e.Name()
	}
	if a.recent != nil {
		if when, ok := a.recent.Get(callout); ok && prev == nil {
			a.lg.Debugf("%s: suppressed, announced at t=%d", callout, when)
			a.silent = true
			return false
		}
		a.recent.Add(callout, t)
	}
	a.silent = false

	ann := Announcement{
		T:        t,
		Name:     e.Name(),
		Class:    e.Class(),
		Priority: e.Priority(),
		Callout:  e.Callout(),
	}
	if m := e.Mode(); m != nil {
		ann.Mode = m.Name
	}
	a.announce(ann)
	return true
}

func (a *Annunciator) announce(ann Announcement) {
	for _, s := range a.sinks {
		if err := s.Announce(ann); err != nil {
			a.lg.Warnf("%T: %v", s, err)
		}
	}
}

// Current returns the envelope that was most recently reported active.
func (a *Annunciator) Current() *gpws.Envelope {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current
}
