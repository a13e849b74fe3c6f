// telemetry/replay.go
// Copyright(c) 2025 gpws contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package telemetry

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gpwsim/gpws/log"
)

// Replay reads a scenario, one message per line, applies the messages to
// tr and calls onTick with each completed cycle. If interval is non-zero,
// cycles are delivered no faster than one per interval. Blank lines,
// lines starting with '#' and messages of unknown kinds are skipped; a
// malformed message ends the replay with an error, as does an error
// returned by onTick.
func Replay(ctx context.Context, r io.Reader, tr *Tracker, interval time.Duration, lg *log.Logger,
	onTick func(Cycle) error) error {
	var tick <-chan time.Time
	if interval > 0 {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	deliver := func(c Cycle) error {
		if tick != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-tick:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}
		return onTick(c)
	}

	scanner := bufio.NewScanner(r)
	for line := 1; scanner.Scan(); line++ {
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		m, err := Parse(text)
		if errors.Is(err, ErrUnknownMessage) {
			lg.Debugf("line %d: %v", line, err)
			continue
		} else if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}

		if c, ok := tr.Apply(m); ok {
			if err := deliver(c); err != nil {
				return err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	if c, ok := tr.Flush(); ok {
		return deliver(c)
	}
	return nil
}
