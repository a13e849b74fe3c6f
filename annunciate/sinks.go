// annunciate/sinks.go
// Copyright(c) 2025 gpws contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package annunciate

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/gpwsim/gpws/gpws"
	"github.com/gpwsim/gpws/log"

	"github.com/gen2brain/beeep"
)

// LogSink writes announcements to the log; warnings are logged at warn
// level and cautions at info.
type LogSink struct {
	Logger *log.Logger
}

func (s LogSink) Announce(a Announcement) error {
	if a.Cleared {
		s.Logger.Info("GPWS clear", slog.Int("t", a.T))
		return nil
	}

	args := []any{
		slog.Int("t", a.T),
		slog.String("mode", a.Mode),
		slog.String("envelope", a.Name),
		slog.Float64("priority", a.Priority),
	}
	if a.Class == gpws.Warning {
		s.Logger.Warn("GPWS "+a.Callout, args...)
	} else {
		s.Logger.Info("GPWS "+a.Callout, args...)
	}
	return nil
}

// WriterSink writes one line per announcement.
type WriterSink struct {
	W io.Writer
}

func (s WriterSink) Announce(a Announcement) error {
	_, err := fmt.Fprintln(s.W, a.String())
	return err
}

// DesktopSink posts a desktop notification for each alert and sounds a
// beep for warnings.
type DesktopSink struct {
	Icon string // path to the notification icon; may be empty
}

func NewDesktopSink(appName, icon string) DesktopSink {
	beeep.AppName = appName //nolint:reassign // beeep only exposes the app name as a variable
	return DesktopSink{Icon: icon}
}

func (s DesktopSink) Announce(a Announcement) error {
	if a.Cleared {
		return nil
	}

	body := a.Name
	if a.Mode != "" {
		body = a.Mode + ": " + a.Name
	}
	if err := beeep.Notify(a.Class.String()+": "+a.Callout, body, s.Icon); err != nil {
		return fmt.Errorf("notify: %w", err)
	}
	if a.Class == gpws.Warning {
		if err := beeep.Beep(beeep.DefaultFreq, beeep.DefaultDuration); err != nil {
			return fmt.Errorf("beep: %w", err)
		}
	}
	return nil
}
