// telemetry/bus.go
// Copyright(c) 2025 gpws contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package telemetry

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gpwsim/gpws/gpws"
	"github.com/gpwsim/gpws/log"

	"github.com/nats-io/nats.go"
)

// BusConfig holds the message bus connection settings.
type BusConfig struct {
	URL            string
	Name           string
	ReconnectWait  time.Duration
	MaxReconnects  int
	ConnectTimeout time.Duration
}

func DefaultBusConfig(url string) BusConfig {
	return BusConfig{
		URL:            url,
		Name:           "GPWS",
		ReconnectWait:  time.Second,
		MaxReconnects:  -1, // forever
		ConnectTimeout: 5 * time.Second,
	}
}

// Bus carries telemetry and decision messages over NATS. Each NATS
// message holds a single text message line.
type Bus struct {
	conn *nats.Conn
	lg   *log.Logger

	mu         sync.Mutex
	subs       []*nats.Subscription
	reconnects int
}

func Connect(cfg BusConfig, lg *log.Logger) (*Bus, error) {
	b := &Bus{lg: lg}

	opts := []nats.Option{
		nats.Name(cfg.Name),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.Timeout(cfg.ConnectTimeout),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			lg.Warnf("%s: disconnected: %v", cfg.URL, err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			b.mu.Lock()
			b.reconnects++
			b.mu.Unlock()
			lg.Infof("%s: reconnected", nc.ConnectedUrl())
		}),
	}

	conn, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: unable to connect: %w", cfg.URL, err)
	}
	b.conn = conn

	lg.Info("connected", "url", conn.ConnectedUrl(), "name", cfg.Name)
	return b, nil
}

// SubscribeTelemetry applies every message received on subject to tr and
// calls onCycle with each completed cycle. onCycle runs on the NATS
// delivery goroutine, so cycles are delivered in order.
func (b *Bus) SubscribeTelemetry(subject string, tr *Tracker, onCycle func(Cycle)) error {
	if b == nil || b.conn == nil {
		return ErrNotConnected
	}

	sub, err := b.conn.Subscribe(subject, func(msg *nats.Msg) {
		m, err := Parse(string(msg.Data))
		if errors.Is(err, ErrUnknownMessage) {
			b.lg.Debugf("%s: %v", subject, err)
			return
		} else if err != nil {
			b.lg.Warnf("%s: %v", subject, err)
			return
		}
		if c, ok := tr.Apply(m); ok {
			onCycle(c)
		}
	})
	if err != nil {
		return fmt.Errorf("%s: unable to subscribe: %w", subject, err)
	}

	b.mu.Lock()
	b.subs = append(b.subs, sub)
	b.mu.Unlock()
	return nil
}

func (b *Bus) Publish(subject string, m Message) error {
	if b == nil || b.conn == nil {
		return ErrNotConnected
	}
	return b.conn.Publish(subject, []byte(m.String()))
}

// PublishDecision publishes a Warning for e, or Clear if e is nil.
func (b *Bus) PublishDecision(subject string, e *gpws.Envelope) error {
	return b.Publish(subject, Decision(e))
}

func (b *Bus) Reconnects() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.reconnects
}

// Close unsubscribes and drains the connection.
func (b *Bus) Close() error {
	if b == nil || b.conn == nil {
		return nil
	}

	b.mu.Lock()
	for _, sub := range b.subs {
		if err := sub.Unsubscribe(); err != nil {
			b.lg.Warnf("%s: %v", sub.Subject, err)
		}
	}
	b.subs = nil
	b.mu.Unlock()

	return b.conn.Drain()
}
