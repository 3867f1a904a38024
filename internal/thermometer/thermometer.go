// Package thermometer implements the receiving end of the sensor link: a
// background listener that owns a UDP socket and keeps the latest
// temperature plus a connectivity flag for any number of readers.
package thermometer

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/looplab/fsm"
	"go.uber.org/atomic"

	"github.com/luki/thermolink/internal/log"
	"github.com/luki/thermolink/internal/sensor"
)

const (
	StateRunning = "running"
	StateStopped = "stopped"

	eventStop = "stop"

	// Large enough that oversized datagrams are seen whole and rejected
	// instead of silently truncated to PayloadSize.
	maxDatagramSize = 65507

	DefaultReceiveTimeout = 2 * time.Second
)

var ErrClosed = errors.New("thermometer already closed")

type Config struct {
	ListenAddr     string
	ReceiveTimeout time.Duration
}

// Stats counts receive attempts since construction.
type Stats struct {
	Received uint64
	Failures uint64
}

type Thermometer struct {
	id      string
	conn    net.PacketConn
	timeout time.Duration

	temperature Temperature
	connected   Connectivity
	finished    atomic.Bool

	state *fsm.FSM
	done  chan struct{}

	received atomic.Uint64
	failures atomic.Uint64
}

// New binds the socket and starts the listener. A bind failure is
// returned as is and no listener is started.
func New(cfg Config) (*Thermometer, error) {
	if cfg.ReceiveTimeout <= 0 {
		cfg.ReceiveTimeout = DefaultReceiveTimeout
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("session id: %w", err)
	}

	conn, err := net.ListenPacket("udp", cfg.ListenAddr)
	if err != nil {
		return nil, fmt.Errorf("bind %s: %w", cfg.ListenAddr, err)
	}

	t := &Thermometer{
		id:      id.String(),
		conn:    conn,
		timeout: cfg.ReceiveTimeout,
		done:    make(chan struct{}),
	}
	t.state = fsm.NewFSM(
		StateRunning,
		fsm.Events{
			{Name: eventStop, Src: []string{StateRunning}, Dst: StateStopped},
		},
		fsm.Callbacks{
			"enter_" + StateStopped: func(_ context.Context, e *fsm.Event) {
				log.Info("[LISTENER] stopped", "session", t.id, "from", e.Src)
			},
		},
	)

	log.Info("[LISTENER] listening", "session", t.id, "addr", conn.LocalAddr().String(), "timeout", t.timeout)
	go t.listen()

	return t, nil
}

func (t *Thermometer) listen() {
	defer close(t.done)
	defer t.conn.Close()

	buf := make([]byte, maxDatagramSize)
	for {
		if t.finished.Load() {
			if err := t.state.Event(context.Background(), eventStop); err != nil {
				log.Error("[LISTENER] stop transition", "session", t.id, "err", err)
			}
			return
		}

		v, err := t.receive(buf)
		if err != nil {
			t.connected.Set(false)
			t.failures.Inc()
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				log.Info("[LISTENER] no datagram within timeout", "session", t.id, "timeout", t.timeout)
			} else {
				log.Warn("[LISTENER] can't receive datagram", "session", t.id, "err", err)
			}
			continue
		}

		// Temperature first: a reader that sees connected=true also sees
		// the value that made it true.
		t.temperature.Set(v)
		t.connected.Set(true)
		t.received.Inc()
		log.Debug("[LISTENER] got reading", "session", t.id, "temp", v)
	}
}

func (t *Thermometer) receive(buf []byte) (float32, error) {
	if err := t.conn.SetReadDeadline(time.Now().Add(t.timeout)); err != nil {
		return 0, err
	}
	n, _, err := t.conn.ReadFrom(buf)
	if err != nil {
		return 0, err
	}
	return sensor.Decode(buf[:n])
}

// Close asks the listener to stop and waits until it has released the
// socket, at most one receive timeout. Closing twice returns ErrClosed.
func (t *Thermometer) Close() error {
	if !t.finished.CompareAndSwap(false, true) {
		<-t.done
		return ErrClosed
	}
	log.Debug("[LISTENER] stop requested", "session", t.id)
	<-t.done
	return nil
}

func (t *Thermometer) Temperature() float32 { return t.temperature.Get() }
func (t *Thermometer) Connected() bool      { return t.connected.Get() }

// Snapshot reads connectivity before the temperature, so a connected
// snapshot never carries a value older than the one that connected it.
func (t *Thermometer) Snapshot() sensor.Reading {
	connected := t.connected.Get()
	return sensor.Reading{
		Temp:      t.temperature.Get(),
		Connected: connected,
		Time:      time.Now(),
	}
}

func (t *Thermometer) State() string         { return t.state.Current() }
func (t *Thermometer) Done() <-chan struct{} { return t.done }
func (t *Thermometer) LocalAddr() net.Addr   { return t.conn.LocalAddr() }
func (t *Thermometer) Session() string       { return t.id }

func (t *Thermometer) Stats() Stats {
	return Stats{
		Received: t.received.Load(),
		Failures: t.failures.Load(),
	}
}
