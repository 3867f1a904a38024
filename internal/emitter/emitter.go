// Package emitter is the sending side of the sensor link. It writes one
// synthetic reading per interval to a fixed peer and never waits for an
// answer.
package emitter

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/luki/thermolink/internal/log"
	"github.com/luki/thermolink/internal/sensor"
)

type Config struct {
	BindAddr string
	PeerAddr string
	Interval time.Duration
}

type Emitter struct {
	conn     net.PacketConn
	peer     *net.UDPAddr
	interval time.Duration
	gen      *sensor.Generator
}

func New(cfg Config) (*Emitter, error) {
	peer, err := net.ResolveUDPAddr("udp", cfg.PeerAddr)
	if err != nil {
		return nil, fmt.Errorf("resolve peer %s: %w", cfg.PeerAddr, err)
	}
	conn, err := net.ListenPacket("udp", cfg.BindAddr)
	if err != nil {
		return nil, fmt.Errorf("bind %s: %w", cfg.BindAddr, err)
	}
	if cfg.Interval <= 0 {
		cfg.Interval = time.Second
	}
	return &Emitter{
		conn:     conn,
		peer:     peer,
		interval: cfg.Interval,
		gen:      sensor.NewGenerator(time.Now()),
	}, nil
}

func (e *Emitter) LocalAddr() net.Addr { return e.conn.LocalAddr() }

// Run sends until ctx is done, then closes the socket. Send errors are
// logged and the next tick tries again.
func (e *Emitter) Run(ctx context.Context) error {
	defer e.conn.Close()

	log.Info("[SENDER] sending temperature", "from", e.conn.LocalAddr().String(), "to", e.peer.String(), "interval", e.interval)

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		e.send(time.Now())

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (e *Emitter) send(now time.Time) {
	v := e.gen.Generate(now)
	b := sensor.Encode(v)
	if _, err := e.conn.WriteTo(b[:], e.peer); err != nil {
		log.Warn("[SENDER] can't send temperature", "to", e.peer.String(), "err", err)
		return
	}
	log.Debug("[SENDER] sent", "temp", v)
}
