// Package display reports the thermometer's value as plain text lines.
package display

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/luki/thermolink/internal/log"
)

// Source is anything that exposes the latest temperature and whether it
// is current. Both calls must be safe to use while the value is updated.
type Source interface {
	Temperature() float32
	Connected() bool
}

// Run polls src every interval and writes the temperature to w while src
// is connected. Ticks without connectivity write nothing. A failed write
// is logged and the next tick tries again. Run returns only when ctx is
// done.
func Run(ctx context.Context, src Source, interval time.Duration, w io.Writer) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := report(src, w); err != nil {
				log.Warn("[DISPLAY] can't write reading", "err", err)
			}
		}
	}
}

func report(src Source, w io.Writer) error {
	if !src.Connected() {
		return nil
	}
	_, err := fmt.Fprintf(w, "The temperature is %v\n", src.Temperature())
	return err
}
