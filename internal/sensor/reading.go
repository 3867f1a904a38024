// Package sensor describes a single remote temperature sensor: the
// snapshot the display works with, the 4-byte datagram it sends, and a
// synthetic source of readings.
package sensor

import "time"

// Reading is a point-in-time view of the thermometer.
type Reading struct {
	Temp      float32   // last received temperature, 0 if none yet
	Connected bool      // last receive attempt succeeded before its timeout
	Time      time.Time // when the snapshot was taken
}

// Stale reports whether Temp is a value held over from before the link
// went quiet.
func (r Reading) Stale() bool {
	return !r.Connected
}
