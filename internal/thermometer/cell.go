package thermometer

import "go.uber.org/atomic"

// Temperature holds the last received reading. The zero value reads 0.
type Temperature struct {
	v atomic.Float32
}

func (t *Temperature) Get() float32  { return t.v.Load() }
func (t *Temperature) Set(v float32) { t.v.Store(v) }

// Connectivity is true while the last receive attempt succeeded before
// its timeout. The zero value is false.
type Connectivity struct {
	v atomic.Bool
}

func (c *Connectivity) Get() bool  { return c.v.Load() }
func (c *Connectivity) Set(v bool) { c.v.Store(v) }
