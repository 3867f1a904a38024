package sensor

import (
	"math"
	"time"
)

// Generator produces a slow sine wave around 24 degrees, one full period
// roughly every 25 seconds.
type Generator struct {
	Base    float64
	started time.Time
}

func NewGenerator(now time.Time) *Generator {
	return &Generator{Base: 24, started: now}
}

func (g *Generator) Generate(now time.Time) float32 {
	elapsed := now.Sub(g.started).Seconds()
	return float32(g.Base + math.Sin(elapsed/4))
}
