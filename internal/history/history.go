// Package history keeps the readings the display has shown, in a fixed
// size ring, with session min/peak and a rolling average.
package history

import (
	"math"
	"time"
)

// Point is one display tick. Missing marks a tick where the sensor was
// silent and no value was shown.
type Point struct {
	Temp    float64
	Time    time.Time
	Missing bool
}

// Buffer is a ring of the most recent points.
type Buffer struct {
	points []Point
	head   int // index of the oldest point
	size   int

	min  float64
	peak float64
	seen bool
}

// NewBuffer creates a ring holding at most capacity points.
func NewBuffer(capacity int) *Buffer {
	if capacity < 1 {
		capacity = 1
	}
	return &Buffer{
		points: make([]Point, capacity),
		min:    math.MaxFloat64,
		peak:   -math.MaxFloat64,
	}
}

// Push records a displayed temperature.
func (b *Buffer) Push(temp float64, t time.Time) {
	b.add(Point{Temp: temp, Time: t})
	b.seen = true
	if temp < b.min {
		b.min = temp
	}
	if temp > b.peak {
		b.peak = temp
	}
}

// PushGap records a tick with no connectivity.
func (b *Buffer) PushGap(t time.Time) {
	b.add(Point{Time: t, Missing: true})
}

func (b *Buffer) add(p Point) {
	capacity := len(b.points)
	if b.size < capacity {
		b.points[(b.head+b.size)%capacity] = p
		b.size++
		return
	}
	b.points[b.head] = p
	b.head = (b.head + 1) % capacity
}

func (b *Buffer) Len() int { return b.size }
func (b *Buffer) Cap() int { return len(b.points) }

// Last returns the newest non-missing temperature.
func (b *Buffer) Last() (float64, bool) {
	for i := b.size - 1; i >= 0; i-- {
		if p := b.at(i); !p.Missing {
			return p.Temp, true
		}
	}
	return 0, false
}

// Min and Peak cover every value pushed since creation, including ones
// the ring has already dropped. Both are 0 before the first value.
func (b *Buffer) Min() float64 {
	if !b.seen {
		return 0
	}
	return b.min
}

func (b *Buffer) Peak() float64 {
	if !b.seen {
		return 0
	}
	return b.peak
}

// Avg averages the values still in the ring, skipping gaps.
func (b *Buffer) Avg() float64 {
	sum, n := 0.0, 0
	for i := 0; i < b.size; i++ {
		if p := b.at(i); !p.Missing {
			sum += p.Temp
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// Uptime is the share of retained ticks that carried a value.
func (b *Buffer) Uptime() float64 {
	if b.size == 0 {
		return 0
	}
	n := 0
	for i := 0; i < b.size; i++ {
		if !b.at(i).Missing {
			n++
		}
	}
	return float64(n) / float64(b.size)
}

// LastNPoints returns up to n of the newest points, oldest first.
func (b *Buffer) LastNPoints(n int) []Point {
	if n <= 0 || b.size == 0 {
		return nil
	}
	if n > b.size {
		n = b.size
	}
	out := make([]Point, n)
	for i := 0; i < n; i++ {
		out[i] = b.at(b.size - n + i)
	}
	return out
}

func (b *Buffer) at(i int) Point {
	return b.points[(b.head+i)%len(b.points)]
}
