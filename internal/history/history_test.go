package history

import (
	"testing"
	"time"
)

func TestHistory(t *testing.T) {
	h := NewBuffer(5)

	now := time.Now()
	for i := 0; i < 7; i++ {
		h.Push(float64(30+i), now.Add(time.Duration(i)*time.Second))
	}

	if h.Len() != 5 {
		t.Errorf("expected 5 points, got %d", h.Len())
	}

	if last, ok := h.Last(); !ok || last != 36.0 {
		t.Errorf("Last(): got %f (ok=%v), want 36.0", last, ok)
	}

	if h.Min() != 30.0 {
		t.Errorf("Min: got %f, want 30.0", h.Min())
	}

	if h.Peak() != 36.0 {
		t.Errorf("Peak: got %f, want 36.0", h.Peak())
	}

	// 32..36 remain in the ring.
	if h.Avg() != 34.0 {
		t.Errorf("Avg: got %f, want 34.0", h.Avg())
	}
}

func TestLastNPoints(t *testing.T) {
	h := NewBuffer(100)
	base := time.Date(2026, 2, 21, 14, 0, 0, 0, time.Local)

	for i := 0; i < 120; i++ {
		h.Push(float64(30+i%10), base.Add(time.Duration(i)*time.Second))
	}

	pts := h.LastNPoints(5)
	if len(pts) != 5 {
		t.Fatalf("LastNPoints(5): got %d, want 5", len(pts))
	}

	for i := 1; i < len(pts); i++ {
		if !pts[i].Time.After(pts[i-1].Time) {
			t.Errorf("points out of order at %d: %v then %v", i, pts[i-1].Time, pts[i].Time)
		}
	}

	last := pts[len(pts)-1]
	if last.Time != base.Add(119*time.Second) {
		t.Errorf("last point time: got %v, want %v", last.Time, base.Add(119*time.Second))
	}

	if got := h.LastNPoints(500); len(got) != 100 {
		t.Errorf("LastNPoints(500): got %d, want 100", len(got))
	}
}

func TestGaps(t *testing.T) {
	h := NewBuffer(4)
	base := time.Date(2026, 2, 21, 14, 0, 0, 0, time.Local)

	if _, ok := h.Last(); ok {
		t.Error("empty buffer should have no last value")
	}
	if h.Min() != 0 || h.Peak() != 0 || h.Avg() != 0 {
		t.Errorf("empty stats: min=%f peak=%f avg=%f", h.Min(), h.Peak(), h.Avg())
	}

	h.Push(23.5, base)
	h.PushGap(base.Add(2 * time.Second))
	h.PushGap(base.Add(4 * time.Second))

	if last, ok := h.Last(); !ok || last != 23.5 {
		t.Errorf("Last() after gaps: got %f (ok=%v), want 23.5", last, ok)
	}
	if h.Avg() != 23.5 {
		t.Errorf("Avg should skip gaps, got %f", h.Avg())
	}
	if up := h.Uptime(); up < 0.33 || up > 0.34 {
		t.Errorf("Uptime: got %f, want 1/3", up)
	}

	pts := h.LastNPoints(3)
	if pts[0].Missing || !pts[1].Missing || !pts[2].Missing {
		t.Errorf("unexpected gap layout: %+v", pts)
	}
}
