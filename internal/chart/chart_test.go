package chart

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/luki/thermolink/internal/history"
)

var testThresholds = Thresholds{High: 30, Crit: 40}

func TestSparkline(t *testing.T) {
	var pts []history.Point
	for _, v := range []float64{20, 22, 24, 26, 28, 30, 35, 41} {
		pts = append(pts, history.Point{Temp: v})
	}
	result := RenderSparkline(pts, 20, 15, 45, testThresholds)
	if lipgloss.Width(result) != 20 {
		t.Errorf("sparkline width: got %d, want 20", lipgloss.Width(result))
	}
	t.Logf("Sparkline: %s", result)
}

func TestSparklineMinuteTicks(t *testing.T) {
	base := time.Date(2026, 2, 21, 14, 0, 50, 0, time.Local)
	var pts []history.Point
	for i := 0; i < 20; i++ {
		pts = append(pts, history.Point{
			Temp: float64(22 + i%5),
			Time: base.Add(time.Duration(i) * time.Second),
		})
	}

	result := RenderSparkline(pts, 30, 15, 35, testThresholds)
	if !strings.Contains(result, "│") {
		t.Error("expected minute tick mark in sparkline")
	}

	timeline := RenderTimeline(pts, 30)
	if !strings.Contains(timeline, "14:01") {
		t.Errorf("expected 14:01 label in timeline, got %q", timeline)
	}
}

func TestSparklineGaps(t *testing.T) {
	base := time.Date(2026, 2, 21, 14, 0, 10, 0, time.Local)
	pts := []history.Point{
		{Temp: 23.5, Time: base},
		{Time: base.Add(2 * time.Second), Missing: true},
		{Time: base.Add(4 * time.Second), Missing: true},
	}

	result := RenderSparkline(pts, 3, 15, 35, testThresholds)
	if strings.Count(result, "╌") != 2 {
		t.Errorf("expected two gap marks, got %q", result)
	}
}

func TestEmptySparkline(t *testing.T) {
	if got := RenderSparkline(nil, 0, 0, 1, testThresholds); got != "" {
		t.Errorf("zero width: got %q", got)
	}
	if got := RenderSparkline(nil, 5, 0, 1, testThresholds); strings.Count(got, "╌") != 5 {
		t.Errorf("empty: got %q", got)
	}
}

func TestThresholdColor(t *testing.T) {
	tests := []struct {
		v    float64
		want lipgloss.Color
	}{
		{20, colorOk},
		{26, colorWarm},
		{31, colorHigh},
		{40, colorCrit},
	}
	for _, tt := range tests {
		if got := testThresholds.Color(tt.v); got != tt.want {
			t.Errorf("Color(%v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestThresholdScale(t *testing.T) {
	result := RenderThresholdScale(24, 15, 45, testThresholds, 30)
	if lipgloss.Width(result) != 30 {
		t.Errorf("scale width: got %d, want 30", lipgloss.Width(result))
	}
	if !strings.Contains(result, "◆") {
		t.Error("expected current marker")
	}
	if strings.Count(result, "▪") != 2 {
		t.Errorf("expected two threshold marks, got %q", result)
	}
}

func TestRange(t *testing.T) {
	lo, hi := testThresholds.Range(22, 25)
	if lo != 17 || hi != 35 {
		t.Errorf("Range(22, 25) = %v, %v; want 17, 35", lo, hi)
	}
}
