// Package chart renders the thermometer history as a one-line sparkline
// with color-coded thresholds, minute ticks, signal gaps and a scale bar.
package chart

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/luki/thermolink/internal/history"
)

var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

const (
	gapRune  = '╌'
	tickRune = '│'
)

var (
	colorOk   = lipgloss.Color("78")
	colorWarm = lipgloss.Color("220")
	colorHigh = lipgloss.Color("208")
	colorCrit = lipgloss.Color("196")
	colorTick = lipgloss.Color("239")
	colorGap  = lipgloss.Color("236")
	colorLost = lipgloss.Color("131")
)

// Thresholds are the temperatures at which a value is drawn as high and
// as critical. Values within 15% below High are drawn as warm.
type Thresholds struct {
	High float64
	Crit float64
}

// Color returns the color for v.
func (th Thresholds) Color(v float64) lipgloss.Color {
	switch {
	case v >= th.Crit:
		return colorCrit
	case v >= th.High:
		return colorHigh
	case v >= th.High*0.85:
		return colorWarm
	default:
		return colorOk
	}
}

// Range returns a vertical range that fits low..peak with some padding
// and always includes the high threshold.
func (th Thresholds) Range(low, peak float64) (float64, float64) {
	return low - 5, math.Max(peak, th.High) + 5
}

func (th Thresholds) style(v float64) lipgloss.Style {
	s := lipgloss.NewStyle().Foreground(th.Color(v))
	if v >= th.Crit {
		s = s.Bold(true)
	}
	return s
}

// RenderSparkline draws points right-aligned in width cells. Missing
// points are drawn as gaps in a muted red, minute boundaries as a thin
// pipe, and unused cells on the left as dim dashes.
func RenderSparkline(points []history.Point, width int, rangeMin, rangeMax float64, th Thresholds) string {
	if width <= 0 {
		return ""
	}

	dim := lipgloss.NewStyle().Foreground(colorGap)
	if len(points) == 0 {
		return dim.Render(strings.Repeat(string(gapRune), width))
	}

	if len(points) > width {
		points = points[len(points)-width:]
	}

	span := rangeMax - rangeMin
	if span <= 0 {
		span = 1
	}

	var sb strings.Builder
	sb.WriteString(dim.Render(strings.Repeat(string(gapRune), width-len(points))))

	tickStyle := lipgloss.NewStyle().Foreground(colorTick)
	lostStyle := lipgloss.NewStyle().Foreground(colorLost)

	for i, p := range points {
		switch {
		case p.Missing:
			sb.WriteString(lostStyle.Render(string(gapRune)))
		case isMinuteTick(points, i):
			sb.WriteString(tickStyle.Render(string(tickRune)))
		default:
			norm := math.Max(0, math.Min(1, (p.Temp-rangeMin)/span))
			idx := int(norm * 7)
			sb.WriteString(th.style(p.Temp).Render(string(sparkBlocks[idx])))
		}
	}

	return sb.String()
}

func isMinuteTick(points []history.Point, i int) bool {
	p := points[i]
	if p.Time.IsZero() {
		return false
	}
	if p.Time.Second() == 0 {
		return true
	}
	if i > 0 && !points[i-1].Time.IsZero() {
		return p.Time.Minute() != points[i-1].Time.Minute()
	}
	return false
}

// RenderTimeline renders HH:MM labels under the sparkline, one per minute
// tick, skipping labels that would overlap.
func RenderTimeline(points []history.Point, width int) string {
	if len(points) == 0 || width <= 0 {
		return ""
	}

	if len(points) > width {
		points = points[len(points)-width:]
	}
	padLen := width - len(points)

	line := []rune(strings.Repeat(" ", width))
	lastEnd := -1
	for i, p := range points {
		if !isMinuteTick(points, i) {
			continue
		}
		label := p.Time.Format("15:04")
		start := padLen + i - 2
		if start < 0 {
			start = 0
		}
		end := start + len(label)
		if end > width || start <= lastEnd+1 {
			continue
		}
		copy(line[start:], []rune(label))
		lastEnd = end
	}

	return lipgloss.NewStyle().Foreground(colorTick).Render(string(line))
}

// RenderThresholdScale draws a bar from rangeMin to rangeMax with the
// thresholds marked and a diamond at current.
func RenderThresholdScale(current, rangeMin, rangeMax float64, th Thresholds, width int) string {
	if width <= 0 {
		return ""
	}

	span := rangeMax - rangeMin
	if span <= 0 {
		span = 1
	}
	pos := func(v float64) int {
		p := int(float64(width-1) * (v - rangeMin) / span)
		return max(0, min(width-1, p))
	}

	highPos, critPos := -1, -1
	if th.High > rangeMin && th.High < rangeMax {
		highPos = pos(th.High)
	}
	if th.Crit > rangeMin && th.Crit < rangeMax {
		critPos = pos(th.Crit)
	}
	curPos := pos(current)

	dot := lipgloss.NewStyle().Foreground(colorGap).Render("·")
	var sb strings.Builder
	for i := 0; i < width; i++ {
		switch i {
		case curPos:
			sb.WriteString(th.style(current).Bold(true).Render("◆"))
		case critPos:
			sb.WriteString(lipgloss.NewStyle().Foreground(colorCrit).Render("▪"))
		case highPos:
			sb.WriteString(lipgloss.NewStyle().Foreground(colorWarm).Render("▪"))
		default:
			sb.WriteString(dot)
		}
	}

	return sb.String()
}

// RenderTempValue renders temp with its threshold color.
func RenderTempValue(temp float64, th Thresholds) string {
	return th.style(temp).Render(fmt.Sprintf("%5.1f°", temp))
}
