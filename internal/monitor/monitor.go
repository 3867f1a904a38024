// Package monitor implements the live thermometer TUI using BubbleTea: the
// current value with a sparkline of recent readings while the sensor is
// heard, and a NO SIGNAL banner while it is not.
package monitor

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/luki/thermolink/internal/chart"
	"github.com/luki/thermolink/internal/display"
	"github.com/luki/thermolink/internal/history"
	"github.com/luki/thermolink/internal/sensor"
)

// Options configures the monitor.
type Options struct {
	Source      display.Source
	Interval    time.Duration
	HistorySize int
	Thresholds  chart.Thresholds
	Addr        string // shown in the title bar
}

// ── Messages ─────────────────────────────────────────────────────────

type tickMsg time.Time

type readingMsg sensor.Reading

// ── Model ────────────────────────────────────────────────────────────

// Model is the BubbleTea model for the live monitor.
type Model struct {
	opts      Options
	reading   sensor.Reading
	everHeard bool
	history   *history.Buffer
	width     int
	height    int
	startTime time.Time
	paused    bool
}

// New creates the initial model.
func New(opts Options) Model {
	if opts.Interval <= 0 {
		opts.Interval = 2 * time.Second
	}
	return Model{
		opts:      opts,
		history:   history.NewBuffer(opts.HistorySize),
		startTime: time.Now(),
	}
}

// Run starts the TUI and blocks until the user quits or ctx is done.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

// ── Commands ─────────────────────────────────────────────────────────

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.opts.Interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// poll samples connectivity before the value, so a connected sample
// carries the value that made it connected.
func (m Model) poll() tea.Msg {
	connected := m.opts.Source.Connected()
	return readingMsg{
		Temp:      m.opts.Source.Temperature(),
		Connected: connected,
		Time:      time.Now(),
	}
}

// ── Init / Update ────────────────────────────────────────────────────

func (m Model) Init() tea.Cmd {
	return m.tickCmd()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ", "p":
			m.paused = !m.paused
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tickMsg:
		if m.paused {
			return m, m.tickCmd()
		}
		return m, tea.Batch(m.poll, m.tickCmd())

	case readingMsg:
		r := sensor.Reading(msg)
		m.reading = r
		if r.Connected {
			m.everHeard = true
			m.history.Push(float64(r.Temp), r.Time)
		} else {
			m.history.PushGap(r.Time)
		}
	}

	return m, nil
}

// ── Color palette ────────────────────────────────────────────────────

var (
	colorTitleBg  = lipgloss.Color("17")
	colorTitleFg  = lipgloss.Color("51")
	colorBorder   = lipgloss.Color("62")
	colorLabel    = lipgloss.Color("252")
	colorDim      = lipgloss.Color("240")
	colorValue    = lipgloss.Color("250")
	colorFooterBg = lipgloss.Color("235")
	colorOk       = lipgloss.Color("78")
	colorWarn     = lipgloss.Color("220")
	colorHigh     = lipgloss.Color("208")
	colorCrit     = lipgloss.Color("196")
	colorLost     = lipgloss.Color("131")
)

// ── View ─────────────────────────────────────────────────────────────

func (m Model) View() string {
	if m.width == 0 {
		return "  Initializing..."
	}

	contentWidth := max(m.width-2, 40)

	sections := []string{
		m.renderTitleBar(contentWidth),
		m.renderPanel(contentWidth),
		m.renderFooter(contentWidth),
	}
	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	lines := strings.Split(content, "\n")
	if visible := max(m.height, 5); len(lines) > visible {
		lines = lines[:visible]
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderTitleBar(width int) string {
	logo := lipgloss.NewStyle().
		Bold(true).
		Foreground(colorTitleFg).
		Render("THERMOLINK")

	dimS := lipgloss.NewStyle().Foreground(colorDim)
	statusParts := []string{
		dimS.Render(fmt.Sprintf("up %s", fmtDuration(time.Since(m.startTime)))),
	}
	if m.opts.Addr != "" {
		statusParts = append(statusParts, dimS.Render("udp "+m.opts.Addr))
	}
	if !m.reading.Time.IsZero() {
		statusParts = append(statusParts, dimS.Render(m.reading.Time.Format("15:04:05")))
	}
	if m.paused {
		statusParts = append(statusParts, lipgloss.NewStyle().Foreground(colorCrit).Bold(true).Render("PAUSED"))
	}

	sep := dimS.Render(" │ ")
	right := strings.Join(statusParts, sep)

	gap := max(width-lipgloss.Width(logo)-lipgloss.Width(right)-4, 1)

	return lipgloss.NewStyle().
		Background(colorTitleBg).
		Width(width).
		Padding(0, 1).
		Render(logo + strings.Repeat(" ", gap) + right)
}

func (m Model) renderPanel(totalWidth int) string {
	innerWidth := max(totalWidth-4, 30)
	chartWidth := min(max(innerWidth-12, 15), 140)

	dimS := lipgloss.NewStyle().Foreground(colorDim)
	valS := lipgloss.NewStyle().Foreground(colorValue)
	frameL := lipgloss.NewStyle().Foreground(colorBorder).Render("▕")
	frameR := lipgloss.NewStyle().Foreground(colorBorder).Render("▏")

	th := m.opts.Thresholds
	lo, hi := th.Range(m.history.Min(), m.history.Peak())
	pts := m.history.LastNPoints(chartWidth)

	var rows []string
	label := lipgloss.NewStyle().Bold(true).Foreground(colorLabel).Render("Temperature")

	switch {
	case m.reading.Connected:
		temp := float64(m.reading.Temp)
		rows = append(rows, label+"  "+chart.RenderTempValue(temp, th))
		rows = append(rows, frameL+chart.RenderSparkline(pts, chartWidth, lo, hi, th)+frameR)
		if timeline := chart.RenderTimeline(pts, chartWidth); strings.TrimSpace(timeline) != "" {
			rows = append(rows, " "+timeline)
		}
		rows = append(rows, " "+chart.RenderThresholdScale(temp, lo, hi, th, chartWidth))
		stats := dimS.Render("avg") + valS.Render(fmt.Sprintf("%5.1f", m.history.Avg())) +
			dimS.Render("  lo") + valS.Render(fmt.Sprintf("%5.1f", m.history.Min())) +
			dimS.Render("  pk") + valS.Render(fmt.Sprintf("%5.1f", m.history.Peak())) +
			dimS.Render("  link") + valS.Render(fmt.Sprintf("%4.0f%%", 100*m.history.Uptime()))
		rows = append(rows, stats)

	case m.everHeard:
		lost := lipgloss.NewStyle().Bold(true).Foreground(colorLost).Render("NO SIGNAL")
		rows = append(rows, label+"  "+lost)
		rows = append(rows, frameL+chart.RenderSparkline(pts, chartWidth, lo, hi, th)+frameR)
		rows = append(rows, dimS.Render("sensor went quiet, last reading withheld"))

	default:
		rows = append(rows, label+"  "+dimS.Render("Waiting for sensor data..."))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1).
		Width(totalWidth).
		Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m Model) renderFooter(width int) string {
	block := func(c lipgloss.Color) string {
		return lipgloss.NewStyle().Foreground(c).Render("██")
	}
	dimS := lipgloss.NewStyle().Foreground(colorDim)
	keyS := lipgloss.NewStyle().Foreground(colorLabel)

	legend := block(colorOk) + dimS.Render(" ok ") +
		block(colorWarn) + dimS.Render(" warm ") +
		block(colorHigh) + dimS.Render(" high ") +
		block(colorCrit) + dimS.Render(" crit ") +
		lipgloss.NewStyle().Foreground(colorLost).Render("╌") + dimS.Render(" lost")

	keys := dimS.Render("q") + keyS.Render(":quit") +
		dimS.Render("  p") + keyS.Render(":pause")

	gap := max(width-lipgloss.Width(legend)-lipgloss.Width(keys)-4, 1)

	return lipgloss.NewStyle().
		Background(colorFooterBg).
		Width(width).
		Padding(0, 1).
		Render(legend + strings.Repeat(" ", gap) + keys)
}

func fmtDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}
