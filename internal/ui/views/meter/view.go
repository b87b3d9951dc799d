package meter

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	meterdto "soundcheck/internal/modules/meter/dto"
	"soundcheck/internal/ui/components"
	"soundcheck/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type MeterPort interface {
	Begin(ctx context.Context, input meterdto.BeginInput) (meterdto.SnapshotOutput, error)
	Step(ctx context.Context) (meterdto.SnapshotOutput, error)
	Abort(ctx context.Context) error
}

// ─── messages ────────────────────────────────────────────────────────────────

type StartedMsg struct {
	Snapshot meterdto.SnapshotOutput
	Err      error
}

type SnapshotMsg struct {
	Snapshot meterdto.SnapshotOutput
	Err      error
}

// CompletedMsg bubbles up to the app so it can refresh the history tab.
type CompletedMsg struct {
	Measurement meterdto.MeasurementOutput
	Err         error
}

type AbortedMsg struct{ Err error }

type frameTickMsg struct{}

// ─── model ───────────────────────────────────────────────────────────────────

// Model drives the live meter: a frame tick advances the measurement and the
// latest snapshot is all the view renders from.
type Model struct {
	port          MeterPort
	frameInterval time.Duration

	running   bool
	acquiring bool
	snapshot  meterdto.SnapshotOutput
	history   []float64
	summary   *meterdto.MeasurementOutput
	errText   string

	bar     components.LevelBar
	spinner spinner.Model
	width   int
	height  int
}

func New(port MeterPort, frameInterval time.Duration) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{
		port:          port,
		frameInterval: frameInterval,
		bar:           components.NewLevelBar(),
		spinner:       sp,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// Running reports whether a measurement is in flight.
func (m Model) Running() bool { return m.running }

// Start kicks off a measurement with the configured defaults.
func (m *Model) Start() tea.Cmd {
	m.acquiring = true
	return tea.Batch(
		m.spinner.Tick,
		func() tea.Msg {
			snapshot, err := m.port.Begin(context.Background(), meterdto.BeginInput{})
			return StartedMsg{Snapshot: snapshot, Err: err}
		},
	)
}

// Stop abandons the measurement in flight.
func (m Model) Stop() tea.Cmd {
	return func() tea.Msg {
		return AbortedMsg{Err: m.port.Abort(context.Background())}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.SetWidth(m.width - 16)

	case StartedMsg:
		m.acquiring = false
		if msg.Err != nil {
			m.errText = msg.Err.Error()
			return m, nil
		}
		m.running = true
		m.errText = ""
		m.summary = nil
		m.history = m.history[:0]
		m.snapshot = msg.Snapshot
		return m, m.scheduleFrame()

	case frameTickMsg:
		if !m.running {
			return m, nil
		}
		return m, m.stepCmd()

	case SnapshotMsg:
		// A completed snapshot may carry a persistence error alongside the
		// finished measurement. Show both rather than dropping the result.
		if msg.Snapshot.Completed != nil {
			m.running = false
			m.snapshot = msg.Snapshot
			m.summary = msg.Snapshot.Completed
			if msg.Err != nil {
				m.errText = msg.Err.Error()
			}
			return m, func() tea.Msg {
				return CompletedMsg{Measurement: *msg.Snapshot.Completed, Err: msg.Err}
			}
		}
		if msg.Err != nil {
			m.running = false
			m.errText = msg.Err.Error()
			return m, nil
		}
		m.snapshot = msg.Snapshot
		m.history = append(m.history, msg.Snapshot.Display)
		return m, m.scheduleFrame()

	case AbortedMsg:
		m.running = false
		if msg.Err != nil {
			m.errText = msg.Err.Error()
		}

	case spinner.TickMsg:
		if m.acquiring {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	var content string
	switch {
	case m.acquiring:
		content = theme.Title.Render("Sound Check") + "\n\n" +
			m.spinner.View() + " acquiring capture…"
	case m.running:
		content = m.renderLive()
	case m.summary != nil:
		content = m.renderSummary()
	default:
		content = m.renderIdle()
	}
	if m.errText != "" {
		content += "\n\n" + lipgloss.NewStyle().Foreground(theme.Red).Render("✗ "+m.errText)
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(content)
}

func (m Model) renderIdle() string {
	return theme.Title.Render("Sound Check") + "\n\n" +
		theme.Muted.Render("press s to start a measurement")
}

func (m Model) renderLive() string {
	s := m.snapshot
	display := theme.Level(s.Display).Render(fmt.Sprintf("%5.1f", s.Display))
	out := theme.Title.Render("Measuring") +
		theme.Muted.Render(fmt.Sprintf("  %s  %s left", s.Backend, s.Remaining.Round(time.Second))) + "\n\n"
	out += display + "  " + m.bar.View(s.Display) + "\n\n"
	out += fmt.Sprintf("%s %5.1f   %s %5.1f   %s %5.1f\n",
		theme.Muted.Render("now"), s.Current,
		theme.Muted.Render("max"), s.MaxLevel,
		theme.Muted.Render("avg"), s.AvgLevel)
	if spark := components.Sparkline(m.history, m.sparkWidth()); spark != "" {
		out += "\n" + lipgloss.NewStyle().Foreground(theme.Blue).Render(spark) + "\n"
	}
	out += "\n" + theme.Muted.Render("a: stop")
	return out
}

func (m Model) renderSummary() string {
	s := m.summary
	out := theme.Title.Render("Measurement complete") + "\n\n"
	out += fmt.Sprintf("%s %.1f\n", theme.Muted.Render("max level:"), s.MaxLevel)
	out += fmt.Sprintf("%s %.1f\n", theme.Muted.Render("avg level:"), s.AvgLevel)
	out += fmt.Sprintf("%s %d\n", theme.Muted.Render("samples:  "), s.SampleCount)
	if trend := trendValues(s.Trend); len(trend) > 0 {
		out += "\n" + lipgloss.NewStyle().Foreground(theme.Blue).Render(components.Sparkline(trend, m.sparkWidth())) + "\n"
	}
	if s.NotePath != "" {
		out += "\n" + theme.Muted.Render("note: ") + s.NotePath
	}
	if s.SVGPath != "" {
		out += "\n" + theme.Muted.Render("svg:  ") + s.SVGPath
	}
	out += "\n\n" + theme.Muted.Render("s: measure again")
	return out
}

func (m Model) sparkWidth() int {
	w := m.width - 8
	if w < 10 {
		w = 10
	}
	return w
}

// ─── commands ────────────────────────────────────────────────────────────────

func (m Model) scheduleFrame() tea.Cmd {
	return tea.Tick(m.frameInterval, func(time.Time) tea.Msg {
		return frameTickMsg{}
	})
}

func (m Model) stepCmd() tea.Cmd {
	return func() tea.Msg {
		snapshot, err := m.port.Step(context.Background())
		return SnapshotMsg{Snapshot: snapshot, Err: err}
	}
}

func trendValues(points []meterdto.TrendPointOutput) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Value
	}
	return out
}
