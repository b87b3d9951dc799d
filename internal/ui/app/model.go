package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	capturedto "soundcheck/internal/modules/capture/dto"
	meterdto "soundcheck/internal/modules/meter/dto"
	"soundcheck/internal/ui/theme"
	historyview "soundcheck/internal/ui/views/history"
	meterview "soundcheck/internal/ui/views/meter"
)

// ─── ports ───────────────────────────────────────────────────────────────────
// Each port is the minimal interface this orchestration layer requires.
// Sub-view ports are defined in their own packages and narrowed further.

type meterPort interface {
	Begin(ctx context.Context, input meterdto.BeginInput) (meterdto.SnapshotOutput, error)
	Step(ctx context.Context) (meterdto.SnapshotOutput, error)
	Abort(ctx context.Context) error
	List(ctx context.Context) ([]meterdto.MeasurementOutput, error)
	ExportSVG(ctx context.Context, input meterdto.ExportInput) (meterdto.ExportOutput, error)
}

type capturePort interface {
	Doctor(ctx context.Context) ([]capturedto.CheckOutput, error)
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabMeter tabID = iota
	tabHistory
	tabCount
)

var tabLabels = [tabCount]string{"Meter", "History"}

// ─── async messages ───────────────────────────────────────────────────────────

type doctorMsg struct {
	checks []capturedto.CheckOutput
	err    error
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab    key.Binding
	Help   key.Binding
	Quit   key.Binding
	Start  key.Binding
	Stop   key.Binding
	Export key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:   key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Start:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start measurement")),
		Stop:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "stop measurement")),
		Export: key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export svg")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Start, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Start, k.Stop, k.Export},
		{k.Tab, k.Help, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns tab routing, the help overlay
// and the status line. Measurement logic is delegated to port interfaces;
// rendering is delegated to sub-views.
type Model struct {
	capture capturePort

	meterView   meterview.Model
	historyView historyview.Model

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	status    string
	width     int
	height    int
}

func NewModel(meter meterPort, capture capturePort, frameInterval time.Duration) Model {
	return Model{
		capture:     capture,
		meterView:   meterview.New(meterPortBridge{p: meter}, frameInterval),
		historyView: historyview.New(historyPortBridge{p: meter}),
		activeTab:   tabMeter,
		keys:        defaultKeys(),
		help:        help.New(),
		status:      "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.meterView.Init(),
		m.historyView.Init(),
		m.doctorCmd(),
	)
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = m.width
		m.propagateSize()

	case doctorMsg:
		if msg.err != nil {
			m.status = "capture check: " + msg.err.Error()
			break
		}
		m.status = renderDoctor(msg.checks)

	case meterview.StartedMsg:
		if msg.Err != nil {
			m.status = "start failed: " + msg.Err.Error()
		} else {
			m.status = "measuring on " + msg.Snapshot.Backend
		}

	case meterview.CompletedMsg:
		if msg.Err != nil {
			m.status = "completed with errors: " + msg.Err.Error()
		} else {
			m.status = fmt.Sprintf("measurement complete  max %.1f  avg %.1f", msg.Measurement.MaxLevel, msg.Measurement.AvgLevel)
		}
		cmds = append(cmds, m.historyView.Refresh())

	case meterview.AbortedMsg:
		m.status = "measurement stopped"

	case historyview.ExportedMsg:
		if msg.Err != nil {
			m.status = "export failed: " + msg.Err.Error()
		} else {
			m.status = "exported " + msg.Export.Path
		}
		cmds = append(cmds, m.historyView.Refresh())

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}
		if m.activeTab == tabHistory && m.historyView.Filtering() {
			break
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
		case "?":
			m.showHelp = !m.showHelp
		case "s":
			if m.activeTab == tabMeter && !m.meterView.Running() {
				cmds = append(cmds, m.meterView.Start())
			}
		case "a":
			if m.meterView.Running() {
				cmds = append(cmds, m.meterView.Stop())
			}
		case "e":
			if m.activeTab == tabHistory {
				cmds = append(cmds, m.historyView.ExportSelected())
			}
		}
	}

	// Meter messages flow even while the History tab is visible, so a
	// running measurement keeps advancing in the background.
	var meterCmd tea.Cmd
	m.meterView, meterCmd = m.meterView.Update(msg)
	cmds = append(cmds, meterCmd)

	if m.activeTab == tabHistory {
		var histCmd tea.Cmd
		m.historyView, histCmd = m.historyView.Update(msg)
		cmds = append(cmds, histCmd)
	} else if _, ok := msg.(historyview.LoadedMsg); ok {
		var histCmd tea.Cmd
		m.historyView, histCmd = m.historyView.Update(msg)
		cmds = append(cmds, histCmd)
	}

	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	tabBarH := lipgloss.Height(tabBar)
	statusBarH := lipgloss.Height(statusBar)

	contentH := m.height - tabBarH - statusBarH
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.activeTab == tabHistory:
		content = m.historyView.View()
	default:
		content = m.meterView.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	sep := theme.Muted.Render(" │ ")
	bar := "soundcheck  " + strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if m.meterView.Running() {
		left = theme.Hot.Render("● recording") + "  " + left
	}
	right := theme.Muted.Render("?:help  tab:switch  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.meterView, _ = m.meterView.Update(sz)
	m.historyView, _ = m.historyView.Update(sz)
}

func renderDoctor(checks []capturedto.CheckOutput) string {
	healthy := 0
	for _, c := range checks {
		if c.OK {
			healthy++
		}
	}
	if healthy == 0 {
		return "no capture backend available"
	}
	return fmt.Sprintf("ready  %d/%d capture backends healthy", healthy, len(checks))
}

// ─── async commands ───────────────────────────────────────────────────────────

func (m Model) doctorCmd() tea.Cmd {
	return func() tea.Msg {
		checks, err := m.capture.Doctor(context.Background())
		return doctorMsg{checks: checks, err: err}
	}
}

// ─── port bridges ─────────────────────────────────────────────────────────────
// Each bridge narrows the broad meter port to the minimal interface a
// sub-view needs.

type meterPortBridge struct{ p meterPort }

func (b meterPortBridge) Begin(ctx context.Context, input meterdto.BeginInput) (meterdto.SnapshotOutput, error) {
	return b.p.Begin(ctx, input)
}
func (b meterPortBridge) Step(ctx context.Context) (meterdto.SnapshotOutput, error) {
	return b.p.Step(ctx)
}
func (b meterPortBridge) Abort(ctx context.Context) error {
	return b.p.Abort(ctx)
}

type historyPortBridge struct{ p meterPort }

func (b historyPortBridge) List(ctx context.Context) ([]meterdto.MeasurementOutput, error) {
	return b.p.List(ctx)
}
func (b historyPortBridge) ExportSVG(ctx context.Context, id, path string) (meterdto.ExportOutput, error) {
	return b.p.ExportSVG(ctx, meterdto.ExportInput{MeasurementID: id, Path: path})
}
