package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	meterdto "soundcheck/internal/modules/meter/dto"
	"soundcheck/internal/ui/components"
	"soundcheck/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type HistoryPort interface {
	List(ctx context.Context) ([]meterdto.MeasurementOutput, error)
	ExportSVG(ctx context.Context, id, path string) (meterdto.ExportOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type LoadedMsg struct {
	Measurements []meterdto.MeasurementOutput
	Err          error
}

type ExportedMsg struct {
	Export meterdto.ExportOutput
	Err    error
}

// ─── list item ───────────────────────────────────────────────────────────────

type measurementItem struct {
	m meterdto.MeasurementOutput
}

func (i measurementItem) Title() string {
	return i.m.StartedAt.Local().Format("2006-01-02 15:04:05")
}

func (i measurementItem) Description() string {
	return fmt.Sprintf("max %.1f  avg %.1f  %s", i.m.MaxLevel, i.m.AvgLevel, i.m.Duration.Round(time.Second))
}

func (i measurementItem) FilterValue() string {
	return i.m.StartedAt.Format("2006-01-02 15:04:05")
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port   HistoryPort
	list   list.Model
	detail viewport.Model
	width  int
	height int
}

func New(port HistoryPort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "History"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(1)

	return Model{port: port, list: l, detail: vp}
}

func (m Model) Init() tea.Cmd {
	return m.Refresh()
}

// Refresh reloads measurements from the projection.
func (m Model) Refresh() tea.Cmd {
	return func() tea.Msg {
		measurements, err := m.port.List(context.Background())
		return LoadedMsg{Measurements: measurements, Err: err}
	}
}

// ExportSelected writes the selection's trend graph next to its default path.
func (m Model) ExportSelected() tea.Cmd {
	item, ok := m.list.SelectedItem().(measurementItem)
	if !ok {
		return nil
	}
	return func() tea.Msg {
		export, err := m.port.ExportSVG(context.Background(), item.m.ID, "")
		return ExportedMsg{Export: export, Err: err}
	}
}

// Filtering reports whether the list's search filter is currently active.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case LoadedMsg:
		if msg.Err != nil {
			m.list.Title = "History — " + msg.Err.Error()
			return m, nil
		}
		m.list.Title = "History"
		items := make([]list.Item, len(msg.Measurements))
		for i, measurement := range msg.Measurements {
			items[i] = measurementItem{m: measurement}
		}
		cmds = append(cmds, m.list.SetItems(items))
		m.detail.SetContent(m.renderDetail())
	}

	prevIdx := m.list.Index()
	var lCmd tea.Cmd
	m.list, lCmd = m.list.Update(msg)
	cmds = append(cmds, lCmd)
	if m.list.Index() != prevIdx {
		m.detail.SetContent(m.renderDetail())
	}

	var vCmd tea.Cmd
	m.detail, vCmd = m.detail.Update(msg)
	cmds = append(cmds, vCmd)

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	listW := m.width * 4 / 10
	detailW := m.width - listW

	listPane := lipgloss.NewStyle().
		Width(listW).
		Height(m.height).
		Render(m.list.View())

	detailPane := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Surface1).
		Background(theme.Mantle).
		Width(detailW - 2).
		Height(m.height - 2).
		Render(m.detail.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) resize() {
	listW := m.width * 4 / 10
	detailW := m.width - listW
	m.list.SetSize(listW, m.height)
	m.detail.Width = detailW - 4
	m.detail.Height = m.height - 4
}

func (m Model) renderDetail() string {
	item, ok := m.list.SelectedItem().(measurementItem)
	if !ok {
		return theme.Muted.Render("No measurements yet. Press s on the Meter tab.")
	}
	d := item.m

	var sb strings.Builder
	sb.WriteString(theme.Title.Render(d.StartedAt.Local().Format("2006-01-02 15:04:05")) + "\n\n")
	sb.WriteString(theme.Muted.Render("id:      ") + d.ID + "\n")
	sb.WriteString(fmt.Sprintf("%s%s\n", theme.Muted.Render("length:  "), d.Duration.Round(time.Second)))
	sb.WriteString(fmt.Sprintf("%s%.1f\n", theme.Muted.Render("max:     "), d.MaxLevel))
	sb.WriteString(fmt.Sprintf("%s%.1f\n", theme.Muted.Render("avg:     "), d.AvgLevel))
	sb.WriteString(fmt.Sprintf("%s%d\n", theme.Muted.Render("samples: "), d.SampleCount))
	if spark := components.Sparkline(trendValues(d.Trend), m.detail.Width-2); spark != "" {
		sb.WriteString("\n" + lipgloss.NewStyle().Foreground(theme.Blue).Render(spark) + "\n")
	}
	if d.NotePath != "" {
		sb.WriteString("\n" + theme.Muted.Render("note: ") + d.NotePath)
	}
	if d.SVGPath != "" {
		sb.WriteString("\n" + theme.Muted.Render("svg:  ") + d.SVGPath)
	}
	sb.WriteString("\n\n" + theme.Muted.Render("e: export svg"))
	return sb.String()
}

func trendValues(points []meterdto.TrendPointOutput) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Value
	}
	return out
}
