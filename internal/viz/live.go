package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/springlab/internal/dynamo"
	"github.com/san-kum/springlab/internal/sim"
)

const (
	width  = 60
	height = 16

	canvasPadX = 2
	canvasPadY = 1

	recordingFile = "springlab.gif"
)

var paramNames = [...]string{"mass", "stiffness", "damping"}

// Control is the slice of [sim.Loop] the live view drives.
type Control interface {
	Toggle() error
	Reset() error
	SetParams(p dynamo.Params) error
	BeginDrag() error
	DragTo(pos float64) error
	EndDrag() error
	Subscribe() (<-chan sim.Snapshot, func())
}

type snapshotMsg sim.Snapshot

type closedMsg struct{}

// Model is the Bubble Tea model of the live view. It only renders the
// snapshots it receives; every change goes through the Control.
type Model struct {
	ctl     Control
	updates <-chan sim.Snapshot
	cancel  func()

	snap   sim.Snapshot
	params dynamo.Params

	canvas *Canvas
	layout Layout
	theme  int
	styles styles

	selected   int
	dragging   bool
	grabOffset float64
	recorder   *Recorder
	showHelp   bool
	err        error
}

func NewModel(ctl Control) Model {
	updates, cancel := ctl.Subscribe()
	return Model{
		ctl:     ctl,
		updates: updates,
		cancel:  cancel,
		params:  dynamo.DefaultParams(),
		canvas:  NewCanvas(width, height),
		layout:  NewLayout(width, height),
		styles:  newStyles(Themes[0]),
	}
}

// WithTheme selects a theme by name. Unknown names select the first theme.
func (m Model) WithTheme(name string) Model {
	m.theme = themeIndex(name)
	m.styles = newStyles(Themes[m.theme])
	return m
}

func (m Model) Init() tea.Cmd { return waitForSnapshot(m.updates) }

func waitForSnapshot(ch <-chan sim.Snapshot) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return closedMsg{}
		}
		return snapshotMsg(s)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotMsg:
		m.snap = sim.Snapshot(msg)
		m.params = m.snap.Params
		m.draw()
		if m.recorder != nil {
			m.recorder.Capture(m.canvas)
		}
		return m, waitForSnapshot(m.updates)
	case closedMsg:
		return m, tea.Quit
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.cancel()
		return m, tea.Quit
	case " ":
		m.err = m.ctl.Toggle()
	case "r":
		m.dragging = false
		m.err = m.ctl.Reset()
	case "tab":
		m.selected = (m.selected + 1) % len(paramNames)
	case "up", "k":
		m.adjust(1.05)
	case "down", "j":
		m.adjust(0.95)
	case "t":
		m.theme = (m.theme + 1) % len(Themes)
		m.styles = newStyles(Themes[m.theme])
	case "g":
		if m.recorder == nil {
			m.recorder = NewRecorder(3)
		} else {
			m.err = m.recorder.Save(recordingFile)
			m.recorder = nil
		}
	case "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

func (m *Model) adjust(factor float64) {
	switch m.selected {
	case 0:
		m.params.Mass *= factor
	case 1:
		m.params.Stiffness *= factor
	case 2:
		m.params.Damping *= factor
	}
	m.params = m.params.Bounded()
	m.err = m.ctl.SetParams(m.params)
}

// toCanvas converts a terminal cell to canvas sub-pixels.
func toCanvas(col, row int) (int, int) {
	return (col-canvasPadX)*2 + 1, (row-canvasPadY)*4 + 2
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	x, y := toCanvas(msg.X, msg.Y)
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || m.dragging {
			return
		}
		pos := m.snap.State.Position
		if !m.layout.Hit(x, y, pos) {
			return
		}
		m.dragging = true
		m.grabOffset = pos - m.layout.PositionAt(x)
		m.err = m.ctl.BeginDrag()
	case tea.MouseActionMotion:
		if m.dragging {
			m.err = m.ctl.DragTo(m.layout.PositionAt(x) + m.grabOffset)
		}
	case tea.MouseActionRelease:
		if m.dragging {
			m.dragging = false
			m.err = m.ctl.EndDrag()
		}
	}
}

func (m *Model) draw() {
	m.canvas.Clear()
	DrawSpring(m.canvas, m.layout, m.snap.State.Position)
}

func (m Model) status() string {
	switch m.snap.Mode {
	case dynamo.Running:
		return m.styles.running.Render("RUNNING")
	case dynamo.Dragging:
		return m.styles.active.Render("DRAGGING")
	default:
		return m.styles.paused.Render("PAUSED")
	}
}

func (m Model) View() string {
	st := m.styles
	snap := m.snap
	d := snap.Derived

	var s strings.Builder
	s.WriteString(st.header.Render("DAMPED SPRING") + "\n")
	s.WriteString(m.status())
	if m.recorder != nil {
		s.WriteString(st.paused.Render(fmt.Sprintf("  ● REC %d", m.recorder.Len())))
	}
	s.WriteString("\n\n")

	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs", snap.State.Time))
	row("Position", fmt.Sprintf("%+.3f m", snap.State.Position))
	row("Velocity", fmt.Sprintf("%+.3f m/s", snap.State.Velocity))
	row("Period", fmt.Sprintf("%.3f s  (%.2f Hz)", d.Period, d.Frequency))
	row("Damping", fmt.Sprintf("ζ=%.3f %s", d.DampingRatio, d.Regime))

	s.WriteString("\nENERGY\n")
	keShare, peShare := 0.0, 0.0
	if d.Total > 0 {
		keShare, peShare = d.Kinetic/d.Total, d.Potential/d.Total
	}
	row("Kinetic", st.bar(keShare, 16)+fmt.Sprintf(" %.3f J", d.Kinetic))
	row("Potential", st.bar(peShare, 16)+fmt.Sprintf(" %.3f J", d.Potential))
	row("Total", fmt.Sprintf("%.3f J", d.Total))

	s.WriteString("\nPARAMETERS\n")
	values := [...]float64{m.params.Mass, m.params.Stiffness, m.params.Damping}
	for i, name := range paramNames {
		line := fmt.Sprintf("%-10s %8.3f", name, values[i])
		if i == m.selected {
			s.WriteString(st.active.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + st.label.Render(line) + "\n")
		}
	}

	if m.err != nil {
		s.WriteString("\n" + st.paused.Render(m.err.Error()) + "\n")
	}
	s.WriteString(st.help.Render("SP:Start/Stop R:Reset Q:Quit\nTab:Param ↑↓:±5% T:Theme G:Rec ?:Help"))

	left := st.canvas.Render(m.canvas.String())
	if ys := positions(snap.History); len(ys) > 1 {
		chart := asciigraph.Plot(ys,
			asciigraph.Height(6),
			asciigraph.Width(width-10),
			asciigraph.Caption("position history"))
		left = lipgloss.JoinVertical(lipgloss.Left, left, st.graph.Render(chart))
	}

	main := lipgloss.JoinHorizontal(lipgloss.Top, left, st.stats.Render(s.String()))
	if m.showHelp {
		return helpText + "\n" + main
	}
	return main
}

func positions(samples []dynamo.Sample) []float64 {
	ys := make([]float64, len(samples))
	for i, smp := range samples {
		ys[i] = smp.Y
	}
	return ys
}

const helpText = `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Space    - Start/stop               ║
║  R        - Reset                    ║
║  Q        - Quit                     ║
║  Tab      - Cycle parameters         ║
║  Up/K     - Increase parameter (+5%) ║
║  Down/J   - Decrease parameter (-5%) ║
║  T        - Cycle themes             ║
║  G        - Toggle GIF recording     ║
║  Mouse    - Grab, drag, throw        ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`

// Run starts the live view on ctl and blocks until the user quits or the
// loop shuts down.
func Run(ctl Control, theme string) error {
	p := tea.NewProgram(NewModel(ctl).WithTheme(theme), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
