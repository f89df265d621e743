package tui

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/ikgeo/internal/robots"
	"github.com/san-kum/ikgeo/internal/solver"
)

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	green   = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
)

const historyCap = 120

type state int

const (
	stateMenu state = iota
	stateRun
)

// model drives a target pose along a smooth joint-space trajectory and
// re-solves it every frame, showing branch counts, errors, and latency.
type model struct {
	st     state
	cursor int
	names  []string
	reg    *robots.Registry

	robot  robots.Robot
	opts   solver.Options
	t      float64
	speed  float64
	paused bool

	truth    []float64
	sols     []solver.Solution
	lastErr  error
	latency  time.Duration
	history  []float64
	solCount []float64

	width  int
	height int
}

// NewLiveApp builds the interactive solver explorer over the catalog.
func NewLiveApp(reg *robots.Registry, opts solver.Options) tea.Model {
	return model{
		st:      stateMenu,
		names:   reg.Names(),
		reg:     reg,
		opts:    opts,
		speed:   1.0,
		history: make([]float64, 0, historyCap),
		width:   80,
		height:  24,
	}
}

// Run starts the program and blocks until quit.
func Run(reg *robots.Registry, opts solver.Options) error {
	p := tea.NewProgram(NewLiveApp(reg, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m model) Init() tea.Cmd { return nil }

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(33*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		if m.st != stateRun {
			return m, nil
		}
		if !m.paused {
			m.t += 0.033 * m.speed
			m.step()
		}
		return m, tick()
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.st {
	case stateMenu:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.names)-1 {
				m.cursor++
			}
		case "enter", " ":
			r, err := m.reg.Get(m.names[m.cursor])
			if err != nil {
				m.lastErr = err
				return m, nil
			}
			m.robot = r
			m.st = stateRun
			m.t = 0
			m.history = m.history[:0]
			m.solCount = m.solCount[:0]
			m.step()
			return m, tea.Batch(tea.ClearScreen, tick())
		}
	case stateRun:
		switch msg.String() {
		case "q", "escape":
			m.st = stateMenu
			return m, tea.ClearScreen
		case "ctrl+c":
			return m, tea.Quit
		case " ", "p":
			m.paused = !m.paused
		case "+", "=":
			m.speed = math.Min(m.speed*2, 8)
		case "-", "_":
			m.speed = math.Max(m.speed/2, 0.25)
		case "r":
			m.t = 0
		}
	}
	return m, nil
}

// step advances the reference trajectory and re-solves the pose it
// produces, so every frame exercises the full pipeline on a target that is
// known to be reachable.
func (m *model) step() {
	c := m.robot.Chain
	n := c.NumJoints()
	m.truth = make([]float64, n)
	for i := 0; i < n; i++ {
		f := 0.3 + 0.1*float64(i)
		m.truth[i] = 1.2 * math.Sin(f*m.t+0.7*float64(i))
	}
	target := c.Forward(m.truth)

	start := time.Now()
	sols, err := solver.Solve(context.Background(), c, target, m.opts)
	m.latency = time.Since(start)
	m.sols = sols
	m.lastErr = err

	m.history = append(m.history, float64(m.latency)/float64(time.Millisecond))
	if len(m.history) > historyCap {
		m.history = m.history[1:]
	}
	m.solCount = append(m.solCount, float64(len(sols)))
	if len(m.solCount) > historyCap {
		m.solCount = m.solCount[1:]
	}
}

func (m model) View() string {
	if m.st == stateMenu {
		return m.menuView()
	}
	return m.runView()
}

func (m model) menuView() string {
	var b strings.Builder
	b.WriteString(cyan.Render("ikgeo") + dim.Render("  live solver explorer") + "\n\n")
	for i, name := range m.names {
		r, err := m.reg.Get(name)
		pattern := "?"
		if err == nil {
			pattern = r.Chain.Pattern().String()
		}
		line := fmt.Sprintf("  %-24s %s", name, dim.Render(pattern))
		if i == m.cursor {
			line = magenta.Render("> " + line[2:])
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n" + dim.Render("enter: run   j/k: move   q: quit") + "\n")
	return b.String()
}

func (m model) runView() string {
	var b strings.Builder
	c := m.robot.Chain
	b.WriteString(cyan.Render(m.robot.Name) +
		dim.Render(fmt.Sprintf("  %s  t=%.1fs  x%.2g", c.Pattern(), m.t, m.speed)) + "\n\n")

	b.WriteString(white.Render("reference: "))
	for _, v := range m.truth {
		b.WriteString(fmt.Sprintf("%7.3f", v))
	}
	b.WriteString("\n")

	if m.lastErr != nil {
		b.WriteString(yellow.Render(fmt.Sprintf("solve error: %v", m.lastErr)) + "\n")
	}

	exact := 0
	for _, s := range m.sols {
		if !s.Approx {
			exact++
		}
	}
	b.WriteString(fmt.Sprintf("%s %s  %s %s  %s %v\n",
		dim.Render("branches:"), green.Render(fmt.Sprintf("%d exact / %d total", exact, len(m.sols))),
		dim.Render("latency:"), white.Render(m.latency.Truncate(time.Microsecond).String()),
		dim.Render("paused:"), m.paused))

	if len(m.sols) > 0 {
		best := m.sols[0]
		b.WriteString(white.Render("best:      "))
		for _, v := range best.Q {
			b.WriteString(fmt.Sprintf("%7.3f", v))
		}
		b.WriteString(dim.Render(fmt.Sprintf("   pos %.1e  orient %.1e  %s",
			best.PosErr, best.OrientErr, best.Provenance)) + "\n")
	}

	if len(m.history) > 2 {
		b.WriteString("\n" + dim.Render("solve latency (ms)") + "\n")
		b.WriteString(asciigraph.Plot(m.history,
			asciigraph.Height(8),
			asciigraph.Width(min(m.width-12, 100))) + "\n")
	}

	b.WriteString("\n" + dim.Render("space: pause   +/-: speed   r: rewind   q: back") + "\n")
	return b.String()
}
