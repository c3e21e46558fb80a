package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/gravsim/internal/nbody"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600
	trailCapacity   = 2000
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(45)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
)

type TickMsg time.Time

// Model steps a simulation at a fixed frame rate and renders the XY
// projection on a braille canvas with per-body trails.
type Model struct {
	sim            *nbody.Simulation
	integratorName string
	system         string
	stepsPerFrame  int

	canvas        *Canvas
	trail         []struct{ x, y int }
	energyHistory []float64
	initialEnergy float64
	zoom          float64
	running       bool
	showTrails    bool
}

func NewModel(s *nbody.Simulation, system, integratorName string, stepsPerFrame int) Model {
	if stepsPerFrame < 1 {
		stepsPerFrame = 1
	}
	s.UpdateAcceleration()
	return Model{
		sim:            s,
		integratorName: integratorName,
		system:         system,
		stepsPerFrame:  stepsPerFrame,
		canvas:         NewCanvas(width, height),
		trail:          make([]struct{ x, y int }, 0, trailCapacity),
		energyHistory:  make([]float64, 0, historyCapacity),
		initialEnergy:  s.Energy(),
		zoom:           1,
		running:        true,
		showTrails:     true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "t":
			m.showTrails = !m.showTrails
			if !m.showTrails {
				m.trail = m.trail[:0]
			}
		case "+", "=":
			m.zoom *= 1.25
			m.trail = m.trail[:0]
		case "-", "_":
			m.zoom /= 1.25
			m.trail = m.trail[:0]
		case "d":
			m.sim.Dt = -m.sim.Dt
		}
	case TickMsg:
		if m.running {
			for i := 0; i < m.stepsPerFrame; i++ {
				m.sim.Step()
			}
			m.energyHistory = append(m.energyHistory, m.sim.Energy())
			if len(m.energyHistory) > historyCapacity {
				m.energyHistory = m.energyHistory[1:]
			}
		}
		m.draw()
		return m, tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

// extent is the half-width of the viewport in simulation units, before
// zoom. Sized to the farthest body with some margin so nothing starts
// off screen.
func (m *Model) extent() float64 {
	maxR := 1.0
	for _, p := range m.sim.Particles {
		r := math.Max(math.Abs(p.X), math.Abs(p.Y))
		if r > maxR {
			maxR = r
		}
	}
	return maxR * 1.3
}

func (m *Model) draw() {
	m.canvas.Clear()
	cw, ch := width*2, height*4
	cx, cy := cw/2, ch/2
	scale := float64(ch) / (2 * m.extent()) * m.zoom

	for _, p := range m.sim.Particles {
		px := cx + int(p.X*scale)
		py := cy - int(p.Y*scale)
		if px < 0 || px >= cw || py < 0 || py >= ch {
			continue
		}
		if m.showTrails {
			m.trail = append(m.trail, struct{ x, y int }{px, py})
		}
		m.canvas.Dot(px, py, 1)
	}
	if len(m.trail) > trailCapacity {
		m.trail = m.trail[len(m.trail)-trailCapacity:]
	}
	for _, pt := range m.trail {
		m.canvas.Set(pt.x, pt.y)
	}
}

func (m Model) View() string {
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.system)) + "\n")
	status := "RUNNING"
	if !m.running {
		status = "PAUSED"
	}
	if m.sim.Dt < 0 {
		status += " (REVERSED)"
	}
	s.WriteString(status + "\n\n")

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.3f", m.sim.T)) + "\n")
	s.WriteString(labelStyle.Render("Bodies") + valueStyle.Render(fmt.Sprintf("%d", m.sim.N())) + "\n")
	s.WriteString(labelStyle.Render("Integrator") + valueStyle.Render(m.integratorName) + "\n")
	s.WriteString(labelStyle.Render("dt") + valueStyle.Render(fmt.Sprintf("%g", m.sim.Dt)) + "\n")

	energy := m.initialEnergy
	if len(m.energyHistory) > 0 {
		energy = m.energyHistory[len(m.energyHistory)-1]
	}
	s.WriteString(labelStyle.Render("Energy") + valueStyle.Render(fmt.Sprintf("%.6f", energy)) + "\n")
	if m.initialEnergy != 0 {
		drift := math.Abs((energy - m.initialEnergy) / m.initialEnergy)
		s.WriteString(labelStyle.Render("|dE/E|") + valueStyle.Render(fmt.Sprintf("%.2e", drift)) + "\n")
	}

	s.WriteString(helpStyle.Render("\n─────────────────────\nSP:Pause  D:Reverse  T:Trails\n+/-:Zoom  Q:Quit"))

	statsView := statsStyle.Render(s.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
}

// RunLive runs the interactive viewer until the user quits.
func RunLive(s *nbody.Simulation, system, integratorName string, stepsPerFrame int) error {
	p := tea.NewProgram(NewModel(s, system, integratorName, stepsPerFrame))
	_, err := p.Run()
	return err
}
