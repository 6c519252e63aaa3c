package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/climbfall/ropefall/internal/config"
	"github.com/climbfall/ropefall/internal/rope"
	"github.com/climbfall/ropefall/internal/world"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600
	stepsPerTick    = 200
)

type tickMsg time.Time

// Model drives a live braille-canvas view of a falling rope: each tick
// advances the World a batch of physics steps, projects the current
// rope polyline (and the ground line, if configured) onto the wall
// plane, and redraws. The
// batch size decouples the display's ~30 Hz refresh from the physics
// step size, which must stay small for stability.
type Model struct {
	w   *world.World
	cfg *config.Config

	dt      float64
	elapsed float64
	running bool
	err     error

	width, height int
	canvas        *Canvas
	styles        Styles

	tensionHistory []float64
	peakTension    float64
	peakSpeed      float64
}

// NewModel builds a live view over an already-constructed World.
func NewModel(w *world.World, cfg *config.Config) Model {
	m := Model{
		w:              w,
		cfg:            cfg,
		dt:             w.MaxStep,
		running:        true,
		width:          width,
		height:         height,
		canvas:         NewCanvas(width, height),
		styles:         NewStyles(CurrentTheme),
		tensionHistory: make([]float64, 0, historyCapacity),
	}
	if err := w.PrimeForces(); err != nil {
		m.err = err
		m.running = false
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return tickMsg(t) })
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
			names := ThemeNames()
			for i, name := range names {
				if name == CurrentTheme.Name {
					SetTheme(names[(i+1)%len(names)])
					break
				}
			}
			m.styles = NewStyles(CurrentTheme)
		}
	case tickMsg:
		if m.running {
			m.step()
		}
		m.draw()
		return m, tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return tickMsg(t) })
	}
	return m, nil
}

func (m *Model) step() {
	for i := 0; i < stepsPerTick; i++ {
		if m.elapsed >= m.cfg.SimulationDuration {
			m.running = false
			return
		}
		if err := m.w.Step(m.dt); err != nil {
			m.err = err
			m.running = false
			return
		}
		m.elapsed += m.dt
	}
	if t := m.w.Rope.PeakTension(); t > m.peakTension {
		m.peakTension = t
	}
	for _, b := range m.w.Rope.ActiveBodies() {
		if s := b.MaxSpeed(); s > m.peakSpeed {
			m.peakSpeed = s
		}
	}
	m.tensionHistory = append(m.tensionHistory, m.w.Rope.PeakTension())
	if len(m.tensionHistory) > historyCapacity {
		m.tensionHistory = m.tensionHistory[1:]
	}
}

func (m *Model) clear() { m.canvas.Clear() }

// draw projects the rope's current polyline and, when a ground barrier
// is configured, the ground line onto the canvas; the wall is not
// drawn. Height maps to the canvas row (inverted), sideways offset
// maps to the canvas column.
func (m *Model) draw() {
	m.clear()
	cw, ch := m.width*2, m.height*4

	minY, maxY := -1.0, m.cfg.ClimberHeight+1
	scaleY := float64(ch) / (maxY - minY)
	scaleX := scaleY

	project := func(x, y float64) (int, int) {
		px := cw/2 + int(x*scaleX)
		py := ch - int((y-minY)*scaleY)
		return px, py
	}

	if m.cfg.GroundPresent {
		_, groundY := project(0, m.cfg.GroundLevel)
		m.canvas.DrawLine(0, groundY, cw-1, groundY)
	}

	polyline := m.w.Rope.Polyline()
	xs := make([]int, len(polyline))
	ys := make([]int, len(polyline))
	for i, b := range polyline {
		xs[i], ys[i] = project(b.Position.X, b.Position.Y)
	}
	m.canvas.DrawPolyline(xs, ys)

	for i, b := range polyline {
		radius := 0
		if b.Kind == rope.KindClimber || b.Kind == rope.KindAnchor {
			radius = 2
		} else if b.Kind == rope.KindQuickdraw {
			radius = 1
		}
		for dy := -radius; dy <= radius; dy++ {
			for dx := -radius; dx <= radius; dx++ {
				m.canvas.Set(xs[i]+dx, ys[i]+dy)
			}
		}
	}
}

func (m Model) View() string {
	m2 := m
	m2.draw()
	canvasView := m.styles.Canvas.Render(m2.canvas.String())

	var s strings.Builder
	s.WriteString(m.styles.Header.Render("ROPEFALL") + "\n")
	if m.err != nil {
		s.WriteString(m.styles.Paused.Render("ERROR") + "\n")
		s.WriteString(m.styles.Value.Render(m.err.Error()) + "\n\n")
	} else if m.running {
		s.WriteString(m.styles.Running.Render("RUNNING") + "\n\n")
	} else {
		s.WriteString(m.styles.Paused.Render("PAUSED") + "\n\n")
	}

	if m.cfg.SimulationDuration > 0 {
		s.WriteString(ProgressBar(CurrentTheme, m.elapsed/m.cfg.SimulationDuration, 28) + "\n\n")
	}

	if len(m.tensionHistory) > 1 {
		chart := asciigraph.Plot(m.tensionHistory, asciigraph.Height(6), asciigraph.Width(28), asciigraph.Caption("Tension (N)"))
		s.WriteString(m.styles.Graph.Render(chart) + "\n")
		s.WriteString(SparklineChart(CurrentTheme, m.tensionHistory, 28) + "\n\n")
	}

	s.WriteString(m.styles.Label.Render("Time") + m.styles.Value.Render(fmt.Sprintf("%.3fs", m.elapsed)) + "\n")
	s.WriteString(m.styles.Label.Render("Peak tension") + m.styles.Value.Render(fmt.Sprintf("%.1f N", m.peakTension)) + "\n")
	s.WriteString(m.styles.Label.Render("Peak speed") + m.styles.Value.Render(fmt.Sprintf("%.2f m/s", m.peakSpeed)) + "\n")
	s.WriteString(m.styles.Label.Render("Segments") + m.styles.Value.Render(fmt.Sprintf("%d", len(m.w.Rope.Segments))) + "\n")
	s.WriteString(m.styles.Label.Render("Rest length") + m.styles.Value.Render(fmt.Sprintf("%.3f m", m.w.Rope.RestLength())) + "\n")

	s.WriteString(m.styles.Help.Render("\n─────────────────\nSP:Pause T:Theme Q:Quit"))
	statsView := m.styles.StatsPanel.Render(s.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
}
