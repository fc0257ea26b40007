package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/airtime/internal/config"
	"github.com/san-kum/airtime/internal/scene"
)

const (
	canvasWidth   = 72
	canvasHeight  = 24
	traceCapacity = 600
	frameInterval = time.Second / 60

	orbitStep     = 0.1
	elevationStep = 0.05
	bendStep      = 0.05
)

const (
	statusRunning = "RUNNING"
	statusPaused  = "PAUSED"
	statusDone    = "DONE"
	statusFailed  = "FAILED"
)

type TickMsg time.Time

// Model is the live wireframe viewer. It owns the scene and steps it in
// real time, frameInterval per tick.
type Model struct {
	build         func() (scene.Scene, error)
	sc            scene.Scene
	title         string
	t, dt         float64
	duration      float64
	stepsPerFrame int
	canvas        *Canvas
	camera        *Camera
	home          Camera
	running       bool
	showAxes      bool
	showHelp      bool
	trace         []float64
	err           error
}

// NewModel builds the scene and frames it with the configured camera. A
// zero duration runs until quit.
func NewModel(build func() (scene.Scene, error), title string, cfg *config.Config) (Model, error) {
	sc, err := build()
	if err != nil {
		return Model{}, err
	}
	if !(cfg.Dt > 0) {
		return Model{}, fmt.Errorf("%w: dt must be positive, got %v", config.ErrInvalidConfig, cfg.Dt)
	}
	cam := NewCamera(cfg.Camera)
	cam.Frame(sc.Drawables())

	m := Model{
		build:         build,
		sc:            sc,
		title:         title,
		dt:            cfg.Dt,
		duration:      cfg.Duration,
		stepsPerFrame: max(1, int(math.Round(frameInterval.Seconds()/cfg.Dt))),
		canvas:        NewCanvas(canvasWidth, canvasHeight),
		camera:        cam,
		home:          *cam,
		running:       true,
		trace:         make([]float64, 0, traceCapacity),
	}
	m.record()
	return m, nil
}

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd { return tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "left", "h":
			m.camera.Orbit(-orbitStep, 0)
		case "right", "l":
			m.camera.Orbit(orbitStep, 0)
		case "up", "k":
			m.camera.Orbit(0, elevationStep)
		case "down", "j":
			m.camera.Orbit(0, -elevationStep)
		case "+", "=":
			m.camera.Zoom(0.9)
		case "-", "_":
			m.camera.Zoom(1.1)
		case "c":
			*m.camera = m.home
		case "a":
			m.showAxes = !m.showAxes
		case "b":
			m.bend(bendStep)
		case "B":
			m.bend(-bendStep)
		case "t":
			NextTheme()
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.WindowSizeMsg:
		w := max(20, msg.Width-52)
		h := max(8, msg.Height-4)
		if w != m.canvas.Width || h != m.canvas.Height {
			m.canvas = NewCanvas(w, h)
		}
	case TickMsg:
		if m.running && m.err == nil {
			m.advance()
		}
		return m, tick()
	}
	return m, nil
}

// advance steps the scene through one frame.
func (m *Model) advance() {
	for i := 0; i < m.stepsPerFrame; i++ {
		if m.finished() {
			m.running = false
			return
		}
		if err := m.sc.TimeStep(m.dt); err != nil {
			m.err = fmt.Errorf("t=%.3f: %w", m.t, err)
			m.running = false
			return
		}
		m.t += m.dt
	}
	m.record()
}

func (m *Model) finished() bool {
	return m.duration > 0 && m.t >= m.duration-m.dt/2
}

func (m *Model) bend(delta float64) {
	h, ok := m.sc.(scene.Hinged)
	if !ok {
		return
	}
	if err := h.Hinge().Bend(delta); err != nil {
		m.err = err
		m.running = false
		return
	}
	m.record()
}

func (m *Model) reset() {
	sc, err := m.build()
	if err != nil {
		m.err = err
		return
	}
	m.sc = sc
	m.t = 0
	m.err = nil
	m.trace = m.trace[:0]
	m.running = true
	m.record()
}

// record appends the scene's headline quantity to the trace.
func (m *Model) record() {
	v, _, ok := headline(m.sc)
	if !ok {
		return
	}
	m.trace = append(m.trace, v)
	if len(m.trace) > traceCapacity {
		m.trace = m.trace[1:]
	}
}

// headline picks the one number worth charting for a scene: the kinetic
// energy of a free rotor or the angle of a hinge.
func headline(sc scene.Scene) (float64, string, bool) {
	switch s := sc.(type) {
	case scene.Spinning:
		return s.Rotor().KineticEnergy(), "Energy", true
	case scene.Hinged:
		return s.Hinge().Angle(), "Angle", true
	}
	return 0, "", false
}

func (m Model) status() string {
	switch {
	case m.err != nil:
		return statusFailed
	case m.finished():
		return statusDone
	case !m.running:
		return statusPaused
	}
	return statusRunning
}

// draw renders the current pose into the canvas.
func (m Model) draw() {
	m.canvas.Clear()
	if m.showAxes {
		RenderAxes(m.canvas, m.camera, m.camera.Target, 2)
	}
	RenderDrawables(m.canvas, m.camera, m.sc.Drawables())
}

func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle().Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(titleStyle().Render(GradientText(strings.ToUpper(m.title), CurrentTheme.Primary, CurrentTheme.Accent)) + "\n")
	st := m.status()
	s.WriteString(statusStyle(st).Render(st) + "\n\n")

	s.WriteString(row("Time", fmt.Sprintf("%.2fs", m.t)))
	if m.duration > 0 {
		s.WriteString(row("Progress", ProgressBar(m.t/m.duration, 20)))
	}
	if v, label, ok := headline(m.sc); ok {
		s.WriteString(row(label, fmt.Sprintf("%.4f", v)))
		if len(m.trace) > 1 {
			chart := asciigraph.Plot(m.trace, asciigraph.Height(5), asciigraph.Width(30), asciigraph.Caption(label))
			s.WriteString("\n" + valueStyle().Render(chart) + "\n\n")
		}
	}
	s.WriteString(row("Azimuth", fmt.Sprintf("%.2f", m.camera.Azimuth)))
	s.WriteString(row("Elevation", fmt.Sprintf("%.2f", m.camera.Elevation)))
	s.WriteString(row("Distance", fmt.Sprintf("%.1f", m.camera.Distance)))
	if m.err != nil {
		s.WriteString("\n" + lipgloss.NewStyle().Foreground(CurrentTheme.Error).Width(40).Render(m.err.Error()) + "\n")
	}
	s.WriteString(hintStyle().Render("SP:Pause R:Reset Q:Quit ?:Help\n←→↑↓:Orbit +/-:Zoom B/b:Bend"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, panelStyle().Render(s.String()))
	if m.showHelp {
		return helpText + "\n" + mainView
	}
	return mainView
}

func row(label, value string) string {
	return labelStyle().Render(label) + valueStyle().Render(value) + "\n"
}

const helpText = `
  Space     pause or resume
  r         rebuild the scene from its configuration
  ←/→ h/l   orbit around the target
  ↑/↓ k/j   raise or lower the camera
  + / -     zoom in or out
  c         restore the starting camera
  a         toggle world axes
  b / B     bend the hinge open or closed
  t         cycle themes
  ?         toggle this help
  q         quit
`

// Run opens the viewer full screen and blocks until it quits.
func Run(m tea.Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
