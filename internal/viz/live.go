package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/lorenztrail/internal/dynamo"
)

const (
	width           = 80
	height          = 24
	statsWidth      = 45
	historyCapacity = 600

	axisExtent  = 80
	axisSpacing = 10
	axisTick    = 3
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(statsWidth)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
)

type TickMsg time.Time

// Options configures the live view.
type Options struct {
	FPS   int
	Theme string
	Title string
	// OnTick is called after every frame with whether the simulator advanced.
	OnTick func(advanced bool)
}

// Model drives a Ticker from frame messages and draws every trajectory
// buffer as a colored trail around the coordinate axes.
type Model struct {
	ticker        *dynamo.Ticker
	sim           *dynamo.Simulator
	camera        *Camera
	canvas        *Canvas
	axes          *Wireframe
	theme         Theme
	title         string
	frame         time.Duration
	onTick        func(bool)
	width, height int
	running       bool
	showHelp      bool
	zHistory      []float64
}

// NewModel builds a live view for the simulator behind ticker.
func NewModel(ticker *dynamo.Ticker, opts Options) Model {
	fps := opts.FPS
	if fps <= 0 {
		fps = 60
	}
	title := opts.Title
	if title == "" {
		title = ticker.Simulator().ParameterSet()
	}
	return Model{
		ticker:   ticker,
		sim:      ticker.Simulator(),
		camera:   NewCamera(),
		canvas:   NewCanvas(width, height),
		axes:     CreateAxesWireframe(axisExtent, axisSpacing, axisTick),
		theme:    GetTheme(opts.Theme),
		title:    title,
		frame:    time.Second / time.Duration(fps),
		onTick:   opts.OnTick,
		width:    width,
		height:   height,
		running:  true,
		zHistory: make([]float64, 0, historyCapacity),
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.frame, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd { return m.tick() }

// Update handles input events and advances the simulation.
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
		case "?":
			m.showHelp = !m.showHelp
		case "t":
			m.theme = NextTheme(m.theme)
		case "a":
			m.camera.AutoRotate = !m.camera.AutoRotate
		case "x":
			m.camera.RotateX(0.1)
		case "X":
			m.camera.RotateX(-0.1)
		case "y":
			m.camera.RotateY(0.1)
		case "Y":
			m.camera.RotateY(-0.1)
		case "z":
			m.camera.RotateZ(0.1)
		case "Z":
			m.camera.RotateZ(-0.1)
		case "+", "=":
			m.camera.ZoomIn()
		case "-", "_":
			m.camera.ZoomOut()
		}
	case tea.WindowSizeMsg:
		m.width = max(msg.Width-statsWidth-8, 20)
		m.height = max(msg.Height-4, 8)
		m.canvas.Resize(m.width, m.height)
	case TickMsg:
		m.step(time.Time(msg))
		return m, m.tick()
	}
	return m, nil
}

// step runs one animation frame.
func (m *Model) step(now time.Time) {
	m.camera.Update()
	if !m.running {
		return
	}
	advanced := m.ticker.Tick(now)
	if advanced {
		if z := m.sim.Head(0).Z; !math.IsNaN(z) && !math.IsInf(z, 0) {
			m.zHistory = append(m.zHistory, z)
			if len(m.zHistory) > historyCapacity {
				m.zHistory = m.zHistory[1:]
			}
		}
	}
	if m.onTick != nil {
		m.onTick(advanced)
	}
}

// reset refills every buffer with its initial condition.
func (m *Model) reset() {
	m.sim.Reset()
	m.ticker.Restart()
	m.zHistory = m.zHistory[:0]
}

// draw renders axes, trails and leading markers onto the canvas.
func (m *Model) draw() {
	buffers := make([][]dynamo.Vec3, m.sim.NumTrajectories())
	for i := range buffers {
		buffers[i] = m.sim.Buffer(i)
	}
	DrawScene(m.canvas, m.camera, m.axes, buffers)
}

func (m Model) status() string {
	for i := 0; i < m.sim.NumTrajectories(); i++ {
		if !m.sim.Head(i).IsFinite() {
			return StatusDiverged.Render("DIVERGED")
		}
	}
	if !m.running {
		return StatusPaused.Render("PAUSED")
	}
	return StatusRunning.Render("RUNNING")
}

// View renders the TUI interface.
func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(m.canvas.Render(m.theme.PenStyles(m.sim.NumTrajectories())))

	p := m.sim.Params()
	var s strings.Builder
	s.WriteString(GradientText(strings.ToUpper(m.title), m.theme.Primary, m.theme.Accent) + "\n")
	s.WriteString(m.status() + "\n\n")
	s.WriteString(labelStyle.Render("Rho") + valueStyle.Render(fmt.Sprintf("%.2f", p.Rho)) + "\n")
	s.WriteString(labelStyle.Render("Sigma") + valueStyle.Render(fmt.Sprintf("%.2f", p.Sigma)) + "\n")
	s.WriteString(labelStyle.Render("Beta") + valueStyle.Render(fmt.Sprintf("%.4f", p.Beta)) + "\n")
	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.2f", m.sim.Time())) + "\n")
	s.WriteString(labelStyle.Render("Steps") + valueStyle.Render(fmt.Sprintf("%d", m.sim.Steps())) + "\n")
	s.WriteString(labelStyle.Render("Buffer") + valueStyle.Render(fmt.Sprintf("%d × %d", m.sim.NumTrajectories(), m.sim.MaxPoints())) + "\n")

	if len(m.zHistory) > 1 {
		chart := asciigraph.Plot(m.zHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("z"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	s.WriteString("\n" + Separator(statsWidth-6) + "\n")
	shown := min(m.sim.NumTrajectories(), 6)
	for i := 0; i < shown; i++ {
		dot := lipgloss.NewStyle().Foreground(m.theme.TrailColor(i)).Render("●")
		h := m.sim.Head(i)
		s.WriteString(dot + " " + valueStyle.Render(fmt.Sprintf("%7.2f %7.2f %7.2f", h.X, h.Y, h.Z)) + "\n")
	}
	if rest := m.sim.NumTrajectories() - shown; rest > 0 {
		s.WriteString(Subtle.Render(fmt.Sprintf("  +%d more", rest)) + "\n")
	}

	s.WriteString(helpStyle.Render("SP:Pause R:Reset Q:Quit\nT:Theme  A:Rotate ?:Help\nXYZ:Orbit +-:Zoom"))
	statsView := statsStyle.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  R        - Refill buffers           ║
║  Q        - Quit                     ║
║  x/X y/Y  - Rotate camera            ║
║  z/Z      - Roll camera              ║
║  +/-      - Zoom                     ║
║  A        - Toggle auto-rotate       ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}

// Run starts the live view in the alternate screen and blocks until quit.
func Run(ticker *dynamo.Ticker, opts Options) error {
	_, err := tea.NewProgram(NewModel(ticker, opts), tea.WithAltScreen()).Run()
	return err
}
