package gui

import (
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/san-kum/lorenztrail/internal/dynamo"
	"github.com/san-kum/lorenztrail/internal/viz"
)

const (
	WindowWidth  = 1280
	WindowHeight = 720
	orbitStep    = 0.03
)

// Palette is a theme resolved to RGBA for window renderers.
type Palette struct {
	Background color.RGBA
	Axes       color.RGBA
	Marker     color.RGBA
	Text       color.RGBA
	Muted      color.RGBA
	Trails     []color.RGBA
}

// PaletteFor converts a terminal theme into window colors.
func PaletteFor(t viz.Theme) Palette {
	p := Palette{
		Background: color.RGBA{10, 10, 10, 255},
		Axes:       hexRGBA(string(t.Axes)),
		Marker:     hexRGBA(string(t.Accent)),
		Text:       hexRGBA(string(t.Text)),
		Muted:      hexRGBA(string(t.Muted)),
	}
	for i := range t.Trails {
		p.Trails = append(p.Trails, hexRGBA(string(t.TrailColor(i))))
	}
	if len(p.Trails) == 0 {
		p.Trails = []color.RGBA{hexRGBA(string(t.Primary))}
	}
	return p
}

// Trail is the color of trajectory i.
func (p Palette) Trail(i int) color.RGBA { return p.Trails[i%len(p.Trails)] }

func hexRGBA(s string) color.RGBA {
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return color.RGBA{255, 255, 255, 255}
	}
	return color.RGBA{r, g, b, 255}
}

// Options configures a window session.
type Options struct {
	Title  string
	Theme  string
	FPS    int
	OnTick func(advanced bool)
}

// Scene is the renderer-independent half of the window: it owns the
// ticker, the orbit camera and the palette, and turns buffers into
// screen-space segments.
type Scene struct {
	Ticker  *dynamo.Ticker
	Sim     *dynamo.Simulator
	Camera  *viz.Camera
	Axes    *viz.Wireframe
	Theme   viz.Theme
	Palette Palette
	Title   string
	FPS     int
	Paused  bool
	onTick  func(bool)
}

func NewScene(ticker *dynamo.Ticker, opts Options) *Scene {
	theme := viz.GetTheme(opts.Theme)
	fps := opts.FPS
	if fps <= 0 {
		fps = 60
	}
	title := opts.Title
	if title == "" {
		title = "lorenztrail :: " + ticker.Simulator().ParameterSet()
	}
	return &Scene{
		Ticker:  ticker,
		Sim:     ticker.Simulator(),
		Camera:  viz.NewCamera(),
		Axes:    viz.CreateAxesWireframe(80, 10, 3),
		Theme:   theme,
		Palette: PaletteFor(theme),
		Title:   title,
		FPS:     fps,
		onTick:  opts.OnTick,
	}
}

// Frame runs one display frame: the camera keeps orbiting while the
// simulation is paused.
func (s *Scene) Frame(now time.Time) bool {
	s.Camera.Update()
	if s.Paused {
		return false
	}
	advanced := s.Ticker.Tick(now)
	if s.onTick != nil {
		s.onTick(advanced)
	}
	return advanced
}

func (s *Scene) TogglePause() { s.Paused = !s.Paused }

// Reset refills the buffers with their initial conditions.
func (s *Scene) Reset() {
	s.Sim.Reset()
	s.Ticker.Restart()
}

func (s *Scene) NextTheme() {
	s.Theme = viz.NextTheme(s.Theme)
	s.Palette = PaletteFor(s.Theme)
}

// Orbit nudges the camera by whole orbit steps.
func (s *Scene) Orbit(dx, dy int) {
	s.Camera.RotateY(float64(dx) * orbitStep)
	s.Camera.RotateX(float64(dy) * orbitStep)
}

// Eye is the camera position in world space for renderers with their own
// perspective camera.
func (s *Scene) Eye() dynamo.Vec3 {
	c := s.Camera
	d := c.Distance / c.Zoom
	cx, sx := math.Cos(c.RotX), math.Sin(c.RotX)
	cy, sy := math.Cos(c.RotY), math.Sin(c.RotY)
	// inverse of the point rotation applied to (0, 0, d)
	eye := dynamo.Vec3{X: -d * sy, Y: d * cy * sx, Z: d * cy * cx}
	return c.Target.Add(eye)
}

// Up is the camera up vector after roll.
func (s *Scene) Up() dynamo.Vec3 {
	return dynamo.Vec3{X: -math.Sin(s.Camera.RotZ), Y: math.Cos(s.Camera.RotZ)}
}

// Segment is a projected line in window pixels.
type Segment struct {
	X1, Y1, X2, Y2 float32
	Color          color.RGBA
}

// Segments projects the axes and every trail into a w×h window. Segments
// touching non-finite or off-camera points are dropped.
func (s *Scene) Segments(w, h int) []Segment {
	var out []Segment
	add := func(a, b dynamo.Vec3, c color.RGBA) {
		x1, y1, _, ok1 := s.Camera.ProjectF(a, w, h)
		x2, y2, _, ok2 := s.Camera.ProjectF(b, w, h)
		if !ok1 || !ok2 {
			return
		}
		out = append(out, Segment{float32(x1), float32(y1), float32(x2), float32(y2), c})
	}
	for _, e := range s.Axes.Edges {
		add(e.Start, e.End, s.Palette.Axes)
	}
	for i := 0; i < s.Sim.NumTrajectories(); i++ {
		buf := s.Sim.Buffer(i)
		c := s.Palette.Trail(i)
		for j := 1; j < len(buf); j++ {
			if buf[j] != buf[j-1] {
				add(buf[j-1], buf[j], c)
			}
		}
	}
	return out
}

// Markers returns the projected leading point of every trajectory.
func (s *Scene) Markers(w, h int) [][2]float32 {
	var out [][2]float32
	for i := 0; i < s.Sim.NumTrajectories(); i++ {
		if x, y, _, ok := s.Camera.ProjectF(s.Sim.Head(i), w, h); ok {
			out = append(out, [2]float32{float32(x), float32(y)})
		}
	}
	return out
}

// HUD returns the overlay text lines.
func (s *Scene) HUD() []string {
	p := s.Sim.Params()
	status := "RUNNING"
	if s.Paused {
		status = "PAUSED"
	}
	return []string{
		s.Title,
		status,
		fmt.Sprintf("rho %.2f  sigma %.2f  beta %.4f", p.Rho, p.Sigma, p.Beta),
		fmt.Sprintf("t %.2f  steps %d  trails %d x %d", s.Sim.Time(), s.Sim.Steps(), s.Sim.NumTrajectories(), s.Sim.MaxPoints()),
	}
}

const helpLine = "[SPACE] PAUSE  [R] RESET  [ARROWS] ORBIT  [+/-] ZOOM  [A] ROTATE  [T] THEME  [Q] QUIT"
