package viz

import (
	"math"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/lorenztrail/internal/config"
	"github.com/san-kum/lorenztrail/internal/dynamo"
)

func TestCanvasSetAndClear(t *testing.T) {
	c := NewCanvas(4, 2)
	if c.SubWidth() != 8 || c.SubHeight() != 8 {
		t.Fatalf("unexpected dot size %dx%d", c.SubWidth(), c.SubHeight())
	}

	c.SetPen(3)
	c.Set(0, 0)
	c.Set(1, 3)
	if got := c.Grid[0][0]; got != blank|0x1|0x80 {
		t.Errorf("unexpected cell %U", got)
	}
	if c.Pens[0][0] != 3 {
		t.Errorf("expected pen 3, got %d", c.Pens[0][0])
	}

	// out of range is ignored
	c.Set(-1, 0)
	c.Set(100, 100)

	c.Unset(0, 0)
	if got := c.Grid[0][0]; got != blank|0x80 {
		t.Errorf("unexpected cell after unset %U", got)
	}

	c.Clear()
	for _, row := range c.Grid {
		for _, r := range row {
			if r != blank {
				t.Fatalf("expected blank canvas after clear")
			}
		}
	}
}

func TestCanvasDrawLine(t *testing.T) {
	c := NewCanvas(10, 1)
	c.DrawLine(0, 0, 19, 0)
	for i, r := range c.Grid[0] {
		if r&0x1 == 0 || r&0x8 == 0 {
			t.Errorf("cell %d missing top row dots: %U", i, r)
		}
	}
}

func TestCanvasRenderKeepsGlyphs(t *testing.T) {
	c := NewCanvas(3, 1)
	c.SetPen(PenTrail)
	c.Set(0, 0)
	out := c.Render(ThemeMinimal.PenStyles(1))
	if !strings.ContainsRune(out, blank|0x1) {
		t.Errorf("rendered output lost glyph: %q", out)
	}
	if strings.Count(c.String(), "\n") != 1 {
		t.Errorf("expected one line")
	}
}

func TestCameraProjectCenter(t *testing.T) {
	cam := NewCamera()
	x, y, _, ok := cam.Project(dynamo.Vec3{}, 160, 96)
	if !ok {
		t.Fatal("origin should be visible")
	}
	if x != 80 || y != 48 {
		t.Errorf("expected origin at screen centre, got (%d, %d)", x, y)
	}
}

func TestCameraProjectRejects(t *testing.T) {
	cam := NewCamera()
	tests := []struct {
		name string
		p    dynamo.Vec3
	}{
		{"nan", dynamo.Vec3{X: math.NaN()}},
		{"inf", dynamo.Vec3{Z: math.Inf(1)}},
		{"behind camera", dynamo.Vec3{Z: 200}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, _, ok := cam.ProjectF(tt.p, 160, 96); ok {
				t.Errorf("expected %v to be rejected", tt.p)
			}
		})
	}
}

func TestCameraAutoRotate(t *testing.T) {
	cam := NewCamera()
	cam.Update()
	if math.Abs(cam.RotY-DefaultAutoRotateSpeed) > 1e-15 {
		t.Errorf("expected one frame of rotation, got %f", cam.RotY)
	}
	cam.AutoRotate = false
	cam.Update()
	if math.Abs(cam.RotY-DefaultAutoRotateSpeed) > 1e-15 {
		t.Errorf("rotation should stop when disabled")
	}
}

func TestCameraZoomBounds(t *testing.T) {
	cam := NewCamera()
	for i := 0; i < 100; i++ {
		cam.ZoomIn()
	}
	if cam.Zoom != 10 {
		t.Errorf("expected zoom clamp at 10, got %f", cam.Zoom)
	}
	for i := 0; i < 100; i++ {
		cam.ZoomOut()
	}
	if cam.Zoom != 0.1 {
		t.Errorf("expected zoom clamp at 0.1, got %f", cam.Zoom)
	}
}

func TestCreateAxesWireframe(t *testing.T) {
	w := CreateAxesWireframe(80, 10, 3)
	// 3 axes, each with 7 tick positions per side and 2 crosses per tick
	want := 3 * (1 + 7*2*2)
	if len(w.Edges) != want {
		t.Errorf("expected %d edges, got %d", want, len(w.Edges))
	}
	for _, e := range w.Edges {
		if e.Pen != PenAxes {
			t.Fatalf("axis edge drawn with pen %d", e.Pen)
		}
	}
}

func TestRenderTrailSkipsNonFinite(t *testing.T) {
	c := NewCanvas(40, 20)
	cam := NewCamera()
	pts := []dynamo.Vec3{{X: math.Inf(1)}, {X: math.NaN()}, {X: math.Inf(-1)}}
	RenderTrail(c, cam, pts, TrailPen(0))
	for _, row := range c.Grid {
		for _, r := range row {
			if r != blank {
				t.Fatal("non-finite trail should draw nothing")
			}
		}
	}

	RenderTrail(c, cam, []dynamo.Vec3{{X: -10}, {X: 10}}, TrailPen(0))
	drawn := false
	for _, row := range c.Grid {
		for _, r := range row {
			drawn = drawn || r != blank
		}
	}
	if !drawn {
		t.Error("expected finite segment to be drawn")
	}
}

func TestTrailPenWraps(t *testing.T) {
	if TrailPen(0) != PenTrail {
		t.Errorf("first trajectory should use PenTrail")
	}
	if TrailPen(maxTrailPens) != PenTrail {
		t.Errorf("pens should wrap after %d trajectories", maxTrailPens)
	}
	if n := len(ThemeCyberpunk.PenStyles(1000)); n != int(PenTrail)+maxTrailPens {
		t.Errorf("unexpected style count %d", n)
	}
}

func TestThemes(t *testing.T) {
	if GetTheme("nope").Name != "cyberpunk" {
		t.Error("unknown theme should fall back to cyberpunk")
	}
	seen := map[string]bool{}
	th := Themes[0]
	for range Themes {
		seen[th.Name] = true
		th = NextTheme(th)
	}
	if len(seen) != len(Themes) {
		t.Errorf("NextTheme should visit every theme, saw %v", seen)
	}
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	sim, err := dynamo.New("Lorenz", []dynamo.Vec3{{X: 0.01}, {X: 0.02}}, 50, 0.01)
	if err != nil {
		t.Fatalf("simulator: %v", err)
	}
	return NewModel(dynamo.NewTicker(sim, 10*time.Millisecond, 2), Options{FPS: 30, Theme: "ocean"})
}

func TestModelTickAdvances(t *testing.T) {
	var calls, advances int
	m := newTestModel(t)
	m.onTick = func(advanced bool) {
		calls++
		if advanced {
			advances++
		}
	}

	start := time.Unix(0, 0)
	updated, cmd := m.Update(TickMsg(start))
	if cmd == nil {
		t.Error("tick should schedule the next frame")
	}
	m = updated.(Model)
	if m.sim.Steps() != 2 {
		t.Errorf("expected 2 steps after first tick, got %d", m.sim.Steps())
	}

	updated, _ = m.Update(TickMsg(start.Add(5 * time.Millisecond)))
	m = updated.(Model)
	if m.sim.Steps() != 2 {
		t.Errorf("tick inside interval should not advance, got %d steps", m.sim.Steps())
	}

	if calls != 2 || advances != 1 {
		t.Errorf("expected 2 callbacks with 1 advance, got %d/%d", calls, advances)
	}
	if len(m.zHistory) != 1 {
		t.Errorf("expected one z sample, got %d", len(m.zHistory))
	}
}

func TestModelKeys(t *testing.T) {
	m := newTestModel(t)
	key := func(s string) tea.KeyMsg {
		if s == " " {
			return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		}
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}

	updated, _ := m.Update(key(" "))
	m = updated.(Model)
	if m.running {
		t.Fatal("space should pause")
	}
	updated, _ = m.Update(TickMsg(time.Unix(1, 0)))
	m = updated.(Model)
	if m.sim.Steps() != 0 {
		t.Error("paused model should not advance")
	}

	updated, _ = m.Update(key(" "))
	m = updated.(Model)
	updated, _ = m.Update(TickMsg(time.Unix(2, 0)))
	m = updated.(Model)
	if m.sim.Steps() == 0 {
		t.Fatal("resumed model should advance")
	}

	updated, _ = m.Update(key("r"))
	m = updated.(Model)
	if m.sim.Steps() != 0 || m.sim.Head(0) != (dynamo.Vec3{X: 0.01}) {
		t.Error("r should refill buffers with initial conditions")
	}

	before := m.theme.Name
	updated, _ = m.Update(key("t"))
	m = updated.(Model)
	if m.theme.Name == before {
		t.Error("t should cycle theme")
	}

	updated, _ = m.Update(key("a"))
	m = updated.(Model)
	if m.camera.AutoRotate {
		t.Error("a should toggle auto-rotate")
	}

	rot := m.camera.RotX
	updated, _ = m.Update(key("x"))
	m = updated.(Model)
	if m.camera.RotX <= rot {
		t.Error("x should rotate camera")
	}
}

func TestModelResizeAndView(t *testing.T) {
	m := newTestModel(t)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 140, Height: 40})
	m = updated.(Model)
	if m.canvas.Width != 140-statsWidth-8 || m.canvas.Height != 36 {
		t.Errorf("unexpected canvas size %dx%d", m.canvas.Width, m.canvas.Height)
	}

	for i := 0; i < 3; i++ {
		updated, _ = m.Update(TickMsg(time.Unix(int64(i), 0)))
		m = updated.(Model)
	}
	view := m.View()
	for _, want := range []string{"Rho", "28.00", "Steps", "RUNNING"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestInteractiveFlow(t *testing.T) {
	base := config.DefaultConfig()
	var m tea.Model = NewInteractiveApp(base, Options{})
	enter := tea.KeyMsg{Type: tea.KeyEnter}

	m, _ = m.Update(enter)
	a := m.(app)
	if a.state != stateConfig || a.selected != config.ListPresets()[0] {
		t.Fatalf("expected config screen for first preset, got state %d %q", a.state, a.selected)
	}

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})
	a = m.(app)
	if a.state != stateSim || cmd == nil {
		t.Fatalf("expected live view to start, err=%v", a.err)
	}
}

func TestInteractiveFieldAdjust(t *testing.T) {
	cfg := config.DefaultConfig()
	for _, f := range fields {
		f.adjust(cfg, 1)
		f.adjust(cfg, -1)
	}
	if cfg.ParameterSet != dynamo.DefaultParameterSet || cfg.Dt != config.DefaultDt ||
		cfg.MaxPoints != config.DefaultMaxPoints || cfg.NumRepeats != config.DefaultRepeats {
		t.Errorf("up then down should round-trip, got %+v", cfg)
	}
}

func TestDrawScene(t *testing.T) {
	c := NewCanvas(40, 10)
	c.Set(0, 0)
	cam := NewCamera()

	DrawScene(c, cam, nil, [][]dynamo.Vec3{{{X: -40}, {X: -20}}})

	if c.Grid[0][0] != blank {
		t.Error("stale dots should be cleared")
	}
	var trail, marker int
	for row := range c.Grid {
		for col, r := range c.Grid[row] {
			if r == blank {
				continue
			}
			switch c.Pens[row][col] {
			case TrailPen(0):
				trail++
			case PenMarker:
				marker++
			}
		}
	}
	if trail == 0 || marker == 0 {
		t.Errorf("expected trail and marker cells, got %d and %d", trail, marker)
	}
}
