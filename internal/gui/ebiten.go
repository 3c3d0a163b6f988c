//go:build ebiten

package gui

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Backend names the window library compiled into this binary.
const Backend = "ebiten"

// Game adapts a Scene to the ebiten.Game interface.
type Game struct {
	scene         *Scene
	width, height int
}

func NewGame(s *Scene) *Game {
	return &Game{scene: s, width: WindowWidth, height: WindowHeight}
}

// Update handles input and advances the scene by one frame.
func (g *Game) Update() error {
	s := g.scene
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		s.TogglePause()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		s.Reset()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyT) {
		s.NextTheme()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyA) {
		s.Camera.AutoRotate = !s.Camera.AutoRotate
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		s.Orbit(-1, 0)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		s.Orbit(1, 0)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		s.Orbit(0, -1)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		s.Orbit(0, 1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) || inpututil.IsKeyJustPressed(ebiten.KeyNumpadAdd) {
		s.Camera.ZoomIn()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) || inpututil.IsKeyJustPressed(ebiten.KeyNumpadSubtract) {
		s.Camera.ZoomOut()
	}
	if _, wy := ebiten.Wheel(); wy > 0 {
		s.Camera.ZoomIn()
	} else if wy < 0 {
		s.Camera.ZoomOut()
	}

	s.Frame(time.Now())
	return nil
}

// Draw strokes the projected axes and trails, then the markers and HUD.
func (g *Game) Draw(screen *ebiten.Image) {
	s := g.scene
	screen.Fill(s.Palette.Background)
	for _, seg := range s.Segments(g.width, g.height) {
		vector.StrokeLine(screen, seg.X1, seg.Y1, seg.X2, seg.Y2, 1, seg.Color, true)
	}
	for _, m := range s.Markers(g.width, g.height) {
		vector.DrawFilledCircle(screen, m[0], m[1], 4, s.Palette.Marker, true)
	}
	for i, line := range s.HUD() {
		ebitenutil.DebugPrintAt(screen, line, 12, 12+i*16)
	}
	ebitenutil.DebugPrintAt(screen, helpLine, 12, g.height-24)
}

// Layout tracks the window size so projection fills it.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.width, g.height = max(outsideWidth, 1), max(outsideHeight, 1)
	return g.width, g.height
}

// Run opens a window for the scene and blocks until it is closed.
func Run(s *Scene) error {
	ebiten.SetWindowSize(WindowWidth, WindowHeight)
	ebiten.SetWindowTitle(s.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(s.FPS)
	if err := ebiten.RunGame(NewGame(s)); err != nil && err != ebiten.Termination {
		return err
	}
	return nil
}
