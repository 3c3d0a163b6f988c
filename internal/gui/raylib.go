//go:build !ebiten

package gui

import (
	"image/color"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/lorenztrail/internal/dynamo"
)

// Backend names the window library compiled into this binary.
const Backend = "raylib"

func vec3(v dynamo.Vec3) rl.Vector3 {
	return rl.NewVector3(float32(v.X), float32(v.Y), float32(v.Z))
}

func rgba(c color.RGBA) rl.Color { return rl.NewColor(c.R, c.G, c.B, c.A) }

// initWindow opens the window and disables the default exit key so Q and
// ESC are handled by the scene.
func initWindow(title string, fps int) {
	rl.InitWindow(WindowWidth, WindowHeight, title)
	rl.SetTargetFPS(int32(fps))
	rl.SetExitKey(0)
}

// Run opens a window for the scene and blocks until it is closed.
func Run(s *Scene) error {
	initWindow(s.Title, s.FPS)
	defer rl.CloseWindow()

	camera := rl.NewCamera3D(
		vec3(s.Eye()),
		vec3(s.Camera.Target),
		vec3(s.Up()),
		75.0,
		rl.CameraPerspective,
	)

	for !rl.WindowShouldClose() {
		if quit := handleInput(s); quit {
			return nil
		}
		s.Frame(time.Now())

		camera.Position = vec3(s.Eye())
		camera.Target = vec3(s.Camera.Target)
		camera.Up = vec3(s.Up())

		rl.BeginDrawing()
		rl.ClearBackground(rgba(s.Palette.Background))
		rl.BeginMode3D(camera)
		drawScene(s)
		rl.EndMode3D()
		drawHUD(s)
		rl.EndDrawing()
	}
	return nil
}

func handleInput(s *Scene) bool {
	if rl.IsKeyPressed(rl.KeyQ) || rl.IsKeyPressed(rl.KeyEscape) {
		return true
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		s.TogglePause()
	}
	if rl.IsKeyPressed(rl.KeyR) {
		s.Reset()
	}
	if rl.IsKeyPressed(rl.KeyT) {
		s.NextTheme()
	}
	if rl.IsKeyPressed(rl.KeyA) {
		s.Camera.AutoRotate = !s.Camera.AutoRotate
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		s.Orbit(-1, 0)
	}
	if rl.IsKeyDown(rl.KeyRight) {
		s.Orbit(1, 0)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		s.Orbit(0, -1)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		s.Orbit(0, 1)
	}
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		s.Camera.ZoomIn()
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		s.Camera.ZoomOut()
	}
	if wheel := rl.GetMouseWheelMove(); wheel > 0 {
		s.Camera.ZoomIn()
	} else if wheel < 0 {
		s.Camera.ZoomOut()
	}
	return false
}

func drawScene(s *Scene) {
	axes := rgba(s.Palette.Axes)
	for _, e := range s.Axes.Edges {
		rl.DrawLine3D(vec3(e.Start), vec3(e.End), axes)
	}
	for i := 0; i < s.Sim.NumTrajectories(); i++ {
		col := rgba(s.Palette.Trail(i))
		buf := s.Sim.Buffer(i)
		for j := 1; j < len(buf); j++ {
			if !buf[j].IsFinite() || !buf[j-1].IsFinite() {
				continue
			}
			rl.DrawLine3D(vec3(buf[j-1]), vec3(buf[j]), col)
		}
		if head := s.Sim.Head(i); head.IsFinite() {
			rl.DrawSphere(vec3(head), 0.6, rgba(s.Palette.Marker))
		}
	}
}

func drawHUD(s *Scene) {
	text := rgba(s.Palette.Text)
	muted := rgba(s.Palette.Muted)
	for i, line := range s.HUD() {
		size := int32(16)
		col := muted
		if i == 0 {
			size, col = 24, text
		}
		rl.DrawText(line, 30, int32(30+i*28), size, col)
	}
	rl.DrawText(helpLine, 30, WindowHeight-40, 14, muted)
}
