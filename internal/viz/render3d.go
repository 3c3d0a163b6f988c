package viz

import (
	"math"
	"sort"

	"github.com/san-kum/lorenztrail/internal/dynamo"
)

// Pens used when drawing a scene. Trajectory i draws with PenTrail+i.
const (
	PenAxes uint8 = iota
	PenMarker
	PenTrail
)

const maxTrailPens = 64

// TrailPen is the pen for trajectory i.
func TrailPen(i int) uint8 { return PenTrail + uint8(i%maxTrailPens) }

// DefaultAutoRotateSpeed turns the camera once every 30s at 60 frames per second.
const DefaultAutoRotateSpeed = 2 * math.Pi / (30 * 60)

// Camera orbits Target at Distance and projects to a 2D plane.
type Camera struct {
	Target           dynamo.Vec3
	Distance         float64
	FOV, Near        float64
	RotX, RotY, RotZ float64
	Zoom             float64
	AutoRotate       bool
	AutoRotateSpeed  float64
}

// NewCamera sits 100 units out with a 75° field of view, slowly orbiting
// the origin.
func NewCamera() *Camera {
	return &Camera{
		Distance:        100,
		FOV:             75 * math.Pi / 180,
		Near:            0.1,
		Zoom:            1.0,
		AutoRotate:      true,
		AutoRotateSpeed: DefaultAutoRotateSpeed,
	}
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) RotateZ(a float64) { c.RotZ += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

// Update advances the auto-rotation by one frame.
func (c *Camera) Update() {
	if c.AutoRotate {
		c.RotY += c.AutoRotateSpeed
	}
}

// RotatePoint rotates p about the target by the camera angles.
func (c *Camera) RotatePoint(p dynamo.Vec3) dynamo.Vec3 {
	p = p.Sub(c.Target)
	cx, sx := math.Cos(c.RotX), math.Sin(c.RotX)
	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	cy, sy := math.Cos(c.RotY), math.Sin(c.RotY)
	p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
	cz, sz := math.Cos(c.RotZ), math.Sin(c.RotZ)
	p.X, p.Y = p.X*cz-p.Y*sz, p.X*sz+p.Y*cz
	return p
}

// ProjectF converts world coordinates to fractional screen coordinates.
// depth grows toward the camera. ok is false for non-finite points and
// points behind the near plane.
func (c *Camera) ProjectF(p dynamo.Vec3, sw, sh int) (x, y, depth float64, ok bool) {
	if !p.IsFinite() {
		return 0, 0, 0, false
	}
	rot := c.RotatePoint(p)
	dist := c.Distance - rot.Z
	if dist <= c.Near {
		return 0, 0, 0, false
	}
	focal := float64(min(sw, sh)) / 2 / math.Tan(c.FOV/2) * c.Zoom
	x = rot.X*focal/dist + float64(sw)/2
	y = -rot.Y*focal/dist + float64(sh)/2
	return x, y, rot.Z, true
}

// Project converts world coordinates to screen pixels.
// Returns x, y, depth, and visibility.
func (c *Camera) Project(p dynamo.Vec3, sw, sh int) (int, int, float64, bool) {
	fx, fy, depth, ok := c.ProjectF(p, sw, sh)
	if !ok {
		return 0, 0, 0, false
	}
	sx, sy := int(math.Floor(fx)), int(math.Floor(fy))
	return sx, sy, depth, sx >= 0 && sx < sw && sy >= 0 && sy < sh
}

type Edge struct {
	Start, End dynamo.Vec3
	Pen        uint8
}

type Wireframe struct{ Edges []Edge }

func NewWireframe() *Wireframe                           { return &Wireframe{Edges: make([]Edge, 0)} }
func (w *Wireframe) AddEdge(s, e dynamo.Vec3, pen uint8) { w.Edges = append(w.Edges, Edge{s, e, pen}) }

type ProjectedEdge struct {
	X1, Y1, X2, Y2 int
	Depth          float64
	Pen            uint8
}

// segment projects both ends of an edge. Edges with an end behind the
// camera or far outside the screen are dropped so line drawing stays bounded.
func segment(cam *Camera, a, b dynamo.Vec3, sw, sh int) (ProjectedEdge, bool) {
	x1, y1, d1, ok1 := cam.ProjectF(a, sw, sh)
	x2, y2, d2, ok2 := cam.ProjectF(b, sw, sh)
	if !ok1 || !ok2 {
		return ProjectedEdge{}, false
	}
	limit := float64(4 * max(sw, sh))
	for _, v := range [4]float64{x1, y1, x2, y2} {
		if math.Abs(v) > limit {
			return ProjectedEdge{}, false
		}
	}
	if (x1 < 0 && x2 < 0) || (y1 < 0 && y2 < 0) ||
		(x1 >= float64(sw) && x2 >= float64(sw)) || (y1 >= float64(sh) && y2 >= float64(sh)) {
		return ProjectedEdge{}, false
	}
	return ProjectedEdge{
		X1: int(math.Floor(x1)), Y1: int(math.Floor(y1)),
		X2: int(math.Floor(x2)), Y2: int(math.Floor(y2)),
		Depth: (d1 + d2) / 2,
	}, true
}

// Render3D draws the wireframe to the canvas using a simple painter's algorithm.
func Render3D(c *Canvas, w *Wireframe, cam *Camera) {
	if c == nil || w == nil || cam == nil {
		return
	}
	cw, ch := c.SubWidth(), c.SubHeight()
	proj := make([]ProjectedEdge, 0, len(w.Edges))
	for _, e := range w.Edges {
		if pe, ok := segment(cam, e.Start, e.End, cw, ch); ok {
			pe.Pen = e.Pen
			proj = append(proj, pe)
		}
	}
	sort.SliceStable(proj, func(i, j int) bool { return proj[i].Depth < proj[j].Depth })
	for _, e := range proj {
		c.SetPen(e.Pen)
		if e.X1 == e.X2 && e.Y1 == e.Y2 {
			c.Set(e.X1, e.Y1)
		} else {
			c.DrawLine(e.X1, e.Y1, e.X2, e.Y2)
		}
	}
}

// RenderTrail draws consecutive buffer points as a polyline. Segments
// touching non-finite points are skipped.
func RenderTrail(c *Canvas, cam *Camera, points []dynamo.Vec3, pen uint8) {
	if c == nil || cam == nil {
		return
	}
	cw, ch := c.SubWidth(), c.SubHeight()
	c.SetPen(pen)
	for i := 1; i < len(points); i++ {
		if points[i] == points[i-1] {
			continue
		}
		if e, ok := segment(cam, points[i-1], points[i], cw, ch); ok {
			c.DrawLine(e.X1, e.Y1, e.X2, e.Y2)
		}
	}
}

// RenderMarker draws the leading point of a trajectory.
func RenderMarker(c *Canvas, cam *Camera, p dynamo.Vec3, pen uint8) {
	if c == nil || cam == nil {
		return
	}
	if x, y, _, ok := cam.Project(p, c.SubWidth(), c.SubHeight()); ok {
		c.SetPen(pen)
		c.DrawMarker(x, y)
	}
}

// DrawScene clears c and draws axes, one trail per buffer and a marker
// on the newest point of each buffer. axes may be nil.
func DrawScene(c *Canvas, cam *Camera, axes *Wireframe, buffers [][]dynamo.Vec3) {
	if c == nil || cam == nil {
		return
	}
	c.Clear()
	Render3D(c, axes, cam)
	for i, buf := range buffers {
		RenderTrail(c, cam, buf, TrailPen(i))
	}
	for _, buf := range buffers {
		if len(buf) > 0 {
			RenderMarker(c, cam, buf[len(buf)-1], PenMarker)
		}
	}
}

// CreateAxesWireframe builds three axes spanning ±extent with a tick cross
// every spacing units. The live view uses (80, 10, 3).
func CreateAxesWireframe(extent, spacing, tick float64) *Wireframe {
	w := NewWireframe()
	axes := []func(a, b, c float64) dynamo.Vec3{
		func(a, b, c float64) dynamo.Vec3 { return dynamo.Vec3{X: a, Y: b, Z: c} },
		func(a, b, c float64) dynamo.Vec3 { return dynamo.Vec3{X: c, Y: a, Z: b} },
		func(a, b, c float64) dynamo.Vec3 { return dynamo.Vec3{X: b, Y: c, Z: a} },
	}
	for _, at := range axes {
		w.AddEdge(at(-extent, 0, 0), at(extent, 0, 0), PenAxes)
		if spacing <= 0 {
			continue
		}
		for d := spacing; d < extent; d += spacing {
			for _, s := range []float64{-d, d} {
				w.AddEdge(at(s, -tick, 0), at(s, tick, 0), PenAxes)
				w.AddEdge(at(s, 0, -tick), at(s, 0, tick), PenAxes)
			}
		}
	}
	return w
}
