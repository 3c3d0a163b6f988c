package analysis

import (
	"math"

	"github.com/san-kum/lorenztrail/internal/dynamo"
)

// Box is the axis-aligned extent of the finite points of a buffer.
type Box struct {
	Min, Max  dynamo.Vec3
	Finite    int
	NonFinite int
}

func (b Box) Size() dynamo.Vec3 { return b.Max.Sub(b.Min) }

func (b Box) Center() dynamo.Vec3 { return b.Min.Add(b.Max).Scale(0.5) }

// Bounds skips NaN/Inf points and counts them instead.
func Bounds(points []dynamo.Vec3) Box {
	box := Box{
		Min: dynamo.Vec3{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)},
		Max: dynamo.Vec3{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)},
	}
	for _, p := range points {
		if !p.IsFinite() {
			box.NonFinite++
			continue
		}
		box.Finite++
		box.Min = dynamo.Vec3{X: math.Min(box.Min.X, p.X), Y: math.Min(box.Min.Y, p.Y), Z: math.Min(box.Min.Z, p.Z)}
		box.Max = dynamo.Vec3{X: math.Max(box.Max.X, p.X), Y: math.Max(box.Max.Y, p.Y), Z: math.Max(box.Max.Z, p.Z)}
	}
	if box.Finite == 0 {
		box.Min, box.Max = dynamo.Vec3{}, dynamo.Vec3{}
	}
	return box
}

// Separation returns |a[i]-b[i]| over the common length of two buffers.
func Separation(a, b []dynamo.Vec3) []float64 {
	n := min(len(a), len(b))
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = a[i].Sub(b[i]).Length()
	}
	return out
}

// Component extracts one coordinate (0=x, 1=y, 2=z) from a buffer.
func Component(points []dynamo.Vec3, axis int) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		switch axis {
		case 0:
			out[i] = p.X
		case 1:
			out[i] = p.Y
		default:
			out[i] = p.Z
		}
	}
	return out
}
