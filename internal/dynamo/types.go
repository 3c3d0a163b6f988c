package dynamo

import (
	"fmt"
	"math"
)

// Vec3 is a position or derivative in attractor space.
type Vec3 struct {
	X float64 `json:"x" yaml:"x" mapstructure:"x"`
	Y float64 `json:"y" yaml:"y" mapstructure:"y"`
	Z float64 `json:"z" yaml:"z" mapstructure:"z"`
}

func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Length() float64      { return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z) }

// IsFinite reports whether no coordinate is NaN or Inf.
func (v Vec3) IsFinite() bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

func (v Vec3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}

// Params holds the Lorenz coefficients.
type Params struct {
	Rho   float64 `json:"rho" yaml:"rho" mapstructure:"rho"`
	Sigma float64 `json:"sigma" yaml:"sigma" mapstructure:"sigma"`
	Beta  float64 `json:"beta" yaml:"beta" mapstructure:"beta"`
}

func (p Params) valid() bool {
	return Vec3{p.Rho, p.Sigma, p.Beta}.IsFinite()
}

// Field evaluates the Lorenz vector field at pos.
func (p Params) Field(pos Vec3) Vec3 {
	return Vec3{
		X: p.Sigma * (pos.Y - pos.X),
		Y: pos.X*(p.Rho-pos.Z) - pos.Y,
		Z: pos.X*pos.Y - p.Beta*pos.Z,
	}
}
