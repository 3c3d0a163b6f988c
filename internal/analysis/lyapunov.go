package analysis

import (
	"math"

	"github.com/san-kum/lorenztrail/internal/dynamo"
)

// LyapunovExponent estimates the largest Lyapunov exponent with the
// two-particle method, using sim's Euler step and timestep.
//
// Algorithm:
// 1. Run x0 for transient steps to settle onto the attractor
// 2. Step a twin displaced by d0 alongside it
// 3. After every step, add ln(|δ|/d0) and pull the twin back to distance d0
// 4. λ ≈ Σ ln(|δ|/d0) / (steps * dt)
func LyapunovExponent(sim *dynamo.Simulator, x0 dynamo.Vec3, transient, steps int, d0 float64) float64 {
	if steps <= 0 || d0 <= 0 {
		return 0
	}

	x := x0
	for i := 0; i < transient; i++ {
		x = sim.Step(x)
	}
	xp := x.Add(dynamo.Vec3{X: d0})

	sumLog := 0.0
	count := 0
	for i := 0; i < steps; i++ {
		x = sim.Step(x)
		xp = sim.Step(xp)

		delta := xp.Sub(x)
		sep := delta.Length()
		if !x.IsFinite() || math.IsNaN(sep) || math.IsInf(sep, 0) {
			break
		}
		if sep == 0 {
			xp = x.Add(dynamo.Vec3{X: d0})
			continue
		}

		sumLog += math.Log(sep / d0)
		count++
		xp = x.Add(delta.Scale(d0 / sep))
	}

	if count == 0 {
		return 0
	}
	return sumLog / (float64(count) * sim.Dt())
}
