package analysis

import (
	"github.com/san-kum/lorenztrail/internal/dynamo"
)

// BifurcationPoint holds the distinct z maxima found for one rho.
type BifurcationPoint struct {
	Param  float64
	Values []float64
}

// BifurcationDiagram sweeps rho over [rhoMin, rhoMax] with sigma and beta
// taken from base, and records the local maxima of z (the Lorenz map) once
// the transient has passed. Maxima are deduplicated at 1e-3 resolution.
func BifurcationDiagram(
	base dynamo.Params,
	rhoMin, rhoMax float64,
	rhoSteps int,
	x0 dynamo.Vec3,
	dt float64,
	transient, record int,
) ([]BifurcationPoint, error) {
	if rhoSteps <= 1 {
		rhoSteps = 2 // Prevent division by zero
	}
	rhoStep := (rhoMax - rhoMin) / float64(rhoSteps-1)

	results := make([]BifurcationPoint, 0, rhoSteps)
	for i := 0; i < rhoSteps; i++ {
		p := base
		p.Rho = rhoMin + float64(i)*rhoStep

		sim, err := dynamo.NewWithParams(p, []dynamo.Vec3{x0}, 1, dt)
		if err != nil {
			return nil, err
		}

		x := x0
		for n := 0; n < transient; n++ {
			x = sim.Step(x)
		}

		values := make([]float64, 0, 64)
		seen := make(map[int]bool)
		prev, prev2 := x.Z, x.Z
		for n := 0; n < record; n++ {
			x = sim.Step(x)
			if !x.IsFinite() {
				break
			}
			if prev > prev2 && prev >= x.Z {
				key := int(prev * 1000)
				if !seen[key] {
					seen[key] = true
					values = append(values, prev)
				}
			}
			prev2, prev = prev, x.Z
		}

		results = append(results, BifurcationPoint{Param: p.Rho, Values: values})
	}
	return results, nil
}
