package config

import (
	"math"
	"sort"

	"github.com/san-kum/lorenztrail/internal/dynamo"
)

var Presets = map[string]*Config{
	"butterfly": preset("Lorenz", 0.01, DefaultMaxPoints, DefaultInitial),
	"twins": preset("Lorenz", 0.01, 5000,
		dynamo.Vec3{X: 0.01},
		dynamo.Vec3{X: 0.01, Y: 1e-5},
	),
	"swarm": preset("Lorenz", 0.005, 2000, ring(dynamo.Vec3{Z: 25}, 1.0, 8)...),
	"moon":  preset("Moon", 0.002, 10000, dynamo.Vec3{X: 1, Y: 1, Z: 1}),
	"calm":  preset("Stable", 0.01, 3000, dynamo.Vec3{X: 5, Y: 5, Z: 5}, dynamo.Vec3{X: -5, Y: -5, Z: 5}),
}

func preset(set string, dt float64, maxPoints int, initial ...dynamo.Vec3) *Config {
	cfg := DefaultConfig()
	cfg.ParameterSet = set
	cfg.Dt = dt
	cfg.MaxPoints = maxPoints
	cfg.InitialConditions = initial
	return cfg
}

// ring spaces n particles evenly on a circle in the z plane of center.
func ring(center dynamo.Vec3, radius float64, n int) []dynamo.Vec3 {
	pts := make([]dynamo.Vec3, n)
	for i := range pts {
		angle := float64(i) * 2 * math.Pi / float64(n)
		pts[i] = center.Add(dynamo.Vec3{X: radius * math.Cos(angle), Y: radius * math.Sin(angle)})
	}
	return pts
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	c.InitialConditions = append([]dynamo.Vec3(nil), cfg.InitialConditions...)
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
