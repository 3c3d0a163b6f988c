package dynamo

import "math"

// Simulator advances a set of trajectories under one parameter set.
type Simulator struct {
	name         string
	params       Params
	dt           float64
	maxPoints    int
	trajectories []*Trajectory
	steps        int
}

// New builds a simulator from a registered parameter set name.
func New(parameterSet string, initial []Vec3, maxPoints int, dt float64) (*Simulator, error) {
	p, err := LookupParams(parameterSet)
	if err != nil {
		return nil, err
	}
	s, err := NewWithParams(p, initial, maxPoints, dt)
	if err != nil {
		return nil, err
	}
	s.name = parameterSet
	return s, nil
}

// NewWithParams builds a simulator from explicit coefficients.
func NewWithParams(p Params, initial []Vec3, maxPoints int, dt float64) (*Simulator, error) {
	if err := validate(p, initial, maxPoints, dt); err != nil {
		return nil, err
	}

	s := &Simulator{
		name:         "custom",
		params:       p,
		dt:           dt,
		maxPoints:    maxPoints,
		trajectories: make([]*Trajectory, len(initial)),
	}
	for i, x0 := range initial {
		s.trajectories[i] = newTrajectory(x0, maxPoints)
	}
	return s, nil
}

func validate(p Params, initial []Vec3, maxPoints int, dt float64) error {
	if math.IsNaN(dt) || dt <= 0 || math.IsInf(dt, 0) {
		return &ConfigError{Field: "dt", Value: dt, Wrapped: ErrInvalidConfiguration}
	}
	if maxPoints < 1 {
		return &ConfigError{Field: "max_points", Value: maxPoints, Wrapped: ErrInvalidConfiguration}
	}
	if len(initial) == 0 {
		return &ConfigError{Field: "initial_conditions", Value: 0, Wrapped: ErrInvalidConfiguration}
	}
	if !p.valid() {
		return &ConfigError{Field: "params", Value: p, Wrapped: ErrInvalidConfiguration}
	}
	return nil
}

// Field is the instantaneous derivative at pos.
func (s *Simulator) Field(pos Vec3) Vec3 {
	return s.params.Field(pos)
}

// Step is one forward Euler step from pos.
func (s *Simulator) Step(pos Vec3) Vec3 {
	return pos.Add(s.Field(pos).Scale(s.dt))
}

// Advance moves every trajectory forward by one step, in index order.
// Divergent coordinates are kept as-is.
func (s *Simulator) Advance() {
	for _, t := range s.trajectories {
		t.Push(s.Step(t.Head()))
	}
	s.steps++
}

// AdvanceN calls Advance n times.
func (s *Simulator) AdvanceN(n int) {
	for i := 0; i < n; i++ {
		s.Advance()
	}
}

// Reset returns every trajectory to its pre-filled initial buffer.
func (s *Simulator) Reset() {
	for _, t := range s.trajectories {
		t.Reset()
	}
	s.steps = 0
}

// Buffer returns trajectory i oldest to newest. The slice is a copy.
func (s *Simulator) Buffer(i int) []Vec3 {
	return s.trajectories[i].Points()
}

// Head returns the leading point of trajectory i.
func (s *Simulator) Head(i int) Vec3 {
	return s.trajectories[i].Head()
}

// Initial returns the initial condition of trajectory i.
func (s *Simulator) Initial(i int) Vec3 {
	return s.trajectories[i].Initial()
}

func (s *Simulator) NumTrajectories() int { return len(s.trajectories) }
func (s *Simulator) MaxPoints() int       { return s.maxPoints }
func (s *Simulator) Dt() float64          { return s.dt }
func (s *Simulator) Params() Params       { return s.params }
func (s *Simulator) ParameterSet() string { return s.name }
func (s *Simulator) Steps() int           { return s.steps }

// Time is the simulated time elapsed since construction or Reset.
func (s *Simulator) Time() float64 { return float64(s.steps) * s.dt }
