// Package dynamo provides the trajectory simulator behind the attractor views.
//
// The package owns everything that evolves in time:
//
//   - [Vec3]: immutable 3D position value
//   - [Params]: Lorenz coefficients, selected by name from [ParameterSets]
//   - [Trajectory]: fixed-capacity FIFO of recent positions for one particle
//   - [Simulator]: advances every trajectory by one explicit Euler step
//   - [Ticker]: rate-limited driver for frame callbacks
//
// # Example
//
//	sim, err := dynamo.New("Lorenz", []dynamo.Vec3{{X: 0.01}}, 30000, 0.01)
//	if err != nil {
//	    return err
//	}
//	tick := dynamo.NewTicker(sim, time.Millisecond, 1)
//	if tick.Tick(time.Now()) {
//	    draw(sim.Buffer(0), sim.Head(0))
//	}
//
// # Thread Safety
//
// Simulator instances are NOT thread-safe. They are meant to be driven from a
// single render loop; renderers read buffers between advances.
package dynamo
