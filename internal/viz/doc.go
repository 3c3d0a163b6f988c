// Package viz draws Lorenz trajectories in the terminal.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Model]: live view driving a [dynamo.Ticker] once per frame
//   - [NewInteractiveApp]: preset menu in front of the live view
//   - [Canvas]: Braille-based pixel canvas with per-cell pen colors
//   - [Camera]: perspective orbit camera used for the 3D projection
//   - Theme selection with 5 built-in color schemes
//
// # Key Bindings
//
//	Space  - Pause/Resume simulation
//	R      - Refill buffers with initial conditions
//	x/y/z  - Rotate camera (shift reverses)
//	+/-    - Zoom
//	A      - Toggle auto-rotate
//	T      - Cycle color themes
//	?      - Show help overlay
package viz
