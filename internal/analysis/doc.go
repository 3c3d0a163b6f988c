// Package analysis characterises saved or live trajectory buffers.
//
//   - [Bounds]: bounding box of a buffer, counting non-finite points
//   - [Separation]: pointwise distance between two buffers
//   - [LyapunovExponent]: largest exponent via renormalised twin particles
//   - [DominantFrequency]: strongest oscillation of one coordinate
//   - [BifurcationDiagram]: z maxima as rho sweeps through the regimes
//
// # Chaos Detection
//
// A positive largest Lyapunov exponent indicates chaotic dynamics:
//
//	lambda := analysis.LyapunovExponent(sim, x0, 1000, 20000, 1e-8)
//	if lambda > 0 {
//	    // trajectories started close together will separate
//	}
package analysis
