// Package analysis turns recorded runs into numbers and plots.
//
//   - [DominantFrequency]: strongest oscillation in a sampled series
//   - [LyapunovExponent]: growth rate of a perturbation to a free spinner
//   - [NewPhasePortrait]: two series against each other
//   - [NewPoincareSection]: points where a trigger series crosses a level
//
// # Stability of free rotation
//
// Spin about the intermediate principal axis is unstable:
//
//	lambda, err := analysis.LyapunovExponent(cfg.Spinner, 0.001, 6, 1e-6)
//	if err == nil && lambda > 0.5 {
//	    // the box will flip
//	}
package analysis
