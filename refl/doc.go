// Package refl provides the numeric core for neutron reflectometry
// experimental design: simulating measurements of a sample model under a
// given measurement plan, and quantifying how much those measurements would
// constrain the model's free parameters.
//
// # Reading Guide
//
// Start with these three files to understand the engine:
//   - simulator.go: the forward simulator, turning a measurement plan into
//     synthetic noisy (Q, R, dR, counts) data with counting statistics
//   - fisher.go: the Fisher information engine, turning datasets and a
//     parameter list into an information matrix via finite differences
//   - beam.go: direct-beam flux spectra, built-in per-instrument or loaded
//     from a user file
//
// # Architecture
//
// Data flows one way: a measurement plan goes into a Simulator, which
// produces Datasets; Datasets plus a parameter list go into a Fisher engine,
// which produces an information matrix consumed by external optimizers.
// There is no shared mutable state between the two components.
//
// # Key Interfaces
//
// The extension points are deliberately narrow:
//   - Model: evaluate reflectivity at a slice of Q points
//   - Sample: enumerate models and varying parameters, and simulate itself
//     (the glue boundary to external sample-construction code)
//
// Randomness is always injected: every Simulator takes an explicit
// *rand.Rand, and PartitionedRNG derives independent reproducible streams
// from a single seed. There is no package-level RNG.
package refl
