// Package prediction scores routes for congestion and ranks departure slots.
//
// The predictor is a fixed linear combination of an hour-of-day weight, a
// day-type weight and a per-route weight, perturbed by a small uniform jitter.
// All randomness flows through a Source so that results are reproducible
// under test. Predictors hold no mutable state besides their Source and are
// safe for concurrent use.
package prediction
