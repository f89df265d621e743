package solver

import "errors"

var (
	// ErrNilChain indicates Solve was called without a chain.
	ErrNilChain = errors.New("solver: nil chain")

	// ErrBadTolerance indicates a non-positive or non-finite tolerance.
	ErrBadTolerance = errors.New("solver: tolerances must be positive and finite")

	// ErrBadSeedCount indicates MaxSeeds < 1.
	ErrBadSeedCount = errors.New("solver: seed count must be at least 1")

	// ErrBadIterations indicates MaxIterations < 1.
	ErrBadIterations = errors.New("solver: iteration cap must be at least 1")

	// ErrTargetNotFinite indicates a NaN or Inf in the target pose.
	ErrTargetNotFinite = errors.New("solver: target pose contains NaN or Inf")

	// ErrLimitLength indicates joint limit slices of the wrong length.
	ErrLimitLength = errors.New("solver: limit slices must match joint count")
)
