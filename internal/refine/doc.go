// Package refine is the numerical fallback and cleanup stage of the
// solver: damped least-squares iteration driven by the geometric Jacobian.
//
// Polish pulls a single starting joint vector onto the target pose and is
// used both to finish approximate closed-form branches and as the inner
// loop of the seed search. Search fans a batch of random seeds out over a
// worker pool and keeps the distinct converged results; it is the only
// solve path for chains without a closed-form pattern, so it makes no
// completeness claim, it reports what the seeds found.
//
// # Thread Safety
//
// Polish and Search are safe for concurrent use. The *rand.Rand passed to
// Search is used only on the calling goroutine.
package refine
