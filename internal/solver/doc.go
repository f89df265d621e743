// Package solver ties the pipeline together: classify the chain, run the
// closed-form decomposition when the pattern allows it, verify every
// candidate with forward kinematics against the caller's tolerances, and
// fall back to (or finish with) numerical refinement.
//
// Solutions come back sorted, exact ones first, and carry their measured
// pose errors plus a provenance tag so callers can tell a closed-form
// branch from a refined one. Approximate entries are least-squares
// branches near workspace boundaries; they are reported, flagged, and
// never silently dropped.
//
// # Thread Safety
//
// Solve is safe for concurrent use as long as each call gets its own
// Options.RNG; *rand.Rand is not goroutine safe.
package solver
