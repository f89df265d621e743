// Package subproblem solves the canonical geometric subproblems that
// closed-form inverse kinematics decomposes into: rotations of points about
// fixed axes constrained to planes, spheres, cones, and to each other.
//
// The solvers are free functions over plain vectors and scalars; the
// package knows nothing about joints or chains. Every solver returns the
// full ordered root set of its defining equation, each root paired with the
// residual of that equation. A root whose residual exceeds the exactness
// threshold is marked Approx: it is the least-squares root of an infeasible
// instance, reported instead of being dropped because the decomposition
// layer uses such roots as refinement seeds. Geometrically infeasible
// inputs therefore yield either an empty slice or Approx-only entries,
// never a fabricated exact root.
//
// Degenerate inputs (axis-parallel vectors, zero projections) are detected
// and handled by limiting formulas; no solver divides by a near-zero
// quantity, returns NaN, or panics.
package subproblem
