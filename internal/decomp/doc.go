// Package decomp turns a target pose into joint-space candidates for
// chains whose axis geometry matches a closed-form pattern.
//
// Each pattern maps the pose equations onto a fixed sequence of canonical
// subproblems. Every subproblem root spawns a branch; branches are walked
// depth first, accumulating the stage residuals, and a branch is abandoned
// once its accumulated residual shows it cannot lead to a usable
// candidate. Complete branches whose residual exceeds the exactness
// threshold are kept and flagged approximate: they are least-squares
// stand-ins near workspace boundaries and serve as refinement seeds.
//
// The candidates returned here are unverified. The solver layer runs
// forward kinematics on each and applies the user tolerances; nothing in
// this package decides final acceptance.
//
// # Thread Safety
//
// Decompose is a pure function of its arguments and is safe for concurrent
// use.
package decomp
