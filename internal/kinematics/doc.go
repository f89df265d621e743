// Package kinematics provides the chain model for serial manipulators in
// product-of-exponentials form, together with forward kinematics, the
// geometric Jacobian, and structural classification of chain geometry.
//
// A chain is described by n joints (unit axis + type) and n+1 fixed
// translation offsets: base to joint 1, between consecutive joints, and
// joint n to the tool point. For an all-revolute chain the tool orientation
// is the product of the joint rotations; fixed tool rotations are folded
// into the target by the caller.
//
//   - [Chain]: immutable chain handle, classified once at construction
//   - [Pose]: position + unit-quaternion orientation
//   - [Pattern]: cached structural class consumed by the closed-form solver
//
// # Thread Safety
//
// Chains are immutable after NewChain returns. All methods are safe for
// unsynchronized concurrent use.
package kinematics
