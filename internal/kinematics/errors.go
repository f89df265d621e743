package kinematics

import "errors"

// Construction errors. These are the only hard failures in the solver: a
// chain that constructs successfully never fails structurally mid-solve.
var (
	// ErrNoJoints indicates an empty joint list.
	ErrNoJoints = errors.New("kinematics: chain has no joints")

	// ErrOffsetCount indicates len(offsets) != len(joints)+1.
	ErrOffsetCount = errors.New("kinematics: offset count must be joint count plus one")

	// ErrZeroAxis indicates a joint axis too short to normalize.
	ErrZeroAxis = errors.New("kinematics: joint axis has (near) zero length")

	// ErrNotFinite indicates a NaN or Inf in the chain description.
	ErrNotFinite = errors.New("kinematics: chain description contains NaN or Inf")

	// ErrDimension indicates a joint vector of the wrong length.
	ErrDimension = errors.New("kinematics: joint vector length does not match chain")

	// ErrJointIndex indicates a joint index outside the chain.
	ErrJointIndex = errors.New("kinematics: joint index out of range")

	// ErrNotRevolute indicates an operation that requires a revolute joint.
	ErrNotRevolute = errors.New("kinematics: joint is not revolute")

	// ErrOffsetSpan indicates an offset that cannot be moved onto the
	// neighboring joint axes because it has a component outside their span.
	ErrOffsetSpan = errors.New("kinematics: offset not in span of neighboring axes")
)
