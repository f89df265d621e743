package kinematics

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// Pattern is the structural class of a chain's axis geometry. It decides
// which closed-form decomposition applies; Unclassified chains are solved
// by numerical refinement only. Classification happens once, in NewChain.
type Pattern int

const (
	// Unclassified matches no known closed-form decomposition.
	Unclassified Pattern = iota
	// SphericalTwoParallel: joints 4,5,6 share a point and axes 2,3 are
	// parallel (e.g. ABB IRB 6640).
	SphericalTwoParallel
	// SphericalTwoIntersecting: joints 4,5,6 share a point and axes 2,3
	// share a point.
	SphericalTwoIntersecting
	// Spherical: joints 4,5,6 share a point, no further structure.
	Spherical
	// ThreeParallelTwoIntersecting: axes 2,3,4 parallel and axes 5,6 share
	// a point.
	ThreeParallelTwoIntersecting
	// ThreeParallel: axes 2,3,4 parallel (e.g. UR5).
	ThreeParallel
)

func (p Pattern) String() string {
	switch p {
	case Unclassified:
		return "unclassified"
	case SphericalTwoParallel:
		return "spherical-two-parallel"
	case SphericalTwoIntersecting:
		return "spherical-two-intersecting"
	case Spherical:
		return "spherical"
	case ThreeParallelTwoIntersecting:
		return "three-parallel-two-intersecting"
	case ThreeParallel:
		return "three-parallel"
	default:
		return fmt.Sprintf("Pattern(%d)", int(p))
	}
}

// ClosedForm reports whether the pattern has a closed-form decomposition.
func (p Pattern) ClosedForm() bool { return p != Unclassified }

const (
	parallelEps = 1e-8
	// Offsets are judged zero on an absolute scale; chain descriptions are
	// expected in meters or comparable units.
	offsetEps = 1e-9
)

// classify recognizes the closed-form patterns for all-revolute 6-joint
// chains. Intersecting-axis structure is read from the canonical anchor
// form: the shared point must be the frame origin, i.e. the offset between
// the joints is the zero vector (ReanchorOffset converts descriptions
// where the offset lies along the axes themselves).
func classify(joints []Joint, offsets []r3.Vec) Pattern {
	if len(joints) != 6 {
		return Unclassified
	}
	for _, j := range joints {
		if j.Type != Revolute {
			return Unclassified
		}
	}
	wrist := zeroOffset(offsets[4]) && zeroOffset(offsets[5])
	switch {
	case wrist && parallelAxes(joints[1].Axis, joints[2].Axis):
		return SphericalTwoParallel
	case wrist && zeroOffset(offsets[2]):
		return SphericalTwoIntersecting
	case wrist:
		return Spherical
	case parallelAxes(joints[1].Axis, joints[2].Axis) && parallelAxes(joints[2].Axis, joints[3].Axis):
		if zeroOffset(offsets[5]) {
			return ThreeParallelTwoIntersecting
		}
		return ThreeParallel
	default:
		return Unclassified
	}
}

func parallelAxes(a, b r3.Vec) bool {
	return r3.Norm(r3.Cross(a, b)) < parallelEps
}

func zeroOffset(p r3.Vec) bool {
	return r3.Norm(p) < offsetEps
}
