package kinematics

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// JointType distinguishes rotation about the axis from translation along it.
type JointType int

const (
	Revolute JointType = iota
	Prismatic
)

func (t JointType) String() string {
	switch t {
	case Revolute:
		return "revolute"
	case Prismatic:
		return "prismatic"
	default:
		return fmt.Sprintf("JointType(%d)", int(t))
	}
}

// Joint is a single chain joint: a unit axis and a motion type.
type Joint struct {
	Axis r3.Vec
	Type JointType
}

// Chain is an immutable serial kinematic chain in product-of-exponentials
// form: n joints and n+1 translation offsets. offsets[i] precedes joint i;
// offsets[n] is the final joint-to-tool translation. The structural pattern
// is classified once here and cached for the lifetime of the chain.
type Chain struct {
	joints  []Joint
	offsets []r3.Vec
	pattern Pattern
}

const axisEps = 1e-10

// NewChain validates and classifies a chain description. Axes are
// normalized; a zero-length axis, a bad offset count, or any non-finite
// component is a construction error. The inputs are copied; the caller may
// reuse its slices.
func NewChain(joints []Joint, offsets []r3.Vec) (*Chain, error) {
	if len(joints) == 0 {
		return nil, ErrNoJoints
	}
	if len(offsets) != len(joints)+1 {
		return nil, fmt.Errorf("%w: %d joints, %d offsets", ErrOffsetCount, len(joints), len(offsets))
	}
	c := &Chain{
		joints:  make([]Joint, len(joints)),
		offsets: make([]r3.Vec, len(offsets)),
	}
	for i, j := range joints {
		if !finiteVec(j.Axis) {
			return nil, fmt.Errorf("%w: joint %d axis", ErrNotFinite, i)
		}
		n := r3.Norm(j.Axis)
		if n < axisEps {
			return nil, fmt.Errorf("%w: joint %d", ErrZeroAxis, i)
		}
		c.joints[i] = Joint{Axis: r3.Scale(1/n, j.Axis), Type: j.Type}
	}
	for i, p := range offsets {
		if !finiteVec(p) {
			return nil, fmt.Errorf("%w: offset %d", ErrNotFinite, i)
		}
		c.offsets[i] = p
	}
	c.pattern = classify(c.joints, c.offsets)
	return c, nil
}

// NumJoints returns the number of joints.
func (c *Chain) NumJoints() int { return len(c.joints) }

// Joint returns joint i.
func (c *Chain) Joint(i int) Joint { return c.joints[i] }

// Offset returns translation offset i, 0 <= i <= NumJoints().
func (c *Chain) Offset(i int) r3.Vec { return c.offsets[i] }

// Pattern returns the cached structural classification.
func (c *Chain) Pattern() Pattern { return c.pattern }

// Reach returns an upper bound on the distance from base to tool: the sum
// of all offset lengths. Prismatic travel is not included.
func (c *Chain) Reach() float64 {
	sum := 0.0
	for _, p := range c.offsets {
		sum += r3.Norm(p)
	}
	return sum
}

// Forward computes the tool pose for the joint vector q. The caller must
// supply len(q) == NumJoints(); Solve and the config layer validate this
// at the boundary.
func (c *Chain) Forward(q []float64) Pose {
	r := IdentityRotation()
	t := r3.Vec{}
	for i, j := range c.joints {
		t = r3.Add(t, r.Rotate(c.offsets[i]))
		switch j.Type {
		case Prismatic:
			t = r3.Add(t, r.Rotate(r3.Scale(q[i], j.Axis)))
		default:
			r = Compose(r, AxisAngle(j.Axis, q[i]))
		}
	}
	t = r3.Add(t, r.Rotate(c.offsets[len(c.joints)]))
	return Pose{R: r, T: t}
}

// FixJoint folds revolute joint i at a constant angle into the neighboring
// offsets, returning the reduced chain and the residual tool rotation S:
// for any reduced joint vector q', Forward on the reduced chain relates to
// the full chain by R_full = R_reduced∘S with identical positions. Used for
// solving 7-DOF arms with one joint locked.
func (c *Chain) FixJoint(i int, angle float64) (*Chain, Rotation, error) {
	if i < 0 || i >= len(c.joints) {
		return nil, IdentityRotation(), fmt.Errorf("%w: %d", ErrJointIndex, i)
	}
	if c.joints[i].Type != Revolute {
		return nil, IdentityRotation(), fmt.Errorf("%w: joint %d", ErrNotRevolute, i)
	}
	rn := AxisAngle(c.joints[i].Axis, angle)

	joints := make([]Joint, 0, len(c.joints)-1)
	joints = append(joints, c.joints[:i]...)
	for _, j := range c.joints[i+1:] {
		joints = append(joints, Joint{Axis: rn.Rotate(j.Axis), Type: j.Type})
	}

	offsets := make([]r3.Vec, 0, len(c.offsets)-1)
	offsets = append(offsets, c.offsets[:i]...)
	offsets = append(offsets, r3.Add(c.offsets[i], rn.Rotate(c.offsets[i+1])))
	for _, p := range c.offsets[i+2:] {
		offsets = append(offsets, rn.Rotate(p))
	}

	reduced, err := NewChain(joints, offsets)
	if err != nil {
		return nil, IdentityRotation(), err
	}
	return reduced, rn, nil
}

// ReanchorOffset rewrites the offset between revolute joints i and i+1 as
// components along their own axes, producing an equivalent chain whose
// inter-joint offset is zero. This is the canonical form the structural
// classifier expects for intersecting axes. Fails with ErrOffsetSpan when
// the offset has a component outside span{axis_i, axis_{i+1}}.
func (c *Chain) ReanchorOffset(i int) (*Chain, error) {
	if i < 0 || i+1 >= len(c.joints) {
		return nil, fmt.Errorf("%w: %d", ErrJointIndex, i)
	}
	if c.joints[i].Type != Revolute || c.joints[i+1].Type != Revolute {
		return nil, fmt.Errorf("%w: joints %d,%d", ErrNotRevolute, i, i+1)
	}
	hi, hj := c.joints[i].Axis, c.joints[i+1].Axis
	p := c.offsets[i+1]

	a := mat.NewDense(3, 2, []float64{
		hi.X, hj.X,
		hi.Y, hj.Y,
		hi.Z, hj.Z,
	})
	b := mat.NewDense(3, 1, []float64{p.X, p.Y, p.Z})
	var qr mat.QR
	qr.Factorize(a)
	var x mat.Dense
	if err := qr.SolveTo(&x, false, b); err != nil {
		return nil, fmt.Errorf("kinematics: reanchor offset %d: %w", i, err)
	}
	alpha, beta := x.At(0, 0), x.At(1, 0)

	resid := r3.Sub(r3.Sub(p, r3.Scale(alpha, hi)), r3.Scale(beta, hj))
	if r3.Norm(resid) > 1e-8*(1+r3.Norm(p)) {
		return nil, fmt.Errorf("%w: offset %d", ErrOffsetSpan, i)
	}

	offsets := make([]r3.Vec, len(c.offsets))
	copy(offsets, c.offsets)
	offsets[i] = r3.Add(offsets[i], r3.Scale(alpha, hi))
	offsets[i+1] = r3.Vec{}
	offsets[i+2] = r3.Add(offsets[i+2], r3.Scale(beta, hj))
	return NewChain(c.joints, offsets)
}
