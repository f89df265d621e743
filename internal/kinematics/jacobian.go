package kinematics

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Jacobian computes the 6×n geometric Jacobian at q in the base frame:
// rows 0..2 map joint rates to tool linear velocity, rows 3..5 to angular
// velocity. Used by the refinement solver.
func (c *Chain) Jacobian(q []float64) *mat.Dense {
	n := len(c.joints)
	axes := make([]r3.Vec, n)
	origins := make([]r3.Vec, n)

	r := IdentityRotation()
	t := r3.Vec{}
	for i, j := range c.joints {
		t = r3.Add(t, r.Rotate(c.offsets[i]))
		axes[i] = r.Rotate(j.Axis)
		origins[i] = t
		switch j.Type {
		case Prismatic:
			t = r3.Add(t, r3.Scale(q[i], axes[i]))
		default:
			r = Compose(r, AxisAngle(j.Axis, q[i]))
		}
	}
	tool := r3.Add(t, r.Rotate(c.offsets[n]))

	jac := mat.NewDense(6, n, nil)
	for i, j := range c.joints {
		var v, w r3.Vec
		switch j.Type {
		case Prismatic:
			v = axes[i]
		default:
			v = r3.Cross(axes[i], r3.Sub(tool, origins[i]))
			w = axes[i]
		}
		jac.Set(0, i, v.X)
		jac.Set(1, i, v.Y)
		jac.Set(2, i, v.Z)
		jac.Set(3, i, w.X)
		jac.Set(4, i, w.Y)
		jac.Set(5, i, w.Z)
	}
	return jac
}
