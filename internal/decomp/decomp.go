package decomp

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/ikgeo/internal/kinematics"
	"github.com/san-kum/ikgeo/internal/subproblem"
)

// Candidate is one joint-space branch produced by a closed-form
// decomposition. Residual is the accumulated subproblem residual along the
// branch; Approx marks branches built from at least one least-squares root.
type Candidate struct {
	Q        []float64
	Residual float64
	Approx   bool
}

// pruneTol abandons branches whose accumulated residual already rules them
// out as refinement seeds. Final acceptance happens in the solver via
// forward kinematics, so this only has to cut hopeless branches.
const pruneTol = 0.25

// Decompose enumerates the closed-form joint-space branches placing the
// chain at target. Returns nil when the chain's pattern has no closed
// form; the solver falls back to numerical search in that case.
func Decompose(c *kinematics.Chain, target kinematics.Pose) []Candidate {
	g := newGeom(c, target)
	var cands []Candidate
	switch c.Pattern() {
	case kinematics.SphericalTwoParallel:
		cands = g.sphericalTwoParallel()
	case kinematics.SphericalTwoIntersecting:
		cands = g.sphericalTwoIntersecting()
	case kinematics.Spherical:
		cands = g.spherical()
	case kinematics.ThreeParallelTwoIntersecting:
		cands = g.threeParallelTwoIntersecting()
	case kinematics.ThreeParallel:
		cands = g.threeParallel()
	default:
		return nil
	}
	return dedupe(cands)
}

// geom caches the quantities every pattern needs: the axes, the offsets,
// the target orientation, and the base-frame displacement from joint 1 to
// joint 6 with the base and tool offsets stripped.
type geom struct {
	h   [6]r3.Vec
	p   [7]r3.Vec
	p16 r3.Vec
	r06 kinematics.Rotation
}

func newGeom(c *kinematics.Chain, target kinematics.Pose) *geom {
	g := &geom{r06: target.R}
	for i := 0; i < 6; i++ {
		g.h[i] = c.Joint(i).Axis
	}
	for i := 0; i < 7; i++ {
		g.p[i] = c.Offset(i)
	}
	g.p16 = r3.Sub(r3.Sub(target.T, g.p[0]), target.R.Rotate(g.p[6]))
	return g
}

type wristSol struct {
	t4, t5, t6 float64
	residual   float64
	approx     bool
}

// wrist solves joints 4..6 of a spherical-wrist chain from the residual
// orientation r36 left after the first three joints.
func (g *geom) wrist(r36 kinematics.Rotation) []wristSol {
	h4, h5, h6 := g.h[3], g.h[4], g.h[5]
	fwd := r36.Rotate(h6)
	bwd := kinematics.Invert(r36).Rotate(h4)

	var out []wristSol
	for _, s5 := range subproblem.Four(h4, h6, h5, r3.Dot(h4, fwd)) {
		s4 := subproblem.One(subproblem.Rot(h5, s5.Theta, h6), fwd, h4)[0]
		s6 := subproblem.One(subproblem.Rot(h5, -s5.Theta, h4), bwd, r3.Scale(-1, h6))[0]
		res := s5.Residual + s4.Residual + s6.Residual
		if res > pruneTol {
			continue
		}
		out = append(out, wristSol{
			t4:       s4.Theta,
			t5:       s5.Theta,
			t6:       s6.Theta,
			residual: res,
			approx:   s5.Approx || s4.Approx || s6.Approx,
		})
	}
	return out
}

func rotSeq(axes []r3.Vec, angles []float64) kinematics.Rotation {
	r := kinematics.IdentityRotation()
	for i, a := range axes {
		r = kinematics.Compose(r, kinematics.AxisAngle(a, angles[i]))
	}
	return r
}

// perp returns a unit vector orthogonal to h.
func perp(h r3.Vec) r3.Vec {
	e := r3.Vec{X: 1}
	if math.Abs(h.X) > math.Abs(h.Y) {
		e = r3.Vec{Y: 1}
	}
	return r3.Unit(r3.Cross(h, e))
}

func dedupe(cs []Candidate) []Candidate {
	var out []Candidate
	for _, c := range cs {
		dup := false
		for _, q := range out {
			if sameAngles(c.Q, q.Q) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, c)
		}
	}
	return out
}

func sameAngles(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(subproblem.WrapAngle(a[i]-b[i])) > 1e-6 {
			return false
		}
	}
	return true
}
