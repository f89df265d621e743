package decomp

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/ikgeo/internal/kinematics"
	"github.com/san-kum/ikgeo/internal/subproblem"
)

// The three-parallel patterns factor the middle joints into one planar
// rotation angle phi = q2+q3+q4 about the shared axis. Joints 1 and 5 come
// out of the component equations along that axis, joint 6 and phi follow
// from the orientation, and the planar two-link geometry splits phi back
// into q2, q3, q4.

func (g *geom) threeParallel() []Candidate {
	h := g.h[1]
	h1n := r3.Scale(-1, g.h[0])
	d1 := r3.Dot(h, r3.Add(r3.Add(r3.Add(g.p[1], g.p[2]), g.p[3]), g.p[4]))
	r06h6 := g.r06.Rotate(g.h[5])

	var out []Candidate
	pairs := subproblem.Six(
		h, h, h, h,
		h1n, g.h[4], h1n, g.h[4],
		g.p16, r3.Scale(-1, g.p[5]), r06h6, r3.Scale(-1, g.h[5]),
		d1, 0,
	)
	for _, pr := range pairs {
		if pr.Residual > pruneTol {
			continue
		}
		out = append(out, g.finishParallel(pr.Theta1, pr.Theta2, pr.Residual, pr.Approx)...)
	}
	return out
}

func (g *geom) threeParallelTwoIntersecting() []Candidate {
	h := g.h[1]
	h1n := r3.Scale(-1, g.h[0])
	d1 := r3.Dot(h, r3.Add(r3.Add(r3.Add(g.p[1], g.p[2]), g.p[3]), g.p[4]))
	r06h6 := g.r06.Rotate(g.h[5])

	var out []Candidate
	for _, s1 := range subproblem.Four(h, g.p16, h1n, d1) {
		if s1.Residual > pruneTol {
			continue
		}
		w := subproblem.Rot(g.h[0], -s1.Theta, r06h6)
		for _, s5 := range subproblem.Four(h, g.h[5], g.h[4], r3.Dot(h, w)) {
			base := s1.Residual + s5.Residual
			if base > pruneTol {
				continue
			}
			out = append(out, g.finishParallel(s1.Theta, s5.Theta, base, s1.Approx || s5.Approx)...)
		}
	}
	return out
}

// finishParallel completes a (q1, q5) branch: q6 from the axis image, phi
// from the leftover planar rotation, then the two-link split of phi.
func (g *geom) finishParallel(t1, t5, base float64, approx bool) []Candidate {
	h := g.h[1]
	h5, h6 := g.h[4], g.h[5]

	s6 := subproblem.One(
		subproblem.Rot(h5, -t5, h),
		kinematics.Invert(g.r06).Rotate(subproblem.Rot(g.h[0], t1, h)),
		r3.Scale(-1, h6),
	)[0]
	t6 := s6.Theta

	// phi is read off by tracking a vector orthogonal to the shared axis
	// through R1^T R06 R6^T R5^T, which is exactly rot(h, phi).
	vp := perp(h)
	img := subproblem.Rot(h5, -t5, vp)
	img = subproblem.Rot(h6, -t6, img)
	img = g.r06.Rotate(img)
	img = subproblem.Rot(g.h[0], -t1, img)
	sphi := subproblem.One(vp, img, h)[0]
	phi := sphi.Theta

	inner := r3.Add(g.p[4], subproblem.Rot(h5, t5, g.p[5]))
	vplanar := r3.Sub(
		r3.Sub(subproblem.Rot(g.h[0], -t1, g.p16), g.p[1]),
		subproblem.Rot(h, phi, inner),
	)

	prefix := base + s6.Residual + sphi.Residual
	if prefix > pruneTol {
		return nil
	}
	prefixApprox := approx || s6.Approx || sphi.Approx

	var out []Candidate
	for _, s3 := range subproblem.Three(g.p[3], r3.Scale(-1, g.p[2]), h, r3.Norm(vplanar)) {
		s2 := subproblem.One(r3.Add(g.p[2], subproblem.Rot(h, s3.Theta, g.p[3])), vplanar, h)[0]
		res := prefix + s3.Residual + s2.Residual
		if res > pruneTol {
			continue
		}
		t4 := subproblem.WrapAngle(phi - s2.Theta - s3.Theta)
		out = append(out, Candidate{
			Q:        []float64{t1, s2.Theta, s3.Theta, t4, t5, t6},
			Residual: res,
			Approx:   prefixApprox || s3.Approx || s2.Approx,
		})
	}
	return out
}
