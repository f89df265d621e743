package subproblem

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Six solves the coupled pair of plane equations
//
//	h1·rot(k1,θ1)·p1 + h2·rot(k2,θ2)·p2 = d1
//	h3·rot(k3,θ1)·p3 + h4·rot(k4,θ2)·p4 = d2
//
// for (θ1,θ2); θ1 turns about k1 and k3, θ2 about k2 and k4. Up to four
// pairs. The system is linear in x = (sinθ1, cosθ1, sinθ2, cosθ2); the
// min-norm solution plus the two-dimensional null space reduce the unit
// constraints on (x1,x2) and (x3,x4) to two conics, intersected by a
// quartic resultant.
func Six(h1, h2, h3, h4, k1, k2, k3, k4, p1, p2, p3, p4 r3.Vec, d1, d2 float64) []Pair {
	s1, c1, o1 := planeCoeffs(h1, k1, p1)
	s2, c2, o2 := planeCoeffs(h2, k2, p2)
	s3, c3, o3 := planeCoeffs(h3, k3, p3)
	s4, c4, o4 := planeCoeffs(h4, k4, p4)

	a := mat.NewDense(2, 4, []float64{
		s1, c1, s2, c2,
		s3, c3, s4, c4,
	})
	b := [2]float64{d1 - o1 - o2, d2 - o3 - o4}

	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDFullU|mat.SVDFullV) {
		return nil
	}
	vals := svd.Values(nil)
	if vals[1] < 1e-12*(1+vals[0]) {
		return nil
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	var xm [4]float64
	for i := 0; i < 2; i++ {
		ub := (u.At(0, i)*b[0] + u.At(1, i)*b[1]) / vals[i]
		for j := 0; j < 4; j++ {
			xm[j] += v.At(j, i) * ub
		}
	}

	// Unit-circle constraints on each sin/cos block become conics in the
	// null-space coordinates (λ1, λ2).
	ca := conic(xm[0], xm[1], v.At(0, 2), v.At(0, 3), v.At(1, 2), v.At(1, 3))
	cb := conic(xm[2], xm[3], v.At(2, 2), v.At(2, 3), v.At(3, 2), v.At(3, 3))

	// Each conic is a quadratic in λ1 with λ2-dependent coefficients; the
	// resultant of the two quadratics is a quartic in λ2.
	ba := []float64{ca.b, ca.d}
	bb := []float64{cb.b, cb.d}
	cca := []float64{ca.c, ca.e, ca.f}
	ccb := []float64{cb.c, cb.e, cb.f}
	t1 := polySub(polyScale(ca.a, ccb), polyScale(cb.a, cca))
	t2 := polySub(polyScale(ca.a, bb), polyScale(cb.a, ba))
	t3 := polySub(polyMul(ba, ccb), polyMul(bb, cca))
	res := polySub(polyMul(t1, t1), polyMul(t2, t3))

	scale := 1 + math.Abs(d1) + math.Abs(d2) +
		r3.Norm(h1)*r3.Norm(p1) + r3.Norm(h2)*r3.Norm(p2) +
		r3.Norm(h3)*r3.Norm(p3) + r3.Norm(h4)*r3.Norm(p4)

	var out []Pair
	for _, l2 := range realRoots(res) {
		den := polyEval(t2, l2)
		var l1s []float64
		if math.Abs(den) > 1e-10 {
			l1s = []float64{-polyEval(t1, l2) / den}
		} else {
			// Shared leading coefficients: recover λ1 from the first conic
			// directly and keep the root that best satisfies the second.
			l1s = quadRoots(ca.a, ca.b*l2+ca.d, ca.c*l2*l2+ca.e*l2+ca.f)
		}
		for _, l1 := range l1s {
			var x [4]float64
			for j := 0; j < 4; j++ {
				x[j] = xm[j] + v.At(j, 2)*l1 + v.At(j, 3)*l2
			}
			t1a := math.Atan2(x[0], x[1])
			t2a := math.Atan2(x[2], x[3])
			r1 := math.Abs(r3.Dot(h1, Rot(k1, t1a, p1)) + r3.Dot(h2, Rot(k2, t2a, p2)) - d1)
			r2 := math.Abs(r3.Dot(h3, Rot(k3, t1a, p3)) + r3.Dot(h4, Rot(k4, t2a, p4)) - d2)
			resid := math.Max(r1, r2)
			out = append(out, Pair{
				Theta1:   t1a,
				Theta2:   t2a,
				Residual: resid,
				Approx:   resid > exactEps*scale,
			})
		}
	}
	return dedupePairs(out)
}

// planeCoeffs linearizes h·rot(k,θ)·p into s·sinθ + c·cosθ + o.
func planeCoeffs(h, k, p r3.Vec) (s, c, o float64) {
	s = r3.Dot(h, r3.Cross(k, p))
	o = r3.Dot(h, k) * r3.Dot(k, p)
	c = r3.Dot(h, p) - o
	return s, c, o
}

type conicCoeffs struct {
	a, b, c, d, e, f float64
}

// conic expands ‖(x1,x2) + N·λ‖² = 1 into
// a·λ1² + b·λ1λ2 + c·λ2² + d·λ1 + e·λ2 + f = 0,
// where N has rows (n11,n12) and (n21,n22).
func conic(x1, x2, n11, n12, n21, n22 float64) conicCoeffs {
	return conicCoeffs{
		a: n11*n11 + n21*n21,
		b: 2 * (n11*n12 + n21*n22),
		c: n12*n12 + n22*n22,
		d: 2 * (x1*n11 + x2*n21),
		e: 2 * (x1*n12 + x2*n22),
		f: x1*x1 + x2*x2 - 1,
	}
}

// quadRoots solves a·x² + b·x + c = 0, degrading to linear when a
// vanishes. Marginally negative discriminants round to the tangent root.
func quadRoots(a, b, c float64) []float64 {
	if math.Abs(a) < 1e-14 {
		if math.Abs(b) < 1e-14 {
			return nil
		}
		return []float64{-c / b}
	}
	disc := b*b - 4*a*c
	if disc < 0 {
		if disc > -1e-10*(b*b+math.Abs(4*a*c)+1) {
			return []float64{-b / (2 * a)}
		}
		return nil
	}
	s := math.Sqrt(disc)
	var q float64
	if b >= 0 {
		q = -(b + s) / 2
	} else {
		q = -(b - s) / 2
	}
	roots := []float64{q / a}
	if q != 0 {
		roots = append(roots, c/q)
	}
	return roots
}
