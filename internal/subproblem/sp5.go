package subproblem

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// coneSide captures one side of the subproblem-five equation as a function
// of H, the shared component along k2. The norm of the side is
// P(H) ± sqrt(R(H)) with P linear and R quadratic in H. A side whose
// rotated vector projects to zero on the k2 plane pins H to a constant
// instead.
type coneSide struct {
	p, r   []float64
	fixed  bool
	fixedH float64
}

func conePoly(p0, k, p, k2 r3.Vec) coneSide {
	c := r3.Scale(r3.Dot(k, p), k)
	u := r3.Sub(p, c)
	v := r3.Cross(k, p)
	a := r3.Dot(k2, u)
	b := r3.Dot(k2, v)
	denom := a*a + b*b
	wOff := r3.Dot(k2, p0) + r3.Dot(k2, c)

	scale := 1 + r3.Norm(p0) + r3.Norm(p)
	if denom < degenEps*degenEps*scale*scale {
		return coneSide{fixed: true, fixedH: wOff}
	}

	alpha := r3.Dot(p0, u)
	beta := r3.Dot(p0, v)
	lambda := (alpha*a + beta*b) / denom
	mu := (beta*a - alpha*b) / denom

	base := r3.Norm2(p0) + r3.Norm2(p) + 2*r3.Dot(p0, c)
	// P(H) = base + 2λ(H − wOff)
	pp := []float64{2 * lambda, base - 2*lambda*wOff}
	// R(H) = 4μ²(denom − (H − wOff)²)
	rr := []float64{-4 * mu * mu, 8 * mu * mu * wOff, 4 * mu * mu * (denom - wOff*wOff)}
	return coneSide{p: pp, r: rr}
}

// Five solves p0 + rot(k1,θ1)·p1 = rot(k2,θ2)·(p2 + rot(k3,θ3)·p3): the
// three-angle position subproblem of a chain with a spherical wrist and no
// further structure. Up to four (θ1,θ2,θ3) triples. The shared k2-component
// H of both sides satisfies a quartic resultant; each real H yields θ1 and
// θ3 candidates through subproblem four, paired by verifying the defining
// equation, and θ2 closes the triple through subproblem one.
func Five(p0, p1, p2, p3, k1, k2, k3 r3.Vec) []Triple {
	scale := 1 + r3.Norm(p0) + r3.Norm(p1) + r3.Norm(p2) + r3.Norm(p3)

	left := conePoly(p0, k1, p1, k2)
	right := conePoly(p2, k3, p3, k2)

	var hs []float64
	switch {
	case left.fixed && right.fixed:
		if math.Abs(left.fixedH-right.fixedH) > exactEps*scale {
			return nil
		}
		hs = []float64{left.fixedH}
	case left.fixed:
		hs = []float64{left.fixedH}
	case right.fixed:
		hs = []float64{right.fixedH}
	default:
		// P1 ± √R1 = P3 ± √R3. Squaring twice eliminates both radicals:
		// (R3 − R1 − (P1−P3)²)² = 4(P1−P3)²R1.
		p13 := polySub(left.p, right.p)
		p13sq := polyMul(p13, p13)
		rhs := polySub(polySub(right.r, left.r), p13sq)
		eqn := polySub(polyMul(rhs, rhs), polyScale(4, polyMul(p13sq, left.r)))
		hs = realRoots(eqn)
	}

	var exact []Triple
	best := Triple{Residual: math.Inf(1)}
	for _, h := range hs {
		t1s := Four(k2, p1, k1, h-r3.Dot(k2, p0))
		t3s := Four(k2, p3, k3, h-r3.Dot(k2, p2))
		for _, a := range t1s {
			v1 := r3.Add(p0, Rot(k1, a.Theta, p1))
			for _, b := range t3s {
				v3 := r3.Add(p2, Rot(k3, b.Theta, p3))
				s2 := One(v3, v1, k2)[0]
				tr := Triple{
					Theta1:   a.Theta,
					Theta2:   s2.Theta,
					Theta3:   b.Theta,
					Residual: s2.Residual,
					Approx:   s2.Residual > exactEps*scale,
				}
				if !tr.Approx {
					exact = append(exact, tr)
				} else if tr.Residual < best.Residual {
					best = tr
				}
			}
		}
	}
	if len(exact) == 0 {
		if math.IsInf(best.Residual, 1) {
			return nil
		}
		return []Triple{best}
	}
	return dedupeTriples(exact)
}

func dedupeTriples(ts []Triple) []Triple {
	var out []Triple
	for _, t := range ts {
		dup := false
		for _, q := range out {
			if math.Abs(WrapAngle(t.Theta1-q.Theta1)) < 1e-6 &&
				math.Abs(WrapAngle(t.Theta2-q.Theta2)) < 1e-6 &&
				math.Abs(WrapAngle(t.Theta3-q.Theta3)) < 1e-6 {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, t)
		}
	}
	return out
}
