package subproblem

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Solution is one root of a single-angle subproblem.
type Solution struct {
	Theta    float64
	Residual float64
	// Approx marks a least-squares root: the defining equation is not
	// satisfied within the exactness threshold.
	Approx bool
}

// Pair is one root of a two-angle subproblem.
type Pair struct {
	Theta1   float64
	Theta2   float64
	Residual float64
	Approx   bool
}

// Triple is one root of a three-angle subproblem.
type Triple struct {
	Theta1   float64
	Theta2   float64
	Theta3   float64
	Residual float64
	Approx   bool
}

const (
	// exactEps separates exact roots from least-squares roots, relative to
	// the instance scale.
	exactEps = 1e-8
	// degenEps detects vanishing projections (degenerate geometry).
	degenEps = 1e-12
)

// WrapAngle reduces a to (-π, π].
func WrapAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a > math.Pi {
		a -= 2 * math.Pi
	} else if a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// Rot rotates p by angle about axis k (k must be unit length).
func Rot(k r3.Vec, angle float64, p r3.Vec) r3.Vec {
	s, c := math.Sincos(angle)
	out := r3.Add(r3.Scale(c, p), r3.Scale(s, r3.Cross(k, p)))
	return r3.Add(out, r3.Scale(r3.Dot(k, p)*(1-c), k))
}

// One solves rot(k,θ)·p1 = p2 for the single θ. The circles traced by p1
// and containing p2 coincide only for feasible inputs; for infeasible ones
// the returned root minimizes the distance and is marked Approx. If p1 is
// parallel to k the equation is independent of θ and the limiting root
// θ = 0 is returned with the fixed residual.
func One(p1, p2, k r3.Vec) []Solution {
	scale := 1 + r3.Norm(p1) + r3.Norm(p2)
	u := r3.Sub(p1, r3.Scale(r3.Dot(k, p1), k))
	v := r3.Sub(p2, r3.Scale(r3.Dot(k, p2), k))
	if r3.Norm(u) < degenEps*scale || r3.Norm(v) < degenEps*scale {
		res := r3.Norm(r3.Sub(p1, p2))
		return []Solution{{Theta: 0, Residual: res, Approx: res > exactEps*scale}}
	}
	theta := math.Atan2(r3.Dot(k, r3.Cross(p1, p2)), r3.Dot(u, v))
	res := r3.Norm(r3.Sub(Rot(k, theta, p1), p2))
	return []Solution{{Theta: theta, Residual: res, Approx: res > exactEps*scale}}
}

// Two solves rot(k1,θ1)·p1 = rot(k2,θ2)·p2, the intersection of two
// circles on the sphere of radius ‖p1‖. Up to two (θ1,θ2) pairs. Built
// from two subproblem-four calls; candidate pairing is verified against
// the defining equation, never assumed from root ordering.
func Two(p1, p2, k1, k2 r3.Vec) []Pair {
	scale := 1 + r3.Norm(p1) + r3.Norm(p2)
	t1s := Four(k2, p1, k1, r3.Dot(k2, p2))
	t2s := Four(k1, p2, k2, r3.Dot(k1, p1))

	var out []Pair
	for _, a := range t1s {
		best := -1
		bestRes := math.Inf(1)
		for i, b := range t2s {
			res := r3.Norm(r3.Sub(Rot(k1, a.Theta, p1), Rot(k2, b.Theta, p2)))
			if res < bestRes {
				bestRes = res
				best = i
			}
		}
		if best < 0 {
			continue
		}
		out = append(out, Pair{
			Theta1:   a.Theta,
			Theta2:   t2s[best].Theta,
			Residual: bestRes,
			Approx:   bestRes > exactEps*scale,
		})
	}
	return dedupePairs(out)
}

// Three solves ‖rot(k,θ)·p1 − p2‖ = d, the intersection of a circle with
// a sphere centered at p2. Up to two roots; reduces to subproblem four.
func Three(p1, p2, k r3.Vec, d float64) []Solution {
	scale := 1 + r3.Norm(p1) + r3.Norm(p2) + math.Abs(d)
	rhs := (r3.Norm2(p1) + r3.Norm2(p2) - d*d) / 2
	sols := Four(p2, p1, k, rhs)
	for i := range sols {
		res := math.Abs(r3.Norm(r3.Sub(Rot(k, sols[i].Theta, p1), p2)) - d)
		sols[i].Residual = res
		sols[i].Approx = res > exactEps*scale
	}
	return sols
}

// Four solves h·rot(k,θ)·p = d, the intersection of the circle traced by p
// with the plane h·x = d. Up to two roots. A negative discriminant beyond
// tolerance yields the least-squares root only (Approx); within tolerance
// the circle is tangent to the plane and the single touching root is
// returned. If the projection of p onto the rotation plane vanishes, or h
// is normal to it, the constraint is independent of θ and the limiting
// root θ = 0 carries the fixed residual.
func Four(h, p, k r3.Vec, d float64) []Solution {
	as := r3.Dot(h, r3.Cross(k, p))
	ac := r3.Dot(h, p) - r3.Dot(h, k)*r3.Dot(k, p)
	b := d - r3.Dot(h, k)*r3.Dot(k, p)
	scale := 1 + r3.Norm(h)*r3.Norm(p) + math.Abs(d)

	rsq := as*as + ac*ac
	if rsq < degenEps*degenEps*scale*scale {
		res := math.Abs(b)
		return []Solution{{Theta: 0, Residual: res, Approx: res > exactEps*scale}}
	}

	r := math.Sqrt(rsq)
	phi := math.Atan2(as, ac)
	cv := b / r

	residAt := func(theta float64) float64 {
		s, c := math.Sincos(theta)
		return math.Abs(as*s + ac*c - b)
	}

	if cv > 1 || cv < -1 {
		// No exact intersection. The closest point of the circle is the
		// least-squares root.
		theta := phi
		if cv < 0 {
			theta = WrapAngle(phi + math.Pi)
		}
		res := residAt(theta)
		return []Solution{{Theta: theta, Residual: res, Approx: res > exactEps*scale}}
	}

	delta := math.Acos(cv)
	t1 := WrapAngle(phi + delta)
	t2 := WrapAngle(phi - delta)
	s1 := Solution{Theta: t1, Residual: residAt(t1)}
	s1.Approx = s1.Residual > exactEps*scale
	if math.Abs(WrapAngle(t1-t2)) < 1e-9 {
		// Tangent case: the two roots coincide.
		return []Solution{s1}
	}
	s2 := Solution{Theta: t2, Residual: residAt(t2)}
	s2.Approx = s2.Residual > exactEps*scale
	return []Solution{s1, s2}
}

func dedupePairs(ps []Pair) []Pair {
	var out []Pair
	for _, p := range ps {
		dup := false
		for _, q := range out {
			if math.Abs(WrapAngle(p.Theta1-q.Theta1)) < 1e-9 &&
				math.Abs(WrapAngle(p.Theta2-q.Theta2)) < 1e-9 {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, p)
		}
	}
	return out
}
