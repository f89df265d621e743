package subproblem

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func unit(x, y, z float64) r3.Vec {
	return r3.Unit(r3.Vec{X: x, Y: y, Z: z})
}

func vec(x, y, z float64) r3.Vec {
	return r3.Vec{X: x, Y: y, Z: z}
}

func angleClose(a, b, tol float64) bool {
	return math.Abs(WrapAngle(a-b)) < tol
}

func TestWrapAngle(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{0, 0},
		{math.Pi, math.Pi},
		{-math.Pi, math.Pi},
		{3 * math.Pi, math.Pi},
		{2 * math.Pi, 0},
		{-0.25, -0.25},
		{7, 7 - 2*math.Pi},
	}
	for _, c := range cases {
		if got := WrapAngle(c.in); math.Abs(got-c.want) > 1e-12 {
			t.Errorf("WrapAngle(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestRot(t *testing.T) {
	got := Rot(vec(0, 0, 1), math.Pi/2, vec(1, 0, 0))
	if r3.Norm(r3.Sub(got, vec(0, 1, 0))) > 1e-12 {
		t.Errorf("Rot(ez, π/2, ex) = %v, want ey", got)
	}
	// Rotation preserves length.
	p := vec(0.3, -1.2, 0.8)
	if d := math.Abs(r3.Norm(Rot(unit(1, 2, -1), 1.234, p)) - r3.Norm(p)); d > 1e-12 {
		t.Errorf("rotation changed length by %v", d)
	}
}

func TestOneRecoversAngle(t *testing.T) {
	k := unit(1, 1, 0.5)
	p1 := vec(0.7, -0.3, 0.9)
	for _, theta := range []float64{-2.9, -1.0, 0, 0.4, 2.2} {
		p2 := Rot(k, theta, p1)
		sols := One(p1, p2, k)
		if len(sols) != 1 {
			t.Fatalf("One: got %d solutions, want 1", len(sols))
		}
		s := sols[0]
		if s.Approx {
			t.Errorf("theta=%v: exact instance marked approx (residual %v)", theta, s.Residual)
		}
		if !angleClose(s.Theta, theta, 1e-9) {
			t.Errorf("theta=%v: got %v", theta, s.Theta)
		}
	}
}

func TestOneInfeasible(t *testing.T) {
	k := unit(0, 0, 1)
	sols := One(vec(1, 0, 0), vec(2, 0, 0.5), k)
	if len(sols) != 1 {
		t.Fatalf("got %d solutions, want 1", len(sols))
	}
	if !sols[0].Approx {
		t.Error("mismatched lengths must yield an approx root")
	}
	if math.IsNaN(sols[0].Theta) || math.IsNaN(sols[0].Residual) {
		t.Error("NaN in infeasible result")
	}
}

func TestOneDegenerateAxisParallel(t *testing.T) {
	k := unit(0, 0, 1)
	p := vec(0, 0, 2)
	sols := One(p, p, k)
	if len(sols) != 1 || sols[0].Approx || sols[0].Residual > 1e-12 {
		t.Errorf("axis-parallel identity case: %+v", sols)
	}
}

func TestTwoRecoversAngles(t *testing.T) {
	k1 := unit(0, 0, 1)
	k2 := unit(1, 0.2, 0.1)
	p1 := vec(0.4, 0.6, -0.2)
	theta1, theta2 := 0.8, -1.3
	p2 := Rot(k2, -theta2, Rot(k1, theta1, p1))

	pairs := Two(p1, p2, k1, k2)
	if len(pairs) == 0 {
		t.Fatal("no solutions")
	}
	found := false
	for _, pr := range pairs {
		lhs := Rot(k1, pr.Theta1, p1)
		rhs := Rot(k2, pr.Theta2, p2)
		if !pr.Approx && r3.Norm(r3.Sub(lhs, rhs)) > 1e-8 {
			t.Errorf("exact pair violates equation: %+v", pr)
		}
		if angleClose(pr.Theta1, theta1, 1e-8) && angleClose(pr.Theta2, theta2, 1e-8) {
			found = true
		}
	}
	if !found {
		t.Errorf("constructed angles (%v, %v) not among %+v", theta1, theta2, pairs)
	}
}

func TestThreeRecoversAngle(t *testing.T) {
	k := unit(0.2, 1, 0.1)
	p1 := vec(1.1, 0, 0.3)
	p2 := vec(0.2, 0.5, -0.4)
	theta := 1.7
	d := r3.Norm(r3.Sub(Rot(k, theta, p1), p2))

	sols := Three(p1, p2, k, d)
	if len(sols) == 0 {
		t.Fatal("no solutions")
	}
	found := false
	for _, s := range sols {
		if !s.Approx && math.Abs(r3.Norm(r3.Sub(Rot(k, s.Theta, p1), p2))-d) > 1e-8 {
			t.Errorf("exact root violates equation: %+v", s)
		}
		if angleClose(s.Theta, theta, 1e-8) {
			found = true
		}
	}
	if !found {
		t.Errorf("constructed angle %v not among %+v", theta, sols)
	}
}

func TestThreeUnreachableSphere(t *testing.T) {
	k := unit(0, 0, 1)
	sols := Three(vec(1, 0, 0), vec(0.1, 0.1, 0), k, 25)
	for _, s := range sols {
		if !s.Approx {
			t.Errorf("unreachable distance produced exact root: %+v", s)
		}
		if math.IsNaN(s.Theta) {
			t.Error("NaN root")
		}
	}
}

func TestFourRecoversAngle(t *testing.T) {
	h := unit(0.3, -0.5, 1)
	k := unit(1, 0.1, 0.2)
	p := vec(-0.4, 0.9, 0.6)
	for _, theta := range []float64{-2.0, -0.3, 1.1, 2.8} {
		d := r3.Dot(h, Rot(k, theta, p))
		sols := Four(h, p, k, d)
		found := false
		for _, s := range sols {
			if s.Approx {
				continue
			}
			if got := r3.Dot(h, Rot(k, s.Theta, p)); math.Abs(got-d) > 1e-8 {
				t.Errorf("exact root violates equation: theta=%v", s.Theta)
			}
			if angleClose(s.Theta, theta, 1e-8) {
				found = true
			}
		}
		if !found {
			t.Errorf("theta=%v not recovered from %+v", theta, sols)
		}
	}
}

func TestFourInfeasiblePlane(t *testing.T) {
	h := unit(0, 0, 1)
	k := unit(0, 0, 1)
	p := vec(1, 0, 0.2)
	// The circle lies in the plane z = 0.2; d = 5 is unreachable.
	sols := Four(h, p, k, 5)
	if len(sols) != 1 {
		t.Fatalf("got %d roots, want 1 least-squares root", len(sols))
	}
	if !sols[0].Approx {
		t.Error("unreachable plane must mark the root approx")
	}
}

func TestFourDegenerateConstant(t *testing.T) {
	// p parallel to k: the product is independent of theta.
	h := unit(0, 0, 1)
	k := unit(0, 0, 1)
	p := vec(0, 0, 1.5)
	sols := Four(h, p, k, 1.5)
	if len(sols) != 1 || sols[0].Approx {
		t.Errorf("degenerate feasible case: %+v", sols)
	}
	sols = Four(h, p, k, 2.0)
	if len(sols) != 1 || !sols[0].Approx {
		t.Errorf("degenerate infeasible case: %+v", sols)
	}
}

func TestFiveRecoversTriple(t *testing.T) {
	k1 := unit(0, 0, 1)
	k2 := unit(0, 1, 0.2)
	k3 := unit(1, 0.1, 0)
	p1 := vec(0.5, 0.2, 0.4)
	p2 := vec(0.3, -0.4, 0.6)
	p3 := vec(0.7, 0.1, -0.2)
	theta1, theta2, theta3 := 0.6, -1.1, 1.9
	rhs := Rot(k2, theta2, r3.Add(p2, Rot(k3, theta3, p3)))
	p0 := r3.Sub(rhs, Rot(k1, theta1, p1))

	triples := Five(p0, p1, p2, p3, k1, k2, k3)
	if len(triples) == 0 {
		t.Fatal("no solutions")
	}
	found := false
	for _, tr := range triples {
		lhs := r3.Add(p0, Rot(k1, tr.Theta1, p1))
		rhs := Rot(k2, tr.Theta2, r3.Add(p2, Rot(k3, tr.Theta3, p3)))
		if !tr.Approx && r3.Norm(r3.Sub(lhs, rhs)) > 1e-6 {
			t.Errorf("exact triple violates equation: %+v", tr)
		}
		if angleClose(tr.Theta1, theta1, 1e-6) &&
			angleClose(tr.Theta2, theta2, 1e-6) &&
			angleClose(tr.Theta3, theta3, 1e-6) {
			found = true
		}
	}
	if !found {
		t.Errorf("constructed triple not among %+v", triples)
	}
}

func TestSixRecoversPair(t *testing.T) {
	h1 := unit(0, 0, 1)
	h2 := unit(0, 1, 0)
	h3 := unit(1, 0, 0.3)
	h4 := unit(0.2, 0.5, 1)
	k1 := unit(0, 0, 1)
	k2 := unit(0, 1, 0.1)
	k3 := unit(0, 0, 1)
	k4 := unit(0, 1, 0.1)
	p1 := vec(0.6, 0.1, 0.2)
	p2 := vec(-0.3, 0.8, 0.1)
	p3 := vec(0.2, -0.5, 0.7)
	p4 := vec(0.9, 0.2, -0.1)
	theta1, theta2 := 1.2, -0.7
	d1 := r3.Dot(h1, Rot(k1, theta1, p1)) + r3.Dot(h2, Rot(k2, theta2, p2))
	d2 := r3.Dot(h3, Rot(k3, theta1, p3)) + r3.Dot(h4, Rot(k4, theta2, p4))

	pairs := Six(h1, h2, h3, h4, k1, k2, k3, k4, p1, p2, p3, p4, d1, d2)
	if len(pairs) == 0 {
		t.Fatal("no solutions")
	}
	found := false
	for _, pr := range pairs {
		if !pr.Approx && pr.Residual > 1e-6 {
			t.Errorf("exact pair with residual %v", pr.Residual)
		}
		if angleClose(pr.Theta1, theta1, 1e-6) && angleClose(pr.Theta2, theta2, 1e-6) {
			found = true
		}
	}
	if !found {
		t.Errorf("constructed pair (%v, %v) not among %+v", theta1, theta2, pairs)
	}
}

func TestRealRootsQuartic(t *testing.T) {
	// (x-1)(x+2)(x-3)(x+0.5) = x^4 - 1.5x^3 - 5.5x^2 + 9.5x - 3... expand
	// via polyMul to avoid hand arithmetic.
	p := polyMul(polyMul([]float64{1, -1}, []float64{1, 2}), polyMul([]float64{1, -3}, []float64{1, 0.5}))
	roots := realRoots(p)
	if len(roots) != 4 {
		t.Fatalf("got %d roots, want 4: %v", len(roots), roots)
	}
	for _, want := range []float64{1, -2, 3, -0.5} {
		found := false
		for _, r := range roots {
			if math.Abs(r-want) < 1e-8 {
				found = true
			}
		}
		if !found {
			t.Errorf("root %v missing from %v", want, roots)
		}
	}
}

func TestRealRootsNoRealRoots(t *testing.T) {
	// x^2 + 1
	if roots := realRoots([]float64{1, 0, 1}); len(roots) != 0 {
		t.Errorf("x^2+1 has no real roots, got %v", roots)
	}
}

func TestRealRootsLinearAndDegenerate(t *testing.T) {
	if roots := realRoots([]float64{2, -4}); len(roots) != 1 || math.Abs(roots[0]-2) > 1e-12 {
		t.Errorf("2x-4: %v", roots)
	}
	if roots := realRoots([]float64{0, 0, 0}); roots != nil {
		t.Errorf("zero polynomial: %v", roots)
	}
}
