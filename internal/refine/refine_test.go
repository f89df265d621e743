package refine

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/ikgeo/internal/kinematics"
)

func testChain(t *testing.T) *kinematics.Chain {
	t.Helper()
	ex := r3.Vec{X: 1}
	ey := r3.Vec{Y: 1}
	ez := r3.Vec{Z: 1}
	axes := []r3.Vec{ez, ey, ey, ex, ey, ex}
	joints := make([]kinematics.Joint, len(axes))
	for i, a := range axes {
		joints[i] = kinematics.Joint{Axis: a, Type: kinematics.Revolute}
	}
	c, err := kinematics.NewChain(joints, []r3.Vec{
		{},
		{X: 0.32, Z: 0.78},
		{Z: 1.075},
		{X: 1.1425, Z: 0.2},
		{},
		{},
		{X: 0.2},
	})
	if err != nil {
		t.Fatalf("NewChain: %v", err)
	}
	return c
}

func testParams() Params {
	return Params{
		PositionTolerance:    1e-8,
		OrientationTolerance: 1e-8,
		MaxIterations:        200,
	}
}

func TestPolishFromPerturbedTruth(t *testing.T) {
	c := testChain(t)
	truth := []float64{0.4, -0.6, 0.8, 0.3, 0.5, -0.7}
	target := c.Forward(truth)

	seed := make([]float64, len(truth))
	for i, v := range truth {
		seed[i] = v + 0.05*float64(i+1)/6
	}

	q, ok, err := Polish(context.Background(), c, target, seed, testParams())
	if err != nil {
		t.Fatalf("Polish: %v", err)
	}
	if !ok {
		t.Fatal("did not converge from a nearby seed")
	}
	pos, orient := kinematics.PoseErrors(c.Forward(q), target)
	if pos > 1e-8 || orient > 1e-8 {
		t.Errorf("converged but errors pos=%g orient=%g", pos, orient)
	}
}

func TestPolishAtSolutionReturnsImmediately(t *testing.T) {
	c := testChain(t)
	truth := []float64{0.1, 0.2, -0.3, 0.4, -0.5, 0.6}
	q, ok, err := Polish(context.Background(), c, c.Forward(truth), truth, testParams())
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	for i := range truth {
		if math.Abs(q[i]-truth[i]) > 1e-12 {
			t.Errorf("joint %d moved from %v to %v", i, truth[i], q[i])
		}
	}
}

func TestPolishSeedLengthMismatch(t *testing.T) {
	c := testChain(t)
	_, _, err := Polish(context.Background(), c, c.Forward(make([]float64, 6)), []float64{0}, testParams())
	if err == nil {
		t.Fatal("expected dimension error")
	}
}

func TestPolishCancellation(t *testing.T) {
	c := testChain(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	target := c.Forward([]float64{1, 1, 1, 1, 1, 1})
	_, ok, err := Polish(ctx, c, target, make([]float64, 6), testParams())
	if err == nil {
		t.Fatal("expected context error")
	}
	if ok {
		t.Error("canceled run reported convergence")
	}
}

func TestPolishUnreachableTerminates(t *testing.T) {
	c := testChain(t)
	target := kinematics.NewPose(kinematics.IdentityRotation(), r3.Vec{X: 50})
	q, ok, err := Polish(context.Background(), c, target, make([]float64, 6), testParams())
	if err != nil {
		t.Fatalf("Polish: %v", err)
	}
	if ok {
		t.Error("unreachable target reported convergence")
	}
	for _, v := range q {
		if math.IsNaN(v) {
			t.Fatal("NaN joint value")
		}
	}
}

func TestSearchFindsReachableTarget(t *testing.T) {
	c := testChain(t)
	truth := []float64{0.4, -0.6, 0.8, 0.3, 0.5, -0.7}
	target := c.Forward(truth)
	rng := rand.New(rand.NewSource(7))

	found, err := Search(context.Background(), c, target, 32, rng, testParams())
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(found) == 0 {
		t.Fatal("no seeds converged for a reachable target")
	}
	for _, f := range found {
		pos, orient := kinematics.PoseErrors(c.Forward(f.Q), target)
		if pos > 1e-8 || orient > 1e-8 {
			t.Errorf("reported solution misses target: pos=%g orient=%g", pos, orient)
		}
	}
}

func TestSearchDeterministicWithSeededRNG(t *testing.T) {
	c := testChain(t)
	target := c.Forward([]float64{0.2, -0.4, 0.6, 0.1, 0.3, -0.5})

	run := func() [][]float64 {
		rng := rand.New(rand.NewSource(42))
		found, err := Search(context.Background(), c, target, 8, rng, testParams())
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		qs := make([][]float64, len(found))
		for i, f := range found {
			qs[i] = f.Q
		}
		return qs
	}
	a, b := run(), run()
	if len(a) != len(b) {
		t.Fatalf("run lengths differ: %d vs %d", len(a), len(b))
	}
}
