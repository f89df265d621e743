package sample

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/ikgeo/internal/kinematics"
)

func smallChain(t *testing.T) *kinematics.Chain {
	t.Helper()
	c, err := kinematics.NewChain(
		[]kinematics.Joint{
			{Axis: r3.Vec{Z: 1}, Type: kinematics.Revolute},
			{Axis: r3.Vec{Y: 1}, Type: kinematics.Revolute},
			{Axis: r3.Vec{X: 1}, Type: kinematics.Prismatic},
		},
		[]r3.Vec{{Z: 0.1}, {Z: 0.3}, {X: 0.2}, {X: 0.1}},
	)
	if err != nil {
		t.Fatalf("NewChain: %v", err)
	}
	return c
}

func TestJointVectorRanges(t *testing.T) {
	c := smallChain(t)
	rng := rand.New(rand.NewSource(3))
	reach := c.Reach()
	for trial := 0; trial < 100; trial++ {
		q := JointVector(rng, c)
		if len(q) != 3 {
			t.Fatalf("len = %d", len(q))
		}
		if math.Abs(q[0]) > math.Pi || math.Abs(q[1]) > math.Pi {
			t.Errorf("revolute out of range: %v", q)
		}
		if math.Abs(q[2]) > reach {
			t.Errorf("prismatic out of range: %v", q)
		}
	}
}

func TestJointVectorReproducible(t *testing.T) {
	c := smallChain(t)
	a := JointVector(rand.New(rand.NewSource(9)), c)
	b := JointVector(rand.New(rand.NewSource(9)), c)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed diverged: %v vs %v", a, b)
		}
	}
}

func TestTargetRoundTrips(t *testing.T) {
	c := smallChain(t)
	pose, q := Target(rand.New(rand.NewSource(5)), c)
	pos, orient := kinematics.PoseErrors(c.Forward(q), pose)
	if pos > 1e-12 || orient > 1e-12 {
		t.Errorf("pose does not match its joint vector: pos=%g orient=%g", pos, orient)
	}
}

func TestGridSizeAndBounds(t *testing.T) {
	c := smallChain(t)
	g := Grid(c, 3)
	if len(g) != 27 {
		t.Fatalf("grid size = %d, want 27", len(g))
	}
	for _, q := range g {
		if math.Abs(q[0]) >= math.Pi {
			t.Errorf("grid angle at endpoint: %v", q)
		}
	}
	if Grid(c, 0) != nil {
		t.Error("zero points should yield nil")
	}
}
