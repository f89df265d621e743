package robots

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/ikgeo/internal/kinematics"
)

func TestCatalogPatterns(t *testing.T) {
	cases := []struct {
		name string
		want kinematics.Pattern
	}{
		{"irb6640", kinematics.SphericalTwoParallel},
		{"ur5", kinematics.ThreeParallel},
		{"three-parallel-bot", kinematics.ThreeParallel},
		{"spherical-bot", kinematics.Spherical},
		{"kuka-r800-fixed-q3", kinematics.Spherical},
		{"two-parallel-bot", kinematics.Unclassified},
		{"rrc-fixed-q6", kinematics.Unclassified},
		{"yumi-fixed-q3", kinematics.Unclassified},
	}
	reg := NewRegistry()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r, err := reg.Get(c.name)
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if got := r.Chain.Pattern(); got != c.want {
				t.Errorf("pattern = %v, want %v", got, c.want)
			}
			if r.Chain.NumJoints() != 6 {
				t.Errorf("joints = %d, want 6", r.Chain.NumJoints())
			}
		})
	}
}

func TestRegistryNamesSortedAndComplete(t *testing.T) {
	reg := NewRegistry()
	names := reg.Names()
	if len(names) != 8 {
		t.Fatalf("got %d names: %v", len(names), names)
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Fatalf("names not sorted: %v", names)
		}
	}
	if _, err := reg.Get("no-such-robot"); err == nil {
		t.Error("expected error for unknown name")
	}
}

func TestKukaReductionMatchesFullArm(t *testing.T) {
	const q3 = math.Pi / 6
	r, err := KukaR800Fixed(q3)
	if err != nil {
		t.Fatalf("KukaR800Fixed: %v", err)
	}
	full, err := kinematics.NewChain(
		revolute(ez, ey, ez, r3.Scale(-1, ey), ez, ey, ez),
		[]r3.Vec{
			{Z: 0.34}, {}, {Z: 0.21}, {Z: 0.19}, {Z: 0.40}, {}, {}, {Z: 0.126},
		})
	if err != nil {
		t.Fatalf("NewChain: %v", err)
	}

	q6 := []float64{0.3, -0.4, 0.5, 0.6, -0.7, 0.8}
	q7 := []float64{q6[0], q6[1], q3, q6[2], q6[3], q6[4], q6[5]}

	want := full.Forward(q7)
	got := r.Chain.Forward(q6)

	if d := r3.Norm(r3.Sub(got.T, want.T)); d > 1e-12 {
		t.Errorf("position differs by %g", d)
	}
	recomposed := kinematics.Compose(got.R, r.Tool)
	if d := kinematics.RotationDistance(recomposed, want.R); d > 1e-12 {
		t.Errorf("orientation differs by %g", d)
	}
}

func TestRRCReductionMatchesFullArm(t *testing.T) {
	const q6v = math.Pi / 6
	const in = 0.0254
	r, err := RRCFixed(q6v)
	if err != nil {
		t.Fatalf("RRCFixed: %v", err)
	}
	full, err := kinematics.NewChain(
		revolute(ex, ez, ex, ez, ex, ez, ex),
		[]r3.Vec{
			{},
			{X: 20 * in, Y: -4 * in},
			{Y: 4 * in},
			{X: 21.5 * in, Y: 3.375 * in},
			{Y: -3.375 * in},
			{X: 21.5 * in, Y: 3.325 * in},
			{Y: -3.325 * in},
			{X: 7 * in},
		})
	if err != nil {
		t.Fatalf("NewChain: %v", err)
	}

	q := []float64{0.2, -0.3, 0.4, 0.5, -0.6, 0.7}
	q7 := []float64{q[0], q[1], q[2], q[3], q[4], q6v, q[5]}

	want := full.Forward(q7)
	got := r.Chain.Forward(q)

	if d := r3.Norm(r3.Sub(got.T, want.T)); d > 1e-9 {
		t.Errorf("position differs by %g", d)
	}
	recomposed := kinematics.Compose(got.R, r.Tool)
	if d := kinematics.RotationDistance(recomposed, want.R); d > 1e-9 {
		t.Errorf("orientation differs by %g", d)
	}
}

func TestYumiAxesNormalized(t *testing.T) {
	r, err := YumiFixed(math.Pi / 6)
	if err != nil {
		t.Fatalf("YumiFixed: %v", err)
	}
	for i := 0; i < r.Chain.NumJoints(); i++ {
		if d := math.Abs(r3.Norm(r.Chain.Joint(i).Axis) - 1); d > 1e-12 {
			t.Errorf("axis %d off unit by %g", i, d)
		}
	}
}
