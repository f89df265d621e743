package robots

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/ikgeo/internal/kinematics"
)

var (
	ex = r3.Vec{X: 1}
	ey = r3.Vec{Y: 1}
	ez = r3.Vec{Z: 1}
)

// Robot is a named catalog entry. Tool is the residual tool rotation left
// over when a seven-axis arm is reduced by locking a joint: the full arm's
// orientation is the reduced chain's orientation composed with Tool. For
// native six-axis entries Tool is the identity.
type Robot struct {
	Name  string
	Chain *kinematics.Chain
	Tool  kinematics.Rotation
}

// Registry maps catalog names to constructors.
type Registry struct {
	builders map[string]func() (Robot, error)
}

// NewRegistry returns the full built-in catalog. The seven-axis arms are
// registered with their customary locked angle of π/6.
func NewRegistry() *Registry {
	r := &Registry{builders: make(map[string]func() (Robot, error))}
	r.builders["irb6640"] = IRB6640
	r.builders["ur5"] = UR5
	r.builders["three-parallel-bot"] = ThreeParallelBot
	r.builders["two-parallel-bot"] = TwoParallelBot
	r.builders["spherical-bot"] = SphericalBot
	r.builders["kuka-r800-fixed-q3"] = func() (Robot, error) { return KukaR800Fixed(math.Pi / 6) }
	r.builders["rrc-fixed-q6"] = func() (Robot, error) { return RRCFixed(math.Pi / 6) }
	r.builders["yumi-fixed-q3"] = func() (Robot, error) { return YumiFixed(math.Pi / 6) }
	return r
}

// Get builds the named robot.
func (r *Registry) Get(name string) (Robot, error) {
	fn, ok := r.builders[name]
	if !ok {
		return Robot{}, fmt.Errorf("unknown robot: %s", name)
	}
	return fn()
}

// Names lists the catalog in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func revolute(axes ...r3.Vec) []kinematics.Joint {
	js := make([]kinematics.Joint, len(axes))
	for i, a := range axes {
		js[i] = kinematics.Joint{Axis: a, Type: kinematics.Revolute}
	}
	return js
}

func sixAxis(name string, joints []kinematics.Joint, offsets []r3.Vec) (Robot, error) {
	c, err := kinematics.NewChain(joints, offsets)
	if err != nil {
		return Robot{}, fmt.Errorf("robots: %s: %w", name, err)
	}
	return Robot{Name: name, Chain: c, Tool: kinematics.IdentityRotation()}, nil
}

// IRB6640 is the ABB IRB 6640 heavy industrial arm: spherical wrist with
// parallel axes 2 and 3.
func IRB6640() (Robot, error) {
	return sixAxis("irb6640",
		revolute(ez, ey, ey, ex, ey, ex),
		[]r3.Vec{
			{},
			{X: 0.32, Z: 0.78},
			{Z: 1.075},
			{X: 1.1425, Z: 0.2},
			{},
			{},
			{X: 0.2},
		})
}

// UR5 is the Universal Robots UR5 collaborative arm: three parallel axes,
// offset wrist.
func UR5() (Robot, error) {
	return sixAxis("ur5",
		revolute(ez, ey, ey, ey, r3.Scale(-1, ez), ey),
		[]r3.Vec{
			{Z: 0.089159},
			{Y: 0.1358},
			{X: 0.425, Y: -0.1197},
			{X: 0.3922},
			{Y: 0.093},
			{Z: -0.0946},
			{Y: 0.0823},
		})
}

// ThreeParallelBot is the unit-length test geometry with axes 2..4
// parallel.
func ThreeParallelBot() (Robot, error) {
	return sixAxis("three-parallel-bot",
		revolute(ez, ex, ex, ex, ez, ex),
		[]r3.Vec{ez, ey, ey, ey, ey, r3.Add(ey, ex), ex})
}

// TwoParallelBot is the unit-length test geometry with only axes 2 and 3
// parallel; it has no closed-form pattern and exercises the numerical
// fallback.
func TwoParallelBot() (Robot, error) {
	return sixAxis("two-parallel-bot",
		revolute(ez, ex, ex, ez, ex, r3.Unit(r3.Add(ex, ez))),
		[]r3.Vec{ez, ey, ey, ey, ey, ey, ez})
}

// SphericalBot is the unit-length test geometry with a spherical wrist and
// no further structure.
func SphericalBot() (Robot, error) {
	return sixAxis("spherical-bot",
		revolute(ey, ez, ey, ex, ey, ex),
		[]r3.Vec{
			{},
			r3.Add(ez, ex),
			r3.Add(ez, ex),
			r3.Add(ez, ex),
			{},
			{},
			ex,
		})
}

// KukaR800Fixed is the KUKA LBR iiwa 7 R800 with its third joint locked at
// q3; the reduction leaves a spherical-wrist six-axis chain.
func KukaR800Fixed(q3 float64) (Robot, error) {
	full, err := kinematics.NewChain(
		revolute(ez, ey, ez, r3.Scale(-1, ey), ez, ey, ez),
		[]r3.Vec{
			{Z: 0.34},
			{},
			{Z: 0.21},
			{Z: 0.19},
			{Z: 0.40},
			{},
			{},
			{Z: 0.126},
		})
	if err != nil {
		return Robot{}, fmt.Errorf("robots: kuka-r800: %w", err)
	}
	reduced, tool, err := full.FixJoint(2, q3)
	if err != nil {
		return Robot{}, fmt.Errorf("robots: kuka-r800: %w", err)
	}
	return Robot{Name: "kuka-r800-fixed-q3", Chain: reduced, Tool: tool}, nil
}

// RRCFixed is the RRC seven-axis arm with its last elbow joint locked at
// q6. The leftover inter-wrist offset lies along the neighboring axes and
// is reanchored away; the chain still has no closed-form pattern and
// routes to the numerical fallback.
func RRCFixed(q6 float64) (Robot, error) {
	const in = 0.0254
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
		return Robot{}, fmt.Errorf("robots: rrc: %w", err)
	}
	reduced, tool, err := full.FixJoint(5, q6)
	if err != nil {
		return Robot{}, fmt.Errorf("robots: rrc: %w", err)
	}
	reduced, err = reduced.ReanchorOffset(4)
	if err != nil {
		return Robot{}, fmt.Errorf("robots: rrc: %w", err)
	}
	return Robot{Name: "rrc-fixed-q6", Chain: reduced, Tool: tool}, nil
}

// YumiFixed is one arm of the ABB YuMi with its third joint locked at q3.
// The geometry matches no closed-form pattern.
func YumiFixed(q3 float64) (Robot, error) {
	full, err := kinematics.NewChain(
		revolute(
			r3.Vec{X: 0.8138, Y: 0.3420, Z: 0.4698},
			r3.Vec{X: 0.1048, Y: 0.7088, Z: -0.6976},
			r3.Vec{X: 0.8138, Y: 0.3420, Z: 0.4698},
			r3.Vec{X: 0.1048, Y: 0.7088, Z: -0.6976},
			r3.Vec{X: 0.5716, Y: -0.6170, Z: -0.5410},
			r3.Vec{X: 0.1048, Y: 0.7088, Z: -0.6976},
			r3.Vec{X: 0.5716, Y: -0.6170, Z: -0.5410},
		),
		[]r3.Vec{
			{X: 0.0536, Y: 0.0725, Z: 0.4149},
			{X: 0.0642, Y: 0.0527, Z: 0.0632},
			{X: 0.1578, Y: 0.0406, Z: 0.0650},
			{X: 0.0880, Y: 0.0011, Z: 0.0143},
			{X: 0.1270, Y: -0.0877, Z: -0.0700},
			{X: 0.0354, Y: -0.0712, Z: -0.0670},
			{X: 0.0385, Y: -0.0087, Z: -0.0030},
			{X: 0.0040, Y: -0.0043, Z: -0.0038},
		})
	if err != nil {
		return Robot{}, fmt.Errorf("robots: yumi: %w", err)
	}
	reduced, tool, err := full.FixJoint(2, q3)
	if err != nil {
		return Robot{}, fmt.Errorf("robots: yumi: %w", err)
	}
	return Robot{Name: "yumi-fixed-q3", Chain: reduced, Tool: tool}, nil
}
