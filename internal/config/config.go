package config

import (
	"fmt"
	"math/rand"
	"os"

	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/ikgeo/internal/kinematics"
	"github.com/san-kum/ikgeo/internal/robots"
	"github.com/san-kum/ikgeo/internal/solver"
)

const (
	DefaultPositionTolerance    = 1e-8
	DefaultOrientationTolerance = 1e-8
	DefaultMaxSeeds             = 64
	DefaultMaxIterations        = 200
)

type Config struct {
	Robot  RobotConfig  `yaml:"robot"`
	Solver SolverConfig `yaml:"solver"`
}

// RobotConfig describes the chain either by catalog name or by explicit
// geometry; explicit joints take precedence over the name.
type RobotConfig struct {
	Name        string        `yaml:"name,omitempty"`
	Joints      []JointConfig `yaml:"joints,omitempty"`
	Offsets     [][3]float64  `yaml:"offsets,omitempty"`
	LowerLimits []float64     `yaml:"lower_limits,omitempty"`
	UpperLimits []float64     `yaml:"upper_limits,omitempty"`
}

type JointConfig struct {
	Axis [3]float64 `yaml:"axis"`
	Type string     `yaml:"type"`
}

type SolverConfig struct {
	PositionTolerance    float64 `yaml:"position_tolerance"`
	OrientationTolerance float64 `yaml:"orientation_tolerance"`
	MaxSeeds             int     `yaml:"max_seeds"`
	MaxIterations        int     `yaml:"max_iterations"`
	Polish               bool    `yaml:"polish"`
	Seed                 int64   `yaml:"seed"`
}

func DefaultConfig() *Config {
	return &Config{
		Robot: RobotConfig{Name: "irb6640"},
		Solver: SolverConfig{
			PositionTolerance:    DefaultPositionTolerance,
			OrientationTolerance: DefaultOrientationTolerance,
			MaxSeeds:             DefaultMaxSeeds,
			MaxIterations:        DefaultMaxIterations,
			Polish:               true,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// BuildChain resolves the robot description into a chain. Explicit
// geometry wins over the catalog name.
func (c *Config) BuildChain() (*kinematics.Chain, error) {
	if len(c.Robot.Joints) > 0 {
		joints := make([]kinematics.Joint, len(c.Robot.Joints))
		for i, jc := range c.Robot.Joints {
			jt, err := parseJointType(jc.Type)
			if err != nil {
				return nil, fmt.Errorf("joint %d: %w", i, err)
			}
			joints[i] = kinematics.Joint{
				Axis: r3.Vec{X: jc.Axis[0], Y: jc.Axis[1], Z: jc.Axis[2]},
				Type: jt,
			}
		}
		offsets := make([]r3.Vec, len(c.Robot.Offsets))
		for i, o := range c.Robot.Offsets {
			offsets[i] = r3.Vec{X: o[0], Y: o[1], Z: o[2]}
		}
		return kinematics.NewChain(joints, offsets)
	}
	if c.Robot.Name == "" {
		return nil, fmt.Errorf("config: robot has neither name nor joints")
	}
	r, err := robots.NewRegistry().Get(c.Robot.Name)
	if err != nil {
		return nil, err
	}
	return r.Chain, nil
}

// Options maps the solver section onto solver.Options. A nonzero seed
// pins the search RNG for reproducible runs.
func (c *Config) Options() solver.Options {
	opts := solver.Options{
		PositionTolerance:    c.Solver.PositionTolerance,
		OrientationTolerance: c.Solver.OrientationTolerance,
		MaxSeeds:             c.Solver.MaxSeeds,
		MaxIterations:        c.Solver.MaxIterations,
		Polish:               c.Solver.Polish,
	}
	if c.Solver.Seed != 0 {
		opts.RNG = rand.New(rand.NewSource(c.Solver.Seed))
	}
	return opts
}

// Limits returns the configured joint limits, or nil when absent.
func (c *Config) Limits() (lower, upper []float64) {
	if len(c.Robot.LowerLimits) == 0 || len(c.Robot.UpperLimits) == 0 {
		return nil, nil
	}
	return c.Robot.LowerLimits, c.Robot.UpperLimits
}

func parseJointType(s string) (kinematics.JointType, error) {
	switch s {
	case "", "revolute":
		return kinematics.Revolute, nil
	case "prismatic":
		return kinematics.Prismatic, nil
	default:
		return 0, fmt.Errorf("config: unknown joint type %q", s)
	}
}
