package config

import (
	"path/filepath"
	"testing"

	"github.com/san-kum/ikgeo/internal/kinematics"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Robot.Name = "ur5"
	cfg.Solver.MaxSeeds = 16
	cfg.Solver.Seed = 99

	path := filepath.Join(t.TempDir(), "ik.yaml")
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Robot.Name != "ur5" || got.Solver.MaxSeeds != 16 || got.Solver.Seed != 99 {
		t.Errorf("round trip lost fields: %+v", got)
	}
	if got.Solver.PositionTolerance != DefaultPositionTolerance {
		t.Errorf("position tolerance = %v", got.Solver.PositionTolerance)
	}
}

func TestBuildChainFromCatalogName(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Robot.Name = "irb6640"
	c, err := cfg.BuildChain()
	if err != nil {
		t.Fatalf("BuildChain: %v", err)
	}
	if c.Pattern() != kinematics.SphericalTwoParallel {
		t.Errorf("pattern = %v", c.Pattern())
	}
}

func TestBuildChainExplicitGeometry(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Robot.Name = ""
	cfg.Robot.Joints = []JointConfig{
		{Axis: [3]float64{0, 0, 1}},
		{Axis: [3]float64{0, 1, 0}, Type: "revolute"},
		{Axis: [3]float64{1, 0, 0}, Type: "prismatic"},
	}
	cfg.Robot.Offsets = [][3]float64{
		{0, 0, 0.1},
		{0, 0, 0.2},
		{0.1, 0, 0},
		{0, 0, 0.05},
	}
	c, err := cfg.BuildChain()
	if err != nil {
		t.Fatalf("BuildChain: %v", err)
	}
	if c.NumJoints() != 3 {
		t.Errorf("joints = %d", c.NumJoints())
	}
	if c.Joint(2).Type != kinematics.Prismatic {
		t.Errorf("joint 2 type = %v", c.Joint(2).Type)
	}
}

func TestBuildChainErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Robot.Name = ""
	if _, err := cfg.BuildChain(); err == nil {
		t.Error("empty robot accepted")
	}

	cfg.Robot.Name = "nope"
	if _, err := cfg.BuildChain(); err == nil {
		t.Error("unknown catalog name accepted")
	}

	cfg.Robot.Joints = []JointConfig{{Axis: [3]float64{0, 0, 1}, Type: "helical"}}
	cfg.Robot.Offsets = [][3]float64{{}, {}}
	if _, err := cfg.BuildChain(); err == nil {
		t.Error("unknown joint type accepted")
	}
}

func TestOptionsSeedPinsRNG(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Options().RNG != nil {
		t.Error("zero seed should leave RNG nil")
	}
	cfg.Solver.Seed = 5
	if cfg.Options().RNG == nil {
		t.Error("nonzero seed should set RNG")
	}
}

func TestPresets(t *testing.T) {
	if GetPreset("precise") == nil {
		t.Fatal("missing precise preset")
	}
	if GetPreset("nope") != nil {
		t.Error("unknown preset should be nil")
	}
	if len(ListPresets()) != len(Presets) {
		t.Error("ListPresets incomplete")
	}
	for name, cfg := range Presets {
		if _, err := cfg.BuildChain(); err != nil {
			t.Errorf("preset %s: %v", name, err)
		}
	}
}
