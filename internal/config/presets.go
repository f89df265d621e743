package config

// Presets are ready-made solver tunings. "precise" matches the accuracy of
// the closed-form paths; "fast" trades tolerance for latency in control
// loops; "search" widens the random-seed budget for chains without a
// closed-form pattern.
var Presets = map[string]*Config{
	"precise": {
		Robot: RobotConfig{Name: "irb6640"},
		Solver: SolverConfig{
			PositionTolerance:    1e-10,
			OrientationTolerance: 1e-10,
			MaxSeeds:             DefaultMaxSeeds,
			MaxIterations:        500,
			Polish:               true,
		},
	},
	"fast": {
		Robot: RobotConfig{Name: "irb6640"},
		Solver: SolverConfig{
			PositionTolerance:    1e-6,
			OrientationTolerance: 1e-6,
			MaxSeeds:             16,
			MaxIterations:        50,
			Polish:               false,
		},
	},
	"search": {
		Robot: RobotConfig{Name: "two-parallel-bot"},
		Solver: SolverConfig{
			PositionTolerance:    DefaultPositionTolerance,
			OrientationTolerance: DefaultOrientationTolerance,
			MaxSeeds:             256,
			MaxIterations:        400,
			Polish:               true,
		},
	},
}

// GetPreset returns a copy of the named preset, or nil. Callers may adjust
// the copy without touching the shared table.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	out := *cfg
	return &out
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
