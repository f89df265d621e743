package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/ikgeo/internal/bench"
	"github.com/san-kum/ikgeo/internal/config"
	"github.com/san-kum/ikgeo/internal/kinematics"
	"github.com/san-kum/ikgeo/internal/robots"
	"github.com/san-kum/ikgeo/internal/solver"
	"github.com/san-kum/ikgeo/internal/tui"
)

var (
	configFile string
	preset     string
	robotName  string
	posFlag    string
	rpyFlag    string
	jointsFlag string
	tolPos     float64
	tolRot     float64
	maxSeeds   int
	maxIters   int
	polish     bool
	seed       int64
	trials     int
	gridPoints int
	jsonOut    bool
	outFile    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ikgeo",
		Short: "closed-form inverse kinematics for serial manipulators",
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.PersistentFlags().StringVar(&robotName, "robot", "", "catalog robot name")

	solveCmd := &cobra.Command{
		Use:   "solve",
		Short: "solve a target pose",
		RunE:  runSolve,
	}
	solveCmd.Flags().StringVar(&posFlag, "pos", "", "target position x,y,z")
	solveCmd.Flags().StringVar(&rpyFlag, "rpy", "0,0,0", "target roll,pitch,yaw in radians")
	solveCmd.Flags().StringVar(&jointsFlag, "joints", "", "derive target from joint vector (round trip)")
	solveCmd.Flags().Float64Var(&tolPos, "tol-pos", 0, "position tolerance override")
	solveCmd.Flags().Float64Var(&tolRot, "tol-rot", 0, "orientation tolerance override")
	solveCmd.Flags().IntVar(&maxSeeds, "seeds", 0, "seed count override")
	solveCmd.Flags().IntVar(&maxIters, "iters", 0, "iteration cap override")
	solveCmd.Flags().BoolVar(&polish, "polish", true, "refine approximate branches")
	solveCmd.Flags().Int64Var(&seed, "seed", 0, "search RNG seed")

	fkCmd := &cobra.Command{
		Use:   "fk",
		Short: "forward kinematics for a joint vector",
		RunE:  runFK,
	}
	fkCmd.Flags().StringVar(&jointsFlag, "joints", "", "joint vector q1,q2,...")

	robotsCmd := &cobra.Command{
		Use:   "robots",
		Short: "list the robot catalog",
		RunE:  runRobots,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark the solver on random reachable targets",
		RunE:  runBench,
	}
	benchCmd.Flags().IntVar(&trials, "trials", 100, "number of targets")
	benchCmd.Flags().Int64Var(&seed, "seed", 1, "target sampling seed")
	benchCmd.Flags().IntVar(&gridPoints, "grid", 0, "joint-space grid sweep instead of random targets")
	benchCmd.Flags().BoolVar(&jsonOut, "json", false, "print result as json")
	benchCmd.Flags().StringVar(&outFile, "out", "", "write result json to file")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "interactive live solver view",
		RunE:  runLive,
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "write a default config file",
		RunE:  runInit,
	}
	initCmd.Flags().StringVar(&outFile, "out", "ikgeo.yaml", "output path")

	rootCmd.AddCommand(solveCmd, fkCmd, robotsCmd, benchCmd, liveCmd, initCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig layers file, preset, and flags: flags win.
func loadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset %q (have %v)", preset, config.ListPresets())
		}
		cfg = p
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if robotName != "" {
		cfg.Robot.Name = robotName
		cfg.Robot.Joints = nil
	}
	return cfg, nil
}

func solveOptions(cfg *config.Config) solver.Options {
	opts := cfg.Options()
	if tolPos > 0 {
		opts.PositionTolerance = tolPos
	}
	if tolRot > 0 {
		opts.OrientationTolerance = tolRot
	}
	if maxSeeds > 0 {
		opts.MaxSeeds = maxSeeds
	}
	if maxIters > 0 {
		opts.MaxIterations = maxIters
	}
	opts.Polish = polish
	if seed != 0 {
		cfg.Solver.Seed = seed
		opts = cfg.Options()
	}
	return opts
}

func runSolve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	chain, err := cfg.BuildChain()
	if err != nil {
		return err
	}

	var target kinematics.Pose
	switch {
	case jointsFlag != "":
		q, err := parseFloats(jointsFlag)
		if err != nil {
			return err
		}
		if len(q) != chain.NumJoints() {
			return fmt.Errorf("joint vector has %d values, chain has %d joints", len(q), chain.NumJoints())
		}
		target = chain.Forward(q)
	case posFlag != "":
		p, err := parseVec3(posFlag)
		if err != nil {
			return err
		}
		rpy, err := parseVec3(rpyFlag)
		if err != nil {
			return err
		}
		target = kinematics.NewPose(rpyRotation(rpy), p)
	default:
		return fmt.Errorf("need --pos or --joints")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sols, err := solver.Solve(ctx, chain, target, solveOptions(cfg))
	if err != nil {
		return err
	}
	if lower, upper := cfg.Limits(); lower != nil {
		sols, err = solver.FilterLimits(sols, lower, upper)
		if err != nil {
			return err
		}
	}

	fmt.Printf("pattern: %s   solutions: %d\n\n", chain.Pattern(), len(sols))
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	header := make([]string, 0, chain.NumJoints()+3)
	for i := 0; i < chain.NumJoints(); i++ {
		header = append(header, fmt.Sprintf("q%d", i+1))
	}
	header = append(header, "pos err", "orient err", "source")
	fmt.Fprintln(w, strings.Join(header, "\t"))
	for _, s := range sols {
		row := make([]string, 0, len(header))
		for _, v := range s.Q {
			row = append(row, fmt.Sprintf("%+.5f", v))
		}
		src := s.Provenance.String()
		if s.Approx {
			src += " (approx)"
		}
		row = append(row, fmt.Sprintf("%.2e", s.PosErr), fmt.Sprintf("%.2e", s.OrientErr), src)
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	return w.Flush()
}

func runFK(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	chain, err := cfg.BuildChain()
	if err != nil {
		return err
	}
	q, err := parseFloats(jointsFlag)
	if err != nil {
		return err
	}
	if len(q) != chain.NumJoints() {
		return fmt.Errorf("joint vector has %d values, chain has %d joints", len(q), chain.NumJoints())
	}
	pose := chain.Forward(q)
	rv := kinematics.RotVec(pose.R)
	fmt.Printf("position:     %+.6f %+.6f %+.6f\n", pose.T.X, pose.T.Y, pose.T.Z)
	fmt.Printf("rotation vec: %+.6f %+.6f %+.6f\n", rv.X, rv.Y, rv.Z)
	fmt.Printf("pattern:      %s\n", chain.Pattern())
	return nil
}

func runRobots(cmd *cobra.Command, args []string) error {
	reg := robots.NewRegistry()
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "name\tjoints\tpattern\treach")
	for _, name := range reg.Names() {
		r, err := reg.Get(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%.3f\n",
			name, r.Chain.NumJoints(), r.Chain.Pattern(), r.Chain.Reach())
	}
	return w.Flush()
}

func runBench(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	chain, err := cfg.BuildChain()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := bench.Run(ctx, cfg.Robot.Name, chain, bench.Config{
		Trials:     trials,
		Seed:       seed,
		GridPoints: gridPoints,
		Solver:     solveOptions(cfg),
	})
	if err != nil {
		return err
	}

	if outFile != "" {
		if err := bench.ExportJSON(outFile, res); err != nil {
			return err
		}
	}
	if jsonOut {
		return bench.WriteJSON(os.Stdout, res)
	}

	fmt.Printf("robot: %s (%s)\n", res.Robot, res.Pattern)
	fmt.Printf("trials: %d   solved: %d   approx-only: %d   failed: %d\n",
		res.Trials, res.Solved, res.ApproxOnly, res.Failed)
	fmt.Printf("error min/mean/max: %.2e / %.2e / %.2e\n", res.MinErr, res.MeanErr, res.MaxErr)
	fmt.Printf("mean solutions: %.1f   mean latency: %v\n\n", res.MeanSolutions, res.MeanLatency)
	if len(res.Latencies) > 1 {
		fmt.Println("latency per trial (ms):")
		fmt.Println(asciigraph.Plot(res.Latencies, asciigraph.Height(10), asciigraph.Width(70)))
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	return tui.Run(robots.NewRegistry(), solveOptions(cfg))
}

func runInit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := config.Save(outFile, cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", outFile)
	return nil
}

func parseFloats(s string) ([]float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("empty value list")
	}
	parts := strings.Split(s, ",")
	out := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("bad value %q: %w", p, err)
		}
		out[i] = v
	}
	return out, nil
}

func parseVec3(s string) (r3.Vec, error) {
	vals, err := parseFloats(s)
	if err != nil {
		return r3.Vec{}, err
	}
	if len(vals) != 3 {
		return r3.Vec{}, fmt.Errorf("need 3 values, got %d", len(vals))
	}
	return r3.Vec{X: vals[0], Y: vals[1], Z: vals[2]}, nil
}

// rpyRotation builds Rz(yaw)·Ry(pitch)·Rx(roll) from (roll, pitch, yaw).
func rpyRotation(rpy r3.Vec) kinematics.Rotation {
	rz := kinematics.AxisAngle(r3.Vec{Z: 1}, rpy.Z)
	ry := kinematics.AxisAngle(r3.Vec{Y: 1}, rpy.Y)
	rx := kinematics.AxisAngle(r3.Vec{X: 1}, rpy.X)
	return kinematics.Compose(kinematics.Compose(rz, ry), rx)
}
