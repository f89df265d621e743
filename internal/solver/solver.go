package solver

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/num/quat"

	"github.com/san-kum/ikgeo/internal/decomp"
	"github.com/san-kum/ikgeo/internal/kinematics"
	"github.com/san-kum/ikgeo/internal/refine"
)

// Provenance records which stage produced a solution.
type Provenance int

const (
	// ClosedForm solutions come straight from a pattern decomposition.
	ClosedForm Provenance = iota
	// Refined solutions went through damped least-squares iteration,
	// either as polish of a closed-form branch or from a random seed.
	Refined
)

func (p Provenance) String() string {
	switch p {
	case ClosedForm:
		return "closed-form"
	case Refined:
		return "refined"
	default:
		return fmt.Sprintf("Provenance(%d)", int(p))
	}
}

// Options tunes a solve. Zero value is not usable; start from
// DefaultOptions.
type Options struct {
	// PositionTolerance is the acceptable tool position error, in the
	// chain's length unit.
	PositionTolerance float64
	// OrientationTolerance is the acceptable orientation error in radians.
	OrientationTolerance float64
	// MaxSeeds bounds the random starts of the numerical search used for
	// chains without a closed-form pattern.
	MaxSeeds int
	// MaxIterations bounds each refinement run.
	MaxIterations int
	// Polish refines approximate closed-form branches instead of
	// dropping them.
	Polish bool
	// IncludeApprox returns above-tolerance least-squares entries, flagged
	// Approx, instead of dropping them. Off by default: callers then only
	// ever see solutions that satisfy the configured tolerances.
	IncludeApprox bool
	// RNG drives the seed search. Nil selects a fixed-seed source, which
	// makes unseeded solves reproducible.
	RNG *rand.Rand
}

// DefaultOptions returns the tuning used by the command line tools.
func DefaultOptions() Options {
	return Options{
		PositionTolerance:    1e-8,
		OrientationTolerance: 1e-8,
		MaxSeeds:             64,
		MaxIterations:        200,
		Polish:               true,
	}
}

// Solution is one joint vector placing the chain at the target, with its
// measured forward-kinematics errors. Approx entries missed the tolerances
// and are least-squares stand-ins near the workspace boundary; they appear
// only when Options.IncludeApprox is set.
type Solution struct {
	Q          []float64
	PosErr     float64
	OrientErr  float64
	Provenance Provenance
	Approx     bool
}

// Solve returns the joint-space solutions for target. Chains with a
// closed-form pattern are solved by decomposition and every branch is
// verified through forward kinematics; all other chains go through the
// random-seed numerical search. Solutions are sorted exact-first, then by
// combined error. An unreachable target yields an empty slice, not an
// error; opt in via IncludeApprox to get the best least-squares entries.
func Solve(ctx context.Context, c *kinematics.Chain, target kinematics.Pose, opts Options) ([]Solution, error) {
	if c == nil {
		return nil, ErrNilChain
	}
	if err := validate(target, opts); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	params := refine.Params{
		PositionTolerance:    opts.PositionTolerance,
		OrientationTolerance: opts.OrientationTolerance,
		MaxIterations:        opts.MaxIterations,
	}
	if c.Pattern().ClosedForm() {
		return solveClosedForm(ctx, c, target, opts, params)
	}
	return solveSearch(ctx, c, target, opts, params)
}

func solveClosedForm(ctx context.Context, c *kinematics.Chain, target kinematics.Pose, opts Options, params refine.Params) ([]Solution, error) {
	var sols []Solution
	for _, cand := range decomp.Decompose(c, target) {
		pos, orient := kinematics.PoseErrors(c.Forward(cand.Q), target)
		if pos <= opts.PositionTolerance && orient <= opts.OrientationTolerance {
			sols = append(sols, Solution{Q: cand.Q, PosErr: pos, OrientErr: orient, Provenance: ClosedForm})
			continue
		}
		if opts.Polish {
			q, ok, err := refine.Polish(ctx, c, target, cand.Q, params)
			if err != nil {
				return finish(sols), err
			}
			if ok {
				pos, orient = kinematics.PoseErrors(c.Forward(q), target)
				sols = append(sols, Solution{Q: q, PosErr: pos, OrientErr: orient, Provenance: Refined})
				continue
			}
		}
		if opts.IncludeApprox {
			sols = append(sols, Solution{Q: cand.Q, PosErr: pos, OrientErr: orient, Provenance: ClosedForm, Approx: true})
		}
	}
	return finish(sols), nil
}

func solveSearch(ctx context.Context, c *kinematics.Chain, target kinematics.Pose, opts Options, params refine.Params) ([]Solution, error) {
	rng := opts.RNG
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	found, err := refine.Search(ctx, c, target, opts.MaxSeeds, rng, params)
	var sols []Solution
	for _, f := range found {
		pos, orient := kinematics.PoseErrors(c.Forward(f.Q), target)
		sols = append(sols, Solution{Q: f.Q, PosErr: pos, OrientErr: orient, Provenance: Refined})
	}
	return finish(sols), err
}

// finish dedupes and orders solutions: exact before approximate, then by
// combined error.
func finish(sols []Solution) []Solution {
	var out []Solution
	for _, s := range sols {
		dup := false
		for i, o := range out {
			if sameQ(s.Q, o.Q) {
				if s.PosErr+s.OrientErr < o.PosErr+o.OrientErr {
					out[i] = s
				}
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Approx != out[j].Approx {
			return !out[i].Approx
		}
		return out[i].PosErr+out[i].OrientErr < out[j].PosErr+out[j].OrientErr
	})
	return out
}

// FilterLimits keeps the solutions whose joints all lie inside
// [lower[i], upper[i]]. Limits are compared against the wrapped values the
// solver reports.
func FilterLimits(sols []Solution, lower, upper []float64) ([]Solution, error) {
	var out []Solution
	for _, s := range sols {
		if len(lower) != len(s.Q) || len(upper) != len(s.Q) {
			return nil, fmt.Errorf("%w: got %d/%d, want %d", ErrLimitLength, len(lower), len(upper), len(s.Q))
		}
		ok := true
		for i, v := range s.Q {
			if v < lower[i] || v > upper[i] {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func validate(target kinematics.Pose, opts Options) error {
	if !finitePose(target) {
		return ErrTargetNotFinite
	}
	if !(opts.PositionTolerance > 0) || !(opts.OrientationTolerance > 0) ||
		math.IsInf(opts.PositionTolerance, 0) || math.IsInf(opts.OrientationTolerance, 0) {
		return ErrBadTolerance
	}
	if opts.MaxSeeds < 1 {
		return ErrBadSeedCount
	}
	if opts.MaxIterations < 1 {
		return ErrBadIterations
	}
	return nil
}

func finitePose(p kinematics.Pose) bool {
	q := quat.Number(p.R)
	for _, v := range []float64{p.T.X, p.T.Y, p.T.Z, q.Real, q.Imag, q.Jmag, q.Kmag} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func sameQ(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		d := math.Mod(a[i]-b[i], 2*math.Pi)
		if d > math.Pi {
			d -= 2 * math.Pi
		} else if d < -math.Pi {
			d += 2 * math.Pi
		}
		if math.Abs(d) > 1e-6 {
			return false
		}
	}
	return true
}
