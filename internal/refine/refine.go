package refine

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/ikgeo/internal/kinematics"
	"github.com/san-kum/ikgeo/internal/subproblem"
)

// Params bounds a refinement run. The tolerances define convergence; the
// iteration cap keeps divergent seeds from spinning.
type Params struct {
	PositionTolerance    float64
	OrientationTolerance float64
	MaxIterations        int
}

const (
	dampInit     = 1e-3
	dampGrow     = 10
	dampShrink   = 0.5
	dampMax      = 1e10
	stepStallEps = 1e-14
)

// Polish iterates damped least-squares from seed toward target. It returns
// the refined joint vector and whether both tolerances were met. The
// returned vector is always the best iterate seen, converged or not, so
// callers can rank near-misses. Cancellation via ctx aborts between
// iterations.
func Polish(ctx context.Context, c *kinematics.Chain, target kinematics.Pose, seed []float64, p Params) ([]float64, bool, error) {
	n := c.NumJoints()
	if len(seed) != n {
		return nil, false, fmt.Errorf("%w: got %d, want %d", kinematics.ErrDimension, len(seed), n)
	}

	q := make([]float64, n)
	copy(q, seed)
	wrap(c, q)

	best := make([]float64, n)
	copy(best, q)
	bestCost := cost(c, target, q)
	lambda := dampInit

	for iter := 0; iter < p.MaxIterations; iter++ {
		if err := ctx.Err(); err != nil {
			return best, false, err
		}

		pos, orient := kinematics.PoseErrors(c.Forward(q), target)
		if pos <= p.PositionTolerance && orient <= p.OrientationTolerance {
			copy(best, q)
			return best, true, nil
		}

		e := poseResidual(c, target, q)
		dq, ok := dampedStep(c.Jacobian(q), e, lambda)
		if !ok {
			lambda *= dampGrow
			if lambda > dampMax {
				break
			}
			continue
		}

		qn := make([]float64, n)
		stall := true
		for i := range q {
			qn[i] = q[i] + dq.AtVec(i)
			if dq.AtVec(i) > stepStallEps || dq.AtVec(i) < -stepStallEps {
				stall = false
			}
		}
		wrap(c, qn)

		if cn := cost(c, target, qn); cn < bestCost {
			copy(q, qn)
			copy(best, qn)
			bestCost = cn
			lambda *= dampShrink
			if lambda < dampInit*dampShrink*dampShrink {
				lambda = dampInit * dampShrink * dampShrink
			}
		} else {
			lambda *= dampGrow
			if lambda > dampMax {
				break
			}
		}
		if stall {
			break
		}
	}

	pos, orient := kinematics.PoseErrors(c.Forward(best), target)
	return best, pos <= p.PositionTolerance && orient <= p.OrientationTolerance, nil
}

// poseResidual stacks position and rotation-vector errors of q against
// target, both in the base frame, matching the Jacobian row convention.
func poseResidual(c *kinematics.Chain, target kinematics.Pose, q []float64) *mat.VecDense {
	fk := c.Forward(q)
	dp := r3.Sub(target.T, fk.T)
	dr := kinematics.RotVec(kinematics.Compose(target.R, kinematics.Invert(fk.R)))
	return mat.NewVecDense(6, []float64{dp.X, dp.Y, dp.Z, dr.X, dr.Y, dr.Z})
}

// dampedStep solves (J Jᵀ + λI) y = e and returns Jᵀ y. A failed Cholesky
// factorization reports ok=false so the caller can raise the damping.
func dampedStep(jac *mat.Dense, e *mat.VecDense, lambda float64) (*mat.VecDense, bool) {
	var jjt mat.Dense
	jjt.Mul(jac, jac.T())
	sym := mat.NewSymDense(6, nil)
	for i := 0; i < 6; i++ {
		for j := i; j < 6; j++ {
			v := jjt.At(i, j)
			if i == j {
				v += lambda
			}
			sym.SetSym(i, j, v)
		}
	}
	var chol mat.Cholesky
	if !chol.Factorize(sym) {
		return nil, false
	}
	var y mat.VecDense
	if err := chol.SolveVecTo(&y, e); err != nil {
		return nil, false
	}
	_, n := jac.Dims()
	dq := mat.NewVecDense(n, nil)
	dq.MulVec(jac.T(), &y)
	return dq, true
}

func cost(c *kinematics.Chain, target kinematics.Pose, q []float64) float64 {
	pos, orient := kinematics.PoseErrors(c.Forward(q), target)
	return pos*pos + orient*orient
}

// wrap reduces revolute angles to (-π, π]; prismatic values pass through.
func wrap(c *kinematics.Chain, q []float64) {
	for i := range q {
		if c.Joint(i).Type == kinematics.Revolute {
			q[i] = subproblem.WrapAngle(q[i])
		}
	}
}
