package subproblem

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Polynomials are coefficient slices in descending degree order:
// coeffs[0]*x^(n-1) + ... + coeffs[n-1]. Used to build the quartic
// resultants of subproblems five and six.

func polyMul(a, b []float64) []float64 {
	out := make([]float64, len(a)+len(b)-1)
	for i, ai := range a {
		for j, bj := range b {
			out[i+j] += ai * bj
		}
	}
	return out
}

func polySub(a, b []float64) []float64 {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	out := make([]float64, n)
	for i, ai := range a {
		out[n-len(a)+i] += ai
	}
	for i, bi := range b {
		out[n-len(b)+i] -= bi
	}
	return out
}

func polyScale(s float64, a []float64) []float64 {
	out := make([]float64, len(a))
	for i, ai := range a {
		out[i] = s * ai
	}
	return out
}

func polyEval(a []float64, x float64) float64 {
	y := 0.0
	for _, ai := range a {
		y = y*x + ai
	}
	return y
}

func polyDeriv(a []float64) []float64 {
	if len(a) <= 1 {
		return []float64{0}
	}
	out := make([]float64, len(a)-1)
	n := len(a) - 1
	for i := 0; i < n; i++ {
		out[i] = a[i] * float64(n-i)
	}
	return out
}

// realRoots returns the real roots of the polynomial, each polished by a
// few Newton steps. Degree one and two are solved directly; higher degrees
// go through the companion matrix eigenvalues. Roots with a small imaginary
// part relative to their magnitude are accepted as real, which is what the
// tangent-circle cases of the quartic resultants produce.
func realRoots(coeffs []float64) []float64 {
	// Trim negligible leading coefficients.
	maxc := 0.0
	for _, c := range coeffs {
		if a := math.Abs(c); a > maxc {
			maxc = a
		}
	}
	if maxc == 0 {
		return nil
	}
	i := 0
	for i < len(coeffs)-1 && math.Abs(coeffs[i]) < 1e-12*maxc {
		i++
	}
	c := coeffs[i:]
	deg := len(c) - 1
	if deg < 1 {
		return nil
	}

	var roots []float64
	switch deg {
	case 1:
		roots = []float64{-c[1] / c[0]}
	case 2:
		a, b, cc := c[0], c[1], c[2]
		disc := b*b - 4*a*cc
		if disc < 0 {
			// Accept a tangent double root when the discriminant is only
			// marginally negative.
			if disc > -1e-10*(b*b+math.Abs(4*a*cc)+1) {
				roots = []float64{-b / (2 * a)}
			}
			break
		}
		s := math.Sqrt(disc)
		// Stable quadratic formula.
		var q float64
		if b >= 0 {
			q = -(b + s) / 2
		} else {
			q = -(b - s) / 2
		}
		roots = []float64{q / a}
		if q != 0 {
			roots = append(roots, cc/q)
		} else {
			roots = append(roots, 0)
		}
	default:
		// Companion matrix of the monic polynomial.
		monic := make([]float64, deg)
		for k := 0; k < deg; k++ {
			monic[k] = c[k+1] / c[0]
		}
		a := mat.NewDense(deg, deg, nil)
		for r := 1; r < deg; r++ {
			a.Set(r, r-1, 1)
		}
		for r := 0; r < deg; r++ {
			a.Set(r, deg-1, -monic[deg-1-r])
		}
		var eig mat.Eigen
		if !eig.Factorize(a, mat.EigenNone) {
			return nil
		}
		for _, v := range eig.Values(nil) {
			if math.Abs(imag(v)) < 1e-8*(1+math.Abs(real(v))) {
				roots = append(roots, real(v))
			}
		}
	}

	dc := polyDeriv(c)
	for k, r := range roots {
		roots[k] = newtonPolish(c, dc, r)
	}
	return dedupeFloats(roots)
}

func newtonPolish(c, dc []float64, x float64) float64 {
	for i := 0; i < 3; i++ {
		f := polyEval(c, x)
		df := polyEval(dc, x)
		if math.Abs(df) < 1e-14*(1+math.Abs(f)) {
			break
		}
		step := f / df
		if !finite(step) {
			break
		}
		x -= step
	}
	return x
}

func dedupeFloats(xs []float64) []float64 {
	var out []float64
	for _, x := range xs {
		dup := false
		for _, y := range out {
			if math.Abs(x-y) < 1e-9*(1+math.Abs(x)) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, x)
		}
	}
	return out
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
