package refl

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// DefaultFisherStep is the relative finite-difference step used when none
// is supplied.
const DefaultFisherStep = 0.005

// Fisher computes the Fisher information matrix of one or more reflectivity
// datasets with respect to a shared parameter list. Each dataset contributes
// J^T M J, where J is the central-difference Jacobian of its model's
// reflectivity with respect to the parameters and M is the diagonal of
// incident counts over baseline reflectivity; contributions from independent
// datasets add.
//
// After accumulation two rescalings apply:
//   - when every parameter carries bounds, a congruence transform H g H with
//     H = diag(1/(upper-lower)) normalizes heterogeneous parameter units to
//     unit range;
//   - when any parameter carries a non-default importance, each column j is
//     multiplied by that parameter's importance. This column-only scaling
//     leaves the matrix asymmetric; it is kept because downstream consumers
//     depend on it.
//
// The matrix is computed lazily and memoized; build a new Fisher to use new
// inputs. A Fisher must not share parameters with another engine running
// concurrently: the finite-difference sweep mutates parameter values in
// place (and restores them) within a single call stack.
type Fisher struct {
	qs     [][]float64
	params []*Parameter
	counts [][]float64
	models []Model
	step   float64

	g *mat.Dense // memoized information matrix
}

// NewFisher builds a Fisher engine over parallel per-dataset lists of
// Q points, incident counts and models. A non-positive step takes
// DefaultFisherStep.
func NewFisher(qs [][]float64, params []*Parameter, counts [][]float64, models []Model, step float64) (*Fisher, error) {
	if step <= 0 {
		step = DefaultFisherStep
	}
	if len(qs) != 0 {
		if len(counts) != len(qs) || len(models) != len(qs) {
			return nil, fmt.Errorf("%w: %d Q arrays, %d count arrays, %d models",
				ErrInvalidStructure, len(qs), len(counts), len(models))
		}
		for i := range qs {
			if len(counts[i]) < len(qs[i]) {
				return nil, fmt.Errorf("%w: dataset %d has %d Q points but %d counts",
					ErrInvalidStructure, i, len(qs[i]), len(counts[i]))
			}
			if models[i] == nil {
				return nil, fmt.Errorf("%w: model %d is nil", ErrInvalidStructure, i)
			}
		}
	}
	for i, p := range params {
		if p == nil {
			return nil, fmt.Errorf("%w: parameter %d is nil", ErrInvalidStructure, i)
		}
	}
	return &Fisher{qs: qs, params: params, counts: counts, models: models, step: step}, nil
}

// FisherInformation returns the (n, n) information matrix for n parameters.
// An empty parameter list yields an empty (0, 0) matrix; datasets with no Q
// points yield an all-zero matrix. Both cases skip model evaluation.
func (f *Fisher) FisherInformation() (*mat.Dense, error) {
	if f.g != nil {
		return f.g, nil
	}
	g, err := f.compute()
	if err != nil {
		return nil, err
	}
	f.g = g
	return f.g, nil
}

func (f *Fisher) compute() (*mat.Dense, error) {
	n := len(f.params)
	if n == 0 {
		return &mat.Dense{}, nil
	}

	g := mat.NewDense(n, n, nil)
	totalQ := 0
	for _, q := range f.qs {
		totalQ += len(q)
	}
	if totalQ == 0 {
		return g, nil
	}

	for i := range f.qs {
		if len(f.qs[i]) == 0 {
			continue
		}
		if err := f.accumulate(g, f.qs[i], f.counts[i], f.models[i]); err != nil {
			return nil, err
		}
	}

	f.rescaleBounds(g)
	f.rescaleImportance(g)
	return g, nil
}

// accumulate adds one dataset's J^T M J contribution to g.
func (f *Fisher) accumulate(g *mat.Dense, q, counts []float64, model Model) error {
	eval := func() ([]float64, error) {
		r, err := model.Reflectivity(q)
		if err != nil {
			return nil, err
		}
		if len(r) != len(q) {
			return nil, fmt.Errorf("%w: model returned %d values for %d Q points",
				ErrInvalidStructure, len(r), len(q))
		}
		return r, nil
	}

	r0, err := eval()
	if err != nil {
		return err
	}

	jac := mat.NewDense(len(q), len(f.params), nil)
	for j, p := range f.params {
		// Relative step, falling back to an absolute one at zero so the
		// perturbation never degenerates.
		delta := p.Value * f.step
		if delta == 0 {
			delta = f.step
		}

		plus, err := p.withValue(p.Value+delta, eval)
		if err != nil {
			return err
		}
		minus, err := p.withValue(p.Value-delta, eval)
		if err != nil {
			return err
		}
		for i := range q {
			jac.Set(i, j, (plus[i]-minus[i])/(2*delta))
		}
	}

	// Zero and non-finite baselines carry no statistical weight.
	weights := make([]float64, len(q))
	for i, r := range r0 {
		if r != 0 && !math.IsInf(r, 0) && !math.IsNaN(r) {
			weights[i] = counts[i] / r
		}
	}
	m := mat.NewDiagDense(len(q), weights)

	var contrib mat.Dense
	contrib.Product(jac.T(), m, jac)
	g.Add(g, &contrib)
	return nil
}

// rescaleBounds applies H g H with H = diag(1/(upper-lower)), but only when
// every parameter is bounded.
func (f *Fisher) rescaleBounds(g *mat.Dense) {
	h := make([]float64, len(f.params))
	for i, p := range f.params {
		if p.Bounds == nil {
			return
		}
		h[i] = 1 / p.Bounds.Width()
	}
	diag := mat.NewDiagDense(len(h), h)
	var scaled mat.Dense
	scaled.Product(diag, g, diag)
	g.Copy(&scaled)
}

// rescaleImportance multiplies each column by its parameter's importance
// when any parameter declares a non-default weight.
func (f *Fisher) rescaleImportance(g *mat.Dense) {
	anyWeighted := false
	for _, p := range f.params {
		if p.importance() != 1 {
			anyWeighted = true
			break
		}
	}
	if !anyWeighted {
		return
	}
	n := len(f.params)
	for j, p := range f.params {
		w := p.importance()
		for i := 0; i < n; i++ {
			g.Set(i, j, g.At(i, j)*w)
		}
	}
}

// MinEigenvalue returns the smallest eigenvalue of the information matrix,
// a scalar quality metric for a measurement design (higher is better). The
// matrix is symmetrized from its upper triangle before decomposition. An
// empty (0, 0) matrix yields ErrInvalidMatrix.
func (f *Fisher) MinEigenvalue() (float64, error) {
	g, err := f.FisherInformation()
	if err != nil {
		return 0, err
	}
	n, _ := g.Dims()
	if n == 0 {
		return 0, fmt.Errorf("%w: no eigenvalues for an empty matrix", ErrInvalidMatrix)
	}

	sym := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			sym.SetSym(i, j, g.At(i, j))
		}
	}

	var eig mat.EigenSym
	if ok := eig.Factorize(sym, false); !ok {
		return 0, fmt.Errorf("%w: eigendecomposition failed", ErrInvalidMatrix)
	}
	values := eig.Values(nil)
	min := values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
	}
	return min, nil
}
