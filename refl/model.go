package refl

import (
	"fmt"
	"sort"
)

// Model evaluates the reflectivity of a sample at a slice of Q points.
// Implementations must return exactly one reflectivity value per Q point.
// This is the only contract the simulator and the Fisher engine require
// from external sample-construction code.
type Model interface {
	Reflectivity(q []float64) ([]float64, error)
}

// ModelFunc adapts a plain function to the Model interface.
type ModelFunc func(q []float64) ([]float64, error)

func (f ModelFunc) Reflectivity(q []float64) ([]float64, error) {
	return f(q)
}

// InterpolatedModel is a Model backed by a tabulated reflectivity curve,
// evaluated by linear interpolation. Queries outside the tabulated range
// clamp to the endpoint values.
type InterpolatedModel struct {
	q, r []float64
}

// NewInterpolatedModel builds an InterpolatedModel from parallel Q and R
// slices. The Q values must be strictly increasing.
func NewInterpolatedModel(q, r []float64) (*InterpolatedModel, error) {
	if len(q) != len(r) {
		return nil, fmt.Errorf("%w: curve has %d Q values but %d R values",
			ErrInvalidStructure, len(q), len(r))
	}
	if len(q) < 2 {
		return nil, fmt.Errorf("%w: curve needs at least 2 points, got %d",
			ErrInvalidStructure, len(q))
	}
	for i := 1; i < len(q); i++ {
		if q[i] <= q[i-1] {
			return nil, fmt.Errorf("%w: curve Q values not strictly increasing at index %d",
				ErrInvalidStructure, i)
		}
	}
	qc := make([]float64, len(q))
	rc := make([]float64, len(r))
	copy(qc, q)
	copy(rc, r)
	return &InterpolatedModel{q: qc, r: rc}, nil
}

func (m *InterpolatedModel) Reflectivity(q []float64) ([]float64, error) {
	out := make([]float64, len(q))
	for i, x := range q {
		out[i] = m.at(x)
	}
	return out, nil
}

func (m *InterpolatedModel) at(x float64) float64 {
	n := len(m.q)
	if x <= m.q[0] {
		return m.r[0]
	}
	if x >= m.q[n-1] {
		return m.r[n-1]
	}
	// First index with q >= x; x is strictly inside the table here.
	hi := sort.SearchFloat64s(m.q, x)
	lo := hi - 1
	t := (x - m.q[lo]) / (m.q[hi] - m.q[lo])
	return m.r[lo] + t*(m.r[hi]-m.r[lo])
}
