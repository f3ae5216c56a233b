package refl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterpolatedModel(t *testing.T) {
	model, err := NewInterpolatedModel(
		[]float64{0.1, 0.2, 0.4},
		[]float64{1.0, 0.5, 0.1},
	)
	require.NoError(t, err)

	r, err := model.Reflectivity([]float64{0.1, 0.15, 0.3, 0.4})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, r[0], 1e-12)
	assert.InDelta(t, 0.75, r[1], 1e-12)
	assert.InDelta(t, 0.3, r[2], 1e-12)
	assert.InDelta(t, 0.1, r[3], 1e-12)
}

func TestInterpolatedModel_ClampsOutsideRange(t *testing.T) {
	model, err := NewInterpolatedModel([]float64{0.1, 0.2}, []float64{1.0, 0.5})
	require.NoError(t, err)

	r, err := model.Reflectivity([]float64{0.01, 0.9})
	require.NoError(t, err)
	assert.Equal(t, 1.0, r[0])
	assert.Equal(t, 0.5, r[1])
}

func TestInterpolatedModel_Validation(t *testing.T) {
	tests := []struct {
		name string
		q, r []float64
	}{
		{"length mismatch", []float64{0.1, 0.2}, []float64{1.0}},
		{"too short", []float64{0.1}, []float64{1.0}},
		{"not increasing", []float64{0.2, 0.1}, []float64{1.0, 0.5}},
		{"duplicate", []float64{0.1, 0.1}, []float64{1.0, 0.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewInterpolatedModel(tt.q, tt.r)
			assert.ErrorIs(t, err, ErrInvalidStructure)
		})
	}
}

func TestParameter_ImportanceDefault(t *testing.T) {
	assert.Equal(t, 1.0, NewParameter("p", 3).importance())
	assert.Equal(t, 1.0, (&Parameter{Name: "literal"}).importance())
	p := NewParameter("weighted", 3)
	p.Importance = 2.5
	assert.Equal(t, 2.5, p.importance())
}

func TestParameter_WithValueRestores(t *testing.T) {
	p := NewParameter("thick", 100)
	_, err := p.withValue(105, func() ([]float64, error) {
		assert.Equal(t, 105.0, p.Value)
		return nil, assert.AnError
	})
	assert.Error(t, err)
	assert.Equal(t, 100.0, p.Value)
}
