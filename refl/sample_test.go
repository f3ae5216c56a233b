package refl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSample wires two contrast models and their varying parameters through
// the Sample boundary employed by external sample-construction code.
type stubSample struct {
	thick *Parameter
	bkg   *Parameter
	plans [][]MeasurementCondition
}

func (s *stubSample) Models() []Model {
	return []Model{decayModel(s.thick, s.bkg), decayModel(s.thick, s.bkg)}
}

func (s *stubSample) VaryingParameters() []*Parameter {
	return []*Parameter{s.thick, s.bkg}
}

func (s *stubSample) Simulate(plan []MeasurementCondition) ([]Dataset, error) {
	s.plans = append(s.plans, plan)
	datasets := make([]Dataset, 2)
	for i := range datasets {
		sim, err := NewSimulator([]Model{s.Models()[i]}, plan,
			SimulatorConfig{}, newRandFromSeed(int64(i)))
		if err != nil {
			return nil, err
		}
		datasets[i], err = sim.Simulate()
		if err != nil {
			return nil, err
		}
	}
	return datasets, nil
}

func TestFisherFromSample(t *testing.T) {
	sample := &stubSample{
		thick: NewParameter("thick", 100),
		bkg:   NewParameter("bkg", 5),
	}
	plan := []MeasurementCondition{{Angle: 0.7, Points: 50, Time: 100000}}

	fisher, err := FisherFromSample(sample, plan, 0)
	require.NoError(t, err)
	require.Len(t, sample.plans, 1, "sample simulated exactly once")

	g, err := fisher.FisherInformation()
	require.NoError(t, err)

	r, c := g.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 2, c)
	for i := 0; i < 2; i++ {
		assert.GreaterOrEqual(t, g.At(i, i), 0.0)
	}

	min, err := fisher.MinEigenvalue()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, min, -1e-10)
}

type lopsidedSample struct{ stubSample }

func (s *lopsidedSample) Simulate(plan []MeasurementCondition) ([]Dataset, error) {
	return []Dataset{{}}, nil // one dataset for two models
}

func TestFisherFromSample_DatasetModelMismatch(t *testing.T) {
	sample := &lopsidedSample{stubSample{
		thick: NewParameter("thick", 100),
		bkg:   NewParameter("bkg", 5),
	}}
	_, err := FisherFromSample(sample, nil, 0)
	assert.ErrorIs(t, err, ErrInvalidStructure)
}
