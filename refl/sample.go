package refl

import "fmt"

// Sample is the narrow boundary to external sample-construction code: a
// sample can enumerate its reflectivity models (one per contrast or spin
// state), its varying parameters in a stable order, and simulate itself
// under a measurement plan, yielding one dataset per model.
type Sample interface {
	Models() []Model
	VaryingParameters() []*Parameter
	Simulate(plan []MeasurementCondition) ([]Dataset, error)
}

// FisherFromSample simulates the sample under the plan and builds a Fisher
// engine from the resulting per-model datasets. A non-positive step takes
// DefaultFisherStep.
func FisherFromSample(sample Sample, plan []MeasurementCondition, step float64) (*Fisher, error) {
	datasets, err := sample.Simulate(plan)
	if err != nil {
		return nil, err
	}
	models := sample.Models()
	if len(datasets) != len(models) {
		return nil, fmt.Errorf("%w: sample simulated %d datasets for %d models",
			ErrInvalidStructure, len(datasets), len(models))
	}

	qs := make([][]float64, len(datasets))
	counts := make([][]float64, len(datasets))
	for i, ds := range datasets {
		qs[i] = ds.Q
		counts[i] = ds.Counts
	}
	return NewFisher(qs, sample.VaryingParameters(), counts, models, step)
}
