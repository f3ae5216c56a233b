package refl

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// SpinState identifies a polarisation channel of a magnetic sample. It
// doubles as the index into the simulator's model list.
type SpinState int

const (
	SpinUp SpinState = iota
	SpinDown
)

const (
	// DefaultInstrument is used when SimulatorConfig.Instrument is empty.
	DefaultInstrument = "OFFSPEC"

	// DefaultAngleScale is the angle in degrees at which the bundled direct
	// beam spectra were measured.
	DefaultAngleScale = 0.3
)

// SimulatorConfig groups the instrument settings of a Simulator.
// Zero-valued fields take the package defaults.
type SimulatorConfig struct {
	Instrument string  // built-in instrument name or path to a spectrum file
	AngleScale float64 // reference angle of the direct beam spectrum (degrees)
}

// Simulator produces synthetic noisy reflectivity data for a sample model
// under a measurement plan, with Poisson counting statistics drawn from an
// injected random source. Magnetic samples supply one model per spin state;
// non-polarised samples supply a single model.
//
// A Simulator is stateless across calls apart from the random source it was
// given: two simulators built from identically-seeded sources produce
// identical datasets.
type Simulator struct {
	models     []Model
	plan       []MeasurementCondition
	instrument string
	angleScale float64
	rng        *rand.Rand
}

// NewSimulator validates the plan and builds a Simulator. The random source
// is mandatory; use PartitionedRNG to derive reproducible streams from a
// single seed.
func NewSimulator(models []Model, plan []MeasurementCondition, cfg SimulatorConfig, rng *rand.Rand) (*Simulator, error) {
	if len(models) == 0 {
		return nil, fmt.Errorf("%w: simulator needs at least one model", ErrInvalidStructure)
	}
	for i, m := range models {
		if m == nil {
			return nil, fmt.Errorf("%w: model %d is nil", ErrInvalidStructure, i)
		}
	}
	if err := validatePlan(plan); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("nil random source; inject one, e.g. via PartitionedRNG")
	}
	if cfg.Instrument == "" {
		cfg.Instrument = DefaultInstrument
	}
	if cfg.AngleScale == 0 {
		cfg.AngleScale = DefaultAngleScale
	}
	return &Simulator{
		models:     models,
		plan:       plan,
		instrument: cfg.Instrument,
		angleScale: cfg.AngleScale,
		rng:        rng,
	}, nil
}

// Simulate runs one non-polarised pass over the measurement plan and returns
// the merged dataset: zero-count points removed, sorted ascending by Q.
func (s *Simulator) Simulate() (Dataset, error) {
	beam, err := LoadDirectBeam(s.instrument, false)
	if err != nil {
		return Dataset{}, err
	}
	runs := make([]Dataset, 0, len(s.plan))
	for _, cond := range s.plan {
		run, err := s.runExperiment(beam, cond, s.models[0])
		if err != nil {
			return Dataset{}, err
		}
		runs = append(runs, run)
	}
	return mergeRuns(runs), nil
}

// SimulatePolarised runs the measurement plan once per requested spin state
// against the polarised direct beam, returning one merged dataset per state
// in the order requested.
func (s *Simulator) SimulatePolarised(states []SpinState) ([]Dataset, error) {
	beam, err := LoadDirectBeam(s.instrument, true)
	if err != nil {
		return nil, err
	}
	datasets := make([]Dataset, 0, len(states))
	for _, state := range states {
		model, err := s.modelFor(state)
		if err != nil {
			return nil, err
		}
		runs := make([]Dataset, 0, len(s.plan))
		for _, cond := range s.plan {
			run, err := s.runExperiment(beam, cond, model)
			if err != nil {
				return nil, err
			}
			runs = append(runs, run)
		}
		datasets = append(datasets, mergeRuns(runs))
	}
	return datasets, nil
}

// Reflectivity evaluates the non-polarised model at arbitrary Q points.
// Empty input returns an empty slice without touching the model.
func (s *Simulator) Reflectivity(q []float64) ([]float64, error) {
	return s.reflectivity(q, s.models[0])
}

// ReflectivitySpin evaluates the model for the given spin state.
func (s *Simulator) ReflectivitySpin(q []float64, state SpinState) ([]float64, error) {
	model, err := s.modelFor(state)
	if err != nil {
		return nil, err
	}
	return s.reflectivity(q, model)
}

func (s *Simulator) reflectivity(q []float64, model Model) ([]float64, error) {
	if len(q) == 0 {
		return []float64{}, nil
	}
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

func (s *Simulator) modelFor(state SpinState) (Model, error) {
	if int(state) < 0 || int(state) >= len(s.models) {
		return nil, fmt.Errorf("%w: no model for spin state %d (%d models)",
			ErrInvalidStructure, state, len(s.models))
	}
	return s.models[int(state)], nil
}

// runExperiment simulates a single measurement condition: scale the direct
// beam flux to the measurement angle, histogram it into geometric Q bins,
// and draw reflected counts from the counting statistics.
func (s *Simulator) runExperiment(beam *DirectBeamSpectrum, cond MeasurementCondition, model Model) (Dataset, error) {
	if cond.Points == 0 {
		return Dataset{}, nil
	}

	// Slit-scaling approximation: both slits open linearly with angle, so
	// flux grows with the square of the angle ratio.
	angleFactor := (cond.Angle / s.angleScale) * (cond.Angle / s.angleScale)

	q := make([]float64, beam.Len())
	scaledFlux := make([]float64, beam.Len())
	sinTheta := math.Sin(cond.Angle * math.Pi / 180)
	for i, wavelength := range beam.Wavelength {
		q[i] = 4 * math.Pi * sinTheta / wavelength
		scaledFlux[i] = beam.Flux[i] * angleFactor
	}

	// Geometrically-spaced bin edges over the measured Q range. The
	// wavelength ordering of the spectrum file does not matter here.
	edges := floats.LogSpan(make([]float64, cond.Points+1), floats.Min(q), floats.Max(q))

	counts := make([]float64, cond.Points)
	for i, x := range q {
		bin, ok := locateBin(edges, x)
		if !ok {
			continue
		}
		counts[bin] += scaledFlux[i] * cond.Time
	}

	centers := make([]float64, cond.Points)
	for i := range centers {
		centers[i] = (edges[i] + edges[i+1]) / 2
	}

	rModel, err := s.reflectivity(centers, model)
	if err != nil {
		return Dataset{}, err
	}

	rNoisy := make([]float64, cond.Points)
	rError := make([]float64, cond.Points)
	for i := range centers {
		reflected := poissonRand(s.rng, rModel[i]*counts[i])
		// A zero-flux bin measures nothing; define its point as exactly zero.
		if counts[i] == 0 {
			continue
		}
		rNoisy[i] = reflected / counts[i]
		rError[i] = math.Sqrt(reflected) / counts[i]
	}

	return Dataset{Q: centers, R: rNoisy, DR: rError, Counts: counts}, nil
}

// locateBin maps x onto ascending bin edges: bins are half-open on the
// right, except the last bin which includes the top edge.
func locateBin(edges []float64, x float64) (int, bool) {
	if x < edges[0] || x > edges[len(edges)-1] {
		return 0, false
	}
	idx := sort.SearchFloat64s(edges, x)
	if idx == 0 {
		return 0, true
	}
	if edges[idx] == x && idx < len(edges)-1 {
		return idx, true
	}
	return idx - 1, true
}
