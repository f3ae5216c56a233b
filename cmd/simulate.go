package cmd

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/refsim/refsim/refl"
)

var (
	planPath   string   // YAML measurement plan
	modelPaths []string // reflectivity curve CSVs, one per spin state
	seed       int64    // master seed for count sampling
	outPath    string   // output CSV path ("-" for stdout)
)

// simulateCmd simulates a measurement plan against tabulated reflectivity
// curves and writes the noisy datasets as CSV.
var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Simulate a measurement plan against a reflectivity curve",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := LoadPlanConfig(planPath)
		if err != nil {
			logrus.Fatalf("Unable to load measurement plan: %v", err)
		}
		if len(modelPaths) == 0 {
			logrus.Fatalf("No reflectivity curve given; pass --model")
		}

		models := make([]refl.Model, 0, len(modelPaths))
		for _, path := range modelPaths {
			model, err := loadCurve(path)
			if err != nil {
				logrus.Fatalf("Unable to load curve %s: %v", path, err)
			}
			models = append(models, model)
		}

		states, err := cfg.ParseSpinStates()
		if err != nil {
			logrus.Fatalf("Bad measurement plan: %v", err)
		}

		rng := refl.NewPartitionedRNG(refl.NewSimulationKey(seed))
		simCfg := refl.SimulatorConfig{Instrument: cfg.Instrument, AngleScale: cfg.AngleScale}

		logrus.Infof("Simulating %d conditions on %s with seed %d",
			len(cfg.Conditions), simCfg.Instrument, seed)

		if len(states) == 0 {
			sim, err := refl.NewSimulator(models, cfg.Plan(), simCfg,
				rng.ForSubsystem(refl.SubsystemCounts))
			if err != nil {
				logrus.Fatalf("Unable to build simulator: %v", err)
			}
			dataset, err := sim.Simulate()
			if err != nil {
				logrus.Fatalf("Simulation failed: %v", err)
			}
			if err := writeDataset(dataset, outPath); err != nil {
				logrus.Fatalf("Unable to write dataset: %v", err)
			}
			logrus.Infof("Wrote %d points", dataset.Len())
			return
		}

		// Polarised run: one dataset per spin state, each from its own
		// reproducible count stream.
		for _, state := range states {
			sim, err := refl.NewSimulator(models, cfg.Plan(), simCfg,
				rng.ForSubsystem(refl.SubsystemSpinState(state)))
			if err != nil {
				logrus.Fatalf("Unable to build simulator: %v", err)
			}
			datasets, err := sim.SimulatePolarised([]refl.SpinState{state})
			if err != nil {
				logrus.Fatalf("Simulation failed for spin state %d: %v", state, err)
			}
			path := spinOutPath(outPath, state)
			if err := writeDataset(datasets[0], path); err != nil {
				logrus.Fatalf("Unable to write dataset: %v", err)
			}
			logrus.Infof("Wrote %d points for spin state %d", datasets[0].Len(), state)
		}
	},
}

func init() {
	simulateCmd.Flags().StringVar(&planPath, "plan", "plan.yaml", "Path to YAML measurement plan")
	simulateCmd.Flags().StringSliceVar(&modelPaths, "model", nil, "Reflectivity curve CSV (repeat per spin state)")
	simulateCmd.Flags().Int64Var(&seed, "seed", 42, "Master seed for count sampling")
	simulateCmd.Flags().StringVar(&outPath, "out", "-", "Output CSV path (- for stdout)")
}

// loadCurve reads a (Q, R) CSV, skipping a header row when present.
func loadCurve(path string) (refl.Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	var qs, rs []float64
	row := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		if len(record) < 2 {
			return nil, fmt.Errorf("row %d has %d columns, want 2", row, len(record))
		}
		q, errQ := strconv.ParseFloat(strings.TrimSpace(record[0]), 64)
		r, errR := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		if errQ != nil || errR != nil {
			if row == 0 {
				row++
				continue // header
			}
			return nil, fmt.Errorf("row %d: bad numeric values %q, %q", row, record[0], record[1])
		}
		qs = append(qs, q)
		rs = append(rs, r)
		row++
	}
	return refl.NewInterpolatedModel(qs, rs)
}

func writeDataset(d refl.Dataset, path string) error {
	if path == "-" {
		return d.WriteCSV(os.Stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return d.WriteCSV(f)
}

func spinOutPath(path string, state refl.SpinState) string {
	if path == "-" {
		return path
	}
	ext := ""
	base := path
	if idx := strings.LastIndex(path, "."); idx > 0 {
		base, ext = path[:idx], path[idx:]
	}
	return fmt.Sprintf("%s_spin%d%s", base, state, ext)
}
