package cmd

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/refsim/refsim/refl"
)

// PlanConfig is the YAML measurement plan consumed by `refsim simulate`.
type PlanConfig struct {
	Instrument string          `yaml:"instrument"`
	AngleScale float64         `yaml:"angle_scale"`
	Conditions []ConditionSpec `yaml:"conditions"`
	SpinStates []string        `yaml:"spin_states"`
}

type ConditionSpec struct {
	Angle  float64 `yaml:"angle"`
	Points int     `yaml:"points"`
	Time   float64 `yaml:"time"`
}

// LoadPlanConfig reads and parses a measurement plan file.
func LoadPlanConfig(path string) (*PlanConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading plan %s: %w", path, err)
	}
	var cfg PlanConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing plan %s: %w", path, err)
	}
	if len(cfg.Conditions) == 0 {
		return nil, fmt.Errorf("plan %s has no measurement conditions", path)
	}
	return &cfg, nil
}

// Plan converts the YAML conditions to core measurement conditions.
func (c *PlanConfig) Plan() []refl.MeasurementCondition {
	plan := make([]refl.MeasurementCondition, len(c.Conditions))
	for i, spec := range c.Conditions {
		plan[i] = refl.MeasurementCondition{Angle: spec.Angle, Points: spec.Points, Time: spec.Time}
	}
	return plan
}

// ParseSpinStates maps "up"/"down" names to spin states.
func (c *PlanConfig) ParseSpinStates() ([]refl.SpinState, error) {
	states := make([]refl.SpinState, 0, len(c.SpinStates))
	for _, name := range c.SpinStates {
		switch name {
		case "up":
			states = append(states, refl.SpinUp)
		case "down":
			states = append(states, refl.SpinDown)
		default:
			return nil, fmt.Errorf("unknown spin state %q (want up or down)", name)
		}
	}
	return states, nil
}
