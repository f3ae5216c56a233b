package refl

import "fmt"

// MeasurementCondition is one entry of a measurement plan: a single angle
// measured for a counting time, binned into a number of Q points. Conditions
// are value types; the simulator never mutates them. Plan order only affects
// the concatenation order of simulated points, never the physics.
type MeasurementCondition struct {
	Angle  float64 // degrees
	Points int     // number of Q bins, >= 0
	Time   float64 // counting time in seconds, >= 0
}

func (c MeasurementCondition) validate() error {
	if c.Angle <= 0 {
		return fmt.Errorf("measurement angle must be positive, got %g", c.Angle)
	}
	if c.Points < 0 {
		return fmt.Errorf("point count must be non-negative, got %d", c.Points)
	}
	if c.Time < 0 {
		return fmt.Errorf("counting time must be non-negative, got %g", c.Time)
	}
	return nil
}

func validatePlan(plan []MeasurementCondition) error {
	for i, c := range plan {
		if err := c.validate(); err != nil {
			return fmt.Errorf("condition %d: %w", i, err)
		}
	}
	return nil
}
