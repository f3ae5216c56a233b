package refl

import (
	"math"
	"testing"
)

func TestPoissonRand_DegenerateMeans(t *testing.T) {
	rng := newRandFromSeed(1)
	for _, mean := range []float64{0, -1, -1000, math.NaN()} {
		if got := poissonRand(rng, mean); got != 0 {
			t.Errorf("poissonRand(mean=%v) = %v, want 0", mean, got)
		}
	}
}

func TestPoissonRand_Deterministic(t *testing.T) {
	a := newRandFromSeed(99)
	b := newRandFromSeed(99)
	for i := 0; i < 100; i++ {
		mean := 0.5 + float64(i)
		va, vb := poissonRand(a, mean), poissonRand(b, mean)
		if va != vb {
			t.Fatalf("draw %d: %v != %v for identical seeds", i, va, vb)
		}
	}
}

func TestPoissonRand_IntegerNonNegative(t *testing.T) {
	rng := newRandFromSeed(3)
	for _, mean := range []float64{0.1, 5, 29.9, 30.1, 500} {
		for i := 0; i < 1000; i++ {
			v := poissonRand(rng, mean)
			if v < 0 {
				t.Fatalf("negative draw %v for mean %v", v, mean)
			}
			if v != math.Trunc(v) {
				t.Fatalf("non-integer draw %v for mean %v", v, mean)
			}
		}
	}
}

func TestPoissonRand_Moments(t *testing.T) {
	// Sample mean and variance should land close to the distribution's for
	// both the Knuth regime and the PTRS regime.
	const n = 50000
	rng := newRandFromSeed(12345)
	for _, mean := range []float64{4.0, 250.0} {
		sum, sumSq := 0.0, 0.0
		for i := 0; i < n; i++ {
			v := poissonRand(rng, mean)
			sum += v
			sumSq += v * v
		}
		sampleMean := sum / n
		sampleVar := sumSq/n - sampleMean*sampleMean

		// Allow five standard errors on the mean.
		tol := 5 * math.Sqrt(mean/n)
		if math.Abs(sampleMean-mean) > tol {
			t.Errorf("mean %v: sample mean %v outside %v", mean, sampleMean, tol)
		}
		if math.Abs(sampleVar-mean)/mean > 0.05 {
			t.Errorf("mean %v: sample variance %v deviates more than 5%%", mean, sampleVar)
		}
	}
}
