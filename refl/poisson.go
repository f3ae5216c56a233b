package refl

import (
	"math"
	"math/rand"
)

// ptrsCutoff is the mean above which inversion by multiplication becomes
// slower and less accurate than transformed rejection.
const ptrsCutoff = 30.0

// poissonRand draws an integer-valued sample from Poisson(mean) using the
// supplied RNG. Non-positive means return 0.
//
// Small means use Knuth multiplication; large means use Hormann's PTRS
// transformed rejection, which has bounded rejection probability for all
// mean >= 10.
func poissonRand(rng *rand.Rand, mean float64) float64 {
	if mean <= 0 || math.IsNaN(mean) {
		return 0
	}
	if mean < ptrsCutoff {
		return poissonKnuth(rng, mean)
	}
	return poissonPTRS(rng, mean)
}

func poissonKnuth(rng *rand.Rand, mean float64) float64 {
	limit := math.Exp(-mean)
	k := 0.0
	p := 1.0
	for {
		p *= rng.Float64()
		if p <= limit {
			return k
		}
		k++
	}
}

// poissonPTRS implements the PTRS sampler of Hormann (1993).
func poissonPTRS(rng *rand.Rand, mean float64) float64 {
	b := 0.931 + 2.53*math.Sqrt(mean)
	a := -0.059 + 0.02483*b
	invAlpha := 1.1239 + 1.1328/(b-3.4)
	vr := 0.9277 - 3.6224/(b-2)
	logMean := math.Log(mean)

	for {
		u := rng.Float64() - 0.5
		v := rng.Float64()
		us := 0.5 - math.Abs(u)
		k := math.Floor((2*a/us+b)*u + mean + 0.43)

		if us >= 0.07 && v <= vr {
			return k
		}
		if k < 0 || (us < 0.013 && v > us) {
			continue
		}
		lgamma, _ := math.Lgamma(k + 1)
		if math.Log(v*invAlpha/(a/(us*us)+b)) <= k*logMean-mean-lgamma {
			return k
		}
	}
}
