// SPDX-License-Identifier: MIT
package estimator

// YIN is the time-domain difference-function estimator after
// de Cheveigné & Kawahara (2002). It is the most accurate of the three
// estimators on voiced human signal and the most expensive (O(N²)),
// so the cascade tries it first.
type YIN struct {
	// Threshold is the absolute threshold on the cumulative-mean
	// normalized difference function. Lower values demand cleaner
	// periodicity before a pitch is reported.
	Threshold float64
}

// NewYIN returns a YIN estimator with the given CMNDF threshold.
func NewYIN(threshold float64) *YIN {
	return &YIN{Threshold: threshold}
}

// Name implements Estimator.
func (y *YIN) Name() string { return "yin" }

// Estimate runs the YIN pipeline: difference function, cumulative-mean
// normalization, absolute-threshold search with local-minimum
// refinement, and parabolic interpolation of the chosen lag.
func (y *YIN) Estimate(samples []float64, sampleRate float64) Estimate {
	half := len(samples) / 2
	if half < 2 || sampleRate <= 0 {
		return Estimate{}
	}

	// Difference function d(tau) over lags [0, N/2).
	diff := make([]float64, half)
	for tau := 0; tau < half; tau++ {
		sum := 0.0
		for i := 0; i < half; i++ {
			delta := samples[i] - samples[i+tau]
			sum += delta * delta
		}
		diff[tau] = sum
	}

	// Cumulative-mean normalized difference, with d'(0) fixed at 1.
	cmndf := make([]float64, half)
	cmndf[0] = 1
	runningSum := 0.0
	for tau := 1; tau < half; tau++ {
		runningSum += diff[tau]
		if runningSum == 0 {
			cmndf[tau] = 1
		} else {
			cmndf[tau] = diff[tau] * float64(tau) / runningSum
		}
	}

	// First lag under the threshold, then walk forward while the
	// function keeps decreasing so a premature dip is not chosen.
	tau := -1
	for t := 2; t < half; t++ {
		if cmndf[t] < y.Threshold {
			tau = t
			for tau+1 < half && cmndf[tau+1] < cmndf[tau] {
				tau++
			}
			break
		}
	}
	if tau < 0 {
		return Estimate{}
	}

	refined := float64(tau) + parabolicPeak(cmndf, tau)
	if refined <= 0 {
		return Estimate{}
	}

	return Estimate{
		Frequency: sampleRate / refined,
		Strength:  clampUnit(1 - cmndf[tau]),
	}
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
