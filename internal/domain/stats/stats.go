// Package stats computes descriptive statistics and distribution shape over
// numeric samples.
//
// Estimators are the standard unbiased ones (n-1 variance denominator). The
// distribution label is a deterministic banding on skewness and kurtosis for
// UX purposes, not a goodness-of-fit test.
package stats

import (
	"math"
	"sort"

	"github.com/skillbench/skillbench/internal/domain/model"
	"github.com/skillbench/skillbench/internal/domain/types"
)

// Statistical constants.
const (
	// MinSampleSize is the smallest sample the estimators are defined for.
	// Below this the engine returns no result instead of dividing by zero.
	MinSampleSize = 2

	z95            = 1.96
	iqrMultiplier  = 1.5
	skewThreshold  = 1.0
	bimodalKurt    = 3.0
	uniformKurt    = -1.0
	upperQuartile  = 0.75
	lowerQuartile  = 0.25
	excessKurtBase = 3.0
)

// Analyze computes descriptive statistics for sample. The second return is
// false when the sample is too small for the estimators to be defined; all
// returned values are finite for any valid numeric input.
func Analyze(sample []float64) (model.StatisticalAnalysis, bool) {
	n := len(sample)
	if n < MinSampleSize {
		return model.StatisticalAnalysis{}, false
	}

	sorted := make([]float64, n)
	copy(sorted, sample)
	sort.Float64s(sorted)

	mean := meanOf(sorted)
	variance := varianceOf(sorted, mean)
	stdDev := math.Sqrt(variance)
	skew, kurt := shapeOf(sorted, mean, stdDev)

	halfWidth := z95 * stdDev / math.Sqrt(float64(n))

	q1 := Quantile(sorted, lowerQuartile)
	q3 := Quantile(sorted, upperQuartile)
	iqr := q3 - q1

	return model.StatisticalAnalysis{
		SampleSize:        n,
		Mean:              mean,
		Median:            Quantile(sorted, 0.5),
		StandardDeviation: stdDev,
		Variance:          variance,
		Skewness:          skew,
		Kurtosis:          kurt,
		ConfidenceInterval95: model.Interval{
			Lower: mean - halfWidth,
			Upper: mean + halfWidth,
		},
		OutlierThresholds: model.Interval{
			Lower: q1 - iqrMultiplier*iqr,
			Upper: q3 + iqrMultiplier*iqr,
		},
		DistributionType: classify(skew, kurt),
	}, true
}

// Quantile returns the q-th empirical quantile of a sorted sample using
// linear interpolation between order statistics. q is clamped to [0,1].
func Quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[n-1]
	}

	pos := q * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

func meanOf(xs []float64) float64 {
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// varianceOf computes the sample variance with the n-1 denominator.
func varianceOf(xs []float64, mean float64) float64 {
	sum := 0.0
	for _, x := range xs {
		d := x - mean
		sum += d * d
	}
	return sum / float64(len(xs)-1)
}

// shapeOf computes skewness and excess kurtosis. A degenerate sample with
// zero spread has no defined shape; both moments report 0 rather than NaN.
func shapeOf(xs []float64, mean, stdDev float64) (skew, kurt float64) {
	if stdDev == 0 {
		return 0, 0
	}
	n := float64(len(xs))
	for _, x := range xs {
		z := (x - mean) / stdDev
		z3 := z * z * z
		skew += z3
		kurt += z3 * z
	}
	return skew / n, kurt/n - excessKurtBase
}

// classify maps shape moments to a heuristic distribution label.
func classify(skew, kurt float64) types.DistributionType {
	switch {
	case skew > skewThreshold:
		return types.DistributionSkewedRight
	case skew < -skewThreshold:
		return types.DistributionSkewedLeft
	case kurt > bimodalKurt:
		return types.DistributionBimodal
	case kurt < uniformKurt:
		return types.DistributionUniform
	default:
		return types.DistributionNormal
	}
}
