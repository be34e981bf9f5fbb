// Package analysis implements the prop probability model, the per-player
// prop evaluator and the parlay composer.
package analysis

import (
	"math"

	"github.com/1ogcotu/s-b-a/internal/models"
)

// degenerateStdEpsilon is the threshold below which an adjusted standard
// deviation is treated as zero. The normal approximation has no defined
// exceedance probability at zero spread, so such pairs are excluded.
const degenerateStdEpsilon = 1e-9

// ModelResult holds the outputs of a single stat model evaluation.
type ModelResult struct {
	Probability   float64 `json:"probability"`
	ExpectedValue float64 `json:"expected_value"`
	Trend         float64 `json:"trend"`
	AdjustedMean  float64 `json:"adjusted_mean"`
	AdjustedStd   float64 `json:"adjusted_std"`
}

// EvaluateStat fits the trend-adjusted normal model to a player's historical
// samples and scores the probability that the statistic exceeds line.
//
// The expected value uses the line itself as an odds proxy
// (p*(line/100) - (1-p)); this is deliberately kept as-is rather than a real
// payout calculation, so rankings stay comparable across catalog versions.
// The probability is not clamped to [0, 1].
func EvaluateStat(samples []float64, line, matchupFactor, varianceFactor float64) (ModelResult, error) {
	if len(samples) < 2 {
		return ModelResult{}, models.ErrInsufficientHistory
	}

	mean, std := meanStd(samples)
	trend := trendSlope(samples)

	adjustedMean := mean * matchupFactor * (1 + trend)
	adjustedStd := std * varianceFactor
	if adjustedStd < degenerateStdEpsilon {
		return ModelResult{}, models.ErrDegenerateStdDev
	}

	z := (line - adjustedMean) / adjustedStd
	probability := 1 - normalCDF(z)

	return ModelResult{
		Probability:   probability,
		ExpectedValue: expectedValue(probability, line),
		Trend:         trend,
		AdjustedMean:  adjustedMean,
		AdjustedStd:   adjustedStd,
	}, nil
}

// normalCDF evaluates the standard normal CDF via the Gauss error function.
func normalCDF(z float64) float64 {
	return 0.5 * (1 + math.Erf(z/math.Sqrt2))
}

// expectedValue scores wager favorability treating line/100 as the payout
// odds.
func expectedValue(probability, line float64) float64 {
	odds := line / 100
	return probability*odds - (1 - probability)
}

// meanStd returns the arithmetic mean and population standard deviation.
func meanStd(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	variance /= float64(len(values))
	return mean, math.Sqrt(variance)
}

// trendSlope returns the ordinary least squares slope of sample value against
// 0-based sample index, capturing recency direction.
func trendSlope(values []float64) float64 {
	n := float64(len(values))
	if n < 2 {
		return 0
	}
	var sumX, sumY, sumXY, sumXX float64
	for i, v := range values {
		x := float64(i)
		sumX += x
		sumY += v
		sumXY += x * v
		sumXX += x * x
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}
	return (n*sumXY - sumX*sumY) / denom
}
