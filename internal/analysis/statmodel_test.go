package analysis

import (
	"errors"
	"math"
	"testing"

	"github.com/1ogcotu/s-b-a/internal/models"
)

func TestEvaluateStatRequiresTwoSamples(t *testing.T) {
	_, err := EvaluateStat([]float64{50}, 40, 1.0, 1.0)
	if !errors.Is(err, models.ErrInsufficientHistory) {
		t.Fatalf("expected ErrInsufficientHistory, got %v", err)
	}

	_, err = EvaluateStat(nil, 40, 1.0, 1.0)
	if !errors.Is(err, models.ErrInsufficientHistory) {
		t.Fatalf("expected ErrInsufficientHistory for nil samples, got %v", err)
	}
}

func TestEvaluateStatDegenerateStdDev(t *testing.T) {
	// Constant history has zero population std; the normal model has no
	// defined exceedance probability there, regardless of line placement.
	constant := []float64{20, 20, 20, 20, 20}

	for _, line := range []float64{10.0, 20.0, 30.0} {
		_, err := EvaluateStat(constant, line, 1.0, 1.0)
		if !errors.Is(err, models.ErrDegenerateStdDev) {
			t.Fatalf("line %v: expected ErrDegenerateStdDev, got %v", line, err)
		}
	}
}

func TestEvaluateStatLineSensitivity(t *testing.T) {
	// Trendless samples: the adjusted mean stays at the arithmetic mean.
	samples := []float64{49, 51, 50, 51, 49}

	below, err := EvaluateStat(samples, 40, 1.0, 1.0)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	above, err := EvaluateStat(samples, 60, 1.0, 1.0)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if below.Probability <= 0.5 {
		t.Errorf("expected probability > 0.5 for line below mean, got %v", below.Probability)
	}
	if above.Probability >= 0.5 {
		t.Errorf("expected probability < 0.5 for line above mean, got %v", above.Probability)
	}
}

func TestEvaluateStatMonotonicInLine(t *testing.T) {
	samples := []float64{100, 95, 105, 98, 102}

	prev := math.Inf(1)
	for line := 50.0; line <= 150.0; line += 5 {
		result, err := EvaluateStat(samples, line, 1.0, 1.0)
		if err != nil {
			t.Fatalf("line %v: expected no error, got %v", line, err)
		}
		if result.Probability > prev {
			t.Fatalf("probability increased from %v to %v at line %v", prev, result.Probability, line)
		}
		prev = result.Probability
	}
}

func TestEvaluateStatTrendAdjustsMean(t *testing.T) {
	rising := []float64{10, 20, 30, 40, 50}
	falling := []float64{50, 40, 30, 20, 10}

	up, err := EvaluateStat(rising, 30, 1.0, 1.0)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	down, err := EvaluateStat(falling, 30, 1.0, 1.0)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if up.Trend != 10 {
		t.Errorf("expected OLS slope 10 for rising samples, got %v", up.Trend)
	}
	if down.Trend != -10 {
		t.Errorf("expected OLS slope -10 for falling samples, got %v", down.Trend)
	}
	// Same mean and spread, so the trend term alone separates them.
	if up.Probability <= down.Probability {
		t.Errorf("expected rising trend to boost probability: up=%v down=%v", up.Probability, down.Probability)
	}
}

func TestEvaluateStatExpectedValueFormula(t *testing.T) {
	samples := []float64{48, 52, 50, 49, 51}
	line := 45.0

	result, err := EvaluateStat(samples, line, 1.0, 1.0)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	want := result.Probability*(line/100) - (1 - result.Probability)
	if math.Abs(result.ExpectedValue-want) > 1e-12 {
		t.Fatalf("expected EV %v, got %v", want, result.ExpectedValue)
	}
}

func TestEvaluateStatVarianceFactorWidensSpread(t *testing.T) {
	samples := []float64{49, 51, 50, 51, 49} // trendless, mean 50
	line := 55.0                             // above the adjusted mean

	standard, err := EvaluateStat(samples, line, 1.0, 1.0)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	widened, err := EvaluateStat(samples, line, 1.0, 1.5)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if widened.AdjustedStd <= standard.AdjustedStd {
		t.Errorf("expected wider spread with larger variance factor")
	}
	// A wider spread pulls tail probabilities toward 0.5.
	if widened.Probability <= standard.Probability {
		t.Errorf("expected higher tail probability with wider spread: %v vs %v", widened.Probability, standard.Probability)
	}
}
