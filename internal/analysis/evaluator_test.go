package analysis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/1ogcotu/s-b-a/internal/catalog"
	"github.com/1ogcotu/s-b-a/internal/models"
)

// stubHistory is a canned history feed keyed by statistic key.
type stubHistory struct {
	series    map[string][]float64
	failing   map[string]bool
	uncarried map[string]bool
}

func (s *stubHistory) History(_ context.Context, _ models.PlayerContext, statKey string) ([]float64, error) {
	if s.failing[statKey] {
		return nil, fmt.Errorf("feed unavailable for %s", statKey)
	}
	if s.uncarried[statKey] {
		return nil, fmt.Errorf("%w: no feed statistic for %q", models.ErrNoHistory, statKey)
	}
	return s.series[statKey], nil
}

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func demoCatalog(defs ...models.PropDefinition) *catalog.Catalog {
	return catalog.NewCatalogFrom(map[string][]catalog.CategoryProps{
		"demo": {{Name: "main", Props: defs}},
	})
}

func newTestEvaluator(cat *catalog.Catalog, correlations *catalog.CorrelationTable, history HistoryProvider) *PropEvaluator {
	if correlations == nil {
		correlations = catalog.NewCorrelationTableFrom(nil)
	}
	return NewPropEvaluator(cat, correlations, catalog.NewVarianceFactorTable(), history, newTestLogger(), EvaluatorOptions{})
}

func TestEvaluateUnknownSport(t *testing.T) {
	evaluator := newTestEvaluator(demoCatalog(), nil, &stubHistory{})

	_, err := evaluator.Evaluate(context.Background(), models.PlayerContext{PlayerID: "p1"}, "cricket")
	if !errors.Is(err, models.ErrSportNotFound) {
		t.Fatalf("expected ErrSportNotFound, got %v", err)
	}
}

func TestEvaluateZeroVarianceHistoryExcludesAllLines(t *testing.T) {
	// Constant history triggers the degenerate-std policy: every candidate
	// line for the definition is excluded, including lines the player has
	// always beaten.
	def := models.PropDefinition{
		Name:          "X",
		StatKey:       "stat_x",
		ProbThreshold: 0.5,
		AltLines:      []float64{10.0, 20.0},
		Category:      models.CategoryStandard,
	}
	history := &stubHistory{series: map[string][]float64{
		"stat_x": {20, 20, 20, 20, 20},
	}}
	evaluator := newTestEvaluator(demoCatalog(def), nil, history)

	evals, err := evaluator.Evaluate(context.Background(), models.PlayerContext{PlayerID: "p1"}, "demo")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(evals) != 0 {
		t.Fatalf("expected no evaluations for zero-variance history, got %d", len(evals))
	}
}

func TestEvaluateKeepsOnlyLinesAboveCutoff(t *testing.T) {
	def := models.PropDefinition{
		Name:          "X",
		StatKey:       "stat_x",
		ProbThreshold: 0.5,
		AltLines:      []float64{10.0, 60.0},
		Category:      models.CategoryStandard,
	}
	history := &stubHistory{series: map[string][]float64{
		"stat_x": {25, 35, 30, 35, 25, 30}, // trendless, mean 30
	}}
	evaluator := newTestEvaluator(demoCatalog(def), nil, history)

	evals, err := evaluator.Evaluate(context.Background(), models.PlayerContext{PlayerID: "p1"}, "demo")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(evals) != 1 {
		t.Fatalf("expected exactly the low line to survive, got %d evaluations", len(evals))
	}
	if evals[0].Line != 10.0 {
		t.Errorf("expected line 10.0, got %v", evals[0].Line)
	}
	for _, eval := range evals {
		if eval.Probability < def.ProbThreshold {
			t.Errorf("evaluation below cutoff returned: %+v", eval)
		}
	}
}

func TestEvaluateSkipsMissingAndFailingHistory(t *testing.T) {
	defs := []models.PropDefinition{
		{Name: "Empty", StatKey: "stat_empty", ProbThreshold: 0.5, AltLines: []float64{10}, Category: models.CategoryStandard},
		{Name: "Short", StatKey: "stat_short", ProbThreshold: 0.5, AltLines: []float64{10}, Category: models.CategoryStandard},
		{Name: "Broken", StatKey: "stat_broken", ProbThreshold: 0.5, AltLines: []float64{10}, Category: models.CategoryStandard},
		{Name: "Uncarried", StatKey: "stat_uncarried", ProbThreshold: 0.5, AltLines: []float64{10}, Category: models.CategoryStandard},
		{Name: "NoLines", StatKey: "stat_nolines", ProbThreshold: 0.5, Category: models.CategoryStandard},
	}
	history := &stubHistory{
		series: map[string][]float64{
			"stat_short":   {42},
			"stat_nolines": {25, 35, 30, 35, 25, 30},
		},
		failing:   map[string]bool{"stat_broken": true},
		uncarried: map[string]bool{"stat_uncarried": true},
	}
	evaluator := newTestEvaluator(demoCatalog(defs...), nil, history)

	evals, err := evaluator.Evaluate(context.Background(), models.PlayerContext{PlayerID: "p1"}, "demo")
	if err != nil {
		t.Fatalf("expected missing data to be non-fatal, got %v", err)
	}
	if len(evals) != 0 {
		t.Fatalf("expected all props filtered out, got %d", len(evals))
	}
}

func TestEvaluateUncarriedStatDoesNotBlockOthers(t *testing.T) {
	defs := []models.PropDefinition{
		{Name: "Uncarried", StatKey: "stat_uncarried", ProbThreshold: 0.5, AltLines: []float64{10}, Category: models.CategoryStandard},
		{Name: "Carried", StatKey: "stat_carried", ProbThreshold: 0.5, AltLines: []float64{10}, Category: models.CategoryStandard},
	}
	history := &stubHistory{
		series:    map[string][]float64{"stat_carried": {25, 35, 30, 35, 25, 30}},
		uncarried: map[string]bool{"stat_uncarried": true},
	}
	evaluator := newTestEvaluator(demoCatalog(defs...), nil, history)

	evals, err := evaluator.Evaluate(context.Background(), models.PlayerContext{PlayerID: "p1"}, "demo")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(evals) != 1 || evals[0].PropName != "Carried" {
		t.Fatalf("expected only the carried stat's prop, got %+v", evals)
	}
}

func TestFilterCorrelatedBoundary(t *testing.T) {
	evals := []models.PropEvaluation{
		{PropName: "A", StatKey: "stat_a", Probability: 0.95},
		{PropName: "B", StatKey: "stat_b", Probability: 0.90},
	}

	// Exactly at the threshold: strict-less-than semantics keep both.
	atBoundary := catalog.NewCorrelationTableFrom(map[[2]string]float64{
		{"stat_a", "stat_b"}: DefaultMinCorrelation,
	})
	evaluator := newTestEvaluator(demoCatalog(), atBoundary, &stubHistory{})
	if kept := evaluator.filterCorrelated(append([]models.PropEvaluation(nil), evals...)); len(kept) != 2 {
		t.Fatalf("expected boundary coefficient to keep both props, got %d", len(kept))
	}

	// One step below: the lower-probability prop is removed.
	belowBoundary := catalog.NewCorrelationTableFrom(map[[2]string]float64{
		{"stat_a", "stat_b"}: DefaultMinCorrelation - 0.01,
	})
	evaluator = newTestEvaluator(demoCatalog(), belowBoundary, &stubHistory{})
	kept := evaluator.filterCorrelated(append([]models.PropEvaluation(nil), evals...))
	if len(kept) != 1 {
		t.Fatalf("expected one prop to survive, got %d", len(kept))
	}
	if kept[0].PropName != "A" {
		t.Errorf("expected the higher-probability prop to survive, got %q", kept[0].PropName)
	}
}

func TestFilterCorrelatedIgnoresUnrecordedPairs(t *testing.T) {
	evals := []models.PropEvaluation{
		{PropName: "A", StatKey: "stat_a", Probability: 0.95},
		{PropName: "B", StatKey: "stat_b", Probability: 0.90},
	}
	evaluator := newTestEvaluator(demoCatalog(), catalog.NewCorrelationTableFrom(nil), &stubHistory{})

	if kept := evaluator.filterCorrelated(evals); len(kept) != 2 {
		t.Fatalf("expected unrecorded pairs to never be filtered, got %d", len(kept))
	}
}
