package analysis

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/1ogcotu/s-b-a/internal/catalog"
	"github.com/1ogcotu/s-b-a/internal/metrics"
	"github.com/1ogcotu/s-b-a/internal/models"
)

// DefaultMinCorrelation is the coefficient below which two accepted props are
// considered meaningfully negatively correlated and the weaker one dropped.
const DefaultMinCorrelation = -0.2

// HistoryProvider supplies time-ordered historical samples for a player's
// statistic. An empty slice, or an error wrapping models.ErrNoHistory, means
// the feed has no data for that statistic; neither is a feed failure.
type HistoryProvider interface {
	History(ctx context.Context, player models.PlayerContext, statKey string) ([]float64, error)
}

// MatchupFunc rates the player's upcoming matchup as a multiplicative factor
// on the model mean. NeutralMatchup is used when no rater is configured.
type MatchupFunc func(player models.PlayerContext) float64

// NeutralMatchup applies no matchup adjustment.
func NeutralMatchup(models.PlayerContext) float64 { return 1.0 }

// EvaluatorOptions tunes prop evaluation.
type EvaluatorOptions struct {
	// MinCorrelation is the strictly-below cutoff for the negative
	// correlation filter. Zero value means DefaultMinCorrelation.
	MinCorrelation *float64
	Matchup        MatchupFunc
}

// PropEvaluator scores every catalog prop for a player and keeps the ones
// clearing their probability cutoff, then prunes negatively correlated
// near-duplicates.
type PropEvaluator struct {
	catalog        *catalog.Catalog
	correlations   *catalog.CorrelationTable
	variances      *catalog.VarianceFactorTable
	history        HistoryProvider
	matchup        MatchupFunc
	minCorrelation float64
	logger         *logrus.Logger
}

// NewPropEvaluator creates a prop evaluator.
func NewPropEvaluator(
	cat *catalog.Catalog,
	correlations *catalog.CorrelationTable,
	variances *catalog.VarianceFactorTable,
	history HistoryProvider,
	logger *logrus.Logger,
	opts EvaluatorOptions,
) *PropEvaluator {
	minCorrelation := DefaultMinCorrelation
	if opts.MinCorrelation != nil {
		minCorrelation = *opts.MinCorrelation
	}
	matchup := opts.Matchup
	if matchup == nil {
		matchup = NeutralMatchup
	}
	return &PropEvaluator{
		catalog:        cat,
		correlations:   correlations,
		variances:      variances,
		history:        history,
		matchup:        matchup,
		minCorrelation: minCorrelation,
		logger:         logger,
	}
}

// Evaluate scores every (definition, candidate line) pair for the player under
// the given sport and returns the evaluations that clear their definition's
// probability cutoff, after correlation filtering.
//
// Missing or too-short history for a statistic excludes the pair silently; an
// unknown sport fails with models.ErrSportNotFound.
func (e *PropEvaluator) Evaluate(ctx context.Context, player models.PlayerContext, sport string) ([]models.PropEvaluation, error) {
	categories, err := e.catalog.Definitions(sport)
	if err != nil {
		return nil, fmt.Errorf("prop evaluation for %q: %w", player.PlayerID, err)
	}

	matchupFactor := e.matchup(player)
	var accepted []models.PropEvaluation

	for _, category := range categories {
		for _, def := range category.Props {
			lines := def.CandidateLines()
			if len(lines) == 0 {
				continue
			}

			samples, err := e.history.History(ctx, player, def.StatKey)
			if err != nil {
				// A statistic the feed simply does not carry is an
				// exclusion, not a feed failure.
				if errors.Is(err, models.ErrNoHistory) {
					continue
				}
				metrics.HistoryFetchErrorsTotal.Inc()
				e.logger.WithFields(logrus.Fields{
					"player":   player.PlayerID,
					"stat_key": def.StatKey,
				}).WithError(err).Warn("Skipping prop: history fetch failed")
				continue
			}
			if len(samples) < 2 {
				continue
			}

			varianceFactor := e.variances.CategoryFactor(def.Category)

			for _, line := range lines {
				metrics.PropsEvaluatedTotal.Inc()
				result, err := EvaluateStat(samples, line, matchupFactor, varianceFactor)
				if err != nil {
					// Degenerate spread or short history excludes
					// the pair; neither is fatal to the batch.
					continue
				}
				eval := models.PropEvaluation{
					PropName:      def.Name,
					StatKey:       def.StatKey,
					Line:          line,
					Probability:   result.Probability,
					ExpectedValue: result.ExpectedValue,
					Trend:         result.Trend,
					Category:      def.Category,
				}
				if !eval.MeetsCutoff(def.Cutoff()) {
					continue
				}
				metrics.PropsAcceptedTotal.Inc()
				accepted = append(accepted, eval)
			}
		}
	}

	return e.filterCorrelated(accepted), nil
}

// filterCorrelated removes, for every pair of evaluations whose statistic
// keys have a recorded coefficient strictly below the minimum, the one with
// the lower probability. Negatively correlated props rarely both hit, so
// keeping both overstates the opportunity set. Pairs with no recorded
// coefficient are never filtered.
func (e *PropEvaluator) filterCorrelated(evals []models.PropEvaluation) []models.PropEvaluation {
	if len(evals) < 2 {
		return evals
	}

	removed := make([]bool, len(evals))
	for i := 0; i < len(evals); i++ {
		for j := i + 1; j < len(evals); j++ {
			if removed[i] || removed[j] {
				continue
			}
			coef, ok := e.correlations.Coefficient(evals[i].StatKey, evals[j].StatKey)
			if !ok || coef >= e.minCorrelation {
				continue
			}
			if evals[i].Probability < evals[j].Probability {
				removed[i] = true
			} else {
				removed[j] = true
			}
			metrics.PropsCorrelationFilteredTotal.Inc()
		}
	}

	kept := evals[:0]
	for i, eval := range evals {
		if !removed[i] {
			kept = append(kept, eval)
		}
	}
	return kept
}
