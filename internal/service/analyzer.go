// Package service wires the catalog, evaluator and composer into the
// player-level analysis pipeline.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/1ogcotu/s-b-a/internal/analysis"
	"github.com/1ogcotu/s-b-a/internal/catalog"
	"github.com/1ogcotu/s-b-a/internal/logger"
	"github.com/1ogcotu/s-b-a/internal/metrics"
	"github.com/1ogcotu/s-b-a/internal/models"
)

// defaultRosterConcurrency bounds the per-player fan-out when analyzing a
// full roster.
const defaultRosterConcurrency = 8

// ParlaySuggestion pairs a parlay candidate with a variance-scaled stake
// suggestion. More legs means a higher variance factor and a smaller stake.
type ParlaySuggestion struct {
	Candidate      models.ParlayCandidate `json:"candidate"`
	SuggestedStake float64                `json:"suggested_stake"`
}

// PlayerReport is the full analysis output for one player.
type PlayerReport struct {
	Player  models.PlayerContext    `json:"player"`
	Sport   string                  `json:"sport"`
	Props   []models.PropEvaluation `json:"props"`
	Parlays []ParlaySuggestion      `json:"parlays"`
}

// AnalyzerService runs the evaluate-then-compose pipeline per player.
type AnalyzerService struct {
	evaluator      *analysis.PropEvaluator
	composer       *analysis.ParlayComposer
	variances      *catalog.VarianceFactorTable
	composeOpts    analysis.ComposeOptions
	baseStake      float64
	maxConcurrency int
	logger         *logrus.Logger
	analysisLog    *logger.AnalysisLogger
}

// AnalyzerOptions configures the analyzer service.
type AnalyzerOptions struct {
	ComposeOptions analysis.ComposeOptions
	// BaseStake is the flat stake scaled down by the parlay variance
	// factor; zero disables stake suggestions.
	BaseStake float64
	// MaxConcurrency bounds the roster fan-out; zero means the default.
	MaxConcurrency int
}

// NewAnalyzerService creates a new analyzer service.
func NewAnalyzerService(
	evaluator *analysis.PropEvaluator,
	composer *analysis.ParlayComposer,
	variances *catalog.VarianceFactorTable,
	log *logrus.Logger,
	opts AnalyzerOptions,
) *AnalyzerService {
	composeOpts := opts.ComposeOptions
	if composeOpts.MinPicks == 0 && composeOpts.MaxPicks == 0 {
		composeOpts = analysis.DefaultComposeOptions()
	}
	maxConcurrency := opts.MaxConcurrency
	if maxConcurrency <= 0 {
		maxConcurrency = defaultRosterConcurrency
	}
	return &AnalyzerService{
		evaluator:      evaluator,
		composer:       composer,
		variances:      variances,
		composeOpts:    composeOpts,
		baseStake:      opts.BaseStake,
		maxConcurrency: maxConcurrency,
		logger:         log,
		analysisLog:    logger.NewAnalysisLogger(log),
	}
}

// AnalyzePlayer evaluates all catalog props for one player and composes
// ranked parlays from the accepted set.
func (s *AnalyzerService) AnalyzePlayer(ctx context.Context, player models.PlayerContext, sport string) (*PlayerReport, error) {
	start := time.Now()

	props, err := s.evaluator.Evaluate(ctx, player, sport)
	if err != nil {
		return nil, fmt.Errorf("analyze player %q: %w", player.PlayerID, err)
	}

	parlays := s.composer.Compose(ctx, props, s.composeOpts)

	duration := time.Since(start).Seconds()
	metrics.RecordPlayerAnalysis(duration)
	metrics.LastAnalysisPropsAccepted.Set(float64(len(props)))
	metrics.LastAnalysisParlays.Set(float64(len(parlays)))

	s.analysisLog.LogPlayerEvaluation(player.PlayerID, player.Name, sport, len(props), duration)
	if len(parlays) > 0 {
		s.analysisLog.LogParlayRanking(player.PlayerID, len(parlays), parlays[0].CombinedEV, parlays[0].CombinedProbability)
	} else {
		s.analysisLog.LogParlayRanking(player.PlayerID, 0, 0, 0)
	}

	return &PlayerReport{
		Player:  player,
		Sport:   sport,
		Props:   props,
		Parlays: s.suggest(parlays),
	}, nil
}

// AnalyzeRoster runs AnalyzePlayer across a roster concurrently. Individual
// player failures are logged and skipped; the batch only fails when the
// context is cancelled.
func (s *AnalyzerService) AnalyzeRoster(ctx context.Context, players []models.PlayerContext, sport string) ([]*PlayerReport, error) {
	reports := make([]*PlayerReport, len(players))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrency)

	for i, player := range players {
		i, player := i, player
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			report, err := s.AnalyzePlayer(gctx, player, sport)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				metrics.PlayersFailedTotal.Inc()
				s.analysisLog.LogPlayerFailure(player.PlayerID, sport, err)
				return nil
			}
			mu.Lock()
			reports[i] = report
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	completed := make([]*PlayerReport, 0, len(reports))
	for _, report := range reports {
		if report != nil {
			completed = append(completed, report)
		}
	}
	return completed, nil
}

// suggest attaches variance-scaled stake suggestions to ranked candidates.
func (s *AnalyzerService) suggest(parlays []models.ParlayCandidate) []ParlaySuggestion {
	suggestions := make([]ParlaySuggestion, len(parlays))
	for i, candidate := range parlays {
		stake := 0.0
		if s.baseStake > 0 {
			stake = s.baseStake / s.variances.ParlayFactor(candidate.LegCount())
		}
		suggestions[i] = ParlaySuggestion{Candidate: candidate, SuggestedStake: stake}
	}
	return suggestions
}
