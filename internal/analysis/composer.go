package analysis

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/1ogcotu/s-b-a/internal/catalog"
	"github.com/1ogcotu/s-b-a/internal/metrics"
	"github.com/1ogcotu/s-b-a/internal/models"
)

// ComposeOptions tunes the parlay search.
type ComposeOptions struct {
	MinPicks       int
	MaxPicks       int
	MinProbability float64
	// Parallelism > 1 scores combinations concurrently. Output is
	// identical to the serial path.
	Parallelism int
}

// DefaultComposeOptions returns the standard search bounds.
func DefaultComposeOptions() ComposeOptions {
	return ComposeOptions{
		MinPicks:       2,
		MaxPicks:       5,
		MinProbability: 0.85,
	}
}

// ParlayComposer enumerates combinations of accepted props and ranks the ones
// clearing the joint probability floor by combined expected value.
type ParlayComposer struct {
	correlations *catalog.CorrelationTable
	logger       *logrus.Logger
}

// NewParlayComposer creates a parlay composer.
func NewParlayComposer(correlations *catalog.CorrelationTable, logger *logrus.Logger) *ParlayComposer {
	return &ParlayComposer{correlations: correlations, logger: logger}
}

// Compose enumerates every combination of size MinPicks..MaxPicks drawn
// without repetition from evals, keeps those whose correlation-adjusted joint
// probability is at least MinProbability, and returns them sorted by combined
// expected value descending. Ties keep enumeration order, so output is
// deterministic for identical inputs.
//
// The search inspects sum of C(n, k) candidates with no pruning beyond the
// probability floor; callers bound n via the evaluation stage.
func (c *ParlayComposer) Compose(ctx context.Context, evals []models.PropEvaluation, opts ComposeOptions) []models.ParlayCandidate {
	if opts.MinPicks < 2 {
		opts.MinPicks = 2
	}
	if opts.MaxPicks < opts.MinPicks {
		opts.MaxPicks = opts.MinPicks
	}

	combos := enumerate(len(evals), opts.MinPicks, opts.MaxPicks)
	scored := make([]*models.ParlayCandidate, len(combos))

	score := func(seq int) {
		candidate := c.scoreCombination(evals, combos[seq])
		if candidate.CombinedProbability >= opts.MinProbability {
			scored[seq] = &candidate
		}
	}

	if opts.Parallelism > 1 && len(combos) > 1 {
		g, _ := errgroup.WithContext(ctx)
		g.SetLimit(opts.Parallelism)
		for seq := range combos {
			seq := seq
			g.Go(func() error {
				score(seq)
				return nil
			})
		}
		// Workers never return errors; Wait is only a join point.
		_ = g.Wait()
	} else {
		for seq := range combos {
			score(seq)
		}
	}

	kept := make([]models.ParlayCandidate, 0, len(scored))
	for _, candidate := range scored {
		if candidate != nil {
			kept = append(kept, *candidate)
		}
	}

	// Stable sort keeps enumeration order on equal EV.
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].CombinedEV > kept[j].CombinedEV
	})

	metrics.ParlaysComposedTotal.Add(float64(len(kept)))
	if c.logger != nil {
		c.logger.WithFields(logrus.Fields{
			"inspected": len(combos),
			"kept":      len(kept),
		}).Debug("Parlay composition complete")
	}
	return kept
}

// scoreCombination derives the joint probability and combined EV for one
// combination of legs.
func (c *ParlayComposer) scoreCombination(evals []models.PropEvaluation, combo []int) models.ParlayCandidate {
	legs := make([]models.PropEvaluation, len(combo))
	for i, idx := range combo {
		legs[i] = evals[idx]
	}

	// Sums coefficients over ordered pairs, so every unordered pair counts
	// twice. Kept for compatibility with the historical scoring; results
	// can leave [0, 1] and are deliberately not clamped.
	totalCorrelation := 0.0
	for i := range legs {
		for j := range legs {
			if i == j {
				continue
			}
			if coef, ok := c.correlations.Coefficient(legs[i].StatKey, legs[j].StatKey); ok {
				totalCorrelation += coef
			}
		}
	}

	combinedProbability := 1.0
	combinedEV := 0.0
	for _, leg := range legs {
		combinedProbability *= leg.Probability
		combinedEV += leg.ExpectedValue
	}
	combinedProbability *= 1 + totalCorrelation

	return models.ParlayCandidate{
		ID:                  uuid.New(),
		Legs:                legs,
		CombinedProbability: combinedProbability,
		CombinedEV:          combinedEV,
	}
}

// enumerate lists every index combination of size minPicks..maxPicks over n
// elements, in lexicographic order per size.
func enumerate(n, minPicks, maxPicks int) [][]int {
	var combos [][]int
	for k := minPicks; k <= maxPicks && k <= n; k++ {
		combo := make([]int, k)
		var walk func(start, depth int)
		walk = func(start, depth int) {
			if depth == k {
				combos = append(combos, append([]int(nil), combo...))
				return
			}
			for i := start; i < n; i++ {
				combo[depth] = i
				walk(i+1, depth+1)
			}
		}
		walk(0, 0)
	}
	return combos
}
