package datasource

import (
	"context"

	"github.com/1ogcotu/s-b-a/internal/models"
)

// StaticProvider serves a fixed in-memory set of sample series, keyed by
// "playerID:statKey" with a bare statKey fallback. It is the deterministic
// stand-in feed for tests and offline runs; unlike the placeholder it
// replaces, identical inputs always produce identical analysis output.
type StaticProvider struct {
	series map[string][]float64
}

// NewStaticProvider creates a static feed from the given series.
func NewStaticProvider(series map[string][]float64) *StaticProvider {
	copied := make(map[string][]float64, len(series))
	for key, samples := range series {
		copied[key] = append([]float64(nil), samples...)
	}
	return &StaticProvider{series: copied}
}

// History returns a copy of the configured series, or nil when absent.
func (p *StaticProvider) History(_ context.Context, player models.PlayerContext, statKey string) ([]float64, error) {
	if samples, ok := p.series[player.PlayerID+":"+statKey]; ok {
		return append([]float64(nil), samples...), nil
	}
	if samples, ok := p.series[statKey]; ok {
		return append([]float64(nil), samples...), nil
	}
	return nil, nil
}
