package datasource

import (
	"context"
	"fmt"
	"time"

	"github.com/1ogcotu/s-b-a/internal/metrics"
	"github.com/1ogcotu/s-b-a/internal/models"
)

// espnStatNames maps catalog statistic keys to ESPN stat names. Keys with no
// feed equivalent simply yield no history, which excludes the prop.
var espnStatNames = map[string]string{
	"passing_yards":      "passingYards",
	"passing_tds":        "passingTouchdowns",
	"pass_attempts":      "passingAttempts",
	"pass_completions":   "completions",
	"interceptions":      "interceptions",
	"longest_completion": "longPassing",
	"rushing_yards":      "rushingYards",
	"rushing_tds":        "rushingTouchdowns",
	"receiving_yards":    "receivingYards",
	"receiving_tds":      "receivingTouchdowns",
	"points":             "points",
	"rebounds":           "totalRebounds",
	"assists":            "assists",
}

// GameLogProvider adapts the ESPN client to the history feed consumed by the
// prop evaluator.
type GameLogProvider struct {
	client *ESPNClient
	sport  string
	league string
}

// NewGameLogProvider creates a history provider for one sport/league pair.
func NewGameLogProvider(client *ESPNClient, sport, league string) *GameLogProvider {
	return &GameLogProvider{client: client, sport: sport, league: league}
}

// History returns the player's per-game series for the statistic key. Stat
// keys unknown to the feed fail with models.ErrNoHistory, which callers treat
// as a silent exclusion rather than a feed failure.
func (p *GameLogProvider) History(ctx context.Context, player models.PlayerContext, statKey string) ([]float64, error) {
	statName, ok := espnStatNames[statKey]
	if !ok {
		return nil, fmt.Errorf("%w: no feed statistic for %q", models.ErrNoHistory, statKey)
	}

	start := time.Now()
	samples, err := p.client.GameLog(ctx, p.sport, p.league, player.PlayerID, statName)
	metrics.HistoryFetchDuration.Observe(time.Since(start).Seconds())
	return samples, err
}
