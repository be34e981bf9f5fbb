package datasource

import (
	"context"
	"fmt"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/1ogcotu/s-b-a/internal/models"
)

// historyFeed is the upstream feed a CachedProvider wraps.
type historyFeed interface {
	History(ctx context.Context, player models.PlayerContext, statKey string) ([]float64, error)
}

// CachedProvider memoizes history lookups so a full-roster analysis does not
// refetch the same game logs for every candidate line.
type CachedProvider struct {
	inner historyFeed
	cache *cache.Cache
}

// NewCachedProvider wraps a history feed with a TTL cache.
func NewCachedProvider(inner historyFeed, ttl time.Duration) *CachedProvider {
	return &CachedProvider{
		inner: inner,
		cache: cache.New(ttl, ttl*2),
	}
}

// History returns cached samples when present, otherwise fetches and stores
// them. Failed fetches are not cached.
func (p *CachedProvider) History(ctx context.Context, player models.PlayerContext, statKey string) ([]float64, error) {
	key := fmt.Sprintf("%s:%s", player.PlayerID, statKey)
	if cached, found := p.cache.Get(key); found {
		if samples, ok := cached.([]float64); ok {
			return samples, nil
		}
	}

	samples, err := p.inner.History(ctx, player, statKey)
	if err != nil {
		return nil, err
	}
	p.cache.SetDefault(key, samples)
	return samples, nil
}

// Flush drops all cached series.
func (p *CachedProvider) Flush() {
	p.cache.Flush()
}
