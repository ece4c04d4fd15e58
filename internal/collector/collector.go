package collector

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/statusmap/internal/domain"
	"github.com/hamed0406/statusmap/internal/nagios"
	"github.com/hamed0406/statusmap/internal/reconcile"
)

// SiteLister is satisfied by *sites.Directory.
type SiteLister interface {
	Sites() ([]domain.Site, bool, error)
}

// Collector joins the site directory with live Nagios lookups into a
// snapshot. Assembled snapshots are reused for TTL.
type Collector struct {
	Logger      *zap.Logger
	Sites       SiteLister
	Fetcher     nagios.Fetcher
	Timeout     time.Duration // per-host lookup
	Concurrency int
	TTL         time.Duration

	now func() time.Time

	mu       sync.Mutex
	cached   []domain.SnapshotItem
	cachedAt time.Time
}

func New(
	logger *zap.Logger,
	sites SiteLister,
	fetcher nagios.Fetcher,
	timeout time.Duration,
	concurrency int,
	ttl time.Duration,
) *Collector {
	if concurrency < 1 {
		concurrency = 1
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if ttl < 0 {
		ttl = 0
	}
	return &Collector{
		Logger:      logger,
		Sites:       sites,
		Fetcher:     fetcher,
		Timeout:     timeout,
		Concurrency: concurrency,
		TTL:         ttl,
		now:         time.Now,
	}
}

// Fetch returns the current snapshot, from cache when it is fresh enough.
func (c *Collector) Fetch(ctx context.Context) ([]domain.SnapshotItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	if c.now != nil {
		now = c.now()
	}
	if c.cached != nil && now.Sub(c.cachedAt) < c.TTL {
		return c.cached, nil
	}

	list, reloaded, err := c.Sites.Sites()
	if err != nil {
		if len(list) == 0 {
			return nil, err
		}
		c.Logger.Warn("sites_reload_failed", zap.Error(err))
	}
	if reloaded {
		c.Logger.Info("sites_loaded", zap.Int("count", len(list)))
	}

	items := c.collect(ctx, list)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	c.cached = items
	c.cachedAt = now
	return items, nil
}

// Invalidate drops the cached snapshot.
func (c *Collector) Invalidate() {
	c.mu.Lock()
	c.cached = nil
	c.mu.Unlock()
}

func (c *Collector) collect(ctx context.Context, list []domain.Site) []domain.SnapshotItem {
	items := make([]domain.SnapshotItem, len(list))
	sem := make(chan struct{}, max(c.Concurrency, 1))
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	var wg sync.WaitGroup

	for i, s := range list {
		sem <- struct{}{}
		wg.Add(1)
		go func(i int, s domain.Site) {
			defer func() { <-sem }()
			defer wg.Done()

			cctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			hs, err := c.Fetcher.Lookup(cctx, s.Host)
			if err != nil {
				if !errors.Is(err, context.Canceled) {
					c.Logger.Warn("nagios_lookup_error",
						zap.String("host", s.Host),
						zap.Error(err),
					)
				}
				hs = nagios.Unknown(s.Host)
			}
			items[i] = toItem(s, hs)
		}(i, s)
	}

	wg.Wait()
	return items
}

func toItem(s domain.Site, hs nagios.HostStatus) domain.SnapshotItem {
	it := domain.SnapshotItem{
		Host:         s.Host,
		Name:         s.Name,
		Status:       hs.Status,
		IsFlapping:   hs.IsFlapping,
		LastTimeUp:   hs.LastTimeUp,
		LastTimeDown: hs.LastTimeDown,
		PluginOutput: hs.PluginOutput,
		Lat:          s.Lat,
		Lng:          s.Lng,
	}
	up, down := reconcile.ToMilliseconds(hs.LastTimeUp), reconcile.ToMilliseconds(hs.LastTimeDown)
	if up > 0 && down > 0 {
		d := up - down
		if d < 0 {
			d = 0
		}
		it.LastDowntimeDurationMS = &d
	}
	return it
}
