package collector

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/statusmap/internal/domain"
	"github.com/hamed0406/statusmap/internal/nagios"
)

// --- fakes ---

type fakeSites struct {
	list []domain.Site
	err  error
}

func (f *fakeSites) Sites() ([]domain.Site, bool, error) { return f.list, false, f.err }

type fakeFetcher struct {
	mu     sync.Mutex
	calls  int
	byHost map[string]nagios.HostStatus
	fail   map[string]error
}

func (f *fakeFetcher) Lookup(ctx context.Context, host string) (nagios.HostStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err := f.fail[host]; err != nil {
		return nagios.Unknown(host), err
	}
	return f.byHost[host], nil
}

func threeSites() []domain.Site {
	return []domain.Site{
		{Name: "A", Host: "a", Lat: 1, Lng: 1},
		{Name: "B", Host: "b", Lat: 2, Lng: 2},
		{Name: "C", Host: "c", Lat: 3, Lng: 3},
	}
}

// --- tests ---

func TestCollector_BuildsSnapshotInDirectoryOrder(t *testing.T) {
	f := &fakeFetcher{
		byHost: map[string]nagios.HostStatus{
			"a": {Host: "a", Status: domain.StatusUp, LastTimeUp: 2000000000000, LastTimeDown: 1999999000000},
			"b": {Host: "b", Status: domain.StatusDown, IsFlapping: true, PluginOutput: "CRITICAL"},
		},
		fail: map[string]error{"c": errors.New("timeout")},
	}
	c := New(zap.NewNop(), &fakeSites{list: threeSites()}, f, time.Second, 2, 0)

	items, err := c.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(items) != 3 || items[0].Host != "a" || items[1].Host != "b" || items[2].Host != "c" {
		t.Fatalf("order lost: %+v", items)
	}
	if items[0].LastDowntimeDurationMS == nil || *items[0].LastDowntimeDurationMS != 1000000 {
		t.Fatalf("precomputed duration wrong: %v", items[0].LastDowntimeDurationMS)
	}
	if !items[1].IsFlapping || items[1].Lat != 2 || items[1].Name != "B" {
		t.Fatalf("site fields not joined: %+v", items[1])
	}
	if items[2].Status != domain.StatusUnknown || items[2].LastDowntimeDurationMS != nil {
		t.Fatalf("failed lookup should degrade to UNKNOWN: %+v", items[2])
	}
}

func TestCollector_CachesWithinTTL(t *testing.T) {
	f := &fakeFetcher{byHost: map[string]nagios.HostStatus{}}
	c := New(zap.NewNop(), &fakeSites{list: threeSites()}, f, time.Second, 3, 10*time.Second)
	now := time.Date(2025, 11, 20, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	if _, err := c.Fetch(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Fetch(context.Background()); err != nil {
		t.Fatal(err)
	}
	if f.calls != 3 {
		t.Fatalf("second fetch should hit cache, got %d lookups", f.calls)
	}

	now = now.Add(11 * time.Second)
	if _, err := c.Fetch(context.Background()); err != nil {
		t.Fatal(err)
	}
	if f.calls != 6 {
		t.Fatalf("expired cache should refetch, got %d lookups", f.calls)
	}

	c.Invalidate()
	if _, err := c.Fetch(context.Background()); err != nil {
		t.Fatal(err)
	}
	if f.calls != 9 {
		t.Fatalf("invalidate should force refetch, got %d lookups", f.calls)
	}
}

func TestCollector_SitesErrorWithoutListFails(t *testing.T) {
	c := New(zap.NewNop(), &fakeSites{err: errors.New("no file")}, &fakeFetcher{}, time.Second, 1, 0)
	if _, err := c.Fetch(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
}

func TestCollector_SitesErrorWithStaleListContinues(t *testing.T) {
	f := &fakeFetcher{byHost: map[string]nagios.HostStatus{}}
	c := New(zap.NewNop(), &fakeSites{list: threeSites(), err: errors.New("bad edit")}, f, time.Second, 1, 0)
	items, err := c.Fetch(context.Background())
	if err != nil || len(items) != 3 {
		t.Fatalf("want stale list served, got %d items err=%v", len(items), err)
	}
}

func TestCollector_StructLiteralUsesDefaults(t *testing.T) {
	f := &fakeFetcher{byHost: map[string]nagios.HostStatus{"a": {Host: "a", Status: domain.StatusUp}}}
	c := &Collector{Logger: zap.NewNop(), Sites: &fakeSites{list: threeSites()}, Fetcher: f}

	items, err := c.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(items) != 3 || items[0].Status != domain.StatusUp {
		t.Fatalf("unexpected snapshot: %+v", items)
	}
}
