package reconcile

import (
	"sync"

	"github.com/hamed0406/statusmap/internal/domain"
)

// Changes lists the hosts whose effective status crossed the DOWN boundary
// between two consecutive snapshots. Hosts appear in snapshot order.
type Changes struct {
	NewlyDown []string
	Recovered []string
}

// DetectNewlyDown compares a snapshot against the previous effective-status
// map. It returns the transitions and the map that should replace prev.
//
// A host with no entry in prev is a first observation and never transitions.
func DetectNewlyDown(prev map[string]domain.Status, items []domain.SnapshotItem) (Changes, map[string]domain.Status) {
	var ch Changes
	next := make(map[string]domain.Status, len(items))
	for _, it := range items {
		eff := EffectiveStatus(it)
		if _, dup := next[it.Host]; dup {
			// repeated host in one snapshot: last record wins, no second event
			next[it.Host] = eff
			continue
		}
		next[it.Host] = eff

		before, seen := prev[it.Host]
		if !seen {
			continue
		}
		switch {
		case before != domain.StatusDown && eff == domain.StatusDown:
			ch.NewlyDown = append(ch.NewlyDown, it.Host)
		case before == domain.StatusDown && eff != domain.StatusDown:
			ch.Recovered = append(ch.Recovered, it.Host)
		}
	}
	return ch, next
}

// Memory holds the effective status of every host from the last poll.
// Observe reads and replaces it as one step, so it is safe to share
// between pollers.
type Memory struct {
	mu   sync.Mutex
	last map[string]domain.Status

	// KeepStale retains hosts that vanished from the latest snapshot.
	// By default the map is replaced wholesale.
	KeepStale bool
}

func NewMemory() *Memory {
	return &Memory{last: make(map[string]domain.Status)}
}

// Observe records a snapshot and returns the transitions it caused.
func (m *Memory) Observe(items []domain.SnapshotItem) Changes {
	m.mu.Lock()
	defer m.mu.Unlock()

	ch, next := DetectNewlyDown(m.last, items)
	if m.KeepStale {
		for host, st := range m.last {
			if _, ok := next[host]; !ok {
				next[host] = st
			}
		}
	}
	m.last = next
	return ch
}

// Status returns the remembered effective status for host.
func (m *Memory) Status(host string) (domain.Status, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.last[host]
	return st, ok
}

// Len reports how many hosts are remembered.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.last)
}
