package poller

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hamed0406/statusmap/internal/domain"
	"github.com/hamed0406/statusmap/internal/notify"
	"github.com/hamed0406/statusmap/internal/reconcile"
)

// ErrorLabel is what the dashboard shows in place of the update time after
// a failed poll.
const ErrorLabel = "Error"

// View is the last successfully reconciled snapshot plus poll health.
type View struct {
	Rows      []reconcile.Row `json:"rows"`
	Worst     domain.Status   `json:"worst"`
	UpdatedAt time.Time       `json:"updated_at"`
	// Label is the update time, or ErrorLabel when the latest poll failed.
	Label   string `json:"label"`
	LastErr string `json:"last_error,omitempty"`
}

type Config struct {
	Interval        time.Duration
	AlertOnRecovery bool
}

// Poller fetches snapshots on a fixed interval, detects DOWN transitions
// against the injected memory and keeps a render-ready View.
type Poller struct {
	logger   *zap.Logger
	source   Source
	memory   *reconcile.Memory
	notifier notify.Notifier
	cfg      Config

	now func() time.Time

	mu   sync.RWMutex
	view View
}

func New(logger *zap.Logger, source Source, memory *reconcile.Memory, notifier notify.Notifier, cfg Config) *Poller {
	if memory == nil {
		memory = reconcile.NewMemory()
	}
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Poller{
		logger:   logger,
		source:   source,
		memory:   memory,
		notifier: notifier,
		cfg:      cfg,
		now:      time.Now,
	}
}

// Run does an immediate pass, then one per tick, until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) {
	if p.cfg.Interval <= 0 {
		p.logger.Info("poller_disabled")
		return
	}
	t := time.NewTicker(p.cfg.Interval)
	defer t.Stop()

	_ = p.PollOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("poller_stopped")
			return
		case <-t.C:
			_ = p.PollOnce(ctx)
		}
	}
}

// PollOnce runs a single cycle. A failed fetch leaves the memory and the
// previous rows untouched; only the label changes.
func (p *Poller) PollOnce(ctx context.Context) error {
	cycle := uuid.NewString()
	items, err := p.source.Fetch(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		p.logger.Warn("poll_failed", zap.String("cycle", cycle), zap.Error(err))
		p.mu.Lock()
		p.view.Label = ErrorLabel
		p.view.LastErr = err.Error()
		p.mu.Unlock()
		return err
	}

	now := p.now()
	changes := p.memory.Observe(items)
	rows := reconcile.BuildRows(items, now.Unix())

	byHost := make(map[string]reconcile.Row, len(rows))
	for _, r := range rows {
		byHost[r.Host] = r
	}
	for _, host := range changes.NewlyDown {
		p.alert(ctx, cycle, "Host DOWN", byHost[host])
	}
	if p.cfg.AlertOnRecovery {
		for _, host := range changes.Recovered {
			p.alert(ctx, cycle, "Host RECOVERED", byHost[host])
		}
	}

	p.mu.Lock()
	p.view = View{
		Rows:      rows,
		Worst:     reconcile.WorstRow(rows),
		UpdatedAt: now,
		Label:     now.Format(time.DateTime),
	}
	p.mu.Unlock()

	p.logger.Debug("poll_done",
		zap.String("cycle", cycle),
		zap.Int("hosts", len(rows)),
		zap.Int("newly_down", len(changes.NewlyDown)),
		zap.Int("recovered", len(changes.Recovered)),
	)
	return nil
}

func (p *Poller) alert(ctx context.Context, cycle, title string, r reconcile.Row) {
	p.logger.Info("host_transition",
		zap.String("cycle", cycle),
		zap.String("host", r.Host),
		zap.String("name", r.Name),
		zap.String("status", string(r.Status)),
	)
	if err := p.notifier.Send(ctx, title, AlertText(r)); err != nil {
		p.logger.Warn("notify_failed", zap.String("host", r.Host), zap.Error(err))
	}
}

// AlertText is the body used for transition notifications.
func AlertText(r reconcile.Row) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)\n", r.Name, r.Host)
	fmt.Fprintf(&b, "Status: %s\n", r.Status)
	if r.PluginOutput != "" {
		fmt.Fprintf(&b, "Output: %s\n", r.PluginOutput)
	}
	fmt.Fprintf(&b, "%s: %s", capitalize(r.Duration.Label), r.DurationText)
	return b.String()
}

// View returns a copy of the current view.
func (p *Poller) View() View {
	p.mu.RLock()
	defer p.mu.RUnlock()
	v := p.view
	v.Rows = append([]reconcile.Row(nil), p.view.Rows...)
	return v
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
