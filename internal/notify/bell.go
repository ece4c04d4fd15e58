package notify

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"
)

// Bell is the terminal version of the dashboard's "droplet" sound: it writes
// BEL plus a one-line summary. Rings closer than Throttle apart are swallowed
// so a burst of hosts going down makes one sound.
type Bell struct {
	Out      io.Writer
	Throttle time.Duration
	Quiet    bool // print the line without the BEL byte

	now  func() time.Time
	mu   sync.Mutex
	last time.Time
}

func NewBell(out io.Writer) *Bell {
	return &Bell{Out: out, Throttle: 300 * time.Millisecond, now: time.Now}
}

func (b *Bell) Send(_ context.Context, title, text string) error {
	b.mu.Lock()
	now := time.Now()
	if b.now != nil {
		now = b.now()
	}
	ring := !b.Quiet && (b.last.IsZero() || now.Sub(b.last) >= b.Throttle)
	if ring {
		b.last = now
	}
	b.mu.Unlock()

	prefix := ""
	if ring {
		prefix = "\a"
	}
	_, err := fmt.Fprintf(b.Out, "%s%s %s | %s\n", prefix, now.Format(time.TimeOnly), title, firstLine(text))
	return err
}

func firstLine(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			return s[:i]
		}
	}
	return s
}
