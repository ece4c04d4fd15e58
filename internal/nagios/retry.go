package nagios

import (
	"context"
	"time"
)

// RetryFetcher repeats failed lookups with a fixed pause between attempts.
type RetryFetcher struct {
	Inner    Fetcher
	Attempts int
	Backoff  time.Duration
}

func (r *RetryFetcher) Lookup(ctx context.Context, host string) (HostStatus, error) {
	attempts := r.Attempts
	if attempts < 1 {
		attempts = 1
	}
	var (
		last HostStatus
		err  error
	)
	for i := 0; i < attempts; i++ {
		last, err = r.Inner.Lookup(ctx, host)
		if err == nil {
			return last, nil
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return Unknown(host), ctx.Err()
		case <-time.After(r.Backoff):
		}
	}
	return last, err
}
