package poller

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/hamed0406/statusmap/internal/domain"
)

// Source produces one status snapshot per call.
type Source interface {
	Fetch(ctx context.Context) ([]domain.SnapshotItem, error)
}

// HTTPSource reads snapshots from a /api/status endpoint.
type HTTPSource struct {
	URL    string
	Client *http.Client

	// CacheBust appends a changing query parameter so intermediaries
	// never serve a stale list.
	CacheBust bool
}

func NewHTTPSource(statusURL string, timeout time.Duration) *HTTPSource {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPSource{URL: statusURL, Client: &http.Client{Timeout: timeout}, CacheBust: true}
}

func (s *HTTPSource) Fetch(ctx context.Context) ([]domain.SnapshotItem, error) {
	u, err := url.Parse(s.URL)
	if err != nil {
		return nil, fmt.Errorf("parse status url: %w", err)
	}
	if s.CacheBust {
		q := u.Query()
		q.Set("_", strconv.FormatInt(time.Now().UnixMilli(), 10))
		u.RawQuery = q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("status endpoint returned %s", resp.Status)
	}

	var items []domain.SnapshotItem
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return items, nil
}
