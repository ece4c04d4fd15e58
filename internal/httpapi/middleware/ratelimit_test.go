package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimit_AllowsThenBlocks(t *testing.T) {
	l := newLimiter(1, 2, time.Minute)
	now := time.Date(2025, 11, 20, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	h := rateLimit(l)(okHandler())

	req := httptest.NewRequest("GET", "/api/status", nil)
	req.RemoteAddr = "1.2.3.4:1234"

	for i := 0; i < 2; i++ {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != 200 {
			t.Fatalf("want 200 got %d", rr.Code)
		}
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != 429 {
		t.Fatalf("want 429 got %d", rr.Code)
	}

	// other clients are unaffected
	other := httptest.NewRequest("GET", "/api/status", nil)
	other.RemoteAddr = "5.6.7.8:999"
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, other)
	if rr.Code != 200 {
		t.Fatalf("other client: want 200 got %d", rr.Code)
	}

	now = now.Add(1100 * time.Millisecond)
	rr2 := httptest.NewRecorder()
	h.ServeHTTP(rr2, req)
	if rr2.Code != 200 {
		t.Fatalf("want 200 after refill got %d", rr2.Code)
	}
}

func TestRateLimit_DisabledPassesThrough(t *testing.T) {
	h := RateLimit(0, 0)(okHandler())
	for i := 0; i < 100; i++ {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))
		if rr.Code != 200 {
			t.Fatalf("want 200 got %d", rr.Code)
		}
	}
}

func TestLimiter_SweepsIdleClients(t *testing.T) {
	l := newLimiter(1, 1, time.Minute)
	now := time.Date(2025, 11, 20, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	l.allow("a")
	now = now.Add(2 * time.Minute)
	l.allow("b")
	if _, ok := l.m["a"]; ok {
		t.Fatalf("idle client should have been swept")
	}
	if _, ok := l.m["b"]; !ok {
		t.Fatalf("active client missing")
	}
}

func TestClientIP_PrefersForwardedFor(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.1:5555"
	r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	if got := clientIP(r); got != "203.0.113.9" {
		t.Fatalf("got %q", got)
	}
}
