package nagios

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hamed0406/statusmap/internal/domain"
)

func TestStatusFromCode(t *testing.T) {
	cases := []struct {
		code int
		want domain.Status
	}{
		{2, domain.StatusUp},
		{4, domain.StatusDown},
		{0, domain.StatusUnknown},
		{1, domain.StatusWarning},
		{8, domain.StatusWarning},
		{-1, domain.StatusWarning},
	}
	for _, c := range cases {
		if got := StatusFromCode(c.code); got != c.want {
			t.Fatalf("StatusFromCode(%d)=%q want %q", c.code, got, c.want)
		}
	}
}

func TestClient_LookupOK(t *testing.T) {
	var gotQuery, gotUser, gotPass string
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query") + "/" + r.URL.Query().Get("hostname")
		gotUser, gotPass, _ = r.BasicAuth()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"host":{"name":"srv-01","status":4,"is_flapping":false,
			"last_time_up":1700000000000,"last_time_down":1700000500000,
			"plugin_output":"CRITICAL - Host Unreachable"}}}`))
	}))
	defer s.Close()

	c := NewClient(s.URL+"/nagios/cgi-bin/statusjson.cgi", "ops", "secret", 2*time.Second)
	hs, err := c.Lookup(context.Background(), "srv-01")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if gotQuery != "host/srv-01" || gotUser != "ops" || gotPass != "secret" {
		t.Fatalf("request wrong: query=%q user=%q pass=%q", gotQuery, gotUser, gotPass)
	}
	if hs.Status != domain.StatusDown || hs.LastTimeUp != 1700000000000 || hs.PluginOutput == "" {
		t.Fatalf("unexpected status: %+v", hs)
	}
}

func TestClient_MissingHostIsUnknown(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{}}`))
	}))
	defer s.Close()

	hs, err := NewClient(s.URL, "", "", time.Second).Lookup(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if hs.Status != domain.StatusUnknown || hs.Host != "ghost" {
		t.Fatalf("got %+v", hs)
	}
}

func TestClient_LoginPageIsError(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<html>login</html>"))
	}))
	defer s.Close()

	hs, err := NewClient(s.URL, "u", "p", time.Second).Lookup(context.Background(), "srv")
	if err != ErrLoginPage {
		t.Fatalf("want ErrLoginPage, got %v", err)
	}
	if hs.Status != domain.StatusUnknown || hs.LastTimeUp != 0 {
		t.Fatalf("degraded record expected, got %+v", hs)
	}
}

func TestClient_Non2xx(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer s.Close()

	hs, err := NewClient(s.URL, "u", "p", time.Second).Lookup(context.Background(), "srv")
	if err == nil || hs.Status != domain.StatusUnknown {
		t.Fatalf("want error + UNKNOWN, got %+v %v", hs, err)
	}
}

func TestClient_Timeout(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer s.Close()

	_, err := NewClient(s.URL, "", "", 50*time.Millisecond).Lookup(context.Background(), "slow")
	if err == nil {
		t.Fatalf("want timeout error")
	}
}
