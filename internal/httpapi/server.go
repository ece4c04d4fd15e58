package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/hamed0406/statusmap/internal/domain"
	"github.com/hamed0406/statusmap/internal/poller"
	"github.com/hamed0406/statusmap/internal/reconcile"
	"github.com/hamed0406/statusmap/internal/search"

	apimw "github.com/hamed0406/statusmap/internal/httpapi/middleware"
)

type Watcher interface {
	View() poller.View
}

type Server struct {
	Logger    *zap.Logger
	Snapshots poller.Source
	StaticDir string

	// Watcher, when set, is the server-side poller whose last cycle is
	// exposed at /api/poll.
	Watcher Watcher

	now func() time.Time
}

func NewServer(l *zap.Logger, snapshots poller.Source, staticDir string) *Server {
	return &Server{Logger: l, Snapshots: snapshots, StaticDir: staticDir, now: time.Now}
}

// Router wires the API. rpm/burst configure per-IP rate limiting on /api;
// rpm <= 0 disables it.
func (s *Server) Router(rpm, burst int) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(api chi.Router) {
		api.Use(apimw.RateLimit(rpm, burst))
		api.Get("/status", s.handleStatus)
		api.Get("/view", s.handleView)
		api.Get("/search", s.handleSearch)
		api.Get("/poll", s.handlePoll)
	})

	if s.StaticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(s.StaticDir)))
	}
	return r
}

type viewResponse struct {
	Rows        []reconcile.Row `json:"rows"`
	Worst       domain.Status   `json:"worst"`
	GeneratedAt time.Time       `json:"generated_at"`
}

type searchResponse struct {
	Term     string         `json:"term"`
	Total    int            `json:"total"`
	Selected []search.Match `json:"selected"`
	Listing  []string       `json:"listing"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	items, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	items, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	now := s.clock()
	rows := reconcile.BuildRows(items, now.Unix())
	writeJSON(w, http.StatusOK, viewResponse{
		Rows:        rows,
		Worst:       reconcile.WorstRow(rows),
		GeneratedAt: now.UTC(),
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")
	if term == "" {
		writeError(w, http.StatusBadRequest, "missing q")
		return
	}
	items, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	matches := search.Find(reconcile.BuildRows(items, s.clock().Unix()), term)
	selected := search.Select(matches, r.URL.Query().Get("sel"))
	writeJSON(w, http.StatusOK, searchResponse{
		Term:     term,
		Total:    len(matches),
		Selected: selected,
		Listing:  search.Listing(selected),
	})
}

func (s *Server) handlePoll(w http.ResponseWriter, r *http.Request) {
	if s.Watcher == nil {
		writeError(w, http.StatusNotFound, "poller disabled")
		return
	}
	writeJSON(w, http.StatusOK, s.Watcher.View())
}

func (s *Server) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}

func (s *Server) snapshot(w http.ResponseWriter, r *http.Request) ([]domain.SnapshotItem, bool) {
	items, err := s.Snapshots.Fetch(r.Context())
	if err != nil {
		s.Logger.Warn("snapshot_error", zap.String("path", r.URL.Path), zap.Error(err))
		writeError(w, http.StatusBadGateway, "status unavailable")
		return nil, false
	}
	if items == nil {
		items = []domain.SnapshotItem{}
	}
	return items, true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
