package sites

import (
	"fmt"
	"math"
	"os"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hamed0406/statusmap/internal/domain"
)

type file struct {
	Sites []domain.Site `yaml:"sites"`
}

// Parse decodes a site list. Entries without a host or with unusable
// coordinates are dropped; skipped reports how many.
func Parse(data []byte) (list []domain.Site, skipped int, err error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, 0, fmt.Errorf("parse sites: %w", err)
	}
	list = make([]domain.Site, 0, len(f.Sites))
	for _, s := range f.Sites {
		s.Name = strings.TrimSpace(strings.ReplaceAll(s.Name, "\u00a0", " "))
		s.Host = strings.TrimSpace(strings.ReplaceAll(s.Host, "\u00a0", " "))
		if s.Host == "" || !finite(s.Lat) || !finite(s.Lng) {
			skipped++
			continue
		}
		if s.Name == "" {
			s.Name = s.Host
		}
		list = append(list, s)
	}
	return list, skipped, nil
}

// Load reads and parses a sites file.
func Load(path string) ([]domain.Site, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("read sites: %w", err)
	}
	return Parse(data)
}

// Directory serves the site list and re-reads the file whenever its
// modification time changes.
type Directory struct {
	path string

	mu    sync.Mutex
	mtime time.Time
	sites []domain.Site
}

// Open loads the file once; later reloads happen lazily in Sites.
func Open(path string) (*Directory, error) {
	d := &Directory{path: path}
	if _, _, err := d.Sites(); err != nil {
		return nil, err
	}
	return d, nil
}

// Sites returns the current list. reloaded is true when the file was
// (re)read by this call. If a reload fails the previous list is kept and
// the error is returned alongside it.
func (d *Directory) Sites() (list []domain.Site, reloaded bool, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	st, err := os.Stat(d.path)
	if err != nil {
		return d.sites, false, fmt.Errorf("stat sites: %w", err)
	}
	if d.sites != nil && st.ModTime().Equal(d.mtime) {
		return d.sites, false, nil
	}
	fresh, _, err := Load(d.path)
	if err != nil {
		return d.sites, false, err
	}
	d.sites = fresh
	d.mtime = st.ModTime()
	return d.sites, true, nil
}

// Path is the file backing the directory.
func (d *Directory) Path() string { return d.path }

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }
