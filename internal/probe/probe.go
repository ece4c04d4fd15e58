// Package probe holds the startup checks run by cmd/preflight.
package probe

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/hamed0406/statusmap/internal/nagios"
	"github.com/hamed0406/statusmap/internal/sites"
)

// CheckResult is the outcome of a single preflight check.
type CheckResult struct {
	Name    string `json:"name"`
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Checker is implemented by every preflight check.
type Checker interface {
	Check(ctx context.Context) CheckResult
}

// Run executes checkers in order and reports whether all passed.
func Run(ctx context.Context, checkers ...Checker) ([]CheckResult, bool) {
	results := make([]CheckResult, 0, len(checkers))
	ok := true
	for _, c := range checkers {
		r := c.Check(ctx)
		ok = ok && r.Success
		results = append(results, r)
	}
	return results, ok
}

// EnvChecker fails when any of Keys is unset or blank.
type EnvChecker struct {
	Keys []string
}

func (e EnvChecker) Check(context.Context) CheckResult {
	var missing []string
	for _, k := range e.Keys {
		if strings.TrimSpace(os.Getenv(k)) == "" {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return CheckResult{Name: "ENV", Message: "missing " + strings.Join(missing, ", ")}
	}
	return CheckResult{Name: "ENV", Success: true, Message: "ok"}
}

// SitesChecker loads the site directory and fails when it has no usable entry.
type SitesChecker struct {
	Path string
}

func (s SitesChecker) Check(context.Context) CheckResult {
	list, skipped, err := sites.Load(s.Path)
	if err != nil {
		return CheckResult{Name: "SITES", Message: err.Error()}
	}
	if len(list) == 0 {
		return CheckResult{Name: "SITES", Message: fmt.Sprintf("no usable sites (%d skipped)", skipped)}
	}
	return CheckResult{
		Name:    "SITES",
		Success: true,
		Message: fmt.Sprintf("%d sites, %d skipped", len(list), skipped),
	}
}

// NagiosChecker asks Nagios for one host and fails on any transport or auth error.
// An unknown host still counts as reachable.
type NagiosChecker struct {
	Fetcher nagios.Fetcher
	Host    string
}

func (n NagiosChecker) Check(ctx context.Context) CheckResult {
	hs, err := n.Fetcher.Lookup(ctx, n.Host)
	if err != nil {
		return CheckResult{Name: "NAGIOS", Message: err.Error()}
	}
	return CheckResult{Name: "NAGIOS", Success: true, Message: fmt.Sprintf("%s is %s", n.Host, hs.Status)}
}
