// Package search finds dashboard rows by name or host and interprets the
// selection shorthand used to pick several results at once.
package search

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/hamed0406/statusmap/internal/reconcile"
)

// Normalize lowercases s and strips diacritics, so "São" matches "sao".
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

// Match is a search hit; Index is the row's position in the input.
type Match struct {
	Index int           `json:"index"`
	Row   reconcile.Row `json:"row"`
}

// Find returns rows whose name or host contains term. An empty term matches nothing.
func Find(rows []reconcile.Row, term string) []Match {
	t := Normalize(strings.TrimSpace(term))
	if t == "" {
		return nil
	}
	var out []Match
	for i, r := range rows {
		if strings.Contains(Normalize(r.Name), t) || strings.Contains(Normalize(r.Host), t) {
			out = append(out, Match{Index: i, Row: r})
		}
	}
	return out
}

var (
	rangeRe  = regexp.MustCompile(`^(\d+)\s*-\s*(\d+)$`)
	digitsRe = regexp.MustCompile(`\d+`)
)

// ParseSelection turns a selection string into sorted 0-based indexes for n
// results. Accepted forms: "" or "all", "first N", and lists of 1-based
// numbers and ranges such as "1,3,5-7". Input with nothing usable selects
// everything.
func ParseSelection(n int, sel string) []int {
	if n <= 0 {
		return nil
	}
	p := strings.ToLower(strings.TrimSpace(sel))
	if p == "" || p == "all" {
		return allIndexes(n)
	}
	if strings.HasPrefix(p, "first") {
		k, _ := strconv.Atoi(digitsRe.FindString(p))
		return allIndexes(min(k, n))
	}

	picked := make(map[int]struct{})
	for _, part := range strings.FieldsFunc(p, func(r rune) bool { return r == ',' || r == ';' }) {
		part = strings.TrimSpace(part)
		if m := rangeRe.FindStringSubmatch(part); m != nil {
			a, _ := strconv.Atoi(m[1])
			b, _ := strconv.Atoi(m[2])
			a, b = a-1, b-1
			if a > b {
				a, b = b, a
			}
			for i := max(0, a); i <= min(n-1, b); i++ {
				picked[i] = struct{}{}
			}
			continue
		}
		if k, err := strconv.Atoi(part); err == nil && k >= 1 && k <= n {
			picked[k-1] = struct{}{}
		}
	}
	if len(picked) == 0 {
		return allIndexes(n)
	}
	out := make([]int, 0, len(picked))
	for i := range picked {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// Select applies a selection string to matches.
func Select(matches []Match, sel string) []Match {
	idx := ParseSelection(len(matches), sel)
	out := make([]Match, 0, len(idx))
	for _, i := range idx {
		out = append(out, matches[i])
	}
	return out
}

// Listing renders matches as numbered lines: "1. Name (host) — STATUS".
func Listing(matches []Match) []string {
	out := make([]string, 0, len(matches))
	for i, m := range matches {
		out = append(out, fmt.Sprintf("%d. %s (%s) — %s", i+1, m.Row.Name, m.Row.Host, m.Row.Status))
	}
	return out
}

func allIndexes(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
