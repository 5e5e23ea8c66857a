// Package filter selects grid columns by name.
package filter

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"
)

type Mode int

const (
	ModeNone Mode = iota
	ModeExact
	ModeContains
	ModeRegex
	ModeFuzzy
)

var modeNames = map[string]Mode{
	"":         ModeNone,
	"none":     ModeNone,
	"exact":    ModeExact,
	"contains": ModeContains,
	"regex":    ModeRegex,
	"fuzzy":    ModeFuzzy,
}

// ParseMode maps a flag value to a Mode.
func ParseMode(s string) (Mode, error) {
	mode, ok := modeNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return ModeNone, fmt.Errorf("unknown match mode '%s' (use exact, contains, regex or fuzzy)", s)
	}
	return mode, nil
}

type StringFilter struct {
	Pattern string
	Mode    Mode
	regex   *regexp.Regexp
}

func NewStringFilter(pattern string, mode Mode) (*StringFilter, error) {
	f := &StringFilter{Pattern: pattern, Mode: mode}
	if mode == ModeRegex {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid regex pattern '%s': %w", pattern, err)
		}
		f.regex = re
	}
	return f, nil
}

func (f *StringFilter) Match(s string) bool {
	switch f.Mode {
	case ModeExact:
		return strings.EqualFold(strings.TrimSpace(s), strings.TrimSpace(f.Pattern))
	case ModeContains:
		return strings.Contains(strings.ToLower(s), strings.ToLower(f.Pattern))
	case ModeRegex:
		return f.regex != nil && f.regex.MatchString(s)
	case ModeFuzzy:
		return FuzzyMatch(f.Pattern, s)
	default:
		return true
	}
}

// FuzzyMatch reports whether every rune of pattern occurs in text in
// order, ignoring case.
func FuzzyMatch(pattern, text string) bool {
	p := []rune(strings.ToLower(pattern))
	if len(p) == 0 {
		return true
	}
	i := 0
	for _, r := range strings.ToLower(text) {
		if r == p[i] {
			i++
			if i == len(p) {
				return true
			}
		}
	}
	return false
}

// LevenshteinDistance is the case-insensitive edit distance between a and b.
func LevenshteinDistance(a, b string) int {
	ra := []rune(strings.ToLower(a))
	rb := []rune(strings.ToLower(b))
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := range ra {
		cur[0] = i + 1
		for j := range rb {
			cost := 1
			if unicode.ToLower(ra[i]) == unicode.ToLower(rb[j]) {
				cost = 0
			}
			cur[j+1] = min(cur[j]+1, prev[j+1]+1, prev[j]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(rb)]
}

// Similar reports whether a and b are at least threshold (0..1) alike by
// edit distance.
func Similar(a, b string, threshold float64) bool {
	longest := max(len([]rune(a)), len([]rune(b)))
	if longest == 0 {
		return true
	}
	return 1-float64(LevenshteinDistance(a, b))/float64(longest) >= threshold
}

// Columns returns the indexes of names matched by any of the filters, in
// column order. No filters selects every column.
func Columns(names []string, filters []*StringFilter) []int {
	var out []int
	for i, name := range names {
		if len(filters) == 0 {
			out = append(out, i)
			continue
		}
		for _, f := range filters {
			if f.Match(name) {
				out = append(out, i)
				break
			}
		}
	}
	return out
}

// Suggest returns the candidates closest to name, best first, for "did you
// mean" hints.
func Suggest(name string, candidates []string, limit int) []string {
	type scored struct {
		name     string
		distance int
	}
	var hits []scored
	for _, c := range candidates {
		if FuzzyMatch(name, c) || Similar(name, c, 0.5) {
			hits = append(hits, scored{c, LevenshteinDistance(name, c)})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].distance < hits[j].distance })

	out := make([]string, 0, min(limit, len(hits)))
	for _, h := range hits {
		if len(out) == limit {
			break
		}
		out = append(out, h.name)
	}
	return out
}
