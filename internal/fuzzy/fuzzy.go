// Package fuzzy computes "did you mean" suggestions for unknown option and
// subcommand names. Everything here is a pure function of its inputs.
package fuzzy

import (
	"sort"

	"golang.org/x/text/cases"

	"github.com/dzonerzy/argsnap/internal/pool"
)

// DefaultMaxDistance is the edit distance under which a candidate is offered
// as a suggestion.
const DefaultMaxDistance = 2

// Matcher ranks candidates by edit distance to an input.
type Matcher struct {
	maxDistance int
	minLength   int
}

// NewMatcher creates a matcher that accepts candidates within maxDistance edits.
func NewMatcher(maxDistance int) *Matcher {
	return &Matcher{
		maxDistance: maxDistance,
		minLength:   2, // single letters produce noise, not suggestions
	}
}

// Match is one ranked candidate.
type Match struct {
	Value    string
	Distance int
	Score    float64 // 0.0 to 1.0, higher is better
}

// FindBest returns the best candidate or "" when nothing is close enough.
func (m *Matcher) FindBest(input string, candidates []string) string {
	matches := m.FindMatches(input, candidates)
	if len(matches) == 0 {
		return ""
	}
	return matches[0].Value
}

// FindMatches returns every candidate within range, best first. Exact
// (case-folded) matches are skipped since they are not typos. Ties keep the
// candidates' original order.
func (m *Matcher) FindMatches(input string, candidates []string) []Match {
	if len([]rune(input)) < m.minLength {
		return nil
	}

	folder := cases.Fold()
	in := folder.String(input)

	var matches []Match
	for _, candidate := range candidates {
		c := folder.String(candidate)
		if c == in {
			continue
		}
		d := m.distance(in, c)
		if d > m.maxDistance {
			continue
		}
		matches = append(matches, Match{
			Value:    candidate,
			Distance: d,
			Score:    m.calculateScore(in, c, d),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Distance != matches[j].Distance {
			return matches[i].Distance < matches[j].Distance
		}
		return matches[i].Score > matches[j].Score
	})
	return matches
}

// calculateScore blends edit distance with prefix, length and shared
// character bonuses.
func (m *Matcher) calculateScore(input, candidate string, distance int) float64 {
	a, b := []rune(input), []rune(candidate)
	maxLen := max(len(a), len(b))
	if maxLen == 0 {
		return 1.0
	}

	editScore := 1.0 - float64(distance)/float64(maxLen)

	prefixBonus := 0.0
	if p := commonPrefixLength(a, b); p > 0 {
		prefixBonus = float64(p) / float64(min(len(a), len(b))) * 0.3
	}

	lengthBonus := (1.0 - float64(abs(len(a)-len(b)))/float64(maxLen)) * 0.2
	charBonus := float64(countCommonChars(a, b)) / float64(maxLen) * 0.1

	return min(editScore+prefixBonus+lengthBonus+charBonus, 1.0)
}

// distance is Distance with early exit once every path exceeds maxDistance.
func (m *Matcher) distance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if abs(len(ra)-len(rb)) > m.maxDistance {
		return m.maxDistance + 1
	}
	return levenshtein(ra, rb, m.maxDistance)
}

// Distance returns the Levenshtein distance between a and b, counted in runes.
func Distance(a, b string) int {
	return levenshtein([]rune(a), []rune(b), -1)
}

// levenshtein keeps two pooled rows. A non-negative bound enables early exit:
// the result is then only exact when it is <= bound.
func levenshtein(a, b []rune, bound int) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}
	if len(a) > len(b) {
		a, b = b, a
	}

	prevBuf, curBuf := pool.GetInts(len(a)+1), pool.GetInts(len(a)+1)
	defer pool.PutInts(prevBuf)
	defer pool.PutInts(curBuf)
	prev, cur := *prevBuf, *curBuf

	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(b); i++ {
		cur[0] = i
		rowMin := i
		for j := 1; j <= len(a); j++ {
			cost := 1
			if a[j-1] == b[i-1] {
				cost = 0
			}
			cur[j] = min(cur[j-1]+1, prev[j]+1, prev[j-1]+cost)
			rowMin = min(rowMin, cur[j])
		}
		if bound >= 0 && rowMin > bound {
			return bound + 1
		}
		prev, cur = cur, prev
	}
	return prev[len(a)]
}

func commonPrefixLength(a, b []rune) int {
	n := min(len(a), len(b))
	for i := range n {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}

func countCommonChars(a, b []rune) int {
	counts := make(map[rune]int, len(a))
	for _, r := range a {
		counts[r]++
	}
	common := 0
	for _, r := range b {
		if counts[r] > 0 {
			common++
			counts[r]--
		}
	}
	return common
}

func abs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}

// FindBest is a convenience wrapper around NewMatcher(maxDistance).FindBest.
func FindBest(input string, candidates []string, maxDistance int) string {
	return NewMatcher(maxDistance).FindBest(input, candidates)
}

// FindSuggestions returns at most limit candidates, best first.
func FindSuggestions(input string, candidates []string, maxDistance, limit int) []string {
	matches := NewMatcher(maxDistance).FindMatches(input, candidates)
	out := make([]string, 0, min(len(matches), limit))
	for i, match := range matches {
		if i >= limit {
			break
		}
		out = append(out, match.Value)
	}
	return out
}
