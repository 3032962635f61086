package service

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// TitleMatcher resolves loosely typed titles against the catalog.
type TitleMatcher struct {
	threshold float64 // minimum similarity (0.0 - 1.0) for a fuzzy hit
	scrambler *Scrambler
}

// NewTitleMatcher creates a TitleMatcher. The scrambler picks a title when
// the query is empty.
func NewTitleMatcher(scrambler *Scrambler) *TitleMatcher {
	return &TitleMatcher{
		threshold: 0.5,
		scrambler: scrambler,
	}
}

// Resolve returns a random candidate for an empty query and the best match otherwise.
func (m *TitleMatcher) Resolve(query string, candidates []string) (string, error) {
	if len(candidates) == 0 {
		return "", fmt.Errorf("resolve %q: %w", query, ErrNotFound)
	}
	if strings.TrimSpace(query) == "" {
		return candidates[m.scrambler.Intn(len(candidates))], nil
	}
	return m.BestMatch(query, candidates)
}

// BestMatch returns the candidate most similar to query. Exact matches win,
// then candidates containing the query, then the closest by edit distance.
// Ties keep the earlier candidate.
func (m *TitleMatcher) BestMatch(query string, candidates []string) (string, error) {
	q := m.normalize(query)

	best, bestScore := "", -1.0
	for _, c := range candidates {
		score := m.score(q, m.normalize(c))
		if score > bestScore {
			best, bestScore = c, score
		}
	}

	if bestScore < m.threshold {
		return "", fmt.Errorf("no title like %q: %w", query, ErrNotFound)
	}
	return best, nil
}

func (m *TitleMatcher) score(query, candidate string) float64 {
	switch {
	case query == candidate:
		return 2.0
	case query != "" && strings.Contains(candidate, query):
		return 1.0 + float64(len(query))/float64(len(candidate))
	default:
		return similarity(query, candidate)
	}
}

// normalize folds case and collapses whitespace.
func (m *TitleMatcher) normalize(s string) string {
	s = cases.Fold().String(strings.TrimSpace(s))
	return strings.Join(strings.Fields(s), " ")
}

// similarity is 1 minus the Levenshtein distance relative to the longer string.
func similarity(s1, s2 string) float64 {
	maxLen := max(len([]rune(s1)), len([]rune(s2)))
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(levenshteinDistance(s1, s2))/float64(maxLen)
}

// levenshteinDistance calculates the Levenshtein distance between two strings.
func levenshteinDistance(s1, s2 string) int {
	r1 := []rune(s1)
	r2 := []rune(s2)

	prev := make([]int, len(r2)+1)
	curr := make([]int, len(r2)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(r1); i++ {
		curr[0] = i
		for j := 1; j <= len(r2); j++ {
			cost := 1
			if r1[i-1] == r2[j-1] {
				cost = 0
			}
			curr[j] = min(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(r2)]
}
