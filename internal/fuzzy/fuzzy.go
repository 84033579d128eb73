// Package fuzzy provides fuzzy matching for command line suggestions.
// Used by the typo correction middleware to propose aliases for unmatched tokens.
package fuzzy

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Matcher provides fuzzy matching functionality for CLI suggestions
type Matcher struct {
	maxDistance int
	minLength   int
}

// NewMatcher creates a new fuzzy matcher with the given max edit distance
func NewMatcher(maxDistance int) *Matcher {
	return &Matcher{
		maxDistance: maxDistance,
		minLength:   2, // Don't suggest for very short inputs
	}
}

// Match represents a fuzzy match result
type Match struct {
	Value    string
	Distance int
	Score    float64 // 0.0 to 1.0, higher is better
}

// FindBest finds the best matching string from candidates
// Returns empty string if no good match found
func (m *Matcher) FindBest(input string, candidates []string) string {
	matches := m.FindMatches(input, candidates)
	if len(matches) == 0 {
		return ""
	}
	return matches[0].Value
}

// FindMatches finds all matching strings from candidates, sorted by quality.
// Option prefixes are ignored when measuring distance, so "--verbos" is one
// edit away from "--verbose" and not from "-v".
func (m *Matcher) FindMatches(input string, candidates []string) []Match {
	input = strings.ToLower(trimPrefix(input))
	if len(input) < m.minLength {
		return nil
	}

	var matches []Match
	for _, candidate := range candidates {
		candidateLower := strings.ToLower(trimPrefix(candidate))

		// Skip exact matches (not fuzzy)
		if input == candidateLower {
			continue
		}
		if abs(len(input)-len(candidateLower)) > m.maxDistance {
			continue
		}

		distance := levenshtein.ComputeDistance(input, candidateLower)
		if distance <= m.maxDistance {
			matches = append(matches, Match{
				Value:    candidate,
				Distance: distance,
				Score:    m.calculateScore(input, candidateLower, distance),
			})
		}
	}

	// Sort by score (descending) then by distance (ascending)
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score == matches[j].Score {
			return matches[i].Distance < matches[j].Distance
		}
		return matches[i].Score > matches[j].Score
	})

	return matches
}

// calculateScore computes a match quality score (0.0 to 1.0)
// Factors: edit distance, length difference, prefix matching, common characters
func (m *Matcher) calculateScore(input, candidate string, distance int) float64 {
	if distance > m.maxDistance {
		return 0.0
	}

	maxLen := max(len(input), len(candidate))
	if maxLen == 0 {
		return 1.0
	}

	editScore := 1.0 - (float64(distance) / float64(maxLen))

	prefixBonus := 0.0
	if prefixLen := commonPrefixLength(input, candidate); prefixLen > 0 {
		prefixBonus = float64(prefixLen) / float64(min(len(input), len(candidate))) * 0.3
	}

	lengthDiff := abs(len(input) - len(candidate))
	lengthBonus := (1.0 - float64(lengthDiff)/float64(maxLen)) * 0.2

	charBonus := float64(countCommonChars(input, candidate)) / float64(maxLen) * 0.1

	return min(editScore+prefixBonus+lengthBonus+charBonus, 1.0)
}

// commonPrefixLength returns the length of the common prefix
func commonPrefixLength(a, b string) int {
	n := min(len(a), len(b))
	for i := range n {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}

// countCommonChars counts characters that appear in both strings
func countCommonChars(a, b string) int {
	charCount := make(map[rune]int)
	for _, r := range a {
		charCount[r]++
	}
	common := 0
	for _, r := range b {
		if charCount[r] > 0 {
			common++
			charCount[r]--
		}
	}
	return common
}

func trimPrefix(s string) string {
	switch {
	case strings.HasPrefix(s, "--"):
		return s[2:]
	case strings.HasPrefix(s, "-"), strings.HasPrefix(s, "/"):
		return s[1:]
	}
	return s
}

func abs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}

// Suggester proposes the closest candidates for a mistyped token.
type Suggester struct {
	MaxDistance    int
	MaxSuggestions int
}

// NewSuggester returns a suggester allowing three edits and five suggestions.
func NewSuggester() *Suggester {
	return &Suggester{MaxDistance: 3, MaxSuggestions: 5}
}

// Suggest returns up to MaxSuggestions candidates, best first. Only the
// candidates at the smallest edit distance found are kept.
func (s *Suggester) Suggest(token string, candidates []string) []string {
	matches := NewMatcher(s.MaxDistance).FindMatches(token, candidates)
	if len(matches) == 0 {
		return nil
	}
	best := matches[0].Distance
	for _, m := range matches[1:] {
		best = min(best, m.Distance)
	}
	out := make([]string, 0, min(len(matches), s.MaxSuggestions))
	for _, m := range matches {
		if m.Distance != best {
			continue
		}
		if len(out) == s.MaxSuggestions {
			break
		}
		out = append(out, m.Value)
	}
	return out
}

// FindSuggestions finds multiple suggestions for CLI error messages
func FindSuggestions(input string, candidates []string, maxDistance, maxSuggestions int) []string {
	return (&Suggester{MaxDistance: maxDistance, MaxSuggestions: maxSuggestions}).Suggest(input, candidates)
}
