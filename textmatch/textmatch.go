// Package textmatch implements the fuzzy string similarity used by the
// constraint filters and the cross-source merge. Similarity is a normalized
// Levenshtein ratio over lowercased, whitespace-collapsed input.
package textmatch

import (
	"strings"
	"unicode"
)

// Normalize lowercases s, strips punctuation to spaces and collapses runs
// of whitespace. Both sides of every comparison go through this first so
// "Eco-Friendly" and "eco friendly" compare equal.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	lastSpace := true
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastSpace = false
		default:
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}

// Similarity returns a score in [0, 1]: 1 for identical normalized strings,
// 0 for completely dissimilar ones. Two empty strings score 1; one empty
// string scores 0.
func Similarity(a, b string) float64 {
	na, nb := Normalize(a), Normalize(b)
	if na == nb {
		return 1
	}
	if na == "" || nb == "" {
		return 0
	}
	dist := levenshtein(na, nb)
	longest := len(na)
	if len(nb) > longest {
		longest = len(nb)
	}
	return 1 - float64(dist)/float64(longest)
}

// Match reports whether a and b are similar at or above threshold.
func Match(a, b string, threshold float64) bool {
	return Similarity(a, b) >= threshold
}

// ContainsToken reports whether any whitespace token of haystack matches
// needle at or above threshold. Used for brand matching where the stored
// brand may be a single token inside a longer field.
func ContainsToken(haystack, needle string, threshold float64) bool {
	n := Normalize(needle)
	if n == "" {
		return false
	}
	for _, tok := range strings.Fields(Normalize(haystack)) {
		if Similarity(tok, n) >= threshold {
			return true
		}
	}
	return Similarity(haystack, needle) >= threshold
}

// levenshtein computes edit distance with the two-row method.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
