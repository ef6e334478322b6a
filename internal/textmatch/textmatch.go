// Package textmatch provides the approximate string matching used for
// "did you mean?" suggestions and tolerant title search.
package textmatch

import "unicode/utf8"

const (
	// DefaultThreshold is the similarity a title must reach to count as a search hit.
	DefaultThreshold = 0.75
	// LenientThreshold is a looser bound for callers that prefer recall over precision.
	LenientThreshold = 0.6
)

// EditDistance returns the Levenshtein distance between a and b: the minimum
// number of single-character insertions, deletions or substitutions needed to
// turn one into the other. Comparison is case-sensitive.
func EditDistance(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	rows, cols := len(ra)+1, len(rb)+1
	dist := make([][]int, rows)
	for i := range dist {
		dist[i] = make([]int, cols)
		dist[i][0] = i
	}
	for j := 1; j < cols; j++ {
		dist[0][j] = j
	}

	for i := 1; i < rows; i++ {
		for j := 1; j < cols; j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			dist[i][j] = min(
				dist[i-1][j]+1,      // deletion
				dist[i][j-1]+1,      // insertion
				dist[i-1][j-1]+cost, // substitution
			)
		}
	}

	return dist[rows-1][cols-1]
}

// BestMatch returns the candidate closest to query. A later candidate replaces
// the current best only when strictly closer, so ties keep the earliest one.
// ok is false when there are no candidates.
func BestMatch(query string, candidates []string) (match string, distance int, ok bool) {
	for _, c := range candidates {
		d := EditDistance(query, c)
		if !ok || d < distance {
			match, distance, ok = c, d, true
		}
	}
	return match, distance, ok
}

// Similarity returns 1 - EditDistance/max(len) in [0, 1]. Two empty strings
// are identical.
func Similarity(query, candidate string) float64 {
	maxLen := max(utf8.RuneCountInString(query), utf8.RuneCountInString(candidate))
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(EditDistance(query, candidate))/float64(maxLen)
}

// FilterBySimilarity returns the candidates whose similarity to query is at
// least threshold, in their original order.
func FilterBySimilarity(query string, candidates []string, threshold float64) []string {
	var out []string
	for _, c := range candidates {
		if Similarity(query, c) >= threshold {
			out = append(out, c)
		}
	}
	return out
}
