// Package levenshtein measures edit distance between names and picks the
// closest match from a candidate list.
package levenshtein

import "strings"

// Distance returns the number of single-rune insertions, deletions and
// substitutions needed to turn a into b.
func Distance(a, b string) int {
	s1 := []rune(a)
	s2 := []rune(b)

	if len(s1) < len(s2) {
		s1, s2 = s2, s1
	}

	if len(s2) == 0 {
		return len(s1)
	}

	// One row of the DP matrix, sized by the shorter string.
	row := make([]int, len(s2)+1)
	for i := range row {
		row[i] = i
	}

	for i, r1 := range s1 {
		diag := row[0]
		row[0] = i + 1

		for j, r2 := range s2 {
			cost := 1
			if r1 == r2 {
				cost = 0
			}

			next := min(row[j+1]+1, row[j]+1, diag+cost)
			diag = row[j+1]
			row[j+1] = next
		}
	}

	return row[len(s2)]
}

// Closest returns the candidate nearest to s, ignoring case, when its
// distance is at most maxDist. Ties keep the earlier candidate.
func Closest(s string, candidates []string, maxDist int) (string, bool) {
	target := strings.ToLower(s)
	best, bestDist := "", maxDist+1

	for _, c := range candidates {
		d := Distance(target, strings.ToLower(c))
		if d < bestDist {
			best, bestDist = c, d
		}
	}

	return best, best != ""
}
