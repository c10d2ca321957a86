package insights

import "strings"

// Similarity returns the normalized Levenshtein similarity of two strings
// in [0, 1]. Both strings are trimmed and case-folded first; an exact match
// after normalization is 1, an empty string on either side is 0.
func Similarity(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))

	if a == b {
		if a == "" {
			return 0
		}
		return 1
	}
	if a == "" || b == "" {
		return 0
	}

	dist := levenshtein(a, b)
	maxLen := len([]rune(a))
	if lb := len([]rune(b)); lb > maxLen {
		maxLen = lb
	}
	return 1 - float64(dist)/float64(maxLen)
}

// levenshtein computes the classic edit distance (insert, delete,
// substitute, each cost 1) with a full DP matrix. Description strings are
// short, so the O(len(a)*len(b)) cost is fine.
func levenshtein(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)

	rows := len(ra) + 1
	cols := len(rb) + 1

	d := make([][]int, rows)
	for i := range d {
		d[i] = make([]int, cols)
		d[i][0] = i
	}
	for j := 1; j < cols; j++ {
		d[0][j] = j
	}

	for i := 1; i < rows; i++ {
		for j := 1; j < cols; j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			del := d[i-1][j] + 1
			ins := d[i][j-1] + 1
			sub := d[i-1][j-1] + cost

			min := del
			if ins < min {
				min = ins
			}
			if sub < min {
				min = sub
			}
			d[i][j] = min
		}
	}

	return d[rows-1][cols-1]
}
