// Package similarity scores how alike two entity names are.
package similarity

// Distance returns the Levenshtein edit distance between a and b, counting
// insertions, deletions and substitutions of runes at cost 1 each.
func Distance(a, b string) int {
	ar := []rune(a)
	br := []rune(b)
	if len(ar) == 0 {
		return len(br)
	}
	if len(br) == 0 {
		return len(ar)
	}

	prev := make([]int, len(br)+1)
	curr := make([]int, len(br)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ar); i++ {
		curr[0] = i
		for j := 1; j <= len(br); j++ {
			cost := 1
			if ar[i-1] == br[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(br)]
}

// Similarity returns (maxLen - distance) / maxLen in [0, 1], where maxLen is
// the rune length of the longer string. Two empty strings are identical.
func Similarity(a, b string) float64 {
	maxLen := max(len([]rune(a)), len([]rune(b)))
	if maxLen == 0 {
		return 1
	}
	return float64(maxLen-Distance(a, b)) / float64(maxLen)
}

// Above reports whether a and b are strictly more similar than threshold
func Above(a, b string, threshold float64) bool {
	return Similarity(a, b) > threshold
}
