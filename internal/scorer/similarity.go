package scorer

// Ratio computes a Ratcliff/Obershelp similarity ratio between a and b, the
// same metric Python's difflib.SequenceMatcher.ratio() produces: twice the
// number of matched characters divided by the combined length of both
// strings. No example repo in the retrieval pack imports a fuzzy-string
// library, so this is the one place in the package built on plain
// comparisons rather than a third-party matcher.
func Ratio(a, b string) float64 {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 && len(rb) == 0 {
		return 1.0
	}
	matched := matchedLength(ra, rb)
	return 2.0 * float64(matched) / float64(len(ra)+len(rb))
}

// matchedLength recursively sums the longest common matching blocks between
// a and b, mirroring difflib's get_matching_blocks.
func matchedLength(a, b []rune) int {
	i, j, size := longestMatch(a, b)
	if size == 0 {
		return 0
	}
	total := size
	total += matchedLength(a[:i], b[:j])
	total += matchedLength(a[i+size:], b[j+size:])
	return total
}

// longestMatch finds the longest block of a that matches a block of b,
// preferring the earliest (leftmost) such block on ties, the same rule
// difflib's find_longest_match uses.
func longestMatch(a, b []rune) (besti, bestj, bestsize int) {
	b2j := make(map[rune][]int, len(b))
	for j, r := range b {
		b2j[r] = append(b2j[r], j)
	}

	j2len := make(map[int]int)
	for i, r := range a {
		newj2len := make(map[int]int)
		for _, j := range b2j[r] {
			k := j2len[j-1] + 1
			newj2len[j] = k
			if k > bestsize {
				besti, bestj, bestsize = i-k+1, j-k+1, k
			}
		}
		j2len = newj2len
	}
	return besti, bestj, bestsize
}
