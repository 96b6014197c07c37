package similarity

// Levenshtein returns the edit distance between two strings (rune-aware).
func Levenshtein(a, b string) int {
	return boundedDistance([]rune(a), []rune(b), -1)
}

// BoundedLevenshtein returns the edit distance between a and b, or
// bound+1 when the distance exceeds bound. A negative bound disables the
// cut-off.
func BoundedLevenshtein(a, b string, bound int) int {
	return boundedDistance([]rune(a), []rune(b), bound)
}

// boundedDistance uses two rolling rows. When every cell of a row is
// above the bound the final distance must be too, so it stops early.
// Results above the bound are always reported as bound+1, which keeps the
// function symmetric regardless of where the early exit fires.
func boundedDistance(ra, rb []rune, bound int) int {
	la, lb := len(ra), len(rb)
	limit := func(d int) int {
		if bound >= 0 && d > bound {
			return bound + 1
		}
		return d
	}

	if la == 0 || lb == 0 {
		return limit(max(la, lb))
	}
	if bound >= 0 && abs(la-lb) > bound {
		return bound + 1
	}

	prev := make([]int, lb+1)
	curr := make([]int, lb+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= la; i++ {
		curr[0] = i
		rowMin := i
		for j := 1; j <= lb; j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(
				curr[j-1]+1,    // insertion
				prev[j]+1,      // deletion
				prev[j-1]+cost, // substitution
			)
			rowMin = min(rowMin, curr[j])
		}
		if bound >= 0 && rowMin > bound {
			return bound + 1
		}
		prev, curr = curr, prev
	}
	return limit(prev[lb])
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
