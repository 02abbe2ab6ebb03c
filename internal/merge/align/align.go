// Package align implements the gap-tolerant longest common subsequence used
// to anchor an incoming word sequence against the existing transcript.
package align

// cell is one entry of the dynamic-programming table: the length of the best
// alignment ending here, and the number of non-matching advances consumed to
// reach it.
type cell struct {
	length int
	gaps   int
}

// pos is a backtrack pointer, (-1, -1) at the origin.
type pos struct {
	i, j int
}

// Align computes a pair of equal-length, strictly ascending index lists
// (indexA, indexB) such that A[indexA[k]] == B[indexB[k]] for every k,
// representing a path of exact matches within the best-scoring alignment of
// A against B. An alignment may skip up to gapBudget non-matching entries
// along any single path between two consecutive matches (advancing A, B, or
// both). If no match exists, both returned slices are empty.
func Align(a, b []string, gapBudget int) (indexA, indexB []int) {
	nA, nB := len(a), len(b)

	dp := make([][]cell, nA+1)
	prev := make([][]pos, nA+1)
	for i := range dp {
		dp[i] = make([]cell, nB+1)
		prev[i] = make([]pos, nB+1)
		for j := range prev[i] {
			prev[i][j] = pos{-1, -1}
		}
	}

	bestI, bestJ, bestLen := 0, 0, 0

	for i := 1; i <= nA; i++ {
		for j := 1; j <= nB; j++ {
			if a[i-1] == b[j-1] {
				dp[i][j] = cell{dp[i-1][j-1].length + 1, 0}
				prev[i][j] = pos{i - 1, j - 1}
			} else {
				dp[i][j] = cell{0, 0}
				prev[i][j] = pos{-1, -1}

				// skip A
				if src := dp[i-1][j]; src.gaps < gapBudget && src.length > dp[i][j].length {
					dp[i][j] = cell{src.length, src.gaps + 1}
					prev[i][j] = prev[i-1][j]
				}
				// skip B
				if src := dp[i][j-1]; src.gaps < gapBudget && src.length > dp[i][j].length {
					dp[i][j] = cell{src.length, src.gaps + 1}
					prev[i][j] = prev[i][j-1]
				}
				// skip both
				if src := dp[i-1][j-1]; src.gaps < gapBudget && src.length > dp[i][j].length {
					dp[i][j] = cell{src.length, src.gaps + 1}
					prev[i][j] = prev[i-1][j-1]
				}
			}

			if dp[i][j].length >= bestLen {
				bestLen = dp[i][j].length
				bestI, bestJ = i, j
			}
		}
	}

	if bestLen == 0 {
		return nil, nil
	}

	endI, endJ := prev[bestI][bestJ].i, prev[bestI][bestJ].j
	var pairs []pos
	for endI != -1 && endJ != -1 {
		pairs = append(pairs, pos{endI, endJ})
		endI, endJ = prev[endI][endJ].i, prev[endI][endJ].j
	}

	indexA = make([]int, len(pairs))
	indexB = make([]int, len(pairs))
	for k := range pairs {
		r := len(pairs) - 1 - k
		indexA[k] = pairs[r].i
		indexB[k] = pairs[r].j
	}
	return indexA, indexB
}
