package engine

import "math"

// DefaultChunkSize is how many files are sent to the collaborator per batch.
const DefaultChunkSize = 50

// foldImpact merges per-chunk impact scores with the documented running
// pairwise average: the first chunk seeds the score, every later chunk is
// averaged against the accumulator, and the result is rounded once at the
// end. Chunk order affects the outcome; that is the accepted contract, not
// something to correct with a weighted mean.
func foldImpact(scores []int) int {
	if len(scores) == 0 {
		return 0
	}

	acc := float64(scores[0])
	for _, s := range scores[1:] {
		acc = (acc + float64(s)) / 2
	}

	return int(math.Round(acc))
}

// chunkBounds returns the half-open range of chunk i over n files.
func chunkBounds(i, size, n int) (start, end int) {
	start = i * size
	end = start + size
	if end > n {
		end = n
	}
	return start, end
}

// chunkCount returns how many chunks of the given size cover n files.
func chunkCount(n, size int) int {
	if n == 0 {
		return 0
	}
	return (n + size - 1) / size
}
