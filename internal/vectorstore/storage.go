package vectorstore

import "math"

// Hit is a scored position in the candidate list passed to a Searcher.
type Hit struct {
	Index int
	Score float64
}

// Searcher ranks candidate vectors against a query and returns the best k.
// Implementations must keep Hit.Index pointing into the candidate slice.
type Searcher interface {
	TopK(query []float32, candidates [][]float32, k int) []Hit
}

// Cosine returns the cosine similarity of a and b. It is 0 when either
// vector is empty or all-zero, or when the lengths differ.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0.0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
