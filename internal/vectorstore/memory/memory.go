package memory

import (
	"sort"

	"paperdex/internal/vectorstore"
)

// DefaultTopK is used when a caller asks for k <= 0.
const DefaultTopK = 5

// Searcher is a brute-force cosine similarity ranker. Every candidate is
// scored; there is no approximate index.
type Searcher struct{}

func NewSearcher() *Searcher { return &Searcher{} }

// TopK scores all candidates and returns the k best, highest first. Equal
// scores keep candidate order.
func (s *Searcher) TopK(query []float32, candidates [][]float32, k int) []vectorstore.Hit {
	if k <= 0 {
		k = DefaultTopK
	}
	hits := make([]vectorstore.Hit, len(candidates))
	for i, c := range candidates {
		hits[i] = vectorstore.Hit{Index: i, Score: vectorstore.Cosine(query, c)}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if k > len(hits) {
		k = len(hits)
	}
	return hits[:k]
}
