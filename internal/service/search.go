package service

import (
	"context"

	"paperdex/internal/domain"
	"paperdex/internal/vectorstore"
)

// DefaultTopK is used when neither the caller nor the service sets k.
const DefaultTopK = 5

// rank embeds query at the dimension of the first record and returns the k
// best matches from records.
func rank[T any](ctx context.Context, embedder domain.Embedder, searcher vectorstore.Searcher,
	records []T, vector func(T) []float32, query string, k int) ([]vectorstore.Hit, error) {
	if len(records) == 0 {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dim := len(vector(records[0]))
	q := embedder.Embed(ctx, []string{query}, dim)

	candidates := make([][]float32, len(records))
	for i, r := range records {
		candidates[i] = vector(r)
	}
	return searcher.TopK(q[0], candidates, k), nil
}

func topK(k, fallback int) int {
	if k > 0 {
		return k
	}
	if fallback > 0 {
		return fallback
	}
	return DefaultTopK
}
