package llm

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// Embeddings calls the /embeddings endpoint in batches of one request.
type Embeddings struct {
	model  string
	client *openai.Client
}

func NewEmbeddings(cfg Config) *Embeddings {
	return &Embeddings{model: cfg.Model, client: newClient(cfg)}
}

// Embed returns one vector per text, in input order.
func (e *Embeddings) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	rsp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: openai.EmbeddingModel(e.model),
	})
	if err != nil {
		return nil, err
	}

	if len(rsp.Data) == 0 {
		return nil, errNoResponse
	}
	if len(rsp.Data) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(rsp.Data))
	}

	out := make([][]float32, len(texts))
	for i, d := range rsp.Data {
		idx := d.Index
		// some servers leave index at zero for every item
		if idx < 0 || idx >= len(out) || out[idx] != nil {
			idx = i
		}
		if len(d.Embedding) == 0 {
			return nil, fmt.Errorf("empty embedding at position %d", idx)
		}
		out[idx] = d.Embedding
	}
	for i := range out {
		if out[i] == nil {
			return nil, fmt.Errorf("missing embedding at position %d", i)
		}
	}
	return out, nil
}
