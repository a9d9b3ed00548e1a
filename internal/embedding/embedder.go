package embedding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"paperdex/internal/embedding/hash"
)

// Remote is a batched embedding service.
type Remote interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

type remoteState int

const (
	remoteUnknown remoteState = iota
	remoteAvailable
	remoteUnavailable
)

// Provider embeds texts with a remote service when possible and falls back
// to local hash embeddings otherwise. Once the remote call fails the
// provider stays on the local path for the rest of its lifetime.
type Provider struct {
	remote       Remote
	preferRemote bool
	local        *hash.Embedder
	state        remoteState
}

// Config configures a Provider.
type Config struct {
	Remote       Remote
	PreferRemote bool
	HashDims     int
}

// NewProvider creates a provider. A nil Remote disables the remote path.
func NewProvider(cfg Config) *Provider {
	return &Provider{
		remote:       cfg.Remote,
		preferRemote: cfg.PreferRemote && cfg.Remote != nil,
		local:        hash.NewEmbedder(cfg.HashDims),
	}
}

// Dims returns the dimension of locally produced vectors.
func (p *Provider) Dims() int { return p.local.Dimension() }

// RemoteAvailable reports whether the last remote call succeeded.
func (p *Provider) RemoteAvailable() bool { return p.state == remoteAvailable }

// Embed returns one vector per text, in order. targetDim > 0 overrides the
// local bucket count for this call only; remote vectors ignore it.
func (p *Provider) Embed(ctx context.Context, texts []string, targetDim int) [][]float32 {
	if len(texts) == 0 {
		return [][]float32{}
	}
	if p.preferRemote && p.state != remoteUnavailable {
		vecs, err := p.embedRemote(ctx, texts)
		if err == nil {
			p.state = remoteAvailable
			return vecs
		}
		slog.WarnContext(ctx, "remote embedding unavailable, using local hash embeddings",
			"error", err,
			"hint", "set PREFER_REMOTE_EMBEDDING=0 to silence this message")
		p.state = remoteUnavailable
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = p.local.EmbedDims(text, targetDim)
	}
	return out
}

func (p *Provider) embedRemote(ctx context.Context, texts []string) ([][]float32, error) {
	vecs, err := p.remote.Embed(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(vecs) != len(texts) {
		return nil, fmt.Errorf("remote returned %d embeddings for %d inputs", len(vecs), len(texts))
	}
	for _, v := range vecs {
		if len(v) == 0 {
			return nil, errors.New("remote returned an empty embedding")
		}
	}
	return vecs, nil
}
