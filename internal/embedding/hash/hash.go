package hash

import (
	"crypto/md5"
	"math"
	"math/big"
	"strings"
	"unicode"
)

// DefaultDims is the bucket count used when none is configured.
const DefaultDims = 256

// Embedder implements a bag-of-tokens hashing vectorizer.
// Every token is hashed into one of a fixed number of buckets, so no
// corpus preparation is needed and results are stable across runs.
type Embedder struct {
	dims int
}

// NewEmbedder creates a hash embedder producing vectors of the given length.
func NewEmbedder(dims int) *Embedder {
	if dims <= 0 {
		dims = DefaultDims
	}
	return &Embedder{dims: dims}
}

// Name returns the identifier of this embedder implementation.
func (e *Embedder) Name() string { return "hash" }

// Dimension returns the default length of produced vectors.
func (e *Embedder) Dimension() int { return e.dims }

// Embed returns the L2-normalized bucket histogram of text using the
// default dimension.
func (e *Embedder) Embed(text string) []float32 {
	return e.EmbedDims(text, e.dims)
}

// EmbedDims is Embed with an explicit bucket count. dims <= 0 falls back
// to the default.
func (e *Embedder) EmbedDims(text string, dims int) []float32 {
	if dims <= 0 {
		dims = e.dims
	}
	vec := make([]float32, dims)
	for _, tok := range Tokenize(text) {
		vec[bucket(tok, dims)]++
	}
	normalize(vec)
	return vec
}

// Tokenize lower-cases text and splits it on every rune that is not a
// letter or a number.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

// bucket maps a token to the MD5 digest read as a big-endian integer,
// modulo dims. Existing index files were built with this scheme.
func bucket(token string, dims int) int {
	sum := md5.Sum([]byte(token))
	n := new(big.Int).SetBytes(sum[:])
	return int(n.Mod(n, big.NewInt(int64(dims))).Int64())
}

func normalize(vec []float32) {
	norm := 0.0
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		return
	}
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
}
