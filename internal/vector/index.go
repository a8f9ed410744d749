package vector

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"pagelens/internal/text"
)

// ErrEmbeddingUnavailable reports that no embedding provider was configured.
var ErrEmbeddingUnavailable = errors.New("embedding provider not initialized")

// Embedder is the embedding capability consumed by the index. Implementations
// must be safe for concurrent use by in-flight requests.
type Embedder interface {
	EmbedMany(ctx context.Context, texts []string) ([][]float32, error)
	EmbedOne(ctx context.Context, text string) ([]float32, error)
}

// Scored pairs a chunk with its similarity to a query.
type Scored struct {
	Chunk text.Chunk
	Score float64
}

// Index is an in-memory similarity index over one document's chunks. It is
// built fresh per request, never persisted, and dropped when the request ends.
type Index struct {
	chunks   []text.Chunk
	vectors  [][]float32
	embedder Embedder
}

// Build embeds all chunks in one batched call and stores the vectors with
// back-references to their chunks.
func Build(ctx context.Context, chunks []text.Chunk, embedder Embedder) (*Index, error) {
	if embedder == nil {
		return nil, ErrEmbeddingUnavailable
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("no chunks to index")
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	vectors, err := embedder.EmbedMany(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(chunks))
	}

	return &Index{chunks: chunks, vectors: vectors, embedder: embedder}, nil
}

// Query embeds q and returns the k most similar chunks by cosine similarity,
// highest first. Ties keep original chunk order, so identical inputs always
// produce identically ordered results.
func (ix *Index) Query(ctx context.Context, q string, k int) ([]Scored, error) {
	if k <= 0 {
		return nil, fmt.Errorf("k must be positive, got %d", k)
	}

	qv, err := ix.embedder.EmbedOne(ctx, q)
	if err != nil {
		return nil, err
	}

	scored := make([]Scored, len(ix.chunks))
	for i := range ix.chunks {
		scored[i] = Scored{Chunk: ix.chunks[i], Score: cosine(ix.vectors[i], qv)}
	}

	sort.SliceStable(scored, func(a, b int) bool {
		return scored[a].Score > scored[b].Score
	})

	if k > len(scored) {
		k = len(scored)
	}
	return scored[:k], nil
}

// Len reports how many chunks the index holds.
func (ix *Index) Len() int {
	return len(ix.chunks)
}

func cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
