package answer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pagelens/internal/vector"
)

// ErrGeneration classifies language-model failures during answer synthesis.
var ErrGeneration = errors.New("answer generation failed")

// Generator is the language-model capability consumed by the synthesizer.
// Implementations must be safe for concurrent use.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Retriever yields the chunks most similar to a query.
type Retriever interface {
	Query(ctx context.Context, q string, k int) ([]vector.Scored, error)
}

// Synthesizer produces a free-text answer by stuffing the retrieved chunks
// and the question into a single generation request. Document size support is
// therefore capped by the model's context window, which is accepted.
type Synthesizer struct {
	gen  Generator
	topK int
}

func NewSynthesizer(gen Generator, topK int) *Synthesizer {
	return &Synthesizer{gen: gen, topK: topK}
}

// Answer retrieves the topK chunks for question and runs one generation.
// A failed call or blank output is terminal; nothing is retried.
func (s *Synthesizer) Answer(ctx context.Context, question string, idx Retriever) (string, error) {
	results, err := idx.Query(ctx, question, s.topK)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("Use the following context to answer the question. ")
	sb.WriteString("Answer only from the context; if the context does not contain the answer, say so.\n\nContext:\n")
	for _, r := range results {
		sb.WriteString(r.Chunk.Text)
		sb.WriteString("\n\n")
	}
	sb.WriteString("Question: ")
	sb.WriteString(question)
	sb.WriteString("\nAnswer:")

	out, err := s.gen.Generate(ctx, sb.String())
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	if strings.TrimSpace(out) == "" {
		return "", fmt.Errorf("%w: model returned no usable text", ErrGeneration)
	}
	return out, nil
}
