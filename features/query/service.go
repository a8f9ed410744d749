package query

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"pagelens/internal/answer"
	"pagelens/internal/fetch"
	"pagelens/internal/middleware"
	"pagelens/internal/retrieval"
	"pagelens/internal/structured"
	"pagelens/internal/text"
	"pagelens/internal/vector"
)

var (
	// ErrInput classifies missing or malformed caller input.
	ErrInput = errors.New("invalid input")

	// ErrEmptyDocument reports a fetch that succeeded but yielded nothing to chunk.
	ErrEmptyDocument = errors.New("document has no extractable content")
)

// Fetcher loads one page as a Document.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*fetch.Document, error)
}

// Synthesizer turns a question and an index into a free-text answer.
type Synthesizer interface {
	Answer(ctx context.Context, question string, idx answer.Retriever) (string, error)
}

// Reformatter re-expresses a free-text answer in the server schema.
type Reformatter interface {
	Available() bool
	Reformat(ctx context.Context, freeText string) (any, string, error)
}

// Envelope is the response shape for a successful query: a concise answer, the
// synthesizer's raw output normalized to an object, and the structured result.
type Envelope struct {
	Answer     string         `json:"answer"`
	Raw        map[string]any `json:"raw"`
	Structured any            `json:"structured"`
}

// Service runs the per-request pipeline: fetch, chunk, index, retrieve,
// synthesize, reformat. Each request is one sequential unit of work over
// ephemeral state; every failure is terminal, nothing is retried.
type Service struct {
	fetcher      Fetcher
	embedder     vector.Embedder
	synthesizer  Synthesizer
	reformatter  Reformatter
	chunkSize    int
	chunkOverlap int
	logger       *retrieval.QueryLogger
}

func NewService(
	fetcher Fetcher,
	embedder vector.Embedder,
	synthesizer Synthesizer,
	reformatter Reformatter,
	chunkSize, chunkOverlap int,
	logger *retrieval.QueryLogger,
) *Service {
	return &Service{
		fetcher:      fetcher,
		embedder:     embedder,
		synthesizer:  synthesizer,
		reformatter:  reformatter,
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
		logger:       logger,
	}
}

// Query answers a question about the page at url.
func (s *Service) Query(ctx context.Context, url, question string) (*Envelope, error) {
	start := time.Now()
	entry := retrieval.QueryLogEntry{
		URL:           url,
		Question:      question,
		CorrelationID: middleware.GetCorrelationID(ctx),
	}
	defer func() {
		if s.logger != nil {
			entry.Duration = time.Since(start)
			s.logger.Log(entry)
		}
	}()

	if strings.TrimSpace(url) == "" || strings.TrimSpace(question) == "" {
		err := fmt.Errorf("%w: missing 'url' or 'question' in request", ErrInput)
		entry.Error = err.Error()
		return nil, err
	}

	// Capability checks come before any pipeline work: a misconfigured server
	// must not spend fetch/embed round-trips on a request it cannot finish.
	if s.reformatter == nil || !s.reformatter.Available() || s.synthesizer == nil {
		entry.Error = structured.ErrUnavailable.Error()
		return nil, structured.ErrUnavailable
	}
	if s.embedder == nil {
		entry.Error = vector.ErrEmbeddingUnavailable.Error()
		return nil, vector.ErrEmbeddingUnavailable
	}

	slog.InfoContext(ctx, "query started", "url", url)

	doc, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		entry.Error = err.Error()
		return nil, err
	}

	chunks := text.Split(doc.Text, s.chunkSize, s.chunkOverlap)
	if len(chunks) == 0 {
		entry.Error = ErrEmptyDocument.Error()
		return nil, ErrEmptyDocument
	}
	entry.Chunks = len(chunks)

	idx, err := vector.Build(ctx, chunks, s.embedder)
	if err != nil {
		entry.Error = err.Error()
		return nil, err
	}

	rawAnswer, err := s.synthesizer.Answer(ctx, question, idx)
	if err != nil {
		entry.Error = err.Error()
		return nil, err
	}

	structuredResult, concise, err := s.reformatter.Reformat(ctx, rawAnswer)
	if err != nil {
		entry.Error = err.Error()
		return nil, err
	}

	slog.InfoContext(ctx, "query answered", "url", url, "chunks", len(chunks))

	return &Envelope{
		Answer: concise,
		// The model's raw output is a bare string; it is normalized into one
		// tagged shape here so nothing downstream dispatches on its type.
		Raw:        map[string]any{"result": rawAnswer},
		Structured: structuredResult,
	}, nil
}
