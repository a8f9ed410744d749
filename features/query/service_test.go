package query

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagelens/internal/answer"
	"pagelens/internal/fetch"
	"pagelens/internal/structured"
	"pagelens/internal/vector"
)

// --- Stubs ---

type stubFetcher struct {
	doc   *fetch.Document
	err   error
	calls int
}

func (f *stubFetcher) Fetch(ctx context.Context, url string) (*fetch.Document, error) {
	f.calls++
	return f.doc, f.err
}

type stubEmbedder struct {
	calls int
}

func (e *stubEmbedder) EmbedMany(ctx context.Context, texts []string) ([][]float32, error) {
	e.calls++
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, float32(i)}
	}
	return out, nil
}

func (e *stubEmbedder) EmbedOne(ctx context.Context, t string) ([]float32, error) {
	e.calls++
	return []float32{1, 0}, nil
}

type stubSynthesizer struct {
	reply string
	err   error
}

func (s *stubSynthesizer) Answer(ctx context.Context, question string, idx answer.Retriever) (string, error) {
	return s.reply, s.err
}

type stubReformatter struct {
	parsed    any
	concise   string
	err       error
	available bool
}

func (r *stubReformatter) Available() bool { return r.available }

func (r *stubReformatter) Reformat(ctx context.Context, freeText string) (any, string, error) {
	if r.err != nil {
		return nil, "", r.err
	}
	return r.parsed, r.concise, nil
}

func newService(f Fetcher, e vector.Embedder, s Synthesizer, r Reformatter) *Service {
	return NewService(f, e, s, r, 2000, 200, nil)
}

func workingPipeline() (*stubFetcher, *stubEmbedder, *stubSynthesizer, *stubReformatter) {
	fetcher := &stubFetcher{doc: &fetch.Document{
		URL:  "http://example.com/pets",
		Text: "Cats are mammals. Dogs are mammals too.",
	}}
	embedder := &stubEmbedder{}
	synthesizer := &stubSynthesizer{reply: "Cats are mammals."}
	reformatter := &stubReformatter{
		parsed:    map[string]any{"answer": "Cats are mammals."},
		concise:   "Cats are mammals.",
		available: true,
	}
	return fetcher, embedder, synthesizer, reformatter
}

// --- Tests ---

func TestQuery_EndToEnd(t *testing.T) {
	fetcher, embedder, synthesizer, reformatter := workingPipeline()
	svc := newService(fetcher, embedder, synthesizer, reformatter)

	env, err := svc.Query(context.Background(), "http://example.com/pets", "What are cats?")
	require.NoError(t, err)

	assert.Equal(t, "Cats are mammals.", env.Answer)
	assert.Equal(t, map[string]any{"result": "Cats are mammals."}, env.Raw)
	assert.Equal(t, map[string]any{"answer": "Cats are mammals."}, env.Structured)
}

func TestQuery_InputValidation(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		question string
	}{
		{"Missing URL", "", "What are cats?"},
		{"Missing Question", "http://example.com", ""},
		{"Blank URL", "   ", "q"},
		{"Both Missing", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher, embedder, synthesizer, reformatter := workingPipeline()
			svc := newService(fetcher, embedder, synthesizer, reformatter)

			_, err := svc.Query(context.Background(), tt.url, tt.question)
			assert.ErrorIs(t, err, ErrInput)
			assert.Zero(t, fetcher.calls, "no pipeline work on bad input")
		})
	}
}

func TestQuery_FailFastWithoutStructuredCapability(t *testing.T) {
	fetcher, embedder, synthesizer, _ := workingPipeline()

	t.Run("Nil Reformatter", func(t *testing.T) {
		svc := newService(fetcher, embedder, synthesizer, nil)
		_, err := svc.Query(context.Background(), "http://example.com", "q")
		assert.ErrorIs(t, err, structured.ErrUnavailable)
	})

	t.Run("Unavailable Reformatter", func(t *testing.T) {
		svc := newService(fetcher, embedder, synthesizer, &stubReformatter{available: false})
		_, err := svc.Query(context.Background(), "http://example.com", "q")
		assert.ErrorIs(t, err, structured.ErrUnavailable)
	})

	t.Run("No Fetch Or Embed Work Attempted", func(t *testing.T) {
		f := &stubFetcher{doc: &fetch.Document{Text: "text"}}
		e := &stubEmbedder{}
		svc := newService(f, e, synthesizer, nil)

		_, _ = svc.Query(context.Background(), "http://example.com", "q")
		assert.Zero(t, f.calls)
		assert.Zero(t, e.calls)
	})
}

func TestQuery_EmbeddingUnavailable(t *testing.T) {
	fetcher, _, synthesizer, reformatter := workingPipeline()
	svc := newService(fetcher, nil, synthesizer, reformatter)

	_, err := svc.Query(context.Background(), "http://example.com", "q")
	assert.ErrorIs(t, err, vector.ErrEmbeddingUnavailable)
	assert.Zero(t, fetcher.calls, "capability check precedes fetching")
}

func TestQuery_FetchFailure(t *testing.T) {
	_, embedder, synthesizer, reformatter := workingPipeline()
	fetcher := &stubFetcher{err: fmt.Errorf("%w: host unreachable", fetch.ErrFetch)}
	svc := newService(fetcher, embedder, synthesizer, reformatter)

	_, err := svc.Query(context.Background(), "http://example.com", "q")
	assert.ErrorIs(t, err, fetch.ErrFetch)
}

func TestQuery_EmptyDocument(t *testing.T) {
	_, embedder, synthesizer, reformatter := workingPipeline()
	fetcher := &stubFetcher{doc: &fetch.Document{URL: "http://example.com", Text: ""}}
	svc := newService(fetcher, embedder, synthesizer, reformatter)

	_, err := svc.Query(context.Background(), "http://example.com", "q")
	assert.ErrorIs(t, err, ErrEmptyDocument)
	assert.Zero(t, embedder.calls, "nothing embedded for an empty document")
}

func TestQuery_SynthesisFailure(t *testing.T) {
	fetcher, embedder, _, reformatter := workingPipeline()
	synthesizer := &stubSynthesizer{err: fmt.Errorf("%w: model returned no usable text", answer.ErrGeneration)}
	svc := newService(fetcher, embedder, synthesizer, reformatter)

	_, err := svc.Query(context.Background(), "http://example.com", "q")
	assert.ErrorIs(t, err, answer.ErrGeneration)
}

func TestQuery_ReformatFailureHasNoFallback(t *testing.T) {
	fetcher, embedder, synthesizer, _ := workingPipeline()
	reformatter := &stubReformatter{
		available: true,
		err:       fmt.Errorf("%w: unexpected token", structured.ErrSchemaViolation),
	}
	svc := newService(fetcher, embedder, synthesizer, reformatter)

	env, err := svc.Query(context.Background(), "http://example.com", "q")
	assert.Nil(t, env, "no free-text-only success shape exists")
	assert.ErrorIs(t, err, structured.ErrSchemaViolation)
}

func TestQuery_RawWrapsBareString(t *testing.T) {
	fetcher, embedder, _, reformatter := workingPipeline()
	synthesizer := &stubSynthesizer{reply: "a plain text answer"}
	svc := newService(fetcher, embedder, synthesizer, reformatter)

	env, err := svc.Query(context.Background(), "http://example.com", "q")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"result": "a plain text answer"}, env.Raw)
}
