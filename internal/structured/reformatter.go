package structured

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrUnavailable reports that the structured-output capability was not
	// initialized. This is a configuration fault, checked before any
	// per-request work starts.
	ErrUnavailable = errors.New("structured output capability is not available")

	// ErrSchemaViolation reports model output that could not be parsed as a
	// structured result.
	ErrSchemaViolation = errors.New("structured output violates schema")
)

// Generator is the language-model capability consumed by the reformatter.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Reformatter re-expresses a free-text answer in the server schema. There is
// deliberately no fallback: the contract with the caller is "always
// structured", never "sometimes structured, sometimes free text", so every
// failure in this stage fails the whole request.
type Reformatter struct {
	gen          Generator
	schema       Schema
	instructions string
}

func NewReformatter(gen Generator, schema Schema) *Reformatter {
	return &Reformatter{
		gen:          gen,
		schema:       schema,
		instructions: schema.FormatInstructions(),
	}
}

// Available reports whether the reformatter can serve requests.
func (r *Reformatter) Available() bool {
	return r != nil && r.gen != nil
}

// Reformat asks the model once to re-express freeText in the schema, parses
// the response, and derives a concise summary from the parsed result.
func (r *Reformatter) Reformat(ctx context.Context, freeText string) (any, string, error) {
	if !r.Available() {
		return nil, "", ErrUnavailable
	}

	prompt := fmt.Sprintf("Reform the following into the EXACT schema.\n\nAnswer:\n%s\n\nSchema:\n%s\n",
		freeText, r.instructions)

	out, err := r.gen.Generate(ctx, prompt)
	if err != nil {
		return nil, "", fmt.Errorf("reformatting request failed: %w", err)
	}

	parsed, err := Parse(out)
	if err != nil {
		return nil, "", err
	}

	return parsed, ConciseSummary(parsed), nil
}

var fenceRe = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(.*?)```")

// Parse validates model text as a structured result. The only accepted
// top-level shapes are a JSON object and a JSON array; a fenced code block
// around the JSON is tolerated.
func Parse(raw string) (any, error) {
	candidate := strings.TrimSpace(raw)
	if m := fenceRe.FindStringSubmatch(candidate); m != nil {
		candidate = strings.TrimSpace(m[1])
	}

	var v any
	if err := json.Unmarshal([]byte(candidate), &v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaViolation, err)
	}

	switch v.(type) {
	case map[string]any, []any:
		return v, nil
	default:
		return nil, fmt.Errorf("%w: top-level value must be an object or an array, got %T", ErrSchemaViolation, v)
	}
}
