package structured

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

const maxSummaryRunes = 2000

// ConciseSummary derives a short human-readable answer from a structured
// result. Field priority for objects: "answer", then "summary", then
// "title"/"heading" combined with the first of "sections"/"bullets"/"body",
// then all non-empty values joined and truncated. For a top-level array, the
// first five non-empty elements are joined.
func ConciseSummary(v any) string {
	switch val := v.(type) {
	case map[string]any:
		return summarizeObject(val)
	case []any:
		return summarizeList(val, 5)
	default:
		return ""
	}
}

func summarizeObject(obj map[string]any) string {
	if s := stringValue(obj["answer"]); s != "" {
		return s
	}
	if s := stringValue(obj["summary"]); s != "" {
		return s
	}

	title := firstNonEmpty(stringValue(obj["title"]), stringValue(obj["heading"]))
	sections := firstTruthy(obj, "sections", "bullets", "body")
	if title != "" && sections != nil {
		first := sections
		if list, ok := sections.([]any); ok {
			first = list[0]
		}
		return fmt.Sprintf("%s: %s", title, stringify(first))
	}

	// Last resort: every truthy value, nested structures serialized.
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var parts []string
	for _, k := range keys {
		if !truthy(obj[k]) {
			continue
		}
		if s := stringify(obj[k]); s != "" {
			parts = append(parts, s)
		}
	}
	return truncate(strings.Join(parts, " "), maxSummaryRunes)
}

func summarizeList(list []any, limit int) string {
	var parts []string
	for _, item := range list {
		if len(parts) == limit {
			break
		}
		if !truthy(item) {
			continue
		}
		if s := stringify(item); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// stringValue renders scalar field values; empty and nil come back as "".
func stringValue(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return stringify(v)
}

// stringify renders any value for inclusion in a summary. Nested lists and
// objects come out as compact JSON.
func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case []any, map[string]any:
		b, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(b)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", val))
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// firstTruthy returns the first truthy value among keys, so an empty field
// falls through to the next candidate instead of masking it.
func firstTruthy(obj map[string]any, keys ...string) any {
	for _, k := range keys {
		if v := obj[k]; truthy(v) {
			return v
		}
	}
	return nil
}

// truthy reports whether a JSON-decoded value carries content: nil, empty
// strings, zero numbers, false, and empty collections do not.
func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return val != ""
	case bool:
		return val
	case float64:
		return val != 0
	case []any:
		return len(val) > 0
	case map[string]any:
		return len(val) > 0
	default:
		return true
	}
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
