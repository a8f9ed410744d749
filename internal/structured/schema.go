package structured

import (
	"fmt"
	"strings"
)

// Field is one named entry of the output schema, with a human-readable
// description the model sees in the format instructions.
type Field struct {
	Name        string
	Description string
}

// Schema is the fixed, server-defined contract a structured answer must
// conform to. It is built once at startup and identical for every request
// the process serves.
type Schema []Field

// DefaultSchema is the schema this server extracts page answers into.
func DefaultSchema() Schema {
	return Schema{
		{Name: "title", Description: "Main topic or heading extracted from the content."},
		{Name: "sections", Description: "List of sections with bullet points."},
	}
}

// FormatInstructions renders machine-readable instructions telling the model
// to emit a fenced JSON object shaped by the schema.
func (s Schema) FormatInstructions() string {
	var sb strings.Builder
	sb.WriteString("The output should be a markdown code snippet formatted in the following schema, ")
	sb.WriteString("including the leading and trailing \"```json\" and \"```\":\n\n```json\n{\n")
	for i, f := range s {
		sb.WriteString(fmt.Sprintf("\t%q: string  // %s", f.Name, f.Description))
		if i < len(s)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n```")
	return sb.String()
}
