package render

import (
	"strings"

	"toonbench/internal/jsonval"
)

// Markdown renders a JSON value as a Markdown document. It is total: every
// well-formed value produces a string, possibly empty.
func Markdown(value jsonval.Value) string {
	var builder strings.Builder
	emitNode(&builder, Normalize(value))
	return strings.TrimRight(builder.String(), "\n")
}

func emitNode(builder *strings.Builder, node Node) {
	switch node.Kind {
	case ScalarNode:
		builder.WriteString(node.Text + "\n")
	case ListNode:
		emitList(builder, node)
	case TableNode:
		emitTable(builder, node)
	case SectionNode:
		emitSection(builder, node)
	case EmptyNode:
		// Bare empty containers render as nothing; labeled ones are
		// handled by emitSection.
	}
}

func emitList(builder *strings.Builder, node Node) {
	for _, item := range node.Items {
		builder.WriteString("- " + item + "\n")
	}
}

func emitTable(builder *strings.Builder, node Node) {
	cells := make([]string, 0, len(node.Header))
	for _, key := range node.Header {
		cells = append(cells, escapeCell(key))
	}
	builder.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	separators := make([]string, len(node.Header))
	for i := range separators {
		separators[i] = "---"
	}
	builder.WriteString("| " + strings.Join(separators, " | ") + " |\n")
	for _, row := range node.Rows {
		cells = cells[:0]
		for _, cell := range row {
			cells = append(cells, escapeCell(cell))
		}
		builder.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
}

func emitSection(builder *strings.Builder, node Node) {
	for _, field := range node.Fields {
		switch field.Node.Kind {
		case ScalarNode:
			builder.WriteString("**" + field.Label + ":** " + field.Node.Text + "\n\n")
		case EmptyNode:
			builder.WriteString("### " + field.Label + "\n\n(empty)\n\n")
		default:
			builder.WriteString("### " + field.Label + "\n\n")
			emitNode(builder, field.Node)
			builder.WriteString("\n")
		}
	}
}

// escapeCell keeps pipe characters from breaking table geometry.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", "\\|")
}

// MarkdownBytes is a convenience wrapper for callers holding raw JSON.
func MarkdownBytes(data []byte) (string, error) {
	value, err := jsonval.Parse(data)
	if err != nil {
		return "", err
	}
	return Markdown(value), nil
}
