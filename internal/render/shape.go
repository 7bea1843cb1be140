package render

import (
	"strings"
	"unicode"

	"toonbench/internal/jsonval"
)

// NodeKind identifies the rendering shape chosen for a value.
type NodeKind int

const (
	// ScalarNode renders as the scalar's string form.
	ScalarNode NodeKind = iota
	// ListNode renders as a bulleted list of scalar items.
	ListNode
	// TableNode renders as a Markdown table.
	TableNode
	// SectionNode renders as one labeled block per object key.
	SectionNode
	// EmptyNode marks an empty array or object.
	EmptyNode
)

// Node is the normalized form of a JSON value, decided before any text is
// emitted so shape selection and emission can be tested separately.
type Node struct {
	Kind   NodeKind
	Text   string         // ScalarNode
	Items  []string       // ListNode
	Header []string       // TableNode
	Rows   [][]string     // TableNode
	Fields []SectionField // SectionNode
}

// SectionField is one labeled entry of a section.
type SectionField struct {
	Label string
	Node  Node
}

// Normalize maps a JSON value onto the closed set of rendering shapes.
func Normalize(value jsonval.Value) Node {
	switch value.Kind {
	case jsonval.Object:
		if len(value.Members) == 0 {
			return Node{Kind: EmptyNode}
		}
		fields := make([]SectionField, 0, len(value.Members))
		for _, member := range value.Members {
			fields = append(fields, SectionField{
				Label: titleLabel(member.Key),
				Node:  Normalize(member.Value),
			})
		}
		return Node{Kind: SectionNode, Fields: fields}
	case jsonval.Array:
		return normalizeArray(value.Items)
	default:
		return Node{Kind: ScalarNode, Text: value.ScalarString()}
	}
}

func normalizeArray(items []jsonval.Value) Node {
	if len(items) == 0 {
		return Node{Kind: EmptyNode}
	}
	if allObjects(items) {
		header := unionKeys(items)
		rows := make([][]string, 0, len(items))
		for _, item := range items {
			row := make([]string, 0, len(header))
			for _, key := range header {
				child, ok := item.Get(key)
				if !ok {
					row = append(row, "")
					continue
				}
				row = append(row, cellString(child))
			}
			rows = append(rows, row)
		}
		return Node{Kind: TableNode, Header: header, Rows: rows}
	}
	rendered := make([]string, 0, len(items))
	for _, item := range items {
		rendered = append(rendered, cellString(item))
	}
	return Node{Kind: ListNode, Items: rendered}
}

func allObjects(items []jsonval.Value) bool {
	for _, item := range items {
		if item.Kind != jsonval.Object {
			return false
		}
	}
	return true
}

// unionKeys collects every key across all elements in first-seen order.
func unionKeys(items []jsonval.Value) []string {
	seen := map[string]bool{}
	keys := []string{}
	for _, item := range items {
		for _, member := range item.Members {
			if !seen[member.Key] {
				seen[member.Key] = true
				keys = append(keys, member.Key)
			}
		}
	}
	return keys
}

// cellString flattens a value into a single table cell or list item.
// Nested objects become a "key: value" comma list, nested arrays a
// comma-joined list of their rendered elements.
func cellString(value jsonval.Value) string {
	switch value.Kind {
	case jsonval.Object:
		parts := make([]string, 0, len(value.Members))
		for _, member := range value.Members {
			parts = append(parts, member.Key+": "+cellString(member.Value))
		}
		return strings.Join(parts, ", ")
	case jsonval.Array:
		parts := make([]string, 0, len(value.Items))
		for _, item := range value.Items {
			parts = append(parts, cellString(item))
		}
		return strings.Join(parts, ", ")
	default:
		return value.ScalarString()
	}
}

// titleLabel converts a camelCase key into a Title Case display label.
func titleLabel(key string) string {
	if key == "" {
		return key
	}
	var builder strings.Builder
	runes := []rune(key)
	for i, r := range runes {
		if i == 0 {
			builder.WriteRune(unicode.ToUpper(r))
			continue
		}
		if unicode.IsUpper(r) && !unicode.IsUpper(runes[i-1]) {
			builder.WriteRune(' ')
		}
		builder.WriteRune(r)
	}
	return builder.String()
}
