// Package toon encodes JSON-compatible values into the compact
// token-oriented notation used as one of the benchmark format variants.
// Objects become indented key/value lines, arrays of uniform objects become
// tabular blocks with a shared field header, and scalar arrays collapse to a
// single comma-joined row.
package toon

import (
	"strconv"
	"strings"

	"toonbench/internal/jsonval"
)

const indentUnit = "  "

// Encode renders a value as TOON text. It is pure and never fails on
// well-formed input.
func Encode(value jsonval.Value) string {
	var builder strings.Builder
	switch value.Kind {
	case jsonval.Object:
		encodeMembers(&builder, value.Members, 0)
	case jsonval.Array:
		encodeArray(&builder, "", value.Items, 0)
	default:
		builder.WriteString(encodeScalar(value))
		builder.WriteString("\n")
	}
	return builder.String()
}

func encodeMembers(builder *strings.Builder, members []jsonval.Member, depth int) {
	for _, member := range members {
		encodeMember(builder, member.Key, member.Value, depth)
	}
}

func encodeMember(builder *strings.Builder, key string, value jsonval.Value, depth int) {
	prefix := strings.Repeat(indentUnit, depth)
	switch value.Kind {
	case jsonval.Object:
		if len(value.Members) == 0 {
			builder.WriteString(prefix + quoteKey(key) + ":\n")
			return
		}
		builder.WriteString(prefix + quoteKey(key) + ":\n")
		encodeMembers(builder, value.Members, depth+1)
	case jsonval.Array:
		encodeArray(builder, key, value.Items, depth)
	default:
		builder.WriteString(prefix + quoteKey(key) + ": " + encodeScalar(value) + "\n")
	}
}

func encodeArray(builder *strings.Builder, key string, items []jsonval.Value, depth int) {
	prefix := strings.Repeat(indentUnit, depth)
	label := ""
	if key != "" {
		label = quoteKey(key)
	}
	count := "[" + strconv.Itoa(len(items)) + "]"

	if len(items) == 0 {
		builder.WriteString(prefix + label + count + ":\n")
		return
	}
	if fields, ok := tabularFields(items); ok {
		builder.WriteString(prefix + label + count + "{" + strings.Join(fields, ",") + "}:\n")
		rowPrefix := strings.Repeat(indentUnit, depth+1)
		for _, item := range items {
			cells := make([]string, 0, len(fields))
			for _, field := range fields {
				child, _ := item.Get(field)
				cells = append(cells, encodeScalar(child))
			}
			builder.WriteString(rowPrefix + strings.Join(cells, ",") + "\n")
		}
		return
	}
	if allScalars(items) {
		cells := make([]string, 0, len(items))
		for _, item := range items {
			cells = append(cells, encodeScalar(item))
		}
		builder.WriteString(prefix + label + count + ": " + strings.Join(cells, ",") + "\n")
		return
	}
	builder.WriteString(prefix + label + count + ":\n")
	itemPrefix := strings.Repeat(indentUnit, depth+1)
	for _, item := range items {
		switch item.Kind {
		case jsonval.Object:
			builder.WriteString(itemPrefix + "-\n")
			encodeMembers(builder, item.Members, depth+2)
		case jsonval.Array:
			builder.WriteString(itemPrefix + "-\n")
			encodeArray(builder, "", item.Items, depth+2)
		default:
			builder.WriteString(itemPrefix + "- " + encodeScalar(item) + "\n")
		}
	}
}

// tabularFields reports the shared field list when every element is an
// object with identical keys in identical order and scalar values only.
func tabularFields(items []jsonval.Value) ([]string, bool) {
	if len(items) == 0 {
		return nil, false
	}
	first := items[0]
	if first.Kind != jsonval.Object || len(first.Members) == 0 {
		return nil, false
	}
	fields := make([]string, 0, len(first.Members))
	for _, member := range first.Members {
		fields = append(fields, member.Key)
	}
	for _, item := range items {
		if item.Kind != jsonval.Object || len(item.Members) != len(fields) {
			return nil, false
		}
		for i, member := range item.Members {
			if member.Key != fields[i] || !member.Value.IsScalar() {
				return nil, false
			}
		}
	}
	return fields, true
}

func allScalars(items []jsonval.Value) bool {
	for _, item := range items {
		if !item.IsScalar() {
			return false
		}
	}
	return true
}

func encodeScalar(value jsonval.Value) string {
	switch value.Kind {
	case jsonval.String:
		return quoteString(value.Str)
	default:
		return value.ScalarString()
	}
}

// quoteString wraps a string in quotes only when it would be ambiguous
// unquoted.
func quoteString(s string) string {
	if s == "" {
		return `""`
	}
	if strings.ContainsAny(s, ",:{}[]\"\n") ||
		s != strings.TrimSpace(s) ||
		looksLikeLiteral(s) {
		return strconv.Quote(s)
	}
	return s
}

func quoteKey(key string) string {
	if key == "" || strings.ContainsAny(key, ",:{}[]\" \n") {
		return strconv.Quote(key)
	}
	return key
}

// looksLikeLiteral reports whether a bare string would read back as a
// number, boolean, or null.
func looksLikeLiteral(s string) bool {
	switch s {
	case "true", "false", "null":
		return true
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return true
	}
	return false
}
