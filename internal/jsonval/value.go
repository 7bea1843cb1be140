package jsonval

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Kind identifies the concrete type stored in a Value.
type Kind int

const (
	Null Kind = iota
	String
	Number
	Bool
	Object
	Array
)

// Member is one key/value pair of an object, in source order.
type Member struct {
	Key   string
	Value Value
}

// Value represents an arbitrary JSON value without using empty interfaces.
// Object members keep the order they appeared in the source document, which
// the renderers depend on for stable output.
type Value struct {
	Kind    Kind
	Str     string
	Num     float64
	Raw     string // original numeric literal, preserved for exact re-emission
	Boolean bool
	Members []Member
	Items   []Value
}

// Parse decodes JSON bytes into a Value, preserving object key order.
func Parse(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	value, err := parseValue(dec)
	if err != nil {
		return Value{}, err
	}
	if dec.More() {
		return Value{}, fmt.Errorf("trailing data after json value")
	}
	return value, nil
}

func parseValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, fmt.Errorf("decode json: %w", err)
	}
	return parseToken(dec, tok)
}

func parseToken(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return parseObject(dec)
		case '[':
			return parseArray(dec)
		default:
			return Value{}, fmt.Errorf("unexpected delimiter %q", t)
		}
	case string:
		return Value{Kind: String, Str: t}, nil
	case json.Number:
		num, err := t.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("parse number %q: %w", t, err)
		}
		return Value{Kind: Number, Num: num, Raw: t.String()}, nil
	case bool:
		return Value{Kind: Bool, Boolean: t}, nil
	case nil:
		return Value{Kind: Null}, nil
	default:
		return Value{}, fmt.Errorf("unexpected token %v", tok)
	}
}

func parseObject(dec *json.Decoder) (Value, error) {
	value := Value{Kind: Object}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return Value{}, fmt.Errorf("decode object key: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return Value{}, fmt.Errorf("object key is not a string: %v", keyTok)
		}
		child, err := parseValue(dec)
		if err != nil {
			return Value{}, err
		}
		value.Members = append(value.Members, Member{Key: key, Value: child})
	}
	if _, err := dec.Token(); err != nil {
		return Value{}, fmt.Errorf("close object: %w", err)
	}
	return value, nil
}

func parseArray(dec *json.Decoder) (Value, error) {
	value := Value{Kind: Array}
	for dec.More() {
		child, err := parseValue(dec)
		if err != nil {
			return Value{}, err
		}
		value.Items = append(value.Items, child)
	}
	if _, err := dec.Token(); err != nil {
		return Value{}, fmt.Errorf("close array: %w", err)
	}
	return value, nil
}

// Get returns the member value for a key when the value is an object.
func (v Value) Get(key string) (Value, bool) {
	if v.Kind != Object {
		return Value{}, false
	}
	for _, member := range v.Members {
		if member.Key == key {
			return member.Value, true
		}
	}
	return Value{}, false
}

// IsScalar reports whether the value is a leaf (null, string, number, bool).
func (v Value) IsScalar() bool {
	switch v.Kind {
	case Object, Array:
		return false
	default:
		return true
	}
}

// ScalarString returns the display form of a scalar value. Non-scalars fall
// back to their compact JSON encoding so rendering never fails.
func (v Value) ScalarString() string {
	switch v.Kind {
	case Null:
		return "null"
	case String:
		return v.Str
	case Number:
		return v.NumberString()
	case Bool:
		return strconv.FormatBool(v.Boolean)
	default:
		return string(v.AppendJSON(nil, ""))
	}
}

// NumberString returns the numeric literal exactly as it appeared in the
// source when available.
func (v Value) NumberString() string {
	if v.Raw != "" {
		return v.Raw
	}
	return strconv.FormatFloat(v.Num, 'g', -1, 64)
}

// AppendJSON appends the JSON encoding of the value. A non-empty indent
// produces pretty output; object key order matches the source document.
func (v Value) AppendJSON(dst []byte, indent string) []byte {
	return appendJSON(dst, v, indent, 0)
}

// JSONString returns the value encoded as JSON with the given indent.
func (v Value) JSONString(indent string) string {
	return string(v.AppendJSON(nil, indent))
}

func appendJSON(dst []byte, v Value, indent string, depth int) []byte {
	switch v.Kind {
	case Null:
		return append(dst, "null"...)
	case String:
		encoded, _ := json.Marshal(v.Str)
		return append(dst, encoded...)
	case Number:
		return append(dst, v.NumberString()...)
	case Bool:
		return strconv.AppendBool(dst, v.Boolean)
	case Object:
		if len(v.Members) == 0 {
			return append(dst, "{}"...)
		}
		dst = append(dst, '{')
		for i, member := range v.Members {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = appendNewlineIndent(dst, indent, depth+1)
			encoded, _ := json.Marshal(member.Key)
			dst = append(dst, encoded...)
			dst = append(dst, ':')
			if indent != "" {
				dst = append(dst, ' ')
			}
			dst = appendJSON(dst, member.Value, indent, depth+1)
		}
		dst = appendNewlineIndent(dst, indent, depth)
		return append(dst, '}')
	case Array:
		if len(v.Items) == 0 {
			return append(dst, "[]"...)
		}
		dst = append(dst, '[')
		for i, item := range v.Items {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = appendNewlineIndent(dst, indent, depth+1)
			dst = appendJSON(dst, item, indent, depth+1)
		}
		dst = appendNewlineIndent(dst, indent, depth)
		return append(dst, ']')
	default:
		return append(dst, "null"...)
	}
}

func appendNewlineIndent(dst []byte, indent string, depth int) []byte {
	if indent == "" {
		return dst
	}
	dst = append(dst, '\n')
	for i := 0; i < depth; i++ {
		dst = append(dst, indent...)
	}
	return dst
}
