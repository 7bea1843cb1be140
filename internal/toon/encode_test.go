package toon

import (
	"testing"

	"toonbench/internal/jsonval"
)

func mustParse(t *testing.T, input string) jsonval.Value {
	t.Helper()
	value, err := jsonval.Parse([]byte(input))
	if err != nil {
		t.Fatalf("parse %q: %v", input, err)
	}
	return value
}

func TestEncodeScalars(t *testing.T) {
	got := Encode(mustParse(t, `{"name":"widget","count":3,"active":true,"note":null}`))
	expected := "name: widget\ncount: 3\nactive: true\nnote: null\n"
	if got != expected {
		t.Fatalf("unexpected output:\n%s", got)
	}
}

func TestEncodeTabularArray(t *testing.T) {
	got := Encode(mustParse(t, `{"items":[{"id":1,"name":"a"},{"id":2,"name":"b"}]}`))
	expected := "items[2]{id,name}:\n  1,a\n  2,b\n"
	if got != expected {
		t.Fatalf("unexpected output:\n%s", got)
	}
}

func TestEncodeScalarArray(t *testing.T) {
	got := Encode(mustParse(t, `{"tags":["x","y","z"]}`))
	expected := "tags[3]: x,y,z\n"
	if got != expected {
		t.Fatalf("unexpected output:\n%s", got)
	}
}

func TestEncodeNestedObject(t *testing.T) {
	got := Encode(mustParse(t, `{"meta":{"version":2,"env":"prod"}}`))
	expected := "meta:\n  version: 2\n  env: prod\n"
	if got != expected {
		t.Fatalf("unexpected output:\n%s", got)
	}
}

func TestEncodeMixedArrayFallsBackToList(t *testing.T) {
	got := Encode(mustParse(t, `{"rows":[{"id":1},"loose"]}`))
	expected := "rows[2]:\n  -\n    id: 1\n  - loose\n"
	if got != expected {
		t.Fatalf("unexpected output:\n%s", got)
	}
}

func TestEncodeQuoting(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "comma", input: `{"v":"a,b"}`, expected: "v: \"a,b\"\n"},
		{name: "numeric-string", input: `{"v":"42"}`, expected: "v: \"42\"\n"},
		{name: "bool-string", input: `{"v":"true"}`, expected: "v: \"true\"\n"},
		{name: "empty-string", input: `{"v":""}`, expected: "v: \"\"\n"},
		{name: "plain", input: `{"v":"hello world"}`, expected: "v: hello world\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Encode(mustParse(t, tc.input)); got != tc.expected {
				t.Fatalf("expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestEncodeEmptyContainers(t *testing.T) {
	got := Encode(mustParse(t, `{"items":[],"meta":{}}`))
	expected := "items[0]:\nmeta:\n"
	if got != expected {
		t.Fatalf("unexpected output:\n%s", got)
	}
}

func TestEncodeRootArray(t *testing.T) {
	got := Encode(mustParse(t, `[{"id":1,"ok":true},{"id":2,"ok":false}]`))
	expected := "[2]{id,ok}:\n  1,true\n  2,false\n"
	if got != expected {
		t.Fatalf("unexpected output:\n%s", got)
	}
}
