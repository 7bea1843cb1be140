// Package render turns one JSON dataset into the textual payloads compared
// by a benchmark trial, measuring how long each conversion takes.
package render

import (
	"time"

	"toonbench/internal/jsonval"
)

// Payload is one serialized form of the dataset plus its conversion time.
type Payload struct {
	Text     string
	Duration time.Duration
}

// Payloads holds every format variant for one trial.
type Payloads struct {
	JSON     Payload
	TOON     Payload
	Markdown Payload
}

// Encoder produces the compact-notation form of a value.
type Encoder func(jsonval.Value) string

// All renders every format variant of the dataset. The clock is injectable
// so conversion timing is deterministic in tests.
func All(value jsonval.Value, encode Encoder, now func() time.Time) Payloads {
	if now == nil {
		now = time.Now
	}
	return Payloads{
		JSON:     timed(now, func() string { return value.JSONString("  ") }),
		TOON:     timed(now, func() string { return encode(value) }),
		Markdown: timed(now, func() string { return Markdown(value) }),
	}
}

func timed(now func() time.Time, produce func() string) Payload {
	start := now()
	text := produce()
	return Payload{Text: text, Duration: now().Sub(start)}
}
