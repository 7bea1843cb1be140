package report

import (
	"math"
	"strings"
	"testing"

	"toonbench/internal/trial"
)

func sampleTrial() trial.TrialSummary {
	formats := []trial.FormatMetrics{
		{Format: trial.FormatJSON, PreflightTokens: 1404, PromptTokens: 1404, TotalTokens: 1424, ConversionMs: 0.4, LatencyMs: 7533.0, Excerpt: "json response"},
		{Format: trial.FormatTOON, PreflightTokens: 1004, PromptTokens: 1004, TotalTokens: 1100, ConversionMs: 0.9, LatencyMs: 6712.0, Excerpt: "toon response"},
		{Format: trial.FormatMarkdown, PreflightTokens: 1250, PromptTokens: 0, TotalTokens: 0, ConversionMs: 1.2, LatencyMs: 7100.5, Excerpt: "md response"},
	}
	return trial.TrialSummary{
		Model:     "gemini-2.5-flash",
		Dataset:   "testdata/dataset.json",
		Timestamp: "2026-08-24T10:15:30.123Z",
		Formats:   formats,
		Deltas:    trial.ComputeDeltas(formats),
	}
}

func TestRenderParseRoundTrip(t *testing.T) {
	original := sampleTrial()
	parsed, err := ParseTrial([]byte(RenderTrial(original)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed.Model != original.Model {
		t.Fatalf("model mismatch: %q", parsed.Model)
	}
	if parsed.Dataset != original.Dataset {
		t.Fatalf("dataset mismatch: %q", parsed.Dataset)
	}
	if parsed.Timestamp != original.Timestamp {
		t.Fatalf("timestamp mismatch: %q", parsed.Timestamp)
	}
	if len(parsed.Formats) != len(original.Formats) {
		t.Fatalf("format count mismatch: %d", len(parsed.Formats))
	}
	for i, want := range original.Formats {
		got := parsed.Formats[i]
		if got.Format != want.Format {
			t.Fatalf("row %d: format %q", i, got.Format)
		}
		if got.PreflightTokens != want.PreflightTokens ||
			got.PromptTokens != want.PromptTokens ||
			got.TotalTokens != want.TotalTokens {
			t.Fatalf("row %d: token mismatch %+v vs %+v", i, got, want)
		}
		if got.ConversionMs != want.ConversionMs || got.LatencyMs != want.LatencyMs {
			t.Fatalf("row %d: duration mismatch %+v vs %+v", i, got, want)
		}
	}
	if len(parsed.Deltas) != len(original.Deltas) {
		t.Fatalf("delta count mismatch: %d", len(parsed.Deltas))
	}
	// Durations survive to one decimal digit, so derived overheads may
	// differ by float noise below that precision.
	const tolerance = 0.051
	for i, want := range original.Deltas {
		got := parsed.Deltas[i]
		if got.TokenSavings != want.TokenSavings {
			t.Fatalf("delta %d: savings %d vs %d", i, got.TokenSavings, want.TokenSavings)
		}
		if math.Abs(got.APILatencyDeltaMs-want.APILatencyDeltaMs) > tolerance {
			t.Fatalf("delta %d: latency %f vs %f", i, got.APILatencyDeltaMs, want.APILatencyDeltaMs)
		}
		if math.Abs(got.ConversionOverheadMs-want.ConversionOverheadMs) > tolerance {
			t.Fatalf("delta %d: overhead %f vs %f", i, got.ConversionOverheadMs, want.ConversionOverheadMs)
		}
	}
}

func TestRenderTrialShape(t *testing.T) {
	rendered := RenderTrial(sampleTrial())
	required := []string{
		"**Model:** gemini-2.5-flash",
		"**Timestamp:** 2026-08-24T10:15:30.123Z",
		"## Summary",
		"| Format | Input Tokens Sent | Prompt Tokens in Response | Total Tokens in Response | Data Prep Time | Response Time |",
		"| JSON | 1,404 | 1,404 | 1,424 | 0.4ms | 7533.0ms |",
		"| TOON | 1,004 | 1,004 | 1,100 | 0.9ms | 6712.0ms |",
		"| Markdown | 1,250 | n/a | n/a | 1.2ms | 7100.5ms |",
		"## Deltas",
		"### TOON vs JSON",
		"- Token savings: +400 (28.49%)",
		"- API latency delta: +821.0ms",
		"- Conversion overhead: +0.5ms",
		"## Response Excerpts",
		"> json response",
		"## Metric Definitions",
	}
	for _, want := range required {
		if !strings.Contains(rendered, want) {
			t.Fatalf("missing %q in report:\n%s", want, rendered)
		}
	}
}

func TestSummaryNamesWinnerBySign(t *testing.T) {
	rendered := RenderTrial(sampleTrial())
	if !strings.Contains(rendered, "TOON sent 400 fewer tokens than JSON (28.49% savings)") {
		t.Fatalf("missing token winner sentence:\n%s", rendered)
	}
	if !strings.Contains(rendered, "TOON responded 821.0ms faster") {
		t.Fatalf("missing latency winner sentence:\n%s", rendered)
	}
	// Markdown vs TOON: Markdown sent more tokens and was slower, so the
	// sentence must name TOON.
	if !strings.Contains(rendered, "Markdown sent 246 more tokens than TOON") {
		t.Fatalf("missing losing-format sentence:\n%s", rendered)
	}
	if !strings.Contains(rendered, "TOON responded 388.5ms faster") {
		t.Fatalf("latency winner must flip with the sign:\n%s", rendered)
	}
}
