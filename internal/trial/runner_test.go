package trial

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"toonbench/internal/genai"
	"toonbench/internal/jsonval"
	"toonbench/internal/ratelimit"
	"toonbench/internal/testutil"
)

// fakeClient returns canned token counts and responses keyed by payload
// prefix, recording call order.
type fakeClient struct {
	mu       sync.Mutex
	calls    []string
	countErr error
	genErr   error
	tokens   int
	text     string
}

func (f *fakeClient) CountTokens(_ context.Context, _, _ string) (genai.TokenCount, error) {
	f.mu.Lock()
	f.calls = append(f.calls, "count")
	f.mu.Unlock()
	if f.countErr != nil {
		return genai.TokenCount{}, f.countErr
	}
	return genai.TokenCount{TotalTokens: f.tokens}, nil
}

func (f *fakeClient) GenerateContent(_ context.Context, _, _ string) (genai.GenerateResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, "generate")
	f.mu.Unlock()
	if f.genErr != nil {
		return genai.GenerateResult{}, f.genErr
	}
	return genai.GenerateResult{
		Text:  f.text,
		Usage: genai.UsageMetadata{PromptTokenCount: f.tokens, TotalTokenCount: f.tokens + 20},
		Raw:   []byte(`{"ok":true}`),
	}, nil
}

func testDataset(t *testing.T) jsonval.Value {
	t.Helper()
	value, err := jsonval.Parse([]byte(`{"orders":[{"id":1,"total":9.5},{"id":2,"total":3.25}]}`))
	if err != nil {
		t.Fatalf("parse dataset: %v", err)
	}
	return value
}

func testDeps(client Client) Deps {
	clock := testutil.NewFakeClock(time.Unix(1700000000, 0))
	return Deps{
		Client:  client,
		Encode:  func(jsonval.Value) string { return "encoded" },
		Limiter: ratelimit.New(0),
		Now:     clock.Now,
		Sleep:   func(context.Context, time.Duration) error { return nil },
		AuditID: func() string { return "audit-1" },
	}
}

func TestRunProducesOneMetricsPerFormat(t *testing.T) {
	client := &fakeClient{tokens: 1404, text: "response text"}
	summary, err := Run(context.Background(), Params{
		Model:       "gemini-2.5-flash",
		DatasetPath: "testdata/dataset.json",
		Dataset:     testDataset(t),
	}, testDeps(client))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(summary.Formats) != 3 {
		t.Fatalf("expected 3 formats, got %d", len(summary.Formats))
	}
	for i, format := range Formats() {
		metrics := summary.Formats[i]
		if metrics.Format != format {
			t.Fatalf("format %d: expected %s, got %s", i, format, metrics.Format)
		}
		if metrics.PreflightTokens != 1404 {
			t.Fatalf("%s: expected preflight 1404, got %d", format, metrics.PreflightTokens)
		}
		if metrics.PromptTokens != 1404 || metrics.TotalTokens != 1424 {
			t.Fatalf("%s: unexpected usage %+v", format, metrics)
		}
		if metrics.Excerpt != "response text" {
			t.Fatalf("%s: unexpected excerpt %q", format, metrics.Excerpt)
		}
		if string(metrics.Raw) != `{"ok":true}` {
			t.Fatalf("%s: raw response not retained", format)
		}
	}
	if len(summary.Deltas) != 3 {
		t.Fatalf("expected 3 deltas, got %d", len(summary.Deltas))
	}
	if summary.AuditID != "audit-1" {
		t.Fatalf("unexpected audit id %q", summary.AuditID)
	}
	if !strings.HasSuffix(summary.Timestamp, "Z") {
		t.Fatalf("timestamp not ISO-8601 UTC: %q", summary.Timestamp)
	}
}

func TestRunAbortsWholeTrialOnClientError(t *testing.T) {
	client := &fakeClient{tokens: 10, genErr: fmt.Errorf("boom")}
	summary, err := Run(context.Background(), Params{
		Model:   "m",
		Dataset: testDataset(t),
	}, testDeps(client))
	if err == nil {
		t.Fatal("expected trial error")
	}
	if len(summary.Formats) != 0 {
		t.Fatalf("partial results must not surface: %+v", summary)
	}
}

func TestRunCountErrorAborts(t *testing.T) {
	client := &fakeClient{countErr: fmt.Errorf("quota")}
	if _, err := Run(context.Background(), Params{Model: "m", Dataset: testDataset(t)}, testDeps(client)); err == nil {
		t.Fatal("expected trial error")
	}
}

func TestRunRequiresClient(t *testing.T) {
	deps := testDeps(nil)
	deps.Client = nil
	if _, err := Run(context.Background(), Params{Model: "m", Dataset: testDataset(t)}, deps); err == nil {
		t.Fatal("expected error for missing client")
	}
}

func TestRunSeriesSequentialWithDelay(t *testing.T) {
	client := &fakeClient{tokens: 5, text: "ok"}
	deps := testDeps(client)
	var slept []time.Duration
	deps.Sleep = func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}
	var stored []TrialSummary
	summaries, err := RunSeries(context.Background(), Params{Model: "m", Dataset: testDataset(t)}, deps,
		SeriesParams{Runs: 3, Delay: 20 * time.Second},
		func(summary TrialSummary) error {
			stored = append(stored, summary)
			return nil
		})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(summaries) != 3 || len(stored) != 3 {
		t.Fatalf("expected 3 trials, got %d run %d stored", len(summaries), len(stored))
	}
	if len(slept) != 2 {
		t.Fatalf("expected delay between trials only, slept %v", slept)
	}
}

func TestRunSeriesStopsOnSinkError(t *testing.T) {
	client := &fakeClient{tokens: 5}
	summaries, err := RunSeries(context.Background(), Params{Model: "m", Dataset: testDataset(t)}, testDeps(client),
		SeriesParams{Runs: 3},
		func(TrialSummary) error { return fmt.Errorf("disk full") })
	if err == nil {
		t.Fatal("expected sink error")
	}
	if len(summaries) != 0 {
		t.Fatalf("failed trial must not be kept: %d", len(summaries))
	}
}

func TestExcerptBoundary(t *testing.T) {
	cases := []struct {
		name     string
		text     string
		limit    int
		expected string
	}{
		{name: "under", text: "short", limit: 10, expected: "short"},
		{name: "exact", text: "1234567890", limit: 10, expected: "1234567890"},
		{name: "over", text: "12345678901", limit: 10, expected: "1234567890..."},
		{name: "empty", text: "", limit: 10, expected: ""},
		{name: "runes", text: "ééééé", limit: 4, expected: "éééé..."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Excerpt(tc.text, tc.limit); got != tc.expected {
				t.Fatalf("expected %q, got %q", tc.expected, got)
			}
		})
	}
}
