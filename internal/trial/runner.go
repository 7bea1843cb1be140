// Package trial executes benchmark trials: it renders every format variant
// of one dataset, submits each to the model under a shared rate limiter,
// and derives pairwise comparison deltas from the measurements.
package trial

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"toonbench/internal/genai"
	"toonbench/internal/jsonval"
	"toonbench/internal/ratelimit"
	"toonbench/internal/render"
)

// DefaultExcerptLimit bounds the response excerpt kept for human
// inspection.
const DefaultExcerptLimit = 300

// timestampLayout is the ISO-8601 form used as trial identity. Millisecond
// precision keeps file names collision-free across sequential trials.
const timestampLayout = "2006-01-02T15:04:05.000Z"

// Client is the narrow surface of the model API the runner depends on.
type Client interface {
	CountTokens(ctx context.Context, model, text string) (genai.TokenCount, error)
	GenerateContent(ctx context.Context, model, text string) (genai.GenerateResult, error)
}

// Deps bundles the runner's collaborators. Zero fields get production
// defaults where one exists; Client and Limiter are required.
type Deps struct {
	Client   Client
	Encode   render.Encoder
	Limiter  *ratelimit.Limiter
	Now      func() time.Time
	Sleep    func(ctx context.Context, d time.Duration) error
	AuditID  func() string
	Observer Observer
}

// Params describes one trial.
type Params struct {
	Model        string
	DatasetPath  string
	Dataset      jsonval.Value
	ExcerptLimit int
}

// formatOutcome carries one sub-task's result back to the joining loop.
type formatOutcome struct {
	index   int
	metrics FormatMetrics
	err     error
}

// Run executes one full trial. The three format sub-tasks run concurrently;
// the shared limiter serializes their outbound calls. Any sub-task error
// aborts the whole trial with no partial results.
func Run(ctx context.Context, params Params, deps Deps) (TrialSummary, error) {
	deps = withDefaults(deps)
	if deps.Client == nil {
		return TrialSummary{}, fmt.Errorf("model client is required")
	}
	limit := params.ExcerptLimit
	if limit <= 0 {
		limit = DefaultExcerptLimit
	}

	startedAt := deps.Now()
	payloads := render.All(params.Dataset, deps.Encode, deps.Now)
	jobs := []struct {
		format  Format
		payload render.Payload
	}{
		{FormatJSON, payloads.JSON},
		{FormatTOON, payloads.TOON},
		{FormatMarkdown, payloads.Markdown},
	}

	outcomes := make(chan formatOutcome, len(jobs))
	for index, job := range jobs {
		go func(index int, format Format, payload render.Payload) {
			metrics, err := runFormat(ctx, params.Model, format, payload, limit, deps)
			outcomes <- formatOutcome{index: index, metrics: metrics, err: err}
		}(index, job.format, job.payload)
	}

	collected := make([]formatOutcome, len(jobs))
	for range jobs {
		outcome := <-outcomes
		collected[outcome.index] = outcome
	}
	for i, outcome := range collected {
		if outcome.err != nil {
			err := fmt.Errorf("%s format failed: %w", jobs[i].format, outcome.err)
			deps.Observer.OnTrialEnd(TrialSummary{}, err)
			return TrialSummary{}, err
		}
	}

	formats := make([]FormatMetrics, 0, len(collected))
	for _, outcome := range collected {
		formats = append(formats, outcome.metrics)
	}
	summary := TrialSummary{
		Model:     params.Model,
		Dataset:   params.DatasetPath,
		Timestamp: startedAt.UTC().Format(timestampLayout),
		AuditID:   deps.AuditID(),
		Formats:   formats,
		Deltas:    ComputeDeltas(formats),
	}
	deps.Observer.OnTrialEnd(summary, nil)
	return summary, nil
}

func runFormat(ctx context.Context, model string, format Format, payload render.Payload, excerptLimit int, deps Deps) (FormatMetrics, error) {
	metrics := FormatMetrics{
		Format:       format,
		ConversionMs: durationMs(payload.Duration),
	}

	deps.Observer.OnFormatEvent(Event{Format: format, Type: EventWaiting, EmittedAt: deps.Now()})
	if err := deps.Limiter.Wait(ctx); err != nil {
		return FormatMetrics{}, err
	}
	deps.Observer.OnFormatEvent(Event{Format: format, Type: EventCounting, EmittedAt: deps.Now()})
	count, err := deps.Client.CountTokens(ctx, model, payload.Text)
	if err != nil {
		deps.Observer.OnFormatEvent(Event{Format: format, Type: EventFailed, Error: err.Error(), EmittedAt: deps.Now()})
		return FormatMetrics{}, fmt.Errorf("count tokens: %w", err)
	}
	metrics.PreflightTokens = count.TotalTokens

	deps.Observer.OnFormatEvent(Event{Format: format, Type: EventWaiting, EmittedAt: deps.Now()})
	if err := deps.Limiter.Wait(ctx); err != nil {
		return FormatMetrics{}, err
	}
	deps.Observer.OnFormatEvent(Event{Format: format, Type: EventGenerating, Tokens: metrics.PreflightTokens, EmittedAt: deps.Now()})

	// Latency covers the generation call only, not the pre-flight count.
	start := deps.Now()
	result, err := deps.Client.GenerateContent(ctx, model, payload.Text)
	if err != nil {
		deps.Observer.OnFormatEvent(Event{Format: format, Type: EventFailed, Error: err.Error(), EmittedAt: deps.Now()})
		return FormatMetrics{}, fmt.Errorf("generate content: %w", err)
	}
	metrics.LatencyMs = durationMs(deps.Now().Sub(start))
	metrics.PromptTokens = result.Usage.PromptTokenCount
	metrics.TotalTokens = result.Usage.TotalTokenCount
	metrics.Excerpt = Excerpt(result.Text, excerptLimit)
	metrics.Raw = result.Raw

	deps.Observer.OnFormatEvent(Event{
		Format:    format,
		Type:      EventDone,
		Tokens:    metrics.PreflightTokens,
		LatencyMs: metrics.LatencyMs,
		EmittedAt: deps.Now(),
	})
	return metrics, nil
}

// SeriesParams controls a sequential run of repeated trials.
type SeriesParams struct {
	Runs  int
	Delay time.Duration
}

// Sink persists one completed trial.
type Sink func(TrialSummary) error

// RunSeries executes trials strictly sequentially, separated by the
// configured delay. The first trial or sink error aborts the series.
func RunSeries(ctx context.Context, params Params, deps Deps, series SeriesParams, sink Sink) ([]TrialSummary, error) {
	deps = withDefaults(deps)
	runs := series.Runs
	if runs < 1 {
		runs = 1
	}
	summaries := make([]TrialSummary, 0, runs)
	for i := 0; i < runs; i++ {
		if i > 0 && series.Delay > 0 {
			if err := deps.Sleep(ctx, series.Delay); err != nil {
				return summaries, err
			}
		}
		deps.Observer.OnTrialStart(i+1, runs, params.Model)
		summary, err := Run(ctx, params, deps)
		if err != nil {
			return summaries, err
		}
		if sink != nil {
			if err := sink(summary); err != nil {
				return summaries, fmt.Errorf("store trial %s: %w", summary.Timestamp, err)
			}
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// Excerpt bounds text to limit characters, appending an ellipsis only when
// something was cut.
func Excerpt(text string, limit int) string {
	runes := []rune(text)
	if limit <= 0 || len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}

func withDefaults(deps Deps) Deps {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Sleep == nil {
		deps.Sleep = func(ctx context.Context, d time.Duration) error {
			timer := time.NewTimer(d)
			defer timer.Stop()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-timer.C:
				return nil
			}
		}
	}
	if deps.AuditID == nil {
		deps.AuditID = uuid.NewString
	}
	if deps.Observer == nil {
		deps.Observer = NoopObserver{}
	}
	if deps.Encode == nil {
		deps.Encode = func(jsonval.Value) string { return "" }
	}
	return deps
}

func durationMs(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
