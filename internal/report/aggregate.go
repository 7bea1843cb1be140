package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"

	"toonbench/internal/trial"
)

// ErrNoReports is returned when aggregation finds nothing parseable.
var ErrNoReports = errors.New("no parseable trial reports found")

// AggregatedSummary is the reduction of N stored trials: per-format and
// per-pair arithmetic means plus the fastest format by average latency.
type AggregatedSummary struct {
	TrialCount     int                   `json:"trial_count"`
	Model          string                `json:"model"`
	FirstTimestamp string                `json:"first_timestamp"`
	LastTimestamp  string                `json:"last_timestamp"`
	Formats        []trial.FormatMetrics `json:"formats"`
	Deltas         []trial.PairDelta     `json:"deltas"`
	FastestFormat  trial.Format          `json:"fastest_format"`
}

// LoadTrials reads every stored trial from a report directory. The JSON
// snapshot is the preferred source; Markdown parsing is the fallback for
// historical reports written without one. Unparseable trials are skipped
// with a warning so one bad file never sinks the batch.
func LoadTrials(dir string, warn io.Writer) ([]trial.TrialSummary, error) {
	pattern := filepath.Join(dir, "report-*.md")
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	sort.Strings(paths)

	trials := make([]trial.TrialSummary, 0, len(paths))
	for _, path := range paths {
		summary, err := loadTrial(path)
		if err != nil {
			fmt.Fprintf(warn, "Warning: skipping %s: %v\n", filepath.Base(path), err)
			continue
		}
		trials = append(trials, summary)
	}
	return trials, nil
}

func loadTrial(reportPath string) (trial.TrialSummary, error) {
	snapshotPath := snapshotPathFor(reportPath)
	if data, err := os.ReadFile(snapshotPath); err == nil {
		var summary trial.TrialSummary
		if err := json.Unmarshal(data, &summary); err == nil && len(summary.Formats) == len(trial.Formats()) {
			return summary, nil
		}
		// Fall through to the Markdown report when the snapshot is
		// corrupt or incomplete.
	}
	return ParseTrialFile(reportPath)
}

// Aggregate reduces parsed trials into averaged metrics and deltas. At
// least one trial is required.
func Aggregate(trials []trial.TrialSummary) (AggregatedSummary, error) {
	if len(trials) == 0 {
		return AggregatedSummary{}, ErrNoReports
	}
	count := len(trials)

	first, last := trials[0].Timestamp, trials[0].Timestamp
	for _, summary := range trials {
		if summary.Timestamp < first {
			first = summary.Timestamp
		}
		if summary.Timestamp > last {
			last = summary.Timestamp
		}
	}

	agg := AggregatedSummary{
		TrialCount:     count,
		Model:          trials[0].Model,
		FirstTimestamp: first,
		LastTimestamp:  last,
		Formats:        averageFormats(trials, count),
	}
	agg.Deltas = averageDeltas(trials, count)
	agg.FastestFormat = fastestFormat(agg.Formats)
	return agg, nil
}

func averageFormats(trials []trial.TrialSummary, count int) []trial.FormatMetrics {
	averaged := make([]trial.FormatMetrics, 0, len(trial.Formats()))
	for _, format := range trial.Formats() {
		var preflight, prompt, total int
		var conversion, latency float64
		for _, summary := range trials {
			metrics, ok := summary.MetricsFor(format)
			if !ok {
				continue
			}
			preflight += metrics.PreflightTokens
			prompt += metrics.PromptTokens
			total += metrics.TotalTokens
			conversion += metrics.ConversionMs
			latency += metrics.LatencyMs
		}
		averaged = append(averaged, trial.FormatMetrics{
			Format:          format,
			PreflightTokens: roundDiv(preflight, count),
			PromptTokens:    roundDiv(prompt, count),
			TotalTokens:     roundDiv(total, count),
			ConversionMs:    conversion / float64(count),
			LatencyMs:       latency / float64(count),
		})
	}
	return averaged
}

func averageDeltas(trials []trial.TrialSummary, count int) []trial.PairDelta {
	// Pair order follows the first trial, which carries the fixed pair set.
	reference := trials[0].Deltas
	averaged := make([]trial.PairDelta, 0, len(reference))
	for _, ref := range reference {
		sum := trial.PairDelta{Comparison: ref.Comparison, Baseline: ref.Baseline}
		var savings int
		for _, summary := range trials {
			for _, delta := range summary.Deltas {
				if delta.Comparison != ref.Comparison || delta.Baseline != ref.Baseline {
					continue
				}
				savings += delta.TokenSavings
				sum.TokenSavingsPercent += delta.TokenSavingsPercent
				sum.APILatencyDeltaMs += delta.APILatencyDeltaMs
				sum.ConversionOverheadMs += delta.ConversionOverheadMs
			}
		}
		sum.TokenSavings = roundDiv(savings, count)
		sum.TokenSavingsPercent /= float64(count)
		sum.APILatencyDeltaMs /= float64(count)
		sum.ConversionOverheadMs /= float64(count)
		averaged = append(averaged, sum)
	}
	return averaged
}

// fastestFormat is the arg-min of average latency; ties go to the first
// format reaching the minimum in the fixed enumeration order.
func fastestFormat(formats []trial.FormatMetrics) trial.Format {
	fastest := trial.Format("")
	best := math.Inf(1)
	for _, format := range trial.Formats() {
		for _, metrics := range formats {
			if metrics.Format != format {
				continue
			}
			if metrics.LatencyMs < best {
				best = metrics.LatencyMs
				fastest = metrics.Format
			}
		}
	}
	return fastest
}

// AggregateDir loads every stored trial, reduces them, and overwrites the
// summary report. Zero parseable trials is an error.
func AggregateDir(dir string, warn io.Writer) (AggregatedSummary, error) {
	trials, err := LoadTrials(dir, warn)
	if err != nil {
		return AggregatedSummary{}, err
	}
	agg, err := Aggregate(trials)
	if err != nil {
		return AggregatedSummary{}, err
	}
	if err := WriteAggregate(dir, agg); err != nil {
		return AggregatedSummary{}, err
	}
	return agg, nil
}

// roundDiv is integer division rounded to nearest, keeping constant inputs
// exact under averaging.
func roundDiv(sum, count int) int {
	if count == 0 {
		return 0
	}
	if sum < 0 {
		return -roundDiv(-sum, count)
	}
	return (sum + count/2) / count
}
