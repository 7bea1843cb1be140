package trial

// PairDelta compares one format against a baseline. Sign conventions are
// fixed by the field definitions, not by argument position:
//
//   - TokenSavings = baseline preflight − comparison preflight; positive
//     means the comparison format sent fewer tokens.
//   - TokenSavingsPercent = savings / baseline × 100; exactly 0 when the
//     baseline count is 0.
//   - APILatencyDeltaMs = baseline latency − comparison latency; positive
//     means the comparison format responded faster.
//   - ConversionOverheadMs = comparison conversion − baseline conversion;
//     positive means the comparison format cost more to prepare.
type PairDelta struct {
	Comparison           Format  `json:"comparison"`
	Baseline             Format  `json:"baseline"`
	TokenSavings         int     `json:"token_savings"`
	TokenSavingsPercent  float64 `json:"token_savings_percent"`
	APILatencyDeltaMs    float64 `json:"api_latency_delta_ms"`
	ConversionOverheadMs float64 `json:"conversion_overhead_ms"`
}

// Label names the pair the way reports do.
func (d PairDelta) Label() string {
	return string(d.Comparison) + " vs " + string(d.Baseline)
}

// Delta computes the comparison statistics for one pair. Pure and
// deterministic: same inputs, same output, no side effects.
func Delta(baseline, comparison FormatMetrics) PairDelta {
	delta := PairDelta{
		Comparison:           comparison.Format,
		Baseline:             baseline.Format,
		TokenSavings:         baseline.PreflightTokens - comparison.PreflightTokens,
		APILatencyDeltaMs:    baseline.LatencyMs - comparison.LatencyMs,
		ConversionOverheadMs: comparison.ConversionMs - baseline.ConversionMs,
	}
	if baseline.PreflightTokens != 0 {
		delta.TokenSavingsPercent = float64(delta.TokenSavings) / float64(baseline.PreflightTokens) * 100
	}
	return delta
}

// pairDefs is the fixed set of comparisons, in report order.
var pairDefs = []struct {
	comparison Format
	baseline   Format
}{
	{FormatTOON, FormatJSON},
	{FormatMarkdown, FormatJSON},
	{FormatMarkdown, FormatTOON},
}

// ComputeDeltas derives every pairwise comparison for one trial's metrics.
// Formats missing from the input are skipped.
func ComputeDeltas(formats []FormatMetrics) []PairDelta {
	byFormat := make(map[Format]FormatMetrics, len(formats))
	for _, metrics := range formats {
		byFormat[metrics.Format] = metrics
	}
	deltas := make([]PairDelta, 0, len(pairDefs))
	for _, def := range pairDefs {
		baseline, okBase := byFormat[def.baseline]
		comparison, okComp := byFormat[def.comparison]
		if !okBase || !okComp {
			continue
		}
		deltas = append(deltas, Delta(baseline, comparison))
	}
	return deltas
}
