package trial

import "encoding/json"

// Format tags one of the serialization variants under comparison.
type Format string

const (
	FormatJSON     Format = "JSON"
	FormatTOON     Format = "TOON"
	FormatMarkdown Format = "Markdown"
)

// Formats returns every known variant in the fixed enumeration order used
// for tables, pair definitions, and tie breaking.
func Formats() []Format {
	return []Format{FormatJSON, FormatTOON, FormatMarkdown}
}

// FormatMetrics is one format's measurement for one trial. Records are
// created once by the runner and never mutated afterward.
//
// Token counts of zero render as "n/a" in reports and read back as zero, so
// zero doubles as the absent marker.
type FormatMetrics struct {
	Format          Format  `json:"format"`
	ConversionMs    float64 `json:"conversion_ms"`
	PreflightTokens int     `json:"preflight_tokens"`
	PromptTokens    int     `json:"prompt_tokens"`
	TotalTokens     int     `json:"total_tokens"`
	LatencyMs       float64 `json:"latency_ms"`
	Excerpt         string  `json:"excerpt"`

	// Raw is the full response payload, persisted separately for audit and
	// excluded from aggregation math and the snapshot.
	Raw json.RawMessage `json:"-"`
}

// TrialSummary is one full benchmark run: one FormatMetrics per variant plus
// the derived pairwise deltas. The timestamp doubles as identity and sort
// key for the report store.
type TrialSummary struct {
	Model     string          `json:"model"`
	Dataset   string          `json:"dataset"`
	Timestamp string          `json:"timestamp"`
	AuditID   string          `json:"audit_id,omitempty"`
	Formats   []FormatMetrics `json:"formats"`
	Deltas    []PairDelta     `json:"deltas"`
}

// MetricsFor returns the metrics entry for a format.
func (s TrialSummary) MetricsFor(format Format) (FormatMetrics, bool) {
	for _, metrics := range s.Formats {
		if metrics.Format == format {
			return metrics, true
		}
	}
	return FormatMetrics{}, false
}
