package report

import (
	"fmt"
	"strconv"
	"strings"

	"toonbench/internal/trial"
)

// Metrics table column order and the "N.Nms" duration form are a wire
// format: the reader parses exactly this shape. Change both sides together.
var metricsColumns = []string{
	"Format",
	"Input Tokens Sent",
	"Prompt Tokens in Response",
	"Total Tokens in Response",
	"Data Prep Time",
	"Response Time",
}

// RenderTrial produces the canonical Markdown document for one trial.
func RenderTrial(summary trial.TrialSummary) string {
	var b strings.Builder
	b.WriteString("# Token Format Benchmark\n\n")
	writeHeaderLines(&b, [][2]string{
		{"Model", summary.Model},
		{"Dataset", summary.Dataset},
		{"Timestamp", summary.Timestamp},
	})
	writeExecutiveSummary(&b, summary.Deltas)
	writeMetricsTable(&b, summary.Formats)
	writeDeltas(&b, summary.Deltas)
	writeExcerpts(&b, summary.Formats)
	writeGlossary(&b)
	return b.String()
}

// RenderAggregate produces the summary document for averaged trials. The
// section skeleton matches the single-trial report with values reflecting
// averages across N runs.
func RenderAggregate(agg AggregatedSummary) string {
	var b strings.Builder
	b.WriteString("# Token Format Benchmark Aggregate\n\n")
	writeHeaderLines(&b, [][2]string{
		{"Model", agg.Model},
		{"Trials", strconv.Itoa(agg.TrialCount)},
		{"Date Range", agg.FirstTimestamp + " to " + agg.LastTimestamp},
		{"Fastest Format", string(agg.FastestFormat)},
	})
	fmt.Fprintf(&b, "All metrics are averages across %d runs.\n\n", agg.TrialCount)
	writeExecutiveSummary(&b, agg.Deltas)
	writeMetricsTable(&b, agg.Formats)
	writeDeltas(&b, agg.Deltas)
	writeGlossary(&b)
	return b.String()
}

func writeHeaderLines(b *strings.Builder, pairs [][2]string) {
	for _, pair := range pairs {
		fmt.Fprintf(b, "**%s:** %s\n", pair[0], pair[1])
	}
	b.WriteString("\n")
}

func writeExecutiveSummary(b *strings.Builder, deltas []trial.PairDelta) {
	b.WriteString("## Summary\n\n")
	for _, delta := range deltas {
		fmt.Fprintf(b, "- %s: %s; %s.\n", delta.Label(), tokenSentence(delta), latencySentence(delta))
	}
	b.WriteString("\n")
}

// tokenSentence names the format that sent fewer tokens, decided by the
// delta's sign.
func tokenSentence(delta trial.PairDelta) string {
	switch {
	case delta.TokenSavings > 0:
		return fmt.Sprintf("%s sent %s fewer tokens than %s (%s savings)",
			delta.Comparison, groupDigits(delta.TokenSavings), delta.Baseline, formatPercent(delta.TokenSavingsPercent))
	case delta.TokenSavings < 0:
		return fmt.Sprintf("%s sent %s more tokens than %s",
			delta.Comparison, groupDigits(-delta.TokenSavings), delta.Baseline)
	default:
		return fmt.Sprintf("%s and %s sent the same token count", delta.Comparison, delta.Baseline)
	}
}

// latencySentence names the faster format, decided by the delta's sign.
func latencySentence(delta trial.PairDelta) string {
	switch {
	case delta.APILatencyDeltaMs > 0:
		return fmt.Sprintf("%s responded %s faster", delta.Comparison, formatMs(delta.APILatencyDeltaMs))
	case delta.APILatencyDeltaMs < 0:
		return fmt.Sprintf("%s responded %s faster", delta.Baseline, formatMs(-delta.APILatencyDeltaMs))
	default:
		return "response times were equal"
	}
}

func writeMetricsTable(b *strings.Builder, formats []trial.FormatMetrics) {
	b.WriteString("## Metrics\n\n")
	b.WriteString("| " + strings.Join(metricsColumns, " | ") + " |\n")
	separators := make([]string, len(metricsColumns))
	for i := range separators {
		separators[i] = "---"
	}
	b.WriteString("| " + strings.Join(separators, " | ") + " |\n")
	for _, metrics := range formats {
		fmt.Fprintf(b, "| %s | %s | %s | %s | %s | %s |\n",
			metrics.Format,
			formatTokens(metrics.PreflightTokens),
			formatTokens(metrics.PromptTokens),
			formatTokens(metrics.TotalTokens),
			formatMs(metrics.ConversionMs),
			formatMs(metrics.LatencyMs),
		)
	}
	b.WriteString("\n")
}

func writeDeltas(b *strings.Builder, deltas []trial.PairDelta) {
	b.WriteString("## Deltas\n\n")
	for _, delta := range deltas {
		fmt.Fprintf(b, "### %s\n\n", delta.Label())
		fmt.Fprintf(b, "- Token savings: %s (%s)\n", signedDigits(delta.TokenSavings), formatPercent(delta.TokenSavingsPercent))
		fmt.Fprintf(b, "- API latency delta: %s\n", signedMs(delta.APILatencyDeltaMs))
		fmt.Fprintf(b, "- Conversion overhead: %s\n", signedMs(delta.ConversionOverheadMs))
		b.WriteString("\n")
	}
}

func writeExcerpts(b *strings.Builder, formats []trial.FormatMetrics) {
	b.WriteString("## Response Excerpts\n\n")
	for _, metrics := range formats {
		fmt.Fprintf(b, "### %s\n\n", metrics.Format)
		excerpt := metrics.Excerpt
		if excerpt == "" {
			excerpt = "(no response text)"
		}
		for _, line := range strings.Split(excerpt, "\n") {
			b.WriteString("> " + line + "\n")
		}
		b.WriteString("\n")
	}
}

func writeGlossary(b *strings.Builder) {
	b.WriteString("## Metric Definitions\n\n")
	b.WriteString("- **Input Tokens Sent:** token count from the pre-flight counting call, before submission.\n")
	b.WriteString("- **Prompt Tokens in Response:** prompt token count reported by the generation response; n/a when the API omitted it.\n")
	b.WriteString("- **Total Tokens in Response:** total token count reported by the generation response; n/a when the API omitted it.\n")
	b.WriteString("- **Data Prep Time:** wall-clock time to produce the payload in this format.\n")
	b.WriteString("- **Response Time:** end-to-end latency of the generation call only.\n")
	b.WriteString("- **Token Savings:** baseline input tokens minus comparison input tokens; positive favors the comparison format.\n")
	b.WriteString("- **API Latency Delta:** baseline response time minus comparison response time; positive means the comparison format was faster.\n")
	b.WriteString("- **Conversion Overhead:** comparison data-prep time minus baseline data-prep time.\n")
}

// formatTokens renders a token count; zero stands for an absent value.
func formatTokens(count int) string {
	if count == 0 {
		return "n/a"
	}
	return groupDigits(count)
}

// formatMs renders a duration in milliseconds with exactly one decimal
// digit, the form the reader parses back.
func formatMs(ms float64) string {
	return fmt.Sprintf("%.1fms", ms)
}

func signedMs(ms float64) string {
	return fmt.Sprintf("%+.1fms", ms)
}

func formatPercent(percent float64) string {
	return fmt.Sprintf("%.2f%%", percent)
}

// groupDigits renders an integer with comma thousands separators.
func groupDigits(n int) string {
	digits := strconv.Itoa(n)
	sign := ""
	if strings.HasPrefix(digits, "-") {
		sign = "-"
		digits = digits[1:]
	}
	if len(digits) <= 3 {
		return sign + digits
	}
	var parts []string
	for len(digits) > 3 {
		parts = append([]string{digits[len(digits)-3:]}, parts...)
		digits = digits[:len(digits)-3]
	}
	parts = append([]string{digits}, parts...)
	return sign + strings.Join(parts, ",")
}

func signedDigits(n int) string {
	if n > 0 {
		return "+" + groupDigits(n)
	}
	return groupDigits(n)
}
