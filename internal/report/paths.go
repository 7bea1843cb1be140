package report

import (
	"fmt"
	"path/filepath"
	"strings"

	"toonbench/internal/trial"
)

// SafeStamp converts a trial timestamp into a file-name-safe token by
// replacing the characters file systems reject or mishandle.
func SafeStamp(timestamp string) string {
	return strings.NewReplacer(":", "-", ".", "-").Replace(timestamp)
}

// OutputPaths derives every file location for one stored trial.
type OutputPaths struct {
	dir   string
	stamp string
}

// NewOutputPaths validates inputs and builds the path set for a trial.
func NewOutputPaths(dir, timestamp string) (OutputPaths, error) {
	if strings.TrimSpace(dir) == "" {
		return OutputPaths{}, fmt.Errorf("output directory is required")
	}
	if strings.TrimSpace(timestamp) == "" {
		return OutputPaths{}, fmt.Errorf("trial timestamp is required")
	}
	return OutputPaths{dir: dir, stamp: SafeStamp(timestamp)}, nil
}

// ReportPath is the Markdown report location.
func (p OutputPaths) ReportPath() string {
	return filepath.Join(p.dir, "report-"+p.stamp+".md")
}

// SnapshotPath is the structured JSON snapshot location.
func (p OutputPaths) SnapshotPath() string {
	return filepath.Join(p.dir, "report-"+p.stamp+".json")
}

// RawPath is the audit file location for one format's raw response.
func (p OutputPaths) RawPath(format trial.Format) string {
	return filepath.Join(p.dir, "raw-"+p.stamp+"-"+strings.ToLower(string(format))+".json")
}

// SummaryReportPath is the aggregate Markdown location, overwritten on
// every aggregation run.
func SummaryReportPath(dir string) string {
	return filepath.Join(dir, "summary.md")
}

// SummarySnapshotPath is the aggregate JSON snapshot location.
func SummarySnapshotPath(dir string) string {
	return filepath.Join(dir, "summary.json")
}

// snapshotPathFor maps a stored Markdown report to its snapshot twin.
func snapshotPathFor(reportPath string) string {
	return strings.TrimSuffix(reportPath, ".md") + ".json"
}
