package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"toonbench/internal/config"
	"toonbench/internal/report"
)

var aggregateDir = report.AggregateDir

func runAggregate(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		configPath := fs.String("config", "", "Path to config file (default: "+config.DefaultPath+")")
		inputDir := fs.String("input", "", "Directory holding trial reports (default: configured output_dir)")
		if err := fs.Parse(args); err != nil {
			return ExitUsage
		}

		dir := *inputDir
		if dir == "" {
			cfg, err := config.Load(*configPath)
			if err != nil {
				fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
				return ExitError
			}
			dir = cfg.OutputDir
		}

		agg, err := aggregateDir(dir, stderr)
		if err != nil {
			if errors.Is(err, report.ErrNoReports) {
				fmt.Fprintf(stderr, "No trial reports found in %s\n", dir)
			} else {
				fmt.Fprintf(stderr, "Aggregation failed: %v\n", err)
			}
			return ExitError
		}

		fmt.Fprintf(stdout, "Aggregated %d trial(s)\n", agg.TrialCount)
		fmt.Fprintf(stdout, "Fastest format: %s\n", agg.FastestFormat)
		fmt.Fprintf(stdout, "Summary: %s\n", report.SummaryReportPath(dir))
		return ExitOK
	}
}
