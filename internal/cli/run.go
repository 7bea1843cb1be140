package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"
	"time"

	"toonbench/internal/config"
	"toonbench/internal/dataset"
	"toonbench/internal/genai"
	"toonbench/internal/ratelimit"
	"toonbench/internal/report"
	"toonbench/internal/toon"
	"toonbench/internal/trial"
	"toonbench/internal/ui/live"
)

const defaultDelayMs = 20000

// Test seams.
var (
	runSeries = trial.RunSeries
	newClient = func() (trial.Client, error) { return genai.FromEnv(nil) }
	startLive = func(stdout io.Writer) liveUI { return live.Start(stdout, live.Options{}) }
)

// liveUI is the surface of the live controller the run command uses.
type liveUI interface {
	trial.Observer
	Close()
	Wait()
}

// lenientIntFlag registers an integer switch whose malformed values fall
// back to the default instead of failing the command.
func lenientIntFlag(fs *flag.FlagSet, name string, fallback int, usage string) *int {
	value := fallback
	fs.Func(name, usage, func(s string) error {
		parsed, err := strconv.Atoi(s)
		if err != nil {
			value = fallback
			return nil
		}
		value = parsed
		return nil
	})
	return &value
}

func runRun(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		configPath := fs.String("config", "", "Path to config file (default: "+config.DefaultPath+")")
		runs := lenientIntFlag(fs, "runs", 1, "Number of trials to run")
		delayMs := lenientIntFlag(fs, "delay-ms", defaultDelayMs, "Delay between trials in milliseconds")
		datasetPath := fs.String("dataset", "", "Override dataset path")
		outputDir := fs.String("output-dir", "", "Override output directory")
		model := fs.String("model", "", "Override model name")
		uiMode := fs.String("ui", "auto", "UI mode: auto|live|plain")
		if err := fs.Parse(args); err != nil {
			return ExitUsage
		}

		// Out-of-range values fall back to their defaults rather than
		// failing the run; malformed values are handled by lenientIntFlag.
		if *runs < 1 {
			*runs = 1
		}
		if *delayMs < 0 {
			*delayMs = defaultDelayMs
		}

		cfg, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
			return ExitError
		}
		if *datasetPath != "" {
			cfg.Dataset = *datasetPath
		}
		if *outputDir != "" {
			cfg.OutputDir = *outputDir
		}
		if *model != "" {
			cfg.Model = *model
		}

		decision, err := resolveUIMode(*uiMode, stdout)
		if err != nil {
			fmt.Fprintf(stderr, "%v\n", err)
			return ExitUsage
		}
		if decision.warning != "" {
			fmt.Fprintln(stderr, decision.warning)
		}

		// The credential check runs before any file or network work.
		client, err := newClient()
		if err != nil {
			fmt.Fprintf(stderr, "%v\n", err)
			return ExitError
		}

		data, err := dataset.Load(cfg.Dataset)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load dataset: %v\n", err)
			return ExitError
		}

		var observer trial.Observer
		var controller liveUI
		if decision.useLive {
			controller = startLive(stdout)
			observer = controller
		} else {
			observer = &plainObserver{out: stdout}
		}

		var reportPaths []string
		sink := func(summary trial.TrialSummary) error {
			paths, err := report.WriteTrial(cfg.OutputDir, summary)
			if err != nil {
				return err
			}
			reportPaths = append(reportPaths, paths.ReportPath())
			return nil
		}

		summaries, runErr := runSeries(context.Background(), trial.Params{
			Model:        cfg.Model,
			DatasetPath:  cfg.Dataset,
			Dataset:      data,
			ExcerptLimit: cfg.ExcerptLimit,
		}, trial.Deps{
			Client:   client,
			Encode:   toon.Encode,
			Limiter:  ratelimit.New(time.Duration(cfg.CooldownMs) * time.Millisecond),
			Observer: observer,
		}, trial.SeriesParams{
			Runs:  *runs,
			Delay: time.Duration(*delayMs) * time.Millisecond,
		}, sink)

		if controller != nil {
			controller.Close()
			controller.Wait()
		}

		if runErr != nil {
			fmt.Fprintf(stderr, "Run failed: %v\n", runErr)
			return ExitError
		}

		fmt.Fprintf(stdout, "Completed %d trial(s) with model %s\n", len(summaries), cfg.Model)
		for _, path := range reportPaths {
			fmt.Fprintf(stdout, "Report: %s\n", path)
		}
		return ExitOK
	}
}
