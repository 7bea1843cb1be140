package cli

import (
	"flag"
	"fmt"
	"io"
	"path/filepath"

	"toonbench/internal/config"
)

func runInit(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		configPath := fs.String("config", config.DefaultPath, "Where to write the config file")
		if err := fs.Parse(args); err != nil {
			return ExitUsage
		}
		if fs.NArg() > 0 {
			fmt.Fprintf(stderr, "unexpected arguments: %v\n", fs.Args())
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}

		if err := config.Scaffold(*configPath); err != nil {
			fmt.Fprintf(stderr, "Init failed: %v\n", err)
			return ExitError
		}

		fmt.Fprintf(stdout, "Wrote %s\n", *configPath)
		fmt.Fprintf(stdout, "Wrote %s\n", filepath.Join(filepath.Dir(*configPath), config.Default().Dataset))
		fmt.Fprintf(stdout, "Set %s and run \"toonbench run\" to benchmark.\n", "GEMINI_API_KEY")
		return ExitOK
	}
}
