package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/vic/golambda/pkg/driver"
	"github.com/vic/golambda/pkg/lambda"
)

const (
	appName = "golambda"
	version = "0.1.0"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "run":
		os.Exit(cmdRun(os.Args[2:]))
	case "repl":
		os.Exit(cmdRepl(os.Args[2:]))
	case "bench":
		os.Exit(cmdBench(os.Args[2:]))
	case "version":
		fmt.Println(version)
	case "-h", "--help", "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", appName, os.Args[1])
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Printf(`%s %s

Usage:
  %s run [-typed] [-config file] [-stats] [file]   Reduce every line of file (or stdin).
  %s repl [-typed] [-config file]                 Start the interactive loop.
  %s bench [-typed] [-config file] <expr> <n>     Time each stage n times.
  %s version                                      Print the version.

`, appName, version, appName, appName, appName, appName)
}

// commonFlags registers the flags shared by all subcommands and returns a
// loader that resolves the final config once the flags are parsed.
func commonFlags(fs *flag.FlagSet) func() (driver.Config, error) {
	typed := fs.Bool("typed", false, "parse lines as typed judgements (expr : type)")
	noReduce := fs.Bool("no-reduce", false, "stop after parsing and type checking")
	configPath := fs.String("config", "", "YAML config file")
	maxSteps := fs.Int("max-steps", 0, "override the reduction step ceiling")
	trace := fs.Int("trace", 0, "record up to n rewrite events per line")

	return func() (driver.Config, error) {
		cfg := driver.DefaultConfig()
		if *configPath != "" {
			loaded, err := driver.LoadConfig(*configPath)
			if err != nil {
				return driver.Config{}, err
			}
			cfg = loaded
		}
		if *typed {
			cfg.Mode = lambda.Typed
		}
		if *noReduce {
			cfg.Reduce = false
		}
		if *maxSteps > 0 {
			cfg.MaxSteps = *maxSteps
		}
		if *trace > 0 {
			cfg.Trace = *trace
		}
		return cfg, cfg.Validate()
	}
}

func cmdRun(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	loadConfig := commonFlags(fs)
	stats := fs.Bool("stats", false, "print reduction statistics to stderr")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		return 2
	}

	var in io.Reader = os.Stdin
	if fs.NArg() > 0 {
		f, err := os.Open(fs.Arg(0))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading file: %v\n", err)
			return 1
		}
		defer f.Close()
		in = f
	}

	lines, err := driver.ReadLines(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
		return 1
	}

	results, err := driver.NewPipeline(cfg).RunBatch(context.Background(), lines)
	if err != nil {
		if errors.Is(err, driver.ErrNoInput) {
			fmt.Fprintf(os.Stderr, "%s: empty input\n", appName)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		return 1
	}

	// Output is only written once every line succeeded.
	for _, res := range results {
		fmt.Println(res.Output)
		if *stats {
			fmt.Fprintf(os.Stderr, "line %d: %d steps, %d beta, %d alpha\n",
				res.Line, res.Stats.Steps, res.Stats.BetaReductions, res.Stats.AlphaConversions)
		}
		for _, ev := range res.Trace {
			fmt.Fprintf(os.Stderr, "  %v\n", ev)
		}
	}
	return 0
}

func cmdBench(args []string) int {
	fs := flag.NewFlagSet("bench", flag.ContinueOnError)
	loadConfig := commonFlags(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s bench [-typed] <expr> <iterations>\n", appName)
		return 2
	}
	iterations, err := strconv.Atoi(fs.Arg(1))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: invalid iteration count %q\n", appName, fs.Arg(1))
		return 2
	}
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		return 2
	}

	report, err := driver.NewPipeline(cfg).Bench(fs.Arg(0), iterations)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	row := func(label string, d time.Duration) {
		fmt.Printf("  %-12s %12v  (%v/op)\n", label, d, report.PerOp(d))
	}
	fmt.Printf("%s, %d iterations\n", report.Input, report.Iterations)
	row("Tokenize", report.Tokenize)
	row("Parse", report.Parse)
	if cfg.Mode == lambda.Typed {
		row("TypeCheck", report.TypeCheck)
	}
	if cfg.Reduce {
		row("Reduce", report.Reduce)
	}
	row("Combined", report.Combined)
	return 0
}
