package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/vic/golambda/pkg/driver"
	"github.com/vic/golambda/pkg/lambda"
)

const (
	promptUntyped = "λ> "
	promptTyped   = "λ:> "
	replTrace     = 64
)

const replHelp = `
REPL commands:
  :quit      Exit the REPL (also quit, exit)
  :typed     Parse judgements (expr : type)
  :untyped   Parse plain expressions
  :trace     Toggle the rewrite trace
  :help      Show this text
`

func red(s string) string  { return "\x1b[31m" + s + "\x1b[0m" }
func blue(s string) string { return "\x1b[94m" + s + "\x1b[0m" }

// caret renders the input with a marker under the 1-based rune position of
// a lexer error.
func caret(input string, err error) string {
	var lexErr *lambda.LexError
	if !errors.As(err, &lexErr) || lexErr.Pos < 1 {
		return ""
	}
	return "  " + input + "\n  " + strings.Repeat(" ", lexErr.Pos-1) + "^"
}

// replPrompt shows whether the pipeline parses judgements.
func replPrompt(p *driver.Pipeline) string {
	if p.Config().Mode == lambda.Typed {
		return promptTyped
	}
	return promptUntyped
}

func cmdRepl(args []string) int {
	fs := flag.NewFlagSet("repl", flag.ContinueOnError)
	loadConfig := commonFlags(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		return 2
	}

	fmt.Printf("%s %s REPL\nCtrl+C cancels input, Ctrl+D exits. Type :help for commands.\n", appName, version)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := cfg.History
	if !filepath.IsAbs(histPath) {
		if home, err := os.UserHomeDir(); err == nil {
			histPath = filepath.Join(home, histPath)
		}
	}
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	pipeline := driver.NewPipeline(cfg)
	for {
		input, err := ln.Prompt(replPrompt(pipeline))
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if errors.Is(err, io.EOF) {
			fmt.Println()
			return 0
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, red(err.Error()))
			return 1
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		ln.AppendHistory(input)

		switch strings.ToLower(input) {
		case ":quit", "quit", "exit":
			return 0
		case ":help":
			fmt.Print(replHelp)
			continue
		case ":typed":
			cfg.Mode = lambda.Typed
			pipeline = driver.NewPipeline(cfg)
			continue
		case ":untyped":
			cfg.Mode = lambda.Untyped
			pipeline = driver.NewPipeline(cfg)
			continue
		case ":trace":
			if cfg.Trace > 0 {
				cfg.Trace = 0
			} else {
				cfg.Trace = replTrace
			}
			fmt.Printf("trace %s\n", map[bool]string{true: "on", false: "off"}[cfg.Trace > 0])
			pipeline = driver.NewPipeline(cfg)
			continue
		}
		if strings.HasPrefix(input, ":") {
			fmt.Println("unknown command. Type :help for commands.")
			continue
		}

		res, err := pipeline.Process(0, input)
		if err != nil {
			fmt.Fprintln(os.Stderr, red(err.Error()))
			if c := caret(input, err); c != "" {
				fmt.Fprintln(os.Stderr, c)
			}
			continue
		}
		fmt.Println("> " + blue(res.Output))
		for _, ev := range res.Trace {
			fmt.Printf("  %v\n", ev)
		}
	}
}
