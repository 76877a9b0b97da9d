package main

import (
	"errors"
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/vic/golambda/pkg/driver"
	"github.com/vic/golambda/pkg/lambda"
)

func TestCaret(t *testing.T) {
	_, err := lambda.Tokenize("λx.x $")
	if err == nil {
		t.Fatal("expected a lex error")
	}
	got := caret("λx.x $", err)
	want := "  λx.x $\n       ^"
	if got != want {
		t.Errorf("caret:\n%s\nwant:\n%s", got, want)
	}

	if caret("x", errors.New("other")) != "" {
		t.Errorf("caret should be empty for non-lexer errors")
	}
}

func parseFlags(t *testing.T, args ...string) (driver.Config, error) {
	t.Helper()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	load := commonFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("Parse(%v): %v", args, err)
	}
	return load()
}

func TestCommonFlags(t *testing.T) {
	cfg, err := parseFlags(t)
	if err != nil {
		t.Fatal(err)
	}
	if cfg != driver.DefaultConfig() {
		t.Errorf("no flags should give the defaults, got %+v", cfg)
	}

	cfg, err = parseFlags(t, "-typed", "-no-reduce", "-max-steps", "7", "-trace", "2")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Mode != lambda.Typed || cfg.Reduce || cfg.MaxSteps != 7 || cfg.Trace != 2 {
		t.Errorf("flags not applied: %+v", cfg)
	}
}

func TestCommonFlagsConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "golambda.yaml")
	if err := os.WriteFile(path, []byte("max_steps: 99\nworkers: 1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	// Flags win over the file.
	cfg, err := parseFlags(t, "-config", path, "-typed")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MaxSteps != 99 || cfg.Workers != 1 || cfg.Mode != lambda.Typed {
		t.Errorf("got %+v", cfg)
	}

	if _, err := parseFlags(t, "-config", filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Errorf("expected an error for a missing config file")
	}
}

func TestReplPrompt(t *testing.T) {
	cfg := driver.DefaultConfig()
	if got := replPrompt(driver.NewPipeline(cfg)); got != promptUntyped {
		t.Errorf("untyped prompt = %q", got)
	}
	cfg.Mode = lambda.Typed
	if got := replPrompt(driver.NewPipeline(cfg)); got != promptTyped {
		t.Errorf("typed prompt = %q", got)
	}
}
