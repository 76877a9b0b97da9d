package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vic/golambda/pkg/lambda"
	"github.com/vic/golambda/pkg/reducer"
)

// Config controls a pipeline run. The zero value is not usable; start from
// DefaultConfig.
type Config struct {
	Mode     lambda.Mode
	Reduce   bool
	MaxSteps int
	Workers  int
	Trace    int
	History  string
}

// DefaultConfig returns an untyped, reducing configuration with one worker
// per CPU.
func DefaultConfig() Config {
	return Config{
		Mode:     lambda.Untyped,
		Reduce:   true,
		MaxSteps: reducer.DefaultMaxSteps,
		Workers:  runtime.NumCPU(),
		History:  ".golambda_history",
	}
}

type configFile struct {
	Typed    *bool  `yaml:"typed"`
	Reduce   *bool  `yaml:"reduce"`
	MaxSteps *int   `yaml:"max_steps"`
	Workers  *int   `yaml:"workers"`
	Trace    *int   `yaml:"trace"`
	History  string `yaml:"history"`
}

// ValidationError aggregates config validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "config: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("config validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// LoadConfig reads a YAML config file on top of DefaultConfig. Unknown keys
// are rejected.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return Config{}, fmt.Errorf("config: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return Config{}, fmt.Errorf("config: open %s: %w", absPath, err)
	}
	defer file.Close()

	cfg, err := DecodeConfig(file)
	if err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", absPath, err)
	}
	return cfg, nil
}

// DecodeConfig parses YAML from r on top of DefaultConfig. An empty document
// yields the defaults.
func DecodeConfig(r io.Reader) (Config, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var raw configFile
	if err := decoder.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse: %w", err)
	}

	cfg := raw.apply(DefaultConfig())
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (f configFile) apply(cfg Config) Config {
	if f.Typed != nil {
		cfg.Mode = lambda.Untyped
		if *f.Typed {
			cfg.Mode = lambda.Typed
		}
	}
	if f.Reduce != nil {
		cfg.Reduce = *f.Reduce
	}
	if f.MaxSteps != nil {
		cfg.MaxSteps = *f.MaxSteps
	}
	if f.Workers != nil {
		cfg.Workers = *f.Workers
	}
	if f.Trace != nil {
		cfg.Trace = *f.Trace
	}
	if f.History != "" {
		cfg.History = f.History
	}
	return cfg
}

// Validate reports every out-of-range field at once.
func (c Config) Validate() error {
	var errs ValidationError
	if c.MaxSteps <= 0 {
		errs.Issues = append(errs.Issues, fmt.Sprintf("max_steps must be positive, got %d", c.MaxSteps))
	}
	if c.Workers <= 0 {
		errs.Issues = append(errs.Issues, fmt.Sprintf("workers must be positive, got %d", c.Workers))
	}
	if c.Trace < 0 {
		errs.Issues = append(errs.Issues, fmt.Sprintf("trace must not be negative, got %d", c.Trace))
	}
	if c.Mode != lambda.Untyped && c.Mode != lambda.Typed {
		errs.Issues = append(errs.Issues, fmt.Sprintf("unknown mode %d", c.Mode))
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

// Construct names what a line is parsed as in error reports.
func (c Config) Construct() string {
	if c.Mode == lambda.Typed {
		return "judgement"
	}
	return "expression"
}
