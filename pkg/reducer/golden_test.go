package reducer

import (
	_ "embed"
	"errors"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/vic/golambda/pkg/lambda"
)

// reductions.yaml is written by cmd/gentests.
//
//go:embed testdata/reductions.yaml
var goldenYAML []byte

type goldenCase struct {
	Name   string `yaml:"name"`
	Input  string `yaml:"input"`
	Output string `yaml:"output"`
	Error  string `yaml:"error"`
}

func TestGoldenReductions(t *testing.T) {
	var cases []goldenCase
	if err := yaml.Unmarshal(goldenYAML, &cases); err != nil {
		t.Fatalf("decode testdata: %v", err)
	}
	if len(cases) == 0 {
		t.Fatal("no golden cases")
	}

	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			input, err := lambda.Parse(tc.Input)
			if err != nil {
				t.Fatalf("Parse input %q: %v", tc.Input, err)
			}

			res, err := Reduce(input)
			if tc.Error != "" {
				var redErr *Error
				if !errors.As(err, &redErr) {
					t.Fatalf("expected %s, got result %v (err %v)", tc.Error, res, err)
				}
				if redErr.Kind.String() != tc.Error {
					t.Errorf("expected %s, got %v", tc.Error, redErr.Kind)
				}
				return
			}
			if err != nil {
				t.Fatalf("Reduce(%s): %v", tc.Input, err)
			}

			want, err := lambda.Parse(tc.Output)
			if err != nil {
				t.Fatalf("Parse output %q: %v", tc.Output, err)
			}
			if !lambda.AlphaEquivalent(res, want) {
				t.Errorf("Reduction mismatch:\ninput:    %s\ngot:      %s\nexpected: %s", tc.Input, res, want)
			}
		})
	}
}
