package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vic/golambda/pkg/lambda"
)

// TestCase is one golden reduction. Cases with Error set are expected to
// fail with that reducer error kind instead of producing Output.
type TestCase struct {
	Name   string `yaml:"name"`
	Input  string `yaml:"input"`
	Output string `yaml:"output,omitempty"`
	Error  string `yaml:"error,omitempty"`
}

func main() {
	out := flag.String("o", "pkg/reducer/testdata/reductions.yaml", "output file")
	flag.Parse()

	tests := []TestCase{
		// Identity
		{Name: "001_id", Input: "λx.x", Output: "λx.x"},
		{Name: "002_id_id", Input: "(λx.x) (λy.y)", Output: "λy.y"},

		// K Combinator (Erasure)
		{Name: "003_k_1", Input: "(λx.λy.x) a b", Output: "a"},
		{Name: "004_k_2", Input: "(λx.λy.y) a b", Output: "b"},
		{Name: "005_erase_complex", Input: "(λx.λy.x) a ((λz.z) b)", Output: "a"},

		// S Combinator (Sharing)
		{Name: "006_s_1", Input: "(λx.λy.λz.x z (y z)) (λa.λb.a) (λc.λd.c) e", Output: "e"},
		{Name: "007_s_2", Input: "(λx.λy.λz.x z (y z)) (λa.λb.b) (λc.λd.c) e", Output: "λd.e"},

		// Church Numerals
		{Name: "010_zero", Input: church(0) + " f x", Output: "x"},
		{Name: "011_one", Input: church(1) + " f x", Output: churchBody(1)},
		{Name: "012_two", Input: church(2) + " f x", Output: churchBody(2)},
		{Name: "013_succ_0", Input: "(λn.λf.λx.f (n f x)) " + church(0) + " f x", Output: churchBody(1)},
		{Name: "014_succ_1", Input: "(λn.λf.λx.f (n f x)) " + church(1) + " f x", Output: churchBody(2)},
		{Name: "015_add_1_1", Input: "(λm.λn.λf.λx.m f (n f x)) " + church(1) + " " + church(1) + " f x", Output: churchBody(2)},
		{Name: "016_mul_2_2", Input: "(λm.λn.λf.m (n f)) " + church(2) + " " + church(2) + " f x", Output: churchBody(4)},
		{Name: "017_mul_2_3", Input: "(λm.λn.λf.m (n f)) " + church(2) + " " + church(3) + " f x", Output: churchBody(6)},

		// Logic
		{Name: "020_true", Input: "(λx.λy.x) a b", Output: "a"},
		{Name: "021_false", Input: "(λx.λy.y) a b", Output: "b"},
		{Name: "022_not_true", Input: "(λb.b (λx.λy.y) (λx.λy.x)) (λx.λy.x) a b", Output: "b"},
		{Name: "023_not_false", Input: "(λb.b (λx.λy.y) (λx.λy.x)) (λx.λy.y) a b", Output: "a"},
		{Name: "024_and_true_true", Input: "(λp.λq.p q p) (λx.λy.x) (λx.λy.x) a b", Output: "a"},
		{Name: "025_and_true_false", Input: "(λp.λq.p q p) (λx.λy.x) (λx.λy.y) a b", Output: "b"},

		// Pairs
		{Name: "030_pair_fst", Input: "(λp.p (λx.λy.x)) ((λx.λy.λf.f x y) a b)", Output: "a"},
		{Name: "031_pair_snd", Input: "(λp.p (λx.λy.y)) ((λx.λy.λf.f x y) a b)", Output: "b"},

		// Sharing
		{Name: "051_share_app", Input: "(λf.f (f x)) (λy.y)", Output: "x"},
		{Name: "070_share_complex", Input: "(λx.x (x a)) (λy.y)", Output: "a"},
		{Name: "071_erase_shared", Input: "(λx.λy.y) ((λz.z) a) b", Output: "b"},

		// Nested Lambdas
		{Name: "080_nested_1", Input: "λx.λy.λz.x y z", Output: "λx.λy.λz.x y z"},
		{Name: "081_nested_app", Input: "(λx.λy.x y) a b", Output: "a b"},
		{Name: "082_under_binder", Input: "λz.(λx.x) z", Output: "λz.z"},

		// Free variables
		{Name: "090_free_1", Input: "x", Output: "x"},
		{Name: "091_free_app", Input: "x y", Output: "x y"},
		{Name: "092_free_abs", Input: "λy.x y", Output: "λy.x y"},

		// Mixed
		{Name: "100_mixed_1", Input: "(λx.x) ((λy.y) a)", Output: "a"},

		// Capture and shadowing
		{Name: "110_capture", Input: "(λx.λy.x) y", Output: "λy1.y"},
		{Name: "111_capture_twice", Input: "(λx.λy.λz.x y z) y z", Output: "λz1.y z z1"},
		{Name: "112_shadow", Input: "(λx.λx.x) a", Output: "λx.x"},

		// Evaluation order
		{Name: "120_lazy_argument", Input: "(λx.λy.y) ((λx.x x) (λx.x x)) z", Output: "z"},
		{Name: "121_omega", Input: "(λx.x x) (λx.x x)", Error: "ReductionOutOfBounds"},
	}

	var normalized []TestCase
	for _, tc := range tests {
		// Normalize Input
		inTerm, err := lambda.Parse(tc.Input)
		if err != nil {
			fmt.Printf("Error parsing input for %s: %v\n", tc.Name, err)
			continue
		}
		tc.Input = inTerm.String()

		// Normalize Output
		if tc.Error == "" {
			outTerm, err := lambda.Parse(tc.Output)
			if err != nil {
				fmt.Printf("Error parsing output for %s: %v\n", tc.Name, err)
				continue
			}
			tc.Output = outTerm.String()
		}
		normalized = append(normalized, tc)
	}

	var buf bytes.Buffer
	buf.WriteString("# Code generated by cmd/gentests. DO NOT EDIT.\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(normalized); err != nil {
		fmt.Fprintf(os.Stderr, "encode: %v\n", err)
		os.Exit(1)
	}
	_ = enc.Close()

	if err := os.MkdirAll(filepath.Dir(*out), 0755); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, buf.Bytes(), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Generated %d tests\n", len(normalized))
}

func church(n int) string {
	return fmt.Sprintf("(λf.λx.%s)", churchBody(n))
}

func churchBody(n int) string {
	return strings.Repeat("f (", n) + "x" + strings.Repeat(")", n)
}
