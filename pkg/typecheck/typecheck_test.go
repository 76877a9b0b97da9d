package typecheck

import (
	"errors"
	"testing"

	"golang.org/x/exp/slices"

	"github.com/vic/golambda/pkg/lambda"
)

func mustJudgement(t *testing.T, input string) lambda.Judgement {
	t.Helper()
	j, err := lambda.ParseJudgement(input)
	if err != nil {
		t.Fatalf("ParseJudgement(%q): %v", input, err)
	}
	return j
}

func TestCheckAccepts(t *testing.T) {
	inputs := []string{
		"(λx^A.x) : (A -> A)",
		"(λf^(A -> B).λx^A.f x) : ((A -> B) -> (A -> B))",
		"(λx^A.λy^B.x) : A -> B -> A",
		// Only names are compared, so a wrong arity still passes.
		"(λx^A.x) : A",
	}
	for _, in := range inputs {
		if err := Check(mustJudgement(t, in)); err != nil {
			t.Errorf("Check(%q): unexpected error: %v", in, err)
		}
	}
}

func TestCheckUnboundVariables(t *testing.T) {
	tests := []struct {
		input string
		names []string
		msg   string
	}{
		{"x : A", []string{"x"}, "Unknown type: x"},
		{"(λx^A.z y) : A", []string{"y", "z"}, "Unknown type: y, z"},
		{"((λx^A.x) b) : A", []string{"b"}, "Unknown type: b"},
	}

	for _, tt := range tests {
		err := Check(mustJudgement(t, tt.input))
		var tcErr *Error
		if !errors.As(err, &tcErr) {
			t.Errorf("Check(%q): expected *Error, got %v", tt.input, err)
			continue
		}
		if tcErr.Kind != UnknownType || !slices.Equal(tcErr.Names, tt.names) {
			t.Errorf("Check(%q) = %v %v, want UnknownType %v", tt.input, tcErr.Kind, tcErr.Names, tt.names)
		}
		if err.Error() != tt.msg {
			t.Errorf("Check(%q) message %q, want %q", tt.input, err.Error(), tt.msg)
		}
	}
}

func TestCheckMismatchedTypes(t *testing.T) {
	err := Check(mustJudgement(t, "(λx^A.x) : (A -> B)"))
	var tcErr *Error
	if !errors.As(err, &tcErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if tcErr.Kind != MismatchedTypes || !slices.Equal(tcErr.Names, []string{"B"}) {
		t.Errorf("got %v %v, want MismatchedTypes [B]", tcErr.Kind, tcErr.Names)
	}
	if err.Error() != "Mismatched types, unknown type: B" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestAnnotationNames(t *testing.T) {
	e, err := lambda.ParseTyped("λf^(A -> B).(λx^C.x) (f y)")
	if err != nil {
		t.Fatal(err)
	}
	names := AnnotationNames(e)
	if names.Size() != 3 {
		t.Errorf("AnnotationNames = %v, want A, B, C", names.Slice())
	}
	for _, name := range []string{"A", "B", "C"} {
		if !names.Contains(name) {
			t.Errorf("missing %s", name)
		}
	}
}
