package lambda

import (
	"testing"
)

func mustParse(t *testing.T, input string) Expr {
	t.Helper()
	e, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse(%q): %v", input, err)
	}
	return e
}

func TestString(t *testing.T) {
	tests := []struct {
		expr Expr
		want string
	}{
		{v("x"), "x"},
		{Abs{Arg: "x", Body: App{Fun: v("x"), Arg: v("y")}}, "λx.x y"},
		{App{Fun: App{Fun: v("x"), Arg: v("y")}, Arg: v("z")}, "(x y) z"},
		{App{Fun: v("x"), Arg: App{Fun: v("y"), Arg: v("z")}}, "x (y z)"},
		{App{Fun: v("x"), Arg: Abs{Arg: "y", Body: v("y")}}, "x (λy.y)"},
		{App{Fun: Abs{Arg: "x", Body: v("x")}, Arg: Abs{Arg: "y", Body: v("y")}}, "(λx.x) (λy.y)"},
		{Abs{Arg: "x", Type: FuncType{From: TypeVar{Name: "A"}, To: TypeVar{Name: "B"}}, Body: v("x")}, "λx^(A -> B).x"},
	}

	for _, tt := range tests {
		if got := tt.expr.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestEqual(t *testing.T) {
	a := mustParse(t, "λx.x y")
	b := mustParse(t, "λx.(x y)")
	if !Equal(a, b) {
		t.Errorf("%v and %v should be equal", a, b)
	}
	if Equal(a, mustParse(t, "λz.z y")) {
		t.Errorf("structural equality must compare binder names")
	}

	typed := Abs{Arg: "x", Type: TypeVar{Name: "A"}, Body: v("x")}
	untyped := Abs{Arg: "x", Body: v("x")}
	if Equal(typed, untyped) {
		t.Errorf("annotated and unannotated abstractions should differ")
	}
}

func TestFreeVars(t *testing.T) {
	tests := []struct {
		input string
		free  []string
	}{
		{"x", []string{"x"}},
		{"λx.x", nil},
		{"λx.x y", []string{"y"}},
		{"(λx.x) x", []string{"x"}},
		{"λx.λx.x", nil},
		{"λx.(λx.x) x", nil},
		{"λx.(λx.x) y", []string{"y"}},
		{"(λf.f a) (λb.b c)", []string{"a", "c"}},
	}

	for _, tt := range tests {
		free := FreeVars(mustParse(t, tt.input))
		if free.Size() != len(tt.free) {
			t.Errorf("FreeVars(%q) = %v, want %v", tt.input, free.Slice(), tt.free)
			continue
		}
		for _, name := range tt.free {
			if !free.Contains(name) {
				t.Errorf("FreeVars(%q) = %v, missing %s", tt.input, free.Slice(), name)
			}
		}
	}

	if !IsFree("y", mustParse(t, "λx.x y")) || IsFree("x", mustParse(t, "λx.x y")) {
		t.Errorf("IsFree disagrees with FreeVars")
	}
}

func TestNames(t *testing.T) {
	names := Names(mustParse(t, "(λx.λy.x) z"))
	for _, name := range []string{"x", "y", "z"} {
		if !names.Contains(name) {
			t.Errorf("Names missing %s: %v", name, names.Slice())
		}
	}
	if names.Size() != 3 {
		t.Errorf("Names = %v, want 3 names", names.Slice())
	}
}

func TestAlphaEquivalent(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"λx.x", "λy.y", true},
		{"λx.y", "λz.y", true},
		{"λx.y", "λy.y", false},
		{"λx.λy.x", "λy.λx.y", true},
		{"λx.λy.x", "λa.λb.b", false},
		{"λx.λx.x", "λa.λb.b", true},
		{"λx.λx.x", "λa.λb.a", false},
		{"x", "y", false},
		{"x y", "x y", true},
		{"λy1.y", "λz.y", true},
		{"λz1.(y z) z1", "λw.(y z) w", true},
		{"λx.x", "x", false},
	}

	for _, tt := range tests {
		got := AlphaEquivalent(mustParse(t, tt.a), mustParse(t, tt.b))
		if got != tt.want {
			t.Errorf("AlphaEquivalent(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
