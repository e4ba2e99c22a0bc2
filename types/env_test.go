package types

import (
	"errors"
	"testing"
)

func TestEnvShadowing(t *testing.T) {
	root := NewEnv(nil)
	root.Define("x", Int(1))
	child := NewEnv(root)
	child.Define("x", Int(2))

	if v, _ := child.Get("x"); v.Int != 2 {
		t.Fatalf("child x = %d", v.Int)
	}
	if v, _ := root.Get("x"); v.Int != 1 {
		t.Fatalf("root x = %d", v.Int)
	}
	if child.Outer() != root {
		t.Fatal("Outer is not the parent")
	}
}

func TestEnvSet(t *testing.T) {
	root := NewEnv(nil)
	root.Define("x", Int(1))
	child := NewEnv(root)

	if err := child.Set("x", Int(5)); err != nil {
		t.Fatal(err)
	}
	if v, _ := root.Get("x"); v.Int != 5 {
		t.Fatalf("Set did not reach the defining frame: %d", v.Int)
	}
	if len(child.Names()) != 0 {
		t.Fatalf("Set bound locally: %v", child.Names())
	}

	if err := child.Set("nope", Nil); !errors.Is(err, ErrUnboundSymbol) {
		t.Fatalf("Set of unbound name: %v", err)
	}
}

func TestEnvGetUnbound(t *testing.T) {
	_, err := NewEnv(nil).Get("missing")
	if !errors.Is(err, ErrUnboundSymbol) {
		t.Fatalf("err = %v", err)
	}
	if NewEnv(nil).Find("missing") != nil {
		t.Fatal("Find invented a binding")
	}
}

func TestBind(t *testing.T) {
	tests := []struct {
		name    string
		params  []string
		tail    string
		args    []*Data
		wantErr bool
	}{
		{"exact", []string{"a", "b"}, "", []*Data{Int(1), Int(2)}, false},
		{"too few", []string{"a", "b"}, "", []*Data{Int(1)}, true},
		{"too many", []string{"a"}, "", []*Data{Int(1), Int(2)}, true},
		{"variadic empty", []string{"a"}, "rest", []*Data{Int(1)}, false},
		{"variadic too few", []string{"a"}, "rest", nil, true},
		{"variadic surplus", []string{"a"}, "rest", []*Data{Int(1), Int(2), Int(3)}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			env, err := Bind(nil, tc.params, tc.tail, tc.args)
			if tc.wantErr {
				if !errors.Is(err, ErrArity) {
					t.Fatalf("err = %v, want arity fault", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if tc.tail != "" {
				rest, _ := env.Get(tc.tail)
				if rest.Kind != ListKind || rest.Seq.Len() != len(tc.args)-len(tc.params) {
					t.Fatalf("tail = %s with %d items", rest.Kind, rest.Seq.Len())
				}
			}
		})
	}
}
