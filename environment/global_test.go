package environment

import (
	"bytes"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bshepherdson/openlisp/printer"
	. "github.com/bshepherdson/openlisp/types"
)

func TestRep(t *testing.T) {
	g, err := New(WithOutput(&bytes.Buffer{}))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct{ in, want string }{
		{"", "nil"},
		{"(+ 1 2)", "3"},
		{"(def! a 1) (def! b 2) (+ a b)", "3"},
		{`"str"`, `"str"`},
	}
	for _, tc := range tests {
		got, err := g.Rep(tc.in)
		if err != nil {
			t.Errorf("Rep(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("Rep(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}

	if _, err := g.Rep("(+ 1"); !errors.Is(err, ErrParse) {
		t.Errorf("unterminated form: %v", err)
	}
}

func TestReadEval(t *testing.T) {
	g, err := New()
	if err != nil {
		t.Fatal(err)
	}
	form, err := g.Read("(* 6 7)")
	if err != nil {
		t.Fatal(err)
	}
	v, err := g.Eval(form)
	if err != nil {
		t.Fatal(err)
	}
	if v.Int != 42 {
		t.Fatalf("Eval = %s", printer.PrintStr(v, true))
	}
}

func TestWithArgs(t *testing.T) {
	g, err := New(WithArgs([]string{"a", "b"}))
	if err != nil {
		t.Fatal(err)
	}
	got, err := g.Rep("*ARGV*")
	if err != nil {
		t.Fatal(err)
	}
	if got != `("a" "b")` {
		t.Fatalf("*ARGV* = %s", got)
	}
}

func TestWithoutPrelude(t *testing.T) {
	g, err := New(WithoutPrelude())
	if err != nil {
		t.Fatal(err)
	}
	if g.Env().Find("not") != nil {
		t.Fatal("prelude ran anyway")
	}
	if g.Env().Find("+") == nil {
		t.Fatal("natives missing")
	}
}

func TestGlobalsAreIndependent(t *testing.T) {
	a, _ := New()
	b, _ := New()
	if _, err := a.Rep("(def! only-in-a 1)"); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Rep("only-in-a"); !errors.Is(err, ErrUnboundSymbol) {
		t.Fatalf("binding leaked between globals: %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.lisp")
	src := "(def! sq (fn* (x) (* x x)))\n(sq 9)\n"
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	g, _ := New()
	v, err := g.LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if v.Int != 81 {
		t.Fatalf("last value = %s", printer.PrintStr(v, true))
	}

	if _, err := g.LoadFile(filepath.Join(dir, "missing.lisp")); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("missing file: %v", err)
	}

	bad := filepath.Join(dir, "bad.lisp")
	if err := os.WriteFile(bad, []byte("(sq 2)\n(undefined)"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err = g.LoadFile(bad)
	if !errors.Is(err, ErrUnboundSymbol) || !strings.Contains(err.Error(), "bad.lisp") {
		t.Fatalf("bad file: %v", err)
	}
}

func TestLogsFaultsAtDebug(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	g, err := New(WithLogger(logger))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := g.Rep("(no-such-fn 1)"); err == nil {
		t.Fatal("expected a fault")
	}
	if !strings.Contains(logs.String(), "evaluation failed") {
		t.Fatalf("log output = %q", logs.String())
	}
}
