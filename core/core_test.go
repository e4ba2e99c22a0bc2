package core_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/bshepherdson/openlisp/core"
	"github.com/bshepherdson/openlisp/environment"
	"github.com/bshepherdson/openlisp/evaluator"
	. "github.com/bshepherdson/openlisp/types"
)

func newGlobal(t *testing.T, out *bytes.Buffer) *environment.Global {
	t.Helper()
	g, err := environment.New(environment.WithOutput(out))
	if err != nil {
		t.Fatalf("environment.New: %v", err)
	}
	return g
}

func check(t *testing.T, tests [][2]string) {
	t.Helper()
	for _, tc := range tests {
		g := newGlobal(t, &bytes.Buffer{})
		got, err := g.Rep(tc[0])
		if err != nil {
			t.Errorf("Rep(%q): %v", tc[0], err)
			continue
		}
		if got != tc[1] {
			t.Errorf("Rep(%q) = %s, want %s", tc[0], got, tc[1])
		}
	}
}

func TestArithmetic(t *testing.T) {
	check(t, [][2]string{
		{"(+)", "0"},
		{"(+ 1 2 3)", "6"},
		{"(+ 1 2.5)", "3.5"},
		{"(- 5)", "-5"},
		{"(- 10 3 2)", "5"},
		{"(*)", "1"},
		{"(* 2 3 4)", "24"},
		{"(/ 7 2)", "3"},
		{"(/ 7.0 2)", "3.5"},
		{"(/ 2)", "0"},
		{"(mod 7 3)", "1"},
		{"(mod -7 3)", "2"},
		{"(= 1 1 1)", "true"},
		{"(= 1 2)", "false"},
		{"(= 1 1.0)", "false"},
		{"(= [1 2] [1 2])", "true"},
		{"(= (list 1 2) [1 2])", "false"},
		{"(< 1 2 3)", "true"},
		{"(< 1 3 2)", "false"},
		{"(<= 1 1 2)", "true"},
		{"(> 3 2.5)", "true"},
		{"(>= 2 3)", "false"},
	})
}

func TestSequences(t *testing.T) {
	check(t, [][2]string{
		{"(list 1 2)", "(1 2)"},
		{"(list? (list))", "true"},
		{"(list? [])", "false"},
		{"(vector? [])", "true"},
		{"(sequential? [1])", "true"},
		{"(sequential? {})", "false"},
		{"(empty? ())", "true"},
		{"(empty? nil)", "true"},
		{"(empty? [1])", "false"},
		{"(count [1 2 3])", "3"},
		{"(count nil)", "0"},
		{`(count "héllo")`, "5"},
		{"(count {:a 1})", "1"},
		{"(cons 1 [2 3])", "(1 2 3)"},
		{"(cons 1 nil)", "(1)"},
		{"(concat [1] (list 2) nil [3])", "(1 2 3)"},
		{"(concat)", "()"},
		{"(nth [1 2 3] 1)", "2"},
		{"(first [1 2])", "1"},
		{"(first ())", "nil"},
		{"(first nil)", "nil"},
		{"(rest [1 2 3])", "(2 3)"},
		{"(rest ())", "()"},
		{"(rest nil)", "()"},
		{"(vec (list 1 2))", "[1 2]"},
		{"(apply + 1 2 [3 4])", "10"},
		{"(apply list [])", "()"},
		{"(map (fn* (x) (* x x)) [1 2 3])", "(1 4 9)"},
		{"(conj [1] 2 3)", "[1 2 3]"},
		{"(conj nil 1)", "(1)"},
	})
}

func TestConjMutatesLists(t *testing.T) {
	check(t, [][2]string{
		{"(def! l (list 1)) (conj l 2) l", "(1 2)"},
		{"(def! l (list 1)) (= l (conj l 2))", "true"},
		{"(def! v [1]) (conj v 2) v", "[1]"},
	})
}

func TestHashMaps(t *testing.T) {
	check(t, [][2]string{
		{"(hash-map :a 1 :b 2)", "{:a 1 :b 2}"},
		{"(map? {})", "true"},
		{"(assoc {:a 1} :b 2 :a 3)", "{:a 3 :b 2}"},
		{"(def! m {:a 1}) (assoc m :b 2) m", "{:a 1}"},
		{"(dissoc {:a 1 :b 2} :a)", "{:b 2}"},
		{"(get {:a 1} :a)", "1"},
		{"(get {:a 1} :b)", "nil"},
		{"(get {:a 1} :b 9)", "9"},
		{"(get nil :a)", "nil"},
		{`(get {"k" 1} "k")`, "1"},
		{"(contains? {:a nil} :a)", "true"},
		{"(contains? {:a 1} :b)", "false"},
		{"(keys {:a 1 :b 2})", "(:a :b)"},
		{"(vals {:a 1 :b 2})", "(1 2)"},
		{"(= {:a 1 :b 2} {:b 2 :a 1})", "true"},
	})
}

func TestPredicatesAndConstructors(t *testing.T) {
	check(t, [][2]string{
		{"(nil? nil)", "true"},
		{"(true? true)", "true"},
		{"(true? 1)", "false"},
		{"(false? false)", "true"},
		{"(false? nil)", "false"},
		{"(number? 1.5)", "true"},
		{"(int? 1)", "true"},
		{"(float? 1)", "false"},
		{`(string? "s")`, "true"},
		{"(symbol? 'a)", "true"},
		{"(keyword? :a)", "true"},
		{"(fn? +)", "true"},
		{"(fn? (fn* () 1))", "true"},
		{"(fn? cond)", "false"},
		{"(macro? cond)", "true"},
		{`(symbol "abc")`, "abc"},
		{`(keyword "abc")`, ":abc"},
		{"(keyword :abc)", ":abc"},
		{`(keyword ":abc")`, ":abc"},
		{`(= (keyword ":a") :a)`, "true"},
		{"(error? (error 1))", "true"},
		{"(error-value (error :x))", ":x"},
		{"(not nil)", "true"},
		{"(not 0)", "false"},
	})
}

func TestGensym(t *testing.T) {
	check(t, [][2]string{
		{"(symbol? (gensym))", "true"},
		{"(= (gensym) (gensym))", "false"},
	})

	g := newGlobal(t, &bytes.Buffer{})
	got, err := g.Rep(`(gensym "tmp")`)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(got, "tmp") || got == "tmp" {
		t.Errorf("(gensym \"tmp\") = %s", got)
	}
}

func TestAtoms(t *testing.T) {
	check(t, [][2]string{
		{"(atom 1)", "(atom 1)"},
		{"(atom? (atom 1))", "true"},
		{"(atom? 1)", "false"},
		{"(def! a (atom 1)) (reset! a 5) @a", "5"},
		{"(def! a (atom 1)) (swap! a + 2 3)", "6"},
		{"(def! a (atom 1)) (swap! a (fn* (x) (* x 10))) (deref a)", "10"},
	})
}

func TestMetadata(t *testing.T) {
	check(t, [][2]string{
		{"(meta [1])", "nil"},
		{"(meta (with-meta [1] {:a 1}))", "{:a 1}"},
		{"(def! v [1]) (with-meta v :m) (meta v)", "nil"},
		{"(meta ^{:doc 1} [1])", "{:doc 1}"},
		{"(def! f (with-meta (fn* () 1) :m)) (list (meta f) (f))", "(:m 1)"},
	})
}

func TestStrings(t *testing.T) {
	check(t, [][2]string{
		{`(str "a" 1 :k nil)`, `"a1:knil"`},
		{"(str)", `""`},
		{`(pr-str "a" 1)`, `"\"a\" 1"`},
		{`(read-string "(1 2)")`, "(1 2)"},
		{`(eval (read-string "(+ 1 2)"))`, "3"},
		{`(read-string "")`, "nil"},
	})
}

func TestPrelude(t *testing.T) {
	check(t, [][2]string{
		{"(cond false 1 nil 2 :else 3)", "3"},
		{"(cond)", "nil"},
		{"(or)", "nil"},
		{"(or nil false 3)", "3"},
		{"(or 1 (throw :never))", "1"},
		{"(and)", "true"},
		{"(and 1 2)", "2"},
		{"(and 1 nil (throw :never))", "nil"},
		{"(let* (or_inner 5) (or false or_inner))", "5"},
		{"(let* (x 7) (or nil x))", "7"},
		{"(let* (and_inner 5) (and true and_inner))", "5"},
		{"(let* (y 3) (and 1 y))", "3"},
		{"*host-language*", `"go"`},
		{"*ARGV*", "()"},
	})
}

func TestOutput(t *testing.T) {
	var out bytes.Buffer
	g := newGlobal(t, &out)
	if _, err := g.Rep(`(prn "a" :b) (println "a" :b)`); err != nil {
		t.Fatal(err)
	}
	if got, want := out.String(), "\"a\" :b\na :b\n"; got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

func TestFileNatives(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lib.lisp")
	if err := os.WriteFile(path, []byte("(def! from-file 42)\n; trailing comment"), 0o644); err != nil {
		t.Fatal(err)
	}

	g := newGlobal(t, &bytes.Buffer{})
	got, err := g.Rep(`(load-file "` + path + `") from-file`)
	if err != nil {
		t.Fatal(err)
	}
	if got != "42" {
		t.Fatalf("from-file = %s", got)
	}

	_, err = g.Rep(`(slurp "` + filepath.Join(dir, "missing") + `")`)
	if _, ok := evaluator.IsThrown(err); !ok {
		t.Fatalf("slurp of a missing file: %v", err)
	}
}

func TestNativeFaults(t *testing.T) {
	tests := []struct {
		src  string
		want error
	}{
		{"(count 1)", ErrType},
		{"(first 1)", ErrType},
		{"(nth [1] -1)", ErrIndex},
		{"(nth [1] :a)", ErrType},
		{"(hash-map 1)", ErrArity},
		{"(assoc {} :a)", ErrArity},
		{"(get 1 2)", ErrType},
		{"(deref 1)", ErrType},
		{"(mod 1.5 2)", ErrType},
		{"(< 1 :a)", ErrType},
		{"(symbol 1)", ErrType},
		{"(=)", ErrArity},
		{"(apply +)", ErrArity},
		{"(time-ms 1)", ErrArity},
		{"(gensym 1)", ErrType},
		{`(gensym "a" "b")`, ErrArity},
	}

	for _, tc := range tests {
		g := newGlobal(t, &bytes.Buffer{})
		if _, err := g.Rep(tc.src); !errors.Is(err, tc.want) {
			t.Errorf("Rep(%q) err = %v, want %v", tc.src, err, tc.want)
		}
	}
}

func TestThrowAndError(t *testing.T) {
	check(t, [][2]string{
		{"(try* (throw (error :bad)) (catch* e (error-value e)))", ":bad"},
		{"(try* (mod 1 0) (catch* e e))", `"division by zero"`},
		{"(try* (throw nil) (catch* e (nil? e)))", "true"},
	})
}

func TestNames(t *testing.T) {
	names := core.Names()
	for _, want := range []string{"+", "prn", "eval", "swap!", "with-meta", "time-ms"} {
		if !slices.Contains(names, want) {
			t.Errorf("Names is missing %s", want)
		}
	}

	env := NewEnv(nil)
	core.Install(env, &bytes.Buffer{})
	for _, n := range names {
		if env.Find(n) == nil {
			t.Errorf("%s listed but not installed", n)
		}
	}
}
