// Package core holds the native functions bound into the root environment at
// startup, and the prelude written in the language itself.
package core

import (
	"io"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/bshepherdson/openlisp/evaluator"
	"github.com/bshepherdson/openlisp/reader"
	. "github.com/bshepherdson/openlisp/types"
)

var ns = map[string]NativeFn{
	"+":   plus,
	"-":   minus,
	"*":   times,
	"/":   div,
	"mod": mod,

	// Atoms
	"atom":   atom,
	"atom?":  atomQ,
	"deref":  deref,
	"reset!": atomReset,
	"swap!":  atomSwap,

	// Input
	"read-string": readString,
	"slurp":       slurp,

	// Lists
	"list":        mkList,
	"list?":       kindQ("list?", ListKind),
	"vector":      mkVector,
	"vector?":     kindQ("vector?", VectorKind),
	"sequential?": sequentialQ,
	"empty?":      emptyQ,
	"count":       count,
	"cons":        cons,
	"concat":      concat,
	"conj":        conj,
	"nth":         nth,
	"first":       first,
	"rest":        rest,
	"vec":         vec,
	"apply":       apply,
	"map":         mapFn,

	// Hash maps
	"hash-map":  hashMap,
	"map?":      kindQ("map?", HashMapKind),
	"assoc":     assoc,
	"dissoc":    dissoc,
	"get":       get,
	"contains?": containsQ,
	"keys":      keys,
	"vals":      vals,

	// Types
	"nil?":     kindQ("nil?", NilKind),
	"true?":    trueQ,
	"false?":   falseQ,
	"number?":  numberQ,
	"int?":     kindQ("int?", IntKind),
	"float?":   kindQ("float?", FloatKind),
	"string?":  kindQ("string?", StringKind),
	"symbol?":  kindQ("symbol?", SymbolKind),
	"keyword?": kindQ("keyword?", KeywordKind),
	"fn?":      fnQ,
	"macro?":   macroQ,
	"error?":   kindQ("error?", ErrorKind),
	"symbol":   symbol,
	"keyword":  keyword,
	"gensym":   gensym,

	// Metadata
	"meta":      meta,
	"with-meta": withMeta,

	// Errors
	"throw":       throw,
	"error":       mkError,
	"error-value": errorValue,

	// Comparisons
	"=":  equal,
	"<":  compare("<", func(c int) bool { return c < 0 }),
	"<=": compare("<=", func(c int) bool { return c <= 0 }),
	">":  compare(">", func(c int) bool { return c > 0 }),
	">=": compare(">=", func(c int) bool { return c >= 0 }),

	"time-ms": timeMs,
}

// Install binds every native into env. Output natives write to out, and eval
// evaluates in env.
func Install(env *Env, out io.Writer) {
	for key, val := range ns {
		env.Define(key, NewNative(key, val))
	}

	o := &output{w: out}
	for key, val := range map[string]NativeFn{
		"pr-str":  prStr,
		"str":     fStr,
		"prn":     o.prn,
		"println": o.println,
	} {
		env.Define(key, NewNative(key, val))
	}

	env.Define("eval", NewNative("eval", func(args []*Data) (*Data, error) {
		if err := arity("eval", args, 1); err != nil {
			return nil, err
		}
		return evaluator.Eval(args[0], env)
	}))
}

// Names lists every native Install binds.
func Names() []string {
	names := []string{"pr-str", "str", "prn", "println", "eval"}
	for k := range ns {
		names = append(names, k)
	}
	return names
}

func arity(name string, args []*Data, n int) error {
	if len(args) != n {
		return Faultf(Arity, "%s expects %d arguments, got %d", name, n, len(args))
	}
	return nil
}

func arityAtLeast(name string, args []*Data, n int) error {
	if len(args) < n {
		return Faultf(Arity, "%s expects at least %d arguments, got %d", name, n, len(args))
	}
	return nil
}

func typeError(name, want string, got *Data) error {
	return Faultf(Type, "%s expects %s, got %s", name, want, got.Kind)
}

func kindQ(name string, k Kind) NativeFn {
	return func(args []*Data) (*Data, error) {
		if err := arity(name, args, 1); err != nil {
			return nil, err
		}
		return Bool(args[0].Kind == k), nil
	}
}

func readString(args []*Data) (*Data, error) {
	if err := arity("read-string", args, 1); err != nil {
		return nil, err
	}
	if args[0].Kind != StringKind {
		return nil, typeError("read-string", "a string", args[0])
	}
	return reader.ReadStr(args[0].Str)
}

func timeMs(args []*Data) (*Data, error) {
	if err := arity("time-ms", args, 0); err != nil {
		return nil, err
	}
	return Int(time.Now().UnixMilli()), nil
}

// Errors
func throw(args []*Data) (*Data, error) {
	if err := arity("throw", args, 1); err != nil {
		return nil, err
	}
	return nil, Throw(args[0])
}

func mkError(args []*Data) (*Data, error) {
	if err := arity("error", args, 1); err != nil {
		return nil, err
	}
	return NewError(args[0]), nil
}

func errorValue(args []*Data) (*Data, error) {
	if err := arity("error-value", args, 1); err != nil {
		return nil, err
	}
	if args[0].Kind != ErrorKind {
		return nil, typeError("error-value", "an error", args[0])
	}
	return args[0].Payload, nil
}

// Metadata
func meta(args []*Data) (*Data, error) {
	if err := arity("meta", args, 1); err != nil {
		return nil, err
	}
	if args[0].Meta == nil {
		return Nil, nil
	}
	return args[0].Meta, nil
}

func withMeta(args []*Data) (*Data, error) {
	if err := arity("with-meta", args, 2); err != nil {
		return nil, err
	}
	return WithMeta(args[0], args[1]), nil
}

// Types
func trueQ(args []*Data) (*Data, error) {
	if err := arity("true?", args, 1); err != nil {
		return nil, err
	}
	return Bool(args[0].Kind == BoolKind && args[0].Bool), nil
}

func falseQ(args []*Data) (*Data, error) {
	if err := arity("false?", args, 1); err != nil {
		return nil, err
	}
	return Bool(args[0].Kind == BoolKind && !args[0].Bool), nil
}

func numberQ(args []*Data) (*Data, error) {
	if err := arity("number?", args, 1); err != nil {
		return nil, err
	}
	return Bool(args[0].Kind == IntKind || args[0].Kind == FloatKind), nil
}

func fnQ(args []*Data) (*Data, error) {
	if err := arity("fn?", args, 1); err != nil {
		return nil, err
	}
	return Bool(args[0].Kind == FunctionKind && !args[0].IsMacro()), nil
}

func macroQ(args []*Data) (*Data, error) {
	if err := arity("macro?", args, 1); err != nil {
		return nil, err
	}
	return Bool(args[0].IsMacro()), nil
}

func symbol(args []*Data) (*Data, error) {
	if err := arity("symbol", args, 1); err != nil {
		return nil, err
	}
	if args[0].Kind != StringKind {
		return nil, typeError("symbol", "a string", args[0])
	}
	return Sym(args[0].Str), nil
}

func keyword(args []*Data) (*Data, error) {
	if err := arity("keyword", args, 1); err != nil {
		return nil, err
	}
	switch args[0].Kind {
	case KeywordKind:
		return args[0], nil
	case StringKind:
		return Keyword(strings.TrimPrefix(args[0].Str, ":")), nil
	default:
		return nil, typeError("keyword", "a string or keyword", args[0])
	}
}

var gensymCounter atomic.Int64

// gensym returns a fresh symbol for macro expansions to bind without
// capturing names from the caller. An optional string replaces the "G__"
// prefix.
func gensym(args []*Data) (*Data, error) {
	prefix := "G__"
	switch len(args) {
	case 0:
	case 1:
		if args[0].Kind != StringKind {
			return nil, typeError("gensym", "a string prefix", args[0])
		}
		prefix = args[0].Str
	default:
		return nil, Faultf(Arity, "gensym expects 0 or 1 arguments, got %d", len(args))
	}
	return Sym(prefix + strconv.FormatInt(gensymCounter.Add(1), 10)), nil
}
