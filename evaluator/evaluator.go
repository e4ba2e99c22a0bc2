// Package evaluator interprets forms produced by the reader.
//
// Eval is a single loop. Forms in tail position (the last form of a do, the
// branches of an if, the body of a let*, a closure body, a macro expansion and
// a catch* handler) replace the loop's ast and env instead of recursing, so
// tail-recursive programs run in constant Go stack.
package evaluator

import (
	"context"
	"errors"
	"log/slog"

	"github.com/bshepherdson/openlisp/printer"
	. "github.com/bshepherdson/openlisp/types"
)

type specialForm func(list []*Data, env *Env) (*Data, error)

// Special forms that never continue the loop. The tail-position ones are
// handled inline in Eval.
var specialForms map[string]specialForm

func init() {
	specialForms = map[string]specialForm{
		"def!":           sfDef,
		"defmacro!":      sfDefmacro,
		"set!":           sfSet,
		"fn*":            sfFn,
		"quote":          sfQuote,
		"macroexpand":    sfMacroexpand,
		"unquote":        sfUnquoteOutside,
		"splice-unquote": sfUnquoteOutside,
		"catch*":         sfCatchOutside,
	}
}

// IsSpecialForm reports whether name is dispatched by the evaluator rather
// than looked up.
func IsSpecialForm(name string) bool {
	switch name {
	case "let*", "do", "if", "quasiquote", "try*":
		return true
	}
	_, ok := specialForms[name]
	return ok
}

func Eval(ast *Data, env *Env) (*Data, error) {
	for {
		switch ast.Kind {
		case SymbolKind:
			return env.Get(ast.Str)

		case VectorKind:
			evald, err := evalList(ast.Items(), env)
			if err != nil {
				return nil, err
			}
			return NewVector(evald...), nil

		case HashMapKind:
			return evalHashMap(ast.Map, env)

		case ListKind:
			// Handled below.

		default:
			return ast, nil
		}

		list := ast.Items()
		if len(list) == 0 {
			return ast, nil
		}

		// Some special forms are implemented in place, since they support TCO.
		if head := list[0]; head.Kind == SymbolKind {
			switch head.Str {
			case "let*":
				if len(list) < 2 || !list[1].IsSequence() {
					return nil, malformed("let*", "first parameter must be a list or vector of bindings")
				}

				bindings := list[1].Items()
				if len(bindings)%2 != 0 {
					return nil, malformed("let*", "bindings must come in pairs; found %d forms", len(bindings))
				}

				letEnv := NewEnv(env)
				for i := 0; i < len(bindings); i += 2 {
					if bindings[i].Kind != SymbolKind {
						return nil, malformed("let*", "left-hand binding must be a symbol, got %s", bindings[i].Kind)
					}

					evald, err := Eval(bindings[i+1], letEnv)
					if err != nil {
						return nil, err
					}
					letEnv.Define(bindings[i].Str, evald)
				}

				ast = body(list[2:])
				env = letEnv
				continue

			case "do":
				if len(list) == 1 {
					return Nil, nil
				}
				if _, err := evalList(list[1:len(list)-1], env); err != nil {
					return nil, err
				}
				ast = list[len(list)-1]
				continue

			case "if":
				if len(list) < 3 || len(list) > 4 {
					return nil, malformed("if", "expected a condition, a then branch and an optional else branch")
				}
				cond, err := Eval(list[1], env)
				if err != nil {
					return nil, err
				}
				if !cond.Truthy() {
					if len(list) < 4 {
						return Nil, nil
					}
					ast = list[3]
					continue
				}
				ast = list[2]
				continue

			case "quasiquote":
				if len(list) != 2 {
					return nil, malformed("quasiquote", "expected exactly one form")
				}
				return quasiquote(list[1], env)

			case "try*":
				result, handler, catchEnv, err := sfTry(list, env)
				if err != nil {
					return nil, err
				}
				if handler == nil {
					return result, nil
				}
				ast, env = handler, catchEnv
				continue
			}

			// If we're still here, try the special forms map.
			if sf, ok := specialForms[head.Str]; ok {
				return sf(list, env)
			}
		}

		f, err := Eval(list[0], env)
		if err != nil {
			return nil, err
		}

		// Macros see their argument forms unevaluated; the expansion goes
		// round the loop again.
		if f.IsMacro() {
			ast, err = expand(f.Closure, list[1:])
			if err != nil {
				return nil, err
			}
			continue
		}

		if f.Kind != FunctionKind {
			return nil, Faultf(NotAFunction, "cannot call %s %s", f.Kind, printer.PrintStr(list[0], true))
		}

		args, err := evalList(list[1:], env)
		if err != nil {
			return nil, err
		}

		if f.Native != nil {
			return f.Native.Fn(args)
		}

		newEnv, err := Bind(f.Closure.Env, f.Closure.Params, f.Closure.TailParams, args)
		if err != nil {
			return nil, err
		}
		ast = f.Closure.Body
		env = newEnv // TCO
	}
}

// Apply calls any function value with already evaluated arguments.
func Apply(f *Data, args []*Data) (*Data, error) {
	if f.Kind != FunctionKind {
		return nil, Faultf(NotAFunction, "cannot call %s %s", f.Kind, printer.PrintStr(f, true))
	}
	if f.Native != nil {
		return f.Native.Fn(args)
	}

	env, err := Bind(f.Closure.Env, f.Closure.Params, f.Closure.TailParams, args)
	if err != nil {
		return nil, err
	}
	return Eval(f.Closure.Body, env)
}

// MacroExpand expands ast for as long as its head names a macro in env.
func MacroExpand(ast *Data, env *Env) (*Data, error) {
	for {
		mac := macroFor(ast, env)
		if mac == nil {
			return ast, nil
		}

		var err error
		ast, err = expand(mac.Closure, ast.Items()[1:])
		if err != nil {
			return nil, err
		}
	}
}

func macroFor(ast *Data, env *Env) *Data {
	if ast.Kind != ListKind {
		return nil
	}
	head, ok := ast.Seq.Nth(0)
	if !ok || head.Kind != SymbolKind {
		return nil
	}
	if m := env.Find(head.Str); m != nil && m.IsMacro() {
		return m
	}
	return nil
}

func expand(mac *Closure, args []*Data) (*Data, error) {
	env, err := Bind(mac.Env, mac.Params, mac.TailParams, args)
	if err != nil {
		return nil, err
	}
	expansion, err := Eval(mac.Body, env)
	if err != nil {
		return nil, err
	}

	if logger := slog.Default(); logger.Enabled(context.Background(), slog.LevelDebug) {
		logger.Debug("macro expanded", "expansion", printer.PrintStr(expansion, true))
	}
	return expansion, nil
}

func evalList(list []*Data, env *Env) ([]*Data, error) {
	ret := make([]*Data, 0, len(list))
	for _, expr := range list {
		evald, err := Eval(expr, env)
		if err != nil {
			return nil, err
		}

		ret = append(ret, evald)
	}
	return ret, nil
}

func evalHashMap(m *HashMap, env *Env) (*Data, error) {
	kvs := make([]*Data, 0, 2*m.Len())
	var err error
	m.Each(func(k, v *Data) bool {
		var ek, ev *Data
		if ek, err = Eval(k, env); err != nil {
			return false
		}
		if ev, err = Eval(v, env); err != nil {
			return false
		}
		kvs = append(kvs, ek, ev)
		return true
	})
	if err != nil {
		return nil, err
	}
	return NewHashMapData(HashMapFromPairs(kvs)), nil
}

// body turns a run of body forms into one form, wrapping several in a do.
func body(forms []*Data) *Data {
	switch len(forms) {
	case 0:
		return Nil
	case 1:
		return forms[0]
	default:
		return NewList(append([]*Data{Sym("do")}, forms...)...)
	}
}

func malformed(form, format string, args ...any) error {
	return Faultf(MalformedForm, form+": "+format, args...)
}

// IsThrown reports whether err was raised by the language and returns the
// raised value.
func IsThrown(err error) (*Data, bool) {
	var t *Thrown
	if errors.As(err, &t) {
		return t.Value, true
	}
	return nil, false
}
