package evaluator

import (
	. "github.com/bshepherdson/openlisp/types"
)

// Implementations of the special forms.
func doDef(list []*Data, env *Env, fun string) (*Data, error) {
	if len(list) != 3 {
		return nil, malformed(fun, "expected a symbol and a value")
	}
	if list[1].Kind != SymbolKind {
		return nil, malformed(fun, "first parameter must be a symbol, got %s", list[1].Kind)
	}

	evald, err := Eval(list[2], env)
	if err != nil {
		return nil, err
	}
	return evald, nil
}

func sfDef(list []*Data, env *Env) (*Data, error) {
	evald, err := doDef(list, env, "def!")
	if err != nil {
		return nil, err
	}

	env.Define(list[1].Str, evald)
	return evald, nil
}

// sfDefmacro binds a macro copy of the closure, leaving any other holder of
// the function with a plain function.
func sfDefmacro(list []*Data, env *Env) (*Data, error) {
	f, err := doDef(list, env, "defmacro!")
	if err != nil {
		return nil, err
	}
	if f.Kind != FunctionKind || f.Closure == nil {
		return nil, Faultf(Type, "defmacro!: expected a closure, got %s", f.Kind)
	}

	c := *f.Closure
	c.IsMacro = true
	mac := NewClosure(&c)
	mac.Meta = f.Meta
	env.Define(list[1].Str, mac)
	return mac, nil
}

func sfSet(list []*Data, env *Env) (*Data, error) {
	evald, err := doDef(list, env, "set!")
	if err != nil {
		return nil, err
	}
	if err := env.Set(list[1].Str, evald); err != nil {
		return nil, err
	}
	return evald, nil
}

func sfFn(list []*Data, env *Env) (*Data, error) {
	// Builds a new function closure.
	if len(list) < 2 || !list[1].IsSequence() {
		return nil, malformed("fn*", "parameters must be a list or vector")
	}

	params := list[1].Items()
	c := &Closure{Env: env, Body: body(list[2:])}
	for i, p := range params {
		if p.Kind != SymbolKind {
			return nil, malformed("fn*", "parameter must be a symbol, got %s", p.Kind)
		}

		if p.Str == "&" {
			if i != len(params)-2 {
				return nil, malformed("fn*", "exactly 1 parameter must follow &; found %d", len(params)-i-1)
			}

			tp := params[i+1]
			if tp.Kind != SymbolKind {
				return nil, malformed("fn*", "tail parameter must be a symbol, got %s", tp.Kind)
			}

			c.TailParams = tp.Str
			break
		}

		c.Params = append(c.Params, p.Str)
	}
	return NewClosure(c), nil
}

func sfQuote(list []*Data, env *Env) (*Data, error) {
	if len(list) != 2 {
		return nil, malformed("quote", "expected exactly one form")
	}
	return list[1], nil
}

func sfMacroexpand(list []*Data, env *Env) (*Data, error) {
	if len(list) != 2 {
		return nil, malformed("macroexpand", "expected exactly one form")
	}
	return MacroExpand(list[1], env)
}

func sfUnquoteOutside(list []*Data, env *Env) (*Data, error) {
	return nil, malformed(list[0].Str, "used outside quasiquote")
}

func sfCatchOutside(list []*Data, env *Env) (*Data, error) {
	return nil, malformed("catch*", "used outside try*")
}

// sfTry evaluates the body of a try*. When the body raises a value and there
// is a catch* clause, it returns the handler and the frame binding the raised
// value so Eval can continue with them in tail position. Interpreter faults
// pass straight through.
func sfTry(list []*Data, env *Env) (result, handler *Data, catchEnv *Env, err error) {
	if len(list) < 2 || len(list) > 3 {
		return nil, nil, nil, malformed("try*", "expected a body and an optional catch* clause")
	}

	var sym string
	if len(list) == 3 {
		clause := list[2].Items()
		if list[2].Kind != ListKind || len(clause) != 3 || !clause[0].IsSymbol("catch*") {
			return nil, nil, nil, malformed("try*", "expected (catch* symbol handler)")
		}
		if clause[1].Kind != SymbolKind {
			return nil, nil, nil, malformed("catch*", "binding must be a symbol, got %s", clause[1].Kind)
		}
		sym, handler = clause[1].Str, clause[2]
	}

	result, err = Eval(list[1], env)
	if err == nil || handler == nil {
		return result, nil, nil, err
	}

	raised, ok := IsThrown(err)
	if !ok {
		return nil, nil, nil, err
	}
	catchEnv = NewEnv(env)
	catchEnv.Define(sym, raised)
	return nil, handler, catchEnv, nil
}

func quasiquote(ast *Data, env *Env) (*Data, error) {
	switch ast.Kind {
	case ListKind:
		items := ast.Items()
		if len(items) > 0 && items[0].IsSymbol("unquote") {
			if len(items) != 2 {
				return nil, malformed("unquote", "expected exactly one form")
			}
			return Eval(items[1], env)
		}
		out, err := quasiquoteSeq(items, env)
		if err != nil {
			return nil, err
		}
		return NewList(out...), nil

	case VectorKind:
		out, err := quasiquoteSeq(ast.Items(), env)
		if err != nil {
			return nil, err
		}
		return NewVector(out...), nil

	case HashMapKind:
		kvs := make([]*Data, 0, 2*ast.Map.Len())
		var err error
		ast.Map.Each(func(k, v *Data) bool {
			var qv *Data
			if qv, err = quasiquote(v, env); err != nil {
				return false
			}
			kvs = append(kvs, k, qv)
			return true
		})
		if err != nil {
			return nil, err
		}
		return NewHashMapData(HashMapFromPairs(kvs)), nil

	default:
		return ast, nil
	}
}

// quasiquoteSeq walks the elements of a quasiquoted sequence, splicing the
// contents of every (splice-unquote x) in place.
func quasiquoteSeq(items []*Data, env *Env) ([]*Data, error) {
	out := make([]*Data, 0, len(items))
	for _, it := range items {
		if it.Kind == ListKind {
			sub := it.Items()
			if len(sub) > 0 && sub[0].IsSymbol("splice-unquote") {
				if len(sub) != 2 {
					return nil, malformed("splice-unquote", "expected exactly one form")
				}
				spliced, err := Eval(sub[1], env)
				if err != nil {
					return nil, err
				}
				switch {
				case spliced.IsSequence():
					out = append(out, spliced.Items()...)
				case spliced.Kind == NilKind:
				default:
					return nil, Faultf(Type, "splice-unquote: expected a list or vector, got %s", spliced.Kind)
				}
				continue
			}
		}

		q, err := quasiquote(it, env)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, nil
}
