package core

import (
	"github.com/bshepherdson/openlisp/evaluator"
	. "github.com/bshepherdson/openlisp/types"
)

func atom(args []*Data) (*Data, error) {
	if err := arity("atom", args, 1); err != nil {
		return nil, err
	}
	return NewAtom(args[0]), nil
}

func atomQ(args []*Data) (*Data, error) {
	if err := arity("atom?", args, 1); err != nil {
		return nil, err
	}
	return Bool(args[0].Kind == AtomKind), nil
}

func atomArg(name string, d *Data) (*Atom, error) {
	if d.Kind != AtomKind {
		return nil, typeError(name, "an atom", d)
	}
	return d.Atom, nil
}

func deref(args []*Data) (*Data, error) {
	if err := arity("deref", args, 1); err != nil {
		return nil, err
	}
	a, err := atomArg("deref", args[0])
	if err != nil {
		return nil, err
	}
	return a.Deref(), nil
}

func atomReset(args []*Data) (*Data, error) {
	if err := arity("reset!", args, 2); err != nil {
		return nil, err
	}
	a, err := atomArg("reset!", args[0])
	if err != nil {
		return nil, err
	}
	return a.Reset(args[1]), nil
}

// atomSwap stores (f old extra...) in the atom. Under contention f runs again
// on the newer value.
func atomSwap(args []*Data) (*Data, error) {
	if err := arityAtLeast("swap!", args, 2); err != nil {
		return nil, err
	}
	a, err := atomArg("swap!", args[0])
	if err != nil {
		return nil, err
	}

	f, extra := args[1], args[2:]
	return a.Swap(func(old *Data) (*Data, error) {
		callArgs := make([]*Data, 0, len(extra)+1)
		callArgs = append(callArgs, old)
		callArgs = append(callArgs, extra...)
		return evaluator.Apply(f, callArgs)
	})
}
