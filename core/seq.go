package core

import (
	"github.com/bshepherdson/openlisp/evaluator"
	. "github.com/bshepherdson/openlisp/types"
)

// seqItems accepts a list, a vector or nil (the empty sequence).
func seqItems(name string, d *Data) ([]*Data, error) {
	switch {
	case d.IsSequence():
		return d.Items(), nil
	case d.Kind == NilKind:
		return nil, nil
	default:
		return nil, typeError(name, "a list or vector", d)
	}
}

// Lists
func mkList(args []*Data) (*Data, error) {
	return NewList(args...), nil
}

func mkVector(args []*Data) (*Data, error) {
	return NewVector(args...), nil
}

func sequentialQ(args []*Data) (*Data, error) {
	if err := arity("sequential?", args, 1); err != nil {
		return nil, err
	}
	return Bool(args[0].IsSequence()), nil
}

func emptyQ(args []*Data) (*Data, error) {
	if err := arity("empty?", args, 1); err != nil {
		return nil, err
	}
	n, err := length("empty?", args[0])
	if err != nil {
		return nil, err
	}
	return Bool(n == 0), nil
}

func count(args []*Data) (*Data, error) {
	if err := arity("count", args, 1); err != nil {
		return nil, err
	}
	n, err := length("count", args[0])
	if err != nil {
		return nil, err
	}
	return Int(int64(n)), nil
}

func length(name string, d *Data) (int, error) {
	switch d.Kind {
	case NilKind:
		return 0, nil
	case ListKind, VectorKind:
		return d.Seq.Len(), nil
	case HashMapKind:
		return d.Map.Len(), nil
	case StringKind:
		return len([]rune(d.Str)), nil
	default:
		return 0, typeError(name, "a collection", d)
	}
}

func cons(args []*Data) (*Data, error) {
	if err := arity("cons", args, 2); err != nil {
		return nil, err
	}
	tail, err := seqItems("cons", args[1])
	if err != nil {
		return nil, err
	}

	list := make([]*Data, 0, len(tail)+1)
	list = append(list, args[0])
	list = append(list, tail...)
	return NewList(list...), nil
}

func concat(args []*Data) (*Data, error) {
	out := []*Data{}
	for _, a := range args {
		items, err := seqItems("concat", a)
		if err != nil {
			return nil, err
		}
		out = append(out, items...)
	}
	return NewList(out...), nil
}

// conj appends to a list in place and returns it; every holder of the list
// sees the new elements. Vectors are left alone and a longer copy returned.
func conj(args []*Data) (*Data, error) {
	if err := arityAtLeast("conj", args, 1); err != nil {
		return nil, err
	}
	coll, xs := args[0], args[1:]
	switch coll.Kind {
	case ListKind:
		coll.Seq.Append(xs...)
		return coll, nil
	case VectorKind:
		return &Data{Kind: VectorKind, Seq: coll.Seq.Conj(xs...), Meta: coll.Meta}, nil
	case NilKind:
		return NewList(xs...), nil
	default:
		return nil, typeError("conj", "a list or vector", coll)
	}
}

func nth(args []*Data) (*Data, error) {
	if err := arity("nth", args, 2); err != nil {
		return nil, err
	}
	if !args[0].IsSequence() {
		return nil, typeError("nth", "a list or vector", args[0])
	}
	if args[1].Kind != IntKind {
		return nil, typeError("nth", "an integer index", args[1])
	}

	idx := args[1].Int
	v, ok := args[0].Seq.Nth(int(idx))
	if !ok || idx != int64(int(idx)) {
		return nil, Faultf(Index, "nth: index %d out of range for length %d", idx, args[0].Seq.Len())
	}
	return v, nil
}

func first(args []*Data) (*Data, error) {
	if err := arity("first", args, 1); err != nil {
		return nil, err
	}
	if args[0].Kind == NilKind {
		return Nil, nil
	}
	if !args[0].IsSequence() {
		return nil, typeError("first", "a list or vector", args[0])
	}

	if v, ok := args[0].Seq.Nth(0); ok {
		return v, nil
	}
	return Nil, nil
}

func rest(args []*Data) (*Data, error) {
	if err := arity("rest", args, 1); err != nil {
		return nil, err
	}
	if args[0].Kind == NilKind {
		return NewList(), nil
	}
	if !args[0].IsSequence() {
		return nil, typeError("rest", "a list or vector", args[0])
	}

	s := args[0].Seq
	if s.Len() == 0 {
		return NewList(), nil
	}
	return &Data{Kind: ListKind, Seq: s.Slice(1, s.Len())}, nil
}

func vec(args []*Data) (*Data, error) {
	if err := arity("vec", args, 1); err != nil {
		return nil, err
	}
	items, err := seqItems("vec", args[0])
	if err != nil {
		return nil, err
	}
	return NewVector(items...), nil
}

// apply calls f with the leading arguments followed by the elements of the
// final sequence.
func apply(args []*Data) (*Data, error) {
	if err := arityAtLeast("apply", args, 2); err != nil {
		return nil, err
	}
	last := args[len(args)-1]
	tail, err := seqItems("apply", last)
	if err != nil {
		return nil, err
	}

	callArgs := make([]*Data, 0, len(args)-2+len(tail))
	callArgs = append(callArgs, args[1:len(args)-1]...)
	callArgs = append(callArgs, tail...)
	return evaluator.Apply(args[0], callArgs)
}

func mapFn(args []*Data) (*Data, error) {
	if err := arity("map", args, 2); err != nil {
		return nil, err
	}
	items, err := seqItems("map", args[1])
	if err != nil {
		return nil, err
	}

	out := make([]*Data, 0, len(items))
	for _, it := range items {
		v, err := evaluator.Apply(args[0], []*Data{it})
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return NewList(out...), nil
}

// Hash maps
func hashMap(args []*Data) (*Data, error) {
	if len(args)%2 != 0 {
		return nil, Faultf(Arity, "hash-map expects an even number of arguments, got %d", len(args))
	}
	return NewHashMapData(HashMapFromPairs(args)), nil
}

func mapArg(name string, d *Data) (*HashMap, error) {
	switch d.Kind {
	case HashMapKind:
		return d.Map, nil
	case NilKind:
		return NewHashMap(), nil
	default:
		return nil, typeError(name, "a hash-map", d)
	}
}

func assoc(args []*Data) (*Data, error) {
	if err := arityAtLeast("assoc", args, 1); err != nil {
		return nil, err
	}
	if len(args)%2 != 1 {
		return nil, Faultf(Arity, "assoc expects a map followed by key/value pairs")
	}
	m, err := mapArg("assoc", args[0])
	if err != nil {
		return nil, err
	}
	return NewHashMapData(m.Assoc(args[1:]...)), nil
}

func dissoc(args []*Data) (*Data, error) {
	if err := arityAtLeast("dissoc", args, 1); err != nil {
		return nil, err
	}
	m, err := mapArg("dissoc", args[0])
	if err != nil {
		return nil, err
	}
	return NewHashMapData(m.Dissoc(args[1:]...)), nil
}

func get(args []*Data) (*Data, error) {
	if len(args) != 2 && len(args) != 3 {
		return nil, Faultf(Arity, "get expects 2 or 3 arguments, got %d", len(args))
	}
	m, err := mapArg("get", args[0])
	if err != nil {
		return nil, err
	}
	if v, ok := m.Get(args[1]); ok {
		return v, nil
	}
	if len(args) == 3 {
		return args[2], nil
	}
	return Nil, nil
}

func containsQ(args []*Data) (*Data, error) {
	if err := arity("contains?", args, 2); err != nil {
		return nil, err
	}
	m, err := mapArg("contains?", args[0])
	if err != nil {
		return nil, err
	}
	_, ok := m.Get(args[1])
	return Bool(ok), nil
}

func keys(args []*Data) (*Data, error) {
	if err := arity("keys", args, 1); err != nil {
		return nil, err
	}
	m, err := mapArg("keys", args[0])
	if err != nil {
		return nil, err
	}
	return NewList(m.Keys()...), nil
}

func vals(args []*Data) (*Data, error) {
	if err := arity("vals", args, 1); err != nil {
		return nil, err
	}
	m, err := mapArg("vals", args[0])
	if err != nil {
		return nil, err
	}
	return NewList(m.Vals()...), nil
}
