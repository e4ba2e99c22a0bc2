package core

import (
	. "github.com/bshepherdson/openlisp/types"
)

func checkNumbers(name string, args []*Data) (allInts bool, err error) {
	allInts = true
	for _, a := range args {
		switch a.Kind {
		case IntKind:
		case FloatKind:
			allInts = false
		default:
			return false, typeError(name, "numbers", a)
		}
	}
	return allInts, nil
}

func asFloat(d *Data) float64 {
	if d.Kind == IntKind {
		return float64(d.Int)
	}
	return d.Float
}

// fold applies the integer or float operation left to right. Any float among
// the arguments makes the whole computation float.
func fold(name string, args []*Data, iop func(x, y int64) (int64, error), fop func(x, y float64) float64) (*Data, error) {
	allInts, err := checkNumbers(name, args)
	if err != nil {
		return nil, err
	}

	if allInts {
		n := args[0].Int
		for _, a := range args[1:] {
			if n, err = iop(n, a.Int); err != nil {
				return nil, err
			}
		}
		return Int(n), nil
	}

	f := asFloat(args[0])
	for _, a := range args[1:] {
		f = fop(f, asFloat(a))
	}
	return Float(f), nil
}

func plus(args []*Data) (*Data, error) {
	if len(args) == 0 {
		return Int(0), nil
	}
	return fold("+", args,
		func(x, y int64) (int64, error) { return x + y, nil },
		func(x, y float64) float64 { return x + y })
}

func minus(args []*Data) (*Data, error) {
	if err := arityAtLeast("-", args, 1); err != nil {
		return nil, err
	}
	if len(args) == 1 {
		args = []*Data{Int(0), args[0]}
	}
	return fold("-", args,
		func(x, y int64) (int64, error) { return x - y, nil },
		func(x, y float64) float64 { return x - y })
}

func times(args []*Data) (*Data, error) {
	if len(args) == 0 {
		return Int(1), nil
	}
	return fold("*", args,
		func(x, y int64) (int64, error) { return x * y, nil },
		func(x, y float64) float64 { return x * y })
}

// Integer division by zero raises a catchable error; float division follows
// IEEE 754.
func div(args []*Data) (*Data, error) {
	if err := arityAtLeast("/", args, 1); err != nil {
		return nil, err
	}
	if len(args) == 1 {
		args = []*Data{Int(1), args[0]}
	}
	return fold("/", args,
		func(x, y int64) (int64, error) {
			if y == 0 {
				return 0, Throw(Str("division by zero"))
			}
			return x / y, nil
		},
		func(x, y float64) float64 { return x / y })
}

func mod(args []*Data) (*Data, error) {
	if err := arity("mod", args, 2); err != nil {
		return nil, err
	}
	for _, a := range args {
		if a.Kind != IntKind {
			return nil, typeError("mod", "integers", a)
		}
	}
	if args[1].Int == 0 {
		return nil, Throw(Str("division by zero"))
	}
	m := args[0].Int % args[1].Int
	if m != 0 && (m < 0) != (args[1].Int < 0) {
		m += args[1].Int
	}
	return Int(m), nil
}

// Comparisons
func equal(args []*Data) (*Data, error) {
	if err := arityAtLeast("=", args, 1); err != nil {
		return nil, err
	}
	for i := 1; i < len(args); i++ {
		if !Equal(args[i-1], args[i]) {
			return False, nil
		}
	}
	return True, nil
}

// compare chains a numeric comparison over its arguments: (< a b c) holds
// when a < b and b < c.
func compare(name string, ok func(c int) bool) NativeFn {
	return func(args []*Data) (*Data, error) {
		if err := arityAtLeast(name, args, 1); err != nil {
			return nil, err
		}
		if _, err := checkNumbers(name, args); err != nil {
			return nil, err
		}
		for i := 1; i < len(args); i++ {
			if !ok(cmpNumbers(args[i-1], args[i])) {
				return False, nil
			}
		}
		return True, nil
	}
}

func cmpNumbers(x, y *Data) int {
	if x.Kind == IntKind && y.Kind == IntKind {
		switch {
		case x.Int < y.Int:
			return -1
		case x.Int > y.Int:
			return 1
		}
		return 0
	}
	a, b := asFloat(x), asFloat(y)
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
