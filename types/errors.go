package types

import (
	"errors"
	"fmt"
)

// FaultKind classifies interpreter faults: defects in the program being run
// or misuse of a native. Faults are never catchable by try*.
type FaultKind int

const (
	UnboundSymbol FaultKind = iota
	Arity
	Type
	NotAFunction
	MalformedForm
	Index
)

var (
	ErrUnboundSymbol = errors.New("unbound symbol")
	ErrArity         = errors.New("arity mismatch")
	ErrType          = errors.New("type mismatch")
	ErrNotAFunction  = errors.New("not a function")
	ErrMalformedForm = errors.New("malformed special form")
	ErrIndex         = errors.New("index out of range")
	ErrParse         = errors.New("parse error")
)

var faultSentinels = map[FaultKind]error{
	UnboundSymbol: ErrUnboundSymbol,
	Arity:         ErrArity,
	Type:          ErrType,
	NotAFunction:  ErrNotAFunction,
	MalformedForm: ErrMalformedForm,
	Index:         ErrIndex,
}

type Fault struct {
	Kind FaultKind
	Msg  string
}

func (f *Fault) Error() string {
	return fmt.Sprintf("%v: %s", faultSentinels[f.Kind], f.Msg)
}

func (f *Fault) Unwrap() error {
	return faultSentinels[f.Kind]
}

func Faultf(kind FaultKind, format string, args ...any) error {
	return &Fault{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// ParseError reports a reader failure at a 1-based line and column. Incomplete
// is set when the input simply ended too early, which a REPL should answer by
// reading more.
type ParseError struct {
	Line, Col  int
	Msg        string
	Incomplete bool
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %d:%d: %s", e.Line, e.Col, e.Msg)
}

func (e *ParseError) Unwrap() error {
	return ErrParse
}

// Thrown carries a value raised by the language's throw. It is the only error
// try*/catch* intercepts.
type Thrown struct {
	Value *Data
}

func (t *Thrown) Error() string {
	if ThrownRenderer != nil {
		return "uncaught: " + ThrownRenderer(t.Value)
	}
	return fmt.Sprintf("uncaught: %s value", t.Value.Kind)
}

func Throw(v *Data) error {
	return &Thrown{Value: v}
}

// ThrownRenderer formats raised values in error messages. The printer
// installs it.
var ThrownRenderer func(*Data) string
