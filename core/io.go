package core

import (
	"fmt"
	"io"
	"os"

	"github.com/bshepherdson/openlisp/printer"
	. "github.com/bshepherdson/openlisp/types"
)

// output holds the writer prn and println print to.
type output struct {
	w io.Writer
}

func (o *output) prn(args []*Data) (*Data, error) {
	if _, err := fmt.Fprintln(o.w, printer.Join(args, " ", true)); err != nil {
		return nil, err
	}
	return Nil, nil
}

func (o *output) println(args []*Data) (*Data, error) {
	if _, err := fmt.Fprintln(o.w, printer.Join(args, " ", false)); err != nil {
		return nil, err
	}
	return Nil, nil
}

func prStr(args []*Data) (*Data, error) {
	return Str(printer.Join(args, " ", true)), nil
}

func fStr(args []*Data) (*Data, error) {
	return Str(printer.Join(args, "", false)), nil
}

// slurp reads a whole file. A missing or unreadable file is raised as a
// catchable error carrying the OS message.
func slurp(args []*Data) (*Data, error) {
	if err := arity("slurp", args, 1); err != nil {
		return nil, err
	}
	if args[0].Kind != StringKind {
		return nil, typeError("slurp", "a file name", args[0])
	}

	b, err := os.ReadFile(args[0].Str)
	if err != nil {
		return nil, Throw(Str(err.Error()))
	}
	return Str(string(b)), nil
}
