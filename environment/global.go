// Package environment builds a ready-to-use interpreter: a root environment
// with the core library bound and the prelude loaded.
package environment

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/bshepherdson/openlisp/core"
	"github.com/bshepherdson/openlisp/evaluator"
	"github.com/bshepherdson/openlisp/printer"
	"github.com/bshepherdson/openlisp/reader"
	. "github.com/bshepherdson/openlisp/types"
)

// Global is one interpreter instance. Separate Globals share nothing but
// interned symbols.
type Global struct {
	env     *Env
	out     io.Writer
	logger  *slog.Logger
	args    []string
	prelude bool
}

type Option func(*Global)

// WithOutput sets where prn and println write. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(g *Global) { g.out = w }
}

// WithLogger sets the logger top-level faults are reported to.
func WithLogger(l *slog.Logger) Option {
	return func(g *Global) { g.logger = l }
}

// WithArgs sets the strings bound to *ARGV*.
func WithArgs(args []string) Option {
	return func(g *Global) { g.args = args }
}

// WithoutPrelude skips the definitions written in the language itself.
func WithoutPrelude() Option {
	return func(g *Global) { g.prelude = false }
}

func New(opts ...Option) (*Global, error) {
	g := &Global{
		env:     NewEnv(nil),
		out:     os.Stdout,
		logger:  slog.Default(),
		prelude: true,
	}
	for _, o := range opts {
		o(g)
	}

	core.Install(g.env, g.out)

	argv := make([]*Data, len(g.args))
	for i, a := range g.args {
		argv[i] = Str(a)
	}
	g.env.Define("*ARGV*", NewList(argv...))

	if g.prelude {
		for _, src := range core.Prelude {
			if _, err := g.Rep(src); err != nil {
				return nil, fmt.Errorf("prelude: %w", err)
			}
		}
	}
	return g, nil
}

// Env is the root environment.
func (g *Global) Env() *Env {
	return g.env
}

// Read parses the first form of src.
func (g *Global) Read(src string) (*Data, error) {
	return reader.ReadStr(src)
}

func (g *Global) Eval(form *Data) (*Data, error) {
	v, err := evaluator.Eval(form, g.env)
	if err != nil && g.logger.Enabled(context.Background(), slog.LevelDebug) {
		g.logger.Debug("evaluation failed", "form", printer.PrintStr(form, true), "err", err)
	}
	return v, err
}

// Rep reads every form in src, evaluates them in order and prints the last
// result readably. Source with no forms prints as nil.
func (g *Global) Rep(src string) (string, error) {
	last := Nil
	for form, err := range reader.New(src).Forms() {
		if err != nil {
			return "", err
		}
		if last, err = g.Eval(form); err != nil {
			return "", err
		}
	}
	return printer.PrintStr(last, true), nil
}

// LoadFile evaluates every form in the file at path and returns the last
// value.
func (g *Global) LoadFile(path string) (*Data, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	last := Nil
	for form, err := range reader.New(string(src)).Forms() {
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
		if last, err = g.Eval(form); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}
	return last, nil
}
