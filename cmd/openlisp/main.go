// Command openlisp runs Lisp programs and an interactive REPL.
//
// Usage:
//
//	openlisp [flags] [file [args...]]
//
// With a file, the file is loaded with the remaining arguments bound to
// *ARGV*. With -e, the expression is evaluated and its value printed.
// Otherwise a REPL starts.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/davecgh/go-spew/spew"
	"github.com/peterh/liner"

	"github.com/bshepherdson/openlisp/environment"
	"github.com/bshepherdson/openlisp/evaluator"
	"github.com/bshepherdson/openlisp/printer"
	"github.com/bshepherdson/openlisp/reader"
)

const (
	promptMain  = "user> "
	promptCont  = "  ... "
	historyFile = ".openlisp_history"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(argv []string) int {
	fs := flag.NewFlagSet("openlisp", flag.ContinueOnError)
	expr := fs.String("e", "", "evaluate `expr` and print the result")
	debug := fs.Bool("debug", false, "log macro expansions and evaluation faults to stderr")
	history := fs.String("history", "", "REPL history `file` (default ~/"+historyFile+")")
	if err := fs.Parse(argv); err != nil {
		return 2
	}

	level := slog.LevelWarn
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	var args []string
	if fs.NArg() > 1 {
		args = fs.Args()[1:]
	}
	g, err := environment.New(environment.WithLogger(logger), environment.WithArgs(args))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	switch {
	case *expr != "":
		out, err := g.Rep(*expr)
		if err != nil {
			report(err)
			return 1
		}
		fmt.Println(out)
		return 0

	case fs.NArg() > 0:
		if _, err := g.LoadFile(fs.Arg(0)); err != nil {
			report(err)
			return 1
		}
		return 0
	}

	path := *history
	if path == "" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, historyFile)
	}
	return repl(g, path)
}

func report(err error) {
	if v, ok := evaluator.IsThrown(err); ok {
		fmt.Fprintf(os.Stderr, "uncaught error: %s\n", printer.PrintStr(v, false))
		return
	}
	fmt.Fprintln(os.Stderr, err)
}

func repl(g *environment.Global, histPath string) int {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	for {
		src, ok := readUntilComplete(ln, promptMain, promptCont)
		if !ok {
			fmt.Println()
			return 0
		}

		trimmed := strings.TrimSpace(src)
		switch {
		case trimmed == "":
			continue
		case trimmed == ":quit":
			return 0
		case strings.HasPrefix(trimmed, ":dump "):
			dump(g, strings.TrimPrefix(trimmed, ":dump "))
			ln.AppendHistory(trimmed)
			continue
		case strings.HasPrefix(trimmed, ":"):
			fmt.Println("unknown command. Use :dump <expr> or :quit.")
			continue
		}

		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
		out, err := g.Rep(src)
		if err != nil {
			report(err)
			continue
		}
		fmt.Println(out)
	}
}

// dump evaluates src and prints the Go structure of the result.
func dump(g *environment.Global, src string) {
	form, err := g.Read(src)
	if err != nil {
		report(err)
		return
	}
	v, err := g.Eval(form)
	if err != nil {
		report(err)
		return
	}
	cfg := spew.ConfigState{Indent: "  ", MaxDepth: 4, DisablePointerAddresses: true}
	cfg.Dump(v)
}

// readUntilComplete keeps prompting until the buffered text no longer ends in
// the middle of a form.
func readUntilComplete(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder

	for {
		p := prompt
		if b.Len() > 0 {
			p = cont
		}
		line, err := ln.Prompt(p)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if !incomplete(src) {
			return src, true
		}
	}
}

func incomplete(src string) bool {
	for _, err := range reader.New(src).Forms() {
		if err != nil {
			return reader.IsIncomplete(err)
		}
	}
	return false
}
