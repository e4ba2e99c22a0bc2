package reader

import (
	"errors"
	"io"
	"iter"
	"strconv"
	"strings"

	. "github.com/bshepherdson/openlisp/types"
)

type token struct {
	text      string
	line, col int
}

// Reader yields the top-level forms of a source text one at a time.
type Reader struct {
	src    string
	tokens []token
	index  int
	err    error
	lexed  bool
}

func New(src string) *Reader {
	return &Reader{src: src}
}

// IsIncomplete reports whether err means the input ended in the middle of a
// form, so the caller should supply more text rather than give up.
func IsIncomplete(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe) && pe.Incomplete
}

// ReadStr reads the first form in input. Input holding no forms at all reads
// as nil.
func ReadStr(input string) (*Data, error) {
	form, err := New(input).Next()
	if err == io.EOF {
		return Nil, nil
	}
	return form, err
}

// Next returns the next top-level form, or io.EOF when none remain.
func (r *Reader) Next() (*Data, error) {
	if !r.lexed {
		r.tokens, r.err = tokenizer(r.src)
		r.lexed = true
	}
	if _, ok := r.peek(); !ok {
		// A lexing failure only matters once the forms before it are used up.
		if r.err != nil {
			return nil, r.err
		}
		return nil, io.EOF
	}
	return r.readForm()
}

// Reset rewinds the reader to the first form.
func (r *Reader) Reset() {
	r.index = 0
}

// Forms iterates over the remaining forms, stopping after the first error.
func (r *Reader) Forms() iter.Seq2[*Data, error] {
	return func(yield func(*Data, error) bool) {
		for {
			form, err := r.Next()
			if err == io.EOF {
				return
			}
			if !yield(form, err) || err != nil {
				return
			}
		}
	}
}

func (r *Reader) next() (token, bool) {
	t, ok := r.peek()
	if !ok {
		return t, false
	}

	r.index++
	return t, true
}

func (r *Reader) peek() (token, bool) {
	if r.index >= len(r.tokens) {
		return token{text: "EOF"}, false
	}
	return r.tokens[r.index], true
}

// eof builds the error for input that stopped too early. If lexing itself
// failed (an unterminated string, say), that error is the better report.
func (r *Reader) eof(msg string) error {
	if r.err != nil {
		return r.err
	}
	line, col := position(r.src, len(r.src))
	return &ParseError{Line: line, Col: col, Msg: msg, Incomplete: true}
}

func position(input string, pos int) (line, col int) {
	line = 1 + strings.Count(input[:pos], "\n")
	col = pos - strings.LastIndexByte(input[:pos], '\n')
	return line, col
}

func tokenizer(input string) ([]token, error) {
	t := make([]token, 0, 16)
	emit := func(pos int, s string) {
		line, col := position(input, pos)
		t = append(t, token{s, line, col})
	}

	for pos := 0; pos < len(input); {
		c := input[pos]
		switch c {
		case ' ', '\r', '\n', '\t', ',':
			pos++
			continue // Whitespace and commas are skipped.

		case '~':
			if pos+1 < len(input) && input[pos+1] == '@' { // ~@ is a thing
				emit(pos, "~@")
				pos += 2
			} else {
				emit(pos, "~") // so is just ~
				pos++
			}

		case '[', ']', '{', '}', '(', ')', '\'', '`', '^', '@':
			emit(pos, string(c))
			pos++

		case '"': // Quoted strings as one token, escapes already resolved.
			wasSlash := false
			foundEnd := false
			out := []byte{'"'}
			for end := pos + 1; end < len(input); end++ {
				if !wasSlash && input[end] == '"' {
					foundEnd = true
					out = append(out, '"')
					emit(pos, string(out))
					pos = end + 1
					break
				}

				if wasSlash {
					if input[end] == 'n' {
						out = append(out, '\n')
					} else {
						out = append(out, input[end])
					}
					wasSlash = false
				} else {
					if input[end] == '\\' {
						wasSlash = true
					} else {
						out = append(out, input[end])
					}
				}
			}

			if !foundEnd {
				line, col := position(input, pos)
				return t, &ParseError{Line: line, Col: col, Msg: "expected '\"', got EOF", Incomplete: true}
			}

		case ';': // Comments run to the end of the line.
			end := strings.IndexByte(input[pos:], '\n')
			if end < 0 {
				return t, nil
			}
			pos += end

		default:
			// Keep going until we see something special.
			end := pos + 1
		nonspecLoop:
			for end < len(input) {
				switch input[end] {
				case ' ', '\t', '\r', '\n', ',', ';', '(', ')', '[', ']', '{', '}', '~', '\'', '"', '@', '^', '`':
					break nonspecLoop
				}
				end++
			}
			emit(pos, input[pos:end])
			pos = end
		}
	}
	return t, nil
}

func (r *Reader) readForm() (*Data, error) {
	t, ok := r.peek()
	if !ok {
		return nil, r.eof("expected form, got EOF")
	}

	switch t.text {
	case "'":
		return r.nextWrapped("quote")
	case "`":
		return r.nextWrapped("quasiquote")
	case "~":
		return r.nextWrapped("unquote")
	case "~@":
		return r.nextWrapped("splice-unquote")
	case "@":
		return r.nextWrapped("deref")
	case "^":
		r.next()
		meta, err := r.readForm()
		if err != nil {
			return nil, err
		}
		form, err := r.readForm()
		if err != nil {
			return nil, err
		}
		return NewList(Sym("with-meta"), form, meta), nil
	case "(":
		items, err := r.readSeq(")")
		if err != nil {
			return nil, err
		}
		return NewList(items...), nil
	case "[":
		items, err := r.readSeq("]")
		if err != nil {
			return nil, err
		}
		return NewVector(items...), nil
	case "{":
		items, err := r.readSeq("}")
		if err != nil {
			return nil, err
		}
		if len(items)%2 != 0 {
			return nil, &ParseError{Line: t.line, Col: t.col, Msg: "hash-map literal needs an even number of forms"}
		}
		return NewHashMapData(HashMapFromPairs(items)), nil
	case ")", "]", "}":
		return nil, &ParseError{Line: t.line, Col: t.col, Msg: "unexpected '" + t.text + "'"}
	default:
		return r.readAtom()
	}
}

func (r *Reader) nextWrapped(wrapper string) (*Data, error) {
	r.next()
	next, err := r.readForm() // Read the next form.
	if err != nil {
		return nil, err
	}
	return NewList(Sym(wrapper), next), nil
}

func (r *Reader) readSeq(closer string) ([]*Data, error) {
	open, _ := r.next() // Skip the opener.
	ret := []*Data{}
	for {
		t, ok := r.peek()
		if !ok {
			return nil, r.eof("expected '" + closer + "' but got EOF")
		}
		if t.text == closer {
			r.next()
			return ret, nil
		}
		switch t.text {
		case ")", "]", "}":
			return nil, &ParseError{Line: t.line, Col: t.col,
				Msg: "unexpected '" + t.text + "' closing '" + open.text + "'"}
		}

		f, err := r.readForm()
		if err != nil {
			return nil, err
		}
		ret = append(ret, f)
	}
}

func (r *Reader) readAtom() (*Data, error) {
	t, _ := r.next()
	s := t.text

	if s[0] == '"' {
		return Str(s[1 : len(s)-1]), nil
	}
	if looksNumeric(s) {
		n, err := strconv.ParseInt(s, 10, 64)
		if err == nil {
			return Int(n), nil
		}
		if errors.Is(err, strconv.ErrRange) {
			return nil, &ParseError{Line: t.line, Col: t.col, Msg: "integer out of range '" + s + "'"}
		}
		f, err := strconv.ParseFloat(s, 64)
		if err == nil {
			return Float(f), nil
		}
		if errors.Is(err, strconv.ErrRange) {
			return nil, &ParseError{Line: t.line, Col: t.col, Msg: "number out of range '" + s + "'"}
		}
	}
	if s[0] == ':' {
		return Keyword(s[1:]), nil
	}

	switch s {
	case "nil":
		return Nil, nil
	case "true":
		return True, nil
	case "false":
		return False, nil
	}
	return Sym(s), nil
}

// looksNumeric matches tokens starting with a digit, or a sign or dot followed
// by one. Tokens that look numeric but do not parse fall through to symbols.
func looksNumeric(s string) bool {
	i := 0
	if s[0] == '-' || s[0] == '+' {
		i++
	}
	if i < len(s) && s[i] == '.' {
		i++
	}
	return i < len(s) && '0' <= s[i] && s[i] <= '9'
}
