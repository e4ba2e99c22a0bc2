package printer

import (
	"math"
	"strconv"
	"strings"

	"github.com/bshepherdson/openlisp/types"
)

func init() {
	types.ThrownRenderer = func(d *types.Data) string { return PrintStr(d, true) }
}

// PrintStr renders d. Readable output reads back as an equal value; display
// output writes strings raw.
func PrintStr(d *types.Data, readable bool) string {
	p := printer{readable: readable}
	p.write(d)
	return p.sb.String()
}

// Join renders each value and separates them with sep.
func Join(ds []*types.Data, sep string, readable bool) string {
	p := printer{readable: readable}
	for i, d := range ds {
		if i > 0 {
			p.sb.WriteString(sep)
		}
		p.write(d)
	}
	return p.sb.String()
}

// printer carries the output and the lists and atoms currently being
// rendered. A list that conj'd itself, or an atom holding itself, is met
// again while still open and prints as an ellipsis.
type printer struct {
	sb       strings.Builder
	readable bool
	open     map[any]bool
}

func (p *printer) enter(key any) bool {
	if p.open[key] {
		return false
	}
	if p.open == nil {
		p.open = make(map[any]bool)
	}
	p.open[key] = true
	return true
}

func (p *printer) leave(key any) {
	delete(p.open, key)
}

func (p *printer) write(d *types.Data) {
	sb, readable := &p.sb, p.readable
	switch d.Kind {
	case types.NilKind:
		sb.WriteString("nil")

	case types.BoolKind:
		sb.WriteString(strconv.FormatBool(d.Bool))

	case types.IntKind:
		sb.WriteString(strconv.FormatInt(d.Int, 10))

	case types.FloatKind:
		sb.WriteString(formatFloat(d.Float))

	case types.StringKind:
		s := d.Str
		if readable {
			s = strings.Replace(s, "\\", "\\\\", -1)
			s = strings.Replace(s, "\n", "\\n", -1)
			s = strings.Replace(s, "\"", "\\\"", -1)
			s = "\"" + s + "\""
		}
		sb.WriteString(s)

	case types.SymbolKind:
		sb.WriteString(d.Str)

	case types.KeywordKind:
		sb.WriteByte(':')
		sb.WriteString(d.Str)

	case types.ListKind:
		p.writeSeq(d, "(", ")")

	case types.VectorKind:
		p.writeSeq(d, "[", "]")

	case types.HashMapKind:
		sb.WriteByte('{')
		first := true
		d.Map.Each(func(k, v *types.Data) bool {
			if !first {
				sb.WriteByte(' ')
			}
			first = false
			p.write(k)
			sb.WriteByte(' ')
			p.write(v)
			return true
		})
		sb.WriteByte('}')

	case types.AtomKind:
		if !p.enter(d.Atom) {
			sb.WriteString("(atom ...)")
			return
		}
		sb.WriteString("(atom ")
		p.write(d.Atom.Deref())
		sb.WriteByte(')')
		p.leave(d.Atom)

	case types.FunctionKind:
		switch {
		case d.Native != nil:
			sb.WriteString("#<native " + d.Native.Name + ">")
		case d.Closure.IsMacro:
			sb.WriteString("#<macro>")
		default:
			sb.WriteString("#<function>")
		}

	case types.ErrorKind:
		sb.WriteString("#<error ")
		p.write(d.Payload)
		sb.WriteByte('>')

	default:
		panic("unknown Data kind " + d.Kind.String())
	}
}

func (p *printer) writeSeq(d *types.Data, opener, closer string) {
	p.sb.WriteString(opener)
	if !p.enter(d.Seq) {
		p.sb.WriteString("...")
		p.sb.WriteString(closer)
		return
	}
	for i, m := range d.Seq.All() {
		if i > 0 {
			p.sb.WriteByte(' ')
		}
		p.write(m)
	}
	p.leave(d.Seq)
	p.sb.WriteString(closer)
}

// formatFloat keeps a '.' or exponent in the output so the text reads back as
// a float rather than an integer.
func formatFloat(f float64) string {
	format := byte('f')
	if a := math.Abs(f); a != 0 && (a < 1e-4 || a >= 1e21) {
		format = 'e'
	}
	s := strconv.FormatFloat(f, format, -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}
