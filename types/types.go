package types

import "sync"

// Kind tags the variant held by a Data.
type Kind uint8

const (
	NilKind Kind = iota
	BoolKind
	IntKind
	FloatKind
	StringKind
	SymbolKind
	KeywordKind
	ListKind
	VectorKind
	HashMapKind
	AtomKind
	FunctionKind
	ErrorKind
)

var kindNames = [...]string{
	NilKind:      "nil",
	BoolKind:     "boolean",
	IntKind:      "integer",
	FloatKind:    "float",
	StringKind:   "string",
	SymbolKind:   "symbol",
	KeywordKind:  "keyword",
	ListKind:     "list",
	VectorKind:   "vector",
	HashMapKind:  "hash-map",
	AtomKind:     "atom",
	FunctionKind: "function",
	ErrorKind:    "error",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Data is every value the language can see. Only the fields belonging to
// Kind are meaningful; the rest stay zero.
type Data struct {
	Kind Kind

	Bool  bool
	Int   int64
	Float float64
	Str   string // String contents, Symbol and Keyword names.

	Seq     *List    // List and Vector.
	Map     *HashMap // HashMap.
	Atom    *Atom
	Native  *Native
	Closure *Closure
	Payload *Data // Error.

	Meta *Data
}

// NativeFn is a host-implemented function.
type NativeFn func(args []*Data) (*Data, error)

type Native struct {
	Name string
	Fn   NativeFn
}

// Closure is a user function. TailParams names the variadic parameter and is
// empty when the function takes a fixed number of arguments.
type Closure struct {
	Env        *Env
	Params     []string
	TailParams string
	Body       *Data
	IsMacro    bool
}

var (
	Nil   = &Data{Kind: NilKind}
	True  = &Data{Kind: BoolKind, Bool: true}
	False = &Data{Kind: BoolKind, Bool: false}
)

var symbols sync.Map

// Sym returns the interned symbol called name.
func Sym(name string) *Data {
	if s, ok := symbols.Load(name); ok {
		return s.(*Data)
	}
	s, _ := symbols.LoadOrStore(name, &Data{Kind: SymbolKind, Str: name})
	return s.(*Data)
}

func Keyword(name string) *Data {
	return &Data{Kind: KeywordKind, Str: name}
}

func Int(n int64) *Data {
	return &Data{Kind: IntKind, Int: n}
}

func Float(f float64) *Data {
	return &Data{Kind: FloatKind, Float: f}
}

func Str(s string) *Data {
	return &Data{Kind: StringKind, Str: s}
}

func Bool(b bool) *Data {
	if b {
		return True
	}
	return False
}

func NewList(items ...*Data) *Data {
	return &Data{Kind: ListKind, Seq: NewSeq(items...)}
}

func NewVector(items ...*Data) *Data {
	return &Data{Kind: VectorKind, Seq: NewSeq(items...)}
}

func NewHashMapData(m *HashMap) *Data {
	return &Data{Kind: HashMapKind, Map: m}
}

func NewAtom(v *Data) *Data {
	return &Data{Kind: AtomKind, Atom: newAtom(v)}
}

func NewNative(name string, fn NativeFn) *Data {
	return &Data{Kind: FunctionKind, Native: &Native{Name: name, Fn: fn}}
}

func NewClosure(c *Closure) *Data {
	return &Data{Kind: FunctionKind, Closure: c}
}

func NewError(payload *Data) *Data {
	return &Data{Kind: ErrorKind, Payload: payload}
}

// IsSequence reports whether d can be walked as an ordered sequence.
func (d *Data) IsSequence() bool {
	return d.Kind == ListKind || d.Kind == VectorKind
}

func (d *Data) IsSymbol(name string) bool {
	return d.Kind == SymbolKind && d.Str == name
}

func (d *Data) IsMacro() bool {
	return d.Kind == FunctionKind && d.Closure != nil && d.Closure.IsMacro
}

// Truthy is false only for nil and false.
func (d *Data) Truthy() bool {
	switch d.Kind {
	case NilKind:
		return false
	case BoolKind:
		return d.Bool
	default:
		return true
	}
}

// Items returns a snapshot of a sequence's elements, or nil for any other
// kind.
func (d *Data) Items() []*Data {
	if !d.IsSequence() {
		return nil
	}
	return d.Seq.Items()
}

// WithMeta returns a copy of d carrying meta. The original is left alone, and
// sequence copies hold a snapshot of the current contents.
func WithMeta(d *Data, meta *Data) *Data {
	cp := *d
	cp.Meta = meta
	if d.IsSequence() {
		cp.Seq = d.Seq.Snapshot()
	}
	return &cp
}

// Equal is structural equality. Metadata is ignored; functions and atoms
// compare by identity.
func Equal(a, b *Data) bool {
	return equal(a, b, nil)
}

// seqPair is a pair of sequences under comparison. Meeting the same pair
// again means both sides loop back to the same place, so the pair holds.
type seqPair struct{ a, b *List }

func equal(a, b *Data, open map[seqPair]bool) bool {
	if a == b {
		return true
	}
	if a.Kind != b.Kind {
		return false
	}

	switch a.Kind {
	case NilKind:
		return true
	case BoolKind:
		return a.Bool == b.Bool
	case IntKind:
		return a.Int == b.Int
	case FloatKind:
		return a.Float == b.Float
	case StringKind, SymbolKind, KeywordKind:
		return a.Str == b.Str
	case ListKind, VectorKind:
		pair := seqPair{a.Seq, b.Seq}
		if open[pair] {
			return true
		}
		xs, ys := a.Seq.Items(), b.Seq.Items()
		if len(xs) != len(ys) {
			return false
		}
		if open == nil {
			open = make(map[seqPair]bool)
		}
		open[pair] = true
		defer delete(open, pair)
		for i := range xs {
			if !equal(xs[i], ys[i], open) {
				return false
			}
		}
		return true
	case HashMapKind:
		return a.Map.equal(b.Map, open)
	case AtomKind:
		return a.Atom == b.Atom
	case FunctionKind:
		if a.Closure != nil || b.Closure != nil {
			return a.Closure == b.Closure
		}
		return a.Native == b.Native
	case ErrorKind:
		return equal(a.Payload, b.Payload, open)
	}
	return false
}
