package types

import (
	"iter"
	"sync/atomic"

	"github.com/benbjohnson/immutable"
)

// List is the payload of List and Vector values. The elements live in a
// persistent trie; appends swap in a new root with compare-and-swap, so any
// number of goroutines may append and iterate without a lock. Readers always
// work from one root and never see a partial append.
type List struct {
	root atomic.Pointer[immutable.List[*Data]]
}

func NewSeq(items ...*Data) *List {
	b := immutable.NewListBuilder[*Data]()
	for _, it := range items {
		b.Append(it)
	}
	l := &List{}
	l.root.Store(b.List())
	return l
}

func (l *List) load() *immutable.List[*Data] {
	return l.root.Load()
}

func (l *List) Len() int {
	return l.load().Len()
}

// Nth returns the element at index i, or false if i is out of range.
func (l *List) Nth(i int) (*Data, bool) {
	r := l.load()
	if i < 0 || i >= r.Len() {
		return nil, false
	}
	return r.Get(i), true
}

// Append adds vs to the end of the list as a single step; concurrent appends
// are ordered but none is lost.
func (l *List) Append(vs ...*Data) {
	for {
		old := l.load()
		next := old
		for _, v := range vs {
			next = next.Append(v)
		}
		if l.root.CompareAndSwap(old, next) {
			return
		}
	}
}

// Snapshot returns an independent List holding the current contents.
func (l *List) Snapshot() *List {
	cp := &List{}
	cp.root.Store(l.load())
	return cp
}

// Slice returns a new List holding elements [start, end).
func (l *List) Slice(start, end int) *List {
	cp := &List{}
	cp.root.Store(l.load().Slice(start, end))
	return cp
}

// Conj returns a new List with vs appended, leaving l untouched.
func (l *List) Conj(vs ...*Data) *List {
	next := l.load()
	for _, v := range vs {
		next = next.Append(v)
	}
	cp := &List{}
	cp.root.Store(next)
	return cp
}

// All iterates over a snapshot in insertion order.
func (l *List) All() iter.Seq2[int, *Data] {
	r := l.load()
	return func(yield func(int, *Data) bool) {
		for it := r.Iterator(); !it.Done(); {
			i, v := it.Next()
			if !yield(i, v) {
				return
			}
		}
	}
}

// Items copies a snapshot into a slice.
func (l *List) Items() []*Data {
	r := l.load()
	out := make([]*Data, 0, r.Len())
	for it := r.Iterator(); !it.Done(); {
		_, v := it.Next()
		out = append(out, v)
	}
	return out
}
