package types

import "sync/atomic"

// Atom is a single mutable cell.
type Atom struct {
	cell atomic.Pointer[Data]
}

func newAtom(v *Data) *Atom {
	a := &Atom{}
	a.cell.Store(v)
	return a
}

func (a *Atom) Deref() *Data {
	return a.cell.Load()
}

func (a *Atom) Reset(v *Data) *Data {
	a.cell.Store(v)
	return v
}

// Swap replaces the value with f(old). If another writer gets in between, f is
// called again on the newer value, so f may run more than once.
func (a *Atom) Swap(f func(old *Data) (*Data, error)) (*Data, error) {
	for {
		old := a.cell.Load()
		next, err := f(old)
		if err != nil {
			return nil, err
		}
		if a.cell.CompareAndSwap(old, next) {
			return next, nil
		}
	}
}
