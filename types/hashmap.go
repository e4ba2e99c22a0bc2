package types

// HashMap maps keys to values, comparing keys with Equal. It is immutable:
// Assoc and Dissoc return new maps. Entries keep insertion order so rendering
// is stable.
type HashMap struct {
	keys []*Data
	vals []*Data
}

func NewHashMap() *HashMap {
	return &HashMap{}
}

// HashMapFromPairs builds a map from alternating keys and values. Later
// duplicates win.
func HashMapFromPairs(kvs []*Data) *HashMap {
	m := &HashMap{}
	for i := 0; i+1 < len(kvs); i += 2 {
		m.put(kvs[i], kvs[i+1])
	}
	return m
}

func (m *HashMap) index(key *Data) int {
	for i, k := range m.keys {
		if Equal(k, key) {
			return i
		}
	}
	return -1
}

func (m *HashMap) put(key, val *Data) {
	if i := m.index(key); i >= 0 {
		m.vals[i] = val
		return
	}
	m.keys = append(m.keys, key)
	m.vals = append(m.vals, val)
}

func (m *HashMap) clone() *HashMap {
	return &HashMap{
		keys: append([]*Data(nil), m.keys...),
		vals: append([]*Data(nil), m.vals...),
	}
}

func (m *HashMap) Len() int {
	return len(m.keys)
}

func (m *HashMap) Get(key *Data) (*Data, bool) {
	if i := m.index(key); i >= 0 {
		return m.vals[i], true
	}
	return nil, false
}

func (m *HashMap) Assoc(kvs ...*Data) *HashMap {
	cp := m.clone()
	for i := 0; i+1 < len(kvs); i += 2 {
		cp.put(kvs[i], kvs[i+1])
	}
	return cp
}

func (m *HashMap) Dissoc(keys ...*Data) *HashMap {
	cp := &HashMap{}
outer:
	for i, k := range m.keys {
		for _, drop := range keys {
			if Equal(k, drop) {
				continue outer
			}
		}
		cp.keys = append(cp.keys, k)
		cp.vals = append(cp.vals, m.vals[i])
	}
	return cp
}

func (m *HashMap) Keys() []*Data {
	return append([]*Data(nil), m.keys...)
}

func (m *HashMap) Vals() []*Data {
	return append([]*Data(nil), m.vals...)
}

// Each calls f for every entry in insertion order until f returns false.
func (m *HashMap) Each(f func(k, v *Data) bool) {
	for i, k := range m.keys {
		if !f(k, m.vals[i]) {
			return
		}
	}
}

// Equal is true when both maps hold the same key set with equal values.
func (m *HashMap) Equal(o *HashMap) bool {
	return m.equal(o, nil)
}

func (m *HashMap) equal(o *HashMap, open map[seqPair]bool) bool {
	if m.Len() != o.Len() {
		return false
	}
	for i, k := range m.keys {
		v, ok := o.Get(k)
		if !ok || !equal(m.vals[i], v, open) {
			return false
		}
	}
	return true
}
