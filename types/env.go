package types

// Env is one frame of lexical scope. A frame is not safe for concurrent
// mutation; concurrent evaluators should each work in their own child frame.
type Env struct {
	data  map[string]*Data
	outer *Env
}

func NewEnv(outer *Env) *Env {
	return &Env{map[string]*Data{}, outer}
}

// Bind creates a child of outer binding params to args one to one. When tail
// is non-empty the surplus arguments are collected into a list bound to it.
func Bind(outer *Env, params []string, tail string, args []*Data) (*Env, error) {
	if len(args) < len(params) {
		if tail != "" {
			return nil, Faultf(Arity, "expected at least %d arguments, got %d", len(params), len(args))
		}
		return nil, Faultf(Arity, "expected %d arguments, got %d", len(params), len(args))
	}
	if tail == "" && len(args) > len(params) {
		return nil, Faultf(Arity, "expected %d arguments, got %d", len(params), len(args))
	}

	env := &Env{make(map[string]*Data, len(params)+1), outer}
	for i, p := range params {
		env.data[p] = args[i]
	}
	if tail != "" {
		env.data[tail] = NewList(args[len(params):]...)
	}
	return env, nil
}

func (e *Env) Outer() *Env {
	return e.outer
}

// Define binds key in this frame, replacing any existing local binding.
func (e *Env) Define(key string, value *Data) {
	e.data[key] = value
}

// Set rebinds key in the nearest frame that already binds it.
func (e *Env) Set(key string, value *Data) error {
	for env := e; env != nil; env = env.outer {
		if _, ok := env.data[key]; ok {
			env.data[key] = value
			return nil
		}
	}
	return Faultf(UnboundSymbol, "'%s' not found", key)
}

// Find returns the nearest binding of key, or nil.
func (e *Env) Find(key string) *Data {
	for env := e; env != nil; env = env.outer {
		if value, ok := env.data[key]; ok {
			return value
		}
	}
	return nil
}

func (e *Env) Get(key string) (*Data, error) {
	value := e.Find(key)
	if value == nil {
		return nil, Faultf(UnboundSymbol, "'%s' not found", key)
	}
	return value, nil
}

// Names lists the keys bound directly in this frame.
func (e *Env) Names() []string {
	names := make([]string, 0, len(e.data))
	for k := range e.data {
		names = append(names, k)
	}
	return names
}
