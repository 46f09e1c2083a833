package lang

import (
	"iter"
	"log/slog"
	"slices"
)

// Frame is one level of variable bindings. It remembers insertion order so
// that listings are stable.
type Frame struct {
	names []string
	vals  map[string]Value
}

// NewFrame returns an empty Frame.
func NewFrame() *Frame {
	return &Frame{vals: make(map[string]Value)}
}

// Get returns the value bound to name in this frame only.
func (f *Frame) Get(name string) (Value, bool) {
	if f == nil {
		return Value{}, false
	}

	v, ok := f.vals[name]

	return v, ok
}

// Has reports whether name is bound in this frame.
func (f *Frame) Has(name string) bool {
	_, ok := f.Get(name)

	return ok
}

// Set binds name to v, keeping the original position of an existing name.
func (f *Frame) Set(name string, v Value) {
	if f.vals == nil {
		f.vals = make(map[string]Value)
	}

	if _, ok := f.vals[name]; !ok {
		f.names = append(f.names, name)
	}

	f.vals[name] = v
}

// Delete removes name from the frame and reports whether it was bound.
func (f *Frame) Delete(name string) bool {
	if !f.Has(name) {
		return false
	}

	delete(f.vals, name)

	f.names = slices.DeleteFunc(f.names, func(s string) bool { return s == name })

	return true
}

// Len returns the number of bindings.
func (f *Frame) Len() int {
	if f == nil {
		return 0
	}

	return len(f.names)
}

// Names returns the bound names in insertion order.
func (f *Frame) Names() []string {
	if f == nil {
		return nil
	}

	return slices.Clone(f.names)
}

// All iterates over the bindings in insertion order.
func (f *Frame) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if f == nil {
			return
		}

		for _, name := range f.names {
			if !yield(name, f.vals[name]) {
				return
			}
		}
	}
}

// Clone returns an independent copy of f. Cloning a nil Frame returns an
// empty Frame.
func (f *Frame) Clone() *Frame {
	c := NewFrame()

	for name, v := range f.All() {
		c.Set(name, v)
	}

	return c
}

// Merge copies every binding of src into f, overwriting existing names.
func (f *Frame) Merge(src *Frame) {
	for name, v := range src.All() {
		f.Set(name, v)
	}
}

// LogValue implements slog.LogValuer.
func (f *Frame) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, f.Len())
	for name, v := range f.All() {
		attrs = append(attrs, slog.String(name, v.String()))
	}

	return slog.GroupValue(attrs...)
}

// Scope is a chained stack of frames. Reads search from the innermost frame
// outward. Writes update the innermost frame that already binds the name, or
// else insert into the innermost frame.
//
// A Scope is not safe for concurrent use.
type Scope struct {
	frames []*Frame
}

// NewScope returns a Scope whose outermost frame is a copy of seed.
// A nil seed yields a single empty frame.
func NewScope(seed *Frame) *Scope {
	return &Scope{frames: []*Frame{seed.Clone()}}
}

func (s *Scope) lookup(name string) *Frame {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if s.frames[i].Has(name) {
			return s.frames[i]
		}
	}

	return nil
}

// Read returns the innermost binding of name, or an error derived from
// [ErrUndefinedVariable].
func (s *Scope) Read(name string) (Value, error) {
	f := s.lookup(name)
	if f == nil {
		return Value{}, ErrUndefinedVariable.With(slog.String("name", name))
	}

	v, _ := f.Get(name)

	return v, nil
}

// Write binds name to v in the innermost frame that already holds name,
// otherwise in the innermost frame.
func (s *Scope) Write(name string, v Value) {
	if f := s.lookup(name); f != nil {
		f.Set(name, v)

		return
	}

	s.frames[len(s.frames)-1].Set(name, v)
}

// Contains reports whether any frame binds name.
func (s *Scope) Contains(name string) bool { return s.lookup(name) != nil }

// Push installs a new empty innermost frame.
func (s *Scope) Push() { s.frames = append(s.frames, NewFrame()) }

// Pop discards the innermost frame. Popping the outermost frame is a
// programming error and panics.
func (s *Scope) Pop() {
	if len(s.frames) <= 1 {
		panic("lang: pop of outermost scope frame")
	}

	s.frames[len(s.frames)-1] = nil
	s.frames = s.frames[:len(s.frames)-1]
}

// Depth returns the number of frames, at least 1.
func (s *Scope) Depth() int { return len(s.frames) }

// Root returns the outermost frame.
func (s *Scope) Root() *Frame { return s.frames[0] }

// Names returns every visible name, innermost first, without duplicates.
func (s *Scope) Names() []string {
	seen := make(map[string]struct{})

	var names []string

	for i := len(s.frames) - 1; i >= 0; i-- {
		for _, name := range s.frames[i].names {
			if _, ok := seen[name]; ok {
				continue
			}

			seen[name] = struct{}{}
			names = append(names, name)
		}
	}

	return names
}
