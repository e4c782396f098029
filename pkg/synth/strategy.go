package synth

import (
	"fmt"
	"reflect"

	"github.com/go-delve/runmod/pkg/logflags"
)

// Strategy builds a value of a given type or reports that it can not.
type Strategy interface {
	Name() string
	Construct(t reflect.Type) (reflect.Value, bool)
}

// ConstructorFinder returns the constructor of a type, a zero-argument
// function returning the type or a pointer to it.
type ConstructorFinder interface {
	ConstructorFunc(t reflect.Type) (reflect.Value, bool)
}

// Supplied hands out caller provided strings, in order, to string
// parameters. A []string parameter takes all the remaining ones.
type Supplied struct {
	Args []string
	next int
}

func (s *Supplied) Name() string { return "supplied" }

func (s *Supplied) Construct(t reflect.Type) (reflect.Value, bool) {
	if s.next >= len(s.Args) {
		return reflect.Value{}, false
	}
	switch {
	case t.Kind() == reflect.String:
		v := reflect.ValueOf(s.Args[s.next]).Convert(t)
		s.next++
		return v, true
	case t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.String:
		rest := s.Args[s.next:]
		v := reflect.MakeSlice(t, len(rest), len(rest))
		for i := range rest {
			v.Index(i).Set(reflect.ValueOf(rest[i]).Convert(t.Elem()))
		}
		s.next = len(s.Args)
		return v, true
	}
	return reflect.Value{}, false
}

// Array gives slices an empty slice of their element type and arrays
// their zero value.
type Array struct{}

func (Array) Name() string { return "array" }

func (Array) Construct(t reflect.Type) (reflect.Value, bool) {
	switch t.Kind() {
	case reflect.Slice:
		return reflect.MakeSlice(t, 0, 0), true
	case reflect.Array:
		return reflect.New(t).Elem(), true
	}
	return reflect.Value{}, false
}

// Placeholder passes nil for types nothing can be built for: interfaces,
// funcs and unsafe pointers.
type Placeholder struct{}

func (Placeholder) Name() string { return "placeholder" }

func (Placeholder) Construct(t reflect.Type) (reflect.Value, bool) {
	switch t.Kind() {
	case reflect.Interface, reflect.Func, reflect.UnsafePointer:
		return reflect.Zero(t), true
	}
	return reflect.Value{}, false
}

// Constructor calls the constructor of the type, if the module has one.
// A constructor that panics counts as a failure.
type Constructor struct {
	Finder ConstructorFinder
}

func (Constructor) Name() string { return "constructor" }

func (c Constructor) Construct(t reflect.Type) (v reflect.Value, ok bool) {
	if c.Finder == nil {
		return reflect.Value{}, false
	}
	ctor, found := c.Finder.ConstructorFunc(t)
	if !found {
		return reflect.Value{}, false
	}
	defer func() {
		if ierr := recover(); ierr != nil {
			logflags.InvokeLogger().Debugf("constructor of %v panicked: %v", t, ierr)
			v, ok = reflect.Value{}, false
		}
	}()
	out, err := Call(ctor)
	if err != nil {
		return reflect.Value{}, false
	}
	return Adapt(out, t)
}

// Make creates empty maps and unbuffered channels.
type Make struct{}

func (Make) Name() string { return "make" }

func (Make) Construct(t reflect.Type) (reflect.Value, bool) {
	switch t.Kind() {
	case reflect.Map:
		return reflect.MakeMap(t), true
	case reflect.Chan:
		return reflect.MakeChan(t, 0), true
	}
	return reflect.Value{}, false
}

// Alloc never fails: pointers get a freshly allocated zero pointee, every
// other type its zero value. No constructor logic runs.
type Alloc struct{}

func (Alloc) Name() string { return "alloc" }

func (Alloc) Construct(t reflect.Type) (reflect.Value, bool) {
	if t.Kind() == reflect.Ptr {
		return reflect.New(t.Elem()), true
	}
	return reflect.New(t).Elem(), true
}

// Call calls a zero-argument constructor and returns its first result.
func Call(ctor reflect.Value) (reflect.Value, error) {
	ft := ctor.Type()
	if ft.Kind() != reflect.Func || ft.NumIn() != 0 || ft.NumOut() == 0 {
		return reflect.Value{}, fmt.Errorf("%v is not a constructor", ft)
	}
	return ctor.Call(nil)[0], nil
}

// Adapt converts v, of type T or *T, to t, which is either T or *T.
func Adapt(v reflect.Value, t reflect.Type) (reflect.Value, bool) {
	switch {
	case v.Type() == t:
		return v, true
	case v.Kind() == reflect.Ptr && v.Type().Elem() == t:
		if v.IsNil() {
			return reflect.Value{}, false
		}
		return v.Elem(), true
	case t.Kind() == reflect.Ptr && t.Elem() == v.Type():
		p := reflect.New(v.Type())
		p.Elem().Set(v)
		return p, true
	}
	return reflect.Value{}, false
}
